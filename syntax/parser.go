// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "fmt"

// Option configures a Parser built by NewParser, following the teacher's
// functional-options idiom.
type Option func(*Parser)

// WithAliases supplies the alias table the parser consults for alias
// substitution (spec §4.3). Without this option, no aliases are ever
// recognized.
func WithAliases(t AliasTable) Option {
	return func(p *Parser) { p.aliases = t }
}

// WithPosixConformant disables the non-POSIX >>| and <<< extensions
// (spec §9's redesign note on RedirPipe/RedirString), rejecting them as
// UnexpectedToken instead.
func WithPosixConformant(posix bool) Option {
	return func(p *Parser) { p.posixConformant = posix }
}

// WithKeepComments records whether comments should be retained. This core
// never attaches comments to the AST (spec §3 has no Comment node), and
// the recorded flag is not consulted by the lexer or the parser: comments
// are always skipped. It is kept for parity with the teacher's own
// KeepComments knob.
func WithKeepComments(keep bool) Option {
	return func(p *Parser) { p.keepComments = keep }
}

// Parser parses POSIX shell source into an AST, following spec §4.
// A Parser is not safe for concurrent use on more than one Parse call at
// a time (spec §5: single-threaded, cooperative).
type Parser struct {
	aliases         AliasTable
	posixConformant bool
	keepComments    bool

	src *Source
	lex *Lexer
	tok Token

	guard *aliasGuard

	pendingFills []pendingFill
}

type pendingFill struct {
	body *HereDocBody[HereDoc]
	slot **HereDoc
}

// NewParser builds a Parser configured by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{aliases: noAliases{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads one complete program from r, tagging diagnostics and
// Locations with name, and returns its AST. Parse is total: on any
// malformed input it returns a nil *File and a non-nil *ParseError (spec
// §4.9); io errors from r surface as ErrorKind IOError the same way.
func (p *Parser) Parse(r LineReader, name string) (*File, error) {
	return p.parse(r, name, SourceFile)
}

// ParseString is a convenience wrapper over Parse for in-memory source.
func (p *Parser) ParseString(src, name string) (*File, error) {
	return p.parse(NewStringReader(src), name, SourceString)
}

func (p *Parser) parse(r LineReader, name string, kind SourceKind) (*File, error) {
	p.src = NewSource(r, kind, name)
	p.lex = NewLexer(p.src)
	p.guard = newAliasGuard()
	p.pendingFills = nil

	if perr := p.advance(); perr != nil {
		return nil, perr
	}

	var f File
	for {
		if perr := p.skipLeadingNewlines(); perr != nil {
			return nil, perr
		}
		if p.tok.Kind == TokEOF {
			break
		}
		line, perr := p.list(isTopLevelStop)
		if perr != nil {
			return nil, perr
		}
		if len(line) > 0 {
			f.Lines = append(f.Lines, line)
		}
		if p.tok.Kind == TokEOF {
			break
		}
		if p.tok.Kind == TokNewline {
			if perr := p.advance(); perr != nil {
				return nil, perr
			}
			continue
		}
		return nil, p.unexpected()
	}
	return &f, nil
}

// advance reads the next token from the lexer into p.tok, draining any
// here-document fills the lexer resolved while producing it (which
// happens exactly when that token is the newline ending their line).
func (p *Parser) advance() *ParseError {
	tok, perr := p.lex.Next()
	if perr != nil {
		return perr
	}
	p.tok = tok
	if tok.Kind == TokNewline {
		p.drainFills()
	}
	return nil
}

func (p *Parser) drainFills() {
	for _, f := range p.pendingFills {
		f.body.Doc = **f.slot
	}
	p.pendingFills = nil
}

func (p *Parser) skipLeadingNewlines() *ParseError {
	for p.tok.Kind == TokNewline {
		if perr := p.advance(); perr != nil {
			return perr
		}
	}
	return nil
}

func (p *Parser) unexpected() *ParseError {
	text := ""
	switch p.tok.Kind {
	case TokWord, TokIoNumber:
		if lit, ok := p.tok.Word.Literal(); ok {
			text = fmt.Sprintf("unexpected token %q", lit)
		}
	case TokOperator:
		text = fmt.Sprintf("unexpected token %q", p.tok.Op.String())
	}
	err := newErr(UnexpectedToken, p.tok.Loc)
	err.Text = text
	return err
}

// atKeyword reports whether the current token is the reserved word kw.
// atKeyword reports whether the current token is the literal reserved
// word kw. It checks the word's text directly rather than the lexer's
// HasKeyword tag: every call site already sits at a grammar position
// where a reserved word is expected (the start of a command, or the
// point in a list where a body-closing word like "fi"/"done"/"esac"
// would appear), so the extra cmdStart bookkeeping the lexer uses to
// decide HasKeyword is redundant here and would otherwise miss the
// common case of a closing keyword following a command with no explicit
// separator (e.g. "do echo hi done" — see the grammar of spec §3's
// CompoundCommand shapes).
func (p *Parser) atKeyword(kw Keyword) bool {
	if p.tok.Kind != TokWord {
		return false
	}
	lit, ok := p.tok.Word.Literal()
	if !ok {
		return false
	}
	k, ok := lookupKeyword(lit)
	return ok && k == kw
}

func (p *Parser) atOp(op Operator) bool {
	return p.tok.Kind == TokOperator && p.tok.Op == op
}

// isTopLevelStop never stops a top-level list early; it only ends at a
// newline or EOF, both handled by list() itself.
func isTopLevelStop(p *Parser) bool { return false }

func stopAtKeywords(kws ...Keyword) func(*Parser) bool {
	return func(p *Parser) bool {
		for _, kw := range kws {
			if p.atKeyword(kw) {
				return true
			}
		}
		return false
	}
}

// list parses a sequence of and-or-lists separated by ';', '&', or
// newlines, stopping when stop(p) holds, or at EOF, at an unquoted ')'
// (the subshell terminator), or at ";;" (the case-item terminator) —
// both recognized structurally rather than via stop so every caller gets
// them for free.
func (p *Parser) list(stop func(*Parser) bool) (List[HereDoc], *ParseError) {
	var out List[HereDoc]
	for {
		if perr := p.skipLeadingNewlines(); perr != nil {
			return nil, perr
		}
		// An alias sitting at this position may itself resolve to a
		// clause-delimiting reserved word (spec §8's alias DO -> do
		// scenario), so it must be substituted before stop(p) gets to
		// judge whether this position ends the list.
		if perr := p.resolvePendingAlias(); perr != nil {
			return nil, perr
		}
		if p.tok.Kind == TokEOF || stop(p) || p.atOp(RParen) || p.atOp(DblSemi) {
			return out, nil
		}
		andOr, perr := p.andOrList()
		if perr != nil {
			return nil, perr
		}
		item := Item[HereDoc]{AndOr: andOr}
		if p.atOp(And) {
			loc := p.tok.Loc
			item.Async = &loc
			if perr := p.advance(); perr != nil {
				return nil, perr
			}
		} else if p.atOp(Semicolon) {
			if perr := p.advance(); perr != nil {
				return nil, perr
			}
		}
		out = append(out, item)
	}
}

// maybeCompoundList parses a list that is allowed to be entirely empty
// (spec §8, grounded in the teacher-equivalent "maybe_compound_list"
// behavior of treating a body of only blank lines as the empty List).
func (p *Parser) maybeCompoundList(stop func(*Parser) bool) (List[HereDoc], *ParseError) {
	return p.list(stop)
}

func (p *Parser) andOrList() (*AndOrList[HereDoc], *ParseError) {
	first, perr := p.pipeline()
	if perr != nil {
		return nil, perr
	}
	result := &AndOrList[HereDoc]{First: first}
	for p.atOp(AndAnd) || p.atOp(OrOr) {
		op := AndThen
		if p.tok.Op == OrOr {
			op = OrElse
		}
		if perr := p.advance(); perr != nil {
			return nil, perr
		}
		if perr := p.skipLeadingNewlines(); perr != nil {
			return nil, perr
		}
		next, perr := p.pipeline()
		if perr != nil {
			return nil, perr
		}
		result.Rest = append(result.Rest, AndOrPair[HereDoc]{Op: op, Pipeline: next})
	}
	return result, nil
}

// canStartCommand reports whether the current token could begin parsing
// a Command: a word, an I/O number, an explicit redirection, or a
// subshell's '('.
func (p *Parser) canStartCommand() bool {
	switch p.tok.Kind {
	case TokWord, TokIoNumber:
		return true
	case TokOperator:
		return p.tok.Op == LParen || isRedirOperator(p.tok.Op)
	}
	return false
}

func (p *Parser) pipeline() (Pipeline[HereDoc], *ParseError) {
	var pipe Pipeline[HereDoc]
	if p.atKeyword(KwBang) {
		pipe.Negation = true
		pipe.NegPos = p.tok.Loc
		if perr := p.advance(); perr != nil {
			return pipe, perr
		}
		if !p.canStartCommand() {
			return pipe, newErr(EmptyPipeline, p.tok.Loc)
		}
	}
	cmd, perr := p.command()
	if perr != nil {
		return pipe, perr
	}
	pipe.Commands = append(pipe.Commands, cmd)
	for p.atOp(Or) {
		if perr := p.advance(); perr != nil {
			return pipe, perr
		}
		if perr := p.skipLeadingNewlines(); perr != nil {
			return pipe, perr
		}
		next, perr := p.command()
		if perr != nil {
			return pipe, perr
		}
		pipe.Commands = append(pipe.Commands, next)
	}
	return pipe, nil
}

// command parses one Command, substituting and retrying on an alias hit
// at the command-word position (spec §4.3).
func (p *Parser) command() (Command[HereDoc], *ParseError) {
	if perr := p.resolvePendingAlias(); perr != nil {
		return nil, perr
	}
	return p.commandOnce()
}

// resolvePendingAlias substitutes the alias sitting at the current token,
// looping to follow alias chains (one alias's value beginning with
// another alias name), until the current token is no longer an alias
// hit. Every position that inspects the current token to decide between
// "this is a reserved word" and "this starts a command" must call this
// first: an alias's replacement text can itself be a reserved word
// (spec §8's alias DO -> do scenario substituting a clause delimiter,
// not just an ordinary command name).
func (p *Parser) resolvePendingAlias() *ParseError {
	for {
		substituted, perr := p.trySubstituteAlias()
		if perr != nil {
			return perr
		}
		if !substituted {
			return nil
		}
	}
}

// trySubstituteAlias recognizes an alias at the current command-word
// position, splices its value in as a new input frame, and re-primes
// p.tok. It reports whether a substitution happened.
func (p *Parser) trySubstituteAlias() (bool, *ParseError) {
	if p.tok.Kind != TokWord {
		return false, nil
	}
	lit, ok := p.tok.Word.Literal()
	if !ok {
		return false, nil
	}
	a, ok := p.aliases.Lookup(lit)
	if !ok {
		return false, nil
	}
	if p.tok.Loc.Frag.Kind != SourceAlias {
		// A word read from the input itself, not from an alias's value,
		// is a fresh invocation point.
		p.guard = newAliasGuard()
	}
	if !p.guard.tryMark(a.Origin) {
		return false, nil
	}
	text := a.Value
	if trailingSpace(text) {
		text += " "
	}
	p.src.PushAliasFrame(text, p.tok.Loc)
	p.lex.SetCmdStart()
	if perr := p.advance(); perr != nil {
		return false, perr
	}
	return true, nil
}

func (p *Parser) commandOnce() (Command[HereDoc], *ParseError) {
	if p.atKeyword(KwFunction) {
		return p.functionDefinition(true)
	}
	if p.isCompoundStart() {
		return p.fullCompoundCommand()
	}
	if p.tok.Kind == TokWord {
		if lit, ok := p.tok.Word.Literal(); ok && isValidName(lit) {
			if fn, ok, perr := p.tryFunctionDefinitionByName(lit); perr != nil {
				return nil, perr
			} else if ok {
				return fn, nil
			}
		}
	}
	if !p.canStartCommand() {
		return nil, newErr(InvalidCommandToken, p.tok.Loc)
	}
	return p.simpleCommand()
}

func (p *Parser) isCompoundStart() bool {
	if p.atKeyword(KwLBrace) || p.atKeyword(KwIf) || p.atKeyword(KwWhile) ||
		p.atKeyword(KwUntil) || p.atKeyword(KwFor) || p.atKeyword(KwCase) {
		return true
	}
	return p.atOp(LParen)
}

// tryFunctionDefinitionByName looks ahead for "name ( )" with nothing
// between the parentheses, the unmarked form of a function definition
// (spec §4.7). It rewinds and reports false if the lookahead fails.
func (p *Parser) tryFunctionDefinitionByName(name string) (Command[HereDoc], bool, *ParseError) {
	mark := p.src.Mark()
	savedTok := p.tok
	// Lexing a << or <<- token during the lookahead queues a here-document
	// request; a rewind must drop it, or the operator queues it twice.
	pending := len(p.lex.pendingHereDocs)
	rewind := func() {
		p.src.Rewind(mark)
		if len(p.lex.pendingHereDocs) > pending {
			p.lex.pendingHereDocs = p.lex.pendingHereDocs[:pending]
		}
		p.tok = savedTok
	}
	if perr := p.advance(); perr != nil {
		return nil, false, perr
	}
	if !p.atOp(LParen) {
		rewind()
		return nil, false, nil
	}
	if perr := p.advance(); perr != nil {
		return nil, false, perr
	}
	if !p.atOp(RParen) {
		rewind()
		return nil, false, nil
	}
	loc := savedTok.Loc
	if perr := p.advance(); perr != nil {
		return nil, false, perr
	}
	if perr := p.skipLeadingNewlines(); perr != nil {
		return nil, false, perr
	}
	body, perr := p.fullCompoundCommand()
	if perr != nil {
		return nil, false, perr
	}
	return &FunctionDefinition[HereDoc]{
		Loc:  loc,
		Name: literalWord(name, loc),
		Body: body,
	}, true, nil
}

func (p *Parser) functionDefinition(hasKeyword bool) (Command[HereDoc], *ParseError) {
	loc := p.tok.Loc
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	if p.tok.Kind != TokWord {
		return nil, newErr(InvalidFunctionName, p.tok.Loc)
	}
	name := p.tok.Word
	lit, ok := name.Literal()
	if !ok || !isValidName(lit) {
		return nil, newErr(InvalidFunctionName, p.tok.Loc)
	}
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	if p.atOp(LParen) {
		if perr := p.advance(); perr != nil {
			return nil, perr
		}
		if !p.atOp(RParen) {
			return nil, p.unexpected()
		}
		if perr := p.advance(); perr != nil {
			return nil, perr
		}
	}
	if perr := p.skipLeadingNewlines(); perr != nil {
		return nil, perr
	}
	body, perr := p.fullCompoundCommand()
	if perr != nil {
		return nil, perr
	}
	return &FunctionDefinition[HereDoc]{Loc: loc, HasKeyword: hasKeyword, Name: name, Body: body}, nil
}

func isValidName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		isAlpha := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
		isDigit := c >= '0' && c <= '9'
		if i == 0 && !isAlpha {
			return false
		}
		if !isAlpha && !isDigit {
			return false
		}
	}
	return true
}

func literalWord(s string, loc Location) Word {
	units := make([]WordUnit, len(s))
	for i := 0; i < len(s); i++ {
		units[i] = &UnquotedUnit{Unit: &LiteralUnit{Loc: loc, Ch: s[i]}}
	}
	return Word{Units: units}
}

func (p *Parser) fullCompoundCommand() (*FullCompoundCommand[HereDoc], *ParseError) {
	cmd, perr := p.compoundCommand()
	if perr != nil {
		return nil, perr
	}
	var redirs []*Redir[HereDoc]
	for p.tok.Kind == TokOperator && isRedirOperator(p.tok.Op) || p.tok.Kind == TokIoNumber {
		r, perr := p.redirection()
		if perr != nil {
			return nil, perr
		}
		redirs = append(redirs, r)
	}
	return &FullCompoundCommand[HereDoc]{Command: cmd, Redirs: redirs}, nil
}

func (p *Parser) compoundCommand() (CompoundCommand[HereDoc], *ParseError) {
	switch {
	case p.atKeyword(KwLBrace):
		return p.grouping()
	case p.atOp(LParen):
		return p.subshell()
	case p.atKeyword(KwWhile):
		return p.whileClause()
	case p.atKeyword(KwUntil):
		return p.untilClause()
	case p.atKeyword(KwFor):
		return p.forClause()
	case p.atKeyword(KwIf):
		return p.ifClause()
	case p.atKeyword(KwCase):
		return p.caseClause()
	default:
		return nil, p.unexpected()
	}
}

func (p *Parser) grouping() (CompoundCommand[HereDoc], *ParseError) {
	loc := p.tok.Loc
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	body, perr := p.list(stopAtKeywords(KwRBrace))
	if perr != nil {
		return nil, perr
	}
	if !p.atKeyword(KwRBrace) {
		return nil, newErrOpening(UnclosedGrouping, p.tok.Loc, loc)
	}
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	return &Grouping[HereDoc]{Loc: loc, Body: body}, nil
}

func (p *Parser) subshell() (CompoundCommand[HereDoc], *ParseError) {
	loc := p.tok.Loc
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	body, perr := p.list(isTopLevelStop)
	if perr != nil {
		return nil, perr
	}
	if !p.atOp(RParen) {
		return nil, newErrOpening(UnclosedSubshell, p.tok.Loc, loc)
	}
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	return &Subshell[HereDoc]{Loc: loc, Body: body}, nil
}

func (p *Parser) doGroup(openKind ErrorKind, openLoc Location) (List[HereDoc], *ParseError) {
	if perr := p.skipLeadingNewlines(); perr != nil {
		return nil, perr
	}
	if !p.atKeyword(KwDo) {
		return nil, newErrOpening(MissingDoKeyword, p.tok.Loc, openLoc)
	}
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	body, perr := p.maybeCompoundList(stopAtKeywords(KwDone))
	if perr != nil {
		return nil, perr
	}
	if !p.atKeyword(KwDone) {
		return nil, newErrOpening(openKind, p.tok.Loc, openLoc)
	}
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	return body, nil
}

func (p *Parser) whileClause() (CompoundCommand[HereDoc], *ParseError) {
	loc := p.tok.Loc
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	cond, perr := p.list(stopAtKeywords(KwDo))
	if perr != nil {
		return nil, perr
	}
	if len(cond) == 0 {
		return nil, newErr(EmptyWhileCondition, p.tok.Loc)
	}
	body, perr := p.doGroup(UnclosedWhileClause, loc)
	if perr != nil {
		return nil, perr
	}
	return &WhileClause[HereDoc]{Loc: loc, Cond: cond, Body: body}, nil
}

func (p *Parser) untilClause() (CompoundCommand[HereDoc], *ParseError) {
	loc := p.tok.Loc
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	cond, perr := p.list(stopAtKeywords(KwDo))
	if perr != nil {
		return nil, perr
	}
	if len(cond) == 0 {
		return nil, newErr(EmptyUntilCondition, p.tok.Loc)
	}
	body, perr := p.doGroup(UnclosedUntilClause, loc)
	if perr != nil {
		return nil, perr
	}
	return &UntilClause[HereDoc]{Loc: loc, Cond: cond, Body: body}, nil
}

func (p *Parser) forClause() (CompoundCommand[HereDoc], *ParseError) {
	loc := p.tok.Loc
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	if p.tok.Kind != TokWord {
		return nil, p.unexpected()
	}
	name := p.tok.Word
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	if perr := p.skipLeadingNewlines(); perr != nil {
		return nil, perr
	}
	f := &ForClause[HereDoc]{Loc: loc, Name: name}
	if p.atKeyword(KwIn) {
		f.HasIn = true
		if perr := p.advance(); perr != nil {
			return nil, perr
		}
		for p.tok.Kind == TokWord {
			f.Values = append(f.Values, p.tok.Word)
			if perr := p.advance(); perr != nil {
				return nil, perr
			}
		}
		if p.atOp(Semicolon) {
			if perr := p.advance(); perr != nil {
				return nil, perr
			}
		}
		if perr := p.skipLeadingNewlines(); perr != nil {
			return nil, perr
		}
	} else if p.atOp(Semicolon) {
		if perr := p.advance(); perr != nil {
			return nil, perr
		}
		if perr := p.skipLeadingNewlines(); perr != nil {
			return nil, perr
		}
	}
	body, perr := p.doGroup(UnclosedFor, loc)
	if perr != nil {
		return nil, perr
	}
	f.Body = body
	return f, nil
}

func (p *Parser) ifClause() (CompoundCommand[HereDoc], *ParseError) {
	loc := p.tok.Loc
	c := &IfClause[HereDoc]{Loc: loc}
	for {
		if perr := p.advance(); perr != nil { // consumes 'if' or 'elif'
			return nil, perr
		}
		cond, perr := p.list(stopAtKeywords(KwThen))
		if perr != nil {
			return nil, perr
		}
		if !p.atKeyword(KwThen) {
			return nil, newErrOpening(UnclosedIf, p.tok.Loc, loc)
		}
		if perr := p.advance(); perr != nil {
			return nil, perr
		}
		body, perr := p.maybeCompoundList(stopAtKeywords(KwElif, KwElse, KwFi))
		if perr != nil {
			return nil, perr
		}
		c.Branches = append(c.Branches, IfBranch[HereDoc]{Cond: cond, Body: body})
		if p.atKeyword(KwElif) {
			continue
		}
		break
	}
	if p.atKeyword(KwElse) {
		c.HasElse = true
		if perr := p.advance(); perr != nil {
			return nil, perr
		}
		els, perr := p.maybeCompoundList(stopAtKeywords(KwFi))
		if perr != nil {
			return nil, perr
		}
		c.Else = els
	}
	if !p.atKeyword(KwFi) {
		return nil, newErrOpening(UnclosedIf, p.tok.Loc, loc)
	}
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	return c, nil
}

func (p *Parser) caseClause() (CompoundCommand[HereDoc], *ParseError) {
	loc := p.tok.Loc
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	if p.tok.Kind != TokWord {
		return nil, p.unexpected()
	}
	subject := p.tok.Word
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	if perr := p.skipLeadingNewlines(); perr != nil {
		return nil, perr
	}
	if perr := p.resolvePendingAlias(); perr != nil {
		return nil, perr
	}
	if !p.atKeyword(KwIn) {
		return nil, p.unexpected()
	}
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	if perr := p.skipLeadingNewlines(); perr != nil {
		return nil, perr
	}

	c := &CaseClause[HereDoc]{Loc: loc, Subject: subject}
	for {
		if perr := p.resolvePendingAlias(); perr != nil {
			return nil, perr
		}
		if p.atKeyword(KwEsac) {
			break
		}
		item, perr := p.caseItem()
		if perr != nil {
			return nil, perr
		}
		c.Items = append(c.Items, item)
		if perr := p.skipLeadingNewlines(); perr != nil {
			return nil, perr
		}
		if p.tok.Kind == TokEOF {
			return nil, newErrOpening(UnclosedCase, p.tok.Loc, loc)
		}
	}
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	return c, nil
}

func (p *Parser) caseItem() (CaseItem[HereDoc], *ParseError) {
	var item CaseItem[HereDoc]
	if p.atOp(LParen) {
		// A leading '(' before the first pattern is a common, optional
		// decoration; POSIX allows it purely for visual symmetry with the
		// closing ')'.
		if perr := p.advance(); perr != nil {
			return item, perr
		}
	}
	if p.atOp(RParen) {
		return item, newErr(EmptyCaseItem, p.tok.Loc)
	}
	for {
		if p.tok.Kind != TokWord {
			return item, p.unexpected()
		}
		item.Patterns = append(item.Patterns, p.tok.Word)
		if perr := p.advance(); perr != nil {
			return item, perr
		}
		if p.atOp(Or) {
			if perr := p.advance(); perr != nil {
				return item, perr
			}
			continue
		}
		break
	}
	if !p.atOp(RParen) {
		return item, p.unexpected()
	}
	if perr := p.advance(); perr != nil {
		return item, perr
	}
	if perr := p.skipLeadingNewlines(); perr != nil {
		return item, perr
	}
	body, perr := p.maybeCompoundList(stopAtKeywords(KwEsac))
	if perr != nil {
		return item, perr
	}
	item.Body = body
	if p.atOp(DblSemi) {
		if perr := p.advance(); perr != nil {
			return item, perr
		}
		if perr := p.skipLeadingNewlines(); perr != nil {
			return item, perr
		}
	}
	return item, nil
}

func isRedirOperator(op Operator) bool {
	switch op {
	case Less, Great, DLess, DLessDash, DGreat, LessGreat, GreatPipe, LessAnd, GreatAnd, DGreatPipe, TLess:
		return true
	default:
		return false
	}
}

func (p *Parser) redirection() (*Redir[HereDoc], *ParseError) {
	loc := p.tok.Loc
	var fd *int
	if p.tok.Kind == TokIoNumber {
		lit, _ := p.tok.Word.Literal()
		n := parseDecimal(lit)
		fd = &n
		if perr := p.advance(); perr != nil {
			return nil, perr
		}
	}
	if p.tok.Kind != TokOperator || !isRedirOperator(p.tok.Op) {
		return nil, newErr(InvalidCommandToken, p.tok.Loc)
	}
	op := p.tok.Op
	rop, _ := redirOpFromOperator(op)
	if p.posixConformant && (rop == RedirPipe || rop == RedirString) {
		return nil, p.unexpected()
	}
	isHereDoc := op == DLess || op == DLessDash

	var doc *HereDoc
	var hdBody *HereDocBody[HereDoc]
	if isHereDoc {
		// The operator token we are about to leave already carries a
		// queued heredocRequest: lexHereDocOperator scanned the delimiter
		// and enqueued it while producing this very token. The slot must
		// be bound before advancing past this token, since advancing may
		// immediately reach the line's newline and drain the queue.
		doc = new(HereDoc)
		hdBody = &HereDocBody[HereDoc]{}
		p.lex.RegisterHereDocSlot(&doc)
		p.pendingFills = append(p.pendingFills, pendingFill{body: hdBody, slot: &doc})
	}

	if perr := p.advance(); perr != nil { // consumes the operator
		return nil, perr
	}

	if isHereDoc {
		return &Redir[HereDoc]{Loc: loc, Fd: fd, Body: hdBody}, nil
	}

	if p.tok.Kind != TokWord {
		return nil, newErr(MissingRedirOperand, p.tok.Loc)
	}
	operand := p.tok.Word
	if perr := p.advance(); perr != nil {
		return nil, perr
	}
	return &Redir[HereDoc]{Loc: loc, Fd: fd, Body: &NormalRedir{Op: rop, Operand: operand}}, nil
}

func parseDecimal(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

func (p *Parser) simpleCommand() (*SimpleCommand[HereDoc], *ParseError) {
	var cmd SimpleCommand[HereDoc]
	sawWord := false
	for {
		switch {
		case p.tok.Kind == TokOperator && isRedirOperator(p.tok.Op), p.tok.Kind == TokIoNumber:
			r, perr := p.redirection()
			if perr != nil {
				return nil, perr
			}
			cmd.Redirs = append(cmd.Redirs, r)
		case p.tok.Kind == TokWord && !sawWord:
			if a, ok := p.tryAssign(); ok {
				cmd.Assigns = append(cmd.Assigns, a)
				continue
			}
			cmd.Words = append(cmd.Words, p.tok.Word)
			sawWord = true
			if perr := p.advance(); perr != nil {
				return nil, perr
			}
		case p.tok.Kind == TokWord:
			cmd.Words = append(cmd.Words, p.tok.Word)
			if perr := p.advance(); perr != nil {
				return nil, perr
			}
		default:
			if len(cmd.Assigns) == 0 && len(cmd.Words) == 0 && len(cmd.Redirs) == 0 {
				return nil, p.unexpected()
			}
			return &cmd, nil
		}
	}
}

// tryAssign recognizes "name=value" or "name=(v1 v2 ...)" at the current
// word token, per spec §3's Assign and §4.5's "assignment precedes
// command name" rule: only literal-prefixed words are eligible, and only
// before the first non-assignment word of the command.
func (p *Parser) tryAssign() (*Assign, bool) {
	w := p.tok.Word
	name, eqIdx, ok := splitAssignPrefix(w)
	if !ok {
		return nil, false
	}
	loc := p.tok.Loc
	rest := w.Units[eqIdx+1:]
	if len(rest) > 0 {
		if arr, ok := asArrayLiteral(rest); ok {
			if perr := p.advance(); perr != nil {
				return nil, false
			}
			return &Assign{Loc: loc, Name: name, Array: true, Values: arr}, true
		}
	}
	if perr := p.advance(); perr != nil {
		return nil, false
	}
	return &Assign{Loc: loc, Name: name, Value: Word{Units: rest}}, true
}

// splitAssignPrefix reports the variable name and the index of the '='
// unit within w.Units, iff w begins with a literal name followed by an
// unquoted, unescaped '='.
func splitAssignPrefix(w Word) (string, int, bool) {
	var name []byte
	for i, u := range w.Units {
		uq, ok := u.(*UnquotedUnit)
		if !ok {
			return "", 0, false
		}
		lit, ok := uq.Unit.(*LiteralUnit)
		if !ok {
			return "", 0, false
		}
		if lit.Ch == '=' {
			if i == 0 || !isValidName(string(name)) {
				return "", 0, false
			}
			return string(name), i, true
		}
		name = append(name, lit.Ch)
	}
	return "", 0, false
}

// asArrayLiteral recognizes an array assignment value of the form
// "(w1 w2 ...)": a lone, unquoted '(' as the first unit and a lone,
// unquoted ')' as the last. This core does not split the interior into
// separate Words (that requires re-lexing with blanks significant, which
// the single-pass word scanner already collapsed); callers needing the
// individual element words should re-parse the array's source range.
func asArrayLiteral(units []WordUnit) ([]Word, bool) {
	if len(units) < 2 {
		return nil, false
	}
	first, ok := units[0].(*UnquotedUnit)
	if !ok {
		return nil, false
	}
	if lit, ok := first.Unit.(*LiteralUnit); !ok || lit.Ch != '(' {
		return nil, false
	}
	last, ok := units[len(units)-1].(*UnquotedUnit)
	if !ok {
		return nil, false
	}
	if lit, ok := last.Unit.(*LiteralUnit); !ok || lit.Ch != ')' {
		return nil, false
	}
	return []Word{{Units: units[1 : len(units)-1]}}, true
}
