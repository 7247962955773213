// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

// Node is the common interface of every AST type: it can report the
// Location of the source text it was built from.
type Node interface {
	Pos() Location
}

// TextUnit is one element of a Text: a literal character, a
// backslash-escaped character, or a command substitution. Per spec §3, a
// Text is literal iff every one of its units is Literal.
type TextUnit interface {
	Node
	textUnitNode()
}

// LiteralUnit is a single unquoted, unescaped character.
type LiteralUnit struct {
	Loc Location
	Ch  byte
}

func (u *LiteralUnit) Pos() Location   { return u.Loc }
func (*LiteralUnit) textUnitNode()     {}

// BackslashedUnit is a single character preceded by a backslash that
// escaped it (outside quotes, or inside double quotes). Here-document
// bodies never contain one: their content is all LiteralUnits.
type BackslashedUnit struct {
	Loc Location
	Ch  byte
}

func (u *BackslashedUnit) Pos() Location { return u.Loc }
func (*BackslashedUnit) textUnitNode()   {}

// CommandSubstUnit is a `$( ... )` command substitution. Content is the
// verbatim source between the parentheses; it is captured as a string for
// later re-parsing and is never evaluated by this core (spec §1
// Non-goals).
type CommandSubstUnit struct {
	Loc     Location // from the opening '$' through the closing ')'
	Content string
}

func (u *CommandSubstUnit) Pos() Location { return u.Loc }
func (*CommandSubstUnit) textUnitNode()   {}

// Text is an ordered sequence of TextUnits.
type Text []TextUnit

// IsLiteral reports whether every unit of t is a LiteralUnit.
func (t Text) IsLiteral() bool {
	for _, u := range t {
		if _, ok := u.(*LiteralUnit); !ok {
			return false
		}
	}
	return true
}

// Literal returns the plain string form of t and true, iff t IsLiteral.
func (t Text) Literal() (string, bool) {
	if !t.IsLiteral() {
		return "", false
	}
	bs := make([]byte, len(t))
	for i, u := range t {
		bs[i] = u.(*LiteralUnit).Ch
	}
	return string(bs), true
}

func (t Text) Pos() Location {
	if len(t) == 0 {
		return Location{}
	}
	return t[0].Pos()
}

// WordUnit is one element of a Word: unquoted text, a single-quoted
// string, a double-quoted text, or a tilde prefix.
type WordUnit interface {
	Node
	wordUnitNode()
}

// UnquotedUnit wraps a bare TextUnit appearing outside of any quoting.
type UnquotedUnit struct {
	Unit TextUnit
}

func (u *UnquotedUnit) Pos() Location { return u.Unit.Pos() }
func (*UnquotedUnit) wordUnitNode()   {}

// SingleQuoteUnit is a string within a pair of single quotes: fully
// literal, no escapes recognized.
type SingleQuoteUnit struct {
	Loc   Location // the opening '
	Value string
}

func (u *SingleQuoteUnit) Pos() Location { return u.Loc }
func (*SingleQuoteUnit) wordUnitNode()   {}

// DoubleQuoteUnit is a Text within a pair of double quotes.
type DoubleQuoteUnit struct {
	Loc     Location // the opening "
	Content Text
}

func (u *DoubleQuoteUnit) Pos() Location { return u.Loc }
func (*DoubleQuoteUnit) wordUnitNode()   {}

// TildeUnit is a leading `~[name]` tilde prefix, recognized only when
// unquoted and at the start of a word (or, in an assignment value, right
// after an unquoted ':' or '='). Value excludes the leading '~'.
type TildeUnit struct {
	Loc   Location // the '~'
	Value string
}

func (u *TildeUnit) Pos() Location { return u.Loc }
func (*TildeUnit) wordUnitNode()   {}

// Word is a sequence of WordUnits, contiguous in the source and delimited
// by word boundaries (whitespace, operators, or quoting edges).
type Word struct {
	Units []WordUnit
}

func (w Word) Pos() Location {
	if len(w.Units) == 0 {
		return Location{}
	}
	return w.Units[0].Pos()
}

// End returns the Location of w's last unit (that unit's own Pos, not the
// position just after it). Quote units record only their opening
// delimiter, so callers needing the exact end of a word should use the
// token Location captured at parse time instead.
func (w Word) End() Location {
	if len(w.Units) == 0 {
		return Location{}
	}
	return w.Units[len(w.Units)-1].Pos()
}

// Unquoted strips quoting from w and reports whether any quoting unit
// (single quote, double quote, or backslash escape) was present.
func (w Word) Unquoted() (string, bool) {
	var bs []byte
	quoted := false
	var walk func(units []WordUnit)
	walk = func(units []WordUnit) {
		for _, u := range units {
			switch x := u.(type) {
			case *UnquotedUnit:
				switch t := x.Unit.(type) {
				case *LiteralUnit:
					bs = append(bs, t.Ch)
				case *BackslashedUnit:
					bs = append(bs, t.Ch)
					quoted = true
				case *CommandSubstUnit:
					bs = append(bs, '$', '(')
					bs = append(bs, t.Content...)
					bs = append(bs, ')')
				}
			case *SingleQuoteUnit:
				bs = append(bs, x.Value...)
				quoted = true
			case *DoubleQuoteUnit:
				for _, tu := range x.Content {
					switch t := tu.(type) {
					case *LiteralUnit:
						bs = append(bs, t.Ch)
					case *BackslashedUnit:
						bs = append(bs, t.Ch)
					case *CommandSubstUnit:
						bs = append(bs, '$', '(')
						bs = append(bs, t.Content...)
						bs = append(bs, ')')
					}
				}
				quoted = true
			case *TildeUnit:
				bs = append(bs, '~')
				bs = append(bs, x.Value...)
			}
		}
	}
	walk(w.Units)
	return string(bs), quoted
}

// Literal returns the plain string form of w and true, iff every unit of
// w is Unquoted(Literal).
func (w Word) Literal() (string, bool) {
	var bs []byte
	for _, u := range w.Units {
		uq, ok := u.(*UnquotedUnit)
		if !ok {
			return "", false
		}
		lit, ok := uq.Unit.(*LiteralUnit)
		if !ok {
			return "", false
		}
		bs = append(bs, lit.Ch)
	}
	return string(bs), true
}

// RedirOp enumerates the redirection operators of spec §3.
type RedirOp int

const (
	RedirFileIn      RedirOp = iota // <
	RedirFileInOut                  // <>
	RedirFileOut                    // >
	RedirFileAppend                 // >>
	RedirFileClobber                // >|
	RedirFdIn                       // <&
	RedirFdOut                      // >&
	RedirPipe                       // >>|  (non-POSIX extension, see DESIGN.md)
	RedirString                     // <<<
	RedirHereDocPlain                // <<
	RedirHereDocStrip                // <<-
)

// DefaultFd returns the default file descriptor a redirection of this
// operator applies to when no explicit fd prefix is given: stdin for
// input-shaped operators (including here-documents), stdout otherwise.
func (op RedirOp) DefaultFd() int {
	switch op {
	case RedirFileIn, RedirFileInOut, RedirFdIn, RedirString,
		RedirHereDocPlain, RedirHereDocStrip:
		return 0
	default:
		return 1
	}
}

func redirOpFromOperator(op Operator) (RedirOp, bool) {
	switch op {
	case Less:
		return RedirFileIn, true
	case LessGreat:
		return RedirFileInOut, true
	case Great:
		return RedirFileOut, true
	case DGreat:
		return RedirFileAppend, true
	case GreatPipe:
		return RedirFileClobber, true
	case LessAnd:
		return RedirFdIn, true
	case GreatAnd:
		return RedirFdOut, true
	case DGreatPipe:
		return RedirPipe, true
	case TLess:
		return RedirString, true
	case DLess:
		return RedirHereDocPlain, true
	case DLessDash:
		return RedirHereDocStrip, true
	default:
		return 0, false
	}
}

func (op RedirOp) isHereDoc() bool {
	return op == RedirHereDocPlain || op == RedirHereDocStrip
}

// MissingHereDoc is the placeholder type used for the Redir type
// parameter while a redirection's here-document body has not yet been
// read (spec §3, §9: the two-phase AST). HereDoc is the corresponding
// type once content has been filled in.
type MissingHereDoc struct{}

// HereDoc is a here-document's delimiter, tab-stripping flag, and
// content, filled in only after the lexer has read it (spec §3).
type HereDoc struct {
	Delimiter  Word
	RemoveTabs bool
	Content    Text
}

// RedirBody is either a Normal redirection (operator + operand word) or a
// HereDocBody(H): a here-document whose content is present only once H is
// instantiated as HereDoc rather than MissingHereDoc.
//
// RedirBody[H]'s method set is deliberately not parameterized by H: both
// NormalRedir and HereDocBody[H] implement it for any H, which is what
// lets a single NormalRedir value satisfy RedirBody[MissingHereDoc] and
// RedirBody[HereDoc] without being duplicated per phase.
type RedirBody[H any] interface {
	redirBodyNode()
}

// NormalRedir is a plain "operator operand" redirection body.
type NormalRedir struct {
	Op      RedirOp
	Operand Word
}

func (*NormalRedir) redirBodyNode() {}

// HereDocBody wraps a phase-parameterized here-document payload.
type HereDocBody[H any] struct {
	Doc H
}

func (*HereDocBody[H]) redirBodyNode() {}

// Redir is a single input/output redirection, carrying an optional
// explicit file descriptor.
type Redir[H any] struct {
	Loc  Location // the operator (or, if present, the fd digits)
	Fd   *int
	Body RedirBody[H]
}

func (r *Redir[H]) Pos() Location { return r.Loc }

// PendingRedir is a Redir whose here-document body, if any, has not yet
// been read.
type PendingRedir = Redir[MissingHereDoc]

// FinalRedir is a Redir with its here-document body (if any) fully read.
type FinalRedir = Redir[HereDoc]

// Assign is an assignment to a variable, derived from a Word whose first
// unquoted, unescaped '=' occurs at position > 0 with a literal prefix.
type Assign struct {
	Loc    Location
	Name   string
	Array  bool // true if the value is an array literal "(a b c)", held in Values
	Value  Word
	Values []Word // populated instead of Value when Array is true
}

func (a *Assign) Pos() Location { return a.Loc }

// SimpleCommand is assignments, redirections, and words in source order;
// a valid one is non-empty in at least one of the three (spec §3, §4.5).
type SimpleCommand[H any] struct {
	Assigns []*Assign
	Words   []Word
	Redirs  []*Redir[H]
}

func (c *SimpleCommand[H]) Pos() Location {
	if len(c.Assigns) > 0 {
		return c.Assigns[0].Pos()
	}
	if len(c.Words) > 0 {
		return c.Words[0].Pos()
	}
	if len(c.Redirs) > 0 {
		return c.Redirs[0].Pos()
	}
	return Location{}
}

// List is a sequence of Items.
type List[H any] []Item[H]

func (l List[H]) Pos() Location {
	if len(l) == 0 {
		return Location{}
	}
	return l[0].Pos()
}

// Item is one and-or list in a List, optionally marked async.
type Item[H any] struct {
	AndOr *AndOrList[H]
	// Async, when non-nil, is the location of the terminating '&' that
	// marks this item for background execution (spec §3).
	Async *Location
}

func (it Item[H]) Pos() Location { return it.AndOr.Pos() }

// AndOr distinguishes && from || in an AndOrList.
type AndOr int

const (
	AndThen AndOr = iota // &&
	OrElse                // ||
)

func (a AndOr) String() string {
	if a == AndThen {
		return "&&"
	}
	return "||"
}

// AndOrPair is one (connector, pipeline) pair following the first
// pipeline of an AndOrList.
type AndOrPair[H any] struct {
	Op       AndOr
	Pipeline Pipeline[H]
}

// AndOrList is one or more Pipelines joined by && / ||.
type AndOrList[H any] struct {
	First Pipeline[H]
	Rest  []AndOrPair[H]
}

func (a *AndOrList[H]) Pos() Location { return a.First.Pos() }

// Pipeline is one or more Commands joined by '|', optionally negated by a
// leading '!'.
type Pipeline[H any] struct {
	Negation bool
	NegPos   Location // valid iff Negation
	Commands []Command[H]
}

func (p Pipeline[H]) Pos() Location {
	if p.Negation {
		return p.NegPos
	}
	return p.Commands[0].Pos()
}

// Command is a simple command, a compound command, or a function
// definition (spec §3).
type Command[H any] interface {
	Node
	commandNode()
}

func (*SimpleCommand[H]) commandNode()        {}
func (*FullCompoundCommand[H]) commandNode()  {}
func (*FunctionDefinition[H]) commandNode()   {}

// CompoundCommand is the sum of the compound-command shapes of spec §3.
type CompoundCommand[H any] interface {
	Node
	compoundCommandNode()
}

// Grouping is "{ list; }".
type Grouping[H any] struct {
	Loc  Location // the '{'
	Body List[H]
}

func (g *Grouping[H]) Pos() Location  { return g.Loc }
func (*Grouping[H]) compoundCommandNode() {}

// Subshell is "( list )".
type Subshell[H any] struct {
	Loc  Location // the '('
	Body List[H]
}

func (s *Subshell[H]) Pos() Location     { return s.Loc }
func (*Subshell[H]) compoundCommandNode() {}

// WhileClause is "while cond; do body; done".
type WhileClause[H any] struct {
	Loc  Location // the 'while'
	Cond List[H]
	Body List[H]
}

func (w *WhileClause[H]) Pos() Location     { return w.Loc }
func (*WhileClause[H]) compoundCommandNode() {}

// UntilClause is "until cond; do body; done".
type UntilClause[H any] struct {
	Loc  Location // the 'until'
	Cond List[H]
	Body List[H]
}

func (u *UntilClause[H]) Pos() Location     { return u.Loc }
func (*UntilClause[H]) compoundCommandNode() {}

// ForClause is "for name [in values]; do body; done". HasIn distinguishes
// an explicit, possibly-empty "in" word list from its absence (which
// iterates over "$@" at runtime — out of this core's scope to interpret).
type ForClause[H any] struct {
	Loc    Location // the 'for'
	Name   Word
	HasIn  bool
	Values []Word
	Body   List[H]
}

func (f *ForClause[H]) Pos() Location     { return f.Loc }
func (*ForClause[H]) compoundCommandNode() {}

// IfBranch is one "cond; then body" pair: the leading if/elif and its
// "then" body.
type IfBranch[H any] struct {
	Cond List[H]
	Body List[H]
}

// IfClause is "if b0; [elif bN;]... [else list;] fi".
type IfClause[H any] struct {
	Loc      Location // the 'if'
	Branches []IfBranch[H]
	HasElse  bool
	Else     List[H]
}

func (c *IfClause[H]) Pos() Location     { return c.Loc }
func (*IfClause[H]) compoundCommandNode() {}

// CaseItem is one "pattern[|pattern]... ) body ;;" clause of a case.
type CaseItem[H any] struct {
	Patterns []Word
	Body     List[H]
}

// CaseClause is "case word in items... esac".
type CaseClause[H any] struct {
	Loc     Location // the 'case'
	Subject Word
	Items   []CaseItem[H]
}

func (c *CaseClause[H]) Pos() Location     { return c.Loc }
func (*CaseClause[H]) compoundCommandNode() {}

// FullCompoundCommand wraps a CompoundCommand together with any
// redirections trailing it (spec §3).
type FullCompoundCommand[H any] struct {
	Command CompoundCommand[H]
	Redirs  []*Redir[H]
}

func (c *FullCompoundCommand[H]) Pos() Location { return c.Command.Pos() }

// FunctionDefinition is "[function] name() body" (spec §3, §4.7).
type FunctionDefinition[H any] struct {
	Loc        Location
	HasKeyword bool
	Name       Word
	Body       *FullCompoundCommand[H]
}

func (f *FunctionDefinition[H]) Pos() Location   { return f.Loc }

// File is a fully parsed top-level program: a list of command lines. It
// keeps no line-offset table; Locations carry byte offsets only.
type File struct {
	Lines []List[HereDoc]
}
