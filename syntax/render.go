// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"io"
	"strconv"
	"strings"
)

// Printer renders an AST back to shell source, per spec §6's requirement
// that every parsed tree can be rendered back into a form that re-parses
// to the same shape. It carries no configuration of its own today but
// exists as a type (rather than a package-level function) so that future
// options (indentation, binary operator placement) follow the same
// functional-options shape as Parser, per the teacher's idiom.
type Printer struct{}

// NewPrinter returns a ready-to-use Printer.
func NewPrinter() *Printer { return &Printer{} }

// Print writes f to w.
func (pr *Printer) Print(w io.Writer, f *File) error {
	var b strings.Builder
	prevHadHereDocs := false
	for i, line := range f.Lines {
		if i > 0 && !prevHadHereDocs {
			b.WriteByte('\n')
		}
		writeList(&b, line)
		docs := collectHereDocs(line)
		if len(docs) > 0 {
			b.WriteByte('\n')
			for _, doc := range docs {
				content, _ := doc.Content.Literal()
				b.WriteString(content)
				delim, _ := doc.Delimiter.Unquoted()
				b.WriteString(delim)
				b.WriteByte('\n')
			}
		}
		prevHadHereDocs = len(docs) > 0
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// collectHereDocs walks a line's commands in source order and returns the
// bodies of every here-document redirection, the order their content must
// appear in after the line's terminating newline.
func collectHereDocs(l List[HereDoc]) []*HereDoc {
	var docs []*HereDoc
	for _, item := range l {
		collectHereDocsAndOr(item.AndOr, &docs)
	}
	return docs
}

func collectHereDocsAndOr(a *AndOrList[HereDoc], docs *[]*HereDoc) {
	collectHereDocsPipeline(a.First, docs)
	for _, pair := range a.Rest {
		collectHereDocsPipeline(pair.Pipeline, docs)
	}
}

func collectHereDocsPipeline(p Pipeline[HereDoc], docs *[]*HereDoc) {
	for _, cmd := range p.Commands {
		collectHereDocsCommand(cmd, docs)
	}
}

func collectHereDocsCommand(c Command[HereDoc], docs *[]*HereDoc) {
	switch x := c.(type) {
	case *SimpleCommand[HereDoc]:
		collectHereDocsRedirs(x.Redirs, docs)
	case *FullCompoundCommand[HereDoc]:
		collectHereDocsCompound(x.Command, docs)
		collectHereDocsRedirs(x.Redirs, docs)
	case *FunctionDefinition[HereDoc]:
		collectHereDocsCompound(x.Body.Command, docs)
		collectHereDocsRedirs(x.Body.Redirs, docs)
	}
}

func collectHereDocsCompound(c CompoundCommand[HereDoc], docs *[]*HereDoc) {
	switch x := c.(type) {
	case *Grouping[HereDoc]:
		*docs = append(*docs, collectHereDocs(x.Body)...)
	case *Subshell[HereDoc]:
		*docs = append(*docs, collectHereDocs(x.Body)...)
	case *WhileClause[HereDoc]:
		*docs = append(*docs, collectHereDocs(x.Cond)...)
		*docs = append(*docs, collectHereDocs(x.Body)...)
	case *UntilClause[HereDoc]:
		*docs = append(*docs, collectHereDocs(x.Cond)...)
		*docs = append(*docs, collectHereDocs(x.Body)...)
	case *ForClause[HereDoc]:
		*docs = append(*docs, collectHereDocs(x.Body)...)
	case *IfClause[HereDoc]:
		for _, br := range x.Branches {
			*docs = append(*docs, collectHereDocs(br.Cond)...)
			*docs = append(*docs, collectHereDocs(br.Body)...)
		}
		if x.HasElse {
			*docs = append(*docs, collectHereDocs(x.Else)...)
		}
	case *CaseClause[HereDoc]:
		for _, it := range x.Items {
			*docs = append(*docs, collectHereDocs(it.Body)...)
		}
	}
}

func collectHereDocsRedirs(redirs []*Redir[HereDoc], docs *[]*HereDoc) {
	for _, r := range redirs {
		if hd, ok := r.Body.(*HereDocBody[HereDoc]); ok {
			*docs = append(*docs, &hd.Doc)
		}
	}
}

// String renders f as a string.
func (f *File) String() string {
	var b strings.Builder
	NewPrinter().Print(&b, f)
	return b.String()
}

func writeList(b *strings.Builder, l List[HereDoc]) {
	for i, item := range l {
		if i > 0 {
			// A preceding "&" already separates the items.
			if l[i-1].Async == nil {
				b.WriteByte(';')
			}
			b.WriteByte(' ')
		}
		writeAndOrList(b, item.AndOr)
		if item.Async != nil {
			b.WriteString(" &")
		}
	}
}

func writeAndOrList(b *strings.Builder, a *AndOrList[HereDoc]) {
	writePipeline(b, a.First)
	for _, pair := range a.Rest {
		b.WriteByte(' ')
		b.WriteString(pair.Op.String())
		b.WriteByte(' ')
		writePipeline(b, pair.Pipeline)
	}
}

func writePipeline(b *strings.Builder, p Pipeline[HereDoc]) {
	if p.Negation {
		b.WriteString("! ")
	}
	for i, cmd := range p.Commands {
		if i > 0 {
			b.WriteString(" | ")
		}
		writeCommand(b, cmd)
	}
}

func writeCommand(b *strings.Builder, c Command[HereDoc]) {
	switch x := c.(type) {
	case *SimpleCommand[HereDoc]:
		writeSimpleCommand(b, x)
	case *FullCompoundCommand[HereDoc]:
		writeCompoundCommand(b, x.Command)
		for _, r := range x.Redirs {
			b.WriteByte(' ')
			writeRedir(b, r)
		}
	case *FunctionDefinition[HereDoc]:
		if x.HasKeyword {
			b.WriteString("function ")
			writeWord(b, x.Name)
			b.WriteString(" ()")
		} else {
			writeWord(b, x.Name)
			b.WriteString("()")
		}
		b.WriteByte(' ')
		writeCompoundCommand(b, x.Body.Command)
		for _, r := range x.Body.Redirs {
			b.WriteByte(' ')
			writeRedir(b, r)
		}
	}
}

func writeSimpleCommand(b *strings.Builder, c *SimpleCommand[HereDoc]) {
	first := true
	sep := func() {
		if !first {
			b.WriteByte(' ')
		}
		first = false
	}
	for _, a := range c.Assigns {
		sep()
		writeAssign(b, a)
	}
	for _, w := range c.Words {
		sep()
		writeWord(b, w)
	}
	for _, r := range c.Redirs {
		sep()
		writeRedir(b, r)
	}
}

func writeAssign(b *strings.Builder, a *Assign) {
	b.WriteString(a.Name)
	b.WriteByte('=')
	if a.Array {
		b.WriteByte('(')
		for i, v := range a.Values {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeWord(b, v)
		}
		b.WriteByte(')')
		return
	}
	writeWord(b, a.Value)
}

func writeCompoundCommand(b *strings.Builder, c CompoundCommand[HereDoc]) {
	switch x := c.(type) {
	case *Grouping[HereDoc]:
		b.WriteString("{ ")
		writeList(b, x.Body)
		b.WriteString("; }")
	case *Subshell[HereDoc]:
		b.WriteByte('(')
		writeList(b, x.Body)
		b.WriteByte(')')
	case *WhileClause[HereDoc]:
		b.WriteString("while ")
		writeList(b, x.Cond)
		b.WriteString("; do ")
		writeList(b, x.Body)
		b.WriteString("; done")
	case *UntilClause[HereDoc]:
		b.WriteString("until ")
		writeList(b, x.Cond)
		b.WriteString("; do ")
		writeList(b, x.Body)
		b.WriteString("; done")
	case *ForClause[HereDoc]:
		b.WriteString("for ")
		writeWord(b, x.Name)
		if x.HasIn {
			b.WriteString(" in")
			for _, v := range x.Values {
				b.WriteByte(' ')
				writeWord(b, v)
			}
		}
		b.WriteString("; do ")
		writeList(b, x.Body)
		b.WriteString("; done")
	case *IfClause[HereDoc]:
		for i, br := range x.Branches {
			if i == 0 {
				b.WriteString("if ")
			} else {
				b.WriteString("elif ")
			}
			writeList(b, br.Cond)
			b.WriteString("; then ")
			writeList(b, br.Body)
			b.WriteString("; ")
		}
		if x.HasElse {
			b.WriteString("else ")
			writeList(b, x.Else)
			b.WriteString("; ")
		}
		b.WriteString("fi")
	case *CaseClause[HereDoc]:
		b.WriteString("case ")
		writeWord(b, x.Subject)
		b.WriteString(" in ")
		for _, it := range x.Items {
			for i, pat := range it.Patterns {
				if i > 0 {
					b.WriteByte('|')
				}
				writeWord(b, pat)
			}
			b.WriteString(") ")
			writeList(b, it.Body)
			b.WriteString(" ;; ")
		}
		b.WriteString("esac")
	}
}

func writeRedir(b *strings.Builder, r *Redir[HereDoc]) {
	if r.Fd != nil {
		b.WriteString(strconv.Itoa(*r.Fd))
	}
	switch body := r.Body.(type) {
	case *NormalRedir:
		b.WriteString(body.Op.operatorString())
		b.WriteByte(' ')
		writeWord(b, body.Operand)
	case *HereDocBody[HereDoc]:
		if body.Doc.RemoveTabs {
			b.WriteString("<<-")
		} else {
			b.WriteString("<<")
		}
		var delim strings.Builder
		writeWord(&delim, body.Doc.Delimiter)
		if strings.HasPrefix(delim.String(), "-") {
			b.WriteByte(' ')
		}
		b.WriteString(delim.String())
	}
}

func (op RedirOp) operatorString() string {
	switch op {
	case RedirFileIn:
		return "<"
	case RedirFileInOut:
		return "<>"
	case RedirFileOut:
		return ">"
	case RedirFileAppend:
		return ">>"
	case RedirFileClobber:
		return ">|"
	case RedirFdIn:
		return "<&"
	case RedirFdOut:
		return ">&"
	case RedirPipe:
		return ">>|"
	case RedirString:
		return "<<<"
	default:
		return "?"
	}
}

func writeWord(b *strings.Builder, w Word) {
	for _, u := range w.Units {
		writeWordUnit(b, u)
	}
}

func writeWordUnit(b *strings.Builder, u WordUnit) {
	switch x := u.(type) {
	case *UnquotedUnit:
		writeTextUnit(b, x.Unit)
	case *SingleQuoteUnit:
		b.WriteByte('\'')
		b.WriteString(x.Value)
		b.WriteByte('\'')
	case *DoubleQuoteUnit:
		b.WriteByte('"')
		for _, tu := range x.Content {
			writeDoubleQuoteUnit(b, tu)
		}
		b.WriteByte('"')
	case *TildeUnit:
		b.WriteByte('~')
		b.WriteString(x.Value)
	}
}

func writeTextUnit(b *strings.Builder, u TextUnit) {
	switch x := u.(type) {
	case *LiteralUnit:
		b.WriteByte(x.Ch)
	case *BackslashedUnit:
		b.WriteByte('\\')
		b.WriteByte(x.Ch)
	case *CommandSubstUnit:
		b.WriteString("$(")
		b.WriteString(x.Content)
		b.WriteByte(')')
	}
}

func writeDoubleQuoteUnit(b *strings.Builder, u TextUnit) {
	switch x := u.(type) {
	case *LiteralUnit:
		b.WriteByte(x.Ch)
	case *BackslashedUnit:
		b.WriteByte('\\')
		b.WriteByte(x.Ch)
	case *CommandSubstUnit:
		b.WriteString("$(")
		b.WriteString(x.Content)
		b.WriteByte(')')
	}
}
