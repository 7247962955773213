// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/kr/pretty"
)

func mustParse(t *testing.T, src string) *File {
	t.Helper()
	p := NewParser()
	f, err := p.ParseString(src, "test")
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return f
}

func mustFailParse(t *testing.T, src string) *ParseError {
	t.Helper()
	p := NewParser()
	f, err := p.ParseString(src, "test")
	if err == nil {
		t.Fatalf("expected a parse error for %q, got AST: %# v", src, pretty.Formatter(f))
	}
	perr, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	return perr
}

func onlySimpleCommand(t *testing.T, f *File) *SimpleCommand[HereDoc] {
	t.Helper()
	if len(f.Lines) != 1 || len(f.Lines[0]) != 1 {
		t.Fatalf("expected exactly one command line with one item, got %# v", pretty.Formatter(f))
	}
	cmd, ok := f.Lines[0][0].AndOr.First.Commands[0].(*SimpleCommand[HereDoc])
	if !ok {
		t.Fatalf("expected a *SimpleCommand, got %T", f.Lines[0][0].AndOr.First.Commands[0])
	}
	return cmd
}

func TestParseSimpleCommand(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "echo hello world\n")
	cmd := onlySimpleCommand(t, f)
	c.Assert(len(cmd.Words), qt.Equals, 3)
	c.Assert(wordLiteral(t, cmd.Words[0]), qt.Equals, "echo")
	c.Assert(wordLiteral(t, cmd.Words[1]), qt.Equals, "hello")
	c.Assert(wordLiteral(t, cmd.Words[2]), qt.Equals, "world")
}

func TestParseAssignment(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "FOO=bar echo $FOO\n")
	cmd := onlySimpleCommand(t, f)
	c.Assert(len(cmd.Assigns), qt.Equals, 1)
	c.Assert(cmd.Assigns[0].Name, qt.Equals, "FOO")
	c.Assert(wordLiteral(t, cmd.Assigns[0].Value), qt.Equals, "bar")
	c.Assert(len(cmd.Words), qt.Equals, 2)
}

func TestParseRedirection(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "echo hi > out.txt 2>&1\n")
	cmd := onlySimpleCommand(t, f)
	c.Assert(len(cmd.Redirs), qt.Equals, 2)

	r0 := cmd.Redirs[0].Body.(*NormalRedir)
	c.Assert(r0.Op, qt.Equals, RedirFileOut)
	c.Assert(wordLiteral(t, r0.Operand), qt.Equals, "out.txt")
	c.Assert(cmd.Redirs[0].Fd, qt.IsNil)

	r1 := cmd.Redirs[1].Body.(*NormalRedir)
	c.Assert(r1.Op, qt.Equals, RedirFdOut)
	c.Assert(*cmd.Redirs[1].Fd, qt.Equals, 2)
}

func TestParsePipelineAndAndOr(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "a | b && c || d\n")
	item := f.Lines[0][0]
	c.Assert(len(item.AndOr.First.Commands), qt.Equals, 2)
	c.Assert(len(item.AndOr.Rest), qt.Equals, 2)
	c.Assert(item.AndOr.Rest[0].Op, qt.Equals, AndThen)
	c.Assert(item.AndOr.Rest[1].Op, qt.Equals, OrElse)
}

func TestParseAsyncItem(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "sleep 1 &\necho done\n")
	c.Assert(len(f.Lines), qt.Equals, 2)
	c.Assert(f.Lines[0][0].Async, qt.Not(qt.IsNil))
	c.Assert(f.Lines[1][0].Async, qt.IsNil)
}

func TestParseIfClause(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "if true; then echo a; elif false; then echo b; else echo c; fi\n")
	fc := f.Lines[0][0].AndOr.First.Commands[0].(*FullCompoundCommand[HereDoc])
	ifc := fc.Command.(*IfClause[HereDoc])
	c.Assert(len(ifc.Branches), qt.Equals, 2)
	c.Assert(ifc.HasElse, qt.IsTrue)
}

func TestParseWhileClause(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "while true; do echo x; done\n")
	fc := f.Lines[0][0].AndOr.First.Commands[0].(*FullCompoundCommand[HereDoc])
	wc := fc.Command.(*WhileClause[HereDoc])
	c.Assert(len(wc.Cond), qt.Equals, 1)
	c.Assert(len(wc.Body), qt.Equals, 1)
}

func TestParseForClause(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "for x in a b c; do echo $x; done\n")
	fc := f.Lines[0][0].AndOr.First.Commands[0].(*FullCompoundCommand[HereDoc])
	forc := fc.Command.(*ForClause[HereDoc])
	c.Assert(wordLiteral(t, forc.Name), qt.Equals, "x")
	c.Assert(forc.HasIn, qt.IsTrue)
	c.Assert(len(forc.Values), qt.Equals, 3)
}

func TestParseCaseClause(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "case $x in a|b) echo one ;; *) echo other ;; esac\n")
	fc := f.Lines[0][0].AndOr.First.Commands[0].(*FullCompoundCommand[HereDoc])
	cc := fc.Command.(*CaseClause[HereDoc])
	c.Assert(len(cc.Items), qt.Equals, 2)
	c.Assert(len(cc.Items[0].Patterns), qt.Equals, 2)
}

func TestParseGroupingAndSubshell(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "{ echo a; }\n")
	fc := f.Lines[0][0].AndOr.First.Commands[0].(*FullCompoundCommand[HereDoc])
	_, ok := fc.Command.(*Grouping[HereDoc])
	c.Assert(ok, qt.IsTrue)

	f = mustParse(t, "(echo a)\n")
	fc = f.Lines[0][0].AndOr.First.Commands[0].(*FullCompoundCommand[HereDoc])
	_, ok = fc.Command.(*Subshell[HereDoc])
	c.Assert(ok, qt.IsTrue)
}

func TestParseFunctionDefinition(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "greet() { echo hi; }\n")
	fn := f.Lines[0][0].AndOr.First.Commands[0].(*FunctionDefinition[HereDoc])
	c.Assert(fn.HasKeyword, qt.IsFalse)
	c.Assert(wordLiteral(t, fn.Name), qt.Equals, "greet")

	f = mustParse(t, "function greet { echo hi; }\n")
	fn = f.Lines[0][0].AndOr.First.Commands[0].(*FunctionDefinition[HereDoc])
	c.Assert(fn.HasKeyword, qt.IsTrue)
}

func TestParseHereDocContent(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "cat <<EOF\nhello\nworld\nEOF\n")
	cmd := onlySimpleCommand(t, f)
	c.Assert(len(cmd.Redirs), qt.Equals, 1)
	hd := cmd.Redirs[0].Body.(*HereDocBody[HereDoc])
	lit, _ := hd.Doc.Content.Literal()
	c.Assert(lit, qt.Equals, "hello\nworld\n")
}

func TestParseHereDocStripTabs(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f := mustParse(t, "cat <<-EOF\n\thello\nEOF\n")
	cmd := onlySimpleCommand(t, f)
	hd := cmd.Redirs[0].Body.(*HereDocBody[HereDoc])
	c.Assert(hd.Doc.RemoveTabs, qt.IsTrue)
	lit, _ := hd.Doc.Content.Literal()
	c.Assert(lit, qt.Equals, "hello\n")
}

func TestParseAliasSubstitution(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	p := NewParser(WithAliases(MapAliasTable{
		"ll": {Value: "ls -la"},
	}))
	f, err := p.ParseString("ll\n", "test")
	c.Assert(err, qt.IsNil)
	cmd := onlySimpleCommand(t, f)
	c.Assert(wordLiteral(t, cmd.Words[0]), qt.Equals, "ls")
	c.Assert(wordLiteral(t, cmd.Words[1]), qt.Equals, "-la")
}

func TestParseAliasResolvesToClauseKeyword(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	p := NewParser(WithAliases(MapAliasTable{
		"DO": {Value: "do"},
	}))
	f, err := p.ParseString("while :; DO :; done\n", "test")
	c.Assert(err, qt.IsNil)
	fc := f.Lines[0][0].AndOr.First.Commands[0].(*FullCompoundCommand[HereDoc])
	wc := fc.Command.(*WhileClause[HereDoc])
	c.Assert(len(wc.Cond), qt.Equals, 1)
	c.Assert(len(wc.Body), qt.Equals, 1)
}

func TestParseEmptyPipelineIsError(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	perr := mustFailParse(t, "!\n")
	c.Assert(perr.Kind, qt.Equals, EmptyPipeline)
}

func TestParseUnexpectedTokenAfterPipe(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	// The second "|" cannot itself start a command, so it is reported as
	// an invalid command token rather than a generic unexpected one.
	perr := mustFailParse(t, "a | | b\n")
	c.Assert(perr.Kind, qt.Equals, InvalidCommandToken)
}

func TestParseAsyncOperatorCannotStartCommand(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	// A bare "&" can only follow a command as an async suffix; it cannot
	// itself start one.
	perr := mustFailParse(t, "&\n")
	c.Assert(perr.Kind, qt.Equals, InvalidCommandToken)
}

func TestParseUnclosedGrouping(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	perr := mustFailParse(t, "{ echo a;\n")
	c.Assert(perr.Kind, qt.Equals, UnclosedGrouping)
	c.Assert(perr.Opening, qt.Not(qt.IsNil))
}

func TestParseEmptyCaseItemIsError(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	perr := mustFailParse(t, "case x in ) echo a ;; esac\n")
	c.Assert(perr.Kind, qt.Equals, EmptyCaseItem)
}

func TestParseMissingHereDocContent(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	perr := mustFailParse(t, "cat <<EOF\n")
	c.Assert(perr.Kind, qt.Equals, MissingHereDocContent)
}
