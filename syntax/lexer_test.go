// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	s := NewSource(NewStringReader(src), SourceString, "test")
	lex := NewLexer(s)
	var toks []Token
	for {
		tok, err := lex.Next()
		if err != nil {
			t.Fatalf("unexpected lex error: %v", err)
		}
		toks = append(toks, tok)
		if tok.Kind == TokEOF {
			return toks
		}
	}
}

func wordLiteral(t *testing.T, w Word) string {
	t.Helper()
	lit, ok := w.Literal()
	if !ok {
		t.Fatalf("word %#v is not a plain literal", w)
	}
	return lit
}

func TestLexerWords(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	toks := lexAll(t, "echo foo\n")
	c.Assert(len(toks), qt.Equals, 4) // echo, foo, newline, eof
	c.Assert(toks[0].Kind, qt.Equals, TokWord)
	c.Assert(wordLiteral(t, toks[0].Word), qt.Equals, "echo")
	c.Assert(toks[1].Kind, qt.Equals, TokWord)
	c.Assert(wordLiteral(t, toks[1].Word), qt.Equals, "foo")
	c.Assert(toks[2].Kind, qt.Equals, TokNewline)
	c.Assert(toks[3].Kind, qt.Equals, TokEOF)
}

func TestLexerOperatorsMaximalMunch(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	toks := lexAll(t, "a>>b")
	c.Assert(toks[1].Kind, qt.Equals, TokOperator)
	c.Assert(toks[1].Op, qt.Equals, DGreat)

	toks = lexAll(t, "a>b")
	c.Assert(toks[1].Op, qt.Equals, Great)

	toks = lexAll(t, "a&&b")
	c.Assert(toks[1].Op, qt.Equals, AndAnd)

	toks = lexAll(t, "a&b")
	c.Assert(toks[1].Op, qt.Equals, And)
}

func TestLexerIONumber(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	toks := lexAll(t, "2>file\n")
	c.Assert(toks[0].Kind, qt.Equals, TokIoNumber)
	c.Assert(wordLiteral(t, toks[0].Word), qt.Equals, "2")
	c.Assert(toks[1].Op, qt.Equals, Great)
}

func TestLexerSingleQuote(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	toks := lexAll(t, "'a b'\n")
	c.Assert(toks[0].Kind, qt.Equals, TokWord)
	lit, quoted := toks[0].Word.Unquoted()
	c.Assert(quoted, qt.IsTrue)
	c.Assert(lit, qt.Equals, "a b")
}

func TestLexerUnclosedSingleQuote(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	s := NewSource(NewStringReader("'abc"), SourceString, "test")
	lex := NewLexer(s)
	_, err := lex.Next()
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(err.Kind, qt.Equals, UnclosedSingleQuote)
}

func TestLexerReservedWordOnlyAtCommandStart(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	toks := lexAll(t, "if true; then echo if; fi\n")
	c.Assert(toks[0].HasKeyword, qt.IsTrue)
	c.Assert(toks[0].Keyword, qt.Equals, KwIf)

	// The second "if" appears as an ordinary command argument, not at a
	// command-start position, so it must not be tagged as a keyword.
	var sawBareIf bool
	for _, tok := range toks {
		if tok.Kind == TokWord {
			if lit, ok := tok.Word.Literal(); ok && lit == "if" && !tok.HasKeyword {
				sawBareIf = true
			}
		}
	}
	c.Assert(sawBareIf, qt.IsTrue)
}

func TestLexerHereDoc(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	src := "cat <<EOF\nhello\nEOF\n"
	s := NewSource(NewStringReader(src), SourceString, "test")
	lex := NewLexer(s)

	tok, err := lex.Next() // cat
	c.Assert(err, qt.Equals, (*ParseError)(nil))
	c.Assert(wordLiteral(t, tok.Word), qt.Equals, "cat")

	tok, err = lex.Next() // <<
	c.Assert(err, qt.Equals, (*ParseError)(nil))
	c.Assert(tok.Op, qt.Equals, DLess)

	var doc *HereDoc
	lex.RegisterHereDocSlot(&doc)

	tok, err = lex.Next() // newline, which drains the pending here-doc
	c.Assert(err, qt.Equals, (*ParseError)(nil))
	c.Assert(tok.Kind, qt.Equals, TokNewline)

	c.Assert(doc, qt.Not(qt.IsNil))
	lit, _ := doc.Content.Literal()
	c.Assert(lit, qt.Equals, "hello\n")
}

func TestLexerHereDocDelimiterAtEOF(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	s := NewSource(NewStringReader("<<"), SourceString, "test")
	lex := NewLexer(s)
	_, err := lex.Next()
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(err.Kind, qt.Equals, UnexpectedEndOfInput)
}

func TestLexerHereDocDelimiterIsOperator(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	s := NewSource(NewStringReader("<< <<"), SourceString, "test")
	lex := NewLexer(s)
	_, err := lex.Next()
	c.Assert(err, qt.Not(qt.IsNil))
	c.Assert(err.Kind, qt.Equals, MissingHereDocDelimiter)
}

func TestLexerCommandSubstVerbatim(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	toks := lexAll(t, "echo $(echo a (b) c)\n")
	c.Assert(toks[1].Kind, qt.Equals, TokWord)
	c.Assert(len(toks[1].Word.Units), qt.Equals, 1)
	uq, ok := toks[1].Word.Units[0].(*UnquotedUnit)
	c.Assert(ok, qt.IsTrue)
	cs, ok := uq.Unit.(*CommandSubstUnit)
	c.Assert(ok, qt.IsTrue)
	c.Assert(cs.Content, qt.Equals, "echo a (b) c")
}
