// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

// reparse parses src, renders the result, and parses that rendering
// again, failing the test if the second parse fails; it returns the
// re-parsed AST and the rendering so callers can check both. Stability
// under a second round trip is checked by TestRenderRoundTripIdempotent.
func reparse(t *testing.T, src string) (*File, string) {
	t.Helper()
	f := mustParse(t, src)
	out := f.String()
	f2, err := NewParser().ParseString(out, "rendered")
	if err != nil {
		t.Fatalf("re-parsing rendered output failed: %v\nrendered: %q", err, out)
	}
	return f2, out
}

func TestRenderRoundTripSimpleCommand(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f2, out := reparse(t, "echo hello world\n")
	cmd := onlySimpleCommand(t, f2)
	c.Assert(wordLiteral(t, cmd.Words[0]), qt.Equals, "echo")
	c.Assert(out, qt.Equals, "echo hello world")
}

func TestRenderRoundTripIdempotent(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	sources := []string{
		"echo hi > out.txt\n",
		"a | b && c || d\n",
		"if true; then echo a; else echo b; fi\n",
		"while true; do echo x; done\n",
		"for x in a b c; do echo $x; done\n",
		"case $x in a|b) echo one ;; *) echo two ;; esac\n",
		"{ echo a; }\n",
		"(echo a)\n",
		"greet() { echo hi; }\n",
	}
	for _, src := range sources {
		f := mustParse(t, src)
		out1 := f.String()
		f2, err := NewParser().ParseString(out1, "rendered")
		c.Assert(err, qt.IsNil)
		out2 := f2.String()
		c.Assert(out2, qt.Equals, out1, qt.Commentf("not idempotent for %q", src))
	}
}

func TestRenderRoundTripHereDoc(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	f2, out := reparse(t, "cat <<EOF\nhello\nworld\nEOF\n")
	cmd := onlySimpleCommand(t, f2)
	hd := cmd.Redirs[0].Body.(*HereDocBody[HereDoc])
	lit, _ := hd.Doc.Content.Literal()
	c.Assert(lit, qt.Equals, "hello\nworld\n")
	c.Assert(out, qt.Equals, "cat <<EOF\nhello\nworld\nEOF\n")
}

func TestRenderRedirOperators(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	_, out := reparse(t, "cmd < in.txt > out.txt 2>&1 >> log.txt\n")
	c.Assert(out, qt.Equals, "cmd < in.txt > out.txt 2>& 1 >> log.txt")
}
