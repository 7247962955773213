// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

var update = flag.Bool("u", false, "update testscript golden files")

// TestScripts drives testdata/scripts/*.txtar through a "roundtrip" command
// that parses a shell source file and writes back its rendered form, then
// lets each script's own "cmp" assert the result against a committed golden
// file. This is the fixture-driven round-trip check spec §6 asks for: it
// does not assert byte-identical source reproduction, only that the
// rendering a script commits to is exactly what it re-commits to next time.
func TestScripts(t *testing.T) {
	t.Parallel()
	testscript.Run(t, testscript.Params{
		Dir: "testdata/scripts",
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"roundtrip": cmdRoundtrip,
		},
		UpdateScripts: *update,
	})
}

func cmdRoundtrip(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 2 {
		ts.Fatalf("usage: roundtrip input.sh output.sh")
	}
	src := ts.ReadFile(args[0])
	f, err := NewParser().ParseString(src, args[0])
	if neg {
		if err == nil {
			ts.Fatalf("parsing %s unexpectedly succeeded", args[0])
		}
		return
	}
	if err != nil {
		ts.Fatalf("parsing %s: %v", args[0], err)
	}
	out := strings.TrimRight(f.String(), "\n") + "\n"
	ts.Check(os.WriteFile(ts.MkAbs(args[1]), []byte(out), 0o644))
}
