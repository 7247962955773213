// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "fmt"

// SourceKind identifies where a CodeFragment's bytes originally came from.
// Two locations compare unequal whenever their fragments carry a
// different SourceKind, even if their byte ranges happen to coincide.
type SourceKind int

const (
	SourceFile SourceKind = iota
	SourceStdin
	SourceString
	// SourceAlias marks a fragment spliced in by alias substitution; Origin
	// points at the call-site word that triggered the expansion, so
	// diagnostics can be attributed to the user's source rather than the
	// alias body.
	SourceAlias
)

func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceStdin:
		return "stdin"
	case SourceString:
		return "string"
	case SourceAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// CodeFragment is one contiguous piece of source text: a script file, the
// standard input stream, or an alias expansion. Every CodeFragment instance
// is distinct even if two fragments hold identical bytes, which is what
// gives Location its "never equal across fragments" property.
type CodeFragment struct {
	Kind SourceKind
	Name string // file path, alias name, or other descriptive label

	// StartLine is the 1-based line number of the first line of this
	// fragment within its own coordinate space.
	StartLine int

	// Origin is set for SourceAlias fragments: it points at the call-site
	// location in the parent fragment that triggered the expansion.
	Origin *Location
}

// Location identifies a byte range within a CodeFragment.
type Location struct {
	Frag       *CodeFragment
	Start, End int // byte offsets relative to Frag
}

// Pos returns the single-point location at the start of l, useful for
// diagnostics that want "the first byte of this node".
func (l Location) Pos() Location { return Location{l.Frag, l.Start, l.Start} }

// Equal reports whether two locations refer to the same fragment and byte
// range. Locations from different fragments are never equal, even when
// their offsets coincide — this holds even for two fragments of the same
// SourceKind, since every CodeFragment is a distinct allocation.
func (l Location) Equal(o Location) bool {
	return l.Frag == o.Frag && l.Start == o.Start && l.End == o.End
}

// IsZero reports whether l was never assigned a fragment.
func (l Location) IsZero() bool { return l.Frag == nil }

func (l Location) String() string {
	if l.Frag == nil {
		return "<no location>"
	}
	name := l.Frag.Name
	if name == "" {
		name = l.Frag.Kind.String()
	}
	return fmt.Sprintf("%s:%d:%d", name, l.Frag.StartLine, l.Start)
}

// Root walks Origin pointers until it reaches a fragment with no origin
// (a real file, stdin, or string fragment), returning that root location.
// It is used to decide whether a Location is reachable from another code
// fragment, per the testable property that every Location in a returned
// AST is a sub-range of its own fragment or of an alias-origin fragment
// reachable from it.
func (l Location) Root() Location {
	for l.Frag != nil && l.Frag.Origin != nil {
		l = *l.Frag.Origin
	}
	return l
}
