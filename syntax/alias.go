// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strings"

// Alias is one entry of the alias table consumed (never mutated) by the
// parser, per spec §6.
type Alias struct {
	Value  string
	Origin Location
	Global bool
}

// AliasTable looks up alias definitions by name. The parser only reads
// it; ownership and mutation are the caller's responsibility.
type AliasTable interface {
	Lookup(name string) (Alias, bool)
}

// MapAliasTable is the simplest AliasTable: a plain map.
type MapAliasTable map[string]Alias

func (t MapAliasTable) Lookup(name string) (Alias, bool) {
	a, ok := t[name]
	return a, ok
}

// noAliases is used when a Parser is built without WithAliases.
type noAliases struct{}

func (noAliases) Lookup(string) (Alias, bool) { return Alias{}, false }

// aliasKey identifies one substitution site: the defining Alias's source
// Location. Per spec §4.3, an alias is only expanded once per invocation
// point, tracked by this key.
type aliasKey struct {
	frag       *CodeFragment
	start, end int
}

func keyOf(loc Location) aliasKey {
	return aliasKey{frag: loc.Frag, start: loc.Start, end: loc.End}
}

// aliasGuard tracks which alias definitions have already been spliced in
// during one recursive re-entry, so substitution terminates on any finite
// input (spec testable property 5: the set is strictly growing within one
// call to a top-level production).
type aliasGuard struct {
	seen map[aliasKey]bool
}

func newAliasGuard() *aliasGuard {
	return &aliasGuard{seen: make(map[aliasKey]bool)}
}

func (g *aliasGuard) tryMark(loc Location) bool {
	k := keyOf(loc)
	if g.seen[k] {
		return false
	}
	g.seen[k] = true
	return true
}

// trailingSpace reports whether an alias value ends in a space or tab.
// The parser checks it when splicing a value in, but a trailing blank
// does not make the word after the spliced-in text eligible for alias
// lookup: only words at a command-word position are looked up.
func trailingSpace(value string) bool {
	return strings.HasSuffix(value, " ") || strings.HasSuffix(value, "\t")
}
