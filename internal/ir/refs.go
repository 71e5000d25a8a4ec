package ir

import "strings"

// Reference is a sealed interface representing the four reference kinds a
// mixin may use to name another mixin. Only Absolute, Relative, Lexical,
// and QualifiedThis implement it.
//
// References are pure values: they carry no resolution state and are safe
// to share between definitions.
type Reference interface {
	reference() // Sealed - only these four types implement it

	// String renders the reference in a diagnostic-friendly notation.
	String() string
}

// Absolute names a mixin by its full path from the global root.
type Absolute struct {
	Path []string
}

func (Absolute) reference() {}

func (r Absolute) String() string {
	return "/" + strings.Join(r.Path, ".")
}

// Relative names a mixin by De Bruijn ascent: climb Ascend lexical levels
// above the enclosing scope, then navigate Path downward. Ascend 0 anchors
// at the enclosing scope itself.
type Relative struct {
	Ascend int
	Path   []string
}

func (Relative) reference() {}

func (r Relative) String() string {
	return "^" + strings.Repeat("^", r.Ascend) + strings.Join(r.Path, ".")
}

// Lexical names a mixin by outward search: the nearest enclosing scope
// defining Path's first segment wins. If the first segment equals the
// referring mixin's own name the search starts one level further out, so a
// dependency named like the resource declaring it never resolves to itself.
type Lexical struct {
	Path []string
}

func (Lexical) reference() {}

func (r Lexical) String() string {
	return strings.Join(r.Path, ".")
}

// QualifiedThis names a mixin relative to the nearest enclosing symbol
// called Anchor. It is the explicit self-binding form used for structural
// recursion: a scope can refer to its own composed position without
// unrolling.
type QualifiedThis struct {
	Anchor string
	Path   []string
}

func (QualifiedThis) reference() {}

func (r QualifiedThis) String() string {
	if len(r.Path) == 0 {
		return r.Anchor + "@this"
	}
	return r.Anchor + "@this." + strings.Join(r.Path, ".")
}
