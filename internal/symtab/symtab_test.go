package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlay-lang/overlay/internal/ir"
)

// =============================================================================
// Fixture helpers
// =============================================================================

// scope builds a public scope definition from ordered (name, defs) pairs.
func scopeOf(bases []ir.Reference, pairs ...childPair) *ir.ScopeDef {
	d := &ir.ScopeDef{
		IsPublic: true,
		BaseRefs: bases,
		Children: make(map[string][]ir.Definition),
	}
	for _, p := range pairs {
		d.Children[p.name] = append(d.Children[p.name], p.defs...)
		d.Keys = append(d.Keys, p.name)
	}
	return d
}

type childPair struct {
	name string
	defs []ir.Definition
}

func child(name string, defs ...ir.Definition) childPair {
	return childPair{name: name, defs: defs}
}

func value(v any) *ir.ResourceDef {
	return &ir.ResourceDef{IsPublic: true, Merge: ir.ValueMerger(v)}
}

func lex(path ...string) ir.Reference {
	return ir.Lexical{Path: path}
}

// diamondRoot builds the two-module diamond: M1 and M2 each refine C2 (and
// M2 adds C3), M3 composes both. The ancestor set of M3.C3 must close over
// both modules' refinements exactly once each.
func diamondRoot(t *testing.T) *Symbol {
	t.Helper()
	m1 := scopeOf(nil,
		child("C1", scopeOf(nil)),
		child("C2", scopeOf([]ir.Reference{lex("C1")})),
	)
	m2 := scopeOf(nil,
		child("C2", scopeOf([]ir.Reference{lex("C1")})),
		child("C3", scopeOf([]ir.Reference{lex("C2")})),
	)
	m3 := scopeOf([]ir.Reference{lex("M1"), lex("M2")})
	return NewRoot(scopeOf(nil,
		child("M1", m1),
		child("M2", m2),
		child("M3", m3),
	))
}

func mustChild(t *testing.T, s *Symbol, key string) *Symbol {
	t.Helper()
	c, err := s.Child(key)
	require.NoError(t, err)
	return c
}

// =============================================================================
// Symbol Interning Tests
// =============================================================================

func TestSymbol_Child_InternsByIdentity(t *testing.T) {
	root := diamondRoot(t)

	a := mustChild(t, root, "M1")
	b := mustChild(t, root, "M1")
	assert.Same(t, a, b, "repeated child access must return the interned object")

	c1a := mustChild(t, a, "C1")
	c1b := mustChild(t, b, "C1")
	assert.Same(t, c1a, c1b)
}

func TestSymbol_Child_NotFound(t *testing.T) {
	root := diamondRoot(t)

	_, err := root.Child("M9")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestSymbol_Path(t *testing.T) {
	root := diamondRoot(t)

	assert.Equal(t, "/", root.Path())
	m1 := mustChild(t, root, "M1")
	assert.Equal(t, "/M1", m1.Path())
	assert.Equal(t, "/M1.C2", mustChild(t, m1, "C2").Path())
}

func TestSymbol_Names_InheritedKeysVisible(t *testing.T) {
	root := diamondRoot(t)
	m3 := mustChild(t, root, "M3")

	names, err := m3.Names()
	require.NoError(t, err)
	// M3 declares nothing of its own; everything arrives through its bases,
	// M1's keys first.
	assert.Equal(t, []string{"C1", "C2", "C3"}, names)
}

// =============================================================================
// Linearization Tests
// =============================================================================

func TestSymbol_Linearize_DiamondArity(t *testing.T) {
	root := diamondRoot(t)
	m1 := mustChild(t, root, "M1")
	m2 := mustChild(t, root, "M2")
	m3 := mustChild(t, root, "M3")

	c3 := mustChild(t, m3, "C3")
	ancestors, err := c3.Ancestors()
	require.NoError(t, err)

	// The composed C3 closes over: itself, M2's C3, the composed C2, both
	// modules' C2 refinements, the composed C1, and M1's C1. Reaching the
	// composed C1 through both C2 refinements must converge on one Symbol:
	// 7 distinct ancestors, not 8.
	require.Len(t, ancestors, 7)

	want := make(map[*Symbol]bool)
	want[c3] = true
	want[mustChild(t, m2, "C3")] = true
	want[mustChild(t, m3, "C2")] = true
	want[mustChild(t, m1, "C2")] = true
	want[mustChild(t, m2, "C2")] = true
	want[mustChild(t, m3, "C1")] = true
	want[mustChild(t, m1, "C1")] = true
	for _, a := range ancestors {
		assert.True(t, want[a], "unexpected ancestor %s", a.Path())
	}

	seen := make(map[*Symbol]bool)
	for _, a := range ancestors {
		assert.False(t, seen[a], "duplicate ancestor %s", a.Path())
		seen[a] = true
	}
}

func TestSymbol_Linearize_HeadIsSelf(t *testing.T) {
	root := diamondRoot(t)
	c2 := mustChild(t, mustChild(t, root, "M3"), "C2")

	lin, err := c2.Linearize()
	require.NoError(t, err)
	require.NotEmpty(t, lin)
	assert.Same(t, c2, lin[0].Sym)
	assert.Same(t, c2, lin[0].At)
}

func TestSymbol_Linearize_RecordsCompositionFrames(t *testing.T) {
	root := diamondRoot(t)
	m3 := mustChild(t, root, "M3")
	c3 := mustChild(t, m3, "C3")

	lin, err := c3.Linearize()
	require.NoError(t, err)

	m2c3 := mustChild(t, mustChild(t, root, "M2"), "C3")
	for _, e := range lin {
		if e.Sym == m2c3 {
			// M2's C3 was reached through the composed position, so its
			// references must resolve in the composed frame.
			assert.Same(t, c3, e.At)
			return
		}
	}
	t.Fatalf("M2.C3 not found in linearization of %s", c3.Path())
}

func TestSymbol_Linearize_IsMemoized(t *testing.T) {
	root := diamondRoot(t)
	c3 := mustChild(t, mustChild(t, root, "M3"), "C3")

	first, err := c3.Linearize()
	require.NoError(t, err)
	second, err := c3.Linearize()
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Same(t, first[i].Sym, second[i].Sym)
	}
}

func TestSymbol_Linearize_InheritanceCycle(t *testing.T) {
	// A inherits from its own child: the linearization must terminate with
	// a cycle error instead of recursing forever.
	a := scopeOf([]ir.Reference{ir.Absolute{Path: []string{"A", "B"}}},
		child("B", scopeOf(nil)),
	)
	root := NewRoot(scopeOf(nil, child("A", a)))

	sym := mustChild(t, root, "A")
	_, err := sym.Linearize()
	require.Error(t, err)
	assert.True(t, IsInheritanceCycle(err))
}

// =============================================================================
// Union Mount Tests
// =============================================================================

func TestNewRoot_UnionMountMergesNamespaces(t *testing.T) {
	rootA := scopeOf(nil, child("shared", scopeOf(nil, child("a", value(1)))))
	rootB := scopeOf(nil, child("shared", scopeOf(nil, child("b", value(2)))))

	root := NewRoot(rootA, rootB)
	shared := mustChild(t, root, "shared")

	names, err := shared.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
	assert.Len(t, shared.Origin, 2, "both mounts contribute origins at the shared position")
}
