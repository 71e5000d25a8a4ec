// Package testutil provides definition builders and logging helpers for
// engine, loader, and CLI tests. The builders mirror the public facade in
// miniature so internal packages can assemble fixtures without importing
// the facade.
package testutil

import (
	"io"
	"log/slog"
	"testing"

	"github.com/overlay-lang/overlay/internal/ir"
)

// Quiet silences the default slog logger for the duration of a test.
func Quiet(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
}

// ChildPair is one ordered (name, definitions) entry of a scope fixture.
type ChildPair struct {
	Name string
	Defs []ir.Definition
}

// Child builds a ChildPair.
func Child(name string, defs ...ir.Definition) ChildPair {
	return ChildPair{Name: name, Defs: defs}
}

// Scope builds a public scope definition from ordered child pairs.
func Scope(pairs ...ChildPair) *ir.ScopeDef {
	return ScopeWith(nil, pairs...)
}

// ScopeWith builds a public scope definition with base references.
func ScopeWith(bases []ir.Reference, pairs ...ChildPair) *ir.ScopeDef {
	d := &ir.ScopeDef{
		IsPublic: true,
		BaseRefs: bases,
		Children: make(map[string][]ir.Definition),
	}
	for _, p := range pairs {
		d.Children[p.Name] = append(d.Children[p.Name], p.Defs...)
		d.Keys = append(d.Keys, p.Name)
	}
	return d
}

// Value builds a public resource whose base value is the constant v, with
// patches folded over it as endofunctions.
func Value(v any) *ir.ResourceDef {
	return &ir.ResourceDef{IsPublic: true, Merge: ir.ValueMerger(v)}
}

// Compute builds a public resource computed from named dependencies, with
// patches folded over the result.
func Compute(deps []string, fn func(d ir.Deps) (any, error)) *ir.ResourceDef {
	return &ir.ResourceDef{IsPublic: true, DepNames: deps, Merge: ir.ComputedMerger(fn)}
}

// Merger builds a public resource aggregating raw patch values.
func Merger(deps []string, fn ir.MergeFunc) *ir.ResourceDef {
	return &ir.ResourceDef{IsPublic: true, DepNames: deps, Merge: fn}
}

// PatchValue builds a contributor of the single patch value v.
func PatchValue(v any) *ir.ResourceDef {
	return &ir.ResourceDef{
		IsPublic: true,
		Patch:    ir.SinglePatch(func(ir.Deps) (any, error) { return v, nil }),
	}
}

// PatchEndo builds a contributor of a single endofunction patch.
func PatchEndo(fn func(v any) (any, error)) *ir.ResourceDef {
	return &ir.ResourceDef{
		IsPublic: true,
		Patch:    ir.SinglePatch(func(ir.Deps) (any, error) { return ir.Endo(fn), nil }),
	}
}

// Extern builds a public placeholder resource requiring an externally
// supplied base value.
func Extern() *ir.ResourceDef {
	return &ir.ResourceDef{IsPublic: true}
}

// Private marks a definition private and returns it.
func Private(d ir.Definition) ir.Definition {
	switch v := d.(type) {
	case *ir.ScopeDef:
		v.IsPublic = false
	case *ir.ResourceDef:
		v.IsPublic = false
	}
	return d
}

// Eager marks a definition eager and returns it.
func Eager(d ir.Definition) ir.Definition {
	switch v := d.(type) {
	case *ir.ScopeDef:
		v.IsEager = true
	case *ir.ResourceDef:
		v.IsEager = true
	}
	return d
}

// Lex builds a lexical reference.
func Lex(path ...string) ir.Reference {
	return ir.Lexical{Path: path}
}
