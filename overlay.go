// Package overlay composes trees of mixin definitions into lazily
// evaluated scopes.
//
// A scope is a namespace of named positions. Several definitions may
// contribute to the same position: scope-shaped contributions merge
// their children, resource-shaped contributions elect a single merger
// that aggregates the others' patches. Inheritance references are
// resolved against the composed tree, so a definition inherited into a
// new frame sees the inheritor's bindings.
//
// Nothing is computed until asked for. Reading a resource evaluates its
// dependency closure exactly once; calling a scope with keyword
// arguments produces an independent instance whose extern resources
// read from the supplied bag.
package overlay

import (
	"github.com/overlay-lang/overlay/internal/engine"
	"github.com/overlay-lang/overlay/internal/ir"
	"github.com/overlay-lang/overlay/internal/symtab"
)

// Core contract types, shared with definitions produced by the file
// front-end.
type (
	// Definition is one contribution to a composed position.
	Definition = ir.Definition

	// Reference names another position in the composed tree.
	Reference = ir.Reference

	// Deps gives a resource computation access to its evaluated
	// dependencies.
	Deps = ir.Deps

	// MergeFunc aggregates contributed patches into a final value.
	MergeFunc = ir.MergeFunc

	// PatchFunc contributes patches without aggregating.
	PatchFunc = ir.PatchFunc

	// Endo is a patch shaped as an endofunction over the base value.
	Endo = ir.Endo

	// Scope is an evaluated namespace.
	Scope = engine.Scope
)

// Option configures Evaluate.
type Option func(*config)

type config struct {
	modulesPublic bool
}

// WithModulesPublic exposes the root's own child names through Names
// even when their definitions are private. Mirrors treating each
// top-level definition as an importable module.
func WithModulesPublic() Option {
	return func(c *config) { c.modulesPublic = true }
}

// Evaluate composes the given definitions into a root scope and builds
// it. All definitions contribute to the same root position, so scopes
// with the same child names union-mount.
func Evaluate(defs []Definition, opts ...Option) (*Scope, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	var engOpts []engine.Option
	if cfg.modulesPublic {
		engOpts = append(engOpts, engine.WithRootNamesPublic())
	}
	return engine.EvaluateRoot(symtab.NewRoot(defs...), engOpts...)
}

// Error predicates, re-exported so callers need not import the internal
// packages to classify failures.
var (
	IsNotFound           = engine.IsNotFound
	IsMissingDependency  = engine.IsMissingDependency
	IsMissingBaseValue   = engine.IsMissingBaseValue
	IsStructuralConflict = engine.IsStructuralConflict
	IsValueCycle         = engine.IsValueCycle
	IsNotInstantiable    = engine.IsNotInstantiable
	IsInheritanceCycle   = symtab.IsInheritanceCycle
	IsAmbiguousMerger    = symtab.IsAmbiguousMerger
)
