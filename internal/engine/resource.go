package engine

import (
	"github.com/overlay-lang/overlay/internal/ir"
)

// evalResource evaluates a resource-kind mixin through merge election.
//
// Patches are collected from every contributing definition, own origin
// first and then the strict supers in linearization order, excluding the
// elected evaluator's own patch contribution. With an elected merger the
// patches feed its aggregation; without one the resource is patcher-only
// and the patches fold as endofunctions over an externally supplied base
// value.
func (m *Mixin) evalResource() (any, error) {
	elected, err := m.sym.Election()
	if err != nil {
		return nil, err
	}
	evs, err := m.sym.Evaluators()
	if err != nil {
		return nil, err
	}

	d := deps{m: m}

	var patches []any
	for _, ev := range evs {
		if ev.Def == elected || ev.Def.Patch == nil {
			continue
		}
		ps, err := ev.Def.Patch(d)
		if err != nil {
			return nil, err
		}
		patches = append(patches, ps...)
	}

	if elected != nil {
		return elected.Merge(d, patches)
	}

	base, err := m.externBase()
	if err != nil {
		return nil, err
	}
	return ir.FoldPatches(base, patches)
}

// externBase finds the externally supplied base value for a patcher-only
// resource: the nearest kwargs bag on the runtime outer chain, keyed by
// the resource's own name. A static evaluation has no bag anywhere and
// is told to instantiate; an instance bag lacking the key is told which
// key is missing.
func (m *Mixin) externBase() (any, error) {
	for rm := m; rm != nil; rm = rm.outer {
		if rm.kwargs == nil {
			continue
		}
		if v, ok := rm.kwargs[m.sym.Key]; ok {
			return v, nil
		}
		return nil, NewMissingBaseValueError(m.sym.Path(), m.sym.Key, false)
	}
	return nil, NewMissingBaseValueError(m.sym.Path(), m.sym.Key, true)
}
