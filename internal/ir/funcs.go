package ir

import "fmt"

// Deps gives a resource computation access to its evaluated dependencies.
// Implemented by the evaluation engine; front-ends only consume it.
type Deps interface {
	// Get returns the evaluated value of the named dependency. Evaluation
	// is lazy: a dependency not asked for is never computed.
	Get(name string) (any, error)
}

// MergeFunc aggregates the patches contributed to a resource into its
// final value. Exactly one merger is elected per resource; it receives
// every patch from every other contributor, in linearization order.
type MergeFunc func(deps Deps, patches []any) (any, error)

// PatchFunc contributes zero or more patches to a resource's aggregation
// without being the aggregator itself.
type PatchFunc func(deps Deps) ([]any, error)

// Endo is a patch shaped as an endofunction. Patcher-only resources and
// scalar-valued resources fold their patches as Endos over a base value,
// in collection order. The fold is order-dependent: reordering patches may
// change the result.
type Endo func(v any) (any, error)

// FoldPatches applies patches to base in order. Every patch must be an
// Endo; a patch of any other type is rejected with an error naming its
// position and dynamic type.
func FoldPatches(base any, patches []any) (any, error) {
	v := base
	for i, p := range patches {
		endo, ok := p.(Endo)
		if !ok {
			return nil, fmt.Errorf("patch %d is %T, not an endofunction", i, p)
		}
		next, err := endo(v)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		v = next
	}
	return v, nil
}

// ValueMerger returns a MergeFunc for a resource whose own contribution is
// the constant v. Patches are folded over v as endofunctions, so a scalar
// resource can still be adjusted by later origins.
func ValueMerger(v any) MergeFunc {
	return func(deps Deps, patches []any) (any, error) {
		return FoldPatches(v, patches)
	}
}

// ComputedMerger returns a MergeFunc whose base value comes from fn, with
// patches folded over the result as endofunctions. fn sees the resource's
// dependencies.
func ComputedMerger(fn func(deps Deps) (any, error)) MergeFunc {
	return func(deps Deps, patches []any) (any, error) {
		base, err := fn(deps)
		if err != nil {
			return nil, err
		}
		return FoldPatches(base, patches)
	}
}

// SinglePatch adapts a one-value contribution to a PatchFunc.
func SinglePatch(fn func(deps Deps) (any, error)) PatchFunc {
	return func(deps Deps) ([]any, error) {
		v, err := fn(deps)
		if err != nil {
			return nil, err
		}
		return []any{v}, nil
	}
}
