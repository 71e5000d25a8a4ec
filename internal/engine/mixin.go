package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/overlay-lang/overlay/internal/ir"
	"github.com/overlay-lang/overlay/internal/symtab"
)

// EvalState tracks a Mixin through its compute-once lifecycle.
type EvalState int

const (
	// StateUnevaluated means the computation has not started.
	StateUnevaluated EvalState = iota

	// StateEvaluating means the computation is in progress. Re-entry in
	// this state is a true value cycle.
	StateEvaluating

	// StateEvaluated means the computation finished; its outcome, value
	// or error, is memoized.
	StateEvaluated
)

// Mixin pairs a Symbol with a runtime outer chain and an optional
// externally supplied kwargs bag. It is mutable only during its enclosing
// scope's construction, when sibling dependencies are wired in; once its
// computation runs it is effectively immutable.
//
// A nil kwargs bag marks a static mixin. Instance construction threads a
// non-nil bag (possibly empty) down through nested scope children so that
// arbitrarily deep patcher-only resources see the values supplied at the
// call boundary.
type Mixin struct {
	sym    *symtab.Symbol
	outer  *Mixin
	kwargs map[string]any

	// siblings maps same-scope dependency names to the Mixins created
	// alongside this one. Wired during scope construction, before any
	// child evaluates, which is what lets structurally circular siblings
	// construct successfully.
	siblings map[string]*Mixin

	state EvalState
	value any
	err   error
}

func newMixin(sym *symtab.Symbol, outer *Mixin, kwargs map[string]any) *Mixin {
	return &Mixin{
		sym:    sym,
		outer:  outer,
		kwargs: kwargs,
	}
}

// Symbol returns the composed position this mixin evaluates.
func (m *Mixin) Symbol() *symtab.Symbol {
	return m.sym
}

// Evaluate runs the mixin's computation at most once and memoizes the
// outcome, error included. Re-entry while the computation is still in
// progress reports a value cycle instead of recursing.
func (m *Mixin) Evaluate() (any, error) {
	switch m.state {
	case StateEvaluated:
		return m.value, m.err
	case StateEvaluating:
		return nil, NewValueCycleError(m.sym.Path())
	}

	m.state = StateEvaluating
	slog.Debug("evaluating mixin", "path", m.sym.Path())

	v, err := m.compute()
	if err != nil && m.sym.Outer != nil {
		// Annotate with the path being evaluated unless the error already
		// originates exactly here.
		var re *RuntimeError
		if !errors.As(err, &re) || re.Path != m.sym.Path() {
			err = fmt.Errorf("evaluating %s: %w", m.sym.Path(), err)
		}
	}

	m.value = v
	m.err = err
	m.state = StateEvaluated
	return m.value, m.err
}

func (m *Mixin) compute() (any, error) {
	kind, err := m.sym.Kind()
	if err != nil {
		return nil, err
	}
	switch kind {
	case symtab.KindConflict:
		return nil, NewStructuralConflictError(m.sym.Path())
	case symtab.KindResource:
		return m.evalResource()
	default:
		return m.buildScope()
	}
}

// deps is the ir.Deps view handed to resource computations. Sibling names
// hit the wired mixins directly; everything else resolves lexically from
// the resource's composed position and is reached by structural
// lowest-common-ancestor navigation.
type deps struct {
	m *Mixin
}

// Get implements ir.Deps.
func (d deps) Get(name string) (any, error) {
	if sib, ok := d.m.siblings[name]; ok {
		return sib.Evaluate()
	}

	targets, err := symtab.Resolve(ir.Lexical{Path: []string{name}}, d.m.sym, d.m.sym)
	if err != nil {
		if symtab.IsNotFound(err) {
			return nil, NewMissingDependencyError(d.m.sym.Path(), name)
		}
		return nil, err
	}

	target, err := d.m.navigateTo(targets[0])
	if err != nil {
		return nil, err
	}
	return target.Evaluate()
}

// navigateTo locates the runtime Mixin for a target Symbol reached from
// m's position: align depths, walk both symbols up in lockstep to their
// lowest common ancestor, walk the runtime outer chain up by the same
// number of steps, then evaluate back down indexing each intermediate
// scope's children by symbol identity.
//
// The downward walk forces evaluation of every intermediate scope, which
// is where a genuine value cycle surfaces.
func (m *Mixin) navigateTo(target *symtab.Symbol) (*Mixin, error) {
	a, b := m.sym, target

	// down collects target's ancestry back to (but excluding) the LCA,
	// deepest first.
	var down []*symtab.Symbol
	for b.Depth > a.Depth {
		down = append(down, b)
		b = b.Outer
	}
	up := 0
	for a.Depth > b.Depth {
		a = a.Outer
		up++
	}
	for a != b {
		a = a.Outer
		up++
		down = append(down, b)
		b = b.Outer
	}

	rm := m
	for i := 0; i < up; i++ {
		if rm.outer == nil {
			return nil, NewNotFoundError(m.sym.Path(), target.Path())
		}
		rm = rm.outer
	}

	for i := len(down) - 1; i >= 0; i-- {
		v, err := rm.Evaluate()
		if err != nil {
			return nil, err
		}
		sc, ok := v.(*Scope)
		if !ok {
			return nil, NewNotFoundError(rm.sym.Path(), down[i].Key)
		}
		next := sc.childBySym(down[i])
		if next == nil {
			return nil, NewNotFoundError(rm.sym.Path(), down[i].Key)
		}
		rm = next
	}
	return rm, nil
}
