package engine

import (
	"log/slog"

	"github.com/overlay-lang/overlay/internal/symtab"
)

// Scope is the frozen result of evaluating a scope-kind mixin: an
// immutable container mapping child names to their Mixins.
//
// A Static scope carries no externally supplied values and can be called
// to produce an Instance scope; an Instance scope has its kwargs bound
// and cannot be called again. Private children are retained internally,
// navigation needs them, but stay unreachable through Get and Names.
type Scope struct {
	sym   *symtab.Symbol
	mixin *Mixin

	children map[string]*Mixin
	order    []string
	public   map[string]bool

	instance bool

	// exposeAll lifts the visibility check, used when a union mount asks
	// for otherwise-private top-level names to be treated as public.
	exposeAll bool
}

// buildScope runs the four-phase scope construction for m's position.
func (m *Mixin) buildScope() (*Scope, error) {
	names, err := m.sym.Names()
	if err != nil {
		return nil, err
	}

	sc := &Scope{
		sym:      m.sym,
		mixin:    m,
		children: make(map[string]*Mixin, len(names)),
		order:    names,
		public:   make(map[string]bool, len(names)),
		instance: m.kwargs != nil,
	}

	// Phase 1: create every child mixin, public and private alike. The
	// kwargs bag threads through so nested patcher-only resources see the
	// values supplied at the instantiation boundary.
	syms := make(map[string]*symtab.Symbol, len(names))
	for _, name := range names {
		child, err := m.sym.Child(name)
		if err != nil {
			return nil, err
		}
		syms[name] = child
		sc.children[name] = newMixin(child, m, m.kwargs)

		pub, err := child.Public()
		if err != nil {
			return nil, err
		}
		sc.public[name] = pub
	}

	// Phase 2: wire same-scope sibling dependencies to the mixins created
	// in phase 1. Wiring happens before anything evaluates, so two
	// structurally circular siblings construct fine; only evaluating a
	// truly circular pair fails.
	for _, name := range names {
		child := syms[name]
		kind, err := child.Kind()
		if err != nil {
			return nil, err
		}
		if kind != symtab.KindResource {
			continue
		}
		sibs, err := child.SiblingDeps()
		if err != nil {
			return nil, err
		}
		if len(sibs) == 0 {
			continue
		}
		cm := sc.children[name]
		cm.siblings = make(map[string]*Mixin, len(sibs))
		for _, sib := range sibs {
			if sm, ok := sc.children[sib.Key]; ok {
				cm.siblings[sib.Key] = sm
			}
		}
	}

	// Phase 3: force eager children in declaration order. Their side
	// effects complete before any caller observes the scope.
	for _, name := range names {
		eager, err := syms[name].EagerFlag()
		if err != nil {
			return nil, err
		}
		if !eager {
			continue
		}
		slog.Debug("forcing eager child", "path", syms[name].Path())
		if _, err := sc.children[name].Evaluate(); err != nil {
			return nil, err
		}
	}

	// Phase 4: frozen. Static or instance flavor was fixed by the kwargs
	// bag above.
	return sc, nil
}

// Get returns the evaluated value of the named child: a concrete value
// for resources, a nested *Scope for scopes. Absent and private names
// report a not-found error.
func (s *Scope) Get(name string) (any, error) {
	c, ok := s.children[name]
	if !ok {
		return nil, NewNotFoundError(s.sym.Path(), name)
	}
	if !s.public[name] && !s.exposeAll {
		return nil, NewNotFoundError(s.sym.Path(), name)
	}
	return c.Evaluate()
}

// Names enumerates the visible child names in declaration order.
func (s *Scope) Names() []string {
	out := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if s.public[name] || s.exposeAll {
			out = append(out, name)
		}
	}
	return out
}

// IsInstance reports whether this scope has externally supplied values
// bound.
func (s *Scope) IsInstance() bool {
	return s.instance
}

// Call instantiates a static scope with externally supplied values. The
// construction re-runs from scratch against the same runtime outer chain,
// so every call yields an independent instance: nothing is shared or
// cached across calls, even for identical kwargs. Instance scopes cannot
// be called again.
func (s *Scope) Call(kwargs map[string]any) (*Scope, error) {
	if s.instance {
		return nil, NewNotInstantiableError(s.sym.Path())
	}
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	slog.Debug("instantiating scope", "path", s.sym.Path(), "kwargs", len(kwargs))

	inst := newMixin(s.sym, s.mixin.outer, kwargs)
	v, err := inst.Evaluate()
	if err != nil {
		return nil, err
	}
	return v.(*Scope), nil
}

// childBySym returns the child mixin for an interned Symbol, private
// children included, or nil when sym does not live here.
func (s *Scope) childBySym(sym *symtab.Symbol) *Mixin {
	c, ok := s.children[sym.Key]
	if !ok || c.sym != sym {
		return nil
	}
	return c
}
