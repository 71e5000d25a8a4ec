package symtab

import "github.com/overlay-lang/overlay/internal/ir"

// SuperEntry is one entry of a position's linearized strict-super
// sequence.
//
// Sym is the ancestor position whose definitions contribute here. At is
// the composed position the ancestor was reached through: the frame whose
// outer chain is in force when the ancestor's references resolve. For the
// head entry and for ancestors reached by explicit base references the two
// coincide; for ancestors reached through the outer chain At stays at the
// inheriting position. At is the reverse index the resolver consults to
// unfold one inheritance level.
type SuperEntry struct {
	Sym *Symbol
	At  *Symbol
}

// Linearize returns the strict-super sequence of s, nearest first. The
// head entry is s itself; the strict supers follow.
//
// Ordering: own definitions first; then, for each base reference in
// declaration order, the base's own sequence flattened; then the positions
// inherited through the outer chain, in the outer's linearization order.
// Deduplication is first-occurrence-wins by Symbol identity, which is what
// makes diamonds safe: one ancestor reached through two composition paths
// is one interned Symbol and appears exactly once.
//
// Base references resolve in the composed frame (At), not at the lexical
// definition site. A base written inside a module therefore binds to
// whatever the final composition exposes under that name, which is how two
// modules each refining the same child see each other's refinements.
//
// The result is memoized. A position observed again while its own
// linearization is still in progress is an inheritance cycle.
func (s *Symbol) Linearize() ([]SuperEntry, error) {
	switch s.linState {
	case linDone:
		return s.lin, nil
	case linInProgress:
		return nil, NewInheritanceCycleError(s)
	}
	s.linState = linInProgress

	seen := make(map[*Symbol]bool)
	var out []SuperEntry

	var visit func(t, at *Symbol) error
	visit = func(t, at *Symbol) error {
		if seen[t] {
			return nil
		}
		seen[t] = true
		out = append(out, SuperEntry{Sym: t, At: at})

		// Explicit bases declared on this position's own definitions.
		for _, d := range t.Origin {
			for _, ref := range d.Bases() {
				targets, err := Resolve(ref, at, t)
				if err != nil {
					return err
				}
				for _, u := range targets {
					if err := visit(u, u); err != nil {
						return err
					}
				}
			}
		}

		// Positions inherited through the outer chain: the same key
		// defined on any strict super of the structural parent.
		if t.Outer != nil {
			outerLin, err := t.Outer.Linearize()
			if err != nil {
				return err
			}
			for _, e := range outerLin[1:] {
				if c, ok := e.Sym.OwnChild(t.Key); ok {
					if err := visit(c, at); err != nil {
						return err
					}
				}
			}
		}
		return nil
	}

	if err := visit(s, s); err != nil {
		s.linState = linUnstarted
		return nil, err
	}

	s.lin = out
	s.linState = linDone
	return out, nil
}

// Ancestors returns the distinct ancestor Symbols of s, self included, in
// linearization order.
func (s *Symbol) Ancestors() ([]*Symbol, error) {
	lin, err := s.Linearize()
	if err != nil {
		return nil, err
	}
	syms := make([]*Symbol, len(lin))
	for i, e := range lin {
		syms[i] = e.Sym
	}
	return syms, nil
}

// evaluatorAt pairs a resource-shaped definition with the linearization
// entry that contributed it.
type evaluatorAt struct {
	Def   *ir.ResourceDef
	Entry SuperEntry
}

// evaluators collects the resource-shaped definitions contributing to
// this position, own first, then supers in linearization order.
func (s *Symbol) evaluators() ([]evaluatorAt, error) {
	lin, err := s.Linearize()
	if err != nil {
		return nil, err
	}
	var out []evaluatorAt
	for _, e := range lin {
		for _, d := range e.Sym.Origin {
			if rd, ok := d.(*ir.ResourceDef); ok {
				out = append(out, evaluatorAt{Def: rd, Entry: e})
			}
		}
	}
	return out, nil
}
