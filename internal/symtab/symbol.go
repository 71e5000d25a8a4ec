package symtab

import (
	"strings"

	"github.com/overlay-lang/overlay/internal/ir"
)

// Symbol is the canonical, composed node at one structural tree position.
//
// A Symbol unions every Definition contributed directly at its position
// (the Origin set); contributions from inherited positions are reached
// through the linearized strict-super sequence instead of being copied in.
//
// INVARIANT: two Symbols are the same object iff they occupy the same
// position. Interning happens in Child: each parent memoizes its child
// Symbols by key, so diamond inheritance reaching one ancestor through two
// paths converges on one object and identity comparison is O(1).
//
// Symbols are created lazily during composition and are immutable once
// observed; the memo fields below fill in at most once.
type Symbol struct {
	// Key is the name at this position. Empty for the root.
	Key string

	// Outer is the structural parent. Nil for the root.
	Outer *Symbol

	// Depth is the distance from the root. The root has depth 0.
	Depth int

	// Origin holds the Definitions contributed directly at this position,
	// in mount order. Empty for positions that exist only by inheritance.
	Origin []ir.Definition

	children map[string]*Symbol
	names    []string

	lin      []SuperEntry
	linState linState

	cls *classification
}

type linState int

const (
	linUnstarted linState = iota
	linInProgress
	linDone
)

// NewRoot composes the given root definitions into the root Symbol.
// Several definitions union-mount into one namespace: their child names
// merge, with multiple contributions to the same name composing at that
// child position.
func NewRoot(defs ...ir.Definition) *Symbol {
	return &Symbol{
		Origin:   defs,
		children: make(map[string]*Symbol),
	}
}

// Root walks the structural parent chain to the global root.
func (s *Symbol) Root() *Symbol {
	r := s
	for r.Outer != nil {
		r = r.Outer
	}
	return r
}

// Path renders the structural position as "/a.b.c". The root is "/".
func (s *Symbol) Path() string {
	if s.Outer == nil {
		return "/"
	}
	var keys []string
	for t := s; t.Outer != nil; t = t.Outer {
		keys = append(keys, t.Key)
	}
	for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
		keys[i], keys[j] = keys[j], keys[i]
	}
	return "/" + strings.Join(keys, ".")
}

// String implements fmt.Stringer.
func (s *Symbol) String() string {
	return s.Path()
}

// ownDefs collects the definitions contributed for key by this position's
// own scope-shaped origins, in mount order.
func (s *Symbol) ownDefs(key string) []ir.Definition {
	var defs []ir.Definition
	for _, d := range s.Origin {
		if sd, ok := d.(*ir.ScopeDef); ok {
			defs = append(defs, sd.ChildDefs(key)...)
		}
	}
	return defs
}

// hasOwn reports whether this position's own origins define key.
func (s *Symbol) hasOwn(key string) bool {
	for _, d := range s.Origin {
		if sd, ok := d.(*ir.ScopeDef); ok {
			if len(sd.ChildDefs(key)) > 0 {
				return true
			}
		}
	}
	return false
}

// Names enumerates every child name visible at this position, own
// definitions first in declaration order, then names contributed by the
// strict supers in linearization order. Includes private names.
func (s *Symbol) Names() ([]string, error) {
	if s.names != nil {
		return s.names, nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}

	for _, d := range s.Origin {
		if sd, ok := d.(*ir.ScopeDef); ok {
			for _, k := range sd.Keys {
				add(k)
			}
		}
	}

	lin, err := s.Linearize()
	if err != nil {
		return nil, err
	}
	for _, e := range lin[1:] {
		for _, d := range e.Sym.Origin {
			if sd, ok := d.(*ir.ScopeDef); ok {
				for _, k := range sd.Keys {
					add(k)
				}
			}
		}
	}

	if out == nil {
		out = []string{}
	}
	s.names = out
	return out, nil
}

// Has reports whether key is a visible child name at this position.
func (s *Symbol) Has(key string) (bool, error) {
	if s.hasOwn(key) {
		return true, nil
	}
	names, err := s.Names()
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == key {
			return true, nil
		}
	}
	return false, nil
}

// Child returns the interned Symbol at key, creating it on first access.
// The child's Origin is the union of definitions contributed for key by
// this position's own origins; a key visible only through inheritance
// yields a Symbol with an empty Origin.
func (s *Symbol) Child(key string) (*Symbol, error) {
	if c, ok := s.children[key]; ok {
		return c, nil
	}
	has, err := s.Has(key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, NewNotFoundError(s, key)
	}
	c := &Symbol{
		Key:      key,
		Outer:    s,
		Depth:    s.Depth + 1,
		Origin:   s.ownDefs(key),
		children: make(map[string]*Symbol),
	}
	s.children[key] = c
	return c, nil
}

// OwnChild returns the interned Symbol at key only when this position's
// own origins define it. Used by linearization to find the definition
// sites a composed position inherits through its outer chain.
func (s *Symbol) OwnChild(key string) (*Symbol, bool) {
	if !s.hasOwn(key) {
		return nil, false
	}
	if c, ok := s.children[key]; ok {
		return c, true
	}
	c := &Symbol{
		Key:      key,
		Outer:    s,
		Depth:    s.Depth + 1,
		Origin:   s.ownDefs(key),
		children: make(map[string]*Symbol),
	}
	s.children[key] = c
	return c, true
}

// Public reports whether this position is visible from outside its
// enclosing scope: true when any contributing definition, own or
// inherited, declares itself public.
func (s *Symbol) Public() (bool, error) {
	lin, err := s.Linearize()
	if err != nil {
		return false, err
	}
	for _, e := range lin {
		for _, d := range e.Sym.Origin {
			if d.Public() {
				return true, nil
			}
		}
	}
	return false, nil
}

// EagerFlag reports whether this position must be forced during scope
// construction: true when any contributing definition declares itself
// eager.
func (s *Symbol) EagerFlag() (bool, error) {
	lin, err := s.Linearize()
	if err != nil {
		return false, err
	}
	for _, e := range lin {
		for _, d := range e.Sym.Origin {
			if d.Eager() {
				return true, nil
			}
		}
	}
	return false, nil
}
