package symtab

import "github.com/overlay-lang/overlay/internal/ir"

// Resolve resolves ref against the composed tree. current is the composed
// position the reference is in force at; origin is the position whose
// definition declared it (the two differ when the declaration was reached
// by inheritance). origin contributes diagnostics only: resolution runs
// entirely in the composed frame, so a reference declared in one module
// binds to whatever the final composition exposes.
//
// Absolute, Lexical, and QualifiedThis references resolve to exactly one
// position. The slice return leaves room for relative references to
// branch when a diamond composes the same base through several ancestors;
// the current resolver collapses those branches onto the first-occurrence
// frame recorded by linearization, so it, too, yields one result.
func Resolve(ref ir.Reference, current, origin *Symbol) ([]*Symbol, error) {
	switch r := ref.(type) {
	case ir.Absolute:
		sym, err := navigate(current.Root(), r.Path)
		if err != nil {
			return nil, err
		}
		return []*Symbol{sym}, nil

	case ir.Relative:
		anchor := current
		for i := 0; i <= r.Ascend; i++ {
			if anchor.Outer == nil {
				return nil, NewAscentEscapeError(origin, r.Ascend)
			}
			anchor = anchor.Outer
		}
		sym, err := navigate(anchor, r.Path)
		if err != nil {
			return nil, err
		}
		return []*Symbol{sym}, nil

	case ir.Lexical:
		if len(r.Path) == 0 {
			return nil, NewNotFoundError(origin, "")
		}
		level := current.Outer
		if level != nil && r.Path[0] == current.Key {
			// Self-reference avoidance: a name shadowing the referring
			// mixin's own key binds to the enclosing scope's definition.
			level = level.Outer
		}
		for level != nil {
			has, err := level.Has(r.Path[0])
			if err != nil {
				return nil, err
			}
			if has {
				sym, err := navigate(level, r.Path)
				if err != nil {
					return nil, err
				}
				return []*Symbol{sym}, nil
			}
			level = level.Outer
		}
		return nil, NewNotFoundError(origin, r.Path[0])

	case ir.QualifiedThis:
		anchor := current
		for anchor != nil && anchor.Key != r.Anchor {
			anchor = anchor.Outer
		}
		if anchor == nil {
			return nil, NewNotFoundError(origin, r.Anchor)
		}
		sym, err := navigate(anchor, r.Path)
		if err != nil {
			return nil, err
		}
		return []*Symbol{sym}, nil

	default:
		return nil, NewNotFoundError(origin, ref.String())
	}
}

// navigate walks path downward from sym, one visible child at a time.
func navigate(sym *Symbol, path []string) (*Symbol, error) {
	cur := sym
	for _, seg := range path {
		next, err := cur.Child(seg)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// SiblingDeps resolves the dependency names this resource position
// declares and returns those living in the same structural scope, in
// first-declaration order. Names that do not resolve are skipped here;
// evaluation reports them properly when the resource actually runs.
func (s *Symbol) SiblingDeps() ([]*Symbol, error) {
	evs, err := s.evaluators()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []*Symbol
	for _, ev := range evs {
		for _, name := range ev.Def.DepNames {
			if seen[name] {
				continue
			}
			seen[name] = true
			targets, err := Resolve(ir.Lexical{Path: []string{name}}, s, s)
			if err != nil {
				if IsNotFound(err) {
					continue
				}
				return nil, err
			}
			if targets[0].Outer == s.Outer {
				out = append(out, targets[0])
			}
		}
	}
	return out, nil
}
