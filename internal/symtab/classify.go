package symtab

import "github.com/overlay-lang/overlay/internal/ir"

// Kind classifies what a composed position is.
type Kind int

const (
	// KindScope is a namespace of further mixins.
	KindScope Kind = iota

	// KindResource computes a single value from declared dependencies.
	KindResource

	// KindConflict marks a position receiving both children and
	// evaluators. It is an error state; evaluation rejects it.
	KindConflict
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindScope:
		return "scope"
	case KindResource:
		return "resource"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// classification caches the composed shape of a position: its kind and
// the outcome of merge election. Filled in at most once.
type classification struct {
	kind         Kind
	elected      *ir.ResourceDef
	electionErr  error
	electionSite *Symbol
}

func (s *Symbol) classify() (*classification, error) {
	if s.cls != nil {
		return s.cls, nil
	}

	lin, err := s.Linearize()
	if err != nil {
		return nil, err
	}

	cls := &classification{}

	hasChildren := false
	hasEval := false
	for _, e := range lin {
		for _, d := range e.Sym.Origin {
			switch d.(type) {
			case *ir.ScopeDef:
				hasChildren = true
			case *ir.ResourceDef:
				hasEval = true
			}
		}
	}
	switch {
	case hasChildren && hasEval:
		cls.kind = KindConflict
	case hasEval:
		cls.kind = KindResource
	default:
		// An empty position composes as an empty namespace.
		cls.kind = KindScope
	}

	if cls.kind == KindResource {
		s.elect(lin, cls)
	}

	s.cls = cls
	return cls, nil
}

// elect runs merge election over the contributing evaluators.
//
// A pure merger (aggregates, never patches) wins outright; two of them is
// an unresolvable ambiguity. With no pure merger, the first dual
// (merger that also patches) is elected. With no merger at all the
// resource is patcher-only and needs an externally supplied base value.
func (s *Symbol) elect(lin []SuperEntry, cls *classification) {
	var pure []evaluatorAt
	var firstDual *evaluatorAt
	for _, e := range lin {
		for _, d := range e.Sym.Origin {
			rd, ok := d.(*ir.ResourceDef)
			if !ok {
				continue
			}
			switch {
			case rd.IsMerger() && !rd.IsPatcher():
				pure = append(pure, evaluatorAt{Def: rd, Entry: e})
			case rd.IsMerger() && firstDual == nil:
				ev := evaluatorAt{Def: rd, Entry: e}
				firstDual = &ev
			}
		}
	}

	switch {
	case len(pure) > 1:
		sites := make([]string, len(pure))
		for i, ev := range pure {
			sites[i] = ev.Entry.Sym.Path()
		}
		cls.electionErr = NewAmbiguousMergerError(s, sites)
	case len(pure) == 1:
		cls.elected = pure[0].Def
		cls.electionSite = pure[0].Entry.Sym
	case firstDual != nil:
		cls.elected = firstDual.Def
		cls.electionSite = firstDual.Entry.Sym
	}
}

// Kind returns the composed kind at this position.
func (s *Symbol) Kind() (Kind, error) {
	cls, err := s.classify()
	if err != nil {
		return KindScope, err
	}
	return cls.kind, nil
}

// Election returns the elected merger definition, or nil for a
// patcher-only (extern) resource. An ambiguous election is the error
// ErrCodeAmbiguousMerger, reported identically on every call.
func (s *Symbol) Election() (*ir.ResourceDef, error) {
	cls, err := s.classify()
	if err != nil {
		return nil, err
	}
	if cls.electionErr != nil {
		return nil, cls.electionErr
	}
	return cls.elected, nil
}

// ElectionSite returns the ancestor position that contributed the elected
// merger, or nil for a patcher-only resource.
func (s *Symbol) ElectionSite() (*Symbol, error) {
	cls, err := s.classify()
	if err != nil {
		return nil, err
	}
	return cls.electionSite, nil
}

// Evaluators exposes the contributing resource definitions with the
// linearization entries that carried them, own first. Used by the
// evaluation engine to collect patches and by introspection surfaces.
func (s *Symbol) Evaluators() ([]Evaluator, error) {
	evs, err := s.evaluators()
	if err != nil {
		return nil, err
	}
	out := make([]Evaluator, len(evs))
	for i, ev := range evs {
		out[i] = Evaluator{Def: ev.Def, Site: ev.Entry.Sym, Frame: ev.Entry.At}
	}
	return out, nil
}

// Evaluator is a contributing resource definition together with its
// definition site and the composed frame it was reached through.
type Evaluator struct {
	Def   *ir.ResourceDef
	Site  *Symbol
	Frame *Symbol
}
