package engine

import (
	"log/slog"

	"github.com/overlay-lang/overlay/internal/symtab"
)

// Option configures a root evaluation.
type Option func(*config)

type config struct {
	rootNamesPublic bool
}

// WithRootNamesPublic treats otherwise-private top-level names as public.
// Union-mount entry points use this to expose everything they mounted.
func WithRootNamesPublic() Option {
	return func(c *config) {
		c.rootNamesPublic = true
	}
}

// EvaluateRoot evaluates the composed tree from its root symbol and
// returns the root static scope. Each call builds a fresh mixin tree;
// evaluation inside it stays lazy and memoized per mixin.
func EvaluateRoot(root *symtab.Symbol, opts ...Option) (*Scope, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	m := newMixin(root, nil, nil)
	v, err := m.Evaluate()
	if err != nil {
		return nil, err
	}
	sc, ok := v.(*Scope)
	if !ok {
		return nil, NewStructuralConflictError(root.Path())
	}
	sc.exposeAll = cfg.rootNamesPublic

	slog.Info("root scope built", "children", len(sc.order), "visible", len(sc.Names()))
	return sc, nil
}
