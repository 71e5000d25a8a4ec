package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/overlay-lang/overlay/internal/engine"
	"github.com/overlay-lang/overlay/internal/loader"
	"github.com/overlay-lang/overlay/internal/symtab"
)

// AssertGolden renders sc and compares it against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGolden(t *testing.T, name string, sc *engine.Scope) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(Render(sc, DefaultDepth)))
}

// EvalDir loads a mixin directory, composes it, and builds the root
// scope with top-level names exposed. Errors fail the test.
func EvalDir(t *testing.T, dir string) *engine.Scope {
	t.Helper()

	defs, err := loader.Load(dir)
	if err != nil {
		t.Fatalf("loading %s: %v", dir, err)
	}
	sc, err := engine.EvaluateRoot(symtab.NewRoot(defs...), engine.WithRootNamesPublic())
	if err != nil {
		t.Fatalf("evaluating %s: %v", dir, err)
	}
	return sc
}
