package overlay_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	overlay "github.com/overlay-lang/overlay"
)

func evalModules(t *testing.T, defs ...overlay.Definition) *overlay.Scope {
	t.Helper()
	sc, err := overlay.Evaluate(defs, overlay.WithModulesPublic())
	require.NoError(t, err)
	return sc
}

func scopeAt(t *testing.T, sc *overlay.Scope, name string) *overlay.Scope {
	t.Helper()
	v, err := sc.Get(name)
	require.NoError(t, err)
	child, ok := v.(*overlay.Scope)
	require.True(t, ok, "%s is %T, not a scope", name, v)
	return child
}

func valueAt(t *testing.T, sc *overlay.Scope, name string) any {
	t.Helper()
	v, err := sc.Get(name)
	require.NoError(t, err)
	return v
}

// ====== Composition through the facade ======

func TestEvaluate_LexicalChain(t *testing.T) {
	increment := func(deps overlay.Deps) (any, error) {
		v, err := deps.Get("value")
		if err != nil {
			return nil, err
		}
		return v.(int) + 1, nil
	}

	root := evalModules(t,
		overlay.NewScope().
			Child("app", overlay.NewScope().
				Child("value", overlay.Value(10)).
				Child("mid", overlay.NewScope().
					Child("value", overlay.Resource(increment, overlay.WithDeps("value"))).
					Child("inner", overlay.NewScope().
						Child("value", overlay.Resource(increment, overlay.WithDeps("value"))).
						Build()).
					Build()).
				Build()).
			Build())

	app := scopeAt(t, root, "app")
	assert.Equal(t, 10, valueAt(t, app, "value"))

	mid := scopeAt(t, app, "mid")
	assert.Equal(t, 11, valueAt(t, mid, "value"))

	inner := scopeAt(t, mid, "inner")
	assert.Equal(t, 12, valueAt(t, inner, "value"))
}

func TestEvaluate_UnionMountsModules(t *testing.T) {
	root := evalModules(t,
		overlay.NewScope().
			Child("config", overlay.NewScope().Child("a", overlay.Value(1)).Build()).
			Build(),
		overlay.NewScope().
			Child("config", overlay.NewScope().Child("b", overlay.Value(2)).Build()).
			Build(),
	)

	config := scopeAt(t, root, "config")
	assert.Equal(t, 1, valueAt(t, config, "a"))
	assert.Equal(t, 2, valueAt(t, config, "b"))
	assert.Equal(t, []string{"a", "b"}, config.Names())
}

func TestEvaluate_InheritanceWithPatch(t *testing.T) {
	root := evalModules(t,
		overlay.NewScope().
			Child("base", overlay.NewScope().
				Child("max_connections", overlay.Value(10)).
				Build()).
			Child("derived", overlay.NewScope().
				Inherit(overlay.Lex("base")).
				Child("max_connections", overlay.Patch(func(v any) (any, error) {
					return v.(int) * 2, nil
				})).
				Build()).
			Build())

	base := scopeAt(t, root, "base")
	derived := scopeAt(t, root, "derived")
	assert.Equal(t, 20, valueAt(t, derived, "max_connections"))
	assert.Equal(t, 10, valueAt(t, base, "max_connections"))
}

func TestEvaluate_MergeAggregatesPatches(t *testing.T) {
	root := evalModules(t,
		overlay.NewScope().
			Child("tags",
				overlay.Merge(func(deps overlay.Deps, patches []any) (any, error) {
					out := make([]string, 0, len(patches))
					for _, p := range patches {
						out = append(out, p.(string))
					}
					return out, nil
				}),
				overlay.Patches(func(deps overlay.Deps) ([]any, error) {
					return []any{"alpha", "beta"}, nil
				}),
			).
			Build())

	assert.Equal(t, []string{"alpha", "beta"}, valueAt(t, root, "tags"))
}

func TestEvaluate_ExternBoundByCall(t *testing.T) {
	root := evalModules(t,
		overlay.NewScope().
			Child("session", overlay.NewScope().
				Child("token", overlay.Extern()).
				Child("header", overlay.Resource(func(deps overlay.Deps) (any, error) {
					tok, err := deps.Get("token")
					if err != nil {
						return nil, err
					}
					return fmt.Sprintf("Bearer %v", tok), nil
				}, overlay.WithDeps("token"))).
				Build()).
			Build())

	session := scopeAt(t, root, "session")

	// Static access has no kwargs bag to read from.
	_, err := session.Get("token")
	require.Error(t, err)
	assert.True(t, overlay.IsMissingBaseValue(err))

	instance, err := session.Call(map[string]any{"token": "t-123"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer t-123", valueAt(t, instance, "header"))

	// Instances are independent and not callable again.
	second, err := session.Call(map[string]any{"token": "t-456"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer t-456", valueAt(t, second, "header"))

	_, err = instance.Call(nil)
	require.Error(t, err)
	assert.True(t, overlay.IsNotInstantiable(err))
}

func TestEvaluate_PrivateHiddenFromNames(t *testing.T) {
	root := evalModules(t,
		overlay.NewScope().
			Child("app", overlay.NewScope().
				Child("visible", overlay.Value(1)).
				Child("hidden", overlay.Value(2, overlay.Private())).
				Build()).
			Build())

	app := scopeAt(t, root, "app")
	assert.Equal(t, []string{"visible"}, app.Names())
	_, err := app.Get("hidden")
	require.Error(t, err)
	assert.True(t, overlay.IsNotFound(err))
}

func TestEvaluate_QualifiedThisReference(t *testing.T) {
	root := evalModules(t,
		overlay.NewScope().
			Child("app", overlay.NewScope().
				Child("db", overlay.NewScope().
					Child("url", overlay.Value("postgres://main")).
					Build()).
				Child("worker", overlay.NewScope().
					Child("mirror", overlay.NewScope().
						Inherit(overlay.This("app", "db")).
						Build()).
					Build()).
				Build()).
			Build())

	app := scopeAt(t, root, "app")
	worker := scopeAt(t, app, "worker")
	mirror := scopeAt(t, worker, "mirror")
	assert.Equal(t, "postgres://main", valueAt(t, mirror, "url"))
}
