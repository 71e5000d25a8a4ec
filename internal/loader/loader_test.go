package loader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlay-lang/overlay/internal/engine"
	"github.com/overlay-lang/overlay/internal/ir"
	"github.com/overlay-lang/overlay/internal/symtab"
	"github.com/overlay-lang/overlay/internal/testutil"
)

// ====== Extension handling ======

func TestSplitMixinExt(t *testing.T) {
	stem, ext, ok := splitMixinExt("App.mixin.yaml")
	require.True(t, ok)
	assert.Equal(t, "App", stem)
	assert.Equal(t, ".mixin.yaml", ext)

	stem, _, ok = splitMixinExt("Config.OYAML")
	require.True(t, ok)
	assert.Equal(t, "Config", stem)

	_, _, ok = splitMixinExt("readme.md")
	assert.False(t, ok)

	_, _, ok = splitMixinExt("config.yaml")
	assert.False(t, ok)
}

// ====== Decoding ======

func TestDecodeYAML_PreservesKeyOrder(t *testing.T) {
	v, err := decodeFile(filepath.Join("testdata", "formats", "ordered.oyml"))
	require.NoError(t, err)

	obj, ok := v.(*object)
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mike"}, obj.keys)
	assert.Equal(t, 1, obj.vals["zeta"])
}

func TestDecodeYAML_ScalarTypes(t *testing.T) {
	v, err := decodeYAML([]byte("n: 42\nf: 2.5\nb: true\ns: text\nz: null\n"), "inline")
	require.NoError(t, err)

	obj := v.(*object)
	assert.Equal(t, 42, obj.vals["n"])
	assert.Equal(t, 2.5, obj.vals["f"])
	assert.Equal(t, true, obj.vals["b"])
	assert.Equal(t, "text", obj.vals["s"])
	assert.Nil(t, obj.vals["z"])
}

func TestDecodeJSON_PreservesKeyOrder(t *testing.T) {
	v, err := decodeJSON([]byte(`{"zulu": 1, "alpha": {"inner": 2.5}, "list": ["a", "b"]}`), "inline")
	require.NoError(t, err)

	obj := v.(*object)
	assert.Equal(t, []string{"zulu", "alpha", "list"}, obj.keys)
	assert.Equal(t, 1, obj.vals["zulu"])

	inner := obj.vals["alpha"].(*object)
	assert.Equal(t, 2.5, inner.vals["inner"])
	assert.Equal(t, []any{"a", "b"}, obj.vals["list"])
}

func TestDecodeTOML_SortsKeys(t *testing.T) {
	v, err := decodeTOML([]byte("zeta = 1\nalpha = 2\n"), "inline")
	require.NoError(t, err)

	obj := v.(*object)
	assert.Equal(t, []string{"alpha", "zeta"}, obj.keys)
	assert.Equal(t, 1, obj.vals["zeta"])
}

func TestDecode_NormalizesKeysToNFC(t *testing.T) {
	// "é" written as "e" + combining acute (NFD).
	v, err := decodeYAML([]byte("café: 1\n"), "inline")
	require.NoError(t, err)

	obj := v.(*object)
	assert.Equal(t, []string{"café"}, obj.keys)
}

// ====== Reference arrays ======

func TestIsReferenceArray(t *testing.T) {
	assert.True(t, isReferenceArray([]any{"a", "b"}))
	assert.True(t, isReferenceArray([]any{"anchor", nil}))
	assert.True(t, isReferenceArray([]any{"anchor", nil, "x", "y"}))
	assert.False(t, isReferenceArray([]any{}))
	assert.False(t, isReferenceArray([]any{"a", 1}))
	assert.False(t, isReferenceArray([]any{"anchor", nil, "x", 2}))
	assert.False(t, isReferenceArray("a"))
}

func TestParseReference_Lexical(t *testing.T) {
	ref, err := parseReference([]any{"server", "port"}, "inline")
	require.NoError(t, err)
	assert.Equal(t, ir.Lexical{Path: []string{"server", "port"}}, ref)
}

func TestParseReference_QualifiedThis(t *testing.T) {
	ref, err := parseReference([]any{"app", nil, "db", "url"}, "inline")
	require.NoError(t, err)
	assert.Equal(t, ir.QualifiedThis{Anchor: "app", Path: []string{"db", "url"}}, ref)
}

func TestParseReference_Empty(t *testing.T) {
	_, err := parseReference(nil, "inline")
	require.Error(t, err)
	assert.True(t, IsBadReference(err))
}

// ====== Dialect lowering ======

func TestDefsFromValue_Scalar(t *testing.T) {
	defs, err := defsFromValue("port", 8080, "inline")
	require.NoError(t, err)
	require.Len(t, defs, 1)

	rd, ok := defs[0].(*ir.ResourceDef)
	require.True(t, ok)
	assert.True(t, rd.IsPublic)
	assert.True(t, rd.IsMerger())

	v, err := rd.Merge(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 8080, v)
}

func TestDefsFromValue_UnderscorePrefixIsPrivate(t *testing.T) {
	defs, err := defsFromValue("_retries", 3, "inline")
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.False(t, defs[0].Public())
}

func TestDefsFromValue_ReferenceArray(t *testing.T) {
	defs, err := defsFromValue("worker", []any{"server"}, "inline")
	require.NoError(t, err)
	require.Len(t, defs, 1)

	sd, ok := defs[0].(*ir.ScopeDef)
	require.True(t, ok)
	assert.Equal(t, []ir.Reference{ir.Lexical{Path: []string{"server"}}}, sd.BaseRefs)
	assert.Empty(t, sd.Keys)
}

func TestDefsFromValue_Object(t *testing.T) {
	obj := newObject()
	obj.set("port", 8080)
	obj.set("host", "localhost")

	defs, err := defsFromValue("server", obj, "inline")
	require.NoError(t, err)
	require.Len(t, defs, 1)

	sd := defs[0].(*ir.ScopeDef)
	assert.Equal(t, []string{"port", "host"}, sd.Keys)
	require.Len(t, sd.ChildDefs("port"), 1)
}

func TestDefsFromValue_MixedArray(t *testing.T) {
	first := newObject()
	first.set("threads", 4)
	second := newObject()
	second.set("queue", "fifo")

	defs, err := defsFromValue("worker", []any{[]any{"server"}, first, second}, "inline")
	require.NoError(t, err)
	require.Len(t, defs, 2)

	sd0 := defs[0].(*ir.ScopeDef)
	sd1 := defs[1].(*ir.ScopeDef)
	assert.Len(t, sd0.BaseRefs, 1)
	assert.Empty(t, sd1.BaseRefs)
	assert.Equal(t, []string{"threads"}, sd0.Keys)
	assert.Equal(t, []string{"queue"}, sd1.Keys)
}

func TestDefsFromValue_MultipleScalars(t *testing.T) {
	defs, err := defsFromValue("pair", []any{1, "two", newObject()}, "inline")
	require.NoError(t, err)
	// A property object is present, so scalars ride along unused and the
	// result is scope-shaped.
	require.Len(t, defs, 1)
	_, ok := defs[0].(*ir.ScopeDef)
	assert.True(t, ok)
}

// ====== Files and directories ======

func TestFileDefs_MappingTopLevel(t *testing.T) {
	defs, err := FileDefs(filepath.Join("testdata", "site", "app.mixin.yaml"), "app")
	require.NoError(t, err)
	require.Len(t, defs, 1)

	sd := defs[0].(*ir.ScopeDef)
	assert.Equal(t, []string{"server", "database", "worker"}, sd.Keys)
}

func TestDirDefs_StemsAndSubdirs(t *testing.T) {
	sd, err := DirDefs(filepath.Join("testdata", "site"))
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"app", "lib"}, sd.Keys)
	// lib exists both as lib.otoml and as a subdirectory: two origins.
	assert.Len(t, sd.ChildDefs("lib"), 2)
	assert.Len(t, sd.ChildDefs("app"), 1)
}

func TestDirDefs_Missing(t *testing.T) {
	_, err := DirDefs(filepath.Join("testdata", "no-such-dir"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

// ====== End to end ======

func TestLoad_EvaluatesSiteDirectory(t *testing.T) {
	testutil.Quiet(t)

	defs, err := Load(filepath.Join("testdata", "site"))
	require.NoError(t, err)

	root := symtab.NewRoot(defs...)
	sc, err := engine.EvaluateRoot(root, engine.WithRootNamesPublic())
	require.NoError(t, err)

	app := getScope(t, sc, "app")
	server := getScope(t, app, "server")

	port, err := server.Get("port")
	require.NoError(t, err)
	assert.Equal(t, 8080, port)

	// worker inherits server and adds its own resource.
	worker := getScope(t, app, "worker")
	threads, err := worker.Get("threads")
	require.NoError(t, err)
	assert.Equal(t, 4, threads)
	inherited, err := worker.Get("port")
	require.NoError(t, err)
	assert.Equal(t, 8080, inherited)

	// _retries is private.
	_, err = server.Get("_retries")
	require.Error(t, err)
	assert.NotContains(t, server.Names(), "_retries")
}

func TestLoad_UnionMountsFileAndSubdirectory(t *testing.T) {
	testutil.Quiet(t)

	defs, err := Load(filepath.Join("testdata", "site"))
	require.NoError(t, err)

	sc, err := engine.EvaluateRoot(symtab.NewRoot(defs...), engine.WithRootNamesPublic())
	require.NoError(t, err)

	lib := getScope(t, sc, "lib")

	// From lib.otoml.
	metrics := getScope(t, lib, "metrics")
	enabled, err := metrics.Get("enabled")
	require.NoError(t, err)
	assert.Equal(t, true, enabled)

	// From lib/defaults.ojson.
	defaults := getScope(t, lib, "defaults")
	timeouts := getScope(t, defaults, "timeouts")
	connect, err := timeouts.Get("connect")
	require.NoError(t, err)
	assert.Equal(t, 5, connect)
}

func TestLoad_CUEInstanceContributesMixins(t *testing.T) {
	testutil.Quiet(t)

	defs, err := Load(filepath.Join("testdata", "cuesite"))
	require.NoError(t, err)
	require.Len(t, defs, 2)

	sc, err := engine.EvaluateRoot(symtab.NewRoot(defs...), engine.WithRootNamesPublic())
	require.NoError(t, err)

	cache := getScope(t, sc, "cache")
	backend, err := cache.Get("backend")
	require.NoError(t, err)
	assert.Equal(t, "memory", backend)

	ttl, err := cache.Get("ttl")
	require.NoError(t, err)
	assert.Equal(t, 60, ttl)

	// The plain mixin file in the same directory still contributes.
	extra := getScope(t, sc, "extra")
	banner, err := extra.Get("banner")
	require.NoError(t, err)
	assert.Equal(t, "overlay", banner)
}

func getScope(t *testing.T, sc *engine.Scope, name string) *engine.Scope {
	t.Helper()
	v, err := sc.Get(name)
	require.NoError(t, err)
	child, ok := v.(*engine.Scope)
	require.True(t, ok, "%s is %T, not a scope", name, v)
	return child
}
