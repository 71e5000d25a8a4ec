package cli

import (
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/overlay-lang/overlay/internal/loader"
	"github.com/overlay-lang/overlay/internal/symtab"
)

func composeFixture(t *testing.T, dir string) *symtab.Symbol {
	t.Helper()
	defs, err := loader.Load(dir)
	require.NoError(t, err)
	return symtab.NewRoot(defs...)
}

func TestSymbols_GoldenDump(t *testing.T) {
	root := composeFixture(t, demoDir)
	infos := DumpSymbols(root, 8)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "symbols_demo", []byte(RenderSymbols(infos)))
}

func TestSymbols_CommandText(t *testing.T) {
	out, err := execute(t, "symbols", demoDir)
	require.NoError(t, err)
	assert.Contains(t, out, "/app.worker  scope")
	assert.Contains(t, out, "lin: /app.worker -> /app.server")
	assert.Contains(t, out, "merger: /app.server.port")
}

func TestSymbols_ConflictSurfaces(t *testing.T) {
	root := composeFixture(t, filepath.Join("testdata", "conflict"))
	infos := DumpSymbols(root, 8)

	var found bool
	for _, info := range infos {
		if info.Path == "/conf.x" {
			found = true
			assert.Equal(t, "conflict", info.Kind)
		}
	}
	assert.True(t, found, "expected /conf.x in dump")
}

func TestSymbols_DepthLimit(t *testing.T) {
	root := composeFixture(t, demoDir)
	infos := DumpSymbols(root, 1)

	for _, info := range infos {
		assert.NotContains(t, info.Path, "server.port")
	}
}

func TestSymbols_MissingDirectory(t *testing.T) {
	_, err := execute(t, "symbols", filepath.Join("testdata", "no-such-dir"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
