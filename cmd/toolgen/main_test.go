package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skosovsky/toolview/schemasource"
	"github.com/skosovsky/toolview/testutil"
	"github.com/skosovsky/toolview/toolserver/builtin"
)

func builtinServerURL(t *testing.T) string {
	t.Helper()
	db, err := builtin.OpenMovies(context.Background(), builtin.MemoryDB)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	reg := testutil.NewTestRegistry()
	require.NoError(t, builtin.Register(reg, db))
	reg.Register(&testutil.MockTool{NameVal: "summarize"})
	return testutil.NewSchemaServer(t, reg).URL
}

func TestRootCmd_GeneratesFromServer(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "toolsgen", "tools_gen.go")
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--url", builtinServerURL(t), "--out", out})
	require.NoError(t, cmd.Execute(), stderr.String())

	assert.Contains(t, stdout.String(), "wrote "+out+" (package toolsgen): 3 tools")
	assert.Contains(t, stdout.String(), "get_weather, execute_sql, render_chart")
	assert.Contains(t, stdout.String(), "skipped: summarize")

	src, err := os.ReadFile(out)
	require.NoError(t, err)
	for _, want := range []string{
		"// Code generated by toolgen. DO NOT EDIT.",
		"package toolsgen",
		"type GetWeatherOutput struct",
		"type ExecuteSQLOutput struct",
		"type RenderChart_ChartConfig struct",
		"type Renderers[R any] struct",
	} {
		assert.Contains(t, string(src), want)
	}
	assert.NotContains(t, string(src), "Summarize")
}

func TestRootCmd_PackageFlag(t *testing.T) {
	t.Parallel()
	out := filepath.Join(t.TempDir(), "gen.go")
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--url", builtinServerURL(t), "-o", out, "-p", "views"})
	require.NoError(t, cmd.Execute())
	src, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(src), "package views")
}

func TestRootCmd_CompileFailureKeepsOutput(t *testing.T) {
	t.Parallel()
	reg := testutil.NewTestRegistry(&testutil.MockTool{
		NameVal:   "broken",
		OutputVal: json.RawMessage(`{"type":"object","properties":{"x":{"$ref":"#/$defs/Missing"}}}`),
	})
	srv := testutil.NewSchemaServer(t, reg)
	out := filepath.Join(t.TempDir(), "tools_gen.go")
	require.NoError(t, os.WriteFile(out, []byte("package toolsgen\n"), 0o600))

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--url", srv.URL, "--out", out})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `tool "broken"`)
	assert.Empty(t, stdout.String())

	src, readErr := os.ReadFile(out)
	require.NoError(t, readErr)
	assert.Equal(t, "package toolsgen\n", string(src))
}

func TestRootCmd_InvalidURL(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--url", "ftp://example.com", "--out", filepath.Join(t.TempDir(), "x.go")})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheme must be http or https")
}

func TestRootCmd_URLFromEnv(t *testing.T) {
	t.Setenv(schemasource.EnvBaseURL, builtinServerURL(t))
	out := filepath.Join(t.TempDir(), "tools_gen.go")
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"--out", out})
	require.NoError(t, cmd.Execute(), stderr.String())
	assert.FileExists(t, out)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs([]string{"extra"})
	require.Error(t, cmd.Execute())
}
