package dap

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-gateway/dapgen/codegen"
	"github.com/inference-gateway/dapgen/codegen/jsonschema"
	"github.com/inference-gateway/dapgen/internal/snapshot"
)

var fixture = filepath.Join("..", "..", "testdata", "debugProtocol.json")

func config(dir string) codegen.GenerateConfig {
	return codegen.GenerateConfig{
		SchemaPath:  fixture,
		OutputDir:   dir,
		PackageName: "dap",
		TypesImport: "example.com/debugger/dap",
	}
}

func TestRegistered(t *testing.T) {
	g, err := codegen.Get("dap")
	require.NoError(t, err)
	assert.IsType(t, &DAPGenerator{}, g)
}

func TestGenerateWritesAllFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewDAPGenerator().Generate(config(dir)))

	for _, name := range []string{jsonschema.TypesFile, RequestsFile, EventsFile} {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		require.NoError(t, err, name)
		assert.True(t, strings.HasPrefix(string(data), snapshot.Disclaimer), name)
	}

	requests, err := os.ReadFile(filepath.Join(dir, "requests", "requests.go"))
	require.NoError(t, err)
	assert.Contains(t, string(requests), `Command: "stackTrace"`)

	events, err := os.ReadFile(filepath.Join(dir, "events", "events.go"))
	require.NoError(t, err)
	assert.Contains(t, string(events), "Event[*dap.Capabilities]")
}

func TestGenerateIsIdempotentAndCheckable(t *testing.T) {
	dir := t.TempDir()
	g := NewDAPGenerator()
	require.NoError(t, g.Generate(config(dir)))

	first, err := os.ReadFile(filepath.Join(dir, jsonschema.TypesFile))
	require.NoError(t, err)

	require.NoError(t, g.Generate(config(dir)))
	second, err := os.ReadFile(filepath.Join(dir, jsonschema.TypesFile))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	check := config(dir)
	check.Check = true
	require.NoError(t, g.Generate(check))

	path := filepath.Join(dir, filepath.FromSlash(EventsFile))
	require.NoError(t, os.WriteFile(path, []byte("package events\n"), 0o644))
	err = g.Generate(check)
	require.Error(t, err)
	assert.True(t, errors.Is(err, snapshot.ErrStale))
}

func TestGenerateOptions(t *testing.T) {
	dir := t.TempDir()
	cfg := config(dir)
	cfg.PackageName = ""
	cfg.Options = &Options{GeneratorOptions: &jsonschema.GeneratorOptions{
		PackageName:    "protocol",
		CustomAcronyms: map[string]bool{"id": false},
	}}
	cfg.TypesImport = "example.com/debugger/protocol"
	require.NoError(t, NewDAPGenerator().Generate(cfg))

	data, err := os.ReadFile(filepath.Join(dir, jsonschema.TypesFile))
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "package protocol\n")
	assert.Contains(t, out, "type ModuleId struct")
	assert.NotContains(t, out, "// The event indicates", "comments are off unless asked for")
}

func TestGenerateNeedsTypesImport(t *testing.T) {
	cfg := config(t.TempDir())
	cfg.TypesImport = ""
	assert.Error(t, NewDAPGenerator().Generate(cfg))
}

func TestValidateSchema(t *testing.T) {
	g := NewDAPGenerator()
	assert.NoError(t, g.ValidateSchema(fixture))

	path := filepath.Join(t.TempDir(), "plain.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"definitions": {"Pet": {"type": "object"}}}`), 0o644))
	assert.Error(t, g.ValidateSchema(path))
}
