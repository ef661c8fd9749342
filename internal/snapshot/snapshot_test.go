package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func files() []File {
	return []File{
		{Path: "types.go", Contents: WithDisclaimer([]byte("package dap\n"))},
		{Path: "requests/requests.go", Contents: WithDisclaimer([]byte("package requests\n"))},
	}
}

func TestWithDisclaimer(t *testing.T) {
	got := string(WithDisclaimer([]byte("package dap\n")))
	assert.True(t, strings.HasPrefix(got, "// Code generated by dapgen. DO NOT EDIT.\n\npackage dap"))
}

func TestWriteThenCheck(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, files()))

	data, err := os.ReadFile(filepath.Join(dir, "requests", "requests.go"))
	require.NoError(t, err)
	assert.Equal(t, files()[1].Contents, data)

	assert.NoError(t, Check(dir, files()))
}

func TestCheckReportsDiff(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Write(dir, files()))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.go"), []byte("package stale\n"), 0o644))

	err := Check(dir, files())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStale))
	assert.Contains(t, err.Error(), "--- types.go (on disk)")
	assert.Contains(t, err.Error(), "+++ types.go (generated)")
	assert.Contains(t, err.Error(), "-package stale")
	assert.Contains(t, err.Error(), "+package dap")
}

func TestCheckMissingFile(t *testing.T) {
	err := Check(t.TempDir(), files())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStale))
	assert.Contains(t, err.Error(), "types.go does not exist")
}
