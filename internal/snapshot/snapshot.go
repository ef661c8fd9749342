// Package snapshot writes generated files and checks that files on disk are
// up to date with freshly generated contents.
package snapshot

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Disclaimer heads every generated file.
const Disclaimer = "// Code generated by dapgen. DO NOT EDIT.\n\n"

// ErrStale reports a file on disk that differs from its generated contents.
var ErrStale = errors.New("generated file is not up to date")

// File is one generated file. Path is relative to the output directory.
type File struct {
	Path     string
	Contents []byte
}

// WithDisclaimer returns contents headed by Disclaimer.
func WithDisclaimer(contents []byte) []byte {
	out := make([]byte, 0, len(Disclaimer)+len(contents))
	out = append(out, Disclaimer...)
	return append(out, contents...)
}

// Write writes every file under dir, creating directories as needed.
func Write(dir string, files []File) error {
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return errors.Wrapf(err, "creating directory for %s", f.Path)
		}
		if err := os.WriteFile(path, f.Contents, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", f.Path)
		}
		slog.Debug("wrote file", "path", path, "bytes", len(f.Contents))
	}
	return nil
}

// Check compares every file with its counterpart under dir. The first file
// that is missing or differs yields ErrStale with a unified diff from the
// file on disk to the expected contents.
func Check(dir string, files []File) error {
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		got, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return errors.Wrapf(ErrStale, "%s does not exist", f.Path)
		}
		if err != nil {
			return errors.Wrapf(err, "reading %s", f.Path)
		}
		if bytes.Equal(got, f.Contents) {
			continue
		}

		diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(got)),
			B:        difflib.SplitLines(string(f.Contents)),
			FromFile: f.Path + " (on disk)",
			ToFile:   f.Path + " (generated)",
			Context:  3,
		})
		if err != nil {
			return errors.Wrapf(err, "diffing %s", f.Path)
		}
		return errors.Wrapf(ErrStale, "%s\n%s", f.Path, diff)
	}
	return nil
}
