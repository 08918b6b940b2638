// Package sink persists generated files.
package sink

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// GeneratedFile is a single output file produced from one unit.
type GeneratedFile struct {
	Path    string
	Content []byte
}

// Outcome tells what a sink did with a file.
type Outcome string

const (
	Created     Outcome = "created"
	Overwritten Outcome = "overwritten"
	Unchanged   Outcome = "unchanged"
	Previewed   Outcome = "previewed"
)

// Sink receives generated files.
type Sink interface {
	Write(ctx context.Context, f GeneratedFile) (Outcome, error)
}

// FileSink writes files to disk, replacing existing files without asking.
type FileSink struct {
	DirPerm  fs.FileMode
	FilePerm fs.FileMode
}

// NewFileSink returns a FileSink with 0755 directories and 0644 files.
func NewFileSink() *FileSink {
	return &FileSink{DirPerm: 0o755, FilePerm: 0o644}
}

func (s *FileSink) Write(ctx context.Context, f GeneratedFile) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	existing, err := os.ReadFile(f.Path)
	outcome := Created
	switch {
	case err == nil && bytes.Equal(existing, f.Content):
		return Unchanged, nil
	case err == nil:
		outcome = Overwritten
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("reading %s: %w", f.Path, err)
	}

	if err := os.MkdirAll(filepath.Dir(f.Path), s.DirPerm); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(f.Path, f.Content, s.FilePerm); err != nil {
		return "", fmt.Errorf("writing %s: %w", f.Path, err)
	}
	return outcome, nil
}
