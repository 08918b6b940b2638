package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffSink writes nothing. It prints a line diff between the file currently
// on disk (empty if absent) and the content that would replace it.
type DiffSink struct {
	mu  sync.Mutex
	out io.Writer

	add *color.Color
	del *color.Color
	hdr *color.Color
}

// NewDiffSink returns a DiffSink printing to w.
func NewDiffSink(w io.Writer) *DiffSink {
	return &DiffSink{
		out: w,
		add: color.New(color.FgGreen),
		del: color.New(color.FgRed),
		hdr: color.New(color.FgCyan, color.Bold),
	}
}

func (s *DiffSink) Write(ctx context.Context, f GeneratedFile) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	existing, err := os.ReadFile(f.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("reading %s: %w", f.Path, err)
	}
	if err == nil && string(existing) == string(f.Content) {
		return Unchanged, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.hdr.Fprintf(s.out, "--- %s\n+++ %s\n", f.Path, f.Path)
	for _, d := range LineDiff(string(existing), string(f.Content)) {
		lines := splitKeep(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				s.add.Fprintf(s.out, "+%s\n", l)
			}
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				s.del.Fprintf(s.out, "-%s\n", l)
			}
		default:
			fmt.Fprintf(s.out, "@@ %d unchanged lines @@\n", len(lines))
		}
	}
	return Previewed, nil
}

// LineDiff diffs a and b line by line.
func LineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines)
}

func splitKeep(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
