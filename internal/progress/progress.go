// Package progress reports per-unit progress to the console.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// UnitResult is what a reporter learns about a finished unit.
type UnitResult struct {
	Name    string
	Path    string
	Outcome string
	Lines   int
	Dropped []string
}

// Reporter receives progress callbacks. Implementations must be safe for
// concurrent use when units run in parallel.
type Reporter interface {
	OnStart(source string, total int)
	OnUnitDone(r UnitResult)
	OnUnitFailed(name string, err error)
	OnComplete(written, failed int, elapsed time.Duration)
}

// NoOp discards all progress.
type NoOp struct{}

func (NoOp) OnStart(string, int)                {}
func (NoOp) OnUnitDone(UnitResult)              {}
func (NoOp) OnUnitFailed(string, error)         {}
func (NoOp) OnComplete(int, int, time.Duration) {}

// Console prints one line per unit.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	ok   *color.Color
	warn *color.Color
	fail *color.Color
}

// NewConsole returns a Console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{
		out:  w,
		ok:   color.New(color.FgGreen),
		warn: color.New(color.FgYellow),
		fail: color.New(color.FgRed),
	}
}

func (c *Console) OnStart(source string, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "Splitting %s into %d files...\n", source, total)
}

func (c *Console) OnUnitDone(r UnitResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "Extracting %s...\n", r.Name)
	c.ok.Fprintf(c.out, "  %s %s (%d lines)\n", r.Outcome, r.Path, r.Lines)
	for _, id := range r.Dropped {
		c.warn.Fprintf(c.out, "  no import rule for %q\n", id)
	}
}

func (c *Console) OnUnitFailed(name string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "Extracting %s...\n", name)
	c.fail.Fprintf(c.out, "  failed: %v\n", err)
}

func (c *Console) OnComplete(written, failed int, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out)
	if failed > 0 {
		c.fail.Fprintf(c.out, "Split finished with %d failed units\n", failed)
	} else {
		c.ok.Fprintln(c.out, "Split complete!")
	}
	fmt.Fprintf(c.out, "Wrote %d files in %s\n", written, elapsed.Round(time.Millisecond))
}

// Bar draws a progress bar and prints failures and dropped identifiers once
// the bar finishes.
type Bar struct {
	mu     sync.Mutex
	out    io.Writer
	bar    *progressbar.ProgressBar
	notes  []string
	failed []string
}

// NewBar returns a Bar writing to w.
func NewBar(w io.Writer) *Bar {
	return &Bar{out: w}
}

func (b *Bar) OnStart(source string, total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetDescription("Splitting"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(b.out)
		}),
	)
}

func (b *Bar) OnUnitDone(r UnitResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range r.Dropped {
		b.notes = append(b.notes, fmt.Sprintf("%s: no import rule for %q", r.Name, id))
	}
	b.advance()
}

func (b *Bar) OnUnitFailed(name string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failed = append(b.failed, fmt.Sprintf("%s: %v", name, err))
	b.advance()
}

func (b *Bar) advance() {
	if b.bar != nil {
		_ = b.bar.Add(1)
	}
}

func (b *Bar) OnComplete(written, failed int, elapsed time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar != nil {
		_ = b.bar.Finish()
	}
	for _, n := range b.notes {
		fmt.Fprintf(b.out, "warning: %s\n", n)
	}
	for _, f := range b.failed {
		fmt.Fprintf(b.out, "failed: %s\n", f)
	}
	fmt.Fprintf(b.out, "Wrote %d files (%d failed) in %s\n", written, failed, elapsed.Round(time.Millisecond))
}

// New picks a reporter by name: "console", "bar" or "none".
func New(kind string, w io.Writer) (Reporter, error) {
	switch kind {
	case "", "console":
		return NewConsole(w), nil
	case "bar":
		return NewBar(w), nil
	case "none", "quiet":
		return NoOp{}, nil
	default:
		return nil, fmt.Errorf("unknown progress reporter %q", kind)
	}
}
