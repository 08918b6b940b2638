package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

// RunMetrics collects statistics for one split run.
type RunMetrics struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitempty"`
	Duration   time.Duration `json:"duration_ms,omitempty"`
	Source     SourceMetrics `json:"source"`
	Units      []UnitMetrics `json:"units"`
	Written    int           `json:"written"`
	Unchanged  int           `json:"unchanged"`
	Failed     int           `json:"failed"`
	TotalBytes int           `json:"total_bytes"`
	DryRun     bool          `json:"dry_run,omitempty"`
	Errors     []string      `json:"errors,omitempty"`
}

type SourceMetrics struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
	Bytes int    `json:"bytes"`
}

type UnitMetrics struct {
	Name       string   `json:"name"`
	Path       string   `json:"path,omitempty"`
	Lines      int      `json:"lines"`
	Bytes      int      `json:"bytes"`
	Types      int      `json:"types"`
	Services   int      `json:"services"`
	Components int      `json:"components"`
	Dropped    []string `json:"dropped,omitempty"`
	Outcome    string   `json:"outcome"`
	Error      string   `json:"error,omitempty"`
}

// New starts tracking a run.
func New() *RunMetrics {
	return &RunMetrics{StartedAt: time.Now()}
}

// CollectSource records the size of the source file.
func (m *RunMetrics) CollectSource(path string, lines, bytes int) {
	m.Source = SourceMetrics{Path: path, Lines: lines, Bytes: bytes}
}

// AddUnit records a unit outcome.
func (m *RunMetrics) AddUnit(u UnitMetrics) {
	m.Units = append(m.Units, u)
	switch {
	case u.Error != "":
		m.Failed++
		m.Errors = append(m.Errors, fmt.Sprintf("%s: %s", u.Name, u.Error))
	case u.Outcome == "unchanged":
		m.Unchanged++
	default:
		m.Written++
		m.TotalBytes += u.Bytes
	}
}

// Dropped returns the number of identifiers no import rule matched.
func (m *RunMetrics) Dropped() int {
	n := 0
	for _, u := range m.Units {
		n += len(u.Dropped)
	}
	return n
}

// Finish marks the run as complete.
func (m *RunMetrics) Finish() {
	m.FinishedAt = time.Now()
	m.Duration = m.FinishedAt.Sub(m.StartedAt)
}

// PrintSummary writes a human-readable summary.
func (m *RunMetrics) PrintSummary(w io.Writer) {
	fmt.Fprintf(w, "\n╔══════════════════════════════════════╗\n")
	fmt.Fprintf(w, "║          CARVE SPLIT REPORT          ║\n")
	fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
	fmt.Fprintf(w, "║ Duration:    %-23s║\n", m.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "║ Source:      %s\n", m.Source.Path)
	fmt.Fprintf(w, "║   Lines:     %s\n", humanize.Comma(int64(m.Source.Lines)))
	fmt.Fprintf(w, "║   Size:      %s\n", humanize.Bytes(uint64(m.Source.Bytes)))
	fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
	if m.DryRun {
		fmt.Fprintf(w, "║ DRY RUN (nothing written)\n")
	}
	fmt.Fprintf(w, "║ Written:     %d\n", m.Written)
	fmt.Fprintf(w, "║ Unchanged:   %d\n", m.Unchanged)
	fmt.Fprintf(w, "║ Failed:      %d\n", m.Failed)
	fmt.Fprintf(w, "║ Output Size: %s\n", humanize.Bytes(uint64(m.TotalBytes)))
	fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
	fmt.Fprintf(w, "║ UNITS\n")
	for _, u := range m.Units {
		status := u.Outcome
		if u.Error != "" {
			status = "FAILED"
		}
		fmt.Fprintf(w, "║   %-22s %6d lines  T%d S%d C%d  [%s]\n", u.Name, u.Lines, u.Types, u.Services, u.Components, status)
	}
	if n := m.Dropped(); n > 0 {
		fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
		fmt.Fprintf(w, "║ UNRESOLVED IDENTIFIERS (%d)\n", n)
		for _, u := range m.Units {
			for _, id := range u.Dropped {
				fmt.Fprintf(w, "║   • %s: %s\n", u.Name, id)
			}
		}
	}
	if len(m.Errors) > 0 {
		fmt.Fprintf(w, "╠══════════════════════════════════════╣\n")
		fmt.Fprintf(w, "║ ERRORS\n")
		for _, e := range m.Errors {
			fmt.Fprintf(w, "║   • %s\n", e)
		}
	}
	fmt.Fprintf(w, "╚══════════════════════════════════════╝\n")
}

// JSON returns the metrics as formatted JSON.
func (m *RunMetrics) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
