package qualitygate

import (
	"fmt"
	"strings"
)

// GateConfig defines which gates run and how strict they are.
type GateConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled" yaml:"enabled"`

	RangeSeverity string `mapstructure:"range_severity" json:"range_severity" yaml:"range_severity"`

	MaxFailed      int    `mapstructure:"max_failed" json:"max_failed" yaml:"max_failed"`
	FailedSeverity string `mapstructure:"failed_severity" json:"failed_severity" yaml:"failed_severity"`

	// MaxDropped below 0 disables the unclassified gate.
	MaxDropped      int    `mapstructure:"max_dropped" json:"max_dropped" yaml:"max_dropped"`
	DroppedSeverity string `mapstructure:"dropped_severity" json:"dropped_severity" yaml:"dropped_severity"`
}

// DefaultConfig returns the gate configuration used when none is set.
func DefaultConfig() *GateConfig {
	return &GateConfig{
		Enabled:         true,
		RangeSeverity:   "critical",
		MaxFailed:       0,
		FailedSeverity:  "required",
		MaxDropped:      -1, // disabled by default
		DroppedSeverity: "advisory",
	}
}

// ParseSeverity converts a string to GateSeverity; unknown values are required.
func ParseSeverity(s string) GateSeverity {
	switch strings.ToLower(s) {
	case "critical":
		return SeverityCritical
	case "advisory":
		return SeverityAdvisory
	default:
		return SeverityRequired
	}
}

// BuildSuite constructs the gate suite from configuration. A disabled config
// yields an empty suite.
func BuildSuite(cfg *GateConfig) *Suite {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	s := NewSuite()
	if !cfg.Enabled {
		return s
	}

	s.AddGate(NewRangeGate(ParseSeverity(cfg.RangeSeverity)))
	if cfg.MaxFailed >= 0 {
		s.AddGate(NewFailureGate(cfg.MaxFailed, ParseSeverity(cfg.FailedSeverity)))
	}
	if cfg.MaxDropped >= 0 {
		s.AddGate(NewDroppedGate(cfg.MaxDropped, ParseSeverity(cfg.DroppedSeverity)))
	}
	return s
}

// FormatReport returns a human-readable gate report.
func FormatReport(result *SuiteResult) string {
	var b strings.Builder
	b.WriteString("╔══════════════════════════════════════════╗\n")
	b.WriteString("║        Quality Gate Report               ║\n")
	b.WriteString("╠══════════════════════════════════════════╣\n")

	for _, gr := range result.Gates {
		icon := "✓"
		switch gr.Status {
		case GateFailed:
			icon = "✗"
		case GateSkipped:
			icon = "○"
		case GateWarning:
			icon = "⚠"
		}
		fmt.Fprintf(&b, "║ %s %-14s %-10s %s\n", icon, gr.Name, "["+strings.ToUpper(string(gr.Severity))+"]", gr.Message)
		for _, d := range gr.Details {
			fmt.Fprintf(&b, "║   → %s\n", d)
		}
	}

	b.WriteString("╠══════════════════════════════════════════╣\n")
	status := "PASSED"
	if !result.Passed() {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "║ Result: %s (%s)\n", status, result.Summary)
	b.WriteString("╚══════════════════════════════════════════╝\n")
	return b.String()
}
