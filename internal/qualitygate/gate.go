// Package qualitygate evaluates a manifest, and optionally the run that used
// it, against configurable checks: ranges that fit the source, failed units
// and identifiers that produced no import.
package qualitygate

import (
	"fmt"
	"time"

	"github.com/efebarandurmaz/carve/internal/manifest"
	"github.com/efebarandurmaz/carve/internal/metrics"
)

// GateStatus represents the result of a quality gate check.
type GateStatus string

const (
	GatePassed  GateStatus = "passed"
	GateFailed  GateStatus = "failed"
	GateSkipped GateStatus = "skipped"
	GateWarning GateStatus = "warning"
)

// GateSeverity indicates how a gate failure affects the overall result.
type GateSeverity string

const (
	SeverityCritical GateSeverity = "critical" // later gates are skipped
	SeverityRequired GateSeverity = "required" // overall result fails
	SeverityAdvisory GateSeverity = "advisory" // reported as a warning
)

// GateResult captures the outcome of a single gate evaluation.
type GateResult struct {
	Name        string        `json:"name"`
	Status      GateStatus    `json:"status"`
	Severity    GateSeverity  `json:"severity"`
	Score       float64       `json:"score"`
	Threshold   float64       `json:"threshold"`
	Message     string        `json:"message"`
	Details     []string      `json:"details,omitempty"`
	Duration    time.Duration `json:"duration"`
	EvaluatedAt time.Time     `json:"evaluated_at"`
}

// Gate is one check.
type Gate interface {
	Name() string
	Severity() GateSeverity
	Evaluate(ctx *EvalContext) (*GateResult, error)
}

// EvalContext is what gates look at. Run fields are zero before a run.
type EvalContext struct {
	SourceLines int
	Units       []manifest.Unit

	// Ran is false for preflight checks; run gates skip themselves.
	Ran     bool
	Failed  []string
	Dropped []string
}

// Preflight builds a context from the manifest alone.
func Preflight(units []manifest.Unit, sourceLines int) *EvalContext {
	return &EvalContext{SourceLines: sourceLines, Units: units}
}

// AfterRun builds a context that also covers the run's outcome.
func AfterRun(units []manifest.Unit, rm *metrics.RunMetrics) *EvalContext {
	ctx := &EvalContext{
		SourceLines: rm.Source.Lines,
		Units:       units,
		Ran:         true,
		Failed:      rm.Errors,
	}
	for _, u := range rm.Units {
		for _, id := range u.Dropped {
			ctx.Dropped = append(ctx.Dropped, fmt.Sprintf("%s: %s", u.Name, id))
		}
	}
	return ctx
}

// SuiteResult captures the complete evaluation.
type SuiteResult struct {
	Status       GateStatus    `json:"status"`
	Gates        []GateResult  `json:"gates"`
	PassedCount  int           `json:"passed_count"`
	FailedCount  int           `json:"failed_count"`
	SkippedCount int           `json:"skipped_count"`
	WarningCount int           `json:"warning_count"`
	Duration     time.Duration `json:"duration"`
	EvaluatedAt  time.Time     `json:"evaluated_at"`
	Summary      string        `json:"summary"`
}

// Passed reports whether no critical or required gate failed.
func (r *SuiteResult) Passed() bool { return r.Status != GateFailed }

// Suite runs gates in order.
type Suite struct {
	gates []Gate
}

// NewSuite creates a suite.
func NewSuite(gates ...Gate) *Suite {
	return &Suite{gates: gates}
}

// AddGate appends a gate.
func (s *Suite) AddGate(g Gate) {
	s.gates = append(s.gates, g)
}

// Len returns the number of gates.
func (s *Suite) Len() int { return len(s.gates) }

// Run evaluates every gate. A failed critical gate skips the rest; a failed
// advisory gate is downgraded to a warning.
func (s *Suite) Run(ctx *EvalContext) *SuiteResult {
	start := time.Now()
	result := &SuiteResult{
		Status:      GatePassed,
		EvaluatedAt: start,
	}

	aborted := false
	for _, gate := range s.gates {
		if aborted {
			result.Gates = append(result.Gates, GateResult{
				Name:        gate.Name(),
				Status:      GateSkipped,
				Severity:    gate.Severity(),
				Message:     "Skipped due to critical gate failure",
				EvaluatedAt: time.Now(),
			})
			result.SkippedCount++
			continue
		}

		gateStart := time.Now()
		gr, err := gate.Evaluate(ctx)
		if err != nil {
			gr = &GateResult{
				Name:     gate.Name(),
				Status:   GateFailed,
				Severity: gate.Severity(),
				Message:  fmt.Sprintf("Gate evaluation error: %v", err),
			}
		}
		if gr.Status == GateFailed && gr.Severity == SeverityAdvisory {
			gr.Status = GateWarning
		}
		gr.Duration = time.Since(gateStart)
		gr.EvaluatedAt = gateStart

		result.Gates = append(result.Gates, *gr)

		switch gr.Status {
		case GatePassed:
			result.PassedCount++
		case GateFailed:
			result.FailedCount++
			result.Status = GateFailed
			if gr.Severity == SeverityCritical {
				aborted = true
			}
		case GateWarning:
			result.WarningCount++
		case GateSkipped:
			result.SkippedCount++
		}
	}

	result.Duration = time.Since(start)
	result.Summary = fmt.Sprintf("%d passed, %d failed, %d warnings, %d skipped",
		result.PassedCount, result.FailedCount, result.WarningCount, result.SkippedCount)
	return result
}
