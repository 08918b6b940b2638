package qualitygate

import "fmt"

// RangeGate checks that every unit's lines exist in the source.
type RangeGate struct {
	severity GateSeverity
}

func NewRangeGate(severity GateSeverity) *RangeGate {
	return &RangeGate{severity: severity}
}

func (g *RangeGate) Name() string           { return "ranges" }
func (g *RangeGate) Severity() GateSeverity { return g.severity }
func (g *RangeGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{Name: g.Name(), Severity: g.severity, Threshold: 1.0}
	if len(ctx.Units) == 0 {
		r.Status = GateSkipped
		r.Message = "No units to evaluate"
		return r, nil
	}

	for _, u := range ctx.Units {
		if u.StartLine < 1 || u.EndLine < u.StartLine || u.EndLine > ctx.SourceLines {
			r.Details = append(r.Details, fmt.Sprintf("%s: lines %d-%d outside 1-%d",
				u.Name, u.StartLine, u.EndLine, ctx.SourceLines))
		}
	}
	valid := len(ctx.Units) - len(r.Details)
	r.Score = float64(valid) / float64(len(ctx.Units))
	if len(r.Details) == 0 {
		r.Status = GatePassed
		r.Message = fmt.Sprintf("All %d ranges fit the %d-line source", len(ctx.Units), ctx.SourceLines)
	} else {
		r.Status = GateFailed
		r.Message = fmt.Sprintf("%d of %d ranges are invalid", len(r.Details), len(ctx.Units))
	}
	return r, nil
}

// FailureGate checks the number of units that failed during the run.
type FailureGate struct {
	MaxFailed int
	severity  GateSeverity
}

func NewFailureGate(maxFailed int, severity GateSeverity) *FailureGate {
	return &FailureGate{MaxFailed: maxFailed, severity: severity}
}

func (g *FailureGate) Name() string           { return "failures" }
func (g *FailureGate) Severity() GateSeverity { return g.severity }
func (g *FailureGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{Name: g.Name(), Severity: g.severity}
	if !ctx.Ran {
		r.Status = GateSkipped
		r.Message = "No run to evaluate"
		return r, nil
	}

	n := len(ctx.Failed)
	if n <= g.MaxFailed {
		r.Status = GatePassed
		r.Score = 1.0
		r.Message = fmt.Sprintf("Failed units %d within limit %d", n, g.MaxFailed)
	} else {
		r.Status = GateFailed
		r.Message = fmt.Sprintf("Failed units %d exceed limit %d", n, g.MaxFailed)
		r.Details = ctx.Failed
	}
	return r, nil
}

// DroppedGate checks how many identifiers matched no import rule.
type DroppedGate struct {
	MaxDropped int
	severity   GateSeverity
}

func NewDroppedGate(maxDropped int, severity GateSeverity) *DroppedGate {
	return &DroppedGate{MaxDropped: maxDropped, severity: severity}
}

func (g *DroppedGate) Name() string           { return "unclassified" }
func (g *DroppedGate) Severity() GateSeverity { return g.severity }
func (g *DroppedGate) Evaluate(ctx *EvalContext) (*GateResult, error) {
	r := &GateResult{Name: g.Name(), Severity: g.severity}
	if !ctx.Ran {
		r.Status = GateSkipped
		r.Message = "No run to evaluate"
		return r, nil
	}

	n := len(ctx.Dropped)
	if n <= g.MaxDropped {
		r.Status = GatePassed
		r.Score = 1.0
		r.Message = fmt.Sprintf("Unclassified identifiers %d within limit %d", n, g.MaxDropped)
	} else {
		r.Status = GateFailed
		r.Message = fmt.Sprintf("Unclassified identifiers %d exceed limit %d", n, g.MaxDropped)
		r.Details = ctx.Dropped
	}
	return r, nil
}
