// Package pipeline drives a split run: for each manifest unit it extracts the
// line range, synthesizes the import header and hands the file to a sink.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/efebarandurmaz/carve/internal/extract"
	"github.com/efebarandurmaz/carve/internal/imports"
	"github.com/efebarandurmaz/carve/internal/manifest"
	"github.com/efebarandurmaz/carve/internal/metrics"
	"github.com/efebarandurmaz/carve/internal/observability"
	"github.com/efebarandurmaz/carve/internal/progress"
	"github.com/efebarandurmaz/carve/internal/sink"
)

// Config wires a Runner. Nil collaborators get quiet defaults.
type Config struct {
	Synthesizer *imports.Synthesizer
	Sink        sink.Sink
	Reporter    progress.Reporter
	Audit       *observability.AuditLogger
	Logger      *slog.Logger

	// Parallel is the number of units processed at once; <= 1 keeps manifest order.
	Parallel int
	// KeepGoing processes every unit even after one fails.
	KeepGoing bool
	// DryRun is recorded in the run metrics.
	DryRun bool
}

// Runner executes split jobs. It holds no per-run state and can be reused.
type Runner struct {
	synth    *imports.Synthesizer
	sink     sink.Sink
	reporter progress.Reporter
	audit    *observability.AuditLogger
	logger   *slog.Logger
	parallel int
	keep     bool
	dryRun   bool
}

// NewRunner creates a runner from cfg.
func NewRunner(cfg Config) *Runner {
	r := &Runner{
		synth:    cfg.Synthesizer,
		sink:     cfg.Sink,
		reporter: cfg.Reporter,
		audit:    cfg.Audit,
		logger:   cfg.Logger,
		parallel: cfg.Parallel,
		keep:     cfg.KeepGoing,
		dryRun:   cfg.DryRun,
	}
	if r.synth == nil {
		r.synth = imports.NewSynthesizer(imports.DefaultLayout())
	}
	if r.sink == nil {
		r.sink = sink.NewFileSink()
	}
	if r.reporter == nil {
		r.reporter = progress.NoOp{}
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

// Job is one split: the source lines and the units to carve out of them.
type Job struct {
	Manifest *manifest.Manifest
	// Units defaults to every unit of the manifest.
	Units  []manifest.Unit
	Lines  []string
	Source SourceInfo
}

// SourceInfo describes the source file for reporting.
type SourceInfo struct {
	Path  string
	Bytes int
}

// UnitResult is the outcome of one unit.
type UnitResult struct {
	Unit    manifest.Unit
	File    sink.GeneratedFile
	Plan    imports.Plan
	Outcome sink.Outcome
	Err     error
	// Skipped units were never started because the run stopped first.
	Skipped bool
}

// Result is the outcome of a run, with units in manifest order.
type Result struct {
	Units   []UnitResult
	Metrics *metrics.RunMetrics
}

// LoadSource reads a source file and splits it into lines.
func LoadSource(path string) ([]string, SourceInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, SourceInfo{}, fmt.Errorf("reading source: %w", err)
	}
	return extract.Lines(data), SourceInfo{Path: path, Bytes: len(data)}, nil
}

// Generate builds the file for one unit without writing it.
func (r *Runner) Generate(u manifest.Unit, lines []string, path string) (sink.GeneratedFile, imports.Plan, error) {
	body, err := extract.Range(lines, u.StartLine, u.EndLine)
	if err != nil {
		return sink.GeneratedFile{}, imports.Plan{}, fmt.Errorf("extracting lines: %w", err)
	}
	plan := r.synth.Plan(u.Identifiers)
	return sink.GeneratedFile{Path: path, Content: []byte(plan.Render(body))}, plan, nil
}

// Run processes the job's units. Without KeepGoing it stops at the first
// failing unit; files already written stay on disk. With KeepGoing every unit
// is attempted and the failures are joined.
func (r *Runner) Run(ctx context.Context, job Job) (*Result, error) {
	units := job.Units
	if units == nil {
		units = job.Manifest.Units
	}

	m := metrics.New()
	m.DryRun = r.dryRun
	m.CollectSource(job.Source.Path, len(job.Lines), job.Source.Bytes)

	ctx, span := observability.StartRunSpan(ctx, job.Source.Path, len(units))
	defer span.End()

	r.logger.Info("split started", "source", job.Source.Path, "units", len(units), "parallel", r.parallel)
	r.reporter.OnStart(job.Source.Path, len(units))
	r.audit.LogRunStart(job.Source.Path, len(units))

	results := make([]UnitResult, len(units))
	for i, u := range units {
		results[i] = UnitResult{Unit: u, Skipped: true}
	}

	var err error
	if r.parallel > 1 {
		err = r.runParallel(ctx, job, units, results)
	} else {
		err = r.runSequential(ctx, job, units, results)
	}

	for _, res := range results {
		if !res.Skipped {
			m.AddUnit(unitMetrics(res))
		}
	}
	m.Finish()
	observability.RecordRunResult(span, m.Written+m.Unchanged, m.Failed)
	observability.RecordError(span, err)
	r.reporter.OnComplete(m.Written, m.Failed, m.Duration)
	r.audit.LogRunEnd(m.Written, m.Failed, m.Duration)
	r.logger.Info("split finished", "written", m.Written, "unchanged", m.Unchanged, "failed", m.Failed, "duration", m.Duration)

	return &Result{Units: results, Metrics: m}, err
}

func (r *Runner) runSequential(ctx context.Context, job Job, units []manifest.Unit, results []UnitResult) error {
	var errs []error
	for i, u := range units {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}
		results[i] = r.process(ctx, job, u)
		if err := results[i].Err; err != nil {
			errs = append(errs, err)
			if !r.keep {
				return err
			}
		}
	}
	return errors.Join(errs...)
}

func (r *Runner) runParallel(ctx context.Context, job Job, units []manifest.Unit, results []UnitResult) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallel)

	unitErrs := make([]error, len(units))
	for i, u := range units {
		i, u := i, u
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			results[i] = r.process(gctx, job, u)
			unitErrs[i] = results[i].Err
			if unitErrs[i] != nil && !r.keep {
				return unitErrs[i]
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := errors.Join(unitErrs...); err != nil {
		return err
	}
	return ctx.Err()
}

func (r *Runner) process(ctx context.Context, job Job, u manifest.Unit) UnitResult {
	ctx, span := observability.StartUnitSpan(ctx, u.Name, u.StartLine, u.EndLine)
	defer span.End()
	start := time.Now()

	res := UnitResult{Unit: u}
	fail := func(err error) UnitResult {
		res.Err = fmt.Errorf("unit %s: %w", u.Name, err)
		res.Outcome = ""
		observability.RecordError(span, err)
		r.logger.Error("unit failed", "unit", u.Name, "start_line", u.StartLine, "end_line", u.EndLine, "error", err)
		r.reporter.OnUnitFailed(u.Name, err)
		r.audit.LogUnitError(u.Name, err)
		return res
	}

	file, plan, err := r.Generate(u, job.Lines, job.Manifest.OutputPath(u))
	if err != nil {
		return fail(err)
	}
	res.File, res.Plan = file, plan
	for _, id := range plan.Dropped {
		r.logger.Warn("no import rule matched identifier", "unit", u.Name, "identifier", id)
	}

	outcome, err := r.sink.Write(ctx, file)
	if err != nil {
		return fail(err)
	}
	res.Outcome = outcome

	lines := extract.Span(u.StartLine, u.EndLine)
	observability.RecordUnitResult(span, file.Path, string(outcome), len(file.Content), len(plan.Statements), plan.Dropped)
	r.logger.Debug("unit written", "unit", u.Name, "path", file.Path, "outcome", outcome, "lines", lines)
	r.reporter.OnUnitDone(progress.UnitResult{
		Name:    u.Name,
		Path:    file.Path,
		Outcome: string(outcome),
		Lines:   lines,
		Dropped: plan.Dropped,
	})
	r.audit.LogUnitWrite(u.Name, file.Path, string(outcome), len(file.Content), plan.Dropped, time.Since(start))
	return res
}

func unitMetrics(res UnitResult) metrics.UnitMetrics {
	u := res.Unit
	um := metrics.UnitMetrics{
		Name:  u.Name,
		Lines: extract.Span(u.StartLine, u.EndLine),
	}
	if res.Err != nil {
		um.Outcome = "failed"
		um.Error = errors.Unwrap(res.Err).Error()
		return um
	}
	um.Path = res.File.Path
	um.Bytes = len(res.File.Content)
	um.Types = res.Plan.Count(imports.Type)
	um.Services = res.Plan.Count(imports.Service)
	um.Components = res.Plan.Count(imports.Component)
	um.Dropped = res.Plan.Dropped
	um.Outcome = string(res.Outcome)
	return um
}
