package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/efebarandurmaz/carve/internal/config"
	"github.com/efebarandurmaz/carve/internal/imports"
	"github.com/efebarandurmaz/carve/internal/manifest"
	"github.com/efebarandurmaz/carve/internal/observability"
	"github.com/efebarandurmaz/carve/internal/pipeline"
	"github.com/efebarandurmaz/carve/internal/progress"
	"github.com/efebarandurmaz/carve/internal/qualitygate"
	"github.com/efebarandurmaz/carve/internal/sink"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// runOptions carries the `carve run` flags.
type runOptions struct {
	manifestPath string
	sourcePath   string
	outputDir    string
	configPath   string
	only         []string
	parallel     int
	keepGoing    bool
	dryRun       bool
	progress     string
	jsonReport   bool
}

func main() {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:     "carve",
		Short:   "Split a large source file into per-component files with synthesized imports",
		Version: version,
	}
	// Runtime failures are not usage errors.
	rootCmd.SilenceUsage = true

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Extract every manifest unit into its own file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			return runSplit(cmd.Context(), opts, f.Changed("parallel"), f.Changed("keep-going"), f.Changed("progress"))
		},
	}
	runCmd.Flags().StringVar(&opts.manifestPath, "manifest", "carve.yaml", "Manifest file (yaml, json or toml)")
	runCmd.Flags().StringVar(&opts.sourcePath, "source", "", "Override the manifest's source file")
	runCmd.Flags().StringVar(&opts.outputDir, "output", "", "Override the manifest's output directory")
	runCmd.Flags().StringVar(&opts.configPath, "config", "", "Config file path")
	runCmd.Flags().StringSliceVar(&opts.only, "only", nil, "Only process units whose name matches these glob patterns")
	runCmd.Flags().IntVar(&opts.parallel, "parallel", 1, "Number of units processed at once")
	runCmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "Continue after a unit fails")
	runCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print a diff instead of writing files")
	runCmd.Flags().StringVar(&opts.progress, "progress", "console", "Progress output: console, bar or none")
	runCmd.Flags().BoolVar(&opts.jsonReport, "json", false, "Output metrics as JSON")

	var initOutput string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the sample admin dashboard manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeSample(initOutput, cmd.OutOrStdout())
		},
	}
	initCmd.Flags().StringVar(&initOutput, "output", "carve.yaml", "Where to write the manifest (- for stdout)")

	var classifyConfig string
	classifyCmd := &cobra.Command{
		Use:   "classify IDENTIFIER...",
		Short: "Show how identifiers are classified and the import header they produce",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(classifyConfig)
			if err != nil {
				return err
			}
			printClassification(cmd.OutOrStdout(), imports.NewSynthesizer(cfg.Imports), args)
			return nil
		},
	}
	classifyCmd.Flags().StringVar(&classifyConfig, "config", "", "Config file path")

	var checkOpts runOptions
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the manifest against the source without writing files",
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkManifest(checkOpts, cmd.OutOrStdout())
		},
	}
	checkCmd.Flags().StringVar(&checkOpts.manifestPath, "manifest", "carve.yaml", "Manifest file (yaml, json or toml)")
	checkCmd.Flags().StringVar(&checkOpts.sourcePath, "source", "", "Override the manifest's source file")
	checkCmd.Flags().StringVar(&checkOpts.configPath, "config", "", "Config file path")
	checkCmd.Flags().StringSliceVar(&checkOpts.only, "only", nil, "Only check units whose name matches these glob patterns")
	checkCmd.Flags().BoolVar(&checkOpts.jsonReport, "json", false, "Output gate results as JSON")

	rootCmd.AddCommand(runCmd, initCmd, classifyCmd, checkCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runSplit(ctx context.Context, opts runOptions, parallelSet, keepGoingSet, progressSet bool) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config load failed (%v), using defaults\n", err)
		cfg = config.Default()
	}
	if !parallelSet {
		opts.parallel = cfg.Run.Parallel
	}
	if !keepGoingSet {
		opts.keepGoing = cfg.Run.KeepGoing
	}
	if !progressSet {
		opts.progress = cfg.Run.Progress
	}

	logger := cfg.Log.NewLogger(os.Stderr)

	tracingCfg := observability.DefaultTracingConfig()
	tracingCfg.ServiceVersion = version
	tracingCfg.OTLPEndpoint = cfg.Tracing.Endpoint
	tracingCfg.SampleRate = cfg.Tracing.SampleRate
	tp, err := observability.InitTracing(ctx, tracingCfg)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	audit, err := observability.NewAuditLogger(observability.AuditConfig{OutputPath: cfg.Audit.Path})
	if err != nil {
		return err
	}
	defer audit.Close()

	m, units, err := loadManifest(opts)
	if err != nil {
		return err
	}
	lines, info, err := pipeline.LoadSource(m.Source)
	if err != nil {
		return err
	}

	// Keep stdout clean for the JSON report and the dry-run diff.
	progressOut := io.Writer(os.Stdout)
	if opts.jsonReport || opts.dryRun {
		progressOut = os.Stderr
	}
	reporter, err := progress.New(opts.progress, progressOut)
	if err != nil {
		return err
	}

	var out sink.Sink = sink.NewFileSink()
	if opts.dryRun {
		out = sink.NewDiffSink(os.Stdout)
	}

	runner := pipeline.NewRunner(pipeline.Config{
		Synthesizer: imports.NewSynthesizer(cfg.Imports),
		Sink:        out,
		Reporter:    reporter,
		Audit:       audit,
		Logger:      logger,
		Parallel:    opts.parallel,
		KeepGoing:   opts.keepGoing,
		DryRun:      opts.dryRun,
	})

	result, runErr := runner.Run(ctx, pipeline.Job{
		Manifest: m,
		Units:    units,
		Lines:    lines,
		Source:   info,
	})

	if opts.jsonReport {
		data, err := result.Metrics.JSON()
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else if !opts.dryRun {
		result.Metrics.PrintSummary(os.Stdout)
	}

	suite := qualitygate.BuildSuite(&cfg.Gates)
	if suite.Len() > 0 {
		gates := suite.Run(qualitygate.AfterRun(units, result.Metrics))
		if gates.WarningCount > 0 || !gates.Passed() {
			fmt.Fprint(os.Stderr, qualitygate.FormatReport(gates))
		}
		if !gates.Passed() && runErr == nil {
			runErr = errors.New("quality gates failed")
		}
	}

	return runErr
}

func loadManifest(opts runOptions) (*manifest.Manifest, []manifest.Unit, error) {
	m, err := manifest.Load(opts.manifestPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.sourcePath != "" {
		m.Source = opts.sourcePath
	}
	if opts.outputDir != "" {
		m.OutputDir = opts.outputDir
	}
	if m.Source == "" {
		return nil, nil, errors.New("no source file: set source in the manifest or pass --source")
	}
	units, err := manifest.Select(m.Units, opts.only)
	if err != nil {
		return nil, nil, err
	}
	if len(units) == 0 {
		return nil, nil, fmt.Errorf("no units match %v", opts.only)
	}
	return m, units, nil
}

func checkManifest(opts runOptions, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	m, units, err := loadManifest(opts)
	if err != nil {
		return err
	}
	lines, _, err := pipeline.LoadSource(m.Source)
	if err != nil {
		return err
	}

	gateCfg := cfg.Gates
	gateCfg.Enabled = true
	result := qualitygate.BuildSuite(&gateCfg).Run(qualitygate.Preflight(units, len(lines)))

	if opts.jsonReport {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		fmt.Fprintf(out, "%s: %d units, %d source lines\n", m.Source, len(units), len(lines))
		fmt.Fprint(out, qualitygate.FormatReport(result))
	}
	if !result.Passed() {
		return errors.New("manifest check failed")
	}
	return nil
}

func writeSample(path string, stdout io.Writer) error {
	if path == "-" {
		return manifest.WriteYAML(stdout, manifest.Sample())
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := manifest.WriteYAML(f, manifest.Sample()); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

func printClassification(w io.Writer, s *imports.Synthesizer, ids []string) {
	for _, id := range ids {
		fmt.Fprintf(w, "  %-28s %s\n", id, imports.Classify(id))
	}
	fmt.Fprintln(w)
	for _, line := range s.Plan(ids).Lines() {
		fmt.Fprintln(w, line)
	}
}
