package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/efebarandurmaz/carve/internal/imports"
	"github.com/efebarandurmaz/carve/internal/qualitygate"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Log     LogConfig              `mapstructure:"log"`
	Tracing TracingConfig          `mapstructure:"tracing"`
	Audit   AuditConfig            `mapstructure:"audit"`
	Imports imports.Layout         `mapstructure:"imports"`
	Run     RunConfig              `mapstructure:"run"`
	Gates   qualitygate.GateConfig `mapstructure:"gates"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type TracingConfig struct {
	Endpoint   string  `mapstructure:"endpoint"`
	SampleRate float64 `mapstructure:"sample_rate"`
}

type AuditConfig struct {
	Path string `mapstructure:"path"`
}

// RunConfig holds defaults for `carve run` flags.
type RunConfig struct {
	Parallel  int    `mapstructure:"parallel"`
	KeepGoing bool   `mapstructure:"keep_going"`
	Progress  string `mapstructure:"progress"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Tracing: TracingConfig{SampleRate: 1.0},
		Imports: imports.DefaultLayout(),
		Run:     RunConfig{Parallel: 1, Progress: "console"},
		Gates:   *qualitygate.DefaultConfig(),
	}
}

// Validate checks configuration for issues and returns warnings.
func (c *Config) Validate() []string {
	var warnings []string

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		warnings = append(warnings, fmt.Sprintf("log level '%s' is unknown, using info", c.Log.Level))
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		warnings = append(warnings, fmt.Sprintf("log format '%s' is unknown, using text", c.Log.Format))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1.0 {
		warnings = append(warnings, fmt.Sprintf("tracing sample_rate %.2f is outside range [0.0, 1.0]", c.Tracing.SampleRate))
	}

	if c.Run.Parallel < 0 {
		warnings = append(warnings, fmt.Sprintf("run parallel %d is negative, running sequentially", c.Run.Parallel))
	}

	if c.Imports.Baseline != "" && !strings.HasPrefix(strings.TrimSpace(c.Imports.Baseline), "import") {
		warnings = append(warnings, "imports baseline does not look like an import statement")
	}

	for key, sev := range map[string]string{
		"range_severity":   c.Gates.RangeSeverity,
		"failed_severity":  c.Gates.FailedSeverity,
		"dropped_severity": c.Gates.DroppedSeverity,
	} {
		switch strings.ToLower(sev) {
		case "", "critical", "required", "advisory":
		default:
			warnings = append(warnings, fmt.Sprintf("gates %s '%s' is unknown, using required", key, sev))
		}
	}

	return warnings
}

// Load reads configuration from file and environment. A missing file is not
// an error when path is empty; defaults and CARVE_* variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CARVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	cfg.Imports = cfg.Imports.WithDefaults()

	if warnings := cfg.Validate(); len(warnings) > 0 {
		for _, warning := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", warning)
		}
	}

	return &cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("tracing.endpoint", d.Tracing.Endpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("audit.path", d.Audit.Path)
	v.SetDefault("imports.baseline", d.Imports.Baseline)
	v.SetDefault("imports.types_module", d.Imports.TypesModule)
	v.SetDefault("imports.services_dir", d.Imports.ServicesDir)
	v.SetDefault("imports.components_dir", d.Imports.ComponentsDir)
	v.SetDefault("run.parallel", d.Run.Parallel)
	v.SetDefault("run.keep_going", d.Run.KeepGoing)
	v.SetDefault("run.progress", d.Run.Progress)
	v.SetDefault("gates.enabled", d.Gates.Enabled)
	v.SetDefault("gates.range_severity", d.Gates.RangeSeverity)
	v.SetDefault("gates.max_failed", d.Gates.MaxFailed)
	v.SetDefault("gates.failed_severity", d.Gates.FailedSeverity)
	v.SetDefault("gates.max_dropped", d.Gates.MaxDropped)
	v.SetDefault("gates.dropped_severity", d.Gates.DroppedSeverity)
}
