// Package manifest describes which line ranges of a source file become which
// output files.
package manifest

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/gobwas/glob"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultExtension is appended to a unit's output name when the manifest sets none.
const DefaultExtension = ".tsx"

// Unit is one block to carve out of the source file.
type Unit struct {
	Name string `mapstructure:"name" yaml:"name"`
	// Output is the file name without extension; defaults to Name.
	Output    string `mapstructure:"output" yaml:"output,omitempty"`
	StartLine int    `mapstructure:"start_line" yaml:"start_line"`
	EndLine   int    `mapstructure:"end_line" yaml:"end_line"`
	// Identifiers drive import synthesis for the generated file.
	Identifiers []string `mapstructure:"identifiers" yaml:"identifiers,flow"`
}

// Manifest is the ordered list of units for one source file.
type Manifest struct {
	Source    string `mapstructure:"source" yaml:"source"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	Extension string `mapstructure:"extension" yaml:"extension,omitempty"`
	Units     []Unit `mapstructure:"units" yaml:"units"`
}

// Load reads a manifest from YAML, JSON or TOML (chosen by file extension).
// Relative Source and OutputDir are resolved against the manifest's directory.
func Load(path string) (*Manifest, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("unmarshalling manifest: %w", err)
	}
	if err := m.Normalize(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	m.Resolve(filepath.Dir(path))
	return &m, nil
}

// Normalize fills defaults and rejects units that cannot name an output file.
// Ranges are not checked here; cross-unit overlap and gaps are allowed.
func (m *Manifest) Normalize() error {
	if m.Extension == "" {
		m.Extension = DefaultExtension
	}
	if m.Extension[0] != '.' {
		m.Extension = "." + m.Extension
	}
	if len(m.Units) == 0 {
		return fmt.Errorf("no units")
	}
	for i := range m.Units {
		u := &m.Units[i]
		if u.Name == "" {
			return fmt.Errorf("unit %d: missing name", i+1)
		}
		if u.Output == "" {
			u.Output = u.Name
		}
	}
	return nil
}

// Resolve makes relative paths absolute against baseDir.
func (m *Manifest) Resolve(baseDir string) {
	if m.Source != "" && !filepath.IsAbs(m.Source) {
		m.Source = filepath.Join(baseDir, m.Source)
	}
	if m.OutputDir != "" && !filepath.IsAbs(m.OutputDir) {
		m.OutputDir = filepath.Join(baseDir, m.OutputDir)
	}
}

// OutputPath returns where u is written.
func (m *Manifest) OutputPath(u Unit) string {
	return filepath.Join(m.OutputDir, u.Output+m.Extension)
}

// Select keeps the units whose name matches any of the glob patterns, in
// manifest order. No patterns selects every unit.
func Select(units []Unit, patterns []string) ([]Unit, error) {
	if len(patterns) == 0 {
		return units, nil
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid unit pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	var out []Unit
	for _, u := range units {
		for _, g := range globs {
			if g.Match(u.Name) {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

// WriteYAML encodes m as YAML.
func WriteYAML(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return enc.Close()
}
