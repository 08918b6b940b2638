package imports

import (
	"fmt"
	"strings"
)

// Layout names the modules generated imports point at, relative to the
// directory the extracted file is written to.
type Layout struct {
	// Baseline is emitted verbatim as the first line of every file.
	Baseline string `mapstructure:"baseline" json:"baseline" yaml:"baseline"`
	// TypesModule is the module all type identifiers are imported from.
	TypesModule string `mapstructure:"types_module" json:"types_module" yaml:"types_module"`
	// ServicesDir holds one module per service.
	ServicesDir string `mapstructure:"services_dir" json:"services_dir" yaml:"services_dir"`
	// ComponentsDir holds sibling component modules.
	ComponentsDir string `mapstructure:"components_dir" json:"components_dir" yaml:"components_dir"`
}

// DefaultLayout matches a React page split into src/components/<area>/.
func DefaultLayout() Layout {
	return Layout{
		Baseline:      "import React, { useState, useEffect } from 'react';",
		TypesModule:   "../../types",
		ServicesDir:   "../../services",
		ComponentsDir: "..",
	}
}

// WithDefaults fills empty fields from DefaultLayout.
func (l Layout) WithDefaults() Layout {
	d := DefaultLayout()
	if l.Baseline == "" {
		l.Baseline = d.Baseline
	}
	if l.TypesModule == "" {
		l.TypesModule = d.TypesModule
	}
	if l.ServicesDir == "" {
		l.ServicesDir = d.ServicesDir
	}
	if l.ComponentsDir == "" {
		l.ComponentsDir = d.ComponentsDir
	}
	return l
}

// Statement is one generated import line.
type Statement struct {
	// Category is empty for the baseline import.
	Category Category
	// Names are the identifiers the statement brings into scope.
	Names []string
	Text  string
}

// Plan is the ordered import header for one file.
type Plan struct {
	Statements []Statement
	// Dropped lists identifiers that matched no rule, in input order.
	Dropped []string
}

// Count returns how many statements of category c the plan holds.
func (p Plan) Count(c Category) int {
	n := 0
	for _, s := range p.Statements {
		if s.Category == c {
			n++
		}
	}
	return n
}

// Lines returns the statement texts in emission order.
func (p Plan) Lines() []string {
	out := make([]string, len(p.Statements))
	for i, s := range p.Statements {
		out[i] = s.Text
	}
	return out
}

// Synthesizer builds import headers for a fixed Layout.
type Synthesizer struct {
	layout Layout
}

// NewSynthesizer returns a Synthesizer; empty layout fields take defaults.
func NewSynthesizer(layout Layout) *Synthesizer {
	return &Synthesizer{layout: layout.WithDefaults()}
}

// Layout returns the effective layout.
func (s *Synthesizer) Layout() Layout { return s.layout }

// Plan classifies ids and orders the resulting statements: baseline, the
// combined type import, services in input order, then components in input order.
func (s *Synthesizer) Plan(ids []string) Plan {
	var types, services, components []string
	var dropped []string
	for _, id := range ids {
		switch Classify(id) {
		case Type:
			types = append(types, id)
		case Service:
			services = append(services, id)
		case Component:
			components = append(components, id)
		default:
			dropped = append(dropped, id)
		}
	}

	stmts := make([]Statement, 0, 2+len(services)+len(components))
	stmts = append(stmts, Statement{Text: s.layout.Baseline})
	if len(types) > 0 {
		stmts = append(stmts, Statement{
			Category: Type,
			Names:    types,
			Text:     fmt.Sprintf("import { %s } from '%s';", strings.Join(types, ", "), s.layout.TypesModule),
		})
	}
	for _, id := range services {
		stmts = append(stmts, s.serviceStatement(id))
	}
	for _, id := range components {
		stmts = append(stmts, Statement{
			Category: Component,
			Names:    []string{id},
			Text:     fmt.Sprintf("import { %s } from '%s';", id, joinModule(s.layout.ComponentsDir, id)),
		})
	}
	return Plan{Statements: stmts, Dropped: dropped}
}

func (s *Synthesizer) serviceStatement(id string) Statement {
	st := Statement{Category: Service, Names: []string{id}}
	if HasServiceSuffix(id) {
		base := strings.TrimSuffix(id, ServiceSuffix)
		st.Text = fmt.Sprintf("import { %sService } from '%s';", base, joinModule(s.layout.ServicesDir, base+".service"))
	} else {
		st.Text = fmt.Sprintf("import * as %s from '%s';", id, joinModule(s.layout.ServicesDir, id))
	}
	return st
}

// joinModule keeps a leading "./" intact.
func joinModule(dir, name string) string {
	return strings.TrimSuffix(dir, "/") + "/" + name
}

// Render joins the plan's statements, a blank line, body and a trailing newline.
func (p Plan) Render(body string) string {
	var b strings.Builder
	for _, line := range p.Lines() {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(body)
	b.WriteByte('\n')
	return b.String()
}

// Synthesize returns body prefixed with the import header for ids.
func (s *Synthesizer) Synthesize(ids []string, body string) string {
	return s.Plan(ids).Render(body)
}

var defaultSynthesizer = NewSynthesizer(DefaultLayout())

// Synthesize uses DefaultLayout.
func Synthesize(ids []string, body string) string {
	return defaultSynthesizer.Synthesize(ids, body)
}
