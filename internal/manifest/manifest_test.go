package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "carve.yaml", `
source: src/pages/Dashboard.tsx
output_dir: src/components/admin
units:
  - name: UsersTab
    start_line: 3
    end_line: 10
    identifiers: [User, userService, UserDetailModal]
  - name: HolidaysTab
    output: Holidays
    start_line: 11
    end_line: 12
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Source != filepath.Join(dir, "src/pages/Dashboard.tsx") {
		t.Errorf("unexpected source %q", m.Source)
	}
	if m.Extension != DefaultExtension {
		t.Errorf("expected default extension, got %q", m.Extension)
	}
	want := []Unit{
		{Name: "UsersTab", Output: "UsersTab", StartLine: 3, EndLine: 10,
			Identifiers: []string{"User", "userService", "UserDetailModal"}},
		{Name: "HolidaysTab", Output: "Holidays", StartLine: 11, EndLine: 12},
	}
	if diff := cmp.Diff(want, m.Units); diff != "" {
		t.Errorf("units mismatch (-want +got):\n%s", diff)
	}
	if got := m.OutputPath(m.Units[1]); got != filepath.Join(dir, "src/components/admin", "Holidays.tsx") {
		t.Errorf("unexpected output path %q", got)
	}
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "carve.json", `{
  "source": "/abs/Page.tsx",
  "output_dir": "/abs/out",
  "extension": "ts",
  "units": [{"name": "A", "start_line": 1, "end_line": 1, "identifiers": ["aService"]}]
}`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if m.Source != "/abs/Page.tsx" || m.OutputDir != "/abs/out" {
		t.Errorf("absolute paths rewritten: %q %q", m.Source, m.OutputDir)
	}
	if m.Extension != ".ts" {
		t.Errorf("expected .ts, got %q", m.Extension)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{"no units", "empty.yaml", "source: a.tsx\n", "no units"},
		{"missing name", "noname.yaml", "units:\n  - start_line: 1\n    end_line: 2\n", "missing name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, tt.file, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_RangesNotValidated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "overlap.yaml", `
units:
  - {name: A, start_line: 10, end_line: 5}
  - {name: B, start_line: 1, end_line: 20}
`)
	m, err := Load(path)
	if err != nil {
		t.Fatalf("ranges should be left to extraction, got %v", err)
	}
	if len(m.Units) != 2 {
		t.Errorf("expected 2 units, got %d", len(m.Units))
	}
}

func TestSelect(t *testing.T) {
	units := Sample().Units
	tests := []struct {
		name     string
		patterns []string
		want     []string
	}{
		{"no patterns", nil, nil},
		{"exact", []string{"UsersTab"}, []string{"UsersTab"}},
		{"prefix", []string{"Invoice*"}, []string{"InvoiceTemplatesTab", "InvoicesTab"}},
		{"keeps manifest order", []string{"Users*", "Articles*", "Backup*"}, []string{"UsersTab", "BackupTab", "ArticlesTab"}},
		{"no match", []string{"Nothing"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Select(units, tt.patterns)
			if err != nil {
				t.Fatal(err)
			}
			if tt.want == nil {
				if len(got) != len(units) {
					t.Errorf("expected all %d units, got %d", len(units), len(got))
				}
				return
			}
			names := []string{}
			for _, u := range got {
				names = append(names, u.Name)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("Select mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := Select(units, []string{"[unclosed"}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestWriteYAML_RoundTripsThroughLoad(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(&buf, Sample()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "start_line: 359") {
		t.Errorf("expected unit ranges in output:\n%s", buf.String())
	}

	dir := t.TempDir()
	m, err := Load(writeFile(t, dir, "sample.yaml", buf.String()))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.Units) != 15 {
		t.Fatalf("expected 15 units, got %d", len(m.Units))
	}
	if m.Units[13].Name != "InvoiceTemplatesTab" || m.Units[13].Identifiers[0] != "InvoiceTemplateEditor" {
		t.Errorf("unexpected unit %+v", m.Units[13])
	}
}
