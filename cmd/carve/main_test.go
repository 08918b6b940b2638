package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/efebarandurmaz/carve/internal/imports"
	"github.com/efebarandurmaz/carve/internal/manifest"
)

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carve.yaml")
	var out bytes.Buffer
	if err := writeSample(path, &out); err != nil {
		t.Fatalf("writeSample failed: %v", err)
	}

	m, err := manifest.Load(path)
	if err != nil {
		t.Fatalf("sample manifest does not load: %v", err)
	}
	if len(m.Units) != len(manifest.Sample().Units) {
		t.Errorf("expected %d units, got %d", len(manifest.Sample().Units), len(m.Units))
	}

	if err := writeSample(path, &out); err == nil {
		t.Error("expected error when manifest already exists")
	}
}

func TestWriteSample_Stdout(t *testing.T) {
	var out bytes.Buffer
	if err := writeSample("-", &out); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "name: UsersTab") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestPrintClassification(t *testing.T) {
	var out bytes.Buffer
	printClassification(&out, imports.NewSynthesizer(imports.DefaultLayout()), []string{"User", "userService", "formatDate"})

	for _, want := range []string{
		fmt.Sprintf("%-28s %s", "User", "type"),
		fmt.Sprintf("%-28s %s", "userService", "service"),
		fmt.Sprintf("%-28s %s", "formatDate", "unclassified"),
		"import { User } from '../../types';",
		"import { userService } from '../../services/user.service';",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func writeCheckFixture(t *testing.T, manifestYAML string) string {
	t.Helper()
	dir := t.TempDir()
	source := strings.Repeat("const x = 1;\n", 20)
	if err := os.WriteFile(filepath.Join(dir, "Page.tsx"), []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "carve.yaml")
	if err := os.WriteFile(path, []byte(manifestYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCheckManifest(t *testing.T) {
	path := writeCheckFixture(t, `source: Page.tsx
output_dir: out
units:
  - {name: A, start_line: 1, end_line: 10}
  - {name: B, start_line: 8, end_line: 20}
`)
	var out bytes.Buffer
	if err := checkManifest(runOptions{manifestPath: path}, &out); err != nil {
		t.Fatalf("check failed: %v\n%s", err, out.String())
	}
	for _, want := range []string{"2 units, 20 source lines", "✓ ranges", "○ failures", "Result: PASSED"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestCheckManifest_BadRange(t *testing.T) {
	path := writeCheckFixture(t, `source: Page.tsx
output_dir: out
units:
  - {name: A, start_line: 1, end_line: 25}
`)
	var out bytes.Buffer
	if err := checkManifest(runOptions{manifestPath: path, jsonReport: true}, &out); err == nil {
		t.Fatal("expected check failure")
	}
	if !strings.Contains(out.String(), `"status": "failed"`) {
		t.Errorf("expected JSON gate result, got:\n%s", out.String())
	}
}
