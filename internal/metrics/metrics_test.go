package metrics

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestAddUnit_Totals(t *testing.T) {
	m := New()
	m.CollectSource("Dashboard.tsx", 4520, 180_000)
	m.AddUnit(UnitMetrics{Name: "UsersTab", Lines: 370, Bytes: 1000, Types: 1, Services: 1, Components: 2, Outcome: "created"})
	m.AddUnit(UnitMetrics{Name: "LocationsTab", Lines: 167, Bytes: 500, Outcome: "unchanged"})
	m.AddUnit(UnitMetrics{Name: "Broken", Outcome: "failed", Error: "line range out of range"})
	m.AddUnit(UnitMetrics{Name: "ReportsTab", Lines: 10, Bytes: 24, Outcome: "overwritten", Dropped: []string{"formatDate", "api"}})
	m.Finish()

	if m.Written != 2 || m.Unchanged != 1 || m.Failed != 1 {
		t.Errorf("unexpected counts written=%d unchanged=%d failed=%d", m.Written, m.Unchanged, m.Failed)
	}
	if m.TotalBytes != 1024 {
		t.Errorf("expected 1024 bytes, got %d", m.TotalBytes)
	}
	if m.Dropped() != 2 {
		t.Errorf("expected 2 dropped, got %d", m.Dropped())
	}
	if len(m.Errors) != 1 || !strings.HasPrefix(m.Errors[0], "Broken:") {
		t.Errorf("unexpected errors %v", m.Errors)
	}
	if m.FinishedAt.Before(m.StartedAt) {
		t.Error("finish before start")
	}
}

func TestPrintSummary(t *testing.T) {
	m := New()
	m.CollectSource("Dashboard.tsx", 4520, 180_000)
	m.AddUnit(UnitMetrics{Name: "UsersTab", Lines: 370, Bytes: 2048, Outcome: "created", Dropped: []string{"formatDate"}})
	m.AddUnit(UnitMetrics{Name: "Broken", Error: "boom"})
	m.Finish()

	var buf bytes.Buffer
	m.PrintSummary(&buf)
	out := buf.String()
	for _, want := range []string{"CARVE SPLIT REPORT", "4,520", "180 kB", "UsersTab", "[created]", "[FAILED]", "UsersTab: formatDate", "Broken: boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestJSON(t *testing.T) {
	m := New()
	m.AddUnit(UnitMetrics{Name: "A", Outcome: "created", Bytes: 3})
	m.Finish()
	data, err := m.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["written"].(float64) != 1 {
		t.Errorf("unexpected written %v", decoded["written"])
	}
}
