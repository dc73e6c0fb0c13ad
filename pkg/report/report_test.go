package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/model"
	"github.com/matzehuels/pkgcycle/pkg/rules"
)

// threeCycles: a <-> b, b <-> c, a -> b -> c -> a.
func threeCycles() *analyzer.Result[model.Location] {
	m := model.New[model.Location]()
	m.AddClass("a.A", false, model.Location{Path: "a/A.java"}).AddUsage("b.B")
	b := m.AddClass("b.B", true, model.Location{Path: "b/B.java"})
	b.AddUsage("a.A")
	b.AddUsage("c.C")
	c := m.AddClass("c.C", false, model.Location{Path: "c/C.java"})
	c.AddUsage("b.B")
	c.AddUsage("a.A")
	return analyzer.Analyze(m)
}

func sampleIssues() []rules.Issue {
	return []rules.Issue{{
		Rule:     rules.KeyPackageCycle,
		Severity: rules.SeverityCritical,
		Package:  "a",
		Class:    "A",
		Location: model.Location{Path: "a/A.java", Line: 3},
		Message:  "Break the package cycle",
	}}
}

func TestNew(t *testing.T) {
	res := threeCycles()
	r := New(res, sampleIssues(), Options{Root: "/src", Language: "java"})

	if _, err := uuid.Parse(r.ID); err != nil {
		t.Errorf("ID %q is not a uuid: %v", r.ID, err)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if len(r.Cycles) != 3 || r.Truncated {
		t.Errorf("Cycles = %v, Truncated = %v; want 3 cycles, not truncated", r.Cycles, r.Truncated)
	}
	if len(r.Packages) != 3 {
		t.Errorf("len(Packages) = %d, want 3", len(r.Packages))
	}
	if len(r.Components) != 1 || len(r.Components[0]) != 3 {
		t.Errorf("Components = %v, want one component of 3", r.Components)
	}
	if !r.HasCycles() {
		t.Error("HasCycles() = false, want true")
	}
	if got := r.IssuesBySeverity()[rules.SeverityCritical]; got != 1 {
		t.Errorf("IssuesBySeverity()[critical] = %d, want 1", got)
	}

	other := New(res, nil, Options{})
	if other.ID == r.ID {
		t.Error("reports should get distinct IDs")
	}
	if other.Issues == nil {
		t.Error("Issues should be empty, not nil")
	}
}

func TestNewMaxCycles(t *testing.T) {
	r := New(threeCycles(), nil, Options{MaxCycles: 2})
	if len(r.Cycles) != 2 || !r.Truncated {
		t.Errorf("Cycles = %v, Truncated = %v; want 2 cycles, truncated", r.Cycles, r.Truncated)
	}
	if r.Summary.Cycles != 3 {
		t.Errorf("Summary.Cycles = %d, want 3", r.Summary.Cycles)
	}

	r = New(threeCycles(), nil, Options{MaxCycles: 3})
	if r.Truncated {
		t.Error("MaxCycles equal to the count should not truncate")
	}
}

func TestWriteJSON(t *testing.T) {
	r := New(threeCycles(), sampleIssues(), Options{Language: "java"})

	var buf bytes.Buffer
	if err := Write(&buf, r, FormatJSON); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	for _, key := range []string{"id", "summary", "packages", "cycles", "components", "issues"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("JSON output misses %q", key)
		}
	}

	got, err := Read(&buf)
	if err == nil {
		t.Fatal("Read() of a drained buffer should fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Read() error code = %v, want INVALID_INPUT", errors.GetCode(err))
	}

	buf.Reset()
	_ = Write(&buf, r, FormatJSON)
	got, err = Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.ID != r.ID || len(got.Cycles) != len(r.Cycles) || got.Issues[0].Target() != "a.A" {
		t.Errorf("Read() = %+v, want the written report", got)
	}
}

func TestWriteYAML(t *testing.T) {
	r := New(threeCycles(), sampleIssues(), Options{})

	var buf bytes.Buffer
	if err := Write(&buf, r, FormatYAML); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	var raw struct {
		ID      string `yaml:"id"`
		Summary struct {
			Cycles int `yaml:"cycles"`
		} `yaml:"summary"`
		Issues []map[string]any `yaml:"issues"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &raw); err != nil {
		t.Fatalf("output is not YAML: %v", err)
	}
	if raw.ID != r.ID || raw.Summary.Cycles != 3 || len(raw.Issues) != 1 {
		t.Errorf("YAML = %+v", raw)
	}
}

func TestWriteText(t *testing.T) {
	r := New(threeCycles(), sampleIssues(), Options{Root: "/src", Language: "java", MaxCycles: 1})

	var buf bytes.Buffer
	if err := Write(&buf, r, FormatText); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"Root: /src (java)",
		"Cycles: 3",
		"1. a -> b -> a",
		"(showing 1 of 3)",
		"a, b, c",
		"PACKAGE",
		"a/A.java:3 [package-cycle] a.A: Break the package cycle",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output misses %q:\n%s", want, out)
		}
	}
}

func TestWriteTextEmpty(t *testing.T) {
	r := New(analyzer.Analyze(model.New[model.Location]()), nil, Options{})
	out := Text(r)
	if strings.Count(out, "  none\n") != 2 {
		t.Errorf("empty report should print none twice:\n%s", out)
	}
	if strings.Contains(out, "Metrics") {
		t.Errorf("empty report should omit metrics:\n%s", out)
	}
}

func TestWriteInvalidFormat(t *testing.T) {
	r := New(threeCycles(), nil, Options{})
	err := Write(&bytes.Buffer{}, r, "xml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Write(xml) error = %v, want INVALID_FORMAT", err)
	}
}

func TestMetricsTable(t *testing.T) {
	out := MetricsTable([]analyzer.PackageMetrics{
		{Name: "", Classes: 2},
		{Name: "a", Classes: 1, Afferent: 1, Efferent: 2, Instability: 66, CycleIDs: []int{1, 3}},
	})
	for _, want := range []string{"(default)", "66", "1,3"} {
		if !strings.Contains(out, want) {
			t.Errorf("MetricsTable() misses %q:\n%s", want, out)
		}
	}
}
