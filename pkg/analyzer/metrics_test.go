package analyzer

import (
	"slices"
	"testing"

	"github.com/matzehuels/pkgcycle/pkg/model"
)

// layeredModel: p uses q and r, q uses r. p.A is abstract.
func layeredModel() *model.Model[string] {
	m := model.New[string]()
	m.AddClass("p.A", true, "").AddUsage("q.B")
	m.AddClass("p.C", false, "").AddUsage("r.D")
	m.AddClass("q.B", false, "").AddUsage("r.D")
	return m
}

func TestComputeMetrics(t *testing.T) {
	got := ComputeMetrics(layeredModel(), nil)

	want := []PackageMetrics{
		{Name: "p", Classes: 2, AbstractClasses: 1, Afferent: 0, Efferent: 2, Instability: 100, Abstractness: 50, Distance: 50, Degree: 2},
		{Name: "q", Classes: 1, Afferent: 1, Efferent: 1, Instability: 50, Distance: 50, UnstableDependencies: 1, UnstableDependencyRatio: 50, Degree: 2},
		{Name: "r", Classes: 1, Afferent: 2, Efferent: 0, Instability: 0, Distance: 100, UnstableDependencies: 2, UnstableDependencyRatio: 100, Degree: 2},
	}

	if len(got) != len(want) {
		t.Fatalf("len(ComputeMetrics()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		g.CycleIDs = nil
		if !equalMetrics(g, w) {
			t.Errorf("ComputeMetrics()[%d] = %+v, want %+v", i, g, w)
		}
	}
}

func equalMetrics(a, b PackageMetrics) bool {
	return a.Name == b.Name &&
		a.Classes == b.Classes &&
		a.AbstractClasses == b.AbstractClasses &&
		a.Afferent == b.Afferent &&
		a.Efferent == b.Efferent &&
		a.Instability == b.Instability &&
		a.Abstractness == b.Abstractness &&
		a.Distance == b.Distance &&
		a.UnstableDependencies == b.UnstableDependencies &&
		a.UnstableDependencyRatio == b.UnstableDependencyRatio &&
		a.Degree == b.Degree &&
		slices.Equal(a.CycleIDs, b.CycleIDs)
}

func TestInstabilityUncoupled(t *testing.T) {
	m := model.New[string]()
	p := m.AddPackage("lonely", "")

	if got := Instability(p); got != 0 {
		t.Errorf("Instability() = %d, want 0", got)
	}
	if got := Abstractness(p); got != 0 {
		t.Errorf("Abstractness() = %d, want 0", got)
	}
	if got := Distance(p); got != 100 {
		t.Errorf("Distance() = %d, want 100", got)
	}
	if count, ratio := UnstableDependencies(p); count != 0 || ratio != 0 {
		t.Errorf("UnstableDependencies() = %d, %d, want 0, 0", count, ratio)
	}
}

func TestIntegerPercentages(t *testing.T) {
	m := model.New[string]()
	m.AddClass("p.A", true, "").AddUsage("q.Q")
	m.AddClass("p.B", false, "")
	m.AddClass("p.C", false, "")
	m.AddClass("r.R", false, "").AddUsage("p.A")
	m.AddClass("s.S", false, "").AddUsage("p.A")

	p, _ := m.Package("p")
	if got := Instability(p); got != 33 {
		t.Errorf("Instability() = %d, want 33", got)
	}
	if got := Abstractness(p); got != 33 {
		t.Errorf("Abstractness() = %d, want 33", got)
	}
	if got := Distance(p); got != 34 {
		t.Errorf("Distance() = %d, want 34", got)
	}
}

func TestCycleIDs(t *testing.T) {
	m := mutualModel()
	ms := IndexMetrics(ComputeMetrics(m, FindCycles(m)))

	tests := []struct {
		pkg  string
		want []int
	}{
		{"a", []int{1, 2, 3, 4}},
		{"b", []int{1, 2, 4, 5}},
		{"c", []int{2, 3, 4, 5}},
	}
	for _, tt := range tests {
		if got := ms[tt.pkg].CycleIDs; !slices.Equal(got, tt.want) {
			t.Errorf("CycleIDs(%s) = %v, want %v", tt.pkg, got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	m := layeredModel()
	s := Summarize(m, nil)

	want := Summary{Packages: 3, Classes: 4, Edges: 3, Cycles: 0, AverageDegree: 2}
	if s != want {
		t.Errorf("Summarize() = %+v, want %+v", s, want)
	}

	if got := Summarize(model.New[string](), nil); got != (Summary{}) {
		t.Errorf("Summarize(empty) = %+v, want zero", got)
	}
}
