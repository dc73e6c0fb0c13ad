package rules

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/errors"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

func loc(path string) model.Location { return model.Location{Path: path, Line: 1} }

// cycleModel: a.A -> b.B, a.C -> b.B and b.D, b.B -> a.A. Only package a
// has a location when withPackageInfo is set.
func cycleModel(withPackageInfo bool) *model.Model[model.Location] {
	m := model.New[model.Location]()
	if withPackageInfo {
		m.AddPackage("a", loc("a/package-info.java"))
	}
	m.AddClass("a.A", false, loc("a/A.java")).AddUsage("b.B")
	c := m.AddClass("a.C", false, loc("a/C.java"))
	c.AddUsage("b.B")
	c.AddUsage("b.D")
	m.AddClass("b.B", false, loc("b/B.java")).AddUsage("a.A")
	m.AddClass("b.D", false, loc("b/D.java"))
	return m
}

func newTestContext(m *model.Model[model.Location], lang string, s Settings) *Context {
	return NewContext(m, lang, analyzer.FindCycles(m), s, log.New(io.Discard))
}

func runOnly(ctx *Context, key string) []Issue {
	r, ok := Lookup(Default(), key)
	if !ok {
		panic("unknown rule " + key)
	}
	return Run(ctx, []Rule{r})
}

func targets(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, is := range issues {
		out[i] = is.Target()
	}
	return out
}

func TestPackageCycleMessage(t *testing.T) {
	ctx := newTestContext(cycleModel(false), "java", DefaultSettings())
	issues := runOnly(ctx, KeyPackageCycle)

	if got := targets(issues); !slices.Equal(got, []string{"a.A", "a.C", "b.B"}) {
		t.Fatalf("targets = %v, want [a.A a.C b.B]", got)
	}

	wantA := "Break the package cycle containing the following cycle of packages: a (A references B, C references B, D), b (B references A)"
	wantB := "Break the package cycle containing the following cycle of packages: b (B references A), a (A references B, C references B, D)"
	if issues[0].Message != wantA {
		t.Errorf("message for a = %q, want %q", issues[0].Message, wantA)
	}
	if issues[2].Message != wantB {
		t.Errorf("message for b = %q, want %q", issues[2].Message, wantB)
	}
	if issues[0].Severity != SeverityCritical {
		t.Errorf("Severity = %v, want critical", issues[0].Severity)
	}
	if issues[0].Location.Path != "a/A.java" {
		t.Errorf("Location = %v, want a/A.java", issues[0].Location)
	}
}

func TestIssueModes(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		want     []string
	}{
		{"packages", Settings{IssueMode: IssueModePackages}, []string{"a"}},
		{"fallback", Settings{IssueMode: IssueModeFallback}, []string{"a", "b.B"}},
		{"classes", Settings{IssueMode: IssueModeClasses}, []string{"a.A", "a.C", "b.B"}},
		{"classes first", Settings{IssueMode: IssueModeClasses, ClassMode: ClassModeFirst}, []string{"a.A", "b.B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newTestContext(cycleModel(true), "java", tt.settings)
			got := targets(runOnly(ctx, KeyPackageCycle))
			if !slices.Equal(got, tt.want) {
				t.Errorf("targets = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestThresholdRules(t *testing.T) {
	// p uses q and r, q uses r; every package has a location.
	m := model.New[model.Location]()
	for _, name := range []string{"p", "q", "r"} {
		m.AddPackage(name, loc(name))
	}
	m.AddClass("p.A", true, loc("p/A")).AddUsage("q.B")
	m.AddClass("p.C", false, loc("p/C")).AddUsage("r.D")
	m.AddClass("q.B", false, loc("q/B")).AddUsage("r.D")

	tests := []struct {
		key     string
		maximum int
		want    []string
		message string
	}{
		{KeyAfferentCoupling, 1, []string{"r"}, "Reduce number of packages that use this package (allowed: 1, actual: 2)"},
		{KeyEfferentCoupling, 1, []string{"p"}, "Reduce number of packages used by this package (allowed: 1, actual: 2)"},
		{KeyInstability, 75, []string{"p"}, "Reduce number of packages used by this package to lower instability (allowed: 75%, actual: 100%)"},
		{KeyAbstractness, 40, []string{"p"}, "Reduce number of abstract classes in this package (allowed: 40%, actual: 50%)"},
		{KeyDistance, 70, []string{"r"}, "Distance from main sequence value is too high (100%), consider refactoring the package in order to lower it (values for instability: 0%, abstractness: 0%)."},
		{KeyUnstableDependency, 30, []string{"q", "r"}, "The ratio between unstable dependencies and the total number of dependencies is too high (allowed: 30%, actual: 50%)"},
		{KeyNumberOfClasses, 1, []string{"p"}, "Reduce number of classes in package (allowed: 1, actual: 2)"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := Settings{Maximum: map[string]int{tt.key: tt.maximum}}
			issues := runOnly(newTestContext(m, "go", s), tt.key)
			if got := targets(issues); !slices.Equal(got, tt.want) {
				t.Fatalf("targets = %v, want %v", got, tt.want)
			}
			if issues[0].Message != tt.message {
				t.Errorf("Message = %q, want %q", issues[0].Message, tt.message)
			}
		})
	}
}

func TestThresholdClassSelection(t *testing.T) {
	m := model.New[model.Location]()
	m.AddClass("p.A", true, loc("p/A"))
	m.AddClass("p.C", false, loc("p/C")).AddUsage("q.B")
	m.AddClass("p.E", false, loc("p/E"))
	m.AddClass("q.B", false, loc("q/B"))
	m.AddClass("q.F", false, loc("q/F"))

	tests := []struct {
		key  string
		pkg  string
		want []string
	}{
		{KeyEfferentCoupling, "p", []string{"p.C"}},
		{KeyAfferentCoupling, "q", []string{"q.B"}},
		{KeyAbstractness, "p", []string{"p.A"}},
		{KeyDistance, "p", []string{"p.A", "p.C"}},
		{KeyNumberOfClasses, "p", []string{"p.A", "p.C", "p.E"}},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s := Settings{IssueMode: IssueModeClasses, Maximum: map[string]int{tt.key: 0}}
			var got []string
			for _, is := range runOnly(newTestContext(m, "go", s), tt.key) {
				if is.Package == tt.pkg {
					got = append(got, is.Target())
				}
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("targets in %s = %v, want %v", tt.pkg, got, tt.want)
			}
		})
	}
}

func TestMissingPackageInfo(t *testing.T) {
	m := cycleModel(true)

	issues := runOnly(newTestContext(m, "java", DefaultSettings()), KeyMissingPackageInfo)
	if got := targets(issues); !slices.Equal(got, []string{"b.B", "b.D"}) {
		t.Errorf("targets = %v, want [b.B b.D]", got)
	}
	if len(issues) > 0 && issues[0].Severity != SeverityBlocker {
		t.Errorf("Severity = %v, want blocker", issues[0].Severity)
	}

	if got := runOnly(newTestContext(m, "go", DefaultSettings()), KeyMissingPackageInfo); len(got) != 0 {
		t.Errorf("rule ran for go: %v", got)
	}
}

func TestTargetWithoutLocationIsSkipped(t *testing.T) {
	m := model.New[model.Location]()
	m.AddClass("a.A", false, loc("a/A")).AddUsage("b.B") // b.B has no location
	m.AddClass("b.X", false, loc("b/X"))
	b, _ := m.Class(model.Name{Package: "b", Class: "B"})
	b.AddUsage("a.A")

	issues := runOnly(newTestContext(m, "java", DefaultSettings()), KeyPackageCycle)
	if got := targets(issues); !slices.Equal(got, []string{"a.A"}) {
		t.Errorf("targets = %v, want [a.A]", got)
	}
}

func TestRunDisabledAndOrder(t *testing.T) {
	m := cycleModel(false)
	s := Settings{Disabled: []string{KeyMissingPackageInfo}}

	issues := Run(newTestContext(m, "java", s), Default())
	for _, is := range issues {
		if is.Rule == KeyMissingPackageInfo {
			t.Fatalf("disabled rule reported %v", is)
		}
	}
	if !slices.IsSortedFunc(issues, func(a, b Issue) int {
		if a.Rule != b.Rule {
			if a.Rule < b.Rule {
				return -1
			}
			return 1
		}
		if a.Target() < b.Target() {
			return -1
		}
		if a.Target() > b.Target() {
			return 1
		}
		return 0
	}) {
		t.Error("issues are not sorted by rule and target")
	}
	if len(issues) == 0 {
		t.Error("expected package-cycle issues")
	}
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"defaults", DefaultSettings(), false},
		{"zero", Settings{}, false},
		{"bad issue mode", Settings{IssueMode: "files"}, true},
		{"bad class mode", Settings{ClassMode: "last"}, true},
		{"negative maximum", Settings{Maximum: map[string]int{KeyInstability: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestDefaultRuleSet(t *testing.T) {
	keys := make([]string, 0)
	for _, r := range Default() {
		keys = append(keys, r.Key())
		if r.Name() == "" {
			t.Errorf("rule %s has no name", r.Key())
		}
	}
	want := []string{
		KeyPackageCycle, KeyAfferentCoupling, KeyEfferentCoupling, KeyInstability,
		KeyAbstractness, KeyDistance, KeyUnstableDependency, KeyNumberOfClasses,
		KeyMissingPackageInfo,
	}
	if !slices.Equal(keys, want) {
		t.Errorf("Default() keys = %v, want %v", keys, want)
	}
}
