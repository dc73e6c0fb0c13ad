package rules

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

// Severity ranks issues.
type Severity string

const (
	SeverityBlocker  Severity = "blocker"
	SeverityCritical Severity = "critical"
	SeverityMajor    Severity = "major"
	SeverityMinor    Severity = "minor"
	SeverityInfo     Severity = "info"
)

// Severities lists every severity, most severe first.
var Severities = []Severity{SeverityBlocker, SeverityCritical, SeverityMajor, SeverityMinor, SeverityInfo}

// Rule keys.
const (
	KeyPackageCycle       = "package-cycle"
	KeyAfferentCoupling   = "afferent-coupling"
	KeyEfferentCoupling   = "efferent-coupling"
	KeyInstability        = "instability"
	KeyAbstractness       = "abstractness"
	KeyDistance           = "distanceFromMainSequence"
	KeyUnstableDependency = "UnstableDependency"
	KeyNumberOfClasses    = "number-of-classes-and-interfaces"
	KeyMissingPackageInfo = "missing-package-info"
)

// Rule is a single design check.
type Rule interface {
	Key() string
	Name() string
	Severity() Severity
	Check(ctx *Context) []Issue
}

// LanguageRule is implemented by rules that only apply to some languages.
type LanguageRule interface {
	SupportsLanguage(language string) bool
}

// Issue is one rule violation at one location.
type Issue struct {
	Rule     string         `json:"rule" yaml:"rule" bson:"rule"`
	Severity Severity       `json:"severity" yaml:"severity" bson:"severity"`
	Package  string         `json:"package" yaml:"package" bson:"package"`
	Class    string         `json:"class,omitempty" yaml:"class,omitempty" bson:"class,omitempty"`
	Location model.Location `json:"location" yaml:"location" bson:"location"`
	Message  string         `json:"message" yaml:"message" bson:"message"`
}

// Target returns the qualified class name, or the package name for
// package-level issues.
func (i Issue) Target() string {
	if i.Class == "" {
		return i.Package
	}
	return model.Name{Package: i.Package, Class: i.Class}.String()
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: [%s] %s: %s", i.Location, i.Rule, i.Target(), i.Message)
}

// Context is the input shared by all rules of one run.
type Context struct {
	Model    *model.Model[model.Location]
	Language string
	Cycles   []analyzer.Cycle[model.Location]
	Metrics  map[string]analyzer.PackageMetrics
	Settings Settings
	Logger   *log.Logger
}

// NewContext computes metrics for m and returns a ready context.
// A nil logger uses log.Default().
func NewContext(m *model.Model[model.Location], language string, cycles []analyzer.Cycle[model.Location], settings Settings, logger *log.Logger) *Context {
	if logger == nil {
		logger = log.Default()
	}
	return &Context{
		Model:    m,
		Language: language,
		Cycles:   cycles,
		Metrics:  analyzer.IndexMetrics(analyzer.ComputeMetrics(m, cycles)),
		Settings: settings.WithDefaults(),
		Logger:   logger,
	}
}

// Default returns every rule.
func Default() []Rule {
	return []Rule{
		packageCycle{},
		afferentCoupling(),
		efferentCoupling(),
		instability(),
		abstractness(),
		distance(),
		unstableDependency(),
		numberOfClasses(),
		missingPackageInfo{},
	}
}

// Lookup returns the rule with the given key from rs.
func Lookup(rs []Rule, key string) (Rule, bool) {
	i := slices.IndexFunc(rs, func(r Rule) bool { return r.Key() == key })
	if i < 0 {
		return nil, false
	}
	return rs[i], true
}

// Run checks every enabled rule that supports the context language and
// returns the issues ordered by rule key, then target.
func Run(ctx *Context, rs []Rule) []Issue {
	issues := make([]Issue, 0)
	for _, r := range rs {
		if !ctx.Settings.Enabled(r.Key()) {
			ctx.Logger.Debug("rule disabled", "rule", r.Key())
			continue
		}
		if lr, ok := r.(LanguageRule); ok && !lr.SupportsLanguage(ctx.Language) {
			ctx.Logger.Debug("rule does not support language", "rule", r.Key(), "language", ctx.Language)
			continue
		}
		found := r.Check(ctx)
		ctx.Logger.Debug("rule checked", "rule", r.Key(), "issues", len(found))
		issues = append(issues, found...)
	}

	slices.SortStableFunc(issues, func(a, b Issue) int {
		return cmp.Or(
			cmp.Compare(a.Rule, b.Rule),
			cmp.Compare(a.Target(), b.Target()),
		)
	})
	return issues
}
