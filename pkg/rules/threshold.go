package rules

import (
	"fmt"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
)

// thresholdRule reports packages whose measured value exceeds a maximum.
type thresholdRule struct {
	key      string
	name     string
	severity Severity
	def      int

	// measure returns the value compared against the maximum.
	measure func(pm analyzer.PackageMetrics) int
	// classes selects the classes an issue is placed on in class mode.
	classes func(p *pkg) []*class
	// message formats the issue text.
	message func(maximum int, pm analyzer.PackageMetrics) string
}

func (r thresholdRule) Key() string        { return r.key }
func (r thresholdRule) Name() string       { return r.name }
func (r thresholdRule) Severity() Severity { return r.severity }

// DefaultMaximum returns the maximum used when Settings has no override.
func (r thresholdRule) DefaultMaximum() int { return r.def }

func (r thresholdRule) Check(ctx *Context) []Issue {
	maximum := ctx.Settings.MaximumFor(r.key, r.def)
	var issues []Issue
	for _, p := range ctx.Model.Packages() {
		pm := ctx.Metrics[p.Name()]
		value := r.measure(pm)
		ctx.Logger.Debug("checking package", "rule", r.key, "package", p.Name(), "value", value, "maximum", maximum)
		if value <= maximum {
			continue
		}
		issues = append(issues, ctx.register(r, p, r.classes(p), r.message(maximum, pm))...)
	}
	return issues
}

func afferentCoupling() Rule {
	return thresholdRule{
		key:      KeyAfferentCoupling,
		name:     "Afferent Coupling",
		severity: SeverityMajor,
		def:      25,
		measure:  func(pm analyzer.PackageMetrics) int { return pm.Afferent },
		classes:  classesWithAfferentUsage,
		message: func(maximum int, pm analyzer.PackageMetrics) string {
			return fmt.Sprintf("Reduce number of packages that use this package (allowed: %d, actual: %d)",
				maximum, pm.Afferent)
		},
	}
}

func efferentCoupling() Rule {
	return thresholdRule{
		key:      KeyEfferentCoupling,
		name:     "Efferent Coupling",
		severity: SeverityMajor,
		def:      25,
		measure:  func(pm analyzer.PackageMetrics) int { return pm.Efferent },
		classes:  classesWithEfferentUsage,
		message: func(maximum int, pm analyzer.PackageMetrics) string {
			return fmt.Sprintf("Reduce number of packages used by this package (allowed: %d, actual: %d)",
				maximum, pm.Efferent)
		},
	}
}

func instability() Rule {
	return thresholdRule{
		key:      KeyInstability,
		name:     "Instability",
		severity: SeverityMajor,
		def:      75,
		measure:  func(pm analyzer.PackageMetrics) int { return pm.Instability },
		classes:  classesWithEfferentUsage,
		message: func(maximum int, pm analyzer.PackageMetrics) string {
			return fmt.Sprintf("Reduce number of packages used by this package to lower instability (allowed: %d%%, actual: %d%%)",
				maximum, pm.Instability)
		},
	}
}

func abstractness() Rule {
	return thresholdRule{
		key:      KeyAbstractness,
		name:     "Abstractness",
		severity: SeverityMajor,
		def:      75,
		measure:  func(pm analyzer.PackageMetrics) int { return pm.Abstractness },
		classes:  abstractClasses,
		message: func(maximum int, pm analyzer.PackageMetrics) string {
			return fmt.Sprintf("Reduce number of abstract classes in this package (allowed: %d%%, actual: %d%%)",
				maximum, pm.Abstractness)
		},
	}
}

func distance() Rule {
	return thresholdRule{
		key:      KeyDistance,
		name:     "Distance From Main Sequence",
		severity: SeverityMajor,
		def:      70,
		measure:  func(pm analyzer.PackageMetrics) int { return pm.Distance },
		classes:  abstractOrEfferentClasses,
		message: func(_ int, pm analyzer.PackageMetrics) string {
			return fmt.Sprintf("Distance from main sequence value is too high (%d%%), consider refactoring the package in order to lower it (values for instability: %d%%, abstractness: %d%%).",
				pm.Distance, pm.Instability, pm.Abstractness)
		},
	}
}

func unstableDependency() Rule {
	return thresholdRule{
		key:      KeyUnstableDependency,
		name:     "Unstable Dependency",
		severity: SeverityMajor,
		def:      30,
		measure:  func(pm analyzer.PackageMetrics) int { return pm.UnstableDependencyRatio },
		classes:  classesWithAfferentUsage,
		message: func(maximum int, pm analyzer.PackageMetrics) string {
			return fmt.Sprintf("The ratio between unstable dependencies and the total number of dependencies is too high (allowed: %d%%, actual: %d%%)",
				maximum, pm.UnstableDependencyRatio)
		},
	}
}

func numberOfClasses() Rule {
	return thresholdRule{
		key:      KeyNumberOfClasses,
		name:     "Number of Classes and Interfaces",
		severity: SeverityMajor,
		def:      50,
		measure:  func(pm analyzer.PackageMetrics) int { return pm.Classes },
		classes:  func(p *pkg) []*class { return p.Classes() },
		message: func(maximum int, pm analyzer.PackageMetrics) string {
			return fmt.Sprintf("Reduce number of classes in package (allowed: %d, actual: %d)",
				maximum, pm.Classes)
		},
	}
}

// abstractOrEfferentClasses selects abstract classes and classes using
// another package, in name order.
func abstractOrEfferentClasses(p *pkg) []*class {
	efferent := make(map[string]bool)
	for _, c := range classesWithEfferentUsage(p) {
		efferent[c.Name()] = true
	}
	var out []*class
	for _, c := range p.Classes() {
		if c.IsAbstract() || efferent[c.Name()] {
			out = append(out, c)
		}
	}
	return out
}
