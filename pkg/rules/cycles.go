package rules

import (
	"strings"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

// packageCycle reports every package on a package dependency cycle, once
// per cycle.
type packageCycle struct{}

func (packageCycle) Key() string        { return KeyPackageCycle }
func (packageCycle) Name() string       { return "Package Dependency Cycles" }
func (packageCycle) Severity() Severity { return SeverityCritical }

func (r packageCycle) Check(ctx *Context) []Issue {
	ctx.Logger.Debug("package cycles", "count", len(ctx.Cycles))
	var issues []Issue
	for _, cycle := range ctx.Cycles {
		for i, p := range cycle.Packages() {
			next := cycle.At(i + 1)
			message := cycleMessage(cycle.RotateTo(p))
			issues = append(issues, ctx.register(r, p, classesUsing(p, next), message)...)
		}
	}
	return issues
}

// cycleMessage describes the cycle starting at its first package, listing
// for every step which classes reference which classes of the next package:
//
//	Break the package cycle containing the following cycle of packages:
//	a (A references B), b (B references A)
func cycleMessage(cycle analyzer.Cycle[model.Location]) string {
	var sb strings.Builder
	sb.WriteString("Break the package cycle containing the following cycle of packages: ")

	pkgs := cycle.Packages()
	for i, from := range pkgs {
		to := cycle.At(i + 1)
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(from.Name())
		sb.WriteString(" (")

		first := true
		for _, c := range from.Classes() {
			refs := usagesIn(c, to)
			if len(refs) == 0 {
				continue
			}
			if !first {
				sb.WriteString(", ")
			}
			first = false
			sb.WriteString(c.Name())
			sb.WriteString(" references ")
			sb.WriteString(strings.Join(refs, ", "))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// usagesIn returns the names of the classes of target that c uses.
func usagesIn(c *class, target *pkg) []string {
	var out []string
	for _, u := range c.Uses() {
		if u.Parent().Equal(target) {
			out = append(out, u.Name())
		}
	}
	return out
}
