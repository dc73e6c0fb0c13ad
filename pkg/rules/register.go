package rules

import "github.com/matzehuels/pkgcycle/pkg/model"

type (
	pkg   = model.Package[model.Location]
	class = model.Class[model.Location]
)

// register places an issue for p according to the issue and class modes.
// classes are the classes relevant to the violation, in name order.
func (ctx *Context) register(r Rule, p *pkg, classes []*class, message string) []Issue {
	s := ctx.Settings
	if s.onPackage() {
		if loc, ok := p.External(); ok {
			return []Issue{newIssue(r, p.Name(), "", loc, message)}
		}
		if s.IssueMode == IssueModePackages {
			ctx.warnNoLocation(r, p.Name())
			return nil
		}
	}
	if !s.onClasses() {
		return nil
	}

	if s.ClassMode == ClassModeFirst && len(classes) > 1 {
		classes = classes[:1]
	}
	var out []Issue
	for _, c := range classes {
		out = append(out, ctx.registerOn(r, c, message)...)
	}
	return out
}

// registerOn places an issue directly on class c.
func (ctx *Context) registerOn(r Rule, c *class, message string) []Issue {
	loc, ok := c.External()
	if !ok {
		ctx.warnNoLocation(r, c.QualifiedName())
		return nil
	}
	return []Issue{newIssue(r, c.Parent().Name(), c.Name(), loc, message)}
}

func (ctx *Context) warnNoLocation(r Rule, target string) {
	ctx.Logger.Warn("rule triggered, but target has no location to register issues",
		"rule", r.Key(), "target", target)
}

func newIssue(r Rule, pkgName, className string, loc model.Location, message string) Issue {
	return Issue{
		Rule:     r.Key(),
		Severity: r.Severity(),
		Package:  pkgName,
		Class:    className,
		Location: loc,
		Message:  message,
	}
}

// classesWithAfferentUsage selects classes used from another package.
func classesWithAfferentUsage(p *pkg) []*class {
	var out []*class
	for _, c := range p.Classes() {
		for _, u := range c.UsedBy() {
			if !u.Parent().Equal(p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// classesWithEfferentUsage selects classes using another package.
func classesWithEfferentUsage(p *pkg) []*class {
	var out []*class
	for _, c := range p.Classes() {
		for _, u := range c.Uses() {
			if !u.Parent().Equal(p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// abstractClasses selects abstract classes.
func abstractClasses(p *pkg) []*class {
	var out []*class
	for _, c := range p.Classes() {
		if c.IsAbstract() {
			out = append(out, c)
		}
	}
	return out
}

// classesUsing selects classes of p that use a class of target.
func classesUsing(p, target *pkg) []*class {
	var out []*class
	for _, c := range p.Classes() {
		for _, u := range c.Uses() {
			if u.Parent().Equal(target) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
