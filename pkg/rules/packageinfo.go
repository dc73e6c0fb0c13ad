package rules

// missingPackageInfo reports every class of a Java package that has no
// package-info.java. Package-level issues cannot be placed on such packages.
type missingPackageInfo struct{}

func (missingPackageInfo) Key() string        { return KeyMissingPackageInfo }
func (missingPackageInfo) Name() string       { return "Missing package-info.java" }
func (missingPackageInfo) Severity() Severity { return SeverityBlocker }

func (missingPackageInfo) SupportsLanguage(language string) bool { return language == "java" }

func (r missingPackageInfo) Check(ctx *Context) []Issue {
	var issues []Issue
	for _, p := range ctx.Model.Packages() {
		if _, ok := p.External(); ok {
			continue
		}
		for _, c := range p.Classes() {
			issues = append(issues, ctx.registerOn(r, c, "Add a package-info.java to the package.")...)
		}
	}
	return issues
}
