// Package rules checks package design rules against an analyzed model and
// produces issues.
//
// # Rules
//
// [Default] returns the full rule set:
//
//   - package-cycle: every package on a dependency cycle
//   - afferent-coupling, efferent-coupling: too many users or dependencies
//   - instability, abstractness, distanceFromMainSequence: metric thresholds
//   - UnstableDependency: too many users that are less stable than the package
//   - number-of-classes-and-interfaces: oversized packages
//   - missing-package-info: Java packages without package-info.java
//
// Threshold rules read their maximum from [Settings.Maximum], falling back to
// the rule's default.
//
// # Issue Placement
//
// A rule violation belongs to a package, but issues need a source location.
// [IssueMode] decides where an issue lands:
//
//   - packages: on the package location only
//   - fallback: on the package location, or on the relevant classes when the
//     package has none
//   - classes: on the relevant classes only
//
// [ClassMode] "first" keeps only the first relevant class by name. Targets
// without a location are logged at warn level and skipped.
//
// # Usage
//
//	ctx := rules.NewContext(m, "java", cycles, rules.DefaultSettings(), logger)
//	for _, issue := range rules.Run(ctx, rules.Default()) {
//	    fmt.Println(issue)
//	}
package rules
