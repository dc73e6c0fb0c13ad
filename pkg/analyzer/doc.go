// Package analyzer turns a package/class model into cycles, components and
// package design metrics.
//
// # Overview
//
// The analyzer is the adaptation layer between [model.Model] and the generic
// [digraph] package. It derives the package-level graph (packages as
// vertices, derived package usage as edges), runs the circuit finder on it
// and wraps each circuit as an immutable [Cycle].
//
//	cycles := analyzer.FindCycles(m)
//	for _, c := range cycles {
//	    fmt.Println(c) // api -> store -> api
//	}
//
// The package graph is always closed because usage targets are materialized
// as packages by the model. Packages are added in name order, so output is
// reproducible for a given model.
//
// # Metrics
//
// [ComputeMetrics] derives the classic package metrics for every package:
// afferent and efferent coupling, instability, abstractness, distance from
// the main sequence and the unstable dependency ratio. Percentages use
// integer division, e.g. instability is Ce*100/(Ca+Ce).
//
// [Analyze] bundles cycles, components, metrics and a graph summary into a
// single [Result].
//
// [model.Model]: github.com/matzehuels/pkgcycle/pkg/model.Model
// [digraph]: github.com/matzehuels/pkgcycle/pkg/digraph
package analyzer
