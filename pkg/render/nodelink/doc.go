// Package nodelink renders package dependency graphs as node-link diagrams.
//
// # Overview
//
// Packages appear as boxes connected by arrows for every package usage.
// Packages that take part in a cycle are filled red, and so are the edges
// that close a cycle, which makes tangles visible at a glance.
//
// # Usage
//
// Convert a model to DOT format, then render to SVG:
//
//	cycles := analyzer.FindCycles(m)
//	dot := nodelink.ToDOT(m, cycles, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For markdown documents, [ToMermaid] emits a Mermaid flowchart instead.
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: node labels include Ca, Ce, instability, abstractness and distance
//   - CyclesOnly: only packages on a cycle and the edges between them are drawn
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
