package analyzer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/pkgcycle/pkg/digraph"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

// Option configures cycle detection.
type Option func(*options)

type options struct {
	finder []digraph.Option
}

// WithIterative uses the explicit-stack circuit search.
func WithIterative() Option {
	return func(o *options) { o.finder = append(o.finder, digraph.WithIterative()) }
}

// WithComponentScope runs the circuit search per strongly connected component.
func WithComponentScope() Option {
	return func(o *options) { o.finder = append(o.finder, digraph.WithComponentScope()) }
}

// PackageGraph returns the package-level usage graph of m with vertices in
// package name order.
func PackageGraph[E any](m *model.Model[E]) *digraph.Graph[string] {
	g := digraph.New[string]()
	pkgs := m.Packages()
	for _, p := range pkgs {
		mustNot(g.AddVertex(p.Name()))
	}
	for _, p := range pkgs {
		for _, target := range p.UsesNames() {
			mustNot(g.AddEdge(p.Name(), target))
		}
	}
	return g
}

// FindCycles returns every elementary cycle of the package usage graph.
// The result is empty, never nil, when no package cycle exists.
func FindCycles[E any](m *model.Model[E], opts ...Option) []Cycle[E] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	circuits := digraph.NewCircuitFinder(PackageGraph(m), o.finder...).Circuits()
	cycles := make([]Cycle[E], len(circuits))
	for i, circuit := range circuits {
		cycles[i] = Cycle[E]{packages: resolve(m, circuit)}
	}
	return cycles
}

// Components returns the non-trivial strongly connected components of the
// package usage graph, each in name order, sorted by their first package.
func Components[E any](m *model.Model[E]) [][]*model.Package[E] {
	g := PackageGraph(m)
	comps := digraph.NonTrivial(g, digraph.StronglyConnectedComponents(g))
	slices.SortFunc(comps, func(a, b []string) int { return strings.Compare(a[0], b[0]) })

	out := make([][]*model.Package[E], len(comps))
	for i, comp := range comps {
		out[i] = resolve(m, comp)
	}
	return out
}

// Result bundles everything derived from one model.
type Result[E any] struct {
	Cycles     []Cycle[E]
	Components [][]*model.Package[E]
	Metrics    []PackageMetrics
	Summary    Summary
}

// Analyze runs cycle detection, component detection and metrics on m.
func Analyze[E any](m *model.Model[E], opts ...Option) *Result[E] {
	cycles := FindCycles(m, opts...)
	return &Result[E]{
		Cycles:     cycles,
		Components: Components(m),
		Metrics:    ComputeMetrics(m, cycles),
		Summary:    Summarize(m, cycles),
	}
}

// CycleNames converts cycles to their package names.
func CycleNames[E any](cycles []Cycle[E]) [][]string {
	out := make([][]string, len(cycles))
	for i, c := range cycles {
		out[i] = c.Names()
	}
	return out
}

// ComponentNames converts components to their package names.
func ComponentNames[E any](comps [][]*model.Package[E]) [][]string {
	out := make([][]string, len(comps))
	for i, comp := range comps {
		out[i] = make([]string, len(comp))
		for j, p := range comp {
			out[i][j] = p.Name()
		}
	}
	return out
}

func resolve[E any](m *model.Model[E], names []string) []*model.Package[E] {
	out := make([]*model.Package[E], len(names))
	for i, name := range names {
		p, ok := m.Package(name)
		if !ok {
			panic(fmt.Sprintf("analyzer: package %q vanished from model", name))
		}
		out[i] = p
	}
	return out
}

// mustNot panics on errors that a model-derived graph cannot produce.
func mustNot(err error) {
	if err != nil {
		panic(fmt.Sprintf("analyzer: building package graph: %v", err))
	}
}
