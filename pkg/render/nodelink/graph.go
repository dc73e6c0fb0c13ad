package nodelink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

// graph is the renderer-neutral view shared by the DOT and Mermaid writers.
type graph struct {
	nodes []node
	edges []edge
}

type node struct {
	id      string
	metrics analyzer.PackageMetrics
	onCycle bool
}

type edge struct {
	from, to string
	onCycle  bool
}

func (n node) label(detailed bool, sep string) string {
	name := n.id
	if name == model.DefaultPackage {
		name = "(default)"
	}
	if !detailed {
		return name
	}
	m := n.metrics
	return strings.Join([]string{
		name,
		fmt.Sprintf("Ca: %d  Ce: %d", m.Afferent, m.Efferent),
		fmt.Sprintf("I: %d%%  A: %d%%  D: %d%%", m.Instability, m.Abstractness, m.Distance),
	}, sep)
}

func build[E any](m *model.Model[E], cycles []analyzer.Cycle[E], opts Options) graph {
	members := make(map[string]bool)
	cycleEdges := make(map[[2]string]bool)
	for _, c := range cycles {
		for i := 0; i < c.Len(); i++ {
			from, to := c.At(i).Name(), c.At(i+1).Name()
			members[from] = true
			cycleEdges[[2]string{from, to}] = true
		}
	}

	var metrics map[string]analyzer.PackageMetrics
	if opts.Detailed {
		metrics = analyzer.IndexMetrics(analyzer.ComputeMetrics(m, cycles))
	}

	var g graph
	for _, p := range m.Packages() {
		name := p.Name()
		if opts.CyclesOnly && !members[name] {
			continue
		}
		g.nodes = append(g.nodes, node{id: name, metrics: metrics[name], onCycle: members[name]})
		for _, target := range p.UsesNames() {
			if opts.CyclesOnly && !members[target] {
				continue
			}
			g.edges = append(g.edges, edge{
				from:    name,
				to:      target,
				onCycle: cycleEdges[[2]string{name, target}],
			})
		}
	}
	return g
}
