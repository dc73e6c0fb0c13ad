package nodelink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pkgcycle/pkg/analyzer"
	"github.com/matzehuels/pkgcycle/pkg/model"
)

// ToMermaid converts the package graph of m to a Mermaid flowchart for
// embedding in markdown. Package names are not valid Mermaid identifiers,
// so nodes are numbered in package order and labelled with their names.
func ToMermaid[E any](m *model.Model[E], cycles []analyzer.Cycle[E], opts Options) string {
	g := build(m, cycles, opts)

	ids := make(map[string]string, len(g.nodes))
	var b strings.Builder
	b.WriteString("flowchart TB\n")
	b.WriteString("  classDef cycle fill:#f8d0d0,stroke:#c03030\n")

	var onCycle []string
	for i, n := range g.nodes {
		id := fmt.Sprintf("n%d", i)
		ids[n.id] = id
		fmt.Fprintf(&b, "  %s[\"%s\"]\n", id, escapeMermaid(n.label(opts.Detailed, "<br/>")))
		if n.onCycle {
			onCycle = append(onCycle, id)
		}
	}

	var cycleLinks []string
	for i, e := range g.edges {
		fmt.Fprintf(&b, "  %s --> %s\n", ids[e.from], ids[e.to])
		if e.onCycle {
			cycleLinks = append(cycleLinks, fmt.Sprint(i))
		}
	}

	if len(onCycle) > 0 {
		fmt.Fprintf(&b, "  class %s cycle\n", strings.Join(onCycle, ","))
	}
	if len(cycleLinks) > 0 {
		fmt.Fprintf(&b, "  linkStyle %s stroke:#c03030,stroke-width:2px\n", strings.Join(cycleLinks, ","))
	}
	return b.String()
}

func escapeMermaid(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}
