package digraph

import (
	"slices"
	"testing"
)

func TestStronglyConnectedComponents(t *testing.T) {
	g := mustGraph(t, map[int][]int{
		1: {2},
		2: {3},
		3: {1},
		4: {3, 5},
		5: {4, 6},
		6: {3, 7},
		7: {6},
		8: {5, 7, 8},
	})

	comps := StronglyConnectedComponents(g)
	got := slices.Clone(comps)
	slices.SortFunc(got, slices.Compare)
	want := [][]int{{1, 2, 3}, {4, 5}, {6, 7}, {8}}
	if !equalCircuits(got, want) {
		t.Errorf("StronglyConnectedComponents() = %v, want %v", comps, want)
	}

	// A component is completed before the components that reach it.
	pos := map[int]int{}
	for i, c := range comps {
		for _, v := range c {
			pos[v] = i
		}
	}
	if pos[1] > pos[6] || pos[6] > pos[4] || pos[4] > pos[8] {
		t.Errorf("completion order violated: %v", comps)
	}
}

func TestStronglyConnectedComponentsSingletons(t *testing.T) {
	g := mustGraph(t, map[string][]string{"a": {"b"}, "b": {"c"}, "c": {}})

	comps := StronglyConnectedComponents(g)
	if len(comps) != 3 {
		t.Fatalf("len(comps) = %d, want 3", len(comps))
	}
	if len(NonTrivial(g, comps)) != 0 {
		t.Errorf("NonTrivial() = %v, want none", NonTrivial(g, comps))
	}
}

func TestNonTrivial(t *testing.T) {
	g := mustGraph(t, map[string][]string{
		"a": {"a"},
		"b": {"c"},
		"c": {"b"},
		"d": {"a"},
	})

	got := NonTrivial(g, StronglyConnectedComponents(g))
	slices.SortFunc(got, slices.Compare)
	want := [][]string{{"a"}, {"b", "c"}}
	if !equalCircuits(got, want) {
		t.Errorf("NonTrivial() = %v, want %v", got, want)
	}
}

func TestStronglyConnectedComponentsDeepChain(t *testing.T) {
	const n = 50000
	g := New[int]()
	for i := range n {
		_ = g.AddVertex(i)
	}
	for i := 1; i < n; i++ {
		_ = g.AddEdge(i-1, i)
	}
	_ = g.AddEdge(n-1, 0)

	comps := StronglyConnectedComponents(g)
	if len(comps) != 1 || len(comps[0]) != n {
		t.Errorf("got %d components, want a single component of %d", len(comps), n)
	}
	if comps[0][0] != 0 || comps[0][n-1] != n-1 {
		t.Error("component vertices should keep graph order")
	}
}

func TestSubgraph(t *testing.T) {
	g := mustGraph(t, map[string][]string{
		"a": {"b", "c"},
		"b": {"a"},
		"c": {"a"},
	})

	sub := g.Subgraph([]string{"b", "a", "zz"})
	if got := sub.Vertices(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Vertices() = %v, want [a b]", got)
	}
	if sub.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", sub.EdgeCount())
	}
	if sub.HasEdge("a", "c") {
		t.Error("edge to a removed vertex survived")
	}
}
