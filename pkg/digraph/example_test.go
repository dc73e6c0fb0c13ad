package digraph_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pkgcycle/pkg/digraph"
)

func ExampleElementaryCircuits() {
	circuits, err := digraph.ElementaryCircuits(map[string][]string{
		"api":    {"store"},
		"store":  {"model", "api"},
		"model":  {"store"},
		"render": {"model"},
	}, strings.Compare)
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, c := range circuits {
		fmt.Println(strings.Join(c, " -> "))
	}
	// Output:
	// api -> store
	// model -> store
}

func ExampleStronglyConnectedComponents() {
	g := digraph.New[int]()
	for v := range 4 {
		_ = g.AddVertex(v)
	}
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 0)
	_ = g.AddEdge(1, 2)
	_ = g.AddEdge(3, 3)

	for _, c := range digraph.NonTrivial(g, digraph.StronglyConnectedComponents(g)) {
		fmt.Println(c)
	}
	// Output:
	// [0 1]
	// [3]
}
