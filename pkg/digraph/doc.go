// Package digraph enumerates elementary circuits and strongly connected
// components of directed graphs with arbitrary comparable vertices.
//
// # Overview
//
// The package is independent of the package/class model. It works on a
// closed [Graph]: every vertex that appears as an edge endpoint is also a
// vertex of the graph. Graphs are built either incrementally with
// [Graph.AddVertex] and [Graph.AddEdge], or from an adjacency map with
// [FromMap], which rejects maps whose successors are not keys:
//
//	g, err := digraph.FromMap(map[string][]string{
//	    "a": {"b"},
//	    "b": {"a", "c"},
//	    "c": {},
//	}, strings.Compare)
//
// Vertex order is insertion order (or cmp order for FromMap). The order
// decides which vertex anchors each circuit and therefore the order of the
// output, never the set of circuits.
//
// # Elementary Circuits
//
// [CircuitFinder] implements Johnson-style enumeration with blocking and
// deferred unblocking. Every simple cycle is reported exactly once, as the
// sequence of its vertices starting at its earliest vertex in graph order;
// the start is not repeated at the end. A self-loop is a circuit of length one.
//
//	f := digraph.NewCircuitFinder(g)
//	for _, c := range f.Circuits() {
//	    fmt.Println(c)
//	}
//
// The result is computed once and cached. Concurrent callers wait for the
// first computation and receive the same slice. The graph is frozen once
// the computation starts; later [Graph.AddVertex] and [Graph.AddEdge] calls
// fail with [ErrFrozen].
//
// The number of circuits can be exponential in the number of vertices.
// The finder offers no cap or timeout; callers wanting one wrap it.
//
// # Traversal Variants
//
// By default the search recurses once per path vertex. [WithIterative]
// switches to an explicit stack, so path length is bounded by memory rather
// than by goroutine stack growth. [WithComponentScope] first splits the
// graph into strongly connected components and searches each non-trivial
// component on its own; circuits never cross component boundaries, so the
// result set is the same.
//
// # Strongly Connected Components
//
// [StronglyConnectedComponents] implements Tarjan's low-link algorithm with
// an explicit frame stack. [NonTrivial] keeps components that can hold a
// circuit: more than one vertex, or a single vertex with a self-loop.
package digraph
