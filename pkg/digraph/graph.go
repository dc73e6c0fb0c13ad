package digraph

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var (
	// ErrUnknownSourceVertex is returned by [Graph.AddEdge] when the source
	// vertex was never added.
	ErrUnknownSourceVertex = errors.New("unknown source vertex")

	// ErrUnknownTargetVertex is returned by [Graph.AddEdge] when the target
	// vertex was never added.
	ErrUnknownTargetVertex = errors.New("unknown target vertex")

	// ErrNotClosed is matched by errors from [FromMap] when a successor is
	// not itself a key of the map.
	ErrNotClosed = errors.New("graph is not closed")

	// ErrFrozen is returned when a graph is mutated after a finder started
	// computing on it.
	ErrFrozen = errors.New("graph is frozen")
)

// UnknownVertexError reports an edge whose target is not a vertex.
type UnknownVertexError[V comparable] struct {
	From V
	To   V
}

func (e *UnknownVertexError[V]) Error() string {
	return fmt.Sprintf("%v: edge %v -> %v targets a missing vertex", ErrNotClosed, e.From, e.To)
}

// Unwrap lets errors.Is match ErrNotClosed.
func (e *UnknownVertexError[V]) Unwrap() error { return ErrNotClosed }

// Graph is a closed directed graph with a stable vertex order.
// Parallel edges collapse into one.
//
// The zero value is not usable - use New or FromMap.
// Graph is not safe for concurrent mutation.
type Graph[V comparable] struct {
	vertices []V
	index    map[V]int
	succ     [][]int
	edges    int
	frozen   bool
}

// New creates an empty graph.
func New[V comparable]() *Graph[V] {
	return &Graph[V]{index: make(map[V]int)}
}

// FromMap builds a graph from an adjacency map. Every successor must also be
// a key; otherwise FromMap returns an *UnknownVertexError.
//
// When cmp is non-nil, vertices and successor lists are added in cmp order,
// which makes circuit output reproducible. With a nil cmp the order follows
// map iteration and only the set of circuits is stable.
func FromMap[V comparable](adj map[V][]V, cmp func(a, b V) int) (*Graph[V], error) {
	keys := slices.Collect(maps.Keys(adj))
	if cmp != nil {
		slices.SortFunc(keys, cmp)
	}

	g := New[V]()
	for _, k := range keys {
		g.addVertex(k)
	}
	for _, k := range keys {
		succ := adj[k]
		if cmp != nil {
			succ = slices.SortedFunc(slices.Values(succ), cmp)
		}
		for _, w := range succ {
			if _, ok := g.index[w]; !ok {
				return nil, &UnknownVertexError[V]{From: k, To: w}
			}
			g.addEdge(g.index[k], g.index[w])
		}
	}
	return g, nil
}

// AddVertex adds v if it is not present yet.
func (g *Graph[V]) AddVertex(v V) error {
	if g.frozen {
		return ErrFrozen
	}
	g.addVertex(v)
	return nil
}

// AddEdge adds the edge from -> to. Both vertices must already exist.
func (g *Graph[V]) AddEdge(from, to V) error {
	if g.frozen {
		return ErrFrozen
	}
	i, ok := g.index[from]
	if !ok {
		return ErrUnknownSourceVertex
	}
	j, ok := g.index[to]
	if !ok {
		return ErrUnknownTargetVertex
	}
	g.addEdge(i, j)
	return nil
}

// Vertices returns all vertices in graph order.
func (g *Graph[V]) Vertices() []V { return slices.Clone(g.vertices) }

// HasVertex reports whether v is a vertex.
func (g *Graph[V]) HasVertex(v V) bool {
	_, ok := g.index[v]
	return ok
}

// Successors returns the successors of v in insertion order, or nil if v is
// not a vertex.
func (g *Graph[V]) Successors(v V) []V {
	i, ok := g.index[v]
	if !ok {
		return nil
	}
	out := make([]V, len(g.succ[i]))
	for k, j := range g.succ[i] {
		out[k] = g.vertices[j]
	}
	return out
}

// HasEdge reports whether the edge from -> to exists.
func (g *Graph[V]) HasEdge(from, to V) bool {
	i, ok := g.index[from]
	if !ok {
		return false
	}
	j, ok := g.index[to]
	if !ok {
		return false
	}
	return slices.Contains(g.succ[i], j)
}

// VertexCount returns the number of vertices.
func (g *Graph[V]) VertexCount() int { return len(g.vertices) }

// EdgeCount returns the number of distinct edges.
func (g *Graph[V]) EdgeCount() int { return g.edges }

// Subgraph returns the graph induced by vs. Vertices keep g's relative order
// and vertices unknown to g are ignored.
func (g *Graph[V]) Subgraph(vs []V) *Graph[V] {
	keep := make([]bool, len(g.vertices))
	for _, v := range vs {
		if i, ok := g.index[v]; ok {
			keep[i] = true
		}
	}

	sub := New[V]()
	for i, v := range g.vertices {
		if keep[i] {
			sub.addVertex(v)
		}
	}
	for i, v := range g.vertices {
		if !keep[i] {
			continue
		}
		for _, j := range g.succ[i] {
			if keep[j] {
				sub.addEdge(sub.index[v], sub.index[g.vertices[j]])
			}
		}
	}
	return sub
}

func (g *Graph[V]) addVertex(v V) {
	if _, ok := g.index[v]; ok {
		return
	}
	g.index[v] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	g.succ = append(g.succ, nil)
}

func (g *Graph[V]) addEdge(i, j int) {
	if slices.Contains(g.succ[i], j) {
		return
	}
	g.succ[i] = append(g.succ[i], j)
	g.edges++
}

func (g *Graph[V]) resolve(path []int) []V {
	out := make([]V, len(path))
	for k, i := range path {
		out[k] = g.vertices[i]
	}
	return out
}
