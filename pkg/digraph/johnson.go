package digraph

import (
	"slices"
	"sync"
)

// Option configures a CircuitFinder.
type Option func(*finderConfig)

type finderConfig struct {
	iterative      bool
	componentScope bool
}

// WithIterative runs the search with an explicit frame stack instead of recursion.
func WithIterative() Option {
	return func(c *finderConfig) { c.iterative = true }
}

// WithComponentScope searches each non-trivial strongly connected component
// separately.
func WithComponentScope() Option {
	return func(c *finderConfig) { c.componentScope = true }
}

// CircuitFinder enumerates the elementary circuits of a graph. The result is
// computed on the first call to Circuits and shared by all later calls.
type CircuitFinder[V comparable] struct {
	g   *Graph[V]
	cfg finderConfig

	once     sync.Once
	circuits [][]V
	runs     int
}

// NewCircuitFinder creates a finder for g.
func NewCircuitFinder[V comparable](g *Graph[V], opts ...Option) *CircuitFinder[V] {
	f := &CircuitFinder[V]{g: g}
	for _, opt := range opts {
		opt(&f.cfg)
	}
	return f
}

// Circuits returns every elementary circuit of the graph. Each circuit lists
// its vertices starting at the earliest one in graph order, without repeating
// the start. The returned slice is shared; callers must not modify it.
func (f *CircuitFinder[V]) Circuits() [][]V {
	f.once.Do(func() {
		f.g.frozen = true
		f.runs++
		f.circuits = f.compute()
	})
	return f.circuits
}

func (f *CircuitFinder[V]) compute() [][]V {
	out := make([][]V, 0)
	if !f.cfg.componentScope {
		return f.search(f.g, out)
	}

	comps := NonTrivial(f.g, StronglyConnectedComponents(f.g))
	// Tarjan yields completion order; anchor components by their first vertex.
	slices.SortFunc(comps, func(a, b []V) int {
		return f.g.index[a[0]] - f.g.index[b[0]]
	})
	for _, comp := range comps {
		out = f.search(f.g.Subgraph(comp), out)
	}
	return out
}

func (f *CircuitFinder[V]) search(g *Graph[V], out [][]V) [][]V {
	j := newJohnson(g.succ)
	if f.cfg.iterative {
		j.runIterative()
	} else {
		j.runRecursive()
	}
	for _, c := range j.circuits {
		out = append(out, g.resolve(c))
	}
	return out
}

// ElementaryCircuits builds a graph from adj and returns its circuits.
// See [FromMap] for the role of cmp.
func ElementaryCircuits[V comparable](adj map[V][]V, cmp func(a, b V) int) ([][]V, error) {
	g, err := FromMap(adj, cmp)
	if err != nil {
		return nil, err
	}
	return NewCircuitFinder(g).Circuits(), nil
}

// johnson holds the search state over vertex indices.
//
// A vertex is blocked while it is on the current path or while every path
// from it back to the start is known to run through blocked vertices.
// pending[w] holds the vertices to unblock once w is unblocked.
// Completed start vertices stay blocked for the rest of the run, so each
// circuit is only found from its earliest vertex.
type johnson struct {
	succ      [][]int
	blocked   []bool
	completed []bool
	pending   []map[int]struct{}
	path      []int
	circuits  [][]int
}

func newJohnson(succ [][]int) *johnson {
	n := len(succ)
	return &johnson{
		succ:      succ,
		blocked:   make([]bool, n),
		completed: make([]bool, n),
		pending:   make([]map[int]struct{}, n),
	}
}

func (j *johnson) reset() {
	for v := range j.succ {
		if j.completed[v] {
			continue
		}
		j.blocked[v] = false
		clear(j.pending[v])
	}
}

func (j *johnson) finish(s int) {
	j.completed[s] = true
	j.blocked[s] = true
}

func (j *johnson) emit() {
	j.circuits = append(j.circuits, slices.Clone(j.path))
}

// deferUnblock records that v is unblocked together with each of its successors.
func (j *johnson) deferUnblock(v int) {
	for _, w := range j.succ[v] {
		if j.completed[w] {
			continue
		}
		if j.pending[w] == nil {
			j.pending[w] = make(map[int]struct{})
		}
		j.pending[w][v] = struct{}{}
	}
}

func (j *johnson) runRecursive() {
	for s := range j.succ {
		j.reset()
		j.circuit(s, s)
		j.finish(s)
	}
}

func (j *johnson) circuit(start, v int) bool {
	found := false
	j.path = append(j.path, v)
	j.blocked[v] = true

	for _, w := range j.succ[v] {
		if w == start {
			j.emit()
			found = true
		} else if !j.blocked[w] && j.circuit(start, w) {
			found = true
		}
	}

	if found {
		j.unblock(v)
	} else {
		j.deferUnblock(v)
	}
	j.path = j.path[:len(j.path)-1]
	return found
}

func (j *johnson) unblock(v int) {
	j.blocked[v] = false
	pending := j.pending[v]
	j.pending[v] = nil
	for w := range pending {
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}

// frame is one vertex of the explicit search stack.
type frame struct {
	v     int
	next  int
	found bool
}

func (j *johnson) runIterative() {
	var frames []frame
	for s := range j.succ {
		j.reset()

		j.path = append(j.path, s)
		j.blocked[s] = true
		frames = append(frames[:0], frame{v: s})

		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			if top.next < len(j.succ[top.v]) {
				w := j.succ[top.v][top.next]
				top.next++
				if w == s {
					j.emit()
					top.found = true
				} else if !j.blocked[w] {
					j.path = append(j.path, w)
					j.blocked[w] = true
					frames = append(frames, frame{v: w})
				}
				continue
			}

			if top.found {
				j.unblockAll(top.v)
			} else {
				j.deferUnblock(top.v)
			}
			found := top.found
			j.path = j.path[:len(j.path)-1]
			frames = frames[:len(frames)-1]
			if len(frames) > 0 && found {
				frames[len(frames)-1].found = true
			}
		}

		j.finish(s)
	}
}

// unblockAll is unblock with a worklist instead of recursion.
func (j *johnson) unblockAll(v int) {
	j.blocked[v] = false
	work := []int{v}
	for len(work) > 0 {
		u := work[len(work)-1]
		work = work[:len(work)-1]
		pending := j.pending[u]
		j.pending[u] = nil
		for w := range pending {
			if j.blocked[w] {
				j.blocked[w] = false
				work = append(work, w)
			}
		}
	}
}
