package digraph

import "slices"

// StronglyConnectedComponents partitions g into its strongly connected
// components. Components are listed in completion order (a component comes
// before any component that reaches it); vertices inside a component keep
// graph order.
func StronglyConnectedComponents[V comparable](g *Graph[V]) [][]V {
	n := len(g.vertices)
	const unvisited = -1

	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	var (
		stack  []int
		frames []frame
		comps  [][]V
		next   int
	)

	visit := func(v int) {
		index[v] = next
		low[v] = next
		next++
		stack = append(stack, v)
		onStack[v] = true
		frames = append(frames, frame{v: v})
	}

	for root := range n {
		if index[root] != unvisited {
			continue
		}
		visit(root)

		for len(frames) > 0 {
			top := &frames[len(frames)-1]
			v := top.v
			if top.next < len(g.succ[v]) {
				w := g.succ[v][top.next]
				top.next++
				if index[w] == unvisited {
					visit(w)
				} else if onStack[w] {
					low[v] = min(low[v], index[w])
				}
				continue
			}

			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				parent := frames[len(frames)-1].v
				low[parent] = min(low[parent], low[v])
			}
			if low[v] != index[v] {
				continue
			}

			var comp []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			slices.Sort(comp)
			comps = append(comps, g.resolve(comp))
		}
	}
	return comps
}

// NonTrivial filters comps down to components that contain a circuit:
// two or more vertices, or one vertex with a self-loop.
func NonTrivial[V comparable](g *Graph[V], comps [][]V) [][]V {
	var out [][]V
	for _, c := range comps {
		if len(c) > 1 || (len(c) == 1 && g.HasEdge(c[0], c[0])) {
			out = append(out, c)
		}
	}
	return out
}
