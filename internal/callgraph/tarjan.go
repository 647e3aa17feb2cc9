package callgraph

// tarjanSCC computes the strongly-connected components of the subgraph
// reachable via each node's apply-edges (resolved callees only; an
// incomplete edge's empty callee set contributes no graph edges), and
// returns them in bottom-up (callees-before-callers) post-order, per
// spec.md §4.7's "find SCCs via Tarjan's algorithm... emit SCCs in
// post-order".
func tarjanSCC(nodes []*Node) []*SCC {
	t := &tarjan{
		index:   make(map[*Node]int),
		lowlink: make(map[*Node]int),
		onStack: make(map[*Node]bool),
	}
	for _, n := range nodes {
		if _, seen := t.index[n]; !seen {
			t.strongconnect(n)
		}
	}
	return t.sccs
}

type tarjan struct {
	counter int
	index   map[*Node]int
	lowlink map[*Node]int
	onStack map[*Node]bool
	stack   []*Node
	sccs    []*SCC
}

func (t *tarjan) strongconnect(v *Node) {
	t.index[v] = t.counter
	t.lowlink[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, e := range v.Edges {
		for _, w := range e.Callees {
			if _, seen := t.index[w]; !seen {
				t.strongconnect(w)
				if t.lowlink[w] < t.lowlink[v] {
					t.lowlink[v] = t.lowlink[w]
				}
			} else if t.onStack[w] {
				if t.index[w] < t.lowlink[v] {
					t.lowlink[v] = t.index[w]
				}
			}
		}
	}

	if t.lowlink[v] == t.index[v] {
		var scc []*Node
		for {
			n := len(t.stack) - 1
			w := t.stack[n]
			t.stack = t.stack[:n]
			t.onStack[w] = false
			scc = append(scc, w)
			if w == v {
				break
			}
		}
		t.sccs = append(t.sccs, &SCC{Nodes: scc})
	}
}
