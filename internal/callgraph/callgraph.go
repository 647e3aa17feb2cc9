// Package callgraph builds the whole-module call graph over a set of
// typed-IR functions and computes the bottom-up SCC order interprocedural
// passes iterate in.
//
// Grounded on original_source/include/swift/SILAnalysis/
// CallGraphAnalysis.h and its .cpp: CallGraphNode/CallGraphEdge's
// complete/incomplete callee-set and caller-edge bookkeeping, Tarjan's
// algorithm for bottom-up SCC order, and the CallGraphEditor's add/remove
// edge operations, reshaped into Go with the graph's nodes and edges
// owned by plain slices/maps instead of an arena (this package has no
// allocation-lifetime concern the rest of the module doesn't already
// solve via internal/astctx).
package callgraph

import (
	"sort"

	"github.com/ailang-project/corec/internal/tir"
)

// Node is one function's call-graph presence: an ordinal, the function
// it represents, its outgoing call-sites (Edges), and whether its
// caller-edge set is known complete.
type Node struct {
	Ordinal             int
	Function             *tir.Function
	Edges                []*Edge // edges whose apply lies in this function
	incomingEdges        map[*Edge]bool
	callerEdgesComplete  bool
}

// IncomingEdges returns the node's incoming edges ordered by edge
// ordinal. The set is exhaustive only when IsCallerEdgesComplete reports
// true; this method does not check that.
func (n *Node) IncomingEdges() []*Edge {
	edges := make([]*Edge, 0, len(n.incomingEdges))
	for e := range n.incomingEdges {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Ordinal < edges[j].Ordinal })
	return edges
}

// IsCallerEdgesComplete reports whether every caller of this function is
// known (the function's address has never escaped to a non-apply use).
func (n *Node) IsCallerEdgesComplete() bool { return n.callerEdgesComplete }

// IsDead reports whether this function is unreachable: its caller-edge
// set is complete and empty (CallGraphNode::isDead).
func (n *Node) IsDead() bool {
	return n.callerEdgesComplete && len(n.incomingEdges) == 0
}

func (n *Node) markCallerEdgesIncomplete() { n.callerEdgesComplete = false }

// Edge is one apply-like instruction's resolved (or unresolved) callee
// set.
type Edge struct {
	Ordinal int
	Apply   tir.Instruction // the apply/partial_apply instruction itself
	Caller  *Node
	Callees []*Node
	// Complete is true iff Callees is the exhaustive set of functions
	// this apply can ever invoke.
	Complete bool
}

// SCC is one strongly-connected component of the call graph, in no
// particular internal order; SCCs themselves are produced in bottom-up
// (callees-before-callers) order by Graph.BottomUpSCCOrder.
type SCC struct {
	Nodes []*Node
}

// Graph is the whole-module call graph.
type Graph struct {
	nodes        map[*tir.Function]*Node
	nextOrdinal  int
	nextEdgeOrd  int
	sccOrder     []*SCC
}

// New constructs an empty call graph.
func New() *Graph {
	return &Graph{nodes: make(map[*tir.Function]*Node)}
}

// AddNode allocates a node for fn with a fresh ordinal, or returns the
// existing node if fn already has one.
func (g *Graph) AddNode(fn *tir.Function) *Node {
	if n, ok := g.nodes[fn]; ok {
		return n
	}
	n := &Node{
		Ordinal:             g.nextOrdinal,
		Function:            fn,
		incomingEdges:       make(map[*Edge]bool),
		callerEdgesComplete: !canHaveIndirectUses(fn),
	}
	g.nextOrdinal++
	g.nodes[fn] = n
	g.sccOrder = nil
	return n
}

// RemoveNode deletes n's node and every edge touching it.
func (g *Graph) RemoveNode(n *Node) {
	for _, e := range append([]*Edge{}, n.Edges...) {
		g.RemoveEdge(e)
	}
	for _, e := range n.IncomingEdges() {
		g.RemoveEdge(e)
	}
	delete(g.nodes, n.Function)
	g.sccOrder = nil
}

// Node returns fn's node, or nil if fn has none.
func (g *Graph) Node(fn *tir.Function) *Node { return g.nodes[fn] }

// canHaveIndirectUses reports whether fn's address could plausibly
// escape to a non-apply use; external declarations never do, in this
// model, since they have no body from which to take their own address.
// Every function with a body, bare or not, is treated as possibly
// escaping.
func canHaveIndirectUses(fn *tir.Function) bool {
	return !fn.IsExternalDeclaration()
}

// AddEdge records a new call-graph edge for an apply-like instruction in
// caller, resolved to the given callees (empty + complete=false for an
// unresolved dynamic dispatch).
func (g *Graph) AddEdge(caller *Node, apply tir.Instruction, callees []*Node, complete bool) *Edge {
	e := &Edge{
		Ordinal:  g.nextEdgeOrd,
		Apply:    apply,
		Caller:   caller,
		Callees:  callees,
		Complete: complete,
	}
	g.nextEdgeOrd++
	caller.Edges = append(caller.Edges, e)
	for _, callee := range callees {
		callee.incomingEdges[e] = true
	}
	g.sccOrder = nil
	return e
}

// RemoveEdge eagerly updates both endpoints: the caller's outgoing-edge
// list and every callee's incoming-edge set (spec.md §4.7 invariant d).
func (g *Graph) RemoveEdge(e *Edge) {
	e.Caller.Edges = removeEdge(e.Caller.Edges, e)
	for _, callee := range e.Callees {
		delete(callee.incomingEdges, e)
	}
	g.sccOrder = nil
}

func removeEdge(edges []*Edge, target *Edge) []*Edge {
	out := edges[:0]
	for _, e := range edges {
		if e != target {
			out = append(out, e)
		}
	}
	return out
}

// MarkAddressEscaped marks fn's node's caller-edge set incomplete: its
// function reference was used somewhere other than as an apply's callee
// (spec.md §4.7, "the function's address has escaped").
func (g *Graph) MarkAddressEscaped(fn *tir.Function) {
	if n, ok := g.nodes[fn]; ok {
		n.markCallerEdgesIncomplete()
	}
}

// Nodes returns every node in the graph, ordered by ordinal.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Ordinal < nodes[j].Ordinal })
	return nodes
}

// BottomUpSCCOrder returns the graph's SCCs in bottom-up order (callees
// before callers), computing and caching it on first call, mirroring
// CallGraph::getBottomUpSCCOrder.
func (g *Graph) BottomUpSCCOrder() []*SCC {
	if g.sccOrder == nil {
		g.sccOrder = tarjanSCC(g.Nodes())
	}
	return g.sccOrder
}

// BottomUpFunctionOrder flattens BottomUpSCCOrder into a single function
// list, the order interprocedural passes iterate in.
func (g *Graph) BottomUpFunctionOrder() []*tir.Function {
	var out []*tir.Function
	for _, scc := range g.BottomUpSCCOrder() {
		for _, n := range scc.Nodes {
			out = append(out, n.Function)
		}
	}
	return out
}
