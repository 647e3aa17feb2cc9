package callgraph

import "github.com/ailang-project/corec/internal/tir"

// Resolver resolves a single apply-like instruction's callee, returning
// the statically-known callee functions and whether that set is
// complete. Concrete resolution (tracing through direct references,
// thin-to-thick casts, tuple/struct extracts) lives with the pass that
// builds the graph in the first place; Editor only needs to re-run it
// when an apply is replaced.
type Resolver func(apply tir.Instruction) (callees []*tir.Function, complete bool)

// Editor exposes the call-graph mutation operations spec.md §4.7 names:
// add/remove node, add/remove edges for an apply, and replace an apply
// with one or many new applies, re-resolving their callees.
//
// Grounded on original_source/include/swift/SILAnalysis/
// CallGraphAnalysis.h's CallGraphEditor.
type Editor struct {
	Graph    *Graph
	Resolver Resolver
}

// NewEditor builds an Editor over g using resolver to re-resolve applies
// introduced by ReplaceApply.
func NewEditor(g *Graph, resolver Resolver) *Editor {
	return &Editor{Graph: g, Resolver: resolver}
}

// AddFunction adds fn's node to the graph if absent.
func (e *Editor) AddFunction(fn *tir.Function) *Node {
	return e.Graph.AddNode(fn)
}

// RemoveFunction removes fn's node and every edge touching it.
func (e *Editor) RemoveFunction(fn *tir.Function) {
	if n := e.Graph.Node(fn); n != nil {
		e.Graph.RemoveNode(n)
	}
}

// AddApply records an edge for apply within caller's function, resolving
// its callee set via e.Resolver.
func (e *Editor) AddApply(caller *tir.Function, apply tir.Instruction) *Edge {
	callerNode := e.Graph.AddNode(caller)
	callees, complete := e.Resolver(apply)
	calleeNodes := make([]*Node, 0, len(callees))
	for _, c := range callees {
		calleeNodes = append(calleeNodes, e.Graph.AddNode(c))
	}
	return e.Graph.AddEdge(callerNode, apply, calleeNodes, complete)
}

// RemoveApply removes the edge recording apply, if one exists.
func (e *Editor) RemoveApply(caller *tir.Function, apply tir.Instruction) {
	n := e.Graph.Node(caller)
	if n == nil {
		return
	}
	for _, edge := range append([]*Edge{}, n.Edges...) {
		if edge.Apply == apply {
			e.Graph.RemoveEdge(edge)
		}
	}
}

// ReplaceApply replaces the edge for oldApply with edges for each of
// newApplies, re-resolving callees for the new instructions. When an
// apply is replaced by an unknown-callee form, the new edges' callees
// have their incoming-edge completeness marked false, per spec.md §4.7's
// "mark callees' incoming-edge completeness false when an apply is
// replaced by an unknown-callee form".
func (e *Editor) ReplaceApply(caller *tir.Function, oldApply tir.Instruction, newApplies []tir.Instruction) []*Edge {
	e.RemoveApply(caller, oldApply)
	edges := make([]*Edge, 0, len(newApplies))
	for _, apply := range newApplies {
		edge := e.AddApply(caller, apply)
		if !edge.Complete {
			for _, callee := range edge.Callees {
				callee.markCallerEdgesIncomplete()
			}
		}
		edges = append(edges, edge)
	}
	return edges
}

// LinkerEditor is the cross-module variant of Editor: it additionally
// knows how to merge a newly-linked module's call graph into the
// existing one, re-keying ordinals so they remain unique across the
// combined graph. Grounded on the teacher-adjacent distinction spec.md
// §4.7 draws between an in-module editor and a linker-time editor that
// must reconcile two previously-independent node/edge ordinal spaces.
type LinkerEditor struct {
	*Editor
}

// NewLinkerEditor builds a LinkerEditor over g.
func NewLinkerEditor(g *Graph, resolver Resolver) *LinkerEditor {
	return &LinkerEditor{Editor: NewEditor(g, resolver)}
}

// MergeModule adds every function in fns as a node (if not already
// present) and returns the newly-added nodes, letting the caller then
// add edges for each function's applies via AddApply. Functions already
// present in the graph (e.g. re-exported from a previously-linked
// module) are left untouched rather than duplicated.
func (le *LinkerEditor) MergeModule(fns []*tir.Function) []*Node {
	var added []*Node
	for _, fn := range fns {
		if le.Graph.Node(fn) != nil {
			continue
		}
		added = append(added, le.Graph.AddNode(fn))
	}
	return added
}
