package rcdataflow

import "github.com/ailang-project/corec/internal/tir"

// computeBackedges identifies every back-edge in fn's control-flow
// graph via a single DFS from the entry block, returning a set keyed by
// (head) -> set of tail blocks whose edge to head is a back-edge.
// Computed once per Evaluator lifetime, per spec.md §4.8: "identified
// once at start-up by DFS".
func computeBackedges(fn *tir.Function) map[*tir.BasicBlock]map[*tir.BasicBlock]bool {
	backedges := make(map[*tir.BasicBlock]map[*tir.BasicBlock]bool)
	entry := fn.EntryBlock()
	if entry == nil {
		return backedges
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[*tir.BasicBlock]int)

	var visit func(bb *tir.BasicBlock)
	visit = func(bb *tir.BasicBlock) {
		color[bb] = gray
		for _, succ := range bb.Successors() {
			switch color[succ] {
			case white:
				visit(succ)
			case gray:
				if backedges[succ] == nil {
					backedges[succ] = map[*tir.BasicBlock]bool{}
				}
				backedges[succ][bb] = true
			}
		}
		color[bb] = black
	}
	visit(entry)
	return backedges
}

// isBackedge reports whether the edge from tail to head was identified
// as a back-edge.
func isBackedge(backedges map[*tir.BasicBlock]map[*tir.BasicBlock]bool, head, tail *tir.BasicBlock) bool {
	return backedges[head] != nil && backedges[head][tail]
}
