package rcdataflow

import (
	"sort"

	"github.com/ailang-project/corec/internal/tir"
)

// Pair is one surviving (retain, release) pair on the same tracked
// pointer: both passes matched the same retain and release, and no merge
// along the way cleared the entry. A may-decrement seen between the two
// does not drop the pair; it is still reported, with KnownSafe false.
type Pair struct {
	Retain    tir.Instruction
	Release   tir.Instruction
	KnownSafe bool
}

// Evaluator runs the reference-count sequence dataflow over a single
// function, grounded on ARCSequenceDataflowEvaluator's bottom-up/
// top-down two-pass structure.
type Evaluator struct {
	Function *tir.Function
	AA       AliasAnalysis

	backedges map[*tir.BasicBlock]map[*tir.BasicBlock]bool
	bottomUp  map[*tir.BasicBlock]*BBState
	topDown   map[*tir.BasicBlock]*BBState

	// DecToInc maps a dataflow-terminating release to the top-down state
	// that matched it to a retain (one map entry per completed top-down
	// pair).
	DecToInc map[tir.Instruction]*TopDownRefCountState
	// IncToDec maps a dataflow-terminating retain to the bottom-up state
	// that matched it to a release.
	IncToDec map[tir.Instruction]*BottomUpRefCountState
}

// NewEvaluator constructs an Evaluator for fn. aa may be nil, in which
// case ConservativeAliasAnalysis is used.
func NewEvaluator(fn *tir.Function, aa AliasAnalysis) *Evaluator {
	if aa == nil {
		aa = ConservativeAliasAnalysis{}
	}
	return &Evaluator{Function: fn, AA: aa}
}

// Init (re)computes the evaluator's per-block state maps and back-edge
// set. Must be called before Run, and again if fn's CFG shape changed.
func (e *Evaluator) Init() {
	e.backedges = computeBackedges(e.Function)
	e.bottomUp = make(map[*tir.BasicBlock]*BBState, len(e.Function.Blocks))
	e.topDown = make(map[*tir.BasicBlock]*BBState, len(e.Function.Blocks))
	for _, bb := range e.Function.Blocks {
		e.bottomUp[bb] = newBBState(bb)
		e.topDown[bb] = newBBState(bb)
	}
	e.DecToInc = map[tir.Instruction]*TopDownRefCountState{}
	e.IncToDec = map[tir.Instruction]*BottomUpRefCountState{}
}

// Clear drops every tracked pointer's state in both directions across
// every block, per ARCSequenceDataflowEvaluator::clear.
func (e *Evaluator) Clear() {
	for _, s := range e.bottomUp {
		s.Clear()
	}
	for _, s := range e.topDown {
		s.Clear()
	}
}

// Run performs the bottom-up pass followed by the top-down pass and
// returns the pairs that survived both. Init must have been called
// first.
func (e *Evaluator) Run() []Pair {
	e.processBottomUp()
	e.processTopDown()
	return e.survivingPairs()
}

func reversePostOrderBlocks(fn *tir.Function) []*tir.BasicBlock {
	entry := fn.EntryBlock()
	if entry == nil {
		return nil
	}
	visited := map[*tir.BasicBlock]bool{}
	var post []*tir.BasicBlock
	var visit func(bb *tir.BasicBlock)
	visit = func(bb *tir.BasicBlock) {
		if visited[bb] {
			return
		}
		visited[bb] = true
		for _, s := range bb.Successors() {
			visit(s)
		}
		post = append(post, bb)
	}
	visit(entry)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

func predecessorsOf(fn *tir.Function) map[*tir.BasicBlock][]*tir.BasicBlock {
	preds := make(map[*tir.BasicBlock][]*tir.BasicBlock)
	for _, bb := range fn.Blocks {
		for _, s := range bb.Successors() {
			preds[s] = append(preds[s], bb)
		}
	}
	return preds
}

// instructionOrder assigns every instruction in fn a position in
// program order (blocks in declaration order, instructions within a
// block in list order), used only to make multi-map output
// deterministic.
func instructionOrder(fn *tir.Function) map[tir.Instruction]int {
	order := make(map[tir.Instruction]int)
	n := 0
	for _, bb := range fn.Blocks {
		for _, inst := range bb.Instructions {
			order[inst] = n
			n++
		}
	}
	return order
}

// processTopDown walks blocks in reverse post-order, initializing each
// block's state from one non-trap predecessor and merging the rest (or
// clearing entirely if any predecessor reaches the block via a
// back-edge), then scans the block's instructions in program order
// looking for retain/release pairs and alias-driven lattice advances
// (spec.md §4.8).
func (e *Evaluator) processTopDown() {
	order := reversePostOrderBlocks(e.Function)
	preds := predecessorsOf(e.Function)

	for _, bb := range order {
		state := e.topDown[bb]
		if state.IsTrap {
			continue
		}
		e.mergePredecessors(state, bb, preds[bb])

		for _, inst := range bb.Instructions {
			e.stepTopDown(state, inst)
		}
	}
}

func (e *Evaluator) mergePredecessors(state *BBState, bb *tir.BasicBlock, preds []*tir.BasicBlock) {
	state.TopDown = map[tir.Value]*TopDownRefCountState{}
	if e.hasBackedgeInto(bb, preds) {
		return
	}

	first := true
	for _, p := range preds {
		predState := e.topDown[p]
		if predState.IsTrap {
			continue
		}
		if first {
			for ptr, s := range predState.TopDown {
				cp := *s
				state.TopDown[ptr] = &cp
			}
			first = false
			continue
		}
		merged := map[tir.Value]*TopDownRefCountState{}
		for ptr, a := range state.TopDown {
			b, ok := predState.TopDown[ptr]
			if !ok {
				continue
			}
			m, clear := mergeTopDown(a, b)
			if !clear {
				merged[ptr] = m
			}
		}
		state.TopDown = merged
	}
}

// hasBackedgeInto reports whether any of bb's predecessors reach it via
// a back-edge; per spec.md §4.8, the presence of any back-edge
// predecessor clears the block's initial state entirely rather than
// merging around it.
func (e *Evaluator) hasBackedgeInto(bb *tir.BasicBlock, preds []*tir.BasicBlock) bool {
	for _, p := range preds {
		if isBackedge(e.backedges, bb, p) {
			return true
		}
	}
	return false
}

func (e *Evaluator) stepTopDown(state *BBState, inst tir.Instruction) {
	switch t := inst.(type) {
	case *tir.Autorelease:
		state.Clear()
		return
	case *tir.Retain:
		root := IdentityRoot(t.Operand)
		arg, isArg := root.(*tir.BlockArgument)
		argOrigin := isArg && arg.Block == e.Function.EntryBlock()
		state.TopDown[root] = newTopDownRefCountState(inst, argOrigin)
		return
	case *tir.Release:
		root := IdentityRoot(t.Operand)
		if s, ok := state.TopDown[root]; ok {
			e.DecToInc[inst] = s
			delete(state.TopDown, root)
			return
		}
	}
	e.advanceTopDown(state, inst)
}

// isSideEffecting reports whether inst can possibly touch a reference
// count at all. Pure control-flow terminators (branches, switches,
// return, unreachable) only move values already tracked through their
// own operands — they cannot decrement or use an unrelated pointer —
// so the alias analysis is never consulted for them.
func isSideEffecting(inst tir.Instruction) bool {
	switch inst.(type) {
	case *tir.Apply, *tir.PartialApply, *tir.Load, *tir.Store, *tir.Cast:
		return true
	default:
		return false
	}
}

func (e *Evaluator) advanceTopDown(state *BBState, inst tir.Instruction) {
	if !isSideEffecting(inst) {
		return
	}
	for ptr, s := range state.TopDown {
		if e.AA.MayDecrement(inst, ptr) {
			if s.Lattice < TDMightBeDecremented {
				s.Lattice = TDMightBeDecremented
			}
			s.KnownSafe = false
		} else if e.AA.MayUse(inst, ptr) {
			if s.Lattice < TDMightBeUsed {
				s.Lattice = TDMightBeUsed
			}
		}
	}
}

// processBottomUp is processTopDown's mirror: post-order traversal,
// merging from successors, increment/decrement roles swapped.
func (e *Evaluator) processBottomUp() {
	order := reversePostOrderBlocks(e.Function)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	for _, bb := range order {
		state := e.bottomUp[bb]
		if state.IsTrap {
			continue
		}
		e.mergeSuccessors(state, bb)

		for i := len(bb.Instructions) - 1; i >= 0; i-- {
			e.stepBottomUp(state, bb.Instructions[i])
		}
	}
}

func (e *Evaluator) mergeSuccessors(state *BBState, bb *tir.BasicBlock) {
	state.BottomUp = map[tir.Value]*BottomUpRefCountState{}
	succs := bb.Successors()
	first := true
	for _, s := range succs {
		succState := e.bottomUp[s]
		if succState.IsTrap {
			continue
		}
		if first {
			for ptr, st := range succState.BottomUp {
				cp := *st
				state.BottomUp[ptr] = &cp
			}
			first = false
			continue
		}
		merged := map[tir.Value]*BottomUpRefCountState{}
		for ptr, a := range state.BottomUp {
			b, ok := succState.BottomUp[ptr]
			if !ok {
				continue
			}
			m, clear := mergeBottomUp(a, b)
			if !clear {
				merged[ptr] = m
			}
		}
		state.BottomUp = merged
	}
}

func (e *Evaluator) stepBottomUp(state *BBState, inst tir.Instruction) {
	switch t := inst.(type) {
	case *tir.Autorelease:
		state.Clear()
		return
	case *tir.Release:
		root := IdentityRoot(t.Operand)
		state.BottomUp[root] = newBottomUpRefCountState(inst)
		return
	case *tir.Retain:
		root := IdentityRoot(t.Operand)
		if s, ok := state.BottomUp[root]; ok {
			e.IncToDec[inst] = s
			delete(state.BottomUp, root)
			return
		}
	}
	e.advanceBottomUp(state, inst)
}

func (e *Evaluator) advanceBottomUp(state *BBState, inst tir.Instruction) {
	if !isSideEffecting(inst) {
		return
	}
	for ptr, s := range state.BottomUp {
		if e.AA.MayDecrement(inst, ptr) {
			if s.Lattice < BUMightBeDecremented {
				s.Lattice = BUMightBeDecremented
			}
			s.KnownSafe = false
		} else if e.AA.MayUse(inst, ptr) {
			if s.Lattice < BUMightBeUsed {
				s.Lattice = BUMightBeUsed
			}
		}
	}
}

// survivingPairs intersects DecToInc and IncToDec: a pair survives iff
// both passes independently matched the same (retain, release)
// instruction pair, per spec.md §4.8's completion criterion. Output is
// sorted by program order for determinism.
func (e *Evaluator) survivingPairs() []Pair {
	order := instructionOrder(e.Function)
	var pairs []Pair
	for release, tdState := range e.DecToInc {
		for retain := range tdState.Matched {
			buState, ok := e.IncToDec[retain]
			if !ok {
				continue
			}
			if _, matched := buState.Matched[release]; !matched {
				continue
			}
			pairs = append(pairs, Pair{
				Retain:    retain,
				Release:   release,
				KnownSafe: tdState.KnownSafe && buState.KnownSafe,
			})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if order[pairs[i].Release] != order[pairs[j].Release] {
			return order[pairs[i].Release] < order[pairs[j].Release]
		}
		return order[pairs[i].Retain] < order[pairs[j].Retain]
	})
	return pairs
}
