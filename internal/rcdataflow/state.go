package rcdataflow

import "github.com/ailang-project/corec/internal/tir"

// TopDownRefCountState is one tracked pointer's top-down dataflow
// record: the lattice position, whether the tracked pointer provably
// requires no further safety proof (KnownSafe), whether the merge that
// produced this state lost precision (Partial), the set of instructions
// where a compensating release could be inserted, the matched
// retain/release instructions seen so far, and whether this state's
// identity root traces back to a function argument (merge rule 5 only
// ever applies top-down, since spec.md §4.8 names it specifically for
// the top-down pass).
type TopDownRefCountState struct {
	Lattice         TopDownLattice
	KnownSafe       bool
	Partial         bool
	InsertionPoints map[tir.Instruction]bool
	Matched         map[tir.Instruction]bool
	ArgumentOrigin  bool
}

func newTopDownRefCountState(retain tir.Instruction, argOrigin bool) *TopDownRefCountState {
	return &TopDownRefCountState{
		Lattice:         TDIncremented,
		KnownSafe:       true,
		InsertionPoints: map[tir.Instruction]bool{},
		Matched:         map[tir.Instruction]bool{retain: true},
		ArgumentOrigin:  argOrigin,
	}
}

// BottomUpRefCountState is one tracked pointer's bottom-up dataflow
// record, symmetric to TopDownRefCountState with increment and
// decrement roles swapped.
type BottomUpRefCountState struct {
	Lattice         BottomUpLattice
	KnownSafe       bool
	Partial         bool
	InsertionPoints map[tir.Instruction]bool
	Matched         map[tir.Instruction]bool
}

func newBottomUpRefCountState(release tir.Instruction) *BottomUpRefCountState {
	return &BottomUpRefCountState{
		Lattice:         BUDecremented,
		KnownSafe:       true,
		InsertionPoints: map[tir.Instruction]bool{},
		Matched:         map[tir.Instruction]bool{release: true},
	}
}

// mergeTopDown implements spec.md §4.8's full merge: lattice merge rules
// 1-4, rule 5's argument-origin/non-argument-origin illegality, then the
// known_safe/partial/insertion-point/matched-set merges. clear reports
// whether the caller should delete this pointer's entry entirely (the
// merged lattice is None, or the merge was illegal under rule 5).
func mergeTopDown(a, b *TopDownRefCountState) (merged *TopDownRefCountState, clear bool) {
	if a.ArgumentOrigin != b.ArgumentOrigin {
		return nil, true
	}
	lattice := mergeTopDownLattice(a.Lattice, b.Lattice)
	if lattice == TDNone {
		return nil, true
	}
	insertionPoints := unionInsts(a.InsertionPoints, b.InsertionPoints)
	return &TopDownRefCountState{
		Lattice:         lattice,
		KnownSafe:       a.KnownSafe && b.KnownSafe,
		Partial:         a.Partial || b.Partial || len(a.InsertionPoints) != len(b.InsertionPoints),
		InsertionPoints: insertionPoints,
		Matched:         unionInsts(a.Matched, b.Matched),
		ArgumentOrigin:  a.ArgumentOrigin,
	}, false
}

// mergeBottomUp is mergeTopDown's bottom-up counterpart; rule 5 does not
// apply to the bottom-up pass per spec.md §4.8.
func mergeBottomUp(a, b *BottomUpRefCountState) (merged *BottomUpRefCountState, clear bool) {
	lattice := mergeBottomUpLattice(a.Lattice, b.Lattice)
	if lattice == BUNone {
		return nil, true
	}
	insertionPoints := unionInsts(a.InsertionPoints, b.InsertionPoints)
	return &BottomUpRefCountState{
		Lattice:         lattice,
		KnownSafe:       a.KnownSafe && b.KnownSafe,
		Partial:         a.Partial || b.Partial || len(a.InsertionPoints) != len(b.InsertionPoints),
		InsertionPoints: insertionPoints,
		Matched:         unionInsts(a.Matched, b.Matched),
	}, false
}

func unionInsts(a, b map[tir.Instruction]bool) map[tir.Instruction]bool {
	out := make(map[tir.Instruction]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

// BBState is one basic block's per-direction tracked-pointer maps, plus
// whether the block is a recognized trap block (spec.md §4.8).
type BBState struct {
	Block       *tir.BasicBlock
	TopDown     map[tir.Value]*TopDownRefCountState
	BottomUp    map[tir.Value]*BottomUpRefCountState
	IsTrap      bool
}

func newBBState(bb *tir.BasicBlock) *BBState {
	return &BBState{
		Block:    bb,
		TopDown:  map[tir.Value]*TopDownRefCountState{},
		BottomUp: map[tir.Value]*BottomUpRefCountState{},
		IsTrap:   isTrapBlock(bb),
	}
}

// Clear drops every tracked pointer's state in both directions, the
// full-barrier behavior an autorelease-pool call imposes (spec.md
// §4.8).
func (s *BBState) Clear() {
	s.TopDown = map[tir.Value]*TopDownRefCountState{}
	s.BottomUp = map[tir.Value]*BottomUpRefCountState{}
}
