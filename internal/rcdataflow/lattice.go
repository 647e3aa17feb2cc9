// Package rcdataflow implements the reference-count sequence dataflow
// analysis: per-block top-down and bottom-up lattice walks over
// retain/release pairs on a tracked pointer's identity root, producing
// the surviving (increment, decrement) pairs later passes may delete,
// move, or convert owned-to-guaranteed.
//
// Grounded on original_source/lib/SILAnalysis/
// GlobalARCSequenceDataflow.{h,cpp} (ARCBBState, ARCSequenceDataflowEvaluator)
// and spec.md §4.8.
package rcdataflow

import "fmt"

// BottomUpLattice is the bottom-up pass's per-pointer state: the
// analysis walks upward from a block's end looking for a release,
// tracking whether a matching retain is still required.
type BottomUpLattice int

const (
	BUNone BottomUpLattice = iota
	BUDecremented
	BUMightBeUsed
	BUMightBeDecremented
)

func (s BottomUpLattice) String() string {
	switch s {
	case BUNone:
		return "None"
	case BUDecremented:
		return "Decremented"
	case BUMightBeUsed:
		return "MightBeUsed"
	case BUMightBeDecremented:
		return "MightBeDecremented"
	default:
		return fmt.Sprintf("BottomUpLattice(%d)", int(s))
	}
}

// TopDownLattice is the top-down pass's per-pointer state: the analysis
// walks downward from a block's start looking for a retain, tracking
// whether a matching release is still required.
type TopDownLattice int

const (
	TDNone TopDownLattice = iota
	TDIncremented
	TDMightBeUsed
	TDMightBeDecremented
)

func (s TopDownLattice) String() string {
	switch s {
	case TDNone:
		return "None"
	case TDIncremented:
		return "Incremented"
	case TDMightBeUsed:
		return "MightBeUsed"
	case TDMightBeDecremented:
		return "MightBeDecremented"
	default:
		return fmt.Sprintf("TopDownLattice(%d)", int(s))
	}
}

// mergeOrdinal implements spec.md §4.8's merge rules 1-3 over the shared
// linear ordering both lattices share (None < {Decremented,Incremented}
// < MightBeUsed < MightBeDecremented): equal states merge to themselves,
// either side being None forces None, and otherwise the further-along
// (numerically larger) state wins.
func mergeOrdinal(a, b int) int {
	if a == b {
		return a
	}
	if a == 0 || b == 0 {
		return 0
	}
	if a > b {
		return a
	}
	return b
}

func mergeBottomUpLattice(a, b BottomUpLattice) BottomUpLattice {
	return BottomUpLattice(mergeOrdinal(int(a), int(b)))
}

func mergeTopDownLattice(a, b TopDownLattice) TopDownLattice {
	return TopDownLattice(mergeOrdinal(int(a), int(b)))
}
