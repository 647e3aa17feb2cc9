package rcdataflow

import "github.com/ailang-project/corec/internal/tir"

// AliasAnalysis answers the two queries the dataflow needs per
// instruction per tracked pointer, grounded on
// ARCSequenceDataflowEvaluator's AliasAnalysis dependency.
type AliasAnalysis interface {
	// MayDecrement reports whether inst might, directly or indirectly,
	// decrement ptr's reference count.
	MayDecrement(inst tir.Instruction, ptr tir.Value) bool
	// MayUse reports whether inst might observe ptr's value in a way
	// that requires its reference count stay above zero up to this
	// point.
	MayUse(inst tir.Instruction, ptr tir.Value) bool
}

// ConservativeAliasAnalysis answers every query the least precise but
// always-safe way: everything may alias. Used when no sharper analysis
// is wired in; every dataflow conclusion drawn under it is still sound,
// merely less aggressive (fewer pairs survive to elimination).
type ConservativeAliasAnalysis struct{}

func (ConservativeAliasAnalysis) MayDecrement(tir.Instruction, tir.Value) bool { return true }
func (ConservativeAliasAnalysis) MayUse(tir.Instruction, tir.Value) bool       { return true }
