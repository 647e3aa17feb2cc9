// Package sigopt implements function-signature optimization: per-
// parameter dead/callee-release/explodable analysis, synthesis of an
// optimized sibling function plus a thunk preserving the original
// entry point, and rewriting known call sites via internal/callgraph's
// Editor (spec.md §4.9, a consumer of §4.7's call graph and §4.8's RC
// dataflow).
//
// Grounded on original_source/lib/SILPasses/FunctionSignatureOpts.cpp's
// ArgumentDescriptor/FunctionAnalyzer split: ArgumentDescriptor caches
// everything the optimizer needs to know about one parameter so later
// rewriting doesn't need to re-derive it from a (by-then-mutated)
// function.
package sigopt

import (
	"github.com/ailang-project/corec/internal/tir"
	"github.com/ailang-project/corec/internal/types"
)

// ArgumentDescriptor records one original parameter's optimization
// disposition, grounded on FunctionSignatureOpts.cpp's ArgumentDescriptor.
type ArgumentDescriptor struct {
	// Index is this parameter's position in the original function's
	// signature and entry-block argument list.
	Index int
	// Param is the original parameter's declared type and convention.
	Param tir.Param
	// Arg is the original entry-block argument this descriptor tracks.
	Arg *tir.BlockArgument

	// Dead is true iff Arg has no uses anywhere in the function.
	Dead bool
	// CalleeRelease is the release instruction found on the function's
	// single exit path matching a Direct_Owned argument, or nil.
	CalleeRelease tir.Instruction
	// Leaves holds the parameter's exploded element types, non-nil iff
	// this argument's aggregate type can be split into independently
	// passed leaves (spec.md §4.9 "explodable").
	Leaves []types.Type
}

// CanExplode reports whether this argument's aggregate was split into
// independent leaf parameters.
func (d *ArgumentDescriptor) CanExplode() bool { return len(d.Leaves) > 0 }

// WillOptimize reports whether any transformation at all applies to
// this argument.
func (d *ArgumentDescriptor) WillOptimize() bool {
	return d.Dead || d.CalleeRelease != nil || d.CanExplode()
}
