package rcdataflow

import "github.com/ailang-project/corec/internal/tir"

// isTrapBlock recognizes the canonical trap-block shape spec.md §4.8
// names: "reference to trap built-in → apply with no arguments →
// unreachable". Trap blocks are assumed to leak every reference they
// touch and are excluded from predecessor/successor merges, avoiding
// false retain/release pairings across a block whose continuation is,
// by assumption, unreachable.
func isTrapBlock(bb *tir.BasicBlock) bool {
	if len(bb.Instructions) != 3 {
		return false
	}
	ref, ok := bb.Instructions[0].(*tir.BuiltinRef)
	if !ok || ref.Name != "int_trap" {
		return false
	}
	apply, ok := bb.Instructions[1].(*tir.Apply)
	if !ok || apply.Callee != ref || len(apply.Args) != 0 {
		return false
	}
	_, ok = bb.Instructions[2].(*tir.Unreachable)
	return ok
}
