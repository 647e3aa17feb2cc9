package sigopt

import "github.com/ailang-project/corec/internal/tir"

// RewriteCallSite replaces apply (found somewhere in caller's blocks)
// with a call to newFn built from descs, grounded on
// rewriteApplyInstToCallNewFunction. Returns the new Apply instruction,
// or nil if apply could not be located in caller.
func RewriteCallSite(caller *tir.Function, apply *tir.Apply, newFn *tir.Function, descs []*ArgumentDescriptor) *tir.Apply {
	bb := containingBlock(caller, apply)
	if bb == nil {
		return nil
	}

	var emitted []tir.Instruction
	args := buildCallArgs(descs, apply.Args, &emitted)

	ref := tir.NewFunctionRef(newFn)
	emitted = append(emitted, ref)
	newApply := tir.NewApply(ref, args, newFn.Result)
	emitted = append(emitted, newApply)
	emitted = append(emitted, compensatingReleases(descs, apply.Args)...)

	tir.ReplaceAllUses(caller, apply, newApply)
	bb.ReplaceInstruction(apply, emitted)
	return newApply
}

func containingBlock(fn *tir.Function, target tir.Instruction) *tir.BasicBlock {
	for _, bb := range fn.Blocks {
		for _, inst := range bb.Instructions {
			if inst == target {
				return bb
			}
		}
	}
	return nil
}
