package sigopt

import (
	"github.com/ailang-project/corec/internal/rcdataflow"
	"github.com/ailang-project/corec/internal/tir"
	"github.com/ailang-project/corec/internal/types"
)

// Analyze inspects fn's entry-block arguments and returns one descriptor
// per original parameter plus whether any of them warrant optimization,
// grounded on FunctionAnalyzer::analyze. fn must have a body; callers
// filter out external declarations before calling Analyze (mirroring
// canSpecializeFunction's isExternalDeclaration check).
func Analyze(fn *tir.Function) (descs []*ArgumentDescriptor, shouldOptimize bool) {
	entry := fn.EntryBlock()
	if entry == nil {
		return nil, false
	}

	epilogue, ok := singleExitBlock(fn)

	for i, param := range fn.Params {
		arg := entry.Arguments[i]
		d := &ArgumentDescriptor{
			Index: i,
			Param: param,
			Arg:   arg,
			Dead:  tir.CountUses(fn, arg) == 0,
		}

		if d.Dead {
			shouldOptimize = true
		}

		if !d.Dead && param.Convention == tir.DirectOwned && ok {
			if rel := epilogueRelease(epilogue, arg); rel != nil {
				d.CalleeRelease = rel
				shouldOptimize = true
			}
		}

		if !d.Dead {
			if leaves, explodable := explodeLeaves(param); explodable {
				d.Leaves = leaves
				shouldOptimize = true
			}
		}

		descs = append(descs, d)
	}

	return descs, shouldOptimize
}

// singleExitBlock returns fn's one block ending in Return or
// AutoreleaseReturn, and false if fn has zero or more than one such
// block — mirroring the "single return" precondition
// ConsumedArgToEpilogueReleaseMatcher relies on implicitly by only
// considering the function's one natural exit.
func singleExitBlock(fn *tir.Function) (*tir.BasicBlock, bool) {
	var exit *tir.BasicBlock
	for _, bb := range fn.Blocks {
		switch bb.Terminator().(type) {
		case *tir.Return, *tir.AutoreleaseReturn:
			if exit != nil {
				return nil, false
			}
			exit = bb
		}
	}
	if exit == nil {
		return nil, false
	}
	return exit, true
}

// epilogueRelease scans bb for a Release instruction whose identity root
// is arg, grounded on ConsumedArgToEpilogueReleaseMatcher's search of the
// function's epilogue for a release matching a consumed argument.
func epilogueRelease(bb *tir.BasicBlock, arg *tir.BlockArgument) tir.Instruction {
	for _, inst := range bb.Instructions {
		rel, ok := inst.(*tir.Release)
		if !ok {
			continue
		}
		if rcdataflow.IdentityRoot(rel.Operand) == arg {
			return rel
		}
	}
	return nil
}

// explodeLeaves reports whether param's type can be split into
// independently passed leaves and, if so, returns their types in
// declaration order — grounded on ProjectionTree::canExplodeValue,
// restricted to this module's one aggregate type, *types.Tuple (SIL's
// struct case has no analogue here since typedast nominal structs lower
// through the same tuple representation, per the teacher's
// internal/types package).
func explodeLeaves(param tir.Param) ([]types.Type, bool) {
	if param.Convention == tir.Indirect {
		return nil, false
	}
	tup, ok := param.Type.(*types.Tuple)
	if !ok || len(tup.Elements) < 2 {
		return nil, false
	}
	leaves := make([]types.Type, len(tup.Elements))
	for i, e := range tup.Elements {
		leaves[i] = e.Type
	}
	return leaves, true
}
