package sigopt

import (
	"github.com/ailang-project/corec/internal/tir"
	"github.com/ailang-project/corec/internal/types"
)

// computeOptimizedParams builds the new function's parameter list from
// descs, grounded on ArgumentDescriptor::computeOptimizedInterfaceParams:
// dead parameters are dropped, explodable ones expand into one
// parameter per leaf (trivial leaves become unowned, guaranteed leaves
// stay guaranteed, owned leaves become guaranteed iff a callee release
// was found), and an owned parameter with a callee release becomes
// guaranteed without otherwise changing shape.
func computeOptimizedParams(descs []*ArgumentDescriptor) []tir.Param {
	var out []tir.Param
	for _, d := range descs {
		switch {
		case d.Dead:
			continue
		case d.CanExplode():
			for _, leaf := range d.Leaves {
				out = append(out, explodedLeafParam(d, leaf))
			}
		case d.CalleeRelease != nil:
			out = append(out, tir.Param{Type: d.Param.Type, Convention: tir.DirectGuaranteed})
		default:
			out = append(out, d.Param)
		}
	}
	return out
}

func explodedLeafParam(d *ArgumentDescriptor, leaf types.Type) tir.Param {
	if isTrivial(leaf) {
		return tir.Param{Type: leaf, Convention: tir.DirectUnowned}
	}
	if d.Param.Convention == tir.DirectGuaranteed {
		return tir.Param{Type: leaf, Convention: tir.DirectGuaranteed}
	}
	if d.CalleeRelease != nil {
		return tir.Param{Type: leaf, Convention: tir.DirectGuaranteed}
	}
	return tir.Param{Type: leaf, Convention: tir.DirectOwned}
}

// isTrivial reports whether t carries no reference count: the integer
// and floating-point builtin kinds. Pointer/object builtin kinds and
// every nominal/tuple type are assumed reference-counted or aggregate-
// of-reference-counted, matching SILType::isTrivial's conservative
// default for anything that isn't a known-scalar builtin.
func isTrivial(t types.Type) bool {
	b, ok := t.(*types.Builtin)
	if !ok {
		return false
	}
	return b.Kind == types.IntType || b.Kind == types.FloatType
}

// OptimizeFunction synthesizes the optimized sibling of fn described by
// descs: a new Function taking fn's body and an optimized signature,
// grounded on moveFunctionBodyToNewFunctionWithName. fn itself is left
// with its original signature and an empty block list; the caller turns
// it into a thunk with MakeThunk once the new function exists so the
// thunk can reference it.
func OptimizeFunction(fn *tir.Function, descs []*ArgumentDescriptor) *tir.Function {
	newFn := &tir.Function{
		Name:              Mangle(fn.Name, descs),
		Params:            computeOptimizedParams(descs),
		Result:            fn.Result,
		Convention:        fn.Convention,
		GenericParams:     fn.GenericParams,
		Bare:              fn.Bare,
		Transparent:       fn.Transparent,
		GlobalInitializer: fn.GlobalInitializer,
		Inline:            fn.Inline,
		Linkage:           fn.Linkage,
	}

	newFn.Blocks = fn.Blocks
	fn.Blocks = nil
	for _, bb := range newFn.Blocks {
		bb.Parent = newFn
	}

	rewriteEntryArguments(newFn, descs)

	for _, d := range descs {
		if d.CalleeRelease != nil {
			eraseInstruction(newFn, d.CalleeRelease)
		}
	}

	return newFn
}

// rewriteEntryArguments updates newFn's entry block's argument list to
// match descs: dead arguments are dropped, exploded arguments are
// replaced by one fresh argument per leaf followed by a TupleConstruct
// reconstructing the original aggregate value for any surviving uses in
// the moved body, grounded on ArgumentDescriptor::updateOptimizedBBArgs.
func rewriteEntryArguments(newFn *tir.Function, descs []*ArgumentDescriptor) {
	entry := newFn.EntryBlock()
	if entry == nil {
		return
	}

	var newArgs []*tir.BlockArgument
	var reconstructions []tir.Instruction

	for _, d := range descs {
		switch {
		case d.Dead:
			continue
		case d.CanExplode():
			leafVals := make([]tir.Value, len(d.Leaves))
			for j, leaf := range d.Leaves {
				leafArg := &tir.BlockArgument{Type: leaf, Block: entry}
				newArgs = append(newArgs, leafArg)
				leafVals[j] = leafArg
			}
			tc := tir.NewTupleConstruct(leafVals, d.Param.Type)
			reconstructions = append(reconstructions, tc)
			tir.ReplaceAllUses(newFn, d.Arg, tc)
		default:
			newArgs = append(newArgs, d.Arg)
		}
	}

	entry.Arguments = newArgs
	entry.Instructions = append(append([]tir.Instruction{}, reconstructions...), entry.Instructions...)
}

func eraseInstruction(fn *tir.Function, inst tir.Instruction) {
	for _, bb := range fn.Blocks {
		if bb.ReplaceInstruction(inst, nil) {
			return
		}
	}
}

// buildCallArgs produces the argument list for a call to the optimized
// function, given the original per-parameter source values (a caller's
// apply arguments, or a thunk's own block arguments): dead parameters
// contribute nothing, exploded parameters contribute one TupleExtract
// per leaf (appended to emitted), everything else passes its source
// value through unchanged.
func buildCallArgs(descs []*ArgumentDescriptor, source []tir.Value, emitted *[]tir.Instruction) []tir.Value {
	var args []tir.Value
	for _, d := range descs {
		src := source[d.Index]
		switch {
		case d.Dead:
			continue
		case d.CanExplode():
			for j, leaf := range d.Leaves {
				ext := tir.NewTupleExtract(src, j, leaf)
				*emitted = append(*emitted, ext)
				args = append(args, ext)
			}
		default:
			args = append(args, src)
		}
	}
	return args
}

// compensatingReleases returns one Release per owned→guaranteed
// descriptor, operating on the corresponding original source value:
// the caller now owns the reference the callee used to release,
// grounded on rewriteApplyInstToCallNewFunction and createThunkBody's
// shared "fix lifetime + release_value" step (fix_lifetime itself has
// no analogue in this IR; nothing in this repo reorders a release past
// a call it doesn't dominate, so the plain release is sufficient here).
func compensatingReleases(descs []*ArgumentDescriptor, source []tir.Value) []tir.Instruction {
	var out []tir.Instruction
	for _, d := range descs {
		if d.CalleeRelease != nil {
			out = append(out, &tir.Release{Operand: source[d.Index]})
		}
	}
	return out
}

// MakeThunk replaces fn's body (already emptied by OptimizeFunction)
// with a single block taking fn's original parameters and calling
// newFn with arguments rewritten per descs, grounded on createThunkBody.
func MakeThunk(fn *tir.Function, newFn *tir.Function, descs []*ArgumentDescriptor) {
	thunk := fn.AddBlock()

	source := make([]tir.Value, len(fn.Params))
	for i, p := range fn.Params {
		source[i] = thunk.CreateArgument(p.Type)
	}

	var emitted []tir.Instruction
	args := buildCallArgs(descs, source, &emitted)
	for _, inst := range emitted {
		thunk.AddInstruction(inst)
	}

	ref := tir.NewFunctionRef(newFn)
	thunk.AddInstruction(ref)
	call := tir.NewApply(ref, args, newFn.Result)
	thunk.AddInstruction(call)

	for _, rel := range compensatingReleases(descs, source) {
		thunk.AddInstruction(rel)
	}

	thunk.AddInstruction(&tir.Return{Value: call})
}
