package sigopt

import (
	"github.com/ailang-project/corec/internal/callgraph"
	"github.com/ailang-project/corec/internal/tir"
	"github.com/ailang-project/corec/internal/types"
)

// Result records the outcome of optimizing one function's signature.
type Result struct {
	// Original is the function that was optimized; it now holds a thunk
	// body calling Optimized.
	Original *tir.Function
	// Optimized is the newly synthesized function carrying Original's
	// former body under a rewritten signature.
	Optimized *tir.Function
	// ThunkDeletable is true iff every call site was rewritten (the
	// caller set was complete), so Original's thunk body has no
	// remaining caller and may be deleted once dead-code elimination
	// confirms it (spec.md §4.9 step 6).
	ThunkDeletable bool
}

// canSpecialize reports whether fn is eligible for this pass at all,
// independent of whether its arguments actually offer anything to
// optimize — grounded on canSpecializeFunction/isSpecializableCC.
func canSpecialize(fn *tir.Function) bool {
	if fn.IsExternalDeclaration() {
		return false
	}
	if IsOptimizedName(fn.Name) {
		return false
	}
	if fn.Transparent || fn.Inline == tir.InlineAlways {
		return false
	}
	if len(fn.GenericParams) > 0 {
		return false
	}
	switch fn.Convention {
	case types.ConvNative, types.ConvC:
		return true
	default:
		return false
	}
}

// Optimize runs function-signature optimization over every function in
// g reachable from a known call site, in g's bottom-up order, rewriting
// known call sites through editor as each function is optimized —
// grounded on FunctionSignatureOpts::run's per-function loop. g and
// editor must share the same underlying graph.
func Optimize(g *callgraph.Graph, editor *callgraph.Editor) []Result {
	var results []Result

	for _, fn := range g.BottomUpFunctionOrder() {
		if !canSpecialize(fn) {
			continue
		}

		node := g.Node(fn)
		if node == nil {
			continue
		}
		callers := node.IncomingEdges()
		if len(callers) == 0 {
			continue
		}

		descs, shouldOptimize := Analyze(fn)
		if !shouldOptimize {
			continue
		}

		callerSetComplete := node.IsCallerEdgesComplete()

		newFn := OptimizeFunction(fn, descs)
		MakeThunk(fn, newFn, descs)
		editor.AddFunction(newFn)

		for _, edge := range callers {
			apply, ok := edge.Apply.(*tir.Apply)
			if !ok {
				continue
			}
			newApply := RewriteCallSite(edge.Caller.Function, apply, newFn, descs)
			if newApply == nil {
				continue
			}
			editor.ReplaceApply(edge.Caller.Function, apply, []tir.Instruction{newApply})
		}

		results = append(results, Result{
			Original:       fn,
			Optimized:      newFn,
			ThunkDeletable: callerSetComplete,
		})
	}

	return results
}
