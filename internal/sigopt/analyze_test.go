package sigopt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailang-project/corec/internal/tir"
	"github.com/ailang-project/corec/internal/types"
)

func TestAnalyzeFindsDeadParameter(t *testing.T) {
	fn := &tir.Function{
		Name:   "f",
		Params: []tir.Param{{Type: types.Int64, Convention: tir.DirectUnowned}},
		Result: types.Int64,
	}
	entry := fn.AddBlock()
	entry.CreateArgument(types.Int64)
	entry.AddInstruction(&tir.Return{Value: &tir.BlockArgument{Type: types.Int64}})

	descs, should := Analyze(fn)
	require.Len(t, descs, 1)
	assert.True(t, descs[0].Dead)
	assert.True(t, should)
}

func TestAnalyzeFindsCalleeReleaseOnOwnedParameter(t *testing.T) {
	fn := &tir.Function{
		Name:   "f",
		Params: []tir.Param{{Type: types.NativeObj, Convention: tir.DirectOwned}},
		Result: types.Int64,
	}
	entry := fn.AddBlock()
	arg := entry.CreateArgument(types.NativeObj)
	rel := &tir.Release{Operand: arg}
	entry.AddInstruction(rel)
	entry.AddInstruction(&tir.Return{Value: &tir.BlockArgument{Type: types.Int64}})

	descs, should := Analyze(fn)
	require.Len(t, descs, 1)
	assert.Same(t, tir.Instruction(rel), descs[0].CalleeRelease)
	assert.True(t, should)
}

func TestAnalyzeNoCalleeReleaseWithMultipleExits(t *testing.T) {
	fn := &tir.Function{
		Name:   "f",
		Params: []tir.Param{{Type: types.NativeObj, Convention: tir.DirectOwned}},
		Result: types.Int64,
	}
	entry := fn.AddBlock()
	arg := entry.CreateArgument(types.Int64)
	a := fn.AddBlock()
	b := fn.AddBlock()
	entry.AddInstruction(&tir.CondBr{Condition: arg, TrueTarget: a, FalseTarget: b})
	a.AddInstruction(&tir.Return{Value: &tir.BlockArgument{Type: types.Int64}})
	b.AddInstruction(&tir.Return{Value: &tir.BlockArgument{Type: types.Int64}})

	descs, _ := Analyze(fn)
	require.Len(t, descs, 1)
	assert.Nil(t, descs[0].CalleeRelease)
}

func TestAnalyzeExplodesTupleParameter(t *testing.T) {
	tup := &types.Tuple{Elements: []types.TupleElement{
		{Type: types.Int64}, {Type: types.Int64},
	}}
	fn := &tir.Function{
		Name:   "f",
		Params: []tir.Param{{Type: tup, Convention: tir.DirectOwned}},
		Result: types.Int64,
	}
	entry := fn.AddBlock()
	arg := entry.CreateArgument(tup)
	entry.AddInstruction(&tir.Apply{Callee: arg})
	entry.AddInstruction(&tir.Return{Value: &tir.BlockArgument{Type: types.Int64}})

	descs, should := Analyze(fn)
	require.Len(t, descs, 1)
	require.Len(t, descs[0].Leaves, 2)
	assert.True(t, should)
}

func TestAnalyzeNoOptimizationOpportunity(t *testing.T) {
	fn := &tir.Function{
		Name:   "f",
		Params: []tir.Param{{Type: types.Int64, Convention: tir.DirectUnowned}},
		Result: types.Int64,
	}
	entry := fn.AddBlock()
	arg := entry.CreateArgument(types.Int64)
	entry.AddInstruction(&tir.Return{Value: arg})

	descs, should := Analyze(fn)
	require.Len(t, descs, 1)
	assert.False(t, should)
	assert.False(t, descs[0].WillOptimize())
}
