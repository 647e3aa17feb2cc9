package tir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailang-project/corec/internal/types"
)

func TestTerminatorNilOnEmptyBlock(t *testing.T) {
	bb := &BasicBlock{}
	assert.Nil(t, bb.Terminator())
}

func TestTerminatorOnlyWhenLastInstructionIsTerminator(t *testing.T) {
	bb := &BasicBlock{}
	bb.AddInstruction(&Load{Address: &BlockArgument{Type: &types.LValue{Object: types.Int64}}})
	assert.Nil(t, bb.Terminator())

	ret := &Return{}
	bb.AddInstruction(ret)
	assert.Equal(t, Instruction(ret), bb.Terminator())
}

func TestCreateArgument(t *testing.T) {
	bb := &BasicBlock{}
	arg := bb.CreateArgument(types.Int32)
	require.Len(t, bb.Arguments, 1)
	assert.Same(t, arg, bb.Arguments[0])
	assert.Equal(t, types.Int32, arg.ValueType())
}

func TestReplaceArgumentRejectsStillUsed(t *testing.T) {
	bb := &BasicBlock{}
	bb.CreateArgument(types.Int32)

	_, err := bb.ReplaceArgument(0, types.Int64, true)
	assert.Error(t, err)
}

func TestReplaceArgumentRejectsOutOfRange(t *testing.T) {
	bb := &BasicBlock{}
	_, err := bb.ReplaceArgument(0, types.Int64, false)
	assert.Error(t, err)
}

func TestReplaceArgumentSucceeds(t *testing.T) {
	bb := &BasicBlock{}
	bb.CreateArgument(types.Int32)

	newArg, err := bb.ReplaceArgument(0, types.Int64, false)
	require.NoError(t, err)
	assert.Same(t, newArg, bb.Arguments[0])
	assert.Equal(t, types.Int64, bb.Arguments[0].Type)
}

func TestEraseArgument(t *testing.T) {
	bb := &BasicBlock{}
	bb.CreateArgument(types.Int32)
	bb.CreateArgument(types.Int64)

	bb.EraseArgument(0)
	require.Len(t, bb.Arguments, 1)
	assert.Equal(t, types.Int64, bb.Arguments[0].Type)
}

func TestInsertArgument(t *testing.T) {
	bb := &BasicBlock{}
	bb.CreateArgument(types.Int32)
	bb.CreateArgument(types.Int64)

	mid := bb.InsertArgument(1, types.Float32)
	require.Len(t, bb.Arguments, 3)
	assert.Same(t, mid, bb.Arguments[1])
	assert.Equal(t, []types.Type{types.Int32, types.Float32, types.Int64},
		[]types.Type{bb.Arguments[0].Type, bb.Arguments[1].Type, bb.Arguments[2].Type})
}

func TestEraseFromParent(t *testing.T) {
	fn := &Function{Name: "f"}
	b0 := fn.AddBlock()
	b1 := fn.AddBlock()

	b1.EraseFromParent()
	assert.Equal(t, []*BasicBlock{b0}, fn.Blocks)
}

func TestSplitMovesTailIncludingTerminator(t *testing.T) {
	fn := &Function{Name: "f"}
	bb := fn.AddBlock()
	ld := &Load{Address: &BlockArgument{Type: &types.LValue{Object: types.Int64}}}
	cast := &Cast{Kind: CastUpcast}
	ret := &Return{}
	bb.AddInstruction(ld)
	bb.AddInstruction(cast)
	bb.AddInstruction(ret)

	newBB := bb.Split(1)

	assert.Equal(t, []Instruction{ld}, bb.Instructions)
	assert.Nil(t, bb.Terminator())
	assert.Equal(t, []Instruction{cast, ret}, newBB.Instructions)
	assert.Equal(t, []*BasicBlock{bb, newBB}, fn.Blocks)
}

func TestSplitAndBranchInsertsBr(t *testing.T) {
	fn := &Function{Name: "f"}
	bb := fn.AddBlock()
	ret := &Return{}
	bb.AddInstruction(ret)

	newBB := bb.SplitAndBranch(0, nil)

	require.Len(t, bb.Instructions, 1)
	br, ok := bb.Instructions[0].(*Br)
	require.True(t, ok)
	assert.Same(t, newBB, br.Target)
	assert.Equal(t, []Instruction{ret}, newBB.Instructions)
}

func TestMoveAfterWithinSameFunction(t *testing.T) {
	fn := &Function{Name: "f"}
	b0 := fn.AddBlock()
	b1 := fn.AddBlock()
	b2 := fn.AddBlock()

	b0.MoveAfter(b2)
	assert.Equal(t, []*BasicBlock{b1, b2, b0}, fn.Blocks)
}

func TestMoveAfterIgnoresDifferentFunction(t *testing.T) {
	fn1 := &Function{Name: "f1"}
	fn2 := &Function{Name: "f2"}
	b0 := fn1.AddBlock()
	other := fn2.AddBlock()

	b0.MoveAfter(other)
	assert.Equal(t, []*BasicBlock{b0}, fn1.Blocks)
}

func TestSuccessorsPerTerminatorKind(t *testing.T) {
	fn := &Function{Name: "f"}
	target := fn.AddBlock()
	target.AddInstruction(&Return{})

	br := fn.AddBlock()
	br.AddInstruction(&Br{Target: target})
	assert.Equal(t, []*BasicBlock{target}, br.Successors())

	trueT := fn.AddBlock()
	trueT.AddInstruction(&Return{})
	falseT := fn.AddBlock()
	falseT.AddInstruction(&Return{})
	cond := fn.AddBlock()
	cond.AddInstruction(&CondBr{TrueTarget: trueT, FalseTarget: falseT})
	assert.Equal(t, []*BasicBlock{trueT, falseT}, cond.Successors())

	ret := fn.AddBlock()
	ret.AddInstruction(&Return{})
	assert.Nil(t, ret.Successors())
}

func TestIsCriticalEdge(t *testing.T) {
	fn := &Function{Name: "f"}
	a := fn.AddBlock()
	b := fn.AddBlock()
	c := fn.AddBlock()
	a.AddInstruction(&CondBr{TrueTarget: b, FalseTarget: c})

	assert.True(t, IsCriticalEdge(a, b, 2))
	assert.False(t, IsCriticalEdge(a, b, 1))
}

func TestSplitCriticalEdgeRetargetsCondBr(t *testing.T) {
	fn := &Function{Name: "f"}
	a := fn.AddBlock()
	b := fn.AddBlock()
	c := fn.AddBlock()
	b.AddInstruction(&Return{})
	c.AddInstruction(&Return{})
	condbr := &CondBr{TrueTarget: b, FalseTarget: c}
	a.AddInstruction(condbr)

	edgeBB := SplitCriticalEdge(a, b, nil)

	assert.Equal(t, edgeBB, condbr.TrueTarget)
	assert.Equal(t, c, condbr.FalseTarget)
	br, ok := edgeBB.Terminator().(*Br)
	require.True(t, ok)
	assert.Equal(t, b, br.Target)
}
