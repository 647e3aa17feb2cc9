package tir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailang-project/corec/internal/errors"
	"github.com/ailang-project/corec/internal/types"
)

type stubDecl string

func (d stubDecl) DeclName() string { return string(d) }

func funcType(in, out types.Type) *types.Function {
	return &types.Function{Input: in, Result: out}
}

func TestVerifySkipsExternalDeclarations(t *testing.T) {
	fn := &Function{Name: "extern"}
	assert.Nil(t, Verify(fn))
}

func TestVerifyTerminatorMustBeLast(t *testing.T) {
	fn := &Function{Name: "f"}
	bb := fn.AddBlock()
	bb.AddInstruction(&Return{})
	bb.AddInstruction(&Load{Address: &BlockArgument{Type: &types.LValue{Object: types.Int64}}})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR001, err.Code)
}

func TestVerifyBlockWithNoInstructionsFails(t *testing.T) {
	fn := &Function{Name: "f"}
	fn.AddBlock()

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR001, err.Code)
}

func TestVerifyEntryArityMismatch(t *testing.T) {
	fn := &Function{
		Name:   "f",
		Params: []Param{{Type: types.Int64, Convention: DirectOwned}},
	}
	entry := fn.AddBlock()
	entry.AddInstruction(&Return{})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR009, err.Code)
}

func TestVerifyEntryArityMatches(t *testing.T) {
	fn := &Function{
		Name:   "f",
		Params: []Param{{Type: types.Int64, Convention: DirectOwned}},
		Result: types.Int64,
	}
	entry := fn.AddBlock()
	entry.CreateArgument(types.Int64)
	entry.AddInstruction(&Return{Value: entry.Arguments[0]})

	assert.Nil(t, Verify(fn))
}

func TestVerifyDominanceRejectsUseBeforeDef(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	other := fn.AddBlock()

	ld := &Load{instResult: instResult{Result: types.Int64}, Address: &BlockArgument{Type: &types.LValue{Object: types.Int64}}}
	other.AddInstruction(ld)
	other.AddInstruction(&Return{Value: ld})

	// entry uses ld, defined only in the unrelated sibling block "other" —
	// entry cannot be dominated by a block it never branches from.
	entry.AddInstruction(&Return{Value: ld})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR002, err.Code)
}

func TestVerifyDominanceAcceptsSameBlockEarlierDef(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	ld := &Load{instResult: instResult{Result: types.Int64}, Address: &BlockArgument{Type: &types.LValue{Object: types.Int64}}}
	entry.AddInstruction(ld)
	entry.AddInstruction(&Return{Value: ld})

	assert.Nil(t, Verify(fn))
}

func TestVerifyApplyArgCountMismatch(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	callee := &BlockArgument{Type: funcType(types.Int64, types.Int64)}
	ap := &Apply{instResult: instResult{Result: types.Int64}, Callee: callee, Args: nil}
	entry.AddInstruction(ap)
	entry.AddInstruction(&Return{Value: ap})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR003, err.Code)
}

func TestVerifyApplyArgTypeMismatch(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	callee := &BlockArgument{Type: funcType(types.Int64, types.Int64)}
	arg := &BlockArgument{Type: types.Float32}
	ap := &Apply{instResult: instResult{Result: types.Int64}, Callee: callee, Args: []Value{arg}}
	entry.AddInstruction(ap)
	entry.AddInstruction(&Return{Value: ap})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR003, err.Code)
}

func TestVerifyApplyWellTyped(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	callee := &BlockArgument{Type: funcType(types.Int64, types.Int64)}
	arg := &BlockArgument{Type: types.Int64}
	ap := &Apply{instResult: instResult{Result: types.Int64}, Callee: callee, Args: []Value{arg}}
	entry.AddInstruction(ap)
	entry.AddInstruction(&Return{Value: ap})

	assert.Nil(t, Verify(fn))
}

func TestVerifyPartialApplyRejectsThinResult(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	thinCallee := &BlockArgument{Type: &types.Function{Input: types.Int64, Result: types.Int64, Thin: true}}
	arg := &BlockArgument{Type: types.Int64}
	pa := &PartialApply{instResult: instResult{Result: types.Int64}, Callee: thinCallee, Args: []Value{arg}}
	entry.AddInstruction(pa)
	entry.AddInstruction(&Return{Value: pa})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR010, err.Code)
}

func TestVerifyPartialApplyAcceptsNonThinResult(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	callee := &BlockArgument{Type: &types.Function{Input: types.Int64, Result: types.Int64}}
	arg := &BlockArgument{Type: types.Int64}
	pa := &PartialApply{instResult: instResult{Result: types.Int64}, Callee: callee, Args: []Value{arg}}
	entry.AddInstruction(pa)
	entry.AddInstruction(&Return{Value: pa})

	assert.Nil(t, Verify(fn))
}

func TestVerifyLoadTypeMismatch(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	addr := &BlockArgument{Type: &types.LValue{Object: types.Int32}}
	ld := &Load{instResult: instResult{Result: types.Int64}, Address: addr}
	entry.AddInstruction(ld)
	entry.AddInstruction(&Return{Value: ld})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR004, err.Code)
}

func TestVerifyStoreTypeMismatch(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	addr := &BlockArgument{Type: &types.LValue{Object: types.Int32}}
	src := &BlockArgument{Type: types.Int64}
	entry.AddInstruction(&Store{Source: src, Destination: addr})
	entry.AddInstruction(&Return{})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR004, err.Code)
}

func TestVerifySwitchEnumExhaustiveRejectsDefault(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	caseA := fn.AddBlock()
	caseA.AddInstruction(&Return{})
	caseB := fn.AddBlock()
	caseB.AddInstruction(&Return{})

	scrutinee := &BlockArgument{Type: types.NewNominal(types.EnumKind, stubDecl("Option"))}
	se := &SwitchEnum{
		Scrutinee: scrutinee,
		Cases: []*EnumCase{
			{CaseName: "A", Target: caseA},
			{CaseName: "B", Target: caseB},
		},
		Default:  caseA,
		AllCases: []string{"A", "B"},
	}
	entry.AddInstruction(se)

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR006, err.Code)
}

func TestVerifySwitchEnumNonExhaustiveRequiresDefault(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	caseA := fn.AddBlock()
	caseA.AddInstruction(&Return{})

	scrutinee := &BlockArgument{Type: types.NewNominal(types.EnumKind, stubDecl("Option"))}
	se := &SwitchEnum{
		Scrutinee: scrutinee,
		Cases:     []*EnumCase{{CaseName: "A", Target: caseA}},
		AllCases:  []string{"A", "B"},
	}
	entry.AddInstruction(se)

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR006, err.Code)
}

func TestVerifySwitchEnumDuplicateCase(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	caseA := fn.AddBlock()
	caseA.AddInstruction(&Return{})

	scrutinee := &BlockArgument{Type: types.NewNominal(types.EnumKind, stubDecl("Option"))}
	se := &SwitchEnum{
		Scrutinee: scrutinee,
		Cases: []*EnumCase{
			{CaseName: "A", Target: caseA},
			{CaseName: "A", Target: caseA},
		},
		AllCases: []string{"A"},
	}
	entry.AddInstruction(se)

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR006, err.Code)
}

func TestVerifySwitchEnumPayloadArityMismatch(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	caseA := fn.AddBlock()
	caseA.AddInstruction(&Return{})

	scrutinee := &BlockArgument{Type: types.NewNominal(types.EnumKind, stubDecl("Option"))}
	se := &SwitchEnum{
		Scrutinee: scrutinee,
		Cases:     []*EnumCase{{CaseName: "Some", Payload: types.Int64, Target: caseA}},
		AllCases:  []string{"Some"},
	}
	entry.AddInstruction(se)

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR006, err.Code)
}

func TestVerifySwitchEnumExhaustiveWellFormed(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	caseA := fn.AddBlock()
	caseA.CreateArgument(types.Int64)
	caseA.AddInstruction(&Return{})
	caseB := fn.AddBlock()
	caseB.AddInstruction(&Return{})

	scrutinee := &BlockArgument{Type: types.NewNominal(types.EnumKind, stubDecl("Option"))}
	se := &SwitchEnum{
		Scrutinee: scrutinee,
		Cases: []*EnumCase{
			{CaseName: "Some", Payload: types.Int64, Target: caseA},
			{CaseName: "None", Target: caseB},
		},
		AllCases: []string{"Some", "None"},
	}
	entry.AddInstruction(se)

	assert.Nil(t, Verify(fn))
}

func TestVerifySwitchIntDuplicateValue(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	target := fn.AddBlock()
	target.AddInstruction(&Return{})

	si := &SwitchInt{
		Scrutinee: &BlockArgument{Type: types.Int32},
		Cases: []*IntCase{
			{Value: 1, Target: target},
			{Value: 1, Target: target},
		},
	}
	entry.AddInstruction(si)

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR006, err.Code)
}

func TestVerifySwitchIntWellFormed(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	t1 := fn.AddBlock()
	t1.AddInstruction(&Return{})
	t2 := fn.AddBlock()
	t2.AddInstruction(&Return{})

	si := &SwitchInt{
		Scrutinee: &BlockArgument{Type: types.Int32},
		Cases: []*IntCase{
			{Value: 0, Target: t1},
			{Value: 1, Target: t2},
		},
	}
	entry.AddInstruction(si)

	assert.Nil(t, Verify(fn))
}

func TestVerifyCondBrRejectsNonBooleanCondition(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	trueB := fn.AddBlock()
	trueB.AddInstruction(&Return{})
	falseB := fn.AddBlock()
	falseB.AddInstruction(&Return{})

	cb := &CondBr{
		Condition:   &BlockArgument{Type: types.Int32},
		TrueTarget:  trueB,
		FalseTarget: falseB,
	}
	entry.AddInstruction(cb)

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR007, err.Code)
}

func TestVerifyCondBrWellFormed(t *testing.T) {
	fn := &Function{Name: "f"}
	entry := fn.AddBlock()
	trueB := fn.AddBlock()
	trueB.AddInstruction(&Return{})
	falseB := fn.AddBlock()
	falseB.AddInstruction(&Return{})

	cb := &CondBr{
		Condition:   &BlockArgument{Type: types.Int1},
		TrueTarget:  trueB,
		FalseTarget: falseB,
	}
	entry.AddInstruction(cb)

	assert.Nil(t, Verify(fn))
}

func TestVerifyReturnTypeMismatch(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	entry.AddInstruction(&Return{Value: &BlockArgument{Type: types.Float32}})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR008, err.Code)
}

func TestVerifyAutoreleaseReturnTypeMismatch(t *testing.T) {
	fn := &Function{Name: "f", Result: types.NativeObj}
	entry := fn.AddBlock()
	entry.AddInstruction(&AutoreleaseReturn{Value: &BlockArgument{Type: types.Int64}})

	err := Verify(fn)
	require.NotNil(t, err)
	assert.Equal(t, errors.IR008, err.Code)
}

func TestMustVerifyPanicsOnViolation(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	entry.AddInstruction(&Return{Value: &BlockArgument{Type: types.Float32}})

	assert.Panics(t, func() { MustVerify(fn) })
}

func TestMustVerifyDoesNotPanicOnWellFormed(t *testing.T) {
	fn := &Function{Name: "f", Result: types.Int64}
	entry := fn.AddBlock()
	entry.AddInstruction(&Return{Value: &BlockArgument{Type: types.Int64}})

	assert.NotPanics(t, func() { MustVerify(fn) })
}
