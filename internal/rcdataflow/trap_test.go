package rcdataflow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ailang-project/corec/internal/tir"
)

func TestIsTrapBlockRecognizesCanonicalShape(t *testing.T) {
	fn := &tir.Function{Name: "f"}
	bb := fn.AddBlock()
	ref := &tir.BuiltinRef{Name: "int_trap"}
	apply := &tir.Apply{Callee: ref}
	bb.AddInstruction(ref)
	bb.AddInstruction(apply)
	bb.AddInstruction(&tir.Unreachable{})

	assert.True(t, isTrapBlock(bb))
}

func TestIsTrapBlockRejectsWrongBuiltinName(t *testing.T) {
	fn := &tir.Function{Name: "f"}
	bb := fn.AddBlock()
	ref := &tir.BuiltinRef{Name: "something_else"}
	bb.AddInstruction(ref)
	bb.AddInstruction(&tir.Apply{Callee: ref})
	bb.AddInstruction(&tir.Unreachable{})

	assert.False(t, isTrapBlock(bb))
}

func TestIsTrapBlockRejectsExtraArguments(t *testing.T) {
	fn := &tir.Function{Name: "f"}
	bb := fn.AddBlock()
	ref := &tir.BuiltinRef{Name: "int_trap"}
	bb.AddInstruction(ref)
	bb.AddInstruction(&tir.Apply{Callee: ref, Args: []tir.Value{&tir.BlockArgument{}}})
	bb.AddInstruction(&tir.Unreachable{})

	assert.False(t, isTrapBlock(bb))
}

func TestIsTrapBlockRejectsWrongLength(t *testing.T) {
	fn := &tir.Function{Name: "f"}
	bb := fn.AddBlock()
	bb.AddInstruction(&tir.Return{})

	assert.False(t, isTrapBlock(bb))
}

func TestIsTrapBlockRejectsOrdinaryReturn(t *testing.T) {
	fn := &tir.Function{Name: "f"}
	bb := fn.AddBlock()
	ref := &tir.BuiltinRef{Name: "int_trap"}
	bb.AddInstruction(ref)
	bb.AddInstruction(&tir.Apply{Callee: ref})
	bb.AddInstruction(&tir.Return{})

	assert.False(t, isTrapBlock(bb))
}
