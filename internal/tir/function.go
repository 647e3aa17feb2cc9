// Package tir implements the typed intermediate representation: a
// per-function control-flow graph of basic blocks and SSA-style
// instructions with typed block arguments standing in for phi nodes,
// plus the structural verifier that enforces its invariant catalogue.
//
// Grounded on original_source/include/swift/SIL/SILFunction.h and
// lib/SIL/SILBasicBlock.cpp, reshaped into Go: the intrusive C++ linked
// lists (llvm::iplist) become plain Go slices, since this package owns
// single-threaded, non-concurrent compilation state per spec.md §5 and
// has no need for iterator-stable splice operations across threads.
package tir

import (
	"fmt"

	"github.com/ailang-project/corec/internal/types"
)

// ParamConvention is the ownership contract a function parameter makes
// with its caller.
type ParamConvention int

const (
	// DirectOwned: caller transfers a +1 reference; callee releases it.
	DirectOwned ParamConvention = iota
	// DirectGuaranteed: caller keeps the value alive across the call;
	// callee must not release it.
	DirectGuaranteed
	// DirectUnowned: trivial transfer, no refcount traffic.
	DirectUnowned
	// Indirect: passed by address; ownership depends on accompanying
	// instructions.
	Indirect
)

func (c ParamConvention) String() string {
	switch c {
	case DirectOwned:
		return "@owned"
	case DirectGuaranteed:
		return "@guaranteed"
	case DirectUnowned:
		return "@unowned"
	case Indirect:
		return "@in"
	default:
		return fmt.Sprintf("ParamConvention(%d)", int(c))
	}
}

// Param describes one function parameter's type and convention.
type Param struct {
	Type       types.Type
	Convention ParamConvention
}

// InlineStrategy tags the optimizer's inlining disposition for a
// function.
type InlineStrategy int

const (
	InlineDefault InlineStrategy = iota
	InlineAlways
	InlineNever
)

// Linkage controls cross-module visibility of a function's definition.
type Linkage int

const (
	LinkagePublic Linkage = iota
	LinkageHidden
	LinkagePrivate
	LinkageExternal // declaration only, body lives in another module
)

// Function is a named typed-IR unit: a lowered function type (parameter
// list with explicit conventions, result type, calling convention), an
// optional list of basic blocks (nil/empty means an external
// declaration), a generic-context parameter list for archetypes, a
// reference count of external users, and a flag bundle.
type Function struct {
	Name          string
	Params        []Param
	Result        types.Type
	Convention    types.CallingConvention
	GenericParams []types.GenericParam

	Blocks []*BasicBlock

	Bare               bool
	Transparent        bool
	GlobalInitializer  bool
	Inline             InlineStrategy
	Linkage            Linkage
	ExternalUsers      int

	// next/prev chain functions in a module-level intrusive list, as
	// the teacher's SILFunction chains within its SILModule.
	next, prev *Function
}

// Type builds the thin function type a FunctionRef to f carries,
// grounded on functionInputs' inverse: a single parameter's type is used
// directly as Input, multiple parameters are packed into a Tuple,
// mirroring SILFunction::getLoweredFunctionType's relationship to a
// function_ref instruction's result type.
func (f *Function) Type() *types.Function {
	input := functionInputType(f.Params)
	return &types.Function{
		Input:      input,
		Result:     f.Result,
		Convention: f.Convention,
		Thin:       true,
	}
}

func functionInputType(params []Param) types.Type {
	if len(params) == 1 {
		return params[0].Type
	}
	elems := make([]types.TupleElement, len(params))
	for i, p := range params {
		elems[i] = types.TupleElement{Type: p.Type}
	}
	return &types.Tuple{Elements: elems}
}

// IsExternalDeclaration reports whether this function has no body.
func (f *Function) IsExternalDeclaration() bool { return len(f.Blocks) == 0 }

// EntryBlock returns the function's first basic block, or nil if the
// function is an external declaration.
func (f *Function) EntryBlock() *BasicBlock {
	if len(f.Blocks) == 0 {
		return nil
	}
	return f.Blocks[0]
}

// AddBlock appends a new basic block to the function and returns it.
func (f *Function) AddBlock() *BasicBlock {
	bb := &BasicBlock{Parent: f}
	f.Blocks = append(f.Blocks, bb)
	return bb
}

// AddBlockAfter inserts a new basic block immediately after after,
// grounded on SILBasicBlock's constructor's afterBB parameter.
func (f *Function) AddBlockAfter(after *BasicBlock) *BasicBlock {
	bb := &BasicBlock{Parent: f}
	idx := f.blockIndex(after)
	if idx < 0 {
		f.Blocks = append(f.Blocks, bb)
		return bb
	}
	f.Blocks = append(f.Blocks, nil)
	copy(f.Blocks[idx+2:], f.Blocks[idx+1:])
	f.Blocks[idx+1] = bb
	return bb
}

func (f *Function) blockIndex(bb *BasicBlock) int {
	for i, b := range f.Blocks {
		if b == bb {
			return i
		}
	}
	return -1
}

// EraseBlock removes bb from the function entirely, grounded on
// SILBasicBlock::eraseFromParent.
func (f *Function) EraseBlock(bb *BasicBlock) {
	idx := f.blockIndex(bb)
	if idx < 0 {
		return
	}
	f.Blocks = append(f.Blocks[:idx], f.Blocks[idx+1:]...)
}

// MoveBlockAfter relocates bb to immediately follow after within the
// same function, grounded on SILBasicBlock::moveAfter.
func (f *Function) MoveBlockAfter(bb, after *BasicBlock) {
	src := f.blockIndex(bb)
	dst := f.blockIndex(after)
	if src < 0 || dst < 0 || src == dst {
		return
	}
	blocks := make([]*BasicBlock, 0, len(f.Blocks))
	for i, b := range f.Blocks {
		if i == src {
			continue
		}
		blocks = append(blocks, b)
		if b == after {
			blocks = append(blocks, bb)
		}
	}
	f.Blocks = blocks
}
