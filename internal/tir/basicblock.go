package tir

import (
	"fmt"

	"github.com/ailang-project/corec/internal/types"
)

// BlockArgument is a typed block parameter; block arguments replace phi
// nodes; a branch instruction supplies one value per target-block
// argument; types must match pairwise (spec.md §4.4).
type BlockArgument struct {
	Type  types.Type
	Block *BasicBlock
}

// BasicBlock is an ordered list of instructions terminated by exactly
// one terminator instruction, plus its typed argument list.
type BasicBlock struct {
	Parent       *Function
	Arguments    []*BlockArgument
	Instructions []Instruction
}

// Terminator returns the block's terminator instruction, or nil if the
// block currently has none (a transient state during construction or
// mid-split).
func (bb *BasicBlock) Terminator() Instruction {
	if len(bb.Instructions) == 0 {
		return nil
	}
	last := bb.Instructions[len(bb.Instructions)-1]
	if last.IsTerminator() {
		return last
	}
	return nil
}

// AddInstruction appends an instruction to the block.
func (bb *BasicBlock) AddInstruction(inst Instruction) {
	bb.Instructions = append(bb.Instructions, inst)
}

// CreateArgument appends a new typed argument to the block, grounded on
// SILBasicBlock::createArgument.
func (bb *BasicBlock) CreateArgument(t types.Type) *BlockArgument {
	arg := &BlockArgument{Type: t, Block: bb}
	bb.Arguments = append(bb.Arguments, arg)
	return arg
}

// ReplaceArgument replaces the i-th argument with one of type t,
// requiring the old argument to have no remaining uses — grounded on
// SILBasicBlock::replaceBBArg. stillUsed is supplied by the caller since
// this package does not itself track a global use-list.
func (bb *BasicBlock) ReplaceArgument(i int, t types.Type, stillUsed bool) (*BlockArgument, error) {
	if i < 0 || i >= len(bb.Arguments) {
		return nil, fmt.Errorf("tir: argument index %d out of range", i)
	}
	if stillUsed {
		return nil, fmt.Errorf("tir: cannot replace argument %d with remaining uses", i)
	}
	arg := &BlockArgument{Type: t, Block: bb}
	bb.Arguments[i] = arg
	return arg, nil
}

// EraseArgument removes the i-th argument.
func (bb *BasicBlock) EraseArgument(i int) {
	if i < 0 || i >= len(bb.Arguments) {
		return
	}
	bb.Arguments = append(bb.Arguments[:i], bb.Arguments[i+1:]...)
}

// InsertArgument inserts a new argument of type t at position i.
func (bb *BasicBlock) InsertArgument(i int, t types.Type) *BlockArgument {
	arg := &BlockArgument{Type: t, Block: bb}
	if i < 0 || i > len(bb.Arguments) {
		bb.Arguments = append(bb.Arguments, arg)
		return arg
	}
	bb.Arguments = append(bb.Arguments, nil)
	copy(bb.Arguments[i+1:], bb.Arguments[i:])
	bb.Arguments[i] = arg
	return arg
}

// ReplaceInstruction substitutes old's single slot in bb's instruction
// list with the (possibly multi-instruction, possibly empty)
// replacement sequence, preserving every other instruction's position.
// Used by internal/sigopt to rewrite one apply into a sequence of
// projection instructions followed by a new apply. Reports whether old
// was found.
func (bb *BasicBlock) ReplaceInstruction(old Instruction, replacement []Instruction) bool {
	for i, inst := range bb.Instructions {
		if inst != old {
			continue
		}
		out := make([]Instruction, 0, len(bb.Instructions)-1+len(replacement))
		out = append(out, bb.Instructions[:i]...)
		out = append(out, replacement...)
		out = append(out, bb.Instructions[i+1:]...)
		bb.Instructions = out
		return true
	}
	return false
}

// EraseFromParent unlinks bb from its function, grounded on
// SILBasicBlock::eraseFromParent.
func (bb *BasicBlock) EraseFromParent() {
	if bb.Parent != nil {
		bb.Parent.EraseBlock(bb)
	}
}

// Split splits the block into two at instruction index i: instructions
// before i stay in bb; instructions at and after i (including the
// terminator) move to a newly created successor block. bb is left
// without a terminator, grounded on SILBasicBlock::splitBasicBlock.
func (bb *BasicBlock) Split(i int) *BasicBlock {
	if i < 0 || i > len(bb.Instructions) {
		i = len(bb.Instructions)
	}
	tail := bb.Instructions[i:]
	bb.Instructions = bb.Instructions[:i:i]

	newBB := bb.Parent.AddBlockAfter(bb)
	newBB.Instructions = append(newBB.Instructions, tail...)
	return newBB
}

// SplitAndBranch splits the block as Split does, then inserts an
// unconditional branch from bb to the new block, grounded on
// SILBasicBlock::splitBasicBlockAndBranch.
func (bb *BasicBlock) SplitAndBranch(i int, args []Value) *BasicBlock {
	newBB := bb.Split(i)
	bb.AddInstruction(&Br{Target: newBB, Args: args})
	return newBB
}

// MoveAfter relocates bb to immediately follow after within the same
// function, grounded on SILBasicBlock::moveAfter.
func (bb *BasicBlock) MoveAfter(after *BasicBlock) {
	if bb.Parent != nil && bb.Parent == after.Parent {
		bb.Parent.MoveBlockAfter(bb, after)
	}
}

// Successors returns the blocks this block's terminator can branch to.
func (bb *BasicBlock) Successors() []*BasicBlock {
	term := bb.Terminator()
	if term == nil {
		return nil
	}
	switch t := term.(type) {
	case *Br:
		return []*BasicBlock{t.Target}
	case *CondBr:
		return []*BasicBlock{t.TrueTarget, t.FalseTarget}
	case *SwitchEnum:
		targets := make([]*BasicBlock, 0, len(t.Cases)+1)
		for _, c := range t.Cases {
			targets = append(targets, c.Target)
		}
		if t.Default != nil {
			targets = append(targets, t.Default)
		}
		return targets
	case *SwitchInt:
		targets := make([]*BasicBlock, 0, len(t.Cases)+1)
		for _, c := range t.Cases {
			targets = append(targets, c.Target)
		}
		if t.Default != nil {
			targets = append(targets, t.Default)
		}
		return targets
	default:
		return nil
	}
}

// IsCriticalEdge reports whether the edge from bb to succ is critical:
// bb has more than one successor and succ has more than one predecessor
// (spec.md §4.5). predCount supplies succ's precomputed predecessor count
// since BasicBlock does not itself maintain a predecessor list.
func IsCriticalEdge(bb, succ *BasicBlock, predCount int) bool {
	return len(bb.Successors()) > 1 && predCount > 1
}

// SplitCriticalEdge inserts a new block on the edge from bb to succ,
// carrying the given argument values, and retargets bb's terminator at
// the index identifying succ to the new block. Returns the new block.
func SplitCriticalEdge(bb, succ *BasicBlock, args []Value) *BasicBlock {
	edgeBB := bb.Parent.AddBlockAfter(bb)
	edgeBB.AddInstruction(&Br{Target: succ, Args: args})
	retargetTerminator(bb, succ, edgeBB)
	return edgeBB
}

func retargetTerminator(bb, oldTarget, newTarget *BasicBlock) {
	switch t := bb.Terminator().(type) {
	case *Br:
		if t.Target == oldTarget {
			t.Target = newTarget
		}
	case *CondBr:
		if t.TrueTarget == oldTarget {
			t.TrueTarget = newTarget
		}
		if t.FalseTarget == oldTarget {
			t.FalseTarget = newTarget
		}
	case *SwitchEnum:
		for _, c := range t.Cases {
			if c.Target == oldTarget {
				c.Target = newTarget
			}
		}
		if t.Default == oldTarget {
			t.Default = newTarget
		}
	case *SwitchInt:
		for _, c := range t.Cases {
			if c.Target == oldTarget {
				c.Target = newTarget
			}
		}
		if t.Default == oldTarget {
			t.Default = newTarget
		}
	}
}
