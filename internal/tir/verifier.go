package tir

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"github.com/ailang-project/corec/internal/errors"
	"github.com/ailang-project/corec/internal/types"
)

// VerifyError reports one structural-invariant violation, with a dump of
// the offending instruction/block/function the way the teacher's own
// fatal diagnostics dump their subject before aborting.
type VerifyError struct {
	Code     string
	Message  string
	Function string
	Dump     string
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("%s: %s (in function %s)\n%s", e.Code, e.Message, e.Function, e.Dump)
}

// dominance is a minimal per-function dominator query: since this
// package models a single-entry CFG with instruction order total within
// a block (spec.md §5), an operand dominates a user either by residing
// strictly earlier in the same block, or by its defining block
// dominating the user's block via straight-line reachability from entry
// with no intervening join — computed here via a reverse-postorder walk
// of the block graph's immediate-dominator tree (iterative dataflow,
// since typed-IR CFGs are not guaranteed reducible-by-construction but
// the verifier only needs a conservative over-approximation: reject
// when in doubt).
type dominance struct {
	idom map[*BasicBlock]*BasicBlock
	rpo  map[*BasicBlock]int
}

func computeDominance(f *Function) *dominance {
	entry := f.EntryBlock()
	if entry == nil {
		return &dominance{idom: map[*BasicBlock]*BasicBlock{}, rpo: map[*BasicBlock]int{}}
	}

	order := reversePostorder(f, entry)
	rpo := make(map[*BasicBlock]int, len(order))
	for i, bb := range order {
		rpo[bb] = i
	}

	preds := predecessors(f)

	idom := map[*BasicBlock]*BasicBlock{entry: entry}
	changed := true
	for changed {
		changed = false
		for _, bb := range order[1:] {
			var newIdom *BasicBlock
			for _, p := range preds[bb] {
				if idom[p] == nil {
					continue
				}
				if newIdom == nil {
					newIdom = p
					continue
				}
				newIdom = intersect(newIdom, p, idom, rpo)
			}
			if idom[bb] != newIdom {
				idom[bb] = newIdom
				changed = true
			}
		}
	}
	return &dominance{idom: idom, rpo: rpo}
}

func intersect(a, b *BasicBlock, idom map[*BasicBlock]*BasicBlock, rpo map[*BasicBlock]int) *BasicBlock {
	for a != b {
		for rpo[a] > rpo[b] {
			a = idom[a]
			if a == nil {
				return b
			}
		}
		for rpo[b] > rpo[a] {
			b = idom[b]
			if b == nil {
				return a
			}
		}
	}
	return a
}

func reversePostorder(f *Function, entry *BasicBlock) []*BasicBlock {
	visited := map[*BasicBlock]bool{}
	var post []*BasicBlock
	var visit func(bb *BasicBlock)
	visit = func(bb *BasicBlock) {
		if visited[bb] {
			return
		}
		visited[bb] = true
		for _, s := range bb.Successors() {
			visit(s)
		}
		post = append(post, bb)
	}
	visit(entry)
	for i, j := 0, len(post)-1; i < j; i, j = i+1, j-1 {
		post[i], post[j] = post[j], post[i]
	}
	return post
}

func predecessors(f *Function) map[*BasicBlock][]*BasicBlock {
	preds := make(map[*BasicBlock][]*BasicBlock)
	for _, bb := range f.Blocks {
		for _, s := range bb.Successors() {
			preds[s] = append(preds[s], bb)
		}
	}
	return preds
}

// Dominates reports whether defBlock dominates useBlock. A block
// dominates itself; instruction order within one block is checked by
// verifyDominance.
func (d *dominance) Dominates(defBlock, useBlock *BasicBlock) bool {
	if defBlock == useBlock {
		return true
	}
	b := useBlock
	for {
		idom := d.idom[b]
		if idom == nil {
			return false
		}
		if idom == defBlock {
			return true
		}
		if idom == b {
			return false
		}
		b = idom
	}
}

// Verify checks f's terminator placement, entry-block arity, operand
// dominance, and the apply, partial_apply, load, store, switch_enum,
// switch_int, cond_br, return and autorelease_return rules, returning the
// first violation found, or nil if none is found. Cast-family
// preconditions and use-list consistency are not checked. Per spec.md §4.4 the
// verifier runs in debug mode on every function; callers that want the
// "dump and abort" behavior should call MustVerify instead.
func Verify(f *Function) *VerifyError {
	if f.IsExternalDeclaration() {
		return nil
	}

	if err := verifyTerminators(f); err != nil {
		return err
	}
	if err := verifyEntryArity(f); err != nil {
		return err
	}
	dom := computeDominance(f)
	if err := verifyDominance(f, dom); err != nil {
		return err
	}
	for _, bb := range f.Blocks {
		if err := verifyTerminatorInstruction(f, bb); err != nil {
			return err
		}
	}
	return nil
}

// MustVerify calls Verify and, on failure, dumps the offending
// instruction/block/function via go-spew and panics — the fatal
// dump-and-abort path spec.md §4.4 requires for every structural
// invariant violation.
func MustVerify(f *Function) {
	if err := Verify(f); err != nil {
		panic(err)
	}
}

func verifyTerminators(f *Function) *VerifyError {
	for _, bb := range f.Blocks {
		for i, inst := range bb.Instructions {
			isLast := i == len(bb.Instructions)-1
			if inst.IsTerminator() != isLast {
				return verifyFail(errors.IR001, "terminator must be exactly the block's last instruction", f, bb, inst)
			}
		}
		if len(bb.Instructions) == 0 {
			return verifyFail(errors.IR001, "block has no instructions and thus no terminator", f, bb, nil)
		}
	}
	return nil
}

func verifyEntryArity(f *Function) *VerifyError {
	entry := f.EntryBlock()
	if entry == nil {
		return nil
	}
	if len(entry.Arguments) != len(f.Params) {
		return verifyFail(errors.IR009, fmt.Sprintf("entry block has %d arguments, function declares %d parameters", len(entry.Arguments), len(f.Params)), f, entry, nil)
	}
	for i, arg := range entry.Arguments {
		if !types.Equal(arg.Type, f.Params[i].Type) {
			return verifyFail(errors.IR009, fmt.Sprintf("entry argument %d type %s does not match parameter type %s", i, arg.Type, f.Params[i].Type), f, entry, nil)
		}
	}
	return nil
}

func verifyDominance(f *Function, dom *dominance) *VerifyError {
	defBlock := make(map[Value]*BasicBlock)
	defIndex := make(map[Value]int)
	for _, bb := range f.Blocks {
		for _, arg := range bb.Arguments {
			defBlock[arg] = bb
		}
		for i, inst := range bb.Instructions {
			if rv, ok := inst.(Value); ok {
				defBlock[rv] = bb
				defIndex[rv] = i
			}
		}
	}

	for _, bb := range f.Blocks {
		for i, inst := range bb.Instructions {
			for _, operand := range inst.Operands() {
				if operand == nil {
					continue
				}
				db, ok := defBlock[operand]
				if !ok {
					continue // operand defined outside this function (e.g. a constant)
				}
				if !dom.Dominates(db, bb) {
					return verifyFail(errors.IR002, "operand's defining instruction does not dominate its use", f, bb, inst)
				}
				if idx, isInst := defIndex[operand]; isInst && db == bb && idx >= i {
					return verifyFail(errors.IR002, "operand's defining instruction does not precede its use", f, bb, inst)
				}
			}
		}
	}
	return nil
}

func verifyTerminatorInstruction(f *Function, bb *BasicBlock) *VerifyError {
	term := bb.Terminator()
	if term == nil {
		return nil
	}
	switch t := term.(type) {
	case *Apply:
		return verifyApply(f, bb, t.Callee, t.Args, t.Result)
	case *SwitchEnum:
		return verifySwitchEnum(f, bb, t)
	case *SwitchInt:
		return verifySwitchInt(f, bb, t)
	case *CondBr:
		return verifyCondBr(f, bb, t)
	case *Return:
		if t.Value != nil && !types.Equal(t.Value.ValueType(), f.Result) {
			return verifyFail(errors.IR008, "return value type does not match function result type", f, bb, t)
		}
	case *AutoreleaseReturn:
		if t.Value != nil && !types.Equal(t.Value.ValueType(), f.Result) {
			return verifyFail(errors.IR008, "autorelease_return value type does not match function result type", f, bb, t)
		}
	}

	// Apply/Load/Store/Cast/PartialApply may also occur in non-terminator
	// position; verify every instruction in the block, not just the
	// terminator.
	for _, inst := range bb.Instructions {
		switch t := inst.(type) {
		case *Apply:
			if err := verifyApply(f, bb, t.Callee, t.Args, t.Result); err != nil {
				return err
			}
		case *PartialApply:
			if err := verifyPartialApply(f, bb, t); err != nil {
				return err
			}
		case *Load:
			if err := verifyLoad(f, bb, t); err != nil {
				return err
			}
		case *Store:
			if err := verifyStore(f, bb, t); err != nil {
				return err
			}
		}
	}
	return nil
}

func verifyApply(f *Function, bb *BasicBlock, callee Value, args []Value, resultType types.Type) *VerifyError {
	fn, ok := callee.ValueType().(*types.Function)
	if !ok {
		return verifyFail(errors.IR003, "apply callee is not a function type", f, bb, nil)
	}
	inputs := functionInputs(fn)
	if len(args) != len(inputs) {
		return verifyFail(errors.IR003, fmt.Sprintf("apply has %d arguments, callee expects %d", len(args), len(inputs)), f, bb, nil)
	}
	for i, a := range args {
		if !types.Equal(a.ValueType(), inputs[i]) {
			return verifyFail(errors.IR003, fmt.Sprintf("apply argument %d type mismatch", i), f, bb, nil)
		}
	}
	if resultType != nil && !types.Equal(resultType, fn.Result) {
		return verifyFail(errors.IR003, "apply result type does not match callee's declared result type", f, bb, nil)
	}
	return nil
}

func verifyPartialApply(f *Function, bb *BasicBlock, pa *PartialApply) *VerifyError {
	fn, ok := pa.Callee.ValueType().(*types.Function)
	if !ok {
		return verifyFail(errors.IR010, "partial_apply callee is not a function type", f, bb, pa)
	}
	inputs := functionInputs(fn)
	if len(pa.Args) > len(inputs) {
		return verifyFail(errors.IR010, "partial_apply consumes more parameters than the callee has", f, bb, pa)
	}
	offset := len(inputs) - len(pa.Args)
	for i, a := range pa.Args {
		if !types.Equal(a.ValueType(), inputs[offset+i]) {
			return verifyFail(errors.IR010, fmt.Sprintf("partial_apply captured argument %d type mismatch", i), f, bb, pa)
		}
	}
	if fn.Thin {
		return verifyFail(errors.IR010, "partial_apply result must not be thin", f, bb, pa)
	}
	return nil
}

func functionInputs(fn *types.Function) []types.Type {
	if tup, ok := fn.Input.(*types.Tuple); ok {
		inputs := make([]types.Type, len(tup.Elements))
		for i, el := range tup.Elements {
			inputs[i] = el.Type
		}
		return inputs
	}
	return []types.Type{fn.Input}
}

func verifyLoad(f *Function, bb *BasicBlock, ld *Load) *VerifyError {
	addr, ok := ld.Address.ValueType().(*types.LValue)
	if !ok {
		return verifyFail(errors.IR004, "load operand is not an address", f, bb, ld)
	}
	if !types.Equal(ld.Result, addr.Object) {
		return verifyFail(errors.IR004, "load result type does not match address pointee type", f, bb, ld)
	}
	return nil
}

func verifyStore(f *Function, bb *BasicBlock, st *Store) *VerifyError {
	addr, ok := st.Destination.ValueType().(*types.LValue)
	if !ok {
		return verifyFail(errors.IR004, "store destination is not an address", f, bb, st)
	}
	if !types.Equal(st.Source.ValueType(), addr.Object) {
		return verifyFail(errors.IR004, "store source type does not match destination pointee type", f, bb, st)
	}
	return nil
}

func verifySwitchEnum(f *Function, bb *BasicBlock, se *SwitchEnum) *VerifyError {
	nominal, ok := se.Scrutinee.ValueType().(*types.Nominal)
	if !ok || nominal.Kind != types.EnumKind {
		return verifyFail(errors.IR006, "switch_enum scrutinee is not an enum type", f, bb, se)
	}
	seen := make(map[string]bool, len(se.Cases))
	for _, c := range se.Cases {
		if seen[c.CaseName] {
			return verifyFail(errors.IR006, fmt.Sprintf("switch_enum has duplicate case %q", c.CaseName), f, bb, se)
		}
		seen[c.CaseName] = true
		if c.Payload != nil && len(c.Target.Arguments) != 1 {
			return verifyFail(errors.IR006, fmt.Sprintf("payload case %q destination must take exactly one argument", c.CaseName), f, bb, se)
		}
		if c.Payload == nil && len(c.Target.Arguments) != 0 {
			return verifyFail(errors.IR006, fmt.Sprintf("payload-less case %q destination must take no arguments", c.CaseName), f, bb, se)
		}
		if c.Payload != nil && len(c.Target.Arguments) == 1 && !types.Equal(c.Payload, c.Target.Arguments[0].Type) {
			return verifyFail(errors.IR006, fmt.Sprintf("case %q destination argument type does not match payload type", c.CaseName), f, bb, se)
		}
	}
	// Exhaustiveness is checked against the scrutinee enum's known case
	// set, supplied by the lowering pass that built this instruction
	// (internal/types.Nominal names only the declaration, not its case
	// list, so SwitchEnum.AllCases carries that information here).
	exhaustive := se.AllCases != nil && len(se.Cases) == len(se.AllCases)
	if !exhaustive && se.Default == nil {
		return verifyFail(errors.IR006, "non-exhaustive switch_enum has no default destination", f, bb, se)
	}
	if exhaustive && se.Default != nil {
		return verifyFail(errors.IR006, "exhaustive switch_enum must not carry a default destination", f, bb, se)
	}
	return nil
}

func verifySwitchInt(f *Function, bb *BasicBlock, si *SwitchInt) *VerifyError {
	seen := make(map[int64]bool, len(si.Cases))
	for _, c := range si.Cases {
		if seen[c.Value] {
			return verifyFail(errors.IR006, fmt.Sprintf("switch_int has duplicate case value %d", c.Value), f, bb, si)
		}
		seen[c.Value] = true
		if len(c.Target.Arguments) != 0 {
			return verifyFail(errors.IR006, "switch_int destinations must take no arguments", f, bb, si)
		}
	}
	return nil
}

func verifyCondBr(f *Function, bb *BasicBlock, cb *CondBr) *VerifyError {
	builtin, ok := cb.Condition.ValueType().(*types.Builtin)
	if !ok || builtin.Kind != types.IntType || builtin.Width != 1 {
		return verifyFail(errors.IR007, "cond_br condition must be the one-bit built-in integer type", f, bb, cb)
	}
	if len(cb.TrueArgs) != len(cb.TrueTarget.Arguments) || len(cb.FalseArgs) != len(cb.FalseTarget.Arguments) {
		return verifyFail(errors.IR007, "cond_br successor argument count does not match target's argument count", f, bb, cb)
	}
	for i, a := range cb.TrueArgs {
		if !types.Equal(a.ValueType(), cb.TrueTarget.Arguments[i].Type) {
			return verifyFail(errors.IR007, "cond_br true-branch argument type mismatch", f, bb, cb)
		}
	}
	for i, a := range cb.FalseArgs {
		if !types.Equal(a.ValueType(), cb.FalseTarget.Arguments[i].Type) {
			return verifyFail(errors.IR007, "cond_br false-branch argument type mismatch", f, bb, cb)
		}
	}
	return nil
}

func verifyFail(code, msg string, f *Function, bb *BasicBlock, inst Instruction) *VerifyError {
	return &VerifyError{
		Code:     code,
		Message:  msg,
		Function: f.Name,
		Dump:     spew.Sdump(struct {
			Block       *BasicBlock
			Instruction Instruction
		}{bb, inst}),
	}
}
