package tir

import "github.com/ailang-project/corec/internal/types"

// Value is anything an instruction's operand can refer to: another
// instruction's result, or a block argument.
type Value interface {
	ValueType() types.Type
	valueNode()
}

// instResult is embedded by every instruction that yields exactly one
// SSA value, giving it an identity usable as another instruction's
// operand.
type instResult struct {
	Result types.Type
}

func (r *instResult) ValueType() types.Type { return r.Result }
func (r *instResult) valueNode()            {}

func (a *BlockArgument) ValueType() types.Type { return a.Type }
func (a *BlockArgument) valueNode()             {}

// CastKind enumerates the cast families named in spec.md §4.4 invariant
// 7. Each family has its own structural preconditions; verifier.go does
// not check them.
type CastKind int

const (
	CastRefToRawPointer CastKind = iota
	CastRawPointerToRef
	CastUpcast
	CastDowncast
	CastBridgeToBlock
	CastThinToThick
	CastConvertCC
	CastRefToUnowned
	CastUnownedToRef
	CastOpenExistential
	CastInitExistential
	CastDeinitExistential
)

// Instruction is the common interface every typed-IR instruction
// implements. IsTerminator distinguishes the one kind of instruction
// that may end a basic block.
type Instruction interface {
	IsTerminator() bool
	Operands() []Value
	instNode()
}

// Apply calls a function value with a fixed argument list (spec.md
// §4.4 invariant 4).
type Apply struct {
	instResult
	Callee Value
	Args   []Value
}

func (i *Apply) IsTerminator() bool  { return false }
func (i *Apply) Operands() []Value   { return append([]Value{i.Callee}, i.Args...) }
func (i *Apply) instNode()           {}

// NewApply builds an Apply of callee with args, yielding resultType.
func NewApply(callee Value, args []Value, resultType types.Type) *Apply {
	return &Apply{instResult: instResult{Result: resultType}, Callee: callee, Args: args}
}

// PartialApply captures a prefix of a function's trailing parameters,
// producing a new (necessarily non-thin) function value (invariant 5).
type PartialApply struct {
	instResult
	Callee Value
	Args   []Value // the trailing arguments being bound
}

func (i *PartialApply) IsTerminator() bool { return false }
func (i *PartialApply) Operands() []Value  { return append([]Value{i.Callee}, i.Args...) }
func (i *PartialApply) instNode()          {}

// Load reads an object-typed value from an address operand (invariant
// 6).
type Load struct {
	instResult
	Address Value
}

func (i *Load) IsTerminator() bool { return false }
func (i *Load) Operands() []Value  { return []Value{i.Address} }
func (i *Load) instNode()          {}

// Store writes an object-typed source to an address-typed destination
// (invariant 6). Store yields no value.
type Store struct {
	Source      Value
	Destination Value
}

func (i *Store) IsTerminator() bool { return false }
func (i *Store) Operands() []Value  { return []Value{i.Source, i.Destination} }
func (i *Store) instNode()          {}

// Cast is one instance of the cast family named by Kind, each with its
// own structural preconditions (invariant 7).
type Cast struct {
	instResult
	Kind    CastKind
	Operand Value
}

func (i *Cast) IsTerminator() bool { return false }
func (i *Cast) Operands() []Value  { return []Value{i.Operand} }
func (i *Cast) instNode()          {}

// Br is an unconditional branch, supplying one argument per target
// block argument.
type Br struct {
	Target *BasicBlock
	Args   []Value
}

func (i *Br) IsTerminator() bool { return true }
func (i *Br) Operands() []Value  { return i.Args }
func (i *Br) instNode()          {}

// CondBr branches to TrueTarget or FalseTarget depending on a one-bit
// built-in integer condition (invariant 10).
type CondBr struct {
	Condition           Value
	TrueTarget           *BasicBlock
	TrueArgs             []Value
	FalseTarget          *BasicBlock
	FalseArgs            []Value
}

func (i *CondBr) IsTerminator() bool { return true }
func (i *CondBr) Operands() []Value {
	return append(append([]Value{i.Condition}, i.TrueArgs...), i.FalseArgs...)
}
func (i *CondBr) instNode() {}

// EnumCase identifies one case in a switch_enum destination list.
type EnumCase struct {
	CaseName string
	Payload  types.Type // nil if the case carries no payload
	Target   *BasicBlock
}

// SwitchEnum dispatches on the constructing case of an enum-typed
// scrutinee (invariant 8). AllCases names the scrutinee enum's full
// declared case set, supplied by the lowering pass, so the verifier can
// check exhaustiveness without types.Nominal itself tracking cases.
type SwitchEnum struct {
	Scrutinee Value
	Cases     []*EnumCase
	Default   *BasicBlock // nil iff the case set is exhaustive
	AllCases  []string
}

func (i *SwitchEnum) IsTerminator() bool { return true }
func (i *SwitchEnum) Operands() []Value  { return []Value{i.Scrutinee} }
func (i *SwitchEnum) instNode()          {}

// IntCase is one case in a switch_int destination list.
type IntCase struct {
	Value  int64
	Target *BasicBlock
}

// SwitchInt dispatches on an integer scrutinee's exact value
// (invariant 9); destinations take no arguments.
type SwitchInt struct {
	Scrutinee Value
	Cases     []*IntCase
	Default   *BasicBlock
}

func (i *SwitchInt) IsTerminator() bool { return true }
func (i *SwitchInt) Operands() []Value  { return []Value{i.Scrutinee} }
func (i *SwitchInt) instNode()          {}

// Return ends the function, its value's type equal to the function's
// declared result type (invariant 11).
type Return struct {
	Value Value
}

func (i *Return) IsTerminator() bool { return true }
func (i *Return) Operands() []Value  { return []Value{i.Value} }
func (i *Return) instNode()          {}

// AutoreleaseReturn ends the function with a non-address reference
// value placed in the autorelease pool before returning (invariant 12).
type AutoreleaseReturn struct {
	Value Value
}

func (i *AutoreleaseReturn) IsTerminator() bool { return true }
func (i *AutoreleaseReturn) Operands() []Value  { return []Value{i.Value} }
func (i *AutoreleaseReturn) instNode()          {}

// Unreachable marks a program point control flow never reaches,
// typically following a trapping built-in call.
type Unreachable struct{}

func (i *Unreachable) IsTerminator() bool { return true }
func (i *Unreachable) Operands() []Value  { return nil }
func (i *Unreachable) instNode()          {}

// Retain increments a reference-counted operand's strong reference count.
// Tracked by internal/rcdataflow's bottom-up pass as the "Decremented"
// lattice's matching increment (spec.md §4.8).
type Retain struct {
	Operand Value
}

func (i *Retain) IsTerminator() bool { return false }
func (i *Retain) Operands() []Value  { return []Value{i.Operand} }
func (i *Retain) instNode()          {}

// Release decrements a reference-counted operand's strong reference
// count. Tracked by internal/rcdataflow's top-down pass as the
// "Incremented" lattice's matching decrement (spec.md §4.8).
type Release struct {
	Operand Value
}

func (i *Release) IsTerminator() bool { return false }
func (i *Release) Operands() []Value  { return []Value{i.Operand} }
func (i *Release) instNode()          {}

// Autorelease defers a release to the innermost enclosing autorelease
// pool. A pool's scope boundary is a full dataflow barrier: every
// tracked pointer's state is cleared on entry (spec.md §4.8).
type Autorelease struct {
	Operand Value
}

func (i *Autorelease) IsTerminator() bool { return false }
func (i *Autorelease) Operands() []Value  { return []Value{i.Operand} }
func (i *Autorelease) instNode()          {}

// FunctionRef names a statically-known function as a thin value,
// grounded on SIL's function_ref instruction; internal/sigopt uses it
// to build the Apply calling a newly synthesized optimized function
// from a thunk or a rewritten call site.
type FunctionRef struct {
	instResult
	Referent *Function
}

func (i *FunctionRef) IsTerminator() bool { return false }
func (i *FunctionRef) Operands() []Value  { return nil }
func (i *FunctionRef) instNode()          {}

// NewFunctionRef builds a FunctionRef to fn with fn's thin function type
// as its result.
func NewFunctionRef(fn *Function) *FunctionRef {
	return &FunctionRef{instResult: instResult{Result: fn.Type()}, Referent: fn}
}

// TupleExtract projects one element out of a tuple-typed value;
// internal/sigopt uses it to read an exploded parameter's leaves out of a
// caller's still-aggregate argument. internal/callgraph does not look
// through it: edge callees come from the caller-supplied resolver.
type TupleExtract struct {
	instResult
	Tuple Value
	Index int
}

func (i *TupleExtract) IsTerminator() bool { return false }
func (i *TupleExtract) Operands() []Value  { return []Value{i.Tuple} }
func (i *TupleExtract) instNode()          {}

// NewTupleExtract builds a TupleExtract of the given result type, the
// leaf type at position index within tuple's aggregate type.
func NewTupleExtract(tuple Value, index int, resultType types.Type) *TupleExtract {
	return &TupleExtract{instResult: instResult{Result: resultType}, Tuple: tuple, Index: index}
}

// TupleConstruct builds a tuple-typed value from its element values, the
// inverse of TupleExtract; internal/sigopt uses it to reconstruct an
// exploded parameter's original aggregate value at the top of an
// optimized function's entry block, once its leaves have become
// separate block arguments.
type TupleConstruct struct {
	instResult
	Elements []Value
}

func (i *TupleConstruct) IsTerminator() bool { return false }
func (i *TupleConstruct) Operands() []Value  { return i.Elements }
func (i *TupleConstruct) instNode()          {}

// NewTupleConstruct builds a TupleConstruct of the given aggregate
// result type from elements.
func NewTupleConstruct(elements []Value, resultType types.Type) *TupleConstruct {
	return &TupleConstruct{instResult: instResult{Result: resultType}, Elements: elements}
}

// BuiltinRef names a built-in function by its intrinsic name, e.g. the
// trapping intrinsic recognized structurally by internal/rcdataflow's
// trap-block detection (spec.md §4.8): "reference to trap built-in →
// apply with no arguments → unreachable".
type BuiltinRef struct {
	instResult
	Name string
}

func (i *BuiltinRef) IsTerminator() bool { return false }
func (i *BuiltinRef) Operands() []Value  { return nil }
func (i *BuiltinRef) instNode()          {}
