// Package types implements the canonical type universe: built-in,
// nominal, bound-generic, tuple, function, polymorphic-function, metatype,
// protocol-composition, archetype, reference-storage, and l-value forms,
// plus substitution and the three conformance kinds.
//
// Grounded on the teacher's internal/types/types.go (TVar/TCon/TFunc/
// TList/TTuple/TRecord/TApp with String/Equals/Substitute), generalized to
// the richer category table of spec.md §3, and on
// original_source/include/swift/AST/ASTContext.h's AllocationArena split
// (every Type knows which arena produced it).
package types

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ailang-project/corec/internal/arena"
)

// Type is the base interface implemented by every member of the type
// universe. Canonical() returns the type's canonical representative;
// for an already-canonical type it returns itself.
type Type interface {
	String() string
	Canonical() Type
	Arena() arena.Kind
	typeNode()
}

// BuiltinKind enumerates the built-in scalar and pointer categories.
type BuiltinKind int

const (
	IntType BuiltinKind = iota
	FloatType
	RawPointer
	ObjectPointer
	NativeObject
	ForeignObject
)

func (k BuiltinKind) String() string {
	switch k {
	case IntType:
		return "Int"
	case FloatType:
		return "Float"
	case RawPointer:
		return "RawPointer"
	case ObjectPointer:
		return "ObjectPointer"
	case NativeObject:
		return "NativeObject"
	case ForeignObject:
		return "ForeignObject"
	default:
		return fmt.Sprintf("BuiltinKind(%d)", int(k))
	}
}

// Builtin is a built-in type: integers of declared bit width, IEEE floats
// of declared bit width, or one of the pointer/reference-object forms
// (width is ignored for those).
type Builtin struct {
	Kind  BuiltinKind
	Width int // bit width for IntType/FloatType; 0 otherwise
}

func (b *Builtin) typeNode()         {}
func (b *Builtin) Arena() arena.Kind { return arena.Permanent }
func (b *Builtin) String() string {
	if b.Kind == IntType || b.Kind == FloatType {
		return fmt.Sprintf("%s%d", b.Kind, b.Width)
	}
	return b.Kind.String()
}
func (b *Builtin) Canonical() Type { return b }

var (
	Int1  = &Builtin{Kind: IntType, Width: 1}
	Int8  = &Builtin{Kind: IntType, Width: 8}
	Int16 = &Builtin{Kind: IntType, Width: 16}
	Int32 = &Builtin{Kind: IntType, Width: 32}
	Int64 = &Builtin{Kind: IntType, Width: 64}

	Float16  = &Builtin{Kind: FloatType, Width: 16}
	Float32  = &Builtin{Kind: FloatType, Width: 32}
	Float64  = &Builtin{Kind: FloatType, Width: 64}
	Float80  = &Builtin{Kind: FloatType, Width: 80}
	Float128 = &Builtin{Kind: FloatType, Width: 128}

	RawPtr     = &Builtin{Kind: RawPointer}
	ObjectPtr  = &Builtin{Kind: ObjectPointer}
	NativeObj  = &Builtin{Kind: NativeObject}
	ForeignObj = &Builtin{Kind: ForeignObject}
)

// NominalKind distinguishes the four named-declaration type forms.
type NominalKind int

const (
	StructKind NominalKind = iota
	EnumKind
	ClassKind
	ProtocolKind
)

func (k NominalKind) String() string {
	switch k {
	case StructKind:
		return "struct"
	case EnumKind:
		return "enum"
	case ClassKind:
		return "class"
	case ProtocolKind:
		return "protocol"
	default:
		return fmt.Sprintf("NominalKind(%d)", int(k))
	}
}

// Decl is the minimal declaration identity a Nominal type needs: a stable
// name. The full declaration node lives in package ast; types only name it.
type Decl interface {
	DeclName() string
}

// Nominal names a struct, enum, class, or protocol by its declaration.
type Nominal struct {
	Kind      NominalKind
	Decl      Decl
	arenaKind arena.Kind
}

// NewNominal creates a permanent-arena nominal type for decl.
func NewNominal(kind NominalKind, decl Decl) *Nominal {
	return &Nominal{Kind: kind, Decl: decl, arenaKind: arena.Permanent}
}

func (n *Nominal) typeNode()         {}
func (n *Nominal) Arena() arena.Kind { return n.arenaKind }
func (n *Nominal) String() string    { return n.Decl.DeclName() }
func (n *Nominal) Canonical() Type   { return n }

// BoundGeneric applies a nominal type to concrete type arguments.
type BoundGeneric struct {
	Base Type // must be *Nominal
	Args []Type
}

func (b *BoundGeneric) typeNode() {}
func (b *BoundGeneric) Arena() arena.Kind {
	for _, a := range b.Args {
		if a.Arena() == arena.ConstraintSolver {
			return arena.ConstraintSolver
		}
	}
	return arena.Permanent
}
func (b *BoundGeneric) String() string {
	args := make([]string, len(b.Args))
	for i, a := range b.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", b.Base.String(), strings.Join(args, ", "))
}
func (b *BoundGeneric) Canonical() Type {
	args := make([]Type, len(b.Args))
	changed := false
	for i, a := range b.Args {
		c := a.Canonical()
		args[i] = c
		if c != a {
			changed = true
		}
	}
	if !changed {
		return b
	}
	return &BoundGeneric{Base: b.Base, Args: args}
}

// TupleElement is one (optionally labeled) field of a Tuple type.
type TupleElement struct {
	Label string // "" if unlabeled
	Type  Type
}

// Tuple is an ordered, optionally-labeled product of fields. A
// single-element unlabeled tuple canonicalizes to its element (spec.md
// §4.2: canonicalization collapses single-element tuples).
type Tuple struct {
	Elements []TupleElement
}

func (t *Tuple) typeNode() {}
func (t *Tuple) Arena() arena.Kind {
	for _, e := range t.Elements {
		if e.Type.Arena() == arena.ConstraintSolver {
			return arena.ConstraintSolver
		}
	}
	return arena.Permanent
}
func (t *Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		if e.Label != "" {
			parts[i] = fmt.Sprintf("%s: %s", e.Label, e.Type.String())
		} else {
			parts[i] = e.Type.String()
		}
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, ", "))
}
func (t *Tuple) Canonical() Type {
	if len(t.Elements) == 1 && t.Elements[0].Label == "" {
		return t.Elements[0].Type.Canonical()
	}
	elems := make([]TupleElement, len(t.Elements))
	changed := false
	for i, e := range t.Elements {
		c := e.Type.Canonical()
		elems[i] = TupleElement{Label: e.Label, Type: c}
		if c != e.Type {
			changed = true
		}
	}
	if !changed {
		return t
	}
	return &Tuple{Elements: elems}
}

// CallingConvention tags the ABI a Function type's calls use.
type CallingConvention int

const (
	ConvNative CallingConvention = iota
	ConvC
	ConvObjC
	ConvWitnessMethod
)

// Function is a function type: input type, result type, calling
// convention, thinness (no captures vs. a boxed closure), block-bridging
// flag, variadicity, and auto-closure flag.
type Function struct {
	Input        Type
	Result       Type
	Convention   CallingConvention
	Thin         bool // no captured context; representable as a bare code address
	BlockBridged bool // bridges to/from an Objective-C block
	Variadic     bool
	AutoClosure  bool
}

func (f *Function) typeNode() {}
func (f *Function) Arena() arena.Kind {
	if f.Input.Arena() == arena.ConstraintSolver || f.Result.Arena() == arena.ConstraintSolver {
		return arena.ConstraintSolver
	}
	return arena.Permanent
}
func (f *Function) String() string {
	thin := ""
	if f.Thin {
		thin = "@thin "
	}
	return fmt.Sprintf("%s%s -> %s", thin, f.Input.String(), f.Result.String())
}
func (f *Function) Canonical() Type {
	in, res := f.Input.Canonical(), f.Result.Canonical()
	if in == f.Input && res == f.Result {
		return f
	}
	cp := *f
	cp.Input, cp.Result = in, res
	return &cp
}

// GenericParam is one parameter of a PolymorphicFunction's generic
// parameter list, carrying its constraint set (protocols it must conform
// to, plus an optional superclass bound).
type GenericParam struct {
	Name       string
	Protocols  []*Nominal
	Superclass Type // nil if unconstrained beyond Protocols
}

// PolymorphicFunction is a Function plus a generic parameter list.
type PolymorphicFunction struct {
	*Function
	GenericParams []GenericParam
}

func (p *PolymorphicFunction) String() string {
	names := make([]string, len(p.GenericParams))
	for i, g := range p.GenericParams {
		names[i] = g.Name
	}
	return fmt.Sprintf("<%s> %s", strings.Join(names, ", "), p.Function.String())
}
func (p *PolymorphicFunction) Canonical() Type {
	base := p.Function.Canonical().(*Function)
	if base == p.Function {
		return p
	}
	return &PolymorphicFunction{Function: base, GenericParams: p.GenericParams}
}

// Metatype is the first-class representation of a type value.
type Metatype struct {
	Instance Type
}

func (m *Metatype) typeNode()         {}
func (m *Metatype) Arena() arena.Kind { return m.Instance.Arena() }
func (m *Metatype) String() string    { return fmt.Sprintf("%s.Type", m.Instance.String()) }
func (m *Metatype) Canonical() Type {
	c := m.Instance.Canonical()
	if c == m.Instance {
		return m
	}
	return &Metatype{Instance: c}
}

// ProtocolComposition is the intersection of a set of protocol
// constraints. Canonicalization sorts the members by canonical protocol
// identity (spec.md §4.2) so that two differently-written compositions of
// the same protocol set compare equal.
type ProtocolComposition struct {
	Protocols []*Nominal
}

func (p *ProtocolComposition) typeNode()         {}
func (p *ProtocolComposition) Arena() arena.Kind { return arena.Permanent }
func (p *ProtocolComposition) String() string {
	names := make([]string, len(p.Protocols))
	for i, pr := range p.Protocols {
		names[i] = pr.String()
	}
	return strings.Join(names, " & ")
}
func (p *ProtocolComposition) Canonical() Type {
	if sort.SliceIsSorted(p.Protocols, func(i, j int) bool { return p.Protocols[i].String() < p.Protocols[j].String() }) {
		return p
	}
	sorted := append([]*Nominal(nil), p.Protocols...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].String() < sorted[j].String() })
	return &ProtocolComposition{Protocols: sorted}
}

// Archetype is an opened/generic placeholder carrying its constraint set;
// it may be class-bound (its witness is guaranteed to be a reference
// type).
type Archetype struct {
	Name       string
	Protocols  []*Nominal
	Superclass Type
	ClassBound bool
}

func (a *Archetype) typeNode()         {}
func (a *Archetype) Arena() arena.Kind { return arena.Permanent }
func (a *Archetype) String() string    { return a.Name }
func (a *Archetype) Canonical() Type   { return a }

// StorageFlavor names the ownership discipline a ReferenceStorage type
// wraps its referent in.
type StorageFlavor int

const (
	Strong StorageFlavor = iota
	Weak
	Unowned
)

func (f StorageFlavor) String() string {
	switch f {
	case Strong:
		return "strong"
	case Weak:
		return "weak"
	case Unowned:
		return "unowned"
	default:
		return fmt.Sprintf("StorageFlavor(%d)", int(f))
	}
}

// ReferenceStorage wraps a reference type with an ownership flavor.
type ReferenceStorage struct {
	Referent Type
	Flavor   StorageFlavor
}

func (r *ReferenceStorage) typeNode()         {}
func (r *ReferenceStorage) Arena() arena.Kind { return r.Referent.Arena() }
func (r *ReferenceStorage) String() string {
	return fmt.Sprintf("%s %s", r.Flavor, r.Referent.String())
}
func (r *ReferenceStorage) Canonical() Type {
	c := r.Referent.Canonical()
	if c == r.Referent {
		return r
	}
	return &ReferenceStorage{Referent: c, Flavor: r.Flavor}
}

// LValue is the addressable location of its underlying type (an in-out
// reference).
type LValue struct {
	Object Type
}

func (l *LValue) typeNode()         {}
func (l *LValue) Arena() arena.Kind { return l.Object.Arena() }
func (l *LValue) String() string    { return fmt.Sprintf("inout %s", l.Object.String()) }
func (l *LValue) Canonical() Type {
	c := l.Object.Canonical()
	if c == l.Object {
		return l
	}
	return &LValue{Object: c}
}

// Variable is a type variable; any type built from one lives in the
// constraint-solver arena (spec.md §3 invariant).
type Variable struct {
	ID int
}

func (v *Variable) typeNode()         {}
func (v *Variable) Arena() arena.Kind { return arena.ConstraintSolver }
func (v *Variable) String() string    { return fmt.Sprintf("$T%d", v.ID) }
func (v *Variable) Canonical() Type   { return v }

// Equal reports whether two types' canonical forms are pointer-identical.
// This is the normative equality relation of spec.md §3: "Two types are
// equal iff their canonical forms are pointer-equal."
func Equal(a, b Type) bool {
	return a.Canonical() == b.Canonical()
}
