package ast

import (
	"github.com/ailang-project/corec/internal/arena"
	"github.com/ailang-project/corec/internal/types"
)

// DeclKind is the closed set of declaration tags (spec.md §4.3 "Tag
// discipline"). A visitor over Decl is a total match over this set.
type DeclKind int

const (
	ValueDeclKind DeclKind = iota
	TypeDeclKind
	PatternBindingDeclKind
	ExtensionDeclKind
	EnumCaseDeclKind
	SubscriptDeclKind
	InitializerDeclKind
	DestructorDeclKind
	OperatorDeclKind
	ImportDeclKind
)

func (k DeclKind) String() string {
	switch k {
	case ValueDeclKind:
		return "Value"
	case TypeDeclKind:
		return "Type"
	case PatternBindingDeclKind:
		return "PatternBinding"
	case ExtensionDeclKind:
		return "Extension"
	case EnumCaseDeclKind:
		return "EnumCase"
	case SubscriptDeclKind:
		return "Subscript"
	case InitializerDeclKind:
		return "Initializer"
	case DestructorDeclKind:
		return "Destructor"
	case OperatorDeclKind:
		return "Operator"
	case ImportDeclKind:
		return "Import"
	default:
		return "Unknown"
	}
}

// AttributeSet is an unordered set of declaration attributes (e.g.
// "final", "objc", "dynamic"). Membership-only; attributes carry no
// payload in this spec.
type AttributeSet map[string]bool

// Has reports whether name is present in the set.
func (a AttributeSet) Has(name string) bool { return a[name] }

// DeclContext is the enclosing scope of a declaration: a module, a
// nominal type, or a function body. It is intentionally minimal — the
// scoped lookup tree (lookup.go) is what actually walks these.
type DeclContext interface {
	Node
	ContextName() string
	Parent() DeclContext
	IsModuleScope() bool
	IsTypeScope() bool
}

// Decl is the interface every declaration node implements.
type Decl interface {
	Node
	Kind() DeclKind
	DeclName() string
	Context() DeclContext
	Attributes() AttributeSet
	declNode()
}

// base is embedded by every concrete Decl; it carries the shared header
// every kind-specific payload needs.
type base struct {
	SrcRange SourceRange
	Name     arena.Ident
	Attrs    AttributeSet
	DC       DeclContext
}

func (b *base) Range() SourceRange      { return b.SrcRange }
func (b *base) DeclName() string        { return b.Name.String() }
func (b *base) Context() DeclContext    { return b.DC }
func (b *base) Attributes() AttributeSet {
	if b.Attrs == nil {
		return AttributeSet{}
	}
	return b.Attrs
}
func (b *base) declNode() {}

// GenericParameter is one entry of a declaration's generic parameter
// list, carrying the same constraint shape types.GenericParam uses.
type GenericParameter = types.GenericParam

// ParamDecl is a single function/subscript/initializer parameter.
type ParamDecl struct {
	base
	ParamType  types.Type
	Convention types.CallingConvention
}

func (p *ParamDecl) Kind() DeclKind { return ValueDeclKind }
func (p *ParamDecl) String() string { return "param " + p.DeclName() }

// ValueDecl is a value-shaped declaration: a plain `var`/`let` binding, or
// a function-shaped binding when Params is non-nil. Functions are just
// values of function type, per spec.md §4.3's payload list ("value").
type ValueDecl struct {
	base
	IsVar         bool // var vs let; irrelevant when Params != nil
	GenericParams []GenericParameter
	Params        []*ParamDecl // nil for a plain var/let
	Effects       []string
	Body          Stmt       // nil for an external/un-bodied declaration
	AnnotatedType types.Type // surface annotation, if written
	ResolvedType  types.Type // filled in by type-checking; nil before then
}

func (v *ValueDecl) Kind() DeclKind { return ValueDeclKind }
func (v *ValueDecl) IsFunction() bool { return v.Params != nil }
func (v *ValueDecl) String() string {
	if v.IsFunction() {
		return "func " + v.DeclName()
	}
	if v.IsVar {
		return "var " + v.DeclName()
	}
	return "let " + v.DeclName()
}

// TypeDecl declares a nominal type (struct/enum/class/protocol).
type TypeDecl struct {
	base
	Nominal       *types.Nominal
	GenericParams []GenericParameter
	Members       []Decl
	Conformances  []*types.Nominal // declared protocol list
}

func (t *TypeDecl) Kind() DeclKind { return TypeDeclKind }
func (t *TypeDecl) String() string { return "type " + t.DeclName() }

// PatternBindingDecl binds Init's value against Pattern; var/let
// declarations with a destructuring pattern use this instead of
// ValueDecl directly (spec.md §3's Pattern family, referenced from
// declarations).
type PatternBindingDecl struct {
	base
	Pattern Pattern
	Init    Expr // nil if the binding has no initializer
}

func (p *PatternBindingDecl) Kind() DeclKind { return PatternBindingDeclKind }
func (p *PatternBindingDecl) String() string { return "let " + p.Pattern.String() }

// ExtensionDecl extends ExtendedType with additional members and/or
// conformances, possibly contributed by a module loader well after the
// type's original declaration (spec.md §4.1 load_extensions).
type ExtensionDecl struct {
	base
	ExtendedType types.Type
	Members      []Decl
	Conformances []*types.Nominal
	Generation   int // generation counter value at which this extension was introduced
}

func (e *ExtensionDecl) Kind() DeclKind { return ExtensionDeclKind }
func (e *ExtensionDecl) String() string { return "extension " + e.ExtendedType.String() }

// EnumCaseDecl is one case of an enum TypeDecl, with zero or more
// associated-value types (the case's "payload").
type EnumCaseDecl struct {
	base
	AssociatedTypes []types.Type
}

func (e *EnumCaseDecl) Kind() DeclKind { return EnumCaseDeclKind }
func (e *EnumCaseDecl) String() string { return "case " + e.DeclName() }

// SubscriptDecl declares `subscript(params) -> Element`.
type SubscriptDecl struct {
	base
	Params      []*ParamDecl
	ElementType types.Type
	Body        Stmt
}

func (s *SubscriptDecl) Kind() DeclKind { return SubscriptDeclKind }
func (s *SubscriptDecl) String() string { return "subscript" }

// InitializerDecl declares a type's initializer.
type InitializerDecl struct {
	base
	Params   []*ParamDecl
	Body     Stmt
	Failable bool
}

func (i *InitializerDecl) Kind() DeclKind { return InitializerDeclKind }
func (i *InitializerDecl) String() string { return "init" }

// DestructorDecl declares a class's deinitializer.
type DestructorDecl struct {
	base
	Body Stmt
}

func (d *DestructorDecl) Kind() DeclKind { return DestructorDeclKind }
func (d *DestructorDecl) String() string { return "deinit" }

// OperatorFixity distinguishes the three operator declaration shapes.
type OperatorFixity int

const (
	Infix OperatorFixity = iota
	Prefix
	Postfix
)

// OperatorDecl declares an operator's fixity and, for infix operators, its
// precedence group.
type OperatorDecl struct {
	base
	Fixity     OperatorFixity
	Precedence int // meaningful only for Infix
}

func (o *OperatorDecl) Kind() DeclKind { return OperatorDeclKind }
func (o *OperatorDecl) String() string { return "operator " + o.DeclName() }

// ImportDecl imports another module, optionally selecting specific
// symbols.
type ImportDecl struct {
	base
	Path    string
	Symbols []string
}

func (i *ImportDecl) Kind() DeclKind { return ImportDeclKind }
func (i *ImportDecl) String() string { return "import " + i.Path }
