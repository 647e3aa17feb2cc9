package ast

import (
	"strconv"
	"strings"

	"github.com/ailang-project/corec/internal/arena"
	"github.com/ailang-project/corec/internal/types"
)

// ExprKind is the closed set of expression tags (spec.md §3, §4.3).
type ExprKind int

const (
	LiteralExprKind ExprKind = iota
	DeclRefExprKind
	MemberRefExprKind
	TupleExprKind
	SequenceExprKind
	NewArrayExprKind
	ClosureExprKind
	RebindSelfExprKind
	OpenExistentialExprKind
	MetatypeExprKind
	CastExprKind
)

func (k ExprKind) String() string {
	switch k {
	case LiteralExprKind:
		return "Literal"
	case DeclRefExprKind:
		return "DeclRef"
	case MemberRefExprKind:
		return "MemberRef"
	case TupleExprKind:
		return "Tuple"
	case SequenceExprKind:
		return "Sequence"
	case NewArrayExprKind:
		return "NewArray"
	case ClosureExprKind:
		return "Closure"
	case RebindSelfExprKind:
		return "RebindSelf"
	case OpenExistentialExprKind:
		return "OpenExistential"
	case MetatypeExprKind:
		return "Metatype"
	case CastExprKind:
		return "Cast"
	default:
		return "Unknown"
	}
}

// Expr is the interface every expression node implements. Every Expr
// carries a Type, which is nil until type-checking resolves it (spec.md
// §4.3).
type Expr interface {
	Node
	ExprKind() ExprKind
	Implicit() bool
	Type() types.Type
	SetType(types.Type)
	exprNode()
}

type exprBase struct {
	SrcRange   SourceRange
	IsImplicit bool
	Ty         types.Type
}

func (e *exprBase) Range() SourceRange   { return e.SrcRange }
func (e *exprBase) Implicit() bool       { return e.IsImplicit }
func (e *exprBase) Type() types.Type     { return e.Ty }
func (e *exprBase) SetType(t types.Type) { e.Ty = t }
func (e *exprBase) exprNode()            {}

func newExprBase(r SourceRange, explicit ...bool) exprBase {
	if len(explicit) > 0 {
		return exprBase{SrcRange: r, IsImplicit: explicit[0]}
	}
	return exprBase{SrcRange: r, IsImplicit: implicitDefault(r)}
}

// LiteralKind distinguishes the literal expression forms.
type LiteralKind int

const (
	IntLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
	NilLiteral
)

// LiteralExpr is a literal constant of some LiteralKind; Value holds the
// Go-native representation (int64, float64, string, bool, or nil).
type LiteralExpr struct {
	exprBase
	Kind  LiteralKind
	Value interface{}
}

func (e *LiteralExpr) ExprKind() ExprKind { return LiteralExprKind }
func (e *LiteralExpr) String() string {
	if e.Kind == NilLiteral {
		return "nil"
	}
	return stringifyLiteral(e.Value)
}

func stringifyLiteral(v interface{}) string {
	switch x := v.(type) {
	case string:
		return "\"" + x + "\""
	case nil:
		return "nil"
	default:
		return toStringFallback(x)
	}
}

// toStringFallback stringifies the remaining literal payload kinds
// without pulling in fmt's full verb machinery for a single call site.
func toStringFallback(v interface{}) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "true"
		}
		return "false"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return "<literal>"
	}
}

// DeclRefExpr refers to Decl, optionally specialized by GenericArgs when
// Decl is generic.
type DeclRefExpr struct {
	exprBase
	Name        arena.Ident
	Decl        Decl // nil before name resolution
	GenericArgs []types.Type
}

func (e *DeclRefExpr) ExprKind() ExprKind { return DeclRefExprKind }
func (e *DeclRefExpr) String() string     { return e.Name.String() }

// MemberRefExpr projects Member off Base, e.g. `base.member`.
type MemberRefExpr struct {
	exprBase
	Base   Expr
	Member arena.Ident
	Decl   Decl // resolved member declaration, nil before name resolution
}

func (e *MemberRefExpr) ExprKind() ExprKind { return MemberRefExprKind }
func (e *MemberRefExpr) String() string     { return e.Base.String() + "." + e.Member.String() }

// TupleElementExpr is one (optionally labeled) element of a TupleExpr.
type TupleElementExpr struct {
	Label string
	Value Expr
}

// TupleExpr constructs a tuple value from its elements in order.
type TupleExpr struct {
	exprBase
	Elements []TupleElementExpr
}

func (e *TupleExpr) ExprKind() ExprKind { return TupleExprKind }
func (e *TupleExpr) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		s := el.Value.String()
		if el.Label != "" {
			s = el.Label + ": " + s
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// SequenceExpr is a flat, not-yet-folded run of operands and binary/unary
// operator references; operator precedence folding rewrites it into a
// properly nested expression tree before type-checking. Folded is set
// once that rewrite has happened, at which point Elements holds exactly
// one operand, the folded tree's root.
type SequenceExpr struct {
	exprBase
	Elements []Expr // operand, operator, operand, operator, operand, ...
	Folded   bool
}

func (e *SequenceExpr) ExprKind() ExprKind { return SequenceExprKind }
func (e *SequenceExpr) String() string {
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		parts[i] = el.String()
	}
	return strings.Join(parts, " ")
}

// NewArrayExpr allocates a fixed-size array of ElementType.
type NewArrayExpr struct {
	exprBase
	ElementType types.Type
	Count       Expr
}

func (e *NewArrayExpr) ExprKind() ExprKind { return NewArrayExprKind }
func (e *NewArrayExpr) String() string {
	return "new[" + e.Count.String() + "] " + e.ElementType.String()
}

// ClosureExpr is an anonymous function literal.
type ClosureExpr struct {
	exprBase
	Params  []*ParamDecl
	Body    *BraceStmt
	Capture []arena.Ident // explicit capture list, if any
}

func (e *ClosureExpr) ExprKind() ExprKind { return ClosureExprKind }
func (e *ClosureExpr) String() string     { return "{ closure }" }

// RebindSelfExpr re-binds `self` to NewValue inside a value-type mutating
// initializer delegation (e.g. `self = otherInit(...)`).
type RebindSelfExpr struct {
	exprBase
	NewValue Expr
}

func (e *RebindSelfExpr) ExprKind() ExprKind { return RebindSelfExprKind }
func (e *RebindSelfExpr) String() string     { return "self = " + e.NewValue.String() }

// OpenExistentialExpr opens Existential's dynamic type, binding it to a
// fresh archetype visible within Body.
type OpenExistentialExpr struct {
	exprBase
	Existential Expr
	Archetype   *types.Archetype
	Body        Expr
}

func (e *OpenExistentialExpr) ExprKind() ExprKind { return OpenExistentialExprKind }
func (e *OpenExistentialExpr) String() string {
	return "open(" + e.Existential.String() + ")"
}

// MetatypeExpr forms the metatype value of InstanceType (e.g. `T.self`).
type MetatypeExpr struct {
	exprBase
	InstanceType types.Type
}

func (e *MetatypeExpr) ExprKind() ExprKind { return MetatypeExprKind }
func (e *MetatypeExpr) String() string     { return e.InstanceType.String() + ".self" }

// CastFlavor distinguishes the cast-family operators.
type CastFlavor int

const (
	CheckedCast CastFlavor = iota // `as!`: traps on failure
	ConditionalCast               // `as?`: yields nil on failure
	CoerceCast                     // `as`: statically known to succeed
	IsCast                         // `is`: yields a Bool, never traps
)

// CastExpr casts Sub to TargetType per Flavor.
type CastExpr struct {
	exprBase
	Sub        Expr
	TargetType types.Type
	Flavor     CastFlavor
}

func (e *CastExpr) ExprKind() ExprKind { return CastExprKind }
func (e *CastExpr) String() string {
	switch e.Flavor {
	case CheckedCast:
		return e.Sub.String() + " as! " + e.TargetType.String()
	case ConditionalCast:
		return e.Sub.String() + " as? " + e.TargetType.String()
	case IsCast:
		return e.Sub.String() + " is " + e.TargetType.String()
	default:
		return e.Sub.String() + " as " + e.TargetType.String()
	}
}
