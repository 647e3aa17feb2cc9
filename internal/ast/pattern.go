package ast

import (
	"strings"

	"github.com/ailang-project/corec/internal/arena"
	"github.com/ailang-project/corec/internal/types"
)

// PatternKind is the closed set of pattern tags (spec.md §3, §4.3).
type PatternKind int

const (
	ParenPatternKind PatternKind = iota
	TuplePatternKind
	NamedPatternKind
	WildcardPatternKind
	TypedPatternKind
	IsPatternKind
	NominalPatternKind
	EnumCasePatternKind
	ExprPatternKind
	VarPatternKind
)

func (k PatternKind) String() string {
	switch k {
	case ParenPatternKind:
		return "Paren"
	case TuplePatternKind:
		return "Tuple"
	case NamedPatternKind:
		return "Named"
	case WildcardPatternKind:
		return "Wildcard"
	case TypedPatternKind:
		return "Typed"
	case IsPatternKind:
		return "Is"
	case NominalPatternKind:
		return "Nominal"
	case EnumCasePatternKind:
		return "EnumCase"
	case ExprPatternKind:
		return "Expr"
	case VarPatternKind:
		return "Var"
	default:
		return "Unknown"
	}
}

// Pattern is the interface every pattern node implements. Pattern
// matching semantics (spec.md §4.3): a pattern either matches a scrutinee
// value and binds zero or more names, or fails to match; matching never
// partially binds on failure.
type Pattern interface {
	Node
	PatternKind() PatternKind
	Implicit() bool
	patternNode()
}

type patBase struct {
	SrcRange  SourceRange
	IsImplicit bool
}

func (p *patBase) Range() SourceRange { return p.SrcRange }
func (p *patBase) Implicit() bool     { return p.IsImplicit }
func (p *patBase) patternNode()       {}

// newPatBase builds the shared header, defaulting Implicit per spec.md
// §4.3's rule unless explicit is passed.
func newPatBase(r SourceRange, explicit ...bool) patBase {
	if len(explicit) > 0 {
		return patBase{SrcRange: r, IsImplicit: explicit[0]}
	}
	return patBase{SrcRange: r, IsImplicit: implicitDefault(r)}
}

// ParenPattern is a single sub-pattern wrapped in parentheses; it carries
// no semantic weight beyond its source range and is stripped by
// SemanticSubPattern.
type ParenPattern struct {
	patBase
	Sub Pattern
}

func (p *ParenPattern) PatternKind() PatternKind { return ParenPatternKind }
func (p *ParenPattern) String() string           { return "(" + p.Sub.String() + ")" }

// TupleElement is one element of a TuplePattern, optionally labeled.
type TupleElement struct {
	Label      string
	Sub        Pattern
	IsVariadic bool // true only for the trailing element
}

// TuplePattern destructures a tuple value element-wise. At most its final
// element may be variadic, binding the remaining elements as a slice.
type TuplePattern struct {
	patBase
	Elements []TupleElement
}

func (p *TuplePattern) PatternKind() PatternKind { return TuplePatternKind }
func (p *TuplePattern) String() string {
	parts := make([]string, len(p.Elements))
	for i, e := range p.Elements {
		s := e.Sub.String()
		if e.IsVariadic {
			s += "..."
		}
		if e.Label != "" {
			s = e.Label + ": " + s
		}
		parts[i] = s
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// NamedPattern binds the scrutinee to a single name; it always matches.
type NamedPattern struct {
	patBase
	Name arena.Ident
}

func (p *NamedPattern) PatternKind() PatternKind { return NamedPatternKind }
func (p *NamedPattern) String() string           { return p.Name.String() }

// WildcardPattern discards the scrutinee; it always matches and binds
// nothing.
type WildcardPattern struct {
	patBase
}

func (p *WildcardPattern) PatternKind() PatternKind { return WildcardPatternKind }
func (p *WildcardPattern) String() string           { return "_" }

// TypedPattern annotates Sub with an explicit type; it matches iff Sub
// matches and the scrutinee's type is compatible with Annotation.
type TypedPattern struct {
	patBase
	Sub        Pattern
	Annotation types.Type
}

func (p *TypedPattern) PatternKind() PatternKind { return TypedPatternKind }
func (p *TypedPattern) String() string           { return p.Sub.String() + ": " + p.Annotation.String() }

// IsPattern matches iff the scrutinee's dynamic type is (or conforms to)
// CheckedType; it binds nothing itself.
type IsPattern struct {
	patBase
	CheckedType types.Type
}

func (p *IsPattern) PatternKind() PatternKind { return IsPatternKind }
func (p *IsPattern) String() string           { return "is " + p.CheckedType.String() }

// NominalPattern destructures a struct/class value by named field,
// matching iff every field sub-pattern matches.
type NominalPattern struct {
	patBase
	NominalType types.Type
	Fields      []FieldPattern
}

// FieldPattern is one named-field entry of a NominalPattern.
type FieldPattern struct {
	Name string
	Sub  Pattern
}

func (p *NominalPattern) PatternKind() PatternKind { return NominalPatternKind }
func (p *NominalPattern) String() string {
	parts := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		parts[i] = f.Name + ": " + f.Sub.String()
	}
	return p.NominalType.String() + "(" + strings.Join(parts, ", ") + ")"
}

// EnumCasePattern matches iff the scrutinee is CaseName and, when the
// case carries a payload, Sub matches that payload. Sub is nil for a
// payload-less case.
type EnumCasePattern struct {
	patBase
	EnumType types.Type
	CaseName string
	Sub      Pattern
}

func (p *EnumCasePattern) PatternKind() PatternKind { return EnumCasePatternKind }
func (p *EnumCasePattern) String() string {
	if p.Sub == nil {
		return "." + p.CaseName
	}
	return "." + p.CaseName + "(" + p.Sub.String() + ")"
}

// ExprPattern matches iff evaluating Match against the scrutinee
// succeeds (e.g. `~=` in a switch case); it binds nothing.
type ExprPattern struct {
	patBase
	Match Expr
}

func (p *ExprPattern) PatternKind() PatternKind { return ExprPatternKind }
func (p *ExprPattern) String() string           { return p.Match.String() }

// VarPattern wraps Sub to mark its bindings as mutable (`var` as opposed
// to the default immutable `let` binding).
type VarPattern struct {
	patBase
	Sub Pattern
}

func (p *VarPattern) PatternKind() PatternKind { return VarPatternKind }
func (p *VarPattern) String() string           { return "var " + p.Sub.String() }

// SemanticSubPattern strips the non-binding wrapper kinds (Paren, Typed,
// Var) to reach the pattern that actually determines match/bind
// semantics, per spec.md §4.3. It returns p unchanged if p is not one of
// those wrapper kinds.
func SemanticSubPattern(p Pattern) Pattern {
	for {
		switch v := p.(type) {
		case *ParenPattern:
			p = v.Sub
		case *TypedPattern:
			p = v.Sub
		case *VarPattern:
			p = v.Sub
		default:
			return p
		}
	}
}
