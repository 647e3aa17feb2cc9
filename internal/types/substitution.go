package types

// Substitution maps generic parameter names to concrete types.
type Substitution map[string]Type

// Substitute walks t, replacing each GenericParam / Archetype name found
// in sub with its mapped type. Grounded on the teacher's
// Type.Substitute(map[string]Type) method, generalized across the full
// category table instead of just the HM surface types.
func Substitute(t Type, sub Substitution) Type {
	if len(sub) == 0 {
		return t
	}
	switch v := t.(type) {
	case *Archetype:
		if repl, ok := sub[v.Name]; ok {
			return repl
		}
		return v
	case *BoundGeneric:
		args := make([]Type, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(a, sub)
		}
		return &BoundGeneric{Base: v.Base, Args: args}
	case *Tuple:
		elems := make([]TupleElement, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = TupleElement{Label: e.Label, Type: Substitute(e.Type, sub)}
		}
		return &Tuple{Elements: elems}
	case *Function:
		return &Function{
			Input:        Substitute(v.Input, sub),
			Result:       Substitute(v.Result, sub),
			Convention:   v.Convention,
			Thin:         v.Thin,
			BlockBridged: v.BlockBridged,
			Variadic:     v.Variadic,
			AutoClosure:  v.AutoClosure,
		}
	case *PolymorphicFunction:
		inner := Substitute(v.Function, sub).(*Function)
		return &PolymorphicFunction{Function: inner, GenericParams: v.GenericParams}
	case *Metatype:
		return &Metatype{Instance: Substitute(v.Instance, sub)}
	case *ReferenceStorage:
		return &ReferenceStorage{Referent: Substitute(v.Referent, sub), Flavor: v.Flavor}
	case *LValue:
		return &LValue{Object: Substitute(v.Object, sub)}
	default:
		return t
	}
}

// SubstitutionCache caches the substitution list computed for a bound
// generic type, keyed by its canonical form. The teacher never needed
// this (no generic bound types in its surface language); grounded on
// ASTContext.h's substitution-map caching note in spec.md §4.2: "The AST
// context caches the substitution list for each bound generic type
// (keyed by the canonical form) and can lazily create a trivial
// substitution (identity) on first request."
type SubstitutionCache struct {
	entries map[Type]Substitution
}

// NewSubstitutionCache creates an empty cache.
func NewSubstitutionCache() *SubstitutionCache {
	return &SubstitutionCache{entries: make(map[Type]Substitution)}
}

// Get returns the cached substitution for the canonical form of bound,
// lazily creating an identity substitution over bound's generic
// parameters on first request.
func (c *SubstitutionCache) Get(bound *BoundGeneric, params []GenericParam) Substitution {
	key := bound.Canonical()
	if sub, ok := c.entries[key]; ok {
		return sub
	}
	sub := make(Substitution, len(params))
	for i, p := range params {
		if i < len(bound.Args) {
			sub[p.Name] = bound.Args[i]
		}
	}
	c.entries[key] = sub
	return sub
}

// Invalidate drops the cached entry for bound's canonical form, used when
// its nominal declaration gains new conformances mid-compilation (see
// DESIGN.md's resolution of spec.md §9 open question 1).
func (c *SubstitutionCache) Invalidate(bound *BoundGeneric) {
	delete(c.entries, bound.Canonical())
}
