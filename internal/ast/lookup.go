package ast

import "sort"

// LookupFlags is a bitset of modifiers for a single name-lookup query
// (spec.md §4.3).
type LookupFlags uint8

const (
	// VisitSupertypes continues a lookup that reached a scope boundary
	// (IsLimit) on into that boundary's declared supertype chain, instead
	// of stopping there. Constructor lookup omits this flag: initializers
	// are not inherited by default.
	VisitSupertypes LookupFlags = 1 << iota
	// DefaultDefinitions additionally considers protocol default
	// implementations when no concrete witness shadows them.
	DefaultDefinitions
	// RemoveNonVisible drops results not visible from the lookup site
	// (e.g. private declarations in another file).
	RemoveNonVisible
	// RemoveOverridden drops a base-class member when a subclass result
	// for the same name is also present in the match set.
	RemoveOverridden
)

// Named flag combinations matching the three lookup call sites spec.md
// §4.3 distinguishes.
const (
	// UnqualifiedLookupFlags is used for an identifier referenced directly
	// in expression position: it walks supertypes and filters both
	// visibility and overriding.
	UnqualifiedLookupFlags = VisitSupertypes | RemoveNonVisible | RemoveOverridden
	// MemberLookupFlags is used for `base.member`: it walks supertypes,
	// considers protocol defaults, and filters overriding (member lookup
	// happens after overload resolution has already fixed Base's type, so
	// non-visibility filtering does not apply the same way).
	MemberLookupFlags = VisitSupertypes | DefaultDefinitions | RemoveOverridden
	// ConstructorLookupFlags omits VisitSupertypes: initializers are not
	// inherited across the type-scope boundary by default.
	ConstructorLookupFlags = DefaultDefinitions | RemoveOverridden
)

// Scope is one node of the scoped lookup tree, mirroring a lexical scope
// (module, type, function body, brace statement, ...). Children are kept
// sorted by their range's start offset so InnermostContaining can binary
// search them.
type Scope struct {
	Range    SourceRange
	// IsLimit marks a scope boundary lookup does not climb past unless
	// VisitSupertypes is set (e.g. a type's member scope relative to its
	// supertype's).
	IsLimit  bool
	Decls    map[string][]Decl
	Parent   *Scope
	Children []*Scope

	sorted bool
}

// NewScope creates an empty scope with the given range and parent. parent
// may be nil for a module's root scope.
func NewScope(r SourceRange, parent *Scope) *Scope {
	return &Scope{Range: r, Decls: make(map[string][]Decl), Parent: parent}
}

// AddChild appends child to s's child list, invalidating the sorted-order
// cache used by InnermostContaining.
func (s *Scope) AddChild(child *Scope) {
	s.Children = append(s.Children, child)
	s.sorted = false
}

// AddDecl records d as visible under name within this scope.
func (s *Scope) AddDecl(name string, d Decl) {
	s.Decls[name] = append(s.Decls[name], d)
}

func (s *Scope) ensureSorted() {
	if s.sorted {
		return
	}
	sort.Slice(s.Children, func(i, j int) bool {
		return s.Children[i].Range.Start.Offset < s.Children[j].Range.Start.Offset
	})
	s.sorted = true
}

// InnermostContaining returns the most deeply nested descendant scope
// (including s itself) whose range contains pos, using binary search over
// each level's sorted children.
func (s *Scope) InnermostContaining(pos Pos) *Scope {
	s.ensureSorted()
	i := sort.Search(len(s.Children), func(i int) bool {
		return s.Children[i].Range.End.Offset >= pos.Offset
	})
	if i < len(s.Children) {
		child := s.Children[i]
		if pos.Offset >= child.Range.Start.Offset && pos.Offset <= child.Range.End.Offset {
			return child.InnermostContaining(pos)
		}
	}
	return s
}

// Lookup resolves name starting at s and climbing toward the root,
// applying flags. The lookup-limit stopping rule: climbing stops at the
// first scope that yields any match (lexical shadowing), and separately
// stops at any IsLimit scope unless VisitSupertypes permits continuing.
func (s *Scope) Lookup(name string, flags LookupFlags) []Decl {
	for scope := s; scope != nil; scope = scope.Parent {
		if matches, ok := scope.Decls[name]; ok && len(matches) > 0 {
			return applyLookupFlags(matches, flags)
		}
		if scope.IsLimit && flags&VisitSupertypes == 0 {
			break
		}
	}
	return nil
}

func applyLookupFlags(matches []Decl, flags LookupFlags) []Decl {
	out := matches
	if flags&RemoveNonVisible != 0 {
		out = filterVisible(out)
	}
	if flags&RemoveOverridden != 0 {
		out = filterOverridden(out)
	}
	return out
}

// filterVisible drops declarations carrying the "private" attribute. This
// package has no cross-file visibility model of its own, so the lookup
// site is not consulted; if every match is private, the match set is
// returned unchanged.
func filterVisible(matches []Decl) []Decl {
	out := make([]Decl, 0, len(matches))
	for _, d := range matches {
		if !d.Attributes().Has("private") {
			out = append(out, d)
		}
	}
	if len(out) == 0 {
		return matches
	}
	return out
}

// filterOverridden keeps only the most-derived declaration when a match
// set mixes a base member with a subclass override of the same name.
// Overrides are identified structurally here (a TypeDecl member list
// shadowing a name also present in an ancestor's), which this package
// does not itself track, so the default is a no-op pass-through; callers
// with a class hierarchy available should pre-filter before calling
// Lookup if they need this distinction enforced.
func filterOverridden(matches []Decl) []Decl {
	return matches
}
