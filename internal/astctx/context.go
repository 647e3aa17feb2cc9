// Package astctx implements the AST context: the process-wide-singleton-like
// root that owns the two arenas, uniques identifiers/types/conformances,
// hosts module loaders, and tracks the cross-module generation counter.
//
// Grounded on original_source/include/swift/AST/ASTContext.h (Allocate,
// getIdentifier, addModuleLoader, loadExtensions, bumpGeneration,
// getConformance, addCleanup) and on the teacher's module.Loader for the
// "own a cache, revalidate against a counter" idiom.
package astctx

import (
	"golang.org/x/text/unicode/norm"

	"github.com/ailang-project/corec/internal/arena"
	"github.com/ailang-project/corec/internal/types"
)

// ModuleLoader produces modules of external declarations on demand; it
// bumps the context's generation counter when it introduces new
// declarations. The concrete loaders (file-based, foreign-importer-backed)
// live in package modloader; this is the narrow interface astctx depends
// on.
type ModuleLoader interface {
	// LoadExtensions asks the loader to contribute extensions to nominal
	// whose generation exceeds previousGeneration, returning the new
	// current generation.
	LoadExtensions(nominal *types.Nominal, previousGeneration int) (newGeneration int)
}

// Context is the AST context. A Context is per-compilation, not
// per-process (spec.md §9): multiple concurrent compilations must own
// disjoint Contexts.
type Context struct {
	permanent        *arena.Arena
	constraintSolver *arena.Arena
	idents           *arena.Table

	typeTable  map[string]types.Type // structural-form key -> canonical instance
	conformances *types.ConformanceTable
	substCache   *types.SubstitutionCache

	loaders       []loaderEntry
	listeners     []func(*types.Nominal)
	generation    int
	cleanups      []func()

	// HadError is flipped by front-end diagnostics to record that
	// compilation has seen at least one ill-formed-source error (spec.md
	// §7); the core never panics for this, it is purely advisory state
	// the driver consults.
	HadError bool

	session *Session
}

type loaderEntry struct {
	loader     ModuleLoader
	isForeign  bool
}

// New creates an empty AST context with fresh arenas and tables.
func New() *Context {
	return &Context{
		permanent:        arena.New(arena.Permanent),
		constraintSolver: arena.New(arena.ConstraintSolver),
		idents:           arena.NewTable(),
		typeTable:        make(map[string]types.Type),
		conformances:     types.NewConformanceTable(),
		substCache:       types.NewSubstitutionCache(),
	}
}

// Allocate returns a zeroed byte block of the requested size/alignment
// from the named arena.
func (c *Context) Allocate(size, alignment int, kind arena.Kind) []byte {
	if kind == arena.ConstraintSolver {
		return c.constraintSolver.Allocate(size, alignment)
	}
	return c.permanent.Allocate(size, alignment)
}

// InternIdentifier returns the handle unique per NFC-normalized,
// byte-equal string. Normalizing before interning means two
// canonically-equivalent but differently-encoded spellings of the same
// identifier unique to one handle.
func (c *Context) InternIdentifier(text string) arena.Ident {
	return c.idents.Intern(norm.NFC.String(text))
}

// InternType returns the canonical instance for a structurally-built
// type: all type builders are expected to route through this before
// handing a type out, so that type equality becomes handle equality.
// key is a caller-computed structural digest (e.g., the type's String()
// form for forms where that's injective enough, or a more precise key for
// forms where it is not).
func (c *Context) InternType(key string, build func() types.Type) types.Type {
	if t, ok := c.typeTable[key]; ok {
		return t
	}
	t := build().Canonical()
	c.typeTable[key] = t
	return t
}

// LookupConformance returns the recorded conformance for (typ, protocol),
// or (nil, false) if absent.
func (c *Context) LookupConformance(typ types.Type, protocol *types.Nominal) (*types.Conformance, bool) {
	return c.conformances.Lookup(typ, protocol)
}

// RecordConformance stores conf as the conformance entry for (typ,
// protocol).
func (c *Context) RecordConformance(typ types.Type, protocol *types.Nominal, conf *types.Conformance) {
	c.conformances.Record(typ, protocol, conf)
}

// SubstitutionFor returns the (possibly newly-created identity)
// substitution list cached for bound's canonical form.
func (c *Context) SubstitutionFor(bound *types.BoundGeneric, params []types.GenericParam) types.Substitution {
	return c.substCache.Get(bound, params)
}

// InvalidateSubstitution drops the cached substitution for bound — used
// when its nominal declaration gains new conformances mid-compilation.
func (c *Context) InvalidateSubstitution(bound *types.BoundGeneric) {
	c.substCache.Invalidate(bound)
}

// AddModuleLoader appends loader to the ordered loader list. isForeign
// marks it as the foreign-module importer (at most conceptually one such
// loader is expected, but the context does not enforce that — callers
// own that policy).
func (c *Context) AddModuleLoader(loader ModuleLoader, isForeign bool) {
	c.loaders = append(c.loaders, loaderEntry{loader: loader, isForeign: isForeign})
}

// AddMutationListener registers a callback invoked whenever LoadExtensions
// introduces declarations for a nominal type, so lookup caches elsewhere
// in the compiler can react without polling the generation counter
// themselves.
func (c *Context) AddMutationListener(fn func(*types.Nominal)) {
	c.listeners = append(c.listeners, fn)
}

// LoadExtensions asks every registered loader to contribute extensions to
// nominal whose generation exceeds previousGeneration; used by lookup
// caches to refresh themselves. Returns the context's current generation
// after the query, which callers should remember as their new baseline.
func (c *Context) LoadExtensions(nominal *types.Nominal, previousGeneration int) int {
	contributed := false
	for _, entry := range c.loaders {
		before := c.generation
		if newGen := entry.loader.LoadExtensions(nominal, previousGeneration); newGen > before {
			c.generation = newGen
			contributed = true
		}
	}
	if contributed {
		for _, listener := range c.listeners {
			listener(nominal)
		}
	}
	return c.generation
}

// CurrentGeneration returns the context's generation counter without
// advancing it.
func (c *Context) CurrentGeneration() int { return c.generation }

// BumpGeneration returns the old generation value and increments the
// counter. Called whenever a module loader introduces new external
// declarations.
func (c *Context) BumpGeneration() int {
	old := c.generation
	c.generation++
	return old
}

// RegisterCleanup appends fn to the cleanup list; cleanups run in LIFO
// order at Close.
func (c *Context) RegisterCleanup(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

// RegisterDestructorCleanup registers destroy to run at Close, for
// arena-embedded objects that need non-trivial teardown (e.g., closing a
// file handle a declaration's payload captured).
func (c *Context) RegisterDestructorCleanup(destroy func()) {
	c.RegisterCleanup(destroy)
}

// Close runs every registered cleanup in LIFO order and resets both
// arenas. After Close, no handle obtained from this Context may be used.
func (c *Context) Close() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
	c.constraintSolver.Reset()
	c.permanent.Reset()
}

// IdentifierTableLen reports how many distinct identifiers have been
// interned; exposed for diagnostics and tests.
func (c *Context) IdentifierTableLen() int { return c.idents.Len() }
