// Package arena implements the bump allocators and identifier table that
// back the AST context. Allocations within one arena share a lifetime; the
// whole arena is discarded at once instead of tracking individual frees.
package arena

import "fmt"

// Kind names the two arena lifetimes the AST context manages.
type Kind int

const (
	// Permanent holds everything that must outlive a single type-checking
	// pass: declarations, canonical types with no free type variable.
	Permanent Kind = iota
	// ConstraintSolver holds types and nodes that depend on a type
	// variable; it is scoped to one constraint-checker session and
	// invalidated in bulk when that session ends.
	ConstraintSolver
)

func (k Kind) String() string {
	switch k {
	case Permanent:
		return "permanent"
	case ConstraintSolver:
		return "constraint-solver"
	default:
		return fmt.Sprintf("arena.Kind(%d)", int(k))
	}
}

const chunkSize = 32 * 1024

// chunk is one contiguous slab of bytes handed out by Allocate.
type chunk struct {
	buf []byte
	off int
}

// Arena is a bump allocator: Allocate never frees individual objects, and
// Reset discards every allocation made since the arena (or its last reset)
// was created.
//
// Go's garbage collector already reclaims the backing chunks once Reset
// drops their slice headers, so Arena's job is not memory safety — it is
// enforcing the single-lifetime-boundary discipline the AST context
// depends on: handles into a reset arena must not be dereferenced again.
type Arena struct {
	kind    Kind
	chunks  []*chunk
	live    int // number of Allocate calls since last Reset, for stats only
	resetGn int // bumped on every Reset so stale generation tags are detectable
}

// New creates an empty arena of the given kind.
func New(kind Kind) *Arena {
	return &Arena{kind: kind}
}

// Kind reports which lifetime this arena belongs to.
func (a *Arena) Kind() Kind { return a.kind }

// Generation returns how many times this arena has been reset. Handles
// tagged with an older generation are known-stale without a pointer
// comparison.
func (a *Arena) Generation() int { return a.resetGn }

// Allocate returns a zeroed byte slice of the given length, carved out of
// the arena's current chunk (allocating a new chunk if necessary).
// Alignment is modeled loosely: the alignment parameter is accepted but
// not applied, so allocations are packed back to back within a chunk with
// no padding between them.
func (a *Arena) Allocate(size, alignment int) []byte {
	if size <= 0 {
		return nil
	}
	if len(a.chunks) == 0 || a.chunks[len(a.chunks)-1].off+size > len(a.chunks[len(a.chunks)-1].buf) {
		sz := chunkSize
		if size > sz {
			sz = size
		}
		a.chunks = append(a.chunks, &chunk{buf: make([]byte, sz)})
	}
	c := a.chunks[len(a.chunks)-1]
	start := c.off
	c.off += size
	a.live++
	return c.buf[start:c.off:c.off]
}

// Reset discards every allocation made in this arena. Any handle obtained
// from a prior Allocate call must not be used after Reset; the generation
// counter exists so callers that keep only an (arena, generation) pair can
// detect the staleness cheaply.
func (a *Arena) Reset() {
	a.chunks = nil
	a.live = 0
	a.resetGn++
}

// Live reports the number of allocations made since the last Reset. Useful
// for diagnostics and tests, not load-bearing for correctness.
func (a *Arena) Live() int { return a.live }

// Ident is a pointer-sized handle to a uniqued UTF-8 string owned by an
// identifier Table. Equality of two Idents from the same Table is pointer
// equality of the underlying *entry, so Idents may be compared with ==.
type Ident struct {
	e *entry
}

type entry struct {
	text string
}

// IsEmpty reports whether this Ident was never assigned (the zero value).
func (i Ident) IsEmpty() bool { return i.e == nil }

// String returns the interned text, or "" for the zero Ident.
func (i Ident) String() string {
	if i.e == nil {
		return ""
	}
	return i.e.text
}

// Table is a process-wide-singleton-like set of uniqued identifiers: two
// byte-equal strings (after normalization, see Table.Intern) always
// produce the same Ident.
type Table struct {
	entries map[string]*entry
}

// NewTable creates an empty identifier table.
func NewTable() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// Intern returns the Ident unique to text. Callers are expected to have
// already normalized text (see astctx.Context.InternIdentifier, which
// NFC-normalizes before calling this).
func (t *Table) Intern(text string) Ident {
	if e, ok := t.entries[text]; ok {
		return Ident{e}
	}
	e := &entry{text: text}
	t.entries[text] = e
	return Ident{e}
}

// Len reports how many distinct identifiers have been interned.
func (t *Table) Len() int { return len(t.entries) }
