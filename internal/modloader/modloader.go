// Package modloader resolves import declarations into loaded modules,
// detects dependency cycles, and orders a program's modules for
// bottom-up compilation.
//
// Grounded on the teacher's internal/module/loader.go (cache + mutex,
// load-stack cycle detection, Kahn's-algorithm topological sort,
// resolvePath's stdlib/search-path resolution chain), generalized from
// a single AILANG-source-text loader into one that loads already-parsed
// internal/ast declaration lists and resolves import paths through
// internal/config.SearchPaths.
package modloader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ailang-project/corec/internal/ast"
	"github.com/ailang-project/corec/internal/astctx"
	"github.com/ailang-project/corec/internal/config"
	"github.com/ailang-project/corec/internal/errors"
)

// TUKind distinguishes the four shapes a translation unit can take.
type TUKind int

const (
	// Library is an ordinary importable module with no entry point.
	Library TUKind = iota
	// Main is the module containing the program's top-level entry point.
	Main
	// REPL is a transient, line-at-a-time interactive translation unit.
	REPL
	// PreLoweredIR is a translation unit read back in already-typed-IR
	// form, skipping parsing and type checking entirely.
	PreLoweredIR
)

func (k TUKind) String() string {
	switch k {
	case Library:
		return "library"
	case Main:
		return "main"
	case REPL:
		return "repl"
	case PreLoweredIR:
		return "pre-lowered-ir"
	default:
		return fmt.Sprintf("TUKind(%d)", int(k))
	}
}

// FileModule is a loaded translation unit: its name, file boundary, the
// declarations it introduces at top level, its operator table, and the
// set of modules it re-exports.
type FileModule struct {
	Name         string
	FilePath     string
	Kind         TUKind
	Decls        []ast.Decl
	Operators    map[string]*ast.OperatorDecl
	Dependencies []string
	ReExports    map[string]bool
	Generation   int
}

// Exports returns the set of top-level names this module makes visible
// to importers: every declaration not carrying a `private` attribute.
func (m *FileModule) Exports() []string {
	names := make([]string, 0, len(m.Decls))
	for _, d := range m.Decls {
		if d.Attributes().Has("private") {
			continue
		}
		if _, isImport := d.(*ast.ImportDecl); isImport {
			continue
		}
		names = append(names, d.DeclName())
	}
	sort.Strings(names)
	return names
}

// ContextName / Parent / IsModuleScope / IsTypeScope implement
// ast.DeclContext, so a FileModule can stand as the DC of its own
// top-level declarations.
func (m *FileModule) ContextName() string     { return m.Name }
func (m *FileModule) Parent() ast.DeclContext { return nil }
func (m *FileModule) IsModuleScope() bool     { return true }
func (m *FileModule) IsTypeScope() bool       { return false }

// Frontend turns module source into a FileModule's declaration list.
// Lexing, parsing, and diagnostics production are out of scope for this
// package; callers supply whatever front end they have.
type Frontend interface {
	Parse(filePath string, source []byte) ([]ast.Decl, map[string]*ast.OperatorDecl, error)
}

// Backend consumes a fully loaded, dependency-ordered set of modules
// and produces downstream output (typed IR, object code, ...). Concrete
// bodies are out of scope for this package.
type Backend interface {
	Emit(modules []*FileModule) error
}

// ForeignImporter resolves an import path that does not name a module
// this loader parses directly (e.g. a C header) into a synthesized
// FileModule. Concrete bodies are out of scope for this package.
type ForeignImporter interface {
	Import(path string, sp *config.SearchPaths) (*FileModule, error)
}

// Loader loads FileModules by import path, memoizing results and
// detecting cycles via an explicit load stack.
type Loader struct {
	mu          sync.Mutex
	cache       map[string]*FileModule
	loadStack   []string
	searchPaths *config.SearchPaths
	frontend    Frontend
	foreign     ForeignImporter
	ctx         *astctx.Context
}

// NewLoader constructs a Loader. frontend must be non-nil; foreign may
// be nil if no foreign-module imports are expected.
func NewLoader(sp *config.SearchPaths, frontend Frontend, foreign ForeignImporter, ctx *astctx.Context) *Loader {
	return &Loader{
		cache:       make(map[string]*FileModule),
		searchPaths: sp,
		frontend:    frontend,
		foreign:     foreign,
		ctx:         ctx,
	}
}

// Load resolves path to a FileModule, loading and caching it (and its
// transitive dependencies) if this is the first request for it.
func (l *Loader) Load(path string) (*FileModule, error) {
	l.mu.Lock()
	if m, ok := l.cache[path]; ok {
		l.mu.Unlock()
		return m, nil
	}
	if err := l.pushStack(path); err != nil {
		l.mu.Unlock()
		return nil, err
	}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		l.popStack()
		l.mu.Unlock()
	}()

	filePath, ok := l.searchPaths.ResolveImport(path, ".corec")
	if !ok {
		if l.foreign != nil {
			m, err := l.foreign.Import(path, l.searchPaths)
			if err != nil {
				return nil, &LoadError{Code: errors.LDR006, Message: fmt.Sprintf("foreign import %q failed: %v", path, err), Path: path, Cause: err}
			}
			l.cacheModule(path, m)
			return m, nil
		}
		return nil, &LoadError{Code: errors.LDR001, Message: fmt.Sprintf("module not found in any search path: %s", path), Path: path, Trace: l.trace()}
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &LoadError{Code: errors.LDR001, Message: fmt.Sprintf("reading %s: %v", filePath, err), Path: path, Cause: err}
	}

	decls, ops, err := l.frontend.Parse(filePath, source)
	if err != nil {
		return nil, &LoadError{Code: errors.LDR001, Message: fmt.Sprintf("parsing %s: %v", filePath, err), Path: path, Cause: err}
	}

	m := &FileModule{
		Name:      deriveModuleName(path),
		FilePath:  filePath,
		Kind:      Library,
		Decls:     decls,
		Operators: ops,
		ReExports: make(map[string]bool),
	}

	for _, dep := range extractImports(decls) {
		depModule, err := l.Load(dep.Path)
		if err != nil {
			return nil, err
		}
		m.Dependencies = append(m.Dependencies, dep.Path)
		if dep.Symbols == nil {
			continue
		}
		exported := make(map[string]bool, len(depModule.Exports()))
		for _, name := range depModule.Exports() {
			exported[name] = true
		}
		for _, sym := range dep.Symbols {
			if !exported[sym] {
				return nil, &LoadError{Code: errors.LDR004, Message: fmt.Sprintf("module %s does not export %q", depModule.Name, sym), Path: path}
			}
		}
	}

	if dup := findDuplicateExport(decls); dup != "" {
		return nil, &LoadError{Code: errors.MOD004, Message: fmt.Sprintf("duplicate export %q in module %s", dup, m.Name), Path: path}
	}

	if l.ctx != nil {
		m.Generation = l.ctx.BumpGeneration()
	}

	l.cacheModule(path, m)
	return m, nil
}

func (l *Loader) cacheModule(path string, m *FileModule) {
	l.mu.Lock()
	l.cache[path] = m
	l.mu.Unlock()
}

func (l *Loader) pushStack(path string) error {
	for _, p := range l.loadStack {
		if p == path {
			cycle := append(append([]string{}, l.loadStack...), path)
			return &LoadError{Code: errors.LDR002, Message: fmt.Sprintf("circular module dependency: %s", strings.Join(cycle, " -> ")), Cycle: cycle}
		}
	}
	l.loadStack = append(l.loadStack, path)
	return nil
}

func (l *Loader) popStack() {
	if len(l.loadStack) > 0 {
		l.loadStack = l.loadStack[:len(l.loadStack)-1]
	}
}

// trace renders the current load stack as a resolution trace for error
// messages, innermost import last.
func (l *Loader) trace() []string {
	trace := make([]string, 0, len(l.loadStack))
	for i, id := range l.loadStack {
		if i == 0 {
			trace = append(trace, fmt.Sprintf("resolving %s", id))
		} else {
			trace = append(trace, fmt.Sprintf("%s-> import %s", strings.Repeat("  ", i), id))
		}
	}
	return trace
}

// Loaded returns every module currently cached, in no particular order.
func (l *Loader) Loaded() []*FileModule {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*FileModule, 0, len(l.cache))
	for _, m := range l.cache {
		out = append(out, m)
	}
	return out
}

// TopologicalSort orders modules so that every dependency precedes its
// dependents (Kahn's algorithm), returning an error if the dependency
// graph (restricted to the given modules) contains a cycle.
func TopologicalSort(modules []*FileModule) ([]*FileModule, error) {
	byPath := make(map[string]*FileModule, len(modules))
	indegree := make(map[string]int, len(modules))
	for _, m := range modules {
		byPath[m.Name] = m
		if _, ok := indegree[m.Name]; !ok {
			indegree[m.Name] = 0
		}
	}
	for _, m := range modules {
		for _, dep := range m.Dependencies {
			if _, ok := byPath[dep]; ok {
				indegree[m.Name]++
			}
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	var order []*FileModule
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, byPath[name])

		var newlyReady []string
		for _, m := range modules {
			for _, dep := range m.Dependencies {
				if dep == name {
					indegree[m.Name]--
					if indegree[m.Name] == 0 {
						newlyReady = append(newlyReady, m.Name)
					}
				}
			}
		}
		sort.Strings(newlyReady)
		ready = append(ready, newlyReady...)
		sort.Strings(ready)
	}

	if len(order) != len(modules) {
		return nil, &LoadError{Code: errors.LDR002, Message: "dependency graph contains a cycle"}
	}
	return order, nil
}

// LoadError is a structured module-loading error, grounded on the
// teacher's module.ModuleError.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Cycle   []string
	Trace   []string
	Cause   error
}

func (e *LoadError) Error() string { return e.Message }
func (e *LoadError) Unwrap() error { return e.Cause }

func deriveModuleName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type importSpec struct {
	Path    string
	Symbols []string
}

func extractImports(decls []ast.Decl) []importSpec {
	var out []importSpec
	for _, d := range decls {
		if imp, ok := d.(*ast.ImportDecl); ok {
			out = append(out, importSpec{Path: imp.Path, Symbols: imp.Symbols})
		}
	}
	return out
}

func findDuplicateExport(decls []ast.Decl) string {
	seen := make(map[string]bool)
	for _, d := range decls {
		if _, ok := d.(*ast.ImportDecl); ok {
			continue
		}
		if d.Attributes().Has("private") {
			continue
		}
		name := d.DeclName()
		if name == "" {
			continue
		}
		if seen[name] {
			return name
		}
		seen[name] = true
	}
	return ""
}
