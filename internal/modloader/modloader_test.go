package modloader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailang-project/corec/internal/arena"
	"github.com/ailang-project/corec/internal/ast"
	"github.com/ailang-project/corec/internal/config"
)

// stubFrontend parses a tiny textual format: one "import Path" or
// "import Path: Sym1,Sym2" directive per line, followed by one
// "decl Name" per exported declaration, to exercise the loader without
// a real lexer/parser.
type stubFrontend struct{ table *arena.Table }

func newStubFrontend() *stubFrontend {
	return &stubFrontend{table: arena.NewTable()}
}

func (f *stubFrontend) Parse(filePath string, source []byte) ([]ast.Decl, map[string]*ast.OperatorDecl, error) {
	var decls []ast.Decl
	for _, line := range strings.Split(string(source), "\n") {
		switch {
		case strings.HasPrefix(line, "import "):
			rest := line[len("import "):]
			path, symbols := splitImport(rest)
			decls = append(decls, &ast.ImportDecl{Path: path, Symbols: symbols})
		case strings.HasPrefix(line, "decl "):
			name := line[len("decl "):]
			vd := &ast.ValueDecl{}
			vd.Name = f.table.Intern(name)
			decls = append(decls, vd)
		}
	}
	return decls, map[string]*ast.OperatorDecl{}, nil
}

func TestTUKindString(t *testing.T) {
	assert.Equal(t, "library", Library.String())
	assert.Equal(t, "main", Main.String())
	assert.Equal(t, "repl", REPL.String())
	assert.Equal(t, "pre-lowered-ir", PreLoweredIR.String())
}

func TestLoaderResolvesDependencies(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "Core.corec", "decl Widget\n")
	writeModule(t, dir, "App.corec", "import Core: Widget\ndecl Main\n")

	sp := &config.SearchPaths{Import: []string{dir}}
	loader := NewLoader(sp, newStubFrontend(), nil, nil)

	m, err := loader.Load("App")
	require.NoError(t, err)
	assert.Equal(t, "App", m.Name)
	assert.Equal(t, []string{"Core"}, m.Dependencies)
}

func TestLoaderMissingExportedSymbol(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "Core.corec", "decl Widget\n")
	writeModule(t, dir, "App.corec", "import Core: Gadget\ndecl Main\n")

	sp := &config.SearchPaths{Import: []string{dir}}
	loader := NewLoader(sp, newStubFrontend(), nil, nil)

	_, err := loader.Load("App")
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "LDR004", le.Code)
}

func TestLoaderCycleDetection(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "A.corec", "import B\ndecl X\n")
	writeModule(t, dir, "B.corec", "import A\ndecl Y\n")

	sp := &config.SearchPaths{Import: []string{dir}}
	loader := NewLoader(sp, newStubFrontend(), nil, nil)

	_, err := loader.Load("A")
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "LDR002", le.Code)
}

func TestLoaderModuleNotFound(t *testing.T) {
	dir := t.TempDir()
	sp := &config.SearchPaths{Import: []string{dir}}
	loader := NewLoader(sp, newStubFrontend(), nil, nil)

	_, err := loader.Load("Missing")
	require.Error(t, err)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "LDR001", le.Code)
}

func TestTopologicalSort(t *testing.T) {
	core := &FileModule{Name: "Core"}
	collections := &FileModule{Name: "Collections", Dependencies: []string{"Core"}}
	app := &FileModule{Name: "App", Dependencies: []string{"Core", "Collections"}}

	order, err := TopologicalSort([]*FileModule{app, collections, core})
	require.NoError(t, err)

	index := make(map[string]int, len(order))
	for i, m := range order {
		index[m.Name] = i
	}
	assert.Less(t, index["Core"], index["Collections"])
	assert.Less(t, index["Collections"], index["App"])
}

func TestTopologicalSortCycle(t *testing.T) {
	a := &FileModule{Name: "A", Dependencies: []string{"B"}}
	b := &FileModule{Name: "B", Dependencies: []string{"A"}}

	_, err := TopologicalSort([]*FileModule{a, b})
	require.Error(t, err)
}

func TestFileModuleExportsSkipsPrivateAndImports(t *testing.T) {
	table := arena.NewTable()
	m := &FileModule{
		Name: "Core",
		Decls: []ast.Decl{
			&ast.ImportDecl{Path: "Base"},
			declNamed(table, "Public"),
			privateDeclNamed(table, "Hidden"),
		},
	}
	assert.Equal(t, []string{"Public"}, m.Exports())
}

// --- helpers ---

func writeModule(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func splitImport(rest string) (string, []string) {
	path, symPart, hasSymbols := strings.Cut(rest, ":")
	path = strings.TrimSpace(path)
	if !hasSymbols {
		return path, nil
	}
	var symbols []string
	for _, sym := range strings.Split(symPart, ",") {
		if sym = strings.TrimSpace(sym); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	return path, symbols
}

func declNamed(table *arena.Table, name string) ast.Decl {
	vd := &ast.ValueDecl{}
	vd.Name = table.Intern(name)
	return vd
}

func privateDeclNamed(table *arena.Table, name string) ast.Decl {
	vd := &ast.ValueDecl{}
	vd.Name = table.Intern(name)
	vd.Attrs = ast.AttributeSet{"private": true}
	return vd
}
