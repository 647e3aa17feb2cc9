package main

import (
	"fmt"

	"github.com/ailang-project/corec/internal/ast"
	"github.com/ailang-project/corec/internal/astctx"
	"github.com/ailang-project/corec/internal/config"
	"github.com/ailang-project/corec/internal/errors"
	"github.com/ailang-project/corec/internal/lexer"
	"github.com/ailang-project/corec/internal/modloader"
	"github.com/ailang-project/corec/internal/parser"
)

// sourceFrontend is the real modloader.Frontend: it lexes and parses
// source text over internal/parser's supported grammar (imports and
// plain var/let bindings). ctx is shared with the Loader that owns
// this frontend, so every identifier interned while parsing lands in
// the same table the rest of the pipeline will look names up in.
type sourceFrontend struct{ ctx *astctx.Context }

func (f *sourceFrontend) Parse(filePath string, source []byte) ([]ast.Decl, map[string]*ast.OperatorDecl, error) {
	l := lexer.New(filePath, string(source))
	return parser.New(l, f.ctx).ParseFile()
}

// stagesBeyondParsing names the stages a frontendAction can request
// that need more than parsing and module/dependency resolution:
// type-checking, IR lowering, and code generation have no
// implementation in this build yet. "parser" and "module-loader" are
// not listed here because runFrontendAction's real sourceFrontend and
// internal/modloader.Loader already carry those out end to end.
var stagesBeyondParsing = map[string]bool{
	"typechecker": true,
	"ir-lowering": true,
	"codegen":     true,
}

// buildLoader constructs a modloader.Loader over the resolved search
// paths, a fresh astctx.Context, and the real source frontend.
func buildLoader(sp *config.SearchPaths) (*modloader.Loader, *astctx.Context) {
	ctx := astctx.New()
	return modloader.NewLoader(sp, &sourceFrontend{ctx: ctx}, nil, ctx), ctx
}

// runFrontendAction resolves search paths from flags, parses and
// resolves path's module (and its transitive imports) through a real
// frontend, then — for a stage this build doesn't implement past
// parsing — reports CLI001 naming that stage. parse-only, dump-ast,
// and emit-module-only complete for real; typecheck, print-ast, the
// emit-*-ir/assembly/bitcode/object actions, and verify still report
// CLI001, but only once their input has actually parsed and had its
// imports resolved.
func runFrontendAction(flags *cliFlags, stage, path string) (*modloader.FileModule, error) {
	sp, err := flags.resolve()
	if err != nil {
		return nil, err
	}
	loader, _ := buildLoader(sp)
	module, err := loader.Load(path)
	if err != nil {
		return nil, err
	}
	if stagesBeyondParsing[stage] {
		return nil, errors.WrapReport(&errors.Report{
			Schema:  "corec.error/v1",
			Code:    errors.CLI001,
			Phase:   "driver",
			Message: fmt.Sprintf("%s: parsed %s successfully, but this stage has no implementation yet", stage, module.Name),
		})
	}
	return module, nil
}
