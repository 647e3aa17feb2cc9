package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ailang-project/corec/internal/ast"
	"github.com/ailang-project/corec/internal/astctx"
	"github.com/ailang-project/corec/internal/errors"
	"github.com/ailang-project/corec/internal/lexer"
)

func parse(src string) ([]ast.Decl, map[string]*ast.OperatorDecl, error) {
	return New(lexer.New("t.corec", src), astctx.New()).ParseFile()
}

func TestParseFileDiscardsOptionalModuleHeader(t *testing.T) {
	decls, ops, err := parse("module geometry")
	require.NoError(t, err)
	assert.Empty(t, decls)
	assert.Empty(t, ops)
}

func TestParseFileAcceptsFileWithNoModuleHeader(t *testing.T) {
	decls, _, err := parse(`let x = 1`)
	require.NoError(t, err)
	require.Len(t, decls, 1)
}

func TestParseImportWithoutSelectors(t *testing.T) {
	decls, _, err := parse(`import "pkg/math"`)
	require.NoError(t, err)
	require.Len(t, decls, 1)

	imp, ok := decls[0].(*ast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, "pkg/math", imp.Path)
	assert.Nil(t, imp.Symbols)
	assert.True(t, imp.Range().Valid())
}

func TestParseImportWithSelectors(t *testing.T) {
	decls, _, err := parse(`import "pkg/math" (sqrt, abs)`)
	require.NoError(t, err)
	require.Len(t, decls, 1)

	imp, ok := decls[0].(*ast.ImportDecl)
	require.True(t, ok)
	assert.Equal(t, []string{"sqrt", "abs"}, imp.Symbols)
}

func TestParseLetBindingWithEachLiteralKind(t *testing.T) {
	cases := []struct {
		src   string
		kind  ast.LiteralKind
		value interface{}
	}{
		{`let a = 1`, ast.IntLiteral, int64(1)},
		{`let a = 1.5`, ast.FloatLiteral, float64(1.5)},
		{`let a = "hi"`, ast.StringLiteral, "hi"},
		{`let a = true`, ast.BoolLiteral, true},
		{`let a = false`, ast.BoolLiteral, false},
		{`let a = nil`, ast.NilLiteral, nil},
	}
	for _, tc := range cases {
		decls, _, err := parse(tc.src)
		require.NoError(t, err, tc.src)
		require.Len(t, decls, 1, tc.src)

		binding, ok := decls[0].(*ast.PatternBindingDecl)
		require.True(t, ok, tc.src)
		lit, ok := binding.Init.(*ast.LiteralExpr)
		require.True(t, ok, tc.src)
		assert.Equal(t, tc.kind, lit.Kind, tc.src)
		assert.Equal(t, tc.value, lit.Value, tc.src)
	}
}

func TestParseVarBindingSetsVarAttribute(t *testing.T) {
	decls, _, err := parse(`var counter = 0`)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.True(t, decls[0].Attributes().Has("var"))
}

func TestParseLetBindingSetsNoVarAttribute(t *testing.T) {
	decls, _, err := parse(`let counter = 0`)
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.False(t, decls[0].Attributes().Has("var"))
}

func TestParseBindingWithIdentifierInitializer(t *testing.T) {
	decls, _, err := parse(`let a = 1
let b = a`)
	require.NoError(t, err)
	require.Len(t, decls, 2)

	binding, ok := decls[1].(*ast.PatternBindingDecl)
	require.True(t, ok)
	ref, ok := binding.Init.(*ast.DeclRefExpr)
	require.True(t, ok)
	assert.Equal(t, "a", ref.Name.String())
}

func TestParseMultipleDeclarations(t *testing.T) {
	decls, _, err := parse(`module app
import "pkg/io" (write)
let a = 1
var b = "s"`)
	require.NoError(t, err)
	require.Len(t, decls, 3)
}

func TestParseReportsPAR002OnMalformedBinding(t *testing.T) {
	_, _, err := parse(`let x 1`)
	require.Error(t, err)
	report, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.PAR002, report.Code)
}

func TestParseReportsPAR003OnUnsupportedDeclaration(t *testing.T) {
	_, _, err := parse(`func f() {}`)
	require.Error(t, err)
	report, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.PAR003, report.Code)
}

func TestParseReportsPAR003OnUnsupportedExpression(t *testing.T) {
	_, _, err := parse(`let x = (1)`)
	require.Error(t, err)
	report, ok := errors.AsReport(err)
	require.True(t, ok)
	assert.Equal(t, errors.PAR003, report.Code)
}
