package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ailang-project/corec/internal/arena"
	"github.com/ailang-project/corec/internal/types"
)

func internTestIdent(t *testing.T, text string) arena.Ident {
	t.Helper()
	tbl := arena.NewTable()
	return tbl.Intern(text)
}

func TestValueDeclIsFunctionDistinguishesShapes(t *testing.T) {
	plain := &ValueDecl{base: base{Name: internTestIdent(t, "x")}, IsVar: true}
	assert.False(t, plain.IsFunction())
	assert.Equal(t, "var x", plain.String())

	fn := &ValueDecl{
		base:   base{Name: internTestIdent(t, "f")},
		Params: []*ParamDecl{{}},
	}
	assert.True(t, fn.IsFunction())
	assert.Equal(t, "func f", fn.String())
}

func TestValueDeclLetString(t *testing.T) {
	let := &ValueDecl{base: base{Name: internTestIdent(t, "y")}}
	assert.Equal(t, "let y", let.String())
}

func TestAttributesDefaultsToEmptySet(t *testing.T) {
	d := &ValueDecl{base: base{Name: internTestIdent(t, "z")}}
	assert.False(t, d.Attributes().Has("final"))
}

func TestExtensionDeclString(t *testing.T) {
	nominal := types.NewNominal(types.StructKind, fakeDeclName("Point"))
	ext := &ExtensionDecl{ExtendedType: nominal}
	assert.Equal(t, "extension Point", ext.String())
}

type fakeDeclName string

func (f fakeDeclName) DeclName() string { return string(f) }

func TestDeclKindStringCoversEveryKind(t *testing.T) {
	kinds := []DeclKind{
		ValueDeclKind, TypeDeclKind, PatternBindingDeclKind, ExtensionDeclKind,
		EnumCaseDeclKind, SubscriptDeclKind, InitializerDeclKind, DestructorDeclKind,
		OperatorDeclKind, ImportDeclKind,
	}
	for _, k := range kinds {
		assert.NotEqual(t, "Unknown", k.String())
	}
}

func TestImportDeclString(t *testing.T) {
	imp := &ImportDecl{Path: "Core"}
	assert.Equal(t, "import Core", imp.String())
}
