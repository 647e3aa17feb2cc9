// Package parser turns lexer tokens into internal/ast declarations over
// the minimal grammar this frontend currently supports: import
// declarations and plain var/let bindings initialized to a literal or
// another identifier. Anything outside that grammar is reported as
// PAR003 rather than silently accepted or papered over, since no
// function/type/pattern-matching grammar is implemented yet.
//
// Grounded on the teacher's internal/parser's overall recursive-descent
// shape (a Parser holding cur/peek tokens, one parseX method per
// production) applied fresh to internal/ast's node shapes rather than
// the teacher's original AST. Parsing stops at the first error, which is
// returned as a structured report rather than a panic.
package parser

import (
	"fmt"
	"strconv"

	"github.com/ailang-project/corec/internal/ast"
	"github.com/ailang-project/corec/internal/astctx"
	"github.com/ailang-project/corec/internal/errors"
	"github.com/ailang-project/corec/internal/lexer"
)

// Parser consumes a token stream and builds ast.Decl values, interning
// identifiers through ctx.
type Parser struct {
	l    *lexer.Lexer
	ctx  *astctx.Context
	cur  lexer.Token
	peek lexer.Token
}

// New constructs a Parser reading from l and interning identifiers
// through ctx.
func New(l *lexer.Lexer, ctx *astctx.Context) *Parser {
	p := &Parser{l: l, ctx: ctx}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.l.Next()
}

func (p *Parser) errf(format string, args ...interface{}) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "corec.error/v1",
		Code:    errors.PAR002,
		Phase:   "parser",
		Message: fmt.Sprintf(format, args...),
		Range:   &ast.SourceRange{Start: p.cur.Pos, End: p.cur.Pos},
	})
}

func (p *Parser) unsupported(what string) error {
	return errors.WrapReport(&errors.Report{
		Schema:  "corec.error/v1",
		Code:    errors.PAR003,
		Phase:   "parser",
		Message: fmt.Sprintf("%s is not supported by this frontend yet (at %s)", what, p.cur.Pos),
		Range:   &ast.SourceRange{Start: p.cur.Pos, End: p.cur.Pos},
	})
}

func (p *Parser) expect(k lexer.TokenKind) (lexer.Token, error) {
	if p.cur.Kind != k {
		return lexer.Token{}, p.errf("expected %s, found %s %q", k, p.cur.Kind, p.cur.Text)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// ParseFile parses the whole token stream into a declaration list and
// its (currently always empty) operator table.
func (p *Parser) ParseFile() ([]ast.Decl, map[string]*ast.OperatorDecl, error) {
	// An optional leading `module NAME` header is accepted and discarded;
	// the module's name is derived from its file path by the loader, not
	// declared in-source, per internal/modloader.deriveModuleName.
	if p.cur.Kind == lexer.KwModule {
		p.advance()
		if _, err := p.expect(lexer.Ident); err != nil {
			return nil, nil, err
		}
	}

	var decls []ast.Decl
	for p.cur.Kind != lexer.EOF {
		d, err := p.parseDecl()
		if err != nil {
			return nil, nil, err
		}
		decls = append(decls, d)
	}
	return decls, map[string]*ast.OperatorDecl{}, nil
}

func (p *Parser) parseDecl() (ast.Decl, error) {
	switch p.cur.Kind {
	case lexer.KwImport:
		return p.parseImport()
	case lexer.KwLet, lexer.KwVar:
		return p.parseBinding()
	default:
		return nil, p.unsupported(fmt.Sprintf("a declaration starting with %s", p.cur.Kind))
	}
}

func (p *Parser) parseImport() (ast.Decl, error) {
	start := p.cur.Pos
	p.advance() // 'import'
	pathTok, err := p.expect(lexer.String)
	if err != nil {
		return nil, err
	}

	var symbols []string
	if p.cur.Kind == lexer.LParen {
		p.advance()
		for {
			name, err := p.expect(lexer.Ident)
			if err != nil {
				return nil, err
			}
			symbols = append(symbols, name.Text)
			if p.cur.Kind == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
	}

	decl := &ast.ImportDecl{
		Path:    pathTok.Text,
		Symbols: symbols,
	}
	decl.SrcRange = ast.SourceRange{Start: start, End: p.cur.Pos}
	return decl, nil
}

func (p *Parser) parseBinding() (ast.Decl, error) {
	start := p.cur.Pos
	isVar := p.cur.Kind == lexer.KwVar
	p.advance() // 'let' / 'var'

	name, err := p.expect(lexer.Ident)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.Assign); err != nil {
		return nil, err
	}
	init, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	ident := p.ctx.InternIdentifier(name.Text)
	attrs := ast.AttributeSet{}
	if isVar {
		attrs["var"] = true
	}
	pattern := &ast.NamedPattern{Name: ident}

	decl := &ast.PatternBindingDecl{
		Pattern: pattern,
		Init:    init,
	}
	decl.SrcRange = ast.SourceRange{Start: start, End: p.cur.Pos}
	decl.Name = ident
	decl.Attrs = attrs
	return decl, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	switch p.cur.Kind {
	case lexer.Int:
		tok := p.cur
		p.advance()
		n, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			return nil, p.errf("invalid integer literal %q: %v", tok.Text, err)
		}
		return &ast.LiteralExpr{Kind: ast.IntLiteral, Value: n}, nil
	case lexer.Float:
		tok := p.cur
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, p.errf("invalid float literal %q: %v", tok.Text, err)
		}
		return &ast.LiteralExpr{Kind: ast.FloatLiteral, Value: f}, nil
	case lexer.String:
		tok := p.cur
		p.advance()
		return &ast.LiteralExpr{Kind: ast.StringLiteral, Value: tok.Text}, nil
	case lexer.KwTrue:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.BoolLiteral, Value: true}, nil
	case lexer.KwFalse:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.BoolLiteral, Value: false}, nil
	case lexer.KwNil:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.NilLiteral, Value: nil}, nil
	case lexer.Ident:
		tok := p.cur
		p.advance()
		return &ast.DeclRefExpr{Name: p.ctx.InternIdentifier(tok.Text)}, nil
	default:
		return nil, p.unsupported(fmt.Sprintf("an expression starting with %s", p.cur.Kind))
	}
}
