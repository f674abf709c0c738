package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// parseTypeExpr parses surface type syntax: `Int`, `Array<T>`, `[T]`,
// `fn(A, B) -> C`, `A | B | C` (spec §3.3).
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	first := p.parseTypeAtom()
	if !p.at(token.BAR) {
		return first
	}
	members := []ast.TypeExpr{first}
	for p.accept(token.BAR) {
		members = append(members, p.parseTypeAtom())
	}
	return &ast.UnionTypeExpr{Loc: ast.Loc{P: first.Pos()}, Members: members}
}

func (p *Parser) parseTypeAtom() ast.TypeExpr {
	pos := p.cur.Pos

	if p.at(token.FN) {
		p.advance()
		p.expect(token.LPAREN)
		var params []ast.TypeExpr
		if !p.at(token.RPAREN) {
			params = append(params, p.parseTypeExpr())
			for p.accept(token.COMMA) {
				params = append(params, p.parseTypeExpr())
			}
		}
		p.expect(token.RPAREN)
		p.expect(token.ARROW)
		ret := p.parseTypeExpr()
		return &ast.FunctionTypeExpr{Loc: ast.Loc{P: pos}, Params: params, Ret: ret}
	}

	if p.accept(token.LBRACK) {
		elem := p.parseTypeExpr()
		p.expect(token.RBRACK)
		return &ast.ArrayTypeExpr{Loc: ast.Loc{P: pos}, Elem: elem}
	}

	name := p.cur.Literal
	p.expect(token.IDENT)

	if name == "Array" && p.at(token.LT) {
		p.advance()
		elem := p.parseTypeExpr()
		p.expectGT()
		return &ast.ArrayTypeExpr{Loc: ast.Loc{P: pos}, Elem: elem}
	}

	if p.at(token.LT) {
		p.advance()
		var args []ast.TypeExpr
		args = append(args, p.parseTypeExpr())
		for p.accept(token.COMMA) {
			args = append(args, p.parseTypeExpr())
		}
		p.expectGT()
		return &ast.GenericType{Loc: ast.Loc{P: pos}, Base: name, Args: args}
	}

	return &ast.NamedType{Loc: ast.Loc{P: pos}, Name: name}
}

// expectGT consumes a `>` closing a generic argument list. Because `>>`
// lexes as a single GTE-less GT GT pair only when not immediately followed
// by `=`, nested generics like `Array<Array<Int>>` just see two GT tokens
// in a row; no special-casing is needed since the lexer never merges bare
// `>` `>`.
func (p *Parser) expectGT() { p.expect(token.GT) }

// maybeTypeAnnotation parses an optional `: Type` suffix.
func (p *Parser) maybeTypeAnnotation() ast.TypeExpr {
	if p.accept(token.COLON) {
		return p.parseTypeExpr()
	}
	return nil
}
