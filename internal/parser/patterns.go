package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// parsePattern parses a match-arm or let-destructure pattern (spec §3.2
// Patterns): wildcard `_`, literal, range, bind, variant, or array form.
func (p *Parser) parsePattern() ast.Pattern {
	pos := p.cur.Pos

	switch p.cur.Kind {
	case token.IDENT:
		if p.cur.Literal == "_" {
			p.advance()
			return &ast.WildcardPattern{Loc: ast.Loc{P: pos}}
		}
		name := p.cur.Literal
		if p.peek().Kind == token.LPAREN || p.peek().Kind == token.LBRACE {
			return p.parseVariantPattern(pos, name)
		}
		p.advance()
		return &ast.BindPattern{Loc: ast.Loc{P: pos}, Name: name}

	case token.LBRACK:
		return p.parseArrayPattern(pos)

	case token.NUMBER, token.STRING, token.TRUE, token.FALSE, token.NIL, token.MINUS:
		first := p.parseUnary()
		if p.at(token.DOTDOT) || p.at(token.DOTDOTEQ) {
			inclusive := p.at(token.DOTDOTEQ)
			p.advance()
			end := p.parseUnary()
			return &ast.RangePattern{Loc: ast.Loc{P: pos}, Start: first, End: end, Inclusive: inclusive}
		}
		return &ast.LiteralPattern{Loc: ast.Loc{P: pos}, Value: first}
	}

	p.errorf(pos, "unexpected token %s in pattern", p.cur.Kind)
	p.advance()
	return &ast.WildcardPattern{Loc: ast.Loc{P: pos}}
}

func (p *Parser) parseVariantPattern(pos token.Position, name string) ast.Pattern {
	p.advance() // variant name
	vp := &ast.VariantPattern{Loc: ast.Loc{P: pos}, Variant: name}
	if p.accept(token.LPAREN) {
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			vp.Fields = append(vp.Fields, p.parsePattern())
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
		return vp
	}
	if p.accept(token.LBRACE) {
		vp.Named = map[string]ast.Pattern{}
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			fname := p.cur.Literal
			p.expect(token.IDENT)
			if p.accept(token.COLON) {
				vp.Named[fname] = p.parsePattern()
			} else {
				vp.Named[fname] = &ast.BindPattern{Loc: ast.Loc{P: pos}, Name: fname}
			}
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
	}
	return vp
}

func (p *Parser) parseArrayPattern(pos token.Position) ast.Pattern {
	p.advance() // [
	ap := &ast.ArrayPattern{Loc: ast.Loc{P: pos}}
	for !p.at(token.RBRACK) && !p.at(token.EOF) {
		if p.at(token.ELLIPSIS) {
			p.advance()
			ap.Rest = p.cur.Literal
			p.expect(token.IDENT)
			break
		}
		ap.Elems = append(ap.Elems, p.parsePattern())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACK)
	return ap
}
