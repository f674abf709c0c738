package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// JSX parsing drives the lexer's mode stack directly (spec §4.1): the
// lexer alone can't know when a `{`/`<`/keyword inside JSX children opens
// a nested expression/element/control block, so every mode switch below
// is paired with the exact token consumption that needs the new mode, to
// keep the one-token lookahead cache (Parser.peeked) from observing a
// token scanned under the wrong mode. tryParseJSX is only ever invoked
// from a primary-expression position, where a bare `<` can only mean the
// start of JSX (a `<` appearing as a comparison operator is always
// consumed earlier, by parseComparison's infix loop).

// tryParseJSX parses a JSX element or fragment starting at the current
// `<` token.
func (p *Parser) tryParseJSX() ast.Expr {
	pos := p.cur.Pos
	p.advance() // consume '<'; mode is modeNormal here
	return p.parseJSXAfterLT(pos)
}

// parseJSXAfterLT parses the remainder of an element or fragment once the
// opening `<` has already been consumed (mode is modeNormal).
func (p *Parser) parseJSXAfterLT(pos token.Position) ast.Expr {
	if p.at(token.GT) {
		p.advance() // consume '>' of the fragment opener
		if p.lex != nil {
			p.lex.PushJSXChildren()
		}
		children := p.parseJSXChildren()
		return &ast.JSXFragment{Loc: ast.Loc{P: pos}, Children: children}
	}

	tag := p.cur.Literal
	p.expect(token.IDENT)
	el := &ast.JSXElement{Loc: ast.Loc{P: pos}, Tag: tag}

	for !p.at(token.SLASH) && !p.at(token.GT) && !p.at(token.EOF) {
		el.Attrs = append(el.Attrs, p.parseJSXAttr())
	}

	if p.accept(token.SLASH) {
		p.expect(token.GT)
		el.SelfClosed = true
		return el
	}
	p.expect(token.GT)

	if p.lex != nil {
		p.lex.PushJSXChildren()
	}
	el.Children = p.parseJSXChildren()
	return el
}

func (p *Parser) parseJSXAttr() ast.JSXAttr {
	name := p.cur.Literal
	p.advance()
	attr := ast.JSXAttr{Name: name}

	if p.accept(token.COLON) {
		sub := p.cur.Literal
		p.advance()
		switch name {
		case "class":
			attr.IsClass, attr.ClassTag, attr.Name = true, sub, "class:"+sub
		case "on":
			attr.IsEvent, attr.Name = true, "on:"+sub
		case "bind":
			attr.IsBind, attr.Name = true, "bind:"+sub
		default:
			attr.Name = name + ":" + sub
		}
	}

	if p.accept(token.ASSIGN) {
		if p.accept(token.LBRACE) {
			attr.Value = p.parseExpr()
			p.expect(token.RBRACE)
		} else {
			lit := p.cur.Literal
			pos := p.cur.Pos
			p.expect(token.STRING)
			attr.Value = &ast.StringLit{Loc: ast.Loc{P: pos}, Value: lit}
		}
	}
	return attr
}

// parseJSXChildren scans an element/fragment's children until its closing
// `</tag>` (or `</>`) is consumed.
func (p *Parser) parseJSXChildren() []ast.JSXChild {
	var children []ast.JSXChild
	for {
		switch p.cur.Kind {
		case token.JSX_TEXT:
			pos := p.cur.Pos
			text := p.advance().Literal
			children = append(children, &ast.JSXText{Loc: ast.Loc{P: pos}, Text: text})

		case token.LBRACE:
			pos := p.cur.Pos
			if p.lex != nil {
				p.lex.PushNormal()
			}
			p.advance() // consume '{' under the now-normal mode
			expr := p.parseExpr()
			if p.lex != nil {
				p.lex.PopJSXMode()
			}
			p.expect(token.RBRACE)
			children = append(children, &ast.JSXExpression{Loc: ast.Loc{P: pos}, Expr: expr})

		case token.IF:
			children = append(children, p.parseJSXIf())

		case token.FOR:
			children = append(children, p.parseJSXFor())

		case token.LT:
			pos := p.cur.Pos
			if p.lex != nil {
				p.lex.PopJSXMode()
			}
			p.advance() // consume '<' under modeNormal
			if p.at(token.SLASH) {
				p.advance()
				if p.at(token.IDENT) {
					p.advance()
				}
				p.expect(token.GT)
				return children
			}
			nested := p.parseJSXAfterLT(pos)
			if jc, ok := nested.(ast.JSXChild); ok {
				children = append(children, jc)
			}
			if p.lex != nil {
				p.lex.PushJSXChildren()
			}

		case token.EOF:
			p.errorf(p.cur.Pos, "unterminated JSX element, expected a closing tag")
			return children

		default:
			p.advance()
		}
	}
}

// parseJSXChildrenBlock scans the children of a JSXIf/JSXFor branch, which
// is delimited by `{ ... }` rather than a closing tag.
func (p *Parser) parseJSXChildrenBlock() []ast.JSXChild {
	var children []ast.JSXChild
	for {
		switch p.cur.Kind {
		case token.RBRACE:
			p.advance()
			return children

		case token.JSX_TEXT:
			pos := p.cur.Pos
			text := p.advance().Literal
			children = append(children, &ast.JSXText{Loc: ast.Loc{P: pos}, Text: text})

		case token.LBRACE:
			pos := p.cur.Pos
			if p.lex != nil {
				p.lex.PushNormal()
			}
			p.advance()
			expr := p.parseExpr()
			if p.lex != nil {
				p.lex.PopJSXMode()
			}
			p.expect(token.RBRACE)
			children = append(children, &ast.JSXExpression{Loc: ast.Loc{P: pos}, Expr: expr})

		case token.IF:
			children = append(children, p.parseJSXIf())

		case token.FOR:
			children = append(children, p.parseJSXFor())

		case token.LT:
			pos := p.cur.Pos
			if p.lex != nil {
				p.lex.PopJSXMode()
			}
			p.advance()
			if p.at(token.SLASH) {
				p.advance()
				if p.at(token.IDENT) {
					p.advance()
				}
				p.expect(token.GT)
				if p.lex != nil {
					p.lex.PushJSXChildren()
				}
				continue
			}
			nested := p.parseJSXAfterLT(pos)
			if jc, ok := nested.(ast.JSXChild); ok {
				children = append(children, jc)
			}
			if p.lex != nil {
				p.lex.PushJSXChildren()
			}

		case token.EOF:
			p.errorf(p.cur.Pos, "unterminated JSX control block, expected '}'")
			return children

		default:
			p.advance()
		}
	}
}

// parseJSXIf parses `if cond { children } [elif cond { children }]* [else { children }]`
// appearing as a JSX child (spec §3.2 JSXIf).
func (p *Parser) parseJSXIf() *ast.JSXIf {
	pos := p.cur.Pos
	jsxIf := &ast.JSXIf{Loc: ast.Loc{P: pos}}
	for {
		if p.lex != nil {
			p.lex.PushNormal()
		}
		p.advance() // consume IF/ELIF under modeNormal
		cond := p.parseExpr()
		if p.lex != nil {
			p.lex.PopJSXMode()
		}
		p.expect(token.LBRACE)
		branch := p.parseJSXChildrenBlock()
		jsxIf.Conds = append(jsxIf.Conds, cond)
		jsxIf.Branches = append(jsxIf.Branches, branch)
		if !p.at(token.ELIF) {
			break
		}
	}
	if p.at(token.ELSE) {
		p.advance()
		p.expect(token.LBRACE)
		jsxIf.Else = p.parseJSXChildrenBlock()
	}
	return jsxIf
}

// parseJSXFor parses `for v[, v2] in iter [key={expr}] { children }`
// appearing as a JSX child (spec §3.2 JSXFor).
func (p *Parser) parseJSXFor() *ast.JSXFor {
	pos := p.cur.Pos
	if p.lex != nil {
		p.lex.PushNormal()
	}
	p.advance() // consume FOR under modeNormal
	var vars []string
	vars = append(vars, p.cur.Literal)
	p.expect(token.IDENT)
	for p.accept(token.COMMA) {
		vars = append(vars, p.cur.Literal)
		p.expect(token.IDENT)
	}
	p.expect(token.IN)
	iter := p.parseExpr()
	var key ast.Expr
	if p.at(token.IDENT) && p.cur.Literal == "key" && p.peek().Kind == token.ASSIGN {
		p.advance()
		p.advance()
		p.expect(token.LBRACE)
		key = p.parseExpr()
		p.expect(token.RBRACE)
	}
	if p.lex != nil {
		p.lex.PopJSXMode()
	}
	p.expect(token.LBRACE)
	children := p.parseJSXChildrenBlock()
	return &ast.JSXFor{Loc: ast.Loc{P: pos}, Vars: vars, Iter: iter, Key: key, Children: children}
}
