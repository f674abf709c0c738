package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// parseFormBlock parses `form Name [: Type] { field ... group ... array
// ... steps { ... } on submit { ... } }` (spec §3.2 Forms).
func (p *Parser) parseFormBlock() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // form
	name := p.cur.Literal
	p.expect(token.IDENT)
	fb := &ast.FormBlock{Loc: ast.Loc{P: pos}, Name: name}
	if p.accept(token.COLON) {
		fb.Type = p.parseTypeExpr()
	}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		switch p.cur.Kind {
		case token.FIELD:
			fb.Fields = append(fb.Fields, p.parseFormField())
		case token.GROUP:
			fb.Groups = append(fb.Groups, p.parseFormGroup())
		case token.ARRAY_KW:
			fb.Arrays = append(fb.Arrays, p.parseFormArrayField())
		case token.STEPS:
			fb.Steps = p.parseFormSteps()
		case token.ON:
			p.advance()
			p.expect(token.SUBMIT)
			fb.OnSubmit = p.parseBlock()
		default:
			p.synchronize()
			if !p.at(token.RBRACE) {
				p.advance()
			}
		}
	}
	p.expect(token.RBRACE)
	return fb
}

func (p *Parser) parseFormField() ast.FormField {
	pos := p.cur.Pos
	p.advance() // field
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.COLON)
	typ := p.parseTypeExpr()
	field := ast.FormField{Loc: ast.Loc{P: pos}, Name: name, Type: typ}
	if p.accept(token.ASSIGN) {
		field.Default = p.parseExpr()
	}
	if p.accept(token.LBRACE) {
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			field.Validators = append(field.Validators, p.parseFormValidator())
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACE)
	}
	return field
}

func (p *Parser) parseFormValidator() ast.FormValidator {
	name := p.cur.Literal
	p.expect(token.IDENT)
	fv := ast.FormValidator{Name: name}
	if p.accept(token.LPAREN) {
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			fv.Args = append(fv.Args, p.parseExpr())
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	return fv
}

func (p *Parser) parseFormGroup() ast.FormGroup {
	pos := p.cur.Pos
	p.advance() // group
	name := p.cur.Literal
	p.expect(token.IDENT)
	g := ast.FormGroup{Loc: ast.Loc{P: pos}, Name: name}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		switch p.cur.Kind {
		case token.FIELD:
			g.Fields = append(g.Fields, p.parseFormField())
		case token.GROUP:
			g.Groups = append(g.Groups, p.parseFormGroup())
		default:
			p.synchronize()
			if !p.at(token.RBRACE) {
				p.advance()
			}
		}
	}
	p.expect(token.RBRACE)
	return g
}

func (p *Parser) parseFormArrayField() ast.FormArrayField {
	pos := p.cur.Pos
	p.advance() // array
	name := p.cur.Literal
	p.expect(token.IDENT)
	af := ast.FormArrayField{Loc: ast.Loc{P: pos}, Name: name}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.FIELD) {
			af.Fields = append(af.Fields, p.parseFormField())
			continue
		}
		p.synchronize()
		if !p.at(token.RBRACE) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return af
}

func (p *Parser) parseFormSteps() []ast.FormStep {
	p.advance() // steps
	p.expect(token.LBRACE)
	var steps []ast.FormStep
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		name := p.cur.Literal
		p.expect(token.IDENT)
		p.expect(token.COLON)
		p.expect(token.LBRACK)
		var members []string
		for !p.at(token.RBRACK) && !p.at(token.EOF) {
			members = append(members, p.cur.Literal)
			p.expect(token.IDENT)
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RBRACK)
		steps = append(steps, ast.FormStep{Name: name, Members: members})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return steps
}
