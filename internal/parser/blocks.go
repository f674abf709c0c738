package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// parseObjectPropList parses `{ key: value, key2: value2, ... }` where
// every entry is a plain `name: expr` pair — the shape shared by
// auth/session/schedule/rate_limit/compression/upload/cors/db/model option
// blocks and `deploy` blocks (spec §3.2).
func (p *Parser) parseObjectPropList() []ast.ObjectProp {
	p.expect(token.LBRACE)
	var props []ast.ObjectProp
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		name := p.cur.Literal
		p.advance()
		p.expect(token.COLON)
		value := p.parseExpr()
		props = append(props, ast.ObjectProp{Name: name, Value: value})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return props
}

func (p *Parser) parseBodyStatements() []ast.Stmt {
	p.expect(token.LBRACE)
	var body []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmt := p.recoverStmt(func() ast.Stmt { return p.parseStmt() })
		if stmt != nil {
			body = append(body, stmt)
		}
	}
	p.expect(token.RBRACE)
	return body
}

func (p *Parser) optionalStringName() string {
	if p.at(token.STRING) {
		return p.advance().Literal
	}
	return ""
}

func (p *Parser) parseServerBlock() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.optionalStringName()
	return &ast.ServerBlock{Loc: ast.Loc{P: pos}, Name: name, Body: p.parseBodyStatements()}
}

func (p *Parser) parseClientBlock() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.optionalStringName()
	return &ast.ClientBlock{Loc: ast.Loc{P: pos}, Name: name, Body: p.parseBodyStatements()}
}

func (p *Parser) parseSharedBlock() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.optionalStringName()
	return &ast.SharedBlock{Loc: ast.Loc{P: pos}, Name: name, Body: p.parseBodyStatements()}
}

func (p *Parser) parseDataBlock() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	db := &ast.DataBlock{Loc: ast.Loc{P: pos}, Name: name}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.IDENT) && p.peek().Kind == token.COLON {
			fname := p.advance().Literal
			p.advance() // :
			db.Fields = append(db.Fields, ast.DataField{Name: fname, Type: p.parseTypeExpr()})
			p.accept(token.COMMA)
			continue
		}
		db.Rows = append(db.Rows, p.parseExpr())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return db
}

func (p *Parser) parseDeployBlock() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.optionalStringName()
	return &ast.DeployBlock{Loc: ast.Loc{P: pos}, Name: name, Props: p.parseObjectPropList()}
}

func (p *Parser) parseTestBlock() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.optionalStringName()
	tb := &ast.TestBlock{Loc: ast.Loc{P: pos}, Name: name}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.FN) {
			tb.Funcs = append(tb.Funcs, p.parseFunctionDecl())
			continue
		}
		p.synchronize()
		if !p.at(token.RBRACE) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return tb
}

func (p *Parser) parseStateDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	var typ ast.TypeExpr
	if p.accept(token.COLON) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	return &ast.StateDecl{Loc: ast.Loc{P: pos}, Name: name, Type: typ, Initial: p.parseExpr()}
}

func (p *Parser) parseComputedDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.ASSIGN)
	return &ast.ComputedDecl{Loc: ast.Loc{P: pos}, Name: name, Expr: p.parseExpr()}
}

func (p *Parser) parseEffectDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	ed := &ast.EffectDecl{Loc: ast.Loc{P: pos}}
	if p.accept(token.LPAREN) {
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			ed.Deps = append(ed.Deps, p.parseExpr())
			if !p.accept(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	ed.Body = p.parseBlock()
	return ed
}

func (p *Parser) parseComponentDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	cd := &ast.ComponentDecl{Loc: ast.Loc{P: pos}, Name: name}
	if p.accept(token.LPAREN) {
		cd.Props = p.parseParamList()
		p.expect(token.RPAREN)
	}
	cd.Body = p.parseBodyStatements()
	return cd
}

func (p *Parser) parseStoreDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	return &ast.StoreDecl{Loc: ast.Loc{P: pos}, Name: name, Body: p.parseBodyStatements()}
}

func (p *Parser) parseRouteDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	method := p.cur.Literal
	p.advance()
	path := p.cur.Literal
	p.expect(token.STRING)
	rd := &ast.RouteDecl{Loc: ast.Loc{P: pos}, Method: method, Path: path}
	if p.accept(token.LPAREN) {
		rd.Params = p.parseParamList()
		p.expect(token.RPAREN)
	}
	rd.Body = p.parseBlock()
	return rd
}

func (p *Parser) parseMiddlewareDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.LPAREN)
	params := p.parseParamList()
	p.expect(token.RPAREN)
	return &ast.MiddlewareDecl{Loc: ast.Loc{P: pos}, Name: name, Params: params, Body: p.parseBlock()}
}

func (p *Parser) parseModelDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	return &ast.ModelDecl{Loc: ast.Loc{P: pos}, Name: name, Options: p.parseObjectPropList()}
}

func (p *Parser) parseDbDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	p.expect(token.LBRACE)
	driver := p.cur.Literal
	p.advance()
	dd := &ast.DbDecl{Loc: ast.Loc{P: pos}, Driver: driver, Props: p.parseObjectPropList()}
	p.expect(token.RBRACE)
	return dd
}

func (p *Parser) parseSseDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	path := p.cur.Literal
	p.expect(token.STRING)
	sd := &ast.SseDecl{Loc: ast.Loc{P: pos}, Path: path}
	if p.accept(token.LPAREN) {
		sd.Params = p.parseParamList()
		p.expect(token.RPAREN)
	}
	sd.Body = p.parseBlock()
	return sd
}

func (p *Parser) parseWsDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	path := p.cur.Literal
	p.expect(token.STRING)
	wd := &ast.WsDecl{Loc: ast.Loc{P: pos}, Path: path}
	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.ON) && p.peek().Kind == token.IDENT {
			switch p.peek().Literal {
			case "open":
				p.advance()
				p.advance()
				wd.OnOpen = p.parseBlock()
				continue
			case "message":
				p.advance()
				p.advance()
				if p.accept(token.LPAREN) {
					p.parseParamList()
					p.expect(token.RPAREN)
				}
				wd.OnMessage = p.parseBlock()
				continue
			case "close":
				p.advance()
				p.advance()
				wd.OnClose = p.parseBlock()
				continue
			}
		}
		p.synchronize()
		if !p.at(token.RBRACE) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return wd
}

func (p *Parser) parseAuthDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	strategy := p.cur.Literal
	p.advance()
	return &ast.AuthDecl{Loc: ast.Loc{P: pos}, Strategy: strategy, Props: p.parseObjectPropList()}
}

func (p *Parser) parseSessionDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	store := p.cur.Literal
	p.advance()
	return &ast.SessionDecl{Loc: ast.Loc{P: pos}, Store: store, Props: p.parseObjectPropList()}
}

func (p *Parser) parseScheduleDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	spec := p.cur.Literal
	p.expect(token.STRING)
	return &ast.ScheduleDecl{Loc: ast.Loc{P: pos}, Spec: spec, Body: p.parseBlock()}
}

func (p *Parser) parseRateLimitDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	return &ast.RateLimitDecl{Loc: ast.Loc{P: pos}, Props: p.parseObjectPropList()}
}

func (p *Parser) parseCompressionDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	return &ast.CompressionDecl{Loc: ast.Loc{P: pos}, Props: p.parseObjectPropList()}
}

func (p *Parser) parseUploadDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	return &ast.UploadDecl{Loc: ast.Loc{P: pos}, Props: p.parseObjectPropList()}
}

func (p *Parser) parseCorsDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	return &ast.CorsDecl{Loc: ast.Loc{P: pos}, Props: p.parseObjectPropList()}
}

func (p *Parser) parseEnvDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.COLON)
	typ := p.parseTypeExpr()
	var def ast.Expr
	if p.accept(token.ASSIGN) {
		def = p.parseExpr()
	}
	return &ast.EnvDecl{Loc: ast.Loc{P: pos}, Name: name, Type: typ, Default: def}
}

func (p *Parser) parseLifecycleDecl() ast.Stmt {
	pos := p.cur.Pos
	kind := ast.LifecycleKind(p.cur.Literal)
	p.advance()
	return &ast.LifecycleDecl{Loc: ast.Loc{P: pos}, Kind: kind, Body: p.parseBlock()}
}

func (p *Parser) parseHealthDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	return &ast.HealthDecl{Loc: ast.Loc{P: pos}, Body: p.parseBlock()}
}

func (p *Parser) parseStaticDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	path := p.cur.Literal
	p.expect(token.STRING)
	p.expect(token.ARROW)
	dir := p.cur.Literal
	p.expect(token.STRING)
	return &ast.StaticDecl{Loc: ast.Loc{P: pos}, Path: path, Dir: dir}
}

func (p *Parser) parseBackgroundDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance()
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.LPAREN)
	params := p.parseParamList()
	p.expect(token.RPAREN)
	return &ast.BackgroundDecl{Loc: ast.Loc{P: pos}, Name: name, Params: params, Body: p.parseBlock()}
}
