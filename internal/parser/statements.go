package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// parseTopLevelStmt dispatches the statements legal at module scope: the
// named multi-blocks (server/client/shared/data/deploy/test/form), type and
// function declarations, impl/trait blocks, and plain let/var bindings.
func (p *Parser) parseTopLevelStmt() ast.Stmt {
	return p.recoverStmt(func() ast.Stmt {
		switch p.cur.Kind {
		case token.SERVER:
			return p.parseServerBlock()
		case token.CLIENT:
			return p.parseClientBlock()
		case token.SHARED:
			return p.parseSharedBlock()
		case token.DATA:
			return p.parseDataBlock()
		case token.DEPLOY:
			return p.parseDeployBlock()
		case token.TEST:
			return p.parseTestBlock()
		case token.FORM:
			return p.parseFormBlock()
		default:
			return p.parseStmt()
		}
	})
}

// parseStmt parses one statement inside a block body. It's shared by
// function/component/block bodies and (via parseTopLevelStmt) the module
// root, since most statement kinds are legal in every scope — the
// analyzer, not the parser, rejects context-invalid declarations (spec
// §4.3).
func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case token.VAR:
		return p.parseAssignOrLetDestructure(true)
	case token.FN:
		return p.parseFunctionDecl()
	case token.TYPE:
		return p.parseTypeDecl()
	case token.IMPL:
		return p.parseImplBlock()
	case token.TRAIT:
		return p.parseTraitDecl()
	case token.IF:
		return p.parseIfStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.BREAK:
		pos := p.cur.Pos
		p.advance()
		return &ast.BreakStmt{Loc: ast.Loc{P: pos}}
	case token.CONTINUE:
		pos := p.cur.Pos
		p.advance()
		return &ast.ContinueStmt{Loc: ast.Loc{P: pos}}
	case token.LBRACE:
		return p.parseBlock()
	case token.STATE:
		return p.parseStateDecl()
	case token.COMPUTED:
		return p.parseComputedDecl()
	case token.EFFECT:
		return p.parseEffectDecl()
	case token.COMPONENT:
		return p.parseComponentDecl()
	case token.STORE:
		return p.parseStoreDecl()
	case token.ROUTE:
		return p.parseRouteDecl()
	case token.MIDDLEWARE:
		return p.parseMiddlewareDecl()
	case token.MODEL:
		return p.parseModelDecl()
	case token.DB:
		return p.parseDbDecl()
	case token.SSE:
		return p.parseSseDecl()
	case token.WS:
		return p.parseWsDecl()
	case token.AUTH:
		return p.parseAuthDecl()
	case token.SESSION:
		return p.parseSessionDecl()
	case token.SCHEDULE:
		return p.parseScheduleDecl()
	case token.RATE_LIMIT:
		return p.parseRateLimitDecl()
	case token.COMPRESSION:
		return p.parseCompressionDecl()
	case token.UPLOAD:
		return p.parseUploadDecl()
	case token.CORS:
		return p.parseCorsDecl()
	case token.ENV:
		return p.parseEnvDecl()
	case token.ON_START, token.ON_STOP, token.ON_ERROR:
		return p.parseLifecycleDecl()
	case token.HEALTH:
		return p.parseHealthDecl()
	case token.STATIC:
		return p.parseStaticDecl()
	case token.BACKGROUND:
		return p.parseBackgroundDecl()
	case token.STYLE_BLOCK:
		pos := p.cur.Pos
		css := p.cur.Literal
		p.advance()
		return &ast.StyleDecl{Loc: ast.Loc{P: pos}, CSS: css}
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	pos := p.cur.Pos
	p.expect(token.LBRACE)
	b := &ast.BlockStmt{Loc: ast.Loc{P: pos}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmt := p.recoverStmt(func() ast.Stmt { return p.parseStmt() })
		if stmt != nil {
			b.Statements = append(b.Statements, stmt)
		}
	}
	p.expect(token.RBRACE)
	return b
}

// parseAssignOrLetDestructure handles `var name = expr` / `var [a, b] =
// expr` / `var { x, y } = obj`. mutable reports whether `var` introduced
// it (vs. a bare `let`-style plain assignment handled elsewhere).
func (p *Parser) parseAssignOrLetDestructure(mutable bool) ast.Stmt {
	pos := p.cur.Pos
	p.advance() // var
	if p.at(token.LBRACK) || p.at(token.LBRACE) {
		pat := p.parsePattern()
		p.expect(token.ASSIGN)
		value := p.parseExpr()
		return &ast.LetDestructureStmt{Loc: ast.Loc{P: pos}, Pattern: pat, Value: value}
	}
	name := p.cur.Literal
	p.expect(token.IDENT)
	var typ ast.TypeExpr
	if p.accept(token.COLON) {
		typ = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	value := p.parseExpr()
	return &ast.AssignStmt{
		Loc: ast.Loc{P: pos}, Targets: []ast.Expr{&ast.Ident{Loc: ast.Loc{P: pos}, Name: name}},
		Values: []ast.Expr{value}, Mutable: mutable, Type: typ,
	}
}

var compoundOps = map[token.Kind]ast.CompoundOp{
	token.PLUS_ASSIGN: ast.CompoundAdd, token.MINUS_ASSIGN: ast.CompoundSub,
	token.STAR_ASSIGN: ast.CompoundMul, token.SLASH_ASSIGN: ast.CompoundDiv,
}

// parseExprOrAssignStmt parses a bare expression statement, a plain
// (immutable) `name = expr` / destructuring / multi-target assignment, or
// a compound assignment — these all start by parsing an expression and
// then looking at what follows.
func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	pos := p.cur.Pos

	if p.at(token.LBRACK) {
		if mark, ok := p.tryMark(); ok {
			pat := p.tryParseDestructurePattern()
			if pat != nil && p.at(token.ASSIGN) {
				p.advance()
				value := p.parseExpr()
				return &ast.LetDestructureStmt{Loc: ast.Loc{P: pos}, Pattern: pat, Value: value}
			}
			p.reset(mark)
		}
	}
	if p.at(token.LBRACE) {
		if mark, ok := p.tryMark(); ok {
			pat := p.tryParseDestructurePattern()
			if pat != nil && p.at(token.ASSIGN) {
				p.advance()
				value := p.parseExpr()
				return &ast.LetDestructureStmt{Loc: ast.Loc{P: pos}, Pattern: pat, Value: value}
			}
			p.reset(mark)
		}
	}

	first := p.parseExpr()

	if op, ok := compoundOps[p.cur.Kind]; ok {
		p.advance()
		value := p.parseExpr()
		return &ast.CompoundAssignStmt{Loc: ast.Loc{P: pos}, Target: first, Op: op, Value: value}
	}

	if p.at(token.ASSIGN) || p.at(token.COMMA) {
		targets := []ast.Expr{first}
		for p.accept(token.COMMA) {
			targets = append(targets, p.parseExpr())
		}
		p.expect(token.ASSIGN)
		values := []ast.Expr{p.parseExpr()}
		for p.accept(token.COMMA) {
			values = append(values, p.parseExpr())
		}
		return &ast.AssignStmt{Loc: ast.Loc{P: pos}, Targets: targets, Values: values}
	}

	return &ast.ExprStmt{Loc: ast.Loc{P: pos}, X: first}
}

// tryParseDestructurePattern attempts to read cur as an array/object
// pattern; callers reset on a nil return (an expression that merely looks
// like one, e.g. `[1, 2, 3]` used as a value, not a binding target).
func (p *Parser) tryParseDestructurePattern() ast.Pattern {
	if p.at(token.LBRACK) {
		return p.parseArrayPattern(p.cur.Pos)
	}
	pos := p.cur.Pos
	p.advance() // {
	fields := map[string]ast.Pattern{}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if !p.at(token.IDENT) {
			return nil
		}
		name := p.advance().Literal
		if p.accept(token.COLON) {
			fields[name] = p.parsePattern()
		} else {
			fields[name] = &ast.BindPattern{Loc: ast.Loc{P: pos}, Name: name}
		}
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.at(token.RBRACE) {
		return nil
	}
	p.advance()
	return &ast.VariantPattern{Loc: ast.Loc{P: pos}, Named: fields}
}

func (p *Parser) parseFunctionDecl() *ast.FunctionDecl {
	pos := p.cur.Pos
	p.advance() // fn
	name := p.cur.Literal
	p.expect(token.IDENT)
	var typeParams []string
	if p.accept(token.LT) {
		typeParams = append(typeParams, p.cur.Literal)
		p.expect(token.IDENT)
		for p.accept(token.COMMA) {
			typeParams = append(typeParams, p.cur.Literal)
			p.expect(token.IDENT)
		}
		p.expectGT()
	}
	p.expect(token.LPAREN)
	params := p.parseParamList()
	p.expect(token.RPAREN)
	var ret ast.TypeExpr
	if p.accept(token.ARROW) {
		ret = p.parseTypeExpr()
	}
	body := p.parseBlock()
	return &ast.FunctionDecl{
		Loc: ast.Loc{P: pos}, Name: name, TypeParams: typeParams,
		Params: params, RetType: ret, Body: body,
	}
}

func (p *Parser) parseTypeDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // type
	name := p.cur.Literal
	p.expect(token.IDENT)
	var typeParams []string
	if p.accept(token.LT) {
		typeParams = append(typeParams, p.cur.Literal)
		p.expect(token.IDENT)
		for p.accept(token.COMMA) {
			typeParams = append(typeParams, p.cur.Literal)
			p.expect(token.IDENT)
		}
		p.expectGT()
	}
	p.expect(token.ASSIGN)

	decl := &ast.TypeDecl{Loc: ast.Loc{P: pos}, Name: name, TypeParams: typeParams}

	// Sum form: `Variant(fields) | Variant2(fields) | ...`
	if p.at(token.IDENT) && (p.peek().Kind == token.LPAREN || p.peek().Kind == token.BAR || isVariantOnlyName(p.cur.Literal)) {
		decl.Variants = p.parseVariantList()
		return decl
	}

	p.expect(token.LBRACE)
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		fname := p.cur.Literal
		p.expect(token.IDENT)
		p.expect(token.COLON)
		ftype := p.parseTypeExpr()
		decl.Fields = append(decl.Fields, ast.Param{Name: fname, Type: ftype})
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return decl
}

func isVariantOnlyName(s string) bool { return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' }

func (p *Parser) parseVariantList() []ast.VariantDecl {
	var variants []ast.VariantDecl
	for {
		name := p.cur.Literal
		p.expect(token.IDENT)
		v := ast.VariantDecl{Name: name}
		if p.accept(token.LPAREN) {
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				fname := ""
				var ftype ast.TypeExpr
				if p.at(token.IDENT) && p.peek().Kind == token.COLON {
					fname = p.advance().Literal
					p.advance() // :
					ftype = p.parseTypeExpr()
				} else {
					ftype = p.parseTypeExpr()
				}
				v.Fields = append(v.Fields, ast.Param{Name: fname, Type: ftype})
				if !p.accept(token.COMMA) {
					break
				}
			}
			p.expect(token.RPAREN)
		}
		variants = append(variants, v)
		if !p.accept(token.BAR) {
			break
		}
	}
	return variants
}

func (p *Parser) parseImplBlock() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // impl
	first := p.cur.Literal
	p.expect(token.IDENT)
	trait := ""
	typeName := first
	if p.accept(token.FOR) {
		trait = first
		typeName = p.cur.Literal
		p.expect(token.IDENT)
	}
	p.expect(token.LBRACE)
	ib := &ast.ImplBlock{Loc: ast.Loc{P: pos}, Trait: trait, Type: typeName}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.FN) {
			ib.Methods = append(ib.Methods, p.parseFunctionDecl())
			continue
		}
		p.synchronize()
		if !p.at(token.RBRACE) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return ib
}

func (p *Parser) parseTraitDecl() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // trait
	name := p.cur.Literal
	p.expect(token.IDENT)
	p.expect(token.LBRACE)
	td := &ast.TraitDecl{Loc: ast.Loc{P: pos}, Name: name}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.FN) {
			fnPos := p.cur.Pos
			p.advance()
			fname := p.cur.Literal
			p.expect(token.IDENT)
			p.expect(token.LPAREN)
			params := p.parseParamList()
			p.expect(token.RPAREN)
			var ret ast.TypeExpr
			if p.accept(token.ARROW) {
				ret = p.parseTypeExpr()
			}
			var body *ast.BlockStmt
			if p.at(token.LBRACE) {
				body = p.parseBlock()
			}
			td.Methods = append(td.Methods, &ast.FunctionDecl{
				Loc: ast.Loc{P: fnPos}, Name: fname, Params: params, RetType: ret, Body: body,
			})
			continue
		}
		p.synchronize()
		if !p.at(token.RBRACE) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return td
}

func (p *Parser) parseIfStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // if
	cond := p.parseExpr()
	then := p.parseBlock()
	is := &ast.IfStmt{Loc: ast.Loc{P: pos}, Cond: cond, Then: then}
	for p.at(token.ELIF) {
		p.advance()
		is.ElifConds = append(is.ElifConds, p.parseExpr())
		is.ElifBlocks = append(is.ElifBlocks, p.parseBlock())
	}
	if p.accept(token.ELSE) {
		is.Else = p.parseBlock()
	}
	return is
}

func (p *Parser) parseForStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // for
	var vars []string
	vars = append(vars, p.cur.Literal)
	p.expect(token.IDENT)
	for p.accept(token.COMMA) {
		vars = append(vars, p.cur.Literal)
		p.expect(token.IDENT)
	}
	p.expect(token.IN)
	iter := p.parseExpr()
	body := p.parseBlock()
	fs := &ast.ForStmt{Loc: ast.Loc{P: pos}, Vars: vars, Iter: iter, Body: body}
	if p.accept(token.ELSE) {
		fs.Else = p.parseBlock()
	}
	return fs
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // while
	cond := p.parseExpr()
	body := p.parseBlock()
	return &ast.WhileStmt{Loc: ast.Loc{P: pos}, Cond: cond, Body: body}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // return
	if p.atAny(token.RBRACE, token.EOF) {
		return &ast.ReturnStmt{Loc: ast.Loc{P: pos}}
	}
	return &ast.ReturnStmt{Loc: ast.Loc{P: pos}, Value: p.parseExpr()}
}
