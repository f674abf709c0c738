package parser

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/token"
)

// parseExpr is the entry point for expression parsing; precedence climbs
// from pipe (loosest) down to postfix/primary (tightest), per spec §4.2:
//
//	pipe |>
//	coalesce ??
//	logical or
//	logical and
//	comparison (chained) == != < <= > >=
//	membership in / not in
//	range .. ..=
//	additive + -
//	multiplicative * / %
//	power **
//	unary - not ! (prefix)
//	postfix call/member/index/slice/propagate
func (p *Parser) parseExpr() ast.Expr {
	return p.parsePipe()
}

func (p *Parser) parsePipe() ast.Expr {
	left := p.parseCoalesce()
	for p.at(token.PIPE) {
		pos := p.cur.Pos
		p.advance()
		call := p.parseCoalesce()
		left = &ast.PipeExpr{Loc: ast.Loc{P: pos}, Value: left, Call: call}
	}
	return left
}

func (p *Parser) parseCoalesce() ast.Expr {
	left := p.parseLogicalOr()
	for p.at(token.QQ) {
		pos := p.cur.Pos
		p.advance()
		right := p.parseLogicalOr()
		left = &ast.BinaryExpr{Loc: ast.Loc{P: pos}, Op: ast.OpCoalesce, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.at(token.OR) {
		pos := p.cur.Pos
		p.advance()
		right := p.parseLogicalAnd()
		left = &ast.LogicalExpr{Loc: ast.Loc{P: pos}, Op: ast.OpOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseComparison()
	for p.at(token.AND) {
		pos := p.cur.Pos
		p.advance()
		right := p.parseComparison()
		left = &ast.LogicalExpr{Loc: ast.Loc{P: pos}, Op: ast.OpAnd, Left: left, Right: right}
	}
	return left
}

var comparisonOps = map[token.Kind]ast.BinaryOp{
	token.EQ: ast.OpEq, token.NEQ: ast.OpNeq,
	token.LT: ast.OpLt, token.LTE: ast.OpLte,
	token.GT: ast.OpGt, token.GTE: ast.OpGte,
}

func (p *Parser) parseComparison() ast.Expr {
	first := p.parseMembership()
	op, ok := comparisonOps[p.cur.Kind]
	if !ok {
		return first
	}
	pos := p.cur.Pos
	operands := []ast.Expr{first}
	ops := []ast.BinaryOp{}
	for {
		op, ok = comparisonOps[p.cur.Kind]
		if !ok {
			break
		}
		p.advance()
		ops = append(ops, op)
		operands = append(operands, p.parseMembership())
	}
	if len(operands) == 2 {
		return &ast.BinaryExpr{Loc: ast.Loc{P: pos}, Op: ops[0], Left: operands[0], Right: operands[1]}
	}
	return &ast.ChainedComparison{Loc: ast.Loc{P: pos}, Operands: operands, Ops: ops}
}

func (p *Parser) parseMembership() ast.Expr {
	left := p.parseRange()
	for {
		if p.at(token.IN) {
			pos := p.cur.Pos
			p.advance()
			right := p.parseRange()
			left = &ast.MembershipExpr{Loc: ast.Loc{P: pos}, Value: left, Collection: right}
			continue
		}
		if p.at(token.NOT) && p.peek().Kind == token.IN {
			pos := p.cur.Pos
			p.advance()
			p.advance()
			right := p.parseRange()
			left = &ast.MembershipExpr{Loc: ast.Loc{P: pos}, Value: left, Collection: right, Negated: true}
			continue
		}
		return left
	}
}

func (p *Parser) parseRange() ast.Expr {
	left := p.parseAdditive()
	if p.at(token.DOTDOT) || p.at(token.DOTDOTEQ) {
		pos := p.cur.Pos
		inclusive := p.at(token.DOTDOTEQ)
		p.advance()
		right := p.parseAdditive()
		return &ast.RangeExpr{Loc: ast.Loc{P: pos}, Start: left, End: right, Inclusive: inclusive}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for {
		var op ast.BinaryOp
		switch p.cur.Kind {
		case token.PLUS:
			op = ast.OpAdd
		case token.MINUS:
			op = ast.OpSub
		case token.PLUSPLUS:
			op = ast.OpConcat
		default:
			return left
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Loc: ast.Loc{P: pos}, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parsePower()
	for {
		var op ast.BinaryOp
		switch p.cur.Kind {
		case token.STAR:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		case token.PERCENT:
			op = ast.OpMod
		default:
			return left
		}
		pos := p.cur.Pos
		p.advance()
		right := p.parsePower()
		left = &ast.BinaryExpr{Loc: ast.Loc{P: pos}, Op: op, Left: left, Right: right}
	}
}

// parsePower is right-associative: `2 ** 3 ** 2 == 2 ** (3 ** 2)`.
func (p *Parser) parsePower() ast.Expr {
	left := p.parseUnary()
	if p.at(token.POWER) {
		pos := p.cur.Pos
		p.advance()
		right := p.parsePower()
		return &ast.BinaryExpr{Loc: ast.Loc{P: pos}, Op: ast.OpPow, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur.Kind {
	case token.MINUS:
		pos := p.cur.Pos
		p.advance()
		return &ast.UnaryExpr{Loc: ast.Loc{P: pos}, Op: ast.OpNeg, Operand: p.parseUnary()}
	case token.NOT:
		pos := p.cur.Pos
		p.advance()
		return &ast.UnaryExpr{Loc: ast.Loc{P: pos}, Op: ast.OpNot, Operand: p.parseUnary()}
	case token.BANG:
		pos := p.cur.Pos
		p.advance()
		return &ast.UnaryExpr{Loc: ast.Loc{P: pos}, Op: ast.OpBang, Operand: p.parseUnary()}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case token.DOT:
			pos := p.cur.Pos
			p.advance()
			name := p.cur.Literal
			p.expect(token.IDENT)
			expr = &ast.MemberExpr{Loc: ast.Loc{P: pos}, Object: expr, Name: name}
		case token.QDOT:
			pos := p.cur.Pos
			p.advance()
			name := p.cur.Literal
			p.expect(token.IDENT)
			expr = &ast.MemberExpr{Loc: ast.Loc{P: pos}, Object: expr, Name: name, Optional: true}
		case token.LPAREN:
			expr = p.parseCallArgs(expr)
		case token.LBRACK:
			expr = p.parseIndexOrSlice(expr)
		case token.QUESTION:
			pos := p.cur.Pos
			p.advance()
			expr = &ast.PropagateExpr{Loc: ast.Loc{P: pos}, Value: expr}
		default:
			return expr
		}
	}
}

func (p *Parser) parseCallArgs(callee ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.advance() // (
	var args []ast.Arg
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseArg())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return &ast.CallExpr{Loc: ast.Loc{P: pos}, Callee: callee, Args: args}
}

func (p *Parser) parseArg() ast.Arg {
	if p.at(token.IDENT) && p.peek().Kind == token.COLON {
		name := p.cur.Literal
		p.advance()
		p.advance()
		return ast.Arg{Name: name, Value: p.parseExpr()}
	}
	if p.at(token.ELLIPSIS) {
		pos := p.cur.Pos
		p.advance()
		return ast.Arg{Value: &ast.SpreadExpr{Loc: ast.Loc{P: pos}, Value: p.parseExpr()}}
	}
	return ast.Arg{Value: p.parseExpr()}
}

func (p *Parser) parseIndexOrSlice(obj ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.advance() // [
	var start, end, step ast.Expr
	isSlice := false
	if !p.at(token.COLON) {
		start = p.parseExpr()
	}
	if p.accept(token.COLON) {
		isSlice = true
		if !p.at(token.COLON) && !p.at(token.RBRACK) {
			end = p.parseExpr()
		}
		if p.accept(token.COLON) {
			if !p.at(token.RBRACK) {
				step = p.parseExpr()
			}
		}
	}
	p.expect(token.RBRACK)
	if isSlice {
		return &ast.SliceExpr{Loc: ast.Loc{P: pos}, Object: obj, Start: start, End: end, Step: step}
	}
	return &ast.IndexExpr{Loc: ast.Loc{P: pos}, Object: obj, Index: start}
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.NUMBER:
		t := p.advance()
		return &ast.NumberLit{Loc: ast.Loc{P: pos}, Value: t.Number, IsFloat: t.IsFloat}
	case token.STRING:
		t := p.advance()
		return &ast.StringLit{Loc: ast.Loc{P: pos}, Value: t.Literal}
	case token.STRING_TEMPLATE:
		t := p.advance()
		return p.buildTemplateLit(pos, t)
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Loc: ast.Loc{P: pos}, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Loc: ast.Loc{P: pos}, Value: false}
	case token.NIL:
		p.advance()
		return &ast.NilLit{Loc: ast.Loc{P: pos}}
	case token.IDENT:
		name := p.advance().Literal
		return &ast.Ident{Loc: ast.Loc{P: pos}, Name: name}
	case token.LPAREN:
		return p.parseParenOrLambda()
	case token.LBRACK:
		return p.parseArrayLitOrComprehension()
	case token.LBRACE:
		return p.parseObjectLit()
	case token.FN:
		return p.parseLambdaFn()
	case token.IF:
		return p.parseIfExpr()
	case token.MATCH:
		return p.parseMatchExpr()
	case token.ELLIPSIS:
		p.advance()
		return &ast.SpreadExpr{Loc: ast.Loc{P: pos}, Value: p.parseExpr()}
	case token.LT:
		if jsx := p.tryParseJSX(); jsx != nil {
			return jsx
		}
	}
	p.errorf(pos, "unexpected token %s %q in expression", p.cur.Kind, p.cur.Literal)
	p.advance()
	return &ast.ErrorNode{Loc: ast.Loc{P: pos}, Message: "unexpected token in expression"}
}

// buildTemplateLit reparses each embedded `{expr}` token run (already
// isolated by the lexer) into an ast.Expr.
func (p *Parser) buildTemplateLit(pos token.Position, t token.Token) ast.Expr {
	lit := &ast.TemplateLit{Loc: ast.Loc{P: pos}}
	for _, part := range t.Template {
		if part.Kind == token.TemplateText {
			lit.Parts = append(lit.Parts, ast.TemplatePart{Text: part.Text})
			continue
		}
		sub := newFromTokens(part.Tokens, p.file, p.source, p.tolerant)
		expr := sub.parseExpr()
		p.diags = append(p.diags, sub.Diagnostics()...)
		lit.Parts = append(lit.Parts, ast.TemplatePart{Expr: expr})
	}
	return lit
}

// parseParenOrLambda disambiguates `(expr)`, `(a, b)` tuple, and
// `(params) => body` lambda via bounded backtracking: the params form is
// attempted first and abandoned (reset) if no `=>` follows the `)`.
func (p *Parser) parseParenOrLambda() ast.Expr {
	pos := p.cur.Pos
	if mark, ok := p.tryMark(); ok {
		if params, ok := p.tryParseLambdaParams(); ok {
			if p.at(token.ARROW) {
				p.advance()
				return p.finishLambda(pos, params)
			}
		}
		p.reset(mark)
	}

	p.advance() // (
	if p.accept(token.RPAREN) {
		return &ast.ArrayLit{Loc: ast.Loc{P: pos}} // shouldn't occur; defensive
	}
	first := p.parseExpr()
	if !p.at(token.COMMA) {
		p.expect(token.RPAREN)
		return first
	}
	elems := []ast.Expr{first}
	for p.accept(token.COMMA) {
		if p.at(token.RPAREN) {
			break
		}
		elems = append(elems, p.parseExpr())
	}
	p.expect(token.RPAREN)
	// A parenthesized comma list that isn't a lambda is modeled as an
	// object-free tuple literal via ArrayLit with a marker; codegen for
	// tuples treats a bare comma-grouping as a JS array.
	arr := &ast.ArrayLit{Loc: ast.Loc{P: pos}}
	for _, e := range elems {
		arr.Elems = append(arr.Elems, ast.ArrayElem{Value: e})
	}
	return arr
}

func (p *Parser) finishLambda(pos token.Position, params []ast.Param) ast.Expr {
	if p.at(token.LBRACE) {
		block := p.parseBlock()
		return &ast.LambdaExpr{Loc: ast.Loc{P: pos}, Params: params, Block: block}
	}
	body := p.parseExpr()
	return &ast.LambdaExpr{Loc: ast.Loc{P: pos}, Params: params, Expr: body}
}

func (p *Parser) parseLambdaFn() ast.Expr {
	pos := p.cur.Pos
	p.advance() // fn
	p.expect(token.LPAREN)
	params := p.parseParamList()
	p.expect(token.RPAREN)
	if p.accept(token.ARROW) {
		return p.finishLambda(pos, params)
	}
	block := p.parseBlock()
	return &ast.LambdaExpr{Loc: ast.Loc{P: pos}, Params: params, Block: block}
}

// tryParseLambdaParams attempts to parse `(params)` as a parameter list; it
// reports ok=false (without having committed side effects the caller can't
// undo, since the caller always resets on failure) if the contents don't
// look like a parameter list.
func (p *Parser) tryParseLambdaParams() (params []ast.Param, ok bool) {
	if !p.at(token.LPAREN) {
		return nil, false
	}
	p.advance()
	for !p.at(token.RPAREN) {
		if !p.at(token.IDENT) && !p.at(token.ELLIPSIS) {
			return nil, false
		}
		rest := p.accept(token.ELLIPSIS)
		if !p.at(token.IDENT) {
			return nil, false
		}
		name := p.advance().Literal
		var typ ast.TypeExpr
		if p.accept(token.COLON) {
			typ = p.parseTypeExpr()
		}
		var def ast.Expr
		if p.accept(token.ASSIGN) {
			def = p.parseExpr()
		}
		params = append(params, ast.Param{Name: name, Type: typ, Default: def, Rest: rest})
		if !p.accept(token.COMMA) {
			break
		}
	}
	if !p.at(token.RPAREN) {
		return nil, false
	}
	p.advance()
	return params, true
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		rest := p.accept(token.ELLIPSIS)
		name := p.cur.Literal
		p.expect(token.IDENT)
		var typ ast.TypeExpr
		if p.accept(token.COLON) {
			typ = p.parseTypeExpr()
		}
		var def ast.Expr
		if p.accept(token.ASSIGN) {
			def = p.parseExpr()
		}
		params = append(params, ast.Param{Name: name, Type: typ, Default: def, Rest: rest})
		if !p.accept(token.COMMA) {
			break
		}
	}
	return params
}

func (p *Parser) parseArrayLitOrComprehension() ast.Expr {
	pos := p.cur.Pos
	p.advance() // [
	if p.accept(token.RBRACK) {
		return &ast.ArrayLit{Loc: ast.Loc{P: pos}}
	}

	first := p.parseExpr()
	if p.at(token.FOR) {
		return p.finishComprehension(pos, nil, first)
	}

	arr := &ast.ArrayLit{Loc: ast.Loc{P: pos}}
	arr.Elems = append(arr.Elems, elemOf(first))
	for p.accept(token.COMMA) {
		if p.at(token.RBRACK) {
			break
		}
		arr.Elems = append(arr.Elems, p.parseArrayElem())
	}
	p.expect(token.RBRACK)
	return arr
}

func (p *Parser) parseArrayElem() ast.ArrayElem {
	if p.at(token.ELLIPSIS) {
		p.advance()
		return ast.ArrayElem{Value: p.parseExpr(), Spread: true}
	}
	return ast.ArrayElem{Value: p.parseExpr()}
}

func elemOf(e ast.Expr) ast.ArrayElem { return ast.ArrayElem{Value: e} }

// finishComprehension parses the `for vars in iter [if filter]` tail of a
// list/dict comprehension; key is non-nil for the dict form.
func (p *Parser) finishComprehension(pos token.Position, key ast.Expr, value ast.Expr) ast.Expr {
	p.expect(token.FOR)
	var names []string
	names = append(names, p.cur.Literal)
	p.expect(token.IDENT)
	for p.accept(token.COMMA) {
		names = append(names, p.cur.Literal)
		p.expect(token.IDENT)
	}
	p.expect(token.IN)
	iter := p.parseExpr()
	var filter ast.Expr
	if p.accept(token.IF) {
		filter = p.parseExpr()
	}
	p.expect(token.RBRACK)
	return &ast.Comprehension{
		Loc: ast.Loc{P: pos}, Key: key, Value: value,
		Vars: ast.ComprehensionVar{Names: names}, Iter: iter, Filter: filter,
	}
}

func (p *Parser) parseObjectLit() ast.Expr {
	pos := p.cur.Pos
	p.advance() // {
	obj := &ast.ObjectLit{Loc: ast.Loc{P: pos}}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		obj.Props = append(obj.Props, p.parseObjectPropOrDictComprehension())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	return obj
}

func (p *Parser) parseObjectPropOrDictComprehension() ast.ObjectProp {
	if p.at(token.ELLIPSIS) {
		p.advance()
		return ast.ObjectProp{Spread: p.parseExpr()}
	}
	if p.at(token.IDENT) && p.peek().Kind == token.COMMA {
		name := p.advance().Literal
		return ast.ObjectProp{Name: name, Shorthand: true}
	}
	if p.at(token.IDENT) && p.peek().Kind == token.RBRACE {
		name := p.advance().Literal
		return ast.ObjectProp{Name: name, Shorthand: true}
	}
	name := p.cur.Literal
	p.advance()
	p.expect(token.COLON)
	value := p.parseExpr()
	return ast.ObjectProp{Name: name, Value: value}
}

func (p *Parser) parseIfExpr() ast.Expr {
	pos := p.cur.Pos
	p.advance() // if
	cond := p.parseExpr()
	then := p.parseBlock()
	ie := &ast.IfExpr{Loc: ast.Loc{P: pos}, Cond: cond, Then: then}
	for p.at(token.ELIF) {
		p.advance()
		ie.ElifConds = append(ie.ElifConds, p.parseExpr())
		ie.ElifBlocks = append(ie.ElifBlocks, p.parseBlock())
	}
	if p.accept(token.ELSE) {
		ie.Else = p.parseBlock()
	}
	return ie
}

func (p *Parser) parseMatchExpr() ast.Expr {
	pos := p.cur.Pos
	p.advance() // match
	subject := p.parseExpr()
	p.expect(token.LBRACE)
	me := &ast.MatchExpr{Loc: ast.Loc{P: pos}}
	me.Subject = subject
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		me.Arms = append(me.Arms, p.parseMatchArm())
		p.accept(token.COMMA)
	}
	p.expect(token.RBRACE)
	return me
}

func (p *Parser) parseMatchArm() ast.MatchArm {
	pat := p.parsePattern()
	var guard ast.Expr
	if p.accept(token.IF) {
		guard = p.parseExpr()
	}
	p.expect(token.ARROW)
	if p.at(token.LBRACE) {
		return ast.MatchArm{Pattern: pat, Guard: guard, Block: p.parseBlock()}
	}
	return ast.MatchArm{Pattern: pat, Guard: guard, Body: p.parseExpr()}
}
