package codegen

import (
	"fmt"
	"strings"

	"github.com/tova-lang/tova/internal/ast"
)

// EmitExpr renders expr as a JavaScript expression string (spec §4.4 base
// emitter table). Every binary expression is parenthesized defensively —
// the teacher's own bytecode compiler takes the same "never trust
// precedence, always bracket" stance for generated output.
func (c *Context) EmitExpr(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.NumberLit:
		if e.IsFloat {
			return formatFloat(e.Value)
		}
		return fmt.Sprintf("%d", int64(e.Value))
	case *ast.StringLit:
		return jsStringLit(e.Value)
	case *ast.BoolLit:
		if e.Value {
			return "true"
		}
		return "false"
	case *ast.NilLit:
		return "null"
	case *ast.TemplateLit:
		return c.emitTemplateLit(e)
	case *ast.Ident:
		return e.Name
	case *ast.PipeTarget:
		return "__piped"

	case *ast.BinaryExpr:
		return c.emitBinary(e)
	case *ast.LogicalExpr:
		op := "&&"
		if e.Op == ast.OpOr {
			op = "||"
		}
		return fmt.Sprintf("(%s %s %s)", c.EmitExpr(e.Left), op, c.EmitExpr(e.Right))
	case *ast.UnaryExpr:
		return c.emitUnary(e)
	case *ast.ChainedComparison:
		return c.emitChainedComparison(e)
	case *ast.MembershipExpr:
		c.useHelper("contains")
		call := fmt.Sprintf("__contains(%s, %s)", c.EmitExpr(e.Collection), c.EmitExpr(e.Value))
		if e.Negated {
			return fmt.Sprintf("(!%s)", call)
		}
		return call
	case *ast.RangeExpr:
		return c.emitRange(e)
	case *ast.CallExpr:
		return c.emitCall(e)
	case *ast.MemberExpr:
		if e.Optional {
			return fmt.Sprintf("%s?.%s", c.EmitExpr(e.Object), e.Name)
		}
		return fmt.Sprintf("%s.%s", c.EmitExpr(e.Object), e.Name)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", c.EmitExpr(e.Object), c.EmitExpr(e.Index))
	case *ast.SliceExpr:
		return c.emitSlice(e)
	case *ast.ObjectLit:
		return c.emitObjectLit(e)
	case *ast.ArrayLit:
		return c.emitArrayLit(e)
	case *ast.Comprehension:
		return c.emitComprehension(e)
	case *ast.LambdaExpr:
		return c.emitLambda(e)
	case *ast.MatchExpr:
		return c.emitMatchExpr(e)
	case *ast.IfExpr:
		return c.emitIfExpr(e)
	case *ast.PipeExpr:
		return c.emitPipe(e)
	case *ast.SpreadExpr:
		return fmt.Sprintf("...%s", c.EmitExpr(e.Value))
	case *ast.PropagateExpr:
		c.useHelper("propagate")
		return fmt.Sprintf("__propagate(%s)", c.EmitExpr(e.Value))
	case *ast.ErrorNode:
		return "undefined /* " + e.Message + " */"
	}
	return "undefined"
}

func (c *Context) emitTemplateLit(e *ast.TemplateLit) string {
	var sb strings.Builder
	sb.WriteString("`")
	for _, part := range e.Parts {
		if part.Expr != nil {
			sb.WriteString("${")
			sb.WriteString(c.EmitExpr(part.Expr))
			sb.WriteString("}")
			continue
		}
		sb.WriteString(strings.NewReplacer("`", "\\`", "${", "\\${").Replace(part.Text))
	}
	sb.WriteString("`")
	return sb.String()
}

// emitBinary special-cases `"..." * N` (string repeat) and `a ?? b`
// (NaN-safe coalesce); everything else is a parenthesized JS binary op.
func (c *Context) emitBinary(e *ast.BinaryExpr) string {
	if e.Op == ast.OpMul {
		if _, ok := e.Left.(*ast.StringLit); ok {
			return fmt.Sprintf("%s.repeat(%s)", c.EmitExpr(e.Left), c.EmitExpr(e.Right))
		}
		if _, ok := e.Left.(*ast.TemplateLit); ok {
			return fmt.Sprintf("(%s).repeat(%s)", c.EmitExpr(e.Left), c.EmitExpr(e.Right))
		}
	}
	if e.Op == ast.OpConcat {
		return fmt.Sprintf("(%s + %s)", c.EmitExpr(e.Left), c.EmitExpr(e.Right))
	}
	if e.Op == ast.OpCoalesce {
		return c.emitCoalesce(e.Left, e.Right)
	}
	op := string(e.Op)
	if op == "==" {
		op = "==="
	} else if op == "!=" {
		op = "!=="
	}
	return fmt.Sprintf("(%s %s %s)", c.EmitExpr(e.Left), op, c.EmitExpr(e.Right))
}

// emitCoalesce implements `a ?? b` as NaN-safe nullish coalescing (spec
// §4.4 base table): plain JS `??` treats NaN as present, so Tova's operator
// additionally folds NaN into the "missing" case. Simple operands inline
// directly; any other left operand is passed once to the __nanSafeCoalesce
// helper, with the right operand wrapped in a thunk.
func (c *Context) emitCoalesce(left, right ast.Expr) string {
	l := c.EmitExpr(left)
	if isTrivial(left) {
		return fmt.Sprintf("((%s != null && %s === %s) ? %s : %s)", l, l, l, l, c.EmitExpr(right))
	}
	c.useHelper("nanSafeCoalesce")
	return fmt.Sprintf("__nanSafeCoalesce(%s, () => (%s))", l, c.EmitExpr(right))
}

func isTrivial(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.NumberLit, *ast.StringLit, *ast.BoolLit, *ast.NilLit:
		return true
	}
	return false
}

func (c *Context) emitUnary(e *ast.UnaryExpr) string {
	switch e.Op {
	case ast.OpNeg:
		return fmt.Sprintf("(-%s)", c.EmitExpr(e.Operand))
	case ast.OpNot, ast.OpBang:
		return fmt.Sprintf("(!%s)", c.EmitExpr(e.Operand))
	}
	return c.EmitExpr(e.Operand)
}

// emitChainedComparison rewrites `a < b < c` into `((a < b) && (b < c))`,
// binding any non-trivial middle operand once through a fresh `const` so it
// isn't evaluated twice (spec §4.4 base table row 7). The bindings are
// declared inside a small IIFE rather than assigned to an undeclared name,
// since the emitted files are ES modules and therefore always strict mode.
func (c *Context) emitChainedComparison(e *ast.ChainedComparison) string {
	refs := make([]string, len(e.Operands))
	var decls []string
	for i, op := range e.Operands {
		if isTrivial(op) || i == 0 || i == len(e.Operands)-1 {
			refs[i] = c.EmitExpr(op)
			continue
		}
		tmp := c.freshCmp()
		decls = append(decls, fmt.Sprintf("const %s = %s;", tmp, c.EmitExpr(op)))
		refs[i] = tmp
	}
	var parts []string
	for i, op := range e.Ops {
		parts = append(parts, fmt.Sprintf("(%s %s %s)", refs[i], op, refs[i+1]))
	}
	result := "(" + strings.Join(parts, " && ") + ")"
	if len(decls) == 0 {
		return result
	}
	return fmt.Sprintf("(() => {\n%s\n  return %s;\n})()", indentLines(strings.Join(decls, "\n"), 1), result)
}

func (c *Context) emitRange(e *ast.RangeExpr) string {
	start := c.EmitExpr(e.Start)
	end := c.EmitExpr(e.End)
	length := fmt.Sprintf("(%s) - (%s)", end, start)
	if e.Inclusive {
		length = fmt.Sprintf("(%s) - (%s) + 1", end, start)
	}
	return fmt.Sprintf("Array.from({ length: %s }, (_, __i) => (%s) + __i)", length, start)
}

// emitCall handles `Foo.new(...)` → `new Foo(...)`; ordinary calls pass
// through (pipe argument insertion is done by emitPipe).
func (c *Context) emitCall(e *ast.CallExpr) string {
	if member, ok := e.Callee.(*ast.MemberExpr); ok && member.Name == "new" {
		return fmt.Sprintf("new %s(%s)", c.EmitExpr(member.Object), c.emitArgs(e.Args))
	}
	return fmt.Sprintf("%s(%s)", c.EmitExpr(e.Callee), c.emitArgs(e.Args))
}

func (c *Context) emitArgs(args []ast.Arg) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if a.Name != "" {
			parts[i] = fmt.Sprintf("%s: %s", a.Name, c.EmitExpr(a.Value))
			continue
		}
		parts[i] = c.EmitExpr(a.Value)
	}
	return strings.Join(parts, ", ")
}

// emitPipe rewrites `x |> f` to `f(x)` and `x |> f(...)` to `f(x, ...)`
// (spec §4.4 base table row 11). Each argument is rendered and joined
// directly from call.Args rather than round-tripped through a joined
// string, since an arg's own rendering (a nested object/array literal or
// multi-arg call) may itself contain a literal ", " that splitting on
// would mistake for an argument boundary.
func (c *Context) emitPipe(e *ast.PipeExpr) string {
	val := c.EmitExpr(e.Value)
	if call, ok := e.Call.(*ast.CallExpr); ok {
		parts := make([]string, 0, len(call.Args)+1)
		parts = append(parts, val)
		for _, a := range call.Args {
			if a.Name != "" {
				parts = append(parts, fmt.Sprintf("%s: %s", a.Name, c.EmitExpr(a.Value)))
				continue
			}
			parts = append(parts, c.EmitExpr(a.Value))
		}
		return fmt.Sprintf("%s(%s)", c.EmitExpr(call.Callee), strings.Join(parts, ", "))
	}
	return fmt.Sprintf("%s(%s)", c.EmitExpr(e.Call), val)
}

// emitSlice emits `.slice(a, b)` when no step is given; with a step it
// falls back to a small runtime helper honoring negative step (spec §4.4
// base table row 14).
func (c *Context) emitSlice(e *ast.SliceExpr) string {
	obj := c.EmitExpr(e.Object)
	if e.Step == nil {
		args := []string{}
		if e.Start != nil {
			args = append(args, c.EmitExpr(e.Start))
		} else if e.End != nil {
			args = append(args, "0")
		}
		if e.End != nil {
			args = append(args, c.EmitExpr(e.End))
		}
		return fmt.Sprintf("%s.slice(%s)", obj, strings.Join(args, ", "))
	}
	c.useHelper("stepSlice")
	start := "undefined"
	end := "undefined"
	if e.Start != nil {
		start = c.EmitExpr(e.Start)
	}
	if e.End != nil {
		end = c.EmitExpr(e.End)
	}
	return fmt.Sprintf("__stepSlice(%s, %s, %s, %s)", obj, start, end, c.EmitExpr(e.Step))
}

func (c *Context) emitObjectLit(e *ast.ObjectLit) string {
	parts := make([]string, 0, len(e.Props))
	for _, p := range e.Props {
		if p.Spread != nil {
			parts = append(parts, "..."+c.EmitExpr(p.Spread))
			continue
		}
		if p.Shorthand || p.Value == nil {
			parts = append(parts, p.Name)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", jsPropKey(p.Name), c.EmitExpr(p.Value)))
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (c *Context) emitArrayLit(e *ast.ArrayLit) string {
	parts := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		if el.Spread {
			parts[i] = "..." + c.EmitExpr(el.Value)
			continue
		}
		parts[i] = c.EmitExpr(el.Value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// emitComprehension handles list/dict comprehensions (spec §4.4 base table
// rows 15-16): a plain map when there's no filter and the body isn't the
// loop variable itself, a reduce when there's a filter, or a bare filter
// when the expression *is* the loop variable.
func (c *Context) emitComprehension(e *ast.Comprehension) string {
	iter := c.EmitExpr(e.Iter)
	vars := strings.Join(e.Vars.Names, ", ")
	if len(e.Vars.Names) > 1 {
		vars = "[" + vars + "]"
	}

	if e.Key != nil {
		keyFn := fmt.Sprintf("(%s) => [%s, %s]", vars, c.EmitExpr(e.Key), c.EmitExpr(e.Value))
		if e.Filter != nil {
			return fmt.Sprintf("Object.fromEntries(%s.filter((%s) => %s).map(%s))", iter, vars, c.EmitExpr(e.Filter), keyFn)
		}
		return fmt.Sprintf("Object.fromEntries(%s.map(%s))", iter, keyFn)
	}

	if e.Filter == nil {
		if isBareLoopVar(e.Value, e.Vars.Names) {
			return iter
		}
		return fmt.Sprintf("%s.map((%s) => (%s))", iter, vars, c.EmitExpr(e.Value))
	}
	if isBareLoopVar(e.Value, e.Vars.Names) {
		return fmt.Sprintf("%s.filter((%s) => %s)", iter, vars, c.EmitExpr(e.Filter))
	}
	return fmt.Sprintf("%s.reduce((__acc, %s) => (%s) ? (__acc.push(%s), __acc) : __acc, [])",
		iter, vars, c.EmitExpr(e.Filter), c.EmitExpr(e.Value))
}

func isBareLoopVar(e ast.Expr, names []string) bool {
	if len(names) != 1 {
		return false
	}
	id, ok := e.(*ast.Ident)
	return ok && id.Name == names[0]
}

func (c *Context) emitLambda(e *ast.LambdaExpr) string {
	params := make([]string, len(e.Params))
	for i, p := range e.Params {
		params[i] = p.Name
		if p.Default != nil {
			params[i] += " = " + c.EmitExpr(p.Default)
		}
		if p.Rest {
			params[i] = "..." + p.Name
		}
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	if e.Block != nil {
		return sig + " => " + c.emitFunctionBody(e.Block)
	}
	return sig + " => (" + c.EmitExpr(e.Expr) + ")"
}

// emitFunctionBody renders a block as a `{ ... }` JS function body,
// propagating implicit returns to the block's trailing expression
// statement when it is the final statement (spec §4.4 base table last
// row), and wrapping the whole body in a propagate try/catch iff a `?`
// postfix appears directly in it (not in a nested function/lambda).
func (c *Context) emitFunctionBody(b *ast.BlockStmt) string {
	wrapsPropagate := containsDirectPropagate(b)
	inner := b
	if wrapsPropagate {
		var sb strings.Builder
		sb.WriteString("try {\n")
		sb.WriteString(indentLines(c.EmitBlockTail(inner), 1))
		sb.WriteString("\n} catch (__e) {\n  if (__e && __e.__tova_propagate) return __e.value;\n  throw __e;\n}")
		return "{\n" + indentLines(sb.String(), 1) + "\n}"
	}
	return "{\n" + indentLines(c.EmitBlockTail(inner), 1) + "\n}"
}

// EmitBlockTail renders every statement of b, rewriting the final
// statement's trailing expression into a `return` when tail-call position
// implies it (used for arrow-function/match/if-expression bodies).
func (c *Context) EmitBlockTail(b *ast.BlockStmt) string {
	return c.emitBlockLines(b, true)
}

// EmitBlock renders every statement of b with no implicit return rewriting
// (ordinary statement-list bodies: loops, route handlers, effects).
func (c *Context) EmitBlock(b *ast.BlockStmt) string {
	return c.emitBlockLines(b, false)
}

func (c *Context) emitBlockLines(b *ast.BlockStmt, tail bool) string {
	if b == nil {
		return ""
	}
	lines := make([]string, 0, len(b.Statements))
	for i, stmt := range b.Statements {
		isLast := tail && i == len(b.Statements)-1
		lines = append(lines, c.EmitStmt(stmt, isLast))
	}
	return strings.Join(lines, "\n")
}

func indentLines(s string, depth int) string {
	if s == "" {
		return s
	}
	prefix := strings.Repeat("  ", depth)
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}

func containsDirectPropagate(b *ast.BlockStmt) bool {
	if b == nil {
		return false
	}
	for _, stmt := range b.Statements {
		if stmtContainsPropagate(stmt) {
			return true
		}
	}
	return false
}

func stmtContainsPropagate(stmt ast.Stmt) bool {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		return exprContainsPropagate(s.X)
	case *ast.ReturnStmt:
		return s.Value != nil && exprContainsPropagate(s.Value)
	case *ast.AssignStmt:
		for _, v := range s.Values {
			if exprContainsPropagate(v) {
				return true
			}
		}
	case *ast.IfStmt:
		if exprContainsPropagate(s.Cond) {
			return true
		}
		return containsDirectPropagate(s.Then) || containsDirectPropagate(s.Else)
	case *ast.BlockStmt:
		return containsDirectPropagate(s)
	}
	return false
}

func exprContainsPropagate(e ast.Expr) bool {
	switch x := e.(type) {
	case *ast.PropagateExpr:
		return true
	case *ast.BinaryExpr:
		return exprContainsPropagate(x.Left) || exprContainsPropagate(x.Right)
	case *ast.CallExpr:
		if exprContainsPropagate(x.Callee) {
			return true
		}
		for _, a := range x.Args {
			if exprContainsPropagate(a.Value) {
				return true
			}
		}
	case *ast.MemberExpr:
		return exprContainsPropagate(x.Object)
	}
	return false
}

func jsStringLit(s string) string {
	return "\"" + strings.NewReplacer("\\", "\\\\", "\"", "\\\"", "\n", "\\n").Replace(s) + "\""
}

func jsPropKey(name string) string {
	if isValidJSIdent(name) {
		return name
	}
	return jsStringLit(name)
}

func isValidJSIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func formatFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
