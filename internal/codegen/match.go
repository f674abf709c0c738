package codegen

import (
	"fmt"
	"strings"

	"github.com/tova-lang/tova/internal/ast"
)

// emitIfExpr compiles `if` used in expression position (spec §4.4 base
// table): an unbroken chain of single-expression branches compiles to a
// ternary; anything with statements in a branch falls back to an IIFE
// assigning a result variable.
func (c *Context) emitIfExpr(e *ast.IfExpr) string {
	conds := append([]ast.Expr{e.Cond}, e.ElifConds...)
	blocks := append([]*ast.BlockStmt{e.Then}, e.ElifBlocks...)

	allSimple := e.Else == nil || isSimpleExprBlock(e.Else)
	for _, b := range blocks {
		if !isSimpleExprBlock(b) {
			allSimple = false
		}
	}

	if allSimple {
		result := "undefined"
		if e.Else != nil {
			result = c.simpleExprOf(e.Else)
		}
		for i := len(conds) - 1; i >= 0; i-- {
			result = fmt.Sprintf("(%s) ? (%s) : (%s)", c.EmitExpr(conds[i]), c.simpleExprOf(blocks[i]), result)
		}
		return result
	}

	var sb strings.Builder
	sb.WriteString("(() => {\n  let __r;\n")
	for i, cond := range conds {
		keyword := "if"
		if i > 0 {
			keyword = "} else if"
		}
		fmt.Fprintf(&sb, "  %s (%s) {\n%s\n", keyword, c.EmitExpr(cond), indentLines(c.emitBlockAssignTail(blocks[i], "__r"), 2))
	}
	if e.Else != nil {
		fmt.Fprintf(&sb, "  } else {\n%s\n", indentLines(c.emitBlockAssignTail(e.Else, "__r"), 2))
	}
	sb.WriteString("  }\n  return __r;\n})()")
	return sb.String()
}

func isSimpleExprBlock(b *ast.BlockStmt) bool {
	if b == nil || len(b.Statements) != 1 {
		return false
	}
	_, ok := b.Statements[0].(*ast.ExprStmt)
	return ok
}

func (c *Context) simpleExprOf(b *ast.BlockStmt) string {
	es := b.Statements[0].(*ast.ExprStmt)
	return c.EmitExpr(es.X)
}

// emitBlockAssignTail renders b's statements, rewriting the trailing
// expression statement into `varName = expr;` instead of a bare
// expression or `return`.
func (c *Context) emitBlockAssignTail(b *ast.BlockStmt, varName string) string {
	if b == nil {
		return ""
	}
	lines := make([]string, 0, len(b.Statements))
	for i, stmt := range b.Statements {
		if i == len(b.Statements)-1 {
			if es, ok := stmt.(*ast.ExprStmt); ok {
				lines = append(lines, fmt.Sprintf("%s = %s;", varName, c.EmitExpr(es.X)))
				continue
			}
		}
		lines = append(lines, c.EmitStmt(stmt, false))
	}
	return strings.Join(lines, "\n")
}

// emitMatchExpr compiles `match subject { ... }` (spec §4.4 base table
// "Match" row) to a guarded-if cascade with per-pattern discriminant
// checks, wrapped in an IIFE that returns the active arm's value. Unlike
// `if`-as-expression, a ternary fast path isn't applicable here even when
// every arm is a single expression: variant/array patterns introduce
// `const` bindings that only work in statement position.
func (c *Context) emitMatchExpr(e *ast.MatchExpr) string {
	subjVar := c.freshMatch()

	var sb strings.Builder
	sb.WriteString("(() => {\n")
	fmt.Fprintf(&sb, "  const %s = %s;\n", subjVar, c.EmitExpr(e.Subject))
	sb.WriteString("  let __r;\n")
	for i, arm := range e.Arms {
		keyword := "if"
		if i > 0 {
			keyword = "} else if"
		}
		cond := c.emitPatternTest(arm.Pattern, subjVar)
		if arm.Guard != nil {
			cond = fmt.Sprintf("(%s) && (%s)", cond, c.EmitExpr(arm.Guard))
		}
		fmt.Fprintf(&sb, "  %s (%s) {\n", keyword, cond)
		binds := c.emitPatternBindings(arm.Pattern, subjVar)
		for _, b := range binds {
			fmt.Fprintf(&sb, "    %s\n", b)
		}
		if arm.Block != nil {
			sb.WriteString(indentLines(c.emitBlockAssignTail(arm.Block, "__r"), 2))
			sb.WriteString("\n")
		} else {
			fmt.Fprintf(&sb, "    __r = %s;\n", c.EmitExpr(arm.Body))
		}
	}
	sb.WriteString("  } else {\n")
	sb.WriteString("    throw new Error(\"non-exhaustive match\");\n")
	sb.WriteString("  }\n")
	sb.WriteString("  return __r;\n})()")
	return sb.String()
}

// emitPatternTest renders the boolean discriminant for pattern against a
// JS expression already bound to valExpr (spec §4.4 "Match" row): a
// `__tag` check for ADT variants (field count is not checked),
// Array.isArray + length for arrays, strict
// equality for literals, range membership for ranges, and `true` for a
// catch-all bind/wildcard.
func (c *Context) emitPatternTest(p ast.Pattern, valExpr string) string {
	switch pt := p.(type) {
	case *ast.WildcardPattern, *ast.BindPattern:
		return "true"
	case *ast.LiteralPattern:
		return fmt.Sprintf("%s === %s", valExpr, c.EmitExpr(pt.Value))
	case *ast.RangePattern:
		op := "<"
		if pt.Inclusive {
			op = "<="
		}
		return fmt.Sprintf("(%s >= %s && %s %s %s)", valExpr, c.EmitExpr(pt.Start), valExpr, op, c.EmitExpr(pt.End))
	case *ast.VariantPattern:
		return fmt.Sprintf("%s && %s.__tag === %s", valExpr, valExpr, jsStringLit(pt.Variant))
	case *ast.ArrayPattern:
		cmp := "==="
		if pt.Rest != "" {
			cmp = ">="
		}
		return fmt.Sprintf("Array.isArray(%s) && %s.length %s %d", valExpr, valExpr, cmp, len(pt.Elems))
	}
	return "true"
}

// emitPatternBindings returns the `const name = ...;` statements a matched
// pattern introduces, mirroring analyzer.bindPattern's traversal.
func (c *Context) emitPatternBindings(p ast.Pattern, valExpr string) []string {
	var out []string
	switch pt := p.(type) {
	case *ast.BindPattern:
		out = append(out, fmt.Sprintf("const %s = %s;", pt.Name, valExpr))
	case *ast.VariantPattern:
		for i, f := range pt.Fields {
			out = append(out, c.emitPatternBindings(f, fmt.Sprintf("%s.__fields[%d]", valExpr, i))...)
		}
		for name, f := range pt.Named {
			out = append(out, c.emitPatternBindings(f, fmt.Sprintf("%s.%s", valExpr, name))...)
		}
	case *ast.ArrayPattern:
		for i, el := range pt.Elems {
			out = append(out, c.emitPatternBindings(el, fmt.Sprintf("%s[%d]", valExpr, i))...)
		}
		if pt.Rest != "" {
			out = append(out, fmt.Sprintf("const %s = %s.slice(%d);", pt.Rest, valExpr, len(pt.Elems)))
		}
	}
	return out
}
