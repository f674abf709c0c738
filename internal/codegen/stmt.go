package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tova-lang/tova/internal/ast"
)

// EmitStmt renders one statement. tail marks "this is the final statement
// of a block used in expression/return position" (spec §4.4 base table
// last row): an ExprStmt in tail position becomes an implicit `return`.
func (c *Context) EmitStmt(stmt ast.Stmt, tail bool) string {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		return c.emitAssignStmt(s)
	case *ast.CompoundAssignStmt:
		return fmt.Sprintf("%s %s %s;", c.EmitExpr(s.Target), string(s.Op), c.EmitExpr(s.Value))
	case *ast.LetDestructureStmt:
		return c.emitLetDestructure(s)
	case *ast.FunctionDecl:
		return c.emitFunctionDecl(s)
	case *ast.TypeDecl:
		return "" // erased: types have no runtime representation
	case *ast.ImplBlock:
		return c.emitImplBlock(s)
	case *ast.TraitDecl:
		return "" // structural-only
	case *ast.IfStmt:
		return c.emitIfStmt(s, tail)
	case *ast.ForStmt:
		return c.emitForStmt(s)
	case *ast.WhileStmt:
		return fmt.Sprintf("while (%s) {\n%s\n}", c.EmitExpr(s.Cond), indentLines(c.EmitBlock(s.Body), 1))
	case *ast.ReturnStmt:
		if s.Value == nil {
			return "return;"
		}
		return fmt.Sprintf("return %s;", c.EmitExpr(s.Value))
	case *ast.BreakStmt:
		return "break;"
	case *ast.ContinueStmt:
		return "continue;"
	case *ast.BlockStmt:
		return fmt.Sprintf("{\n%s\n}", indentLines(c.emitBlockLines(s, tail), 1))
	case *ast.ExprStmt:
		if tail {
			return fmt.Sprintf("return %s;", c.EmitExpr(s.X))
		}
		return c.EmitExpr(s.X) + ";"
	case *ast.ErrorNode:
		return "// unparsed: " + s.Message
	default:
		return ""
	}
}

func (c *Context) emitAssignStmt(s *ast.AssignStmt) string {
	if len(s.Targets) == 1 {
		val := ""
		if len(s.Values) > 0 {
			val = c.EmitExpr(s.Values[0])
		}
		if ident, ok := s.Targets[0].(*ast.Ident); ok {
			if c.declare(ident.Name) {
				keyword := "const"
				if s.Mutable {
					keyword = "let"
				}
				return fmt.Sprintf("%s %s = %s;", keyword, ident.Name, val)
			}
			return fmt.Sprintf("%s = %s;", ident.Name, val)
		}
		return fmt.Sprintf("%s = %s;", c.EmitExpr(s.Targets[0]), val)
	}

	names := make([]string, len(s.Targets))
	for i, t := range s.Targets {
		if ident, ok := t.(*ast.Ident); ok {
			c.declare(ident.Name)
			names[i] = ident.Name
			continue
		}
		names[i] = c.EmitExpr(t)
	}
	vals := make([]string, len(s.Values))
	for i, v := range s.Values {
		vals[i] = c.EmitExpr(v)
	}
	return fmt.Sprintf("const [%s] = [%s];", strings.Join(names, ", "), strings.Join(vals, ", "))
}

func (c *Context) emitLetDestructure(s *ast.LetDestructureStmt) string {
	target := patternToJS(s.Pattern)
	for _, name := range patternNames(s.Pattern) {
		c.declare(name)
	}
	return fmt.Sprintf("const %s = %s;", target, c.EmitExpr(s.Value))
}

// patternToJS renders a destructuring Pattern as JS destructuring syntax
// (spec §4.4 base table rows 4-5): wildcard elements leave a skipped slot,
// a trailing rest name becomes `...rest`, and a field-named pattern (used
// for object destructuring) becomes `{ name: sub, ... }`.
func patternToJS(p ast.Pattern) string {
	switch pt := p.(type) {
	case *ast.WildcardPattern:
		return ""
	case *ast.BindPattern:
		return pt.Name
	case *ast.ArrayPattern:
		parts := make([]string, len(pt.Elems))
		for i, el := range pt.Elems {
			parts[i] = patternToJS(el)
		}
		if pt.Rest != "" {
			parts = append(parts, "..."+pt.Rest)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.VariantPattern:
		names := make([]string, 0, len(pt.Named))
		for name := range pt.Named {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			sub := patternToJS(pt.Named[name])
			if sub == name {
				parts = append(parts, name)
			} else {
				parts = append(parts, fmt.Sprintf("%s: %s", name, sub))
			}
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
	return "_"
}

func patternNames(p ast.Pattern) []string {
	var names []string
	var walk func(ast.Pattern)
	walk = func(p ast.Pattern) {
		switch pt := p.(type) {
		case *ast.BindPattern:
			names = append(names, pt.Name)
		case *ast.ArrayPattern:
			for _, el := range pt.Elems {
				walk(el)
			}
			if pt.Rest != "" {
				names = append(names, pt.Rest)
			}
		case *ast.VariantPattern:
			for _, f := range pt.Fields {
				walk(f)
			}
			for _, f := range pt.Named {
				walk(f)
			}
		}
	}
	walk(p)
	return names
}

func (c *Context) emitIfStmt(s *ast.IfStmt, tail bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "if (%s) {\n%s\n}", c.EmitExpr(s.Cond), indentLines(c.emitBlockLines(s.Then, tail), 1))
	for i, cond := range s.ElifConds {
		var blk *ast.BlockStmt
		if i < len(s.ElifBlocks) {
			blk = s.ElifBlocks[i]
		}
		fmt.Fprintf(&sb, " else if (%s) {\n%s\n}", c.EmitExpr(cond), indentLines(c.emitBlockLines(blk, tail), 1))
	}
	if s.Else != nil {
		fmt.Fprintf(&sb, " else {\n%s\n}", indentLines(c.emitBlockLines(s.Else, tail), 1))
	}
	return sb.String()
}

// emitForStmt implements the for-else contract (spec §4.4 base table row
// 17): a fresh __entered_N flag is set true on the first iteration, and
// the else block runs only if it never was.
func (c *Context) emitForStmt(s *ast.ForStmt) string {
	iter := c.EmitExpr(s.Iter)
	vars := strings.Join(s.Vars, ", ")
	if len(s.Vars) > 1 {
		vars = "[" + vars + "]"
	}
	if s.Else == nil {
		return fmt.Sprintf("for (const %s of %s) {\n%s\n}", vars, iter, indentLines(c.EmitBlock(s.Body), 1))
	}
	flag := c.freshEntered()
	var sb strings.Builder
	fmt.Fprintf(&sb, "let %s = false;\n", flag)
	fmt.Fprintf(&sb, "for (const %s of %s) {\n", vars, iter)
	sb.WriteString(indentLines(fmt.Sprintf("%s = true;\n%s", flag, c.EmitBlock(s.Body)), 1))
	sb.WriteString("\n}\n")
	fmt.Fprintf(&sb, "if (!%s) {\n%s\n}", flag, indentLines(c.EmitBlock(s.Else), 1))
	return sb.String()
}

func renderParams(params []ast.Param, c *Context) []string {
	out := make([]string, len(params))
	for i, p := range params {
		name := p.Name
		if p.Rest {
			name = "..." + name
		} else if p.Default != nil {
			name = fmt.Sprintf("%s = %s", name, c.EmitExpr(p.Default))
		}
		out[i] = name
	}
	return out
}

// withFreshDeclared scopes the `let`/`const` tracking set to a nested
// function body, so an inner function re-declaring a name used by an
// outer scope doesn't skip its own `const`/`let` keyword.
func (c *Context) withFreshDeclared(fn func() string) string {
	saved := c.declared
	c.declared = make(map[string]bool)
	out := fn()
	c.declared = saved
	return out
}

func (c *Context) emitFunctionDecl(s *ast.FunctionDecl) string {
	params := renderParams(s.Params, c)
	body := c.withFreshDeclared(func() string { return c.emitFunctionBody(s.Body) })
	return fmt.Sprintf("function %s(%s) %s", s.Name, strings.Join(params, ", "), body)
}

// emitImplBlock lowers `impl Type { fn m(...) {...} }` to free functions
// namespaced by type and method name (Tova has no prototype chain to hang
// methods off at runtime); `obj.method(...)` calls resolve to these at the
// member-call site in the analyzer-informed call emitter.
func (c *Context) emitImplBlock(s *ast.ImplBlock) string {
	var parts []string
	for _, m := range s.Methods {
		if m.Body == nil {
			continue
		}
		params := renderParams(m.Params, c)
		body := c.withFreshDeclared(func() string { return c.emitFunctionBody(m.Body) })
		parts = append(parts, fmt.Sprintf("function %s__%s(%s) %s", s.Type, m.Name, strings.Join(params, ", "), body))
	}
	return strings.Join(parts, "\n\n")
}
