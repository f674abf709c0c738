package parser

import (
	"testing"

	"github.com/tova-lang/tova/internal/ast"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := New(src, "test.tova")
	prog := p.Parse()
	if len(p.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics parsing %q: %v", src, p.Diagnostics())
	}
	return prog
}

func TestParseAssignAndBinary(t *testing.T) {
	prog := parseProgram(t, "var x = 1 + 2 * 3")
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	stmt, ok := prog.Statements[0].(*ast.AssignStmt)
	if !ok {
		t.Fatalf("expected *ast.AssignStmt, got %T", prog.Statements[0])
	}
	if !stmt.Mutable {
		t.Fatalf("`var` assignment should be Mutable")
	}
	bin, ok := stmt.Values[0].(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected *ast.BinaryExpr value, got %T", stmt.Values[0])
	}
	if _, ok := bin.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected `2 * 3` to bind tighter than `+`, got %#v", bin.Right)
	}
}

func TestParseFunctionDecl(t *testing.T) {
	prog := parseProgram(t, "fn add(a, b) { a + b }")
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("expected *ast.FunctionDecl, got %T", prog.Statements[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("fn = %+v", fn)
	}
}

func TestParseIfElif(t *testing.T) {
	prog := parseProgram(t, `if a { 1 } elif b { 2 } else { 3 }`)
	ifs, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", prog.Statements[0])
	}
	if len(ifs.ElifConds) != 1 || ifs.Else == nil {
		t.Fatalf("if = %+v", ifs)
	}
}

func TestParseSumTypeDecl(t *testing.T) {
	prog := parseProgram(t, "type Result = Ok(value: Int) | Err(message: String)")
	decl, ok := prog.Statements[0].(*ast.TypeDecl)
	if !ok {
		t.Fatalf("expected *ast.TypeDecl, got %T", prog.Statements[0])
	}
	if len(decl.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d: %+v", len(decl.Variants), decl.Variants)
	}
	if decl.Variants[0].Name != "Ok" || decl.Variants[0].Fields[0].Name != "value" {
		t.Fatalf("Ok variant = %+v", decl.Variants[0])
	}
	if decl.Variants[1].Name != "Err" || decl.Variants[1].Fields[0].Name != "message" {
		t.Fatalf("Err variant = %+v", decl.Variants[1])
	}
}

func TestParseServerBlockWithName(t *testing.T) {
	prog := parseProgram(t, `server "api" { fn ping() { true } }`)
	block, ok := prog.Statements[0].(*ast.ServerBlock)
	if !ok {
		t.Fatalf("expected *ast.ServerBlock, got %T", prog.Statements[0])
	}
	if block.Name != "api" || len(block.Body) != 1 {
		t.Fatalf("server block = %+v", block)
	}
}

func TestParseDeployBlock(t *testing.T) {
	prog := parseProgram(t, `deploy "prod" { server: "prod-1", domain: "example.com" }`)
	block, ok := prog.Statements[0].(*ast.DeployBlock)
	if !ok {
		t.Fatalf("expected *ast.DeployBlock, got %T", prog.Statements[0])
	}
	if block.Name != "prod" || len(block.Props) != 2 {
		t.Fatalf("deploy block = %+v", block)
	}
}

func TestParseFormBlockTopLevel(t *testing.T) {
	prog := parseProgram(t, `form Signup {
  field email: String { required }
}`)
	block, ok := prog.Statements[0].(*ast.FormBlock)
	if !ok {
		t.Fatalf("expected *ast.FormBlock, got %T", prog.Statements[0])
	}
	if block.Name != "Signup" || len(block.Fields) != 1 {
		t.Fatalf("form block = %+v", block)
	}
	if len(block.Fields[0].Validators) != 1 || block.Fields[0].Validators[0].Name != "required" {
		t.Fatalf("field validators = %+v", block.Fields[0].Validators)
	}
}

func TestParseStyleBlock(t *testing.T) {
	prog := parseProgram(t, `style { .foo { color: red; } }`)
	decl, ok := prog.Statements[0].(*ast.StyleDecl)
	if !ok {
		t.Fatalf("expected *ast.StyleDecl, got %T", prog.Statements[0])
	}
	if decl.CSS == "" {
		t.Fatalf("StyleDecl.CSS should not be empty")
	}
}

func TestParseMatchExpr(t *testing.T) {
	prog := parseProgram(t, `match x { Ok(v) => v, Err(_) => 0 }`)
	stmt, ok := prog.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", prog.Statements[0])
	}
	if _, ok := stmt.X.(*ast.MatchExpr); !ok {
		t.Fatalf("expected *ast.MatchExpr, got %T", stmt.X)
	}
}

func TestParsePropagateOperator(t *testing.T) {
	prog := parseProgram(t, "fn f() { maybeFail()? }")
	fn := prog.Statements[0].(*ast.FunctionDecl)
	exprStmt, ok := fn.Body.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", fn.Body.Statements[0])
	}
	if _, ok := exprStmt.X.(*ast.PropagateExpr); !ok {
		t.Fatalf("expected *ast.PropagateExpr, got %T", exprStmt.X)
	}
}

func TestParseChainedComparison(t *testing.T) {
	prog := parseProgram(t, "a < b < c")
	stmt := prog.Statements[0].(*ast.ExprStmt)
	cmp, ok := stmt.X.(*ast.ChainedComparison)
	if !ok {
		t.Fatalf("expected *ast.ChainedComparison, got %T", stmt.X)
	}
	if len(cmp.Operands) != 3 || len(cmp.Ops) != 2 {
		t.Fatalf("chained comparison = %+v", cmp)
	}
}

func TestParseSyntaxErrorNonTolerant(t *testing.T) {
	p := New("fn add(a, b { a + b }", "test.tova")
	p.Parse()
	if len(p.Diagnostics()) == 0 {
		t.Fatalf("expected at least one diagnostic for malformed params")
	}
}

func TestParseTolerantRecovery(t *testing.T) {
	p := New("fn add(a, b { a + b }\nfn ok() { 1 }", "test.tova", Tolerant(true))
	prog := p.Parse()
	if len(p.Diagnostics()) == 0 {
		t.Fatalf("expected at least one diagnostic")
	}
	// Tolerant mode should still recover enough to parse the second
	// function declaration.
	found := false
	for _, stmt := range prog.Statements {
		if fn, ok := stmt.(*ast.FunctionDecl); ok && fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("tolerant parse should have recovered the `ok` function, got: %+v", prog.Statements)
	}
}
