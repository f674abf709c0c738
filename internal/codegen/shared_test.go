package codegen

import (
	"strings"
	"testing"

	"github.com/tova-lang/tova/internal/ast"
)

func TestEmitSharedADTConstructors(t *testing.T) {
	decl := &ast.TypeDecl{
		Name: "Result",
		Variants: []ast.VariantDecl{
			{Name: "Ok", Fields: []ast.Param{{Name: "value"}}},
			{Name: "Err", Fields: []ast.Param{{Name: "message"}}},
		},
	}
	c := NewContext(nil)
	out := c.EmitShared("", []ast.Stmt{decl})

	if !strings.Contains(out, "function Ok(value)") {
		t.Fatalf("missing Ok constructor:\n%s", out)
	}
	if !strings.Contains(out, `__tag: "Ok"`) {
		t.Fatalf("missing Ok tag:\n%s", out)
	}
	if !strings.Contains(out, "function Err(message)") {
		t.Fatalf("missing Err constructor:\n%s", out)
	}
	if !strings.Contains(out, `shared "default"`) {
		t.Fatalf("unnamed shared block should default-label its header comment:\n%s", out)
	}
}

func TestEmitSharedZeroFieldVariant(t *testing.T) {
	decl := &ast.TypeDecl{
		Name: "Status",
		Variants: []ast.VariantDecl{
			{Name: "Active"},
			{Name: "Archived"},
		},
	}
	c := NewContext(nil)
	out := c.EmitShared("statuses", []ast.Stmt{decl})
	if !strings.Contains(out, `const Active = { __tag: "Active", __fields: [] };`) {
		t.Fatalf("zero-field variant should emit a plain const object:\n%s", out)
	}
}

func TestEmitDataFrozenArray(t *testing.T) {
	block := &ast.DataBlock{
		Name: "Colors",
		Rows: []ast.Expr{
			&ast.ObjectLit{Props: []ast.ObjectProp{
				{Name: "name", Value: &ast.StringLit{Value: "red"}},
				{Name: "hex", Value: &ast.StringLit{Value: "#f00"}},
			}},
		},
	}
	c := NewContext(nil)
	out := c.EmitData(block)
	if !strings.Contains(out, "export const Colors = Object.freeze([") {
		t.Fatalf("missing frozen array declaration:\n%s", out)
	}
	if !strings.Contains(out, `"red"`) {
		t.Fatalf("missing row content:\n%s", out)
	}
}

func TestHelperPreambleOnlyIncludesUsedHelpersInSortedOrder(t *testing.T) {
	c := NewContext(nil)
	c.useHelper("propagate")
	c.useHelper("contains")

	out := c.HelperPreamble()
	containsIdx := strings.Index(out, "function __contains")
	propagateIdx := strings.Index(out, "class __Propagated")
	if containsIdx == -1 || propagateIdx == -1 {
		t.Fatalf("expected both helper bodies present:\n%s", out)
	}
	if containsIdx > propagateIdx {
		t.Fatalf("helpers should be emitted in sorted name order (contains before propagate):\n%s", out)
	}
	if strings.Contains(out, "__etag") {
		t.Fatalf("unused helper etag should not be emitted:\n%s", out)
	}
}

func TestHelperPreambleEmptyWhenUnused(t *testing.T) {
	c := NewContext(nil)
	if out := c.HelperPreamble(); out != "" {
		t.Fatalf("expected empty preamble when no helpers are used, got:\n%s", out)
	}
}
