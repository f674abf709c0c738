package codegen

import (
	"strings"
	"testing"

	"github.com/tova-lang/tova/internal/parser"
)

func emitSharedFn(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(src, "test.tova")
	prog := p.Parse()
	if len(p.Diagnostics()) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", p.Diagnostics())
	}
	c := NewContext(nil)
	return c.EmitShared("", prog.Statements)
}

func TestEmitPipeSimple(t *testing.T) {
	out := emitSharedFn(t, `shared {
  fn test(x) {
    x |> double()
  }
}`)
	if !strings.Contains(out, "double(x)") {
		t.Fatalf("expected double(x) in output:\n%s", out)
	}
}

func TestEmitPipeWithExtraArgs(t *testing.T) {
	out := emitSharedFn(t, `shared {
  fn test(x) {
    x |> add(1, 2)
  }
}`)
	if !strings.Contains(out, "add(x, 1, 2)") {
		t.Fatalf("expected add(x, 1, 2) in output:\n%s", out)
	}
}

// A piped-into argument whose own rendering contains a literal ", " (a
// nested object literal with multiple fields) must not be mistaken for an
// argument boundary.
func TestEmitPipeWithNestedCommaArg(t *testing.T) {
	out := emitSharedFn(t, `shared {
  fn test(x) {
    x |> merge({ a: 1, b: 2 })
  }
}`)
	if !strings.Contains(out, "merge(x, { a: 1, b: 2 })") {
		t.Fatalf("nested object literal's comma corrupted pipe codegen:\n%s", out)
	}
}

func TestEmitPipeWithNestedCallArg(t *testing.T) {
	out := emitSharedFn(t, `shared {
  fn test(x) {
    x |> combine(a, other(b, c))
  }
}`)
	if !strings.Contains(out, "combine(x, a, other(b, c))") {
		t.Fatalf("nested call's comma corrupted pipe codegen:\n%s", out)
	}
}
