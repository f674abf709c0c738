package codegen

import (
	"fmt"

	"github.com/tova-lang/tova/internal/ast"
)

// EmitTest compiles a `test "name" { fn test_a() { ... } }` block into a
// Bun-style describe/test wrapper file (spec §4.4 "Test emitter"). Each
// `fn` becomes one `test(...)` case named after its declared name; the
// server under test is driven in-process via the `__handleRequest` hook
// EmitServer's bootstrap exports, so no live socket is required.
func (c *Context) EmitTest(block *ast.TestBlock) string {
	label := block.Name
	if label == "" {
		label = "default"
	}
	c.write(fmt.Sprintf("// test %q — generated, do not edit by hand\n\n", label))
	c.write("import { describe, test, expect } from \"bun:test\";\n")
	c.write("import { __handleRequest } from \"./server.js\";\n\n")

	c.write(fmt.Sprintf("describe(%s, () => {\n", jsStringLit(label)))
	for _, fn := range block.Funcs {
		caseName := fn.Name
		body := c.withFreshDeclared(func() string { return c.EmitBlock(fn.Body) })
		c.write(fmt.Sprintf("  test(%s, async () => {\n", jsStringLit(caseName)))
		c.write(indentLines(body, 2))
		c.write("\n  });\n")
	}
	c.write("});\n")

	return c.withHelperPreamble()
}
