package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tova-lang/tova/internal/ast"
)

// EmitClient renders one `client [name] { ... }` block as a self-contained
// JS bundle (spec §4.4 "Client emitter").
func (c *Context) EmitClient(name string, body []ast.Stmt) string {
	var components []*ast.ComponentDecl
	var stores []*ast.StoreDecl
	var forms []*ast.FormBlock
	var rest []ast.Stmt

	for _, stmt := range body {
		switch s := stmt.(type) {
		case *ast.ComponentDecl:
			components = append(components, s)
		case *ast.StoreDecl:
			stores = append(stores, s)
		case *ast.FormBlock:
			forms = append(forms, s)
		default:
			rest = append(rest, s)
		}
	}

	label := name
	if label == "" {
		label = "default"
	}
	c.write(fmt.Sprintf("// client %q — generated, do not edit by hand\n\n", label))
	c.write("import {\n" +
		"  createSignal, createComputed, createEffect, batch, onMount, onCleanup, createRef,\n" +
		"  createContext, createRoot, untrack, tova_el, tova_fragment, tova_inject_css, tova_keyed,\n" +
		"  tova_dynamic, createForm, render, mount, Head, createResource, Portal, lazy, Suspense,\n" +
		"  TransitionGroup, configureCSP,\n" +
		"} from \"tova/runtime\";\n")
	c.write("export { renderToString, renderToReadableStream, resetSSRIdCounter, renderHeadTags } from \"tova/runtime/ssr\";\n\n")

	for _, stmt := range rest {
		if out := c.EmitStmt(stmt, false); out != "" {
			c.write(out + "\n\n")
		}
	}
	for _, s := range stores {
		c.write(c.emitStore(s) + "\n\n")
	}
	for _, f := range forms {
		c.write(c.emitForm(f) + "\n\n")
	}
	for _, comp := range components {
		c.write(c.emitComponent(comp) + "\n\n")
	}

	return c.withHelperPreamble()
}

// emitComponent renders `component Name(props) { ... }` as a function
// component: prop accessors, reactive state/computed/effect declarations,
// and a trailing JSX expression becomes the render return (spec §4.4
// "function App(__props) { ... } with const name = () => __props.name
// prop accessors").
func (c *Context) emitComponent(comp *ast.ComponentDecl) string {
	return c.withFreshDeclared(func() string {
		var sb strings.Builder
		fmt.Fprintf(&sb, "export function %s(__props) {\n", comp.Name)
		for _, p := range comp.Props {
			def := ""
			if p.Default != nil {
				def = fmt.Sprintf(" ?? (%s)", c.EmitExpr(p.Default))
			}
			fmt.Fprintf(&sb, "  const %s = () => __props.%s%s;\n", p.Name, p.Name, def)
		}
		sb.WriteString("\n")

		cssText := findComponentCSS(comp)
		if cssText != "" {
			hash := c.scopeHashSuffix(comp.Name, cssText)
			fmt.Fprintf(&sb, "  tova_inject_css(%s, %s);\n", jsStringLit(comp.Name+"-"+hash), jsStringLit(cssText))
		}

		var renderExpr ast.Expr
		for i, stmt := range comp.Body {
			if _, ok := stmt.(*ast.StyleDecl); ok {
				continue // already consumed above via findComponentCSS
			}
			isLast := i == len(comp.Body)-1
			if es, ok := stmt.(*ast.ExprStmt); ok && isLast && isJSXExpr(es.X) {
				renderExpr = es.X
				continue
			}
			sb.WriteString(indentLines(c.emitClientStmt(stmt), 1))
			sb.WriteString("\n")
		}
		sb.WriteString("\n  return () => ")
		if renderExpr != nil {
			sb.WriteString(c.emitJSX(renderExpr))
		} else {
			sb.WriteString("null")
		}
		sb.WriteString(";\n}")
		return sb.String()
	})
}

func isJSXExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.JSXElement, *ast.JSXFragment, *ast.JSXIf, *ast.JSXFor:
		return true
	}
	return false
}

// findComponentCSS looks for a `style { ... }` block in the component body
// (spec §4.1 "Style blocks", §4.4 "scoped CSS via FNV-1a hash of
// (componentName, cssText)"). The lexer scans it as one verbatim token, so
// its text reaches here unparsed.
func findComponentCSS(comp *ast.ComponentDecl) string {
	for _, stmt := range comp.Body {
		if s, ok := stmt.(*ast.StyleDecl); ok {
			return s.CSS
		}
	}
	return ""
}

// emitClientStmt dispatches state/computed/effect declarations (reactive
// primitives) in addition to ordinary statements.
func (c *Context) emitClientStmt(stmt ast.Stmt) string {
	switch s := stmt.(type) {
	case *ast.StateDecl:
		init := "undefined"
		if s.Initial != nil {
			init = c.EmitExpr(s.Initial)
		}
		c.declare(s.Name)
		return fmt.Sprintf("const [%s, __set_%s] = createSignal(%s);", s.Name, s.Name, init)
	case *ast.ComputedDecl:
		c.declare(s.Name)
		return fmt.Sprintf("const %s = createComputed(() => (%s));", s.Name, c.EmitExpr(s.Expr))
	case *ast.EffectDecl:
		deps := make([]string, len(s.Deps))
		for i, d := range s.Deps {
			deps[i] = c.EmitExpr(d)
		}
		body := c.withFreshDeclared(func() string { return c.emitFunctionBody(s.Body) })
		if len(deps) == 0 {
			return fmt.Sprintf("createEffect(() => %s);", body)
		}
		return fmt.Sprintf("createEffect(() => %s, [%s]);", body, strings.Join(deps, ", "))
	case *ast.ExprStmt:
		if isJSXExpr(s.X) {
			return c.emitJSX(s.X) + ";"
		}
	}
	return c.EmitStmt(stmt, false)
}

// emitStore renders `store Name { ... }` as an IIFE exposing getters and
// setters over internal signals (spec §4.4 "stores (IIFE exposing getters/
// setters over internal signals)").
func (c *Context) emitStore(s *ast.StoreDecl) string {
	return c.withFreshDeclared(func() string {
		var sb strings.Builder
		fmt.Fprintf(&sb, "const %s = (() => {\n", s.Name)
		var exported []string
		for _, stmt := range s.Body {
			switch d := stmt.(type) {
			case *ast.StateDecl:
				exported = append(exported, d.Name)
			case *ast.ComputedDecl:
				exported = append(exported, d.Name)
			case *ast.FunctionDecl:
				exported = append(exported, d.Name)
			}
			sb.WriteString(indentLines(c.emitClientStmt(stmt), 1))
			sb.WriteString("\n")
		}
		sort.Strings(exported)
		fmt.Fprintf(&sb, "  return { %s };\n})();", strings.Join(exported, ", "))
		return sb.String()
	})
}

// emitJSX lowers a JSX expression tree to `tova_el`/`tova_fragment` calls
// (spec §4.4 "Client emitter" JSX reactivity rules).
func (c *Context) emitJSX(e ast.Expr) string {
	switch x := e.(type) {
	case *ast.JSXElement:
		return c.emitJSXElement(x)
	case *ast.JSXFragment:
		return fmt.Sprintf("tova_fragment([%s])", strings.Join(c.emitJSXChildren(x.Children), ", "))
	case *ast.JSXIf:
		return c.emitJSXIf(x)
	case *ast.JSXFor:
		return c.emitJSXFor(x)
	case *ast.JSXExpression:
		return c.emitJSXChildExpr(x.Expr)
	case *ast.JSXText:
		return jsStringLit(x.Text)
	}
	return c.EmitExpr(e)
}

func (c *Context) emitJSXElement(x *ast.JSXElement) string {
	var classExpr string
	var classTags []string
	attrParts := make([]string, 0, len(x.Attrs))
	for _, a := range x.Attrs {
		switch {
		case a.IsClass:
			classTags = append(classTags, fmt.Sprintf("(%s) && %s", c.EmitExpr(a.Value), jsStringLit(a.ClassTag)))
		case a.IsEvent:
			attrParts = append(attrParts, fmt.Sprintf("%s: (%s)", eventPropName(a.Name), c.EmitExpr(a.Value)))
		case a.IsBind:
			attrParts = append(attrParts, c.emitBindAttr(x.Tag, a)...)
		case a.Name == "class":
			classExpr = c.EmitExpr(a.Value)
		case a.Value == nil:
			attrParts = append(attrParts, fmt.Sprintf("%s: true", a.Name))
		default:
			attrParts = append(attrParts, fmt.Sprintf("%s: %s", jsPropKey(a.Name), c.emitReactiveAttrValue(a.Value)))
		}
	}
	if len(classTags) > 0 {
		base := "[]"
		if classExpr != "" {
			base = fmt.Sprintf("[%s]", classExpr)
		}
		merged := fmt.Sprintf("[...%s, %s].filter(Boolean).join(' ')", base, strings.Join(classTags, ", "))
		attrParts = append(attrParts, fmt.Sprintf("class: (%s)", merged))
	} else if classExpr != "" {
		attrParts = append(attrParts, fmt.Sprintf("class: %s", classExpr))
	}

	defaultChildren, slots := c.emitJSXChildrenWithSlots(x.Children)
	if len(slots) > 0 {
		names := make([]string, 0, len(slots))
		for n := range slots {
			names = append(names, n)
		}
		sort.Strings(names)
		slotProps := make([]string, len(names))
		for i, n := range names {
			slotProps[i] = fmt.Sprintf("%s: [%s]", jsPropKey(n), strings.Join(slots[n], ", "))
		}
		attrParts = append(attrParts, fmt.Sprintf("slots: { %s }", strings.Join(slotProps, ", ")))
	}

	attrs := "{ " + strings.Join(attrParts, ", ") + " }"
	// A capitalized tag names a component reference (function in scope),
	// a lowercase tag is a plain host element string (spec §4.4 "lazy
	// components ... portals, transition groups" all ride through the
	// same tova_el call, dispatched on the tag's value, not its text).
	tagExpr := jsStringLit(x.Tag)
	if isComponentTag(x.Tag) {
		tagExpr = x.Tag
	}
	return fmt.Sprintf("tova_el(%s, %s, [%s])", tagExpr, attrs, strings.Join(defaultChildren, ", "))
}

func isComponentTag(tag string) bool {
	return tag != "" && tag[0] >= 'A' && tag[0] <= 'Z'
}

// emitReactiveAttrValue wraps a prop expression as `() => expr` when it
// isn't already trivial, matching the signal-read heuristic spec §4.4 calls
// for ("expression children are wrapped as () => expr iff the expression
// reads a signal"). A conservative approximation: anything beyond a bare
// literal or bare identifier is wrapped, since the analyzer doesn't currently tag which
// identifiers are signal reads.
func (c *Context) emitReactiveAttrValue(e ast.Expr) string {
	if isTrivial(e) {
		return c.EmitExpr(e)
	}
	return fmt.Sprintf("() => (%s)", c.EmitExpr(e))
}

// emitJSXChildExpr wraps a dynamic JSX child expression in tova_dynamic so
// the runtime can place an SSR hydration marker around it (spec §4.4
// "hydration markers ... around dynamic regions"); attribute values don't
// get markers, since only children interleave with DOM/SSR text nodes.
func (c *Context) emitJSXChildExpr(e ast.Expr) string {
	if isTrivial(e) {
		return c.EmitExpr(e)
	}
	return fmt.Sprintf("tova_dynamic(() => (%s))", c.EmitExpr(e))
}

func eventPropName(name string) string {
	// on:click -> onClick
	if name == "" {
		return name
	}
	return "on" + strings.ToUpper(name[:1]) + name[1:]
}

// emitBindAttr compiles `bind:value` (text/select), `bind:group` (radios),
// and array-toggle checkboxes (spec §4.4 "bind:value ... bind:group ...").
func (c *Context) emitBindAttr(tag string, a ast.JSXAttr) []string {
	target := c.EmitExpr(a.Value)
	switch a.Name {
	case "value":
		event := "onInput"
		if tag == "select" {
			event = "onChange"
		}
		return []string{
			fmt.Sprintf("value: %s()", target),
			fmt.Sprintf("%s: (__e) => __set_%s(__e.target.value)", event, target),
		}
	case "group":
		return []string{
			fmt.Sprintf("checked: %s() === __props.value", target),
			fmt.Sprintf("onChange: (__e) => __set_%s(__e.target.value)", target),
		}
	case "checked":
		return []string{
			fmt.Sprintf("checked: %s().includes(__props.value)", target),
			fmt.Sprintf("onChange: (__e) => __set_%s(__e.target.checked ? [...%s(), __props.value] : %s().filter((v) => v !== __props.value))", target, target, target),
		}
	}
	return nil
}

func (c *Context) emitJSXChildren(children []ast.JSXChild) []string {
	out, _ := c.emitJSXChildrenWithSlots(children)
	return out
}

// emitJSXChildrenWithSlots partitions an element's children into its default
// (positional) children and any named `slot="..."` targets (spec §4.4 "named
// slot children"), rendering each side the same way emitJSXChildren always
// has. Only a direct *ast.JSXElement child can carry a Slot.
func (c *Context) emitJSXChildrenWithSlots(children []ast.JSXChild) ([]string, map[string][]string) {
	out := make([]string, 0, len(children))
	var slots map[string][]string
	for _, ch := range children {
		if el, ok := ch.(*ast.JSXElement); ok && el.Slot != "" {
			if slots == nil {
				slots = make(map[string][]string)
			}
			slots[el.Slot] = append(slots[el.Slot], c.emitJSXElement(el))
			continue
		}
		switch cc := ch.(type) {
		case *ast.JSXText:
			if strings.TrimSpace(cc.Text) == "" {
				continue
			}
			out = append(out, jsStringLit(cc.Text))
		case *ast.JSXExpression:
			out = append(out, c.emitJSXChildExpr(cc.Expr))
		default:
			out = append(out, c.emitJSX(cc.(ast.Expr)))
		}
	}
	return out, slots
}

func (c *Context) emitJSXIf(x *ast.JSXIf) string {
	result := "null"
	if x.Else != nil {
		result = "tova_fragment([" + strings.Join(c.emitJSXChildren(x.Else), ", ") + "])"
	}
	for i := len(x.Conds) - 1; i >= 0; i-- {
		branch := "tova_fragment([" + strings.Join(c.emitJSXChildren(x.Branches[i]), ", ") + "])"
		result = fmt.Sprintf("(%s) ? %s : %s", c.EmitExpr(x.Conds[i]), branch, result)
	}
	return fmt.Sprintf("(() => %s)()", result)
}

// emitJSXFor compiles `for v in iter { children }` into a keyed map over
// `tova_keyed`, defaulting the key to the loop value itself when no
// `key={expr}` is given.
func (c *Context) emitJSXFor(x *ast.JSXFor) string {
	vars := strings.Join(x.Vars, ", ")
	if len(x.Vars) > 1 {
		vars = "[" + vars + "]"
	}
	key := vars
	if x.Key != nil {
		key = c.EmitExpr(x.Key)
	}
	body := "tova_fragment([" + strings.Join(c.emitJSXChildren(x.Children), ", ") + "])"
	return fmt.Sprintf("tova_keyed(%s, (%s) => %s, (%s) => %s)", c.EmitExpr(x.Iter), vars, key, vars, body)
}
