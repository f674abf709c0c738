package codegen

import (
	"fmt"
	"strings"

	"github.com/tova-lang/tova/internal/ast"
)

// EmitStandaloneForm renders a top-level `form Name { ... }` block (one not
// nested inside a `client { ... }` body) as its own single-form bundle. A
// bare top-level form still compiles to a reactive controller built on
// `createSignal`, so it belongs in the same output category as a client
// bundle rather than getting a file-format of its own.
func (c *Context) EmitStandaloneForm(f *ast.FormBlock) string {
	label := f.Name
	if label == "" {
		label = "default"
	}
	c.write(fmt.Sprintf("// form %q — generated, do not edit by hand\n\n", label))
	c.write("import { createSignal, createComputed, createEffect, batch, createForm } from \"tova/runtime\";\n\n")
	c.write(c.emitForm(f))
	c.write("\n")
	return c.withHelperPreamble()
}

// emitForm compiles a `form Name { field... group... array... steps...
// on submit... }` block into an IIFE controller (spec §4.4 "Form
// emitter"): per-field value/error/touched/set/blur/validate/reset,
// group/array accessors, an optional step wizard, and a submit() pipeline.
func (c *Context) emitForm(f *ast.FormBlock) string {
	return c.withFreshDeclared(func() string {
		var sb strings.Builder
		fmt.Fprintf(&sb, "const %s = (() => {\n", f.Name)

		var fieldNames []string
		for _, field := range f.Fields {
			fieldNames = append(fieldNames, field.Name)
			sb.WriteString(indentLines(c.emitFormField(field), 1))
			sb.WriteString("\n")
		}
		var groupNames []string
		for _, g := range f.Groups {
			groupNames = append(groupNames, g.Name)
			sb.WriteString(indentLines(c.emitFormGroup(g), 1))
			sb.WriteString("\n")
		}
		var arrayNames []string
		for _, arr := range f.Arrays {
			arrayNames = append(arrayNames, arr.Name)
			sb.WriteString(indentLines(c.emitFormArray(arr), 1))
			sb.WriteString("\n")
		}

		sb.WriteString("  const [submitting, __setSubmitting] = createSignal(false);\n")
		sb.WriteString("  const [submitError, __setSubmitError] = createSignal(null);\n")
		sb.WriteString("  const [submitCount, __setSubmitCount] = createSignal(0);\n\n")

		allFieldRefs := append(append([]string{}, fieldNames...), groupNames...)
		allFieldRefs = append(allFieldRefs, arrayNames...)
		sb.WriteString(fmt.Sprintf("  const isValid = createComputed(() => [%s].every((m) => m.isValid ? m.isValid() : !m.error()));\n", strings.Join(allFieldRefs, ", ")))
		sb.WriteString(fmt.Sprintf("  const isDirty = createComputed(() => [%s].some((m) => m.isDirty ? m.isDirty() : m.touched()));\n", strings.Join(allFieldRefs, ", ")))
		sb.WriteString(fmt.Sprintf("  const values = () => ({ %s });\n\n", formValuesObject(fieldNames, groupNames, arrayNames)))

		if len(f.Steps) > 0 {
			sb.WriteString(c.emitFormSteps(f.Steps))
			sb.WriteString("\n")
		}

		sb.WriteString("  async function submit() {\n")
		for _, name := range fieldNames {
			fmt.Fprintf(&sb, "    %s.blur();\n", name)
		}
		sb.WriteString("    if (!isValid()) return false;\n")
		sb.WriteString("    __setSubmitting(true);\n")
		sb.WriteString("    __setSubmitError(null);\n")
		sb.WriteString("    try {\n")
		if f.OnSubmit != nil {
			sb.WriteString(indentLines(c.EmitBlock(f.OnSubmit), 3))
			sb.WriteString("\n")
		}
		sb.WriteString("      return true;\n")
		sb.WriteString("    } catch (err) {\n")
		sb.WriteString("      __setSubmitError(err);\n")
		sb.WriteString("      return false;\n")
		sb.WriteString("    } finally {\n")
		sb.WriteString("      __setSubmitting(false);\n")
		sb.WriteString("      __setSubmitCount(submitCount() + 1);\n")
		sb.WriteString("    }\n")
		sb.WriteString("  }\n\n")

		sb.WriteString("  function reset() {\n")
		for _, name := range fieldNames {
			fmt.Fprintf(&sb, "    %s.reset();\n", name)
		}
		sb.WriteString("  }\n\n")

		exported := append(append(append([]string{}, fieldNames...), groupNames...), arrayNames...)
		exported = append(exported, "isValid", "isDirty", "values", "submit", "reset", "submitting", "submitError", "submitCount")
		if len(f.Steps) > 0 {
			exported = append(exported, "currentStep", "canNext", "canPrev", "progress", "next", "prev")
		}
		fmt.Fprintf(&sb, "  return { %s };\n})();", strings.Join(exported, ", "))
		return sb.String()
	})
}

func formValuesObject(fields, groups, arrays []string) string {
	parts := make([]string, 0, len(fields)+len(groups)+len(arrays))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s.value()", f, f))
	}
	for _, g := range groups {
		parts = append(parts, fmt.Sprintf("%s: %s.values()", g, g))
	}
	for _, a := range arrays {
		parts = append(parts, fmt.Sprintf("%s: %s.items().map((item) => item.values())", a, a))
	}
	return strings.Join(parts, ", ")
}

// emitFormField builds the per-field controller object: value/error/
// touched signals plus set/blur/validate/reset methods running the
// field's validators in declaration order.
func (c *Context) emitFormField(field ast.FormField) string {
	init := "undefined"
	if field.Default != nil {
		init = c.EmitExpr(field.Default)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "const %s = (() => {\n", field.Name)
	fmt.Fprintf(&sb, "  const [value, __setValue] = createSignal(%s);\n", init)
	sb.WriteString("  const [error, __setError] = createSignal(null);\n")
	sb.WriteString("  const [touched, __setTouched] = createSignal(false);\n")
	sb.WriteString("  function validate() {\n")
	sb.WriteString("    const v = value();\n")
	for _, v := range field.Validators {
		sb.WriteString(indentLines(c.emitFormValidator(v), 2))
		sb.WriteString("\n")
	}
	sb.WriteString("    __setError(null);\n")
	sb.WriteString("    return true;\n")
	sb.WriteString("  }\n")
	sb.WriteString("  function set(v) { __setValue(v); validate(); }\n")
	sb.WriteString("  function blur() { __setTouched(true); validate(); }\n")
	fmt.Fprintf(&sb, "  function reset() { __setValue(%s); __setError(null); __setTouched(false); }\n", init)
	sb.WriteString("  return { value, error, touched, set, blur, validate, reset };\n")
	sb.WriteString("})();")
	return sb.String()
}

// emitFormValidator compiles one named validator rule to an early-return
// guard inside the field's validate() method.
func (c *Context) emitFormValidator(v ast.FormValidator) string {
	args := make([]string, len(v.Args))
	for i, a := range v.Args {
		args[i] = c.EmitExpr(a)
	}
	switch v.Name {
	case "required":
		return "if (v === undefined || v === null || v === '') { __setError('required'); return false; }"
	case "min":
		return fmt.Sprintf("if (typeof v === 'number' ? v < (%s) : String(v).length < (%s)) { __setError('min'); return false; }", args[0], args[0])
	case "max":
		return fmt.Sprintf("if (typeof v === 'number' ? v > (%s) : String(v).length > (%s)) { __setError('max'); return false; }", args[0], args[0])
	case "pattern":
		return fmt.Sprintf("if (!(%s).test(String(v))) { __setError('pattern'); return false; }", args[0])
	}
	// custom `fn(value) -> Bool` predicate validator
	return fmt.Sprintf("if (!(%s)(v)) { __setError(%s); return false; }", v.Name, jsStringLit(v.Name))
}

func (c *Context) emitFormGroup(g ast.FormGroup) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "const %s = (() => {\n", g.Name)
	var names []string
	for _, f := range g.Fields {
		names = append(names, f.Name)
		sb.WriteString(indentLines(c.emitFormField(f), 1))
		sb.WriteString("\n")
	}
	for _, sub := range g.Groups {
		names = append(names, sub.Name)
		sb.WriteString(indentLines(c.emitFormGroup(sub), 1))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("  const isValid = () => [%s].every((m) => m.isValid ? m.isValid() : !m.error());\n", strings.Join(names, ", ")))
	sb.WriteString(fmt.Sprintf("  const isDirty = () => [%s].some((m) => m.isDirty ? m.isDirty() : m.touched());\n", strings.Join(names, ", ")))
	sb.WriteString(fmt.Sprintf("  const values = () => ({ %s });\n", formValuesObject(namesOfFields(g.Fields), namesOfGroups(g.Groups), nil)))
	sb.WriteString(fmt.Sprintf("  return { %s, isValid, isDirty, values };\n})();", strings.Join(names, ", ")))
	return sb.String()
}

func namesOfFields(fields []ast.FormField) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func namesOfGroups(groups []ast.FormGroup) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Name
	}
	return out
}

// emitFormArray builds the repeatable-row controller: `items`, `length`,
// `add(defaults?)`, `remove(item)`, `move(from, to)`, each item tagged with
// a monotonically increasing `__id` (spec §4.4 "Form emitter").
func (c *Context) emitFormArray(arr ast.FormArrayField) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "const %s = (() => {\n", arr.Name)
	sb.WriteString("  let __nextId = 0;\n")
	sb.WriteString("  const [items, __setItems] = createSignal([]);\n")
	sb.WriteString("  function makeRow(defaults) {\n")
	sb.WriteString("    const __id = __nextId++;\n")
	fieldInit := make([]string, len(arr.Fields))
	for i, f := range arr.Fields {
		def := "undefined"
		if f.Default != nil {
			def = c.EmitExpr(f.Default)
		}
		fieldInit[i] = fmt.Sprintf("%s: (defaults?.%s ?? (%s))", f.Name, f.Name, def)
	}
	fmt.Fprintf(&sb, "    const values = () => ({ %s });\n", strings.Join(fieldInit, ", "))
	sb.WriteString("    return { __id, values };\n")
	sb.WriteString("  }\n")
	sb.WriteString("  function add(defaults) { __setItems([...items(), makeRow(defaults)]); }\n")
	sb.WriteString("  function remove(item) { __setItems(items().filter((it) => it.__id !== item.__id)); }\n")
	sb.WriteString("  function move(from, to) {\n")
	sb.WriteString("    const list = [...items()];\n")
	sb.WriteString("    const [moved] = list.splice(from, 1);\n")
	sb.WriteString("    list.splice(to, 0, moved);\n")
	sb.WriteString("    __setItems(list);\n")
	sb.WriteString("  }\n")
	sb.WriteString("  const length = () => items().length;\n")
	sb.WriteString("  return { items, length, add, remove, move };\n")
	sb.WriteString("})();")
	return sb.String()
}

// emitFormSteps builds the wizard controller over each step's member
// fields/groups/arrays.
func (c *Context) emitFormSteps(steps []ast.FormStep) string {
	var sb strings.Builder
	sb.WriteString("  const [currentStep, __setCurrentStep] = createSignal(0);\n")
	stepMembers := make([]string, len(steps))
	for i, s := range steps {
		names := make([]string, len(s.Members))
		for j, m := range s.Members {
			names[j] = m
		}
		stepMembers[i] = "[" + strings.Join(quoteAll(names), ", ") + "]"
	}
	fmt.Fprintf(&sb, "  const __stepMembers = [%s];\n", strings.Join(stepMembers, ", "))
	sb.WriteString("  const canNext = createComputed(() => __stepMembers[currentStep()].every((m) => eval(m).isValid ? eval(m).isValid() : !eval(m).error()));\n")
	sb.WriteString("  const canPrev = createComputed(() => currentStep() > 0);\n")
	fmt.Fprintf(&sb, "  const progress = createComputed(() => (currentStep() + 1) / %d);\n", len(steps))
	sb.WriteString("  function next() { if (canNext() && currentStep() < __stepMembers.length - 1) __setCurrentStep(currentStep() + 1); }\n")
	sb.WriteString("  function prev() { if (canPrev()) __setCurrentStep(currentStep() - 1); }\n")
	return sb.String()
}
