// Package types implements Tova's closed, gradual type family (spec §3.3):
// a small algebraic set of Type variants plus the one-sided Assignable
// relation between them. This is the analyzer's resolved type
// representation — distinct from internal/ast's TypeExpr, which is only
// the surface syntax the parser recorded before names were resolved.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the common interface every type variant implements. String is
// the display form; equality is decided by equals (see Equals), not by
// comparing String() output, so two types can print alike without being
// equal (TypeVariable{"T"} and Generic{Base: "T"}).
type Type interface {
	String() string
	equals(Type) bool
}

// Primitive is a built-in scalar type: Int, Float, String, Bool, ...
type Primitive struct{ Name string }

func (p Primitive) String() string { return p.Name }
func (p Primitive) equals(o Type) bool {
	op, ok := o.(Primitive)
	return ok && op.Name == p.Name
}

var (
	Int     = Primitive{"Int"}
	Float   = Primitive{"Float"}
	String  = Primitive{"String"}
	Bool    = Primitive{"Bool"}
)

// NilType is the type of the `nil` literal.
type NilType struct{}

func (NilType) String() string      { return "Nil" }
func (NilType) equals(o Type) bool  { _, ok := o.(NilType); return ok }

var Nil = NilType{}

// AnyType and UnknownType are both top types for assignability; they only
// differ in the diagnostic text a consumer chooses to print (spec §3.3).
type AnyType struct{}

func (AnyType) String() string     { return "Any" }
func (AnyType) equals(o Type) bool { _, ok := o.(AnyType); return ok }

type UnknownType struct{}

func (UnknownType) String() string     { return "Unknown" }
func (UnknownType) equals(o Type) bool { _, ok := o.(UnknownType); return ok }

var Any = AnyType{}
var Unknown = UnknownType{}

// Array is a homogeneous array type.
type Array struct{ Elem Type }

func (a Array) String() string { return "Array<" + a.Elem.String() + ">" }
func (a Array) equals(o Type) bool {
	oa, ok := o.(Array)
	return ok && typeEquals(a.Elem, oa.Elem)
}

// Tuple is a fixed-arity heterogeneous product.
type Tuple struct{ Elems []Type }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t Tuple) equals(o Type) bool {
	ot, ok := o.(Tuple)
	if !ok || len(ot.Elems) != len(t.Elems) {
		return false
	}
	for i := range t.Elems {
		if !typeEquals(t.Elems[i], ot.Elems[i]) {
			return false
		}
	}
	return true
}

// Function is a callable signature.
type Function struct {
	Params []Type
	Ret    Type
}

func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "Any"
	if f.Ret != nil {
		ret = f.Ret.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") -> " + ret
}
func (f Function) equals(o Type) bool {
	of, ok := o.(Function)
	if !ok || len(of.Params) != len(f.Params) {
		return false
	}
	for i := range f.Params {
		if !typeEquals(f.Params[i], of.Params[i]) {
			return false
		}
	}
	return typeEquals(f.Ret, of.Ret)
}

// Record is a named product type: a set of named fields.
type Record struct {
	Name   string
	Fields map[string]Type
}

func (r Record) String() string { return r.Name }
func (r Record) equals(o Type) bool { return nominalEquals(r.Name, o) }

// ADT is a named sum type: a set of variants, each a record of fields.
type ADT struct {
	Name       string
	TypeParams []string
	Variants   map[string]map[string]Type
}

func (a ADT) String() string { return a.Name }
func (a ADT) equals(o Type) bool { return nominalEquals(a.Name, o) }

// VariantNames returns the ADT's variant names in a stable (sorted) order,
// used by exhaustiveness checking to report deterministic diagnostics.
func (a ADT) VariantNames() []string {
	names := make([]string, 0, len(a.Variants))
	for n := range a.Variants {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Generic is a surface type used before its declaration is resolved, e.g.
// `Result<Int, String>` or a bare `Option<T>` reference (spec §3.3).
type Generic struct {
	Base string
	Args []Type
}

func (g Generic) String() string {
	if len(g.Args) == 0 {
		return g.Base
	}
	parts := make([]string, len(g.Args))
	for i, a := range g.Args {
		parts[i] = a.String()
	}
	return g.Base + "<" + strings.Join(parts, ", ") + ">"
}
func (g Generic) equals(o Type) bool {
	og, ok := o.(Generic)
	if !ok || og.Base != g.Base {
		return false
	}
	if len(g.Args) == 0 || len(og.Args) == 0 {
		return true // bare base is a wildcard for its parameters
	}
	if len(g.Args) != len(og.Args) {
		return false
	}
	for i := range g.Args {
		if !typeEquals(g.Args[i], og.Args[i]) {
			return false
		}
	}
	return true
}

// TypeVariable is a generic placeholder (`T`, `U`, ...).
type TypeVariable struct{ Name string }

func (t TypeVariable) String() string     { return t.Name }
func (t TypeVariable) equals(o Type) bool { _, ok := o.(TypeVariable); return ok && o.(TypeVariable).Name == t.Name }

// Union is a set of alternative types, `A | B | C`.
type Union struct{ Members []Type }

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}
func (u Union) equals(o Type) bool {
	ou, ok := o.(Union)
	if !ok || len(ou.Members) != len(u.Members) {
		return false
	}
	for i := range u.Members {
		if !typeEquals(u.Members[i], ou.Members[i]) {
			return false
		}
	}
	return true
}

func typeEquals(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.equals(b)
}

// nominalEquals implements name-based equality for Record and ADT
// receivers (spec §3.3): a Record or ADT equals any Record, Primitive, ADT
// or Generic carrying the same name. Primitive and Generic receivers
// compare only against their own variant, so the relation is not
// symmetric (Equals(Record{Name: "Int"}, Int) is true, Equals(Int,
// Record{Name: "Int"}) is false).
func nominalEquals(name string, o Type) bool {
	switch ot := o.(type) {
	case Record:
		return ot.Name == name
	case Primitive:
		return ot.Name == name
	case ADT:
		return ot.Name == name
	case Generic:
		return ot.Base == name
	}
	return false
}

// Equals reports whether a and b are the same type.
func Equals(a, b Type) bool { return typeEquals(a, b) }

// NewOption builds the `Option<Elem>` ADT shape used by the analyzer's
// built-in Some/None inference rules.
func NewOption(elem Type) ADT {
	return ADT{Name: "Option", Variants: map[string]map[string]Type{
		"Some": {"value": elem},
		"None": {},
	}}
}

// NewResult builds the `Result<Ok, Err>` ADT shape.
func NewResult(ok, err Type) ADT {
	return ADT{Name: "Result", Variants: map[string]map[string]Type{
		"Ok":  {"value": ok},
		"Err": {"error": err},
	}}
}

// sprintTypeError formats a "<kind>: <got>" diagnostic fragment. Nothing in
// this compiler calls it.
func sprintTypeError(kind string, got Type) string {
	return fmt.Sprintf("%s: %s", kind, got.String())
}
