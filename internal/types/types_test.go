package types

import "testing"

func TestEqualsPrimitives(t *testing.T) {
	if !Equals(Int, Int) {
		t.Fatalf("Int should equal Int")
	}
	if Equals(Int, Float) {
		t.Fatalf("Int should not equal Float")
	}
}

func TestEqualsNominalAcrossVariants(t *testing.T) {
	rec := Record{Name: "Point", Fields: map[string]Type{"x": Int}}
	gen := Generic{Base: "Point"}
	if !Equals(rec, gen) {
		t.Fatalf("Record and bare Generic sharing a name should be nominally equal")
	}
}

func TestADTVariantNamesSorted(t *testing.T) {
	adt := ADT{Name: "Result", Variants: map[string]map[string]Type{
		"Err": {"message": String},
		"Ok":  {"value": Int},
	}}
	names := adt.VariantNames()
	if len(names) != 2 || names[0] != "Err" || names[1] != "Ok" {
		t.Fatalf("VariantNames() = %v, want sorted [Err Ok]", names)
	}
}

func TestAssignableWidening(t *testing.T) {
	if !Assignable(Int, Float) {
		t.Fatalf("Int should widen to Float")
	}
	ok, narrowed := AssignableDetail(Float, Int)
	if !ok || !narrowed {
		t.Fatalf("Float -> Int should be assignable with narrowed=true, got ok=%v narrowed=%v", ok, narrowed)
	}
}

func TestAssignableMismatch(t *testing.T) {
	if Assignable(String, Int) {
		t.Fatalf("String should not be assignable to Int")
	}
}

func TestAssignableAnyAndUnknown(t *testing.T) {
	if !Assignable(Any, String) {
		t.Fatalf("Any should be assignable to anything")
	}
	if !Assignable(String, Unknown) {
		t.Fatalf("anything should be assignable to Unknown")
	}
}

func TestAssignableNilToOption(t *testing.T) {
	opt := NewOption(String)
	if !Assignable(Nil, opt) {
		t.Fatalf("Nil should be assignable to an Option<T>")
	}
	if Assignable(Nil, String) {
		t.Fatalf("Nil should not be assignable to a non-Option type")
	}
}

func TestAssignableUnionMembership(t *testing.T) {
	u := Union{Members: []Type{Int, String}}
	if !Assignable(Int, u) {
		t.Fatalf("Int should be assignable to Int | String")
	}
	if Assignable(Bool, u) {
		t.Fatalf("Bool should not be assignable to Int | String")
	}
}

func TestRegistryDefineAndLookup(t *testing.T) {
	reg := NewRegistry()
	result := NewResult(Int, String)
	reg.DefineType("Result", result)

	got, ok := reg.Lookup("Result")
	if !ok || !Equals(got, result) {
		t.Fatalf("Lookup(Result) = %v, %v; want the registered ADT", got, ok)
	}

	adt, ok := reg.ADTOf("Result")
	if !ok || len(adt.Variants) != 2 {
		t.Fatalf("ADTOf(Result) = %+v, %v", adt, ok)
	}

	if _, ok := reg.ADTOf("Missing"); ok {
		t.Fatalf("ADTOf should report false for an undeclared type")
	}
}

func TestRegistryMethods(t *testing.T) {
	reg := NewRegistry()
	reg.AddMethod("Point", Method{Name: "dist", Sig: Function{Params: []Type{}, Ret: Float}})
	methods := reg.MethodsOf("Point")
	if len(methods) != 1 || methods[0].Name != "dist" {
		t.Fatalf("MethodsOf(Point) = %+v", methods)
	}
}
