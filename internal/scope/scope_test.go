package scope

import (
	"testing"

	"github.com/tova-lang/tova/internal/token"
	"github.com/tova-lang/tova/internal/types"
)

func TestDefineAndLookup(t *testing.T) {
	root := New(Module)
	sym := &Symbol{Name: "x", Kind: SymVariable, Type: types.Int}
	if !root.Define(sym) {
		t.Fatalf("first Define of 'x' should succeed")
	}
	if root.Define(&Symbol{Name: "x", Kind: SymVariable}) {
		t.Fatalf("second Define of 'x' in the same scope should fail")
	}
	got, ok := root.Lookup("x")
	if !ok || got != sym {
		t.Fatalf("Lookup(x) = %v, %v; want the original symbol", got, ok)
	}
}

func TestLookupWalksAncestors(t *testing.T) {
	root := New(Module)
	root.Define(&Symbol{Name: "outer", Kind: SymVariable, Type: types.Int})
	child := root.NewChild(Function)

	if _, ok := child.Lookup("outer"); !ok {
		t.Fatalf("child scope should see 'outer' via ancestor walk")
	}
	if _, ok := child.LookupLocal("outer"); ok {
		t.Fatalf("LookupLocal should not see ancestor symbols")
	}
}

func TestInContext(t *testing.T) {
	root := New(Module)
	serverScope := root.NewChild(Server)
	fnScope := serverScope.NewChild(Function)

	if !fnScope.InContext(Server) {
		t.Fatalf("nested function scope should report InContext(Server) via its ancestor")
	}
	if fnScope.InContext(Client) {
		t.Fatalf("function scope nested under Server should not report InContext(Client)")
	}
}

func TestFindScopeAtPosition(t *testing.T) {
	root := New(Module)
	root.StartLoc = token.Position{File: "f.tova", Line: 1, Column: 1}
	root.EndLoc = token.Position{File: "f.tova", Line: 10, Column: 1}

	inner := root.NewChild(Function)
	inner.StartLoc = token.Position{File: "f.tova", Line: 3, Column: 1}
	inner.EndLoc = token.Position{File: "f.tova", Line: 5, Column: 1}

	found := FindScopeAtPosition(root, token.Position{File: "f.tova", Line: 4, Column: 1})
	if found != inner {
		t.Fatalf("expected the nested function scope, got %+v", found)
	}

	found = FindScopeAtPosition(root, token.Position{File: "f.tova", Line: 8, Column: 1})
	if found != root {
		t.Fatalf("expected the root scope outside the nested range, got %+v", found)
	}
}
