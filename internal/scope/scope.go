// Package scope implements the lexical environment tree the analyzer
// builds while walking the AST (spec §3.4).
package scope

import (
	"github.com/tova-lang/tova/internal/token"
	"github.com/tova-lang/tova/internal/types"
)

// Context tags what kind of lexical region a Scope represents.
type Context string

const (
	Module    Context = "module"
	Server    Context = "server"
	Client    Context = "client"
	Shared    Context = "shared"
	Function  Context = "function"
	Block     Context = "block"
	Component Context = "component"
	Store     Context = "store"
	Loop      Context = "loop"
	Match     Context = "match"
	Data      Context = "data"
	Form      Context = "form"
)

// SymbolKind distinguishes what a Symbol names.
type SymbolKind string

const (
	SymVariable  SymbolKind = "variable"
	SymFunction  SymbolKind = "function"
	SymType      SymbolKind = "type"
	SymVariant   SymbolKind = "variant"
	SymImport    SymbolKind = "import"
	SymState     SymbolKind = "state"
	SymComputed  SymbolKind = "computed"
	SymComponent SymbolKind = "component"
	SymStore     SymbolKind = "store"
	SymParameter SymbolKind = "parameter"
)

// Symbol is one named entity declared in a Scope.
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    types.Type
	Mutable bool
	DeclPos token.Position
}

// Scope is one node of the lexical environment tree.
type Scope struct {
	Context  Context
	Parent   *Scope
	Children []*Scope
	Symbols  map[string]*Symbol

	StartLoc token.Position
	EndLoc   token.Position
}

// New creates a root scope (no parent) with the given context tag.
func New(ctx Context) *Scope {
	return &Scope{Context: ctx, Symbols: make(map[string]*Symbol)}
}

// NewChild creates a scope nested inside s and registers it as a child.
func (s *Scope) NewChild(ctx Context) *Scope {
	child := &Scope{Context: ctx, Parent: s, Symbols: make(map[string]*Symbol)}
	s.Children = append(s.Children, child)
	return child
}

// Define adds sym to this scope. It returns false if a symbol with the
// same name already exists in this exact scope (spec §3.4 "defining an
// already-present name in the same scope is a hard error" — the analyzer
// is responsible for turning that false into a diagnostic).
func (s *Scope) Define(sym *Symbol) bool {
	if _, exists := s.Symbols[sym.Name]; exists {
		return false
	}
	s.Symbols[sym.Name] = sym
	return true
}

// Lookup walks this scope and its ancestors for name, returning the
// nearest enclosing definition.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if sym, ok := cur.Symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal looks only in this scope, not its ancestors.
func (s *Scope) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := s.Symbols[name]
	return sym, ok
}

// InContext reports whether s or one of its ancestors has the given
// context tag — used to check "state/computed/... only valid inside a
// client scope" style rules (spec §4.3).
func (s *Scope) InContext(ctx Context) bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Context == ctx {
			return true
		}
	}
	return false
}

// FindScopeAtPosition returns the deepest scope (among s and its
// descendants) whose [StartLoc, EndLoc] range (both ends inclusive)
// contains pos, or nil.
func FindScopeAtPosition(root *Scope, pos token.Position) *Scope {
	if !contains(root, pos) {
		return nil
	}
	best := root
	for _, child := range root.Children {
		if found := FindScopeAtPosition(child, pos); found != nil {
			best = found
		}
	}
	return best
}

func contains(s *Scope, pos token.Position) bool {
	if s.StartLoc.File == "" {
		return true // scopes without recorded ranges (e.g. the module root) match anything
	}
	if pos.File != s.StartLoc.File {
		return false
	}
	after := pos.Line > s.StartLoc.Line || (pos.Line == s.StartLoc.Line && pos.Column >= s.StartLoc.Column)
	before := pos.Line < s.EndLoc.Line || (pos.Line == s.EndLoc.Line && pos.Column <= s.EndLoc.Column)
	return after && before
}
