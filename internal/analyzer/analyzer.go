// Package analyzer implements semantic analysis (spec §4.3): scope/symbol
// resolution, context validity (client-only vs server-only declarations),
// type inference and assignability, and ADT match exhaustiveness. It
// consumes an *ast.Program and a types.Registry seeded by a first pass over
// type declarations, and produces a Diagnostics slice the same shape the
// parser and lexer use (internal/errors.Diagnostic), so the CLI formats all
// three stages identically.
package analyzer

import (
	"fmt"

	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/errors"
	"github.com/tova-lang/tova/internal/scope"
	"github.com/tova-lang/tova/internal/token"
	"github.com/tova-lang/tova/internal/types"
)

// Analyzer walks a parsed Program (after a prepass that registers its type
// declarations), building scopes as it goes (spec
// §3.4) and resolving every reference against them. It never mutates the
// AST; resolved types are kept in exprTypes, keyed by node identity.
type Analyzer struct {
	file, source string
	strict       bool

	registry *types.Registry
	root     *scope.Scope
	current  *scope.Scope

	exprTypes map[ast.Expr]types.Type

	diags []*errors.Diagnostic

	loopDepth int
}

// Option configures an Analyzer at construction time.
type Option func(*Analyzer)

// Strict toggles strict mode (spec §3.3/§4.3): assignability mismatches and
// argument-count mismatches that are warnings by default become errors, and
// Float->Int narrowing, silent by default, starts warning.
func Strict(v bool) Option {
	return func(a *Analyzer) { a.strict = v }
}

// New returns an Analyzer ready to run against a single file's Program.
func New(file, source string, opts ...Option) *Analyzer {
	root := scope.New(scope.Module)
	a := &Analyzer{
		file:      file,
		source:    source,
		registry:  types.NewRegistry(),
		root:      root,
		current:   root,
		exprTypes: make(map[ast.Expr]types.Type),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Registry exposes the type registry built during analysis (codegen's
// model/ORM generation and the exhaustiveness checker both consult it).
func (a *Analyzer) Registry() *types.Registry { return a.registry }

// Diagnostics returns every diagnostic collected so far.
func (a *Analyzer) Diagnostics() []*errors.Diagnostic { return a.diags }

// Analyze runs the full pipeline over prog and returns its diagnostics.
func (a *Analyzer) Analyze(prog *ast.Program) []*errors.Diagnostic {
	a.collectTypeDecls(prog.Statements)
	for _, stmt := range prog.Statements {
		a.analyzeTopLevelStmt(stmt)
	}
	return a.diags
}

func (a *Analyzer) errorf(pos token.Position, format string, args ...any) {
	a.diags = append(a.diags, &errors.Diagnostic{
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
		Source:   a.source,
		File:     a.file,
		Severity: errors.SeverityError,
	})
}

func (a *Analyzer) warnf(pos token.Position, format string, args ...any) {
	a.diags = append(a.diags, &errors.Diagnostic{
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
		Source:   a.source,
		File:     a.file,
		Severity: errors.SeverityWarning,
	})
}

// warnOrErrorf reports a diagnostic that's a warning by default and an
// error under strict mode (spec §4.3: "warn by default, error in strict" —
// argument-count mismatches, assignability mismatches).
func (a *Analyzer) warnOrErrorf(pos token.Position, format string, args ...any) {
	if a.strict {
		a.errorf(pos, format, args...)
		return
	}
	a.warnf(pos, format, args...)
}

// enterScope pushes a new child scope of the given context and returns the
// function that restores `current` to the parent when the caller is done.
func (a *Analyzer) enterScope(ctx scope.Context) func() {
	parent := a.current
	a.current = parent.NewChild(ctx)
	return func() { a.current = parent }
}

// define installs a symbol in the current scope, emitting a re-declaration
// diagnostic on collision rather than silently overwriting (spec §4.3
// "re-declaring a name in the same scope is a hard error").
func (a *Analyzer) define(pos token.Position, name string, kind scope.SymbolKind, t types.Type, mutable bool) {
	if name == "" || name == "_" {
		return
	}
	sym := &scope.Symbol{Name: name, Kind: kind, Type: t, Mutable: mutable, DeclPos: pos}
	if !a.current.Define(sym) {
		a.errorf(pos, "'%s' is already declared in this scope", name)
	}
}

// requireContext reports an error when the current scope isn't nested
// inside one of the allowed contexts (spec §3.2: state/computed/effect/
// component/store are client-only; route/middleware/db/... are
// server-only).
func (a *Analyzer) requireContext(pos token.Position, what string, allowed ...scope.Context) bool {
	for _, c := range allowed {
		if a.current.InContext(c) {
			return true
		}
	}
	a.errorf(pos, "%s is not valid here", what)
	return false
}
