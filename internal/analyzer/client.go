package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/scope"
	"github.com/tova-lang/tova/internal/types"
)

// analyzeStateDecl handles `state name = initial` (spec §3.2): valid only
// inside a component or store body.
func (a *Analyzer) analyzeStateDecl(s *ast.StateDecl) {
	a.requireContext(s.Pos(), "state", scope.Component, scope.Store)
	t := a.resolveTypeExpr(s.Type)
	if s.Initial != nil {
		initType := a.analyzeExpr(s.Initial)
		if t == nil {
			t = initType
		} else {
			a.checkAssignable(s.Pos(), initType, t, "state initializer")
		}
	}
	a.define(s.Pos(), s.Name, scope.SymState, t, true)
}

// analyzeComputedDecl handles `computed name = expr`, memoized derived
// state recalculated whenever a signal it reads changes.
func (a *Analyzer) analyzeComputedDecl(s *ast.ComputedDecl) {
	a.requireContext(s.Pos(), "computed", scope.Component, scope.Store)
	t := a.analyzeExpr(s.Expr)
	a.define(s.Pos(), s.Name, scope.SymComputed, t, false)
}

// analyzeEffectDecl handles `effect { ... }` / `effect(deps) { ... }`.
func (a *Analyzer) analyzeEffectDecl(s *ast.EffectDecl) {
	a.requireContext(s.Pos(), "effect", scope.Component)
	for _, d := range s.Deps {
		a.analyzeExpr(d)
	}
	a.analyzeBlock(s.Body, scope.Function)
}

// analyzeComponentDecl handles `component Name(props) { ... }`: props
// become parameters, the body's state/computed/effect/JSX statements run
// in a fresh Component-context scope.
func (a *Analyzer) analyzeComponentDecl(s *ast.ComponentDecl) {
	a.requireContext(s.Pos(), "component", scope.Client)
	propTypes := make([]types.Type, len(s.Props))
	for i, p := range s.Props {
		propTypes[i] = a.resolveTypeExpr(p.Type)
	}
	a.define(s.Pos(), s.Name, scope.SymComponent, types.Function{Params: propTypes, Ret: types.Unknown}, false)

	exit := a.enterScope(scope.Component)
	for i, p := range s.Props {
		if p.Default != nil {
			a.analyzeExpr(p.Default)
		}
		a.define(p.Pos(), p.Name, scope.SymParameter, propTypes[i], false)
	}
	for _, stmt := range s.Body {
		a.analyzeStmt(stmt)
	}
	exit()
}

// analyzeStoreDecl handles `store Name { state/computed/fn ... }`, a
// shared reactive singleton reachable from any component.
func (a *Analyzer) analyzeStoreDecl(s *ast.StoreDecl) {
	a.requireContext(s.Pos(), "store", scope.Client)
	a.define(s.Pos(), s.Name, scope.SymStore, types.Unknown, false)
	exit := a.enterScope(scope.Store)
	for _, stmt := range s.Body {
		a.analyzeStmt(stmt)
	}
	exit()
}

// analyzeRouteDecl handles `route METHOD "/path" (params) { body }`.
func (a *Analyzer) analyzeRouteDecl(s *ast.RouteDecl) {
	a.requireContext(s.Pos(), "route", scope.Server)
	exit := a.enterScope(scope.Function)
	for _, p := range s.Params {
		a.define(p.Pos(), p.Name, scope.SymParameter, a.resolveTypeExpr(p.Type), false)
	}
	a.analyzeBlockStmts(s.Body)
	exit()
}

// analyzeFormBlock handles `form Name [: T] { field/group/array/steps/on submit }`.
func (a *Analyzer) analyzeFormBlock(s *ast.FormBlock) {
	fields := map[string]types.Type{}
	for _, f := range s.Fields {
		a.analyzeFormField(f, fields)
	}
	for _, g := range s.Groups {
		a.analyzeFormGroup(g)
	}
	for _, arr := range s.Arrays {
		for _, f := range arr.Fields {
			a.analyzeFormField(f, nil)
		}
	}
	a.registry.DefineType(s.Name, types.Record{Name: s.Name, Fields: fields})
	if s.OnSubmit != nil {
		a.analyzeBlock(s.OnSubmit, scope.Form)
	}
}

func (a *Analyzer) analyzeFormField(f ast.FormField, fields map[string]types.Type) {
	t := a.resolveTypeExpr(f.Type)
	if fields != nil {
		fields[f.Name] = t
	}
	if f.Default != nil {
		dt := a.analyzeExpr(f.Default)
		a.checkAssignable(f.Pos(), dt, t, "form field default")
	}
	for _, v := range f.Validators {
		for _, arg := range v.Args {
			a.analyzeExpr(arg)
		}
	}
}

func (a *Analyzer) analyzeFormGroup(g ast.FormGroup) {
	for _, f := range g.Fields {
		a.analyzeFormField(f, nil)
	}
	for _, sub := range g.Groups {
		a.analyzeFormGroup(sub)
	}
}
