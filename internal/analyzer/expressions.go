package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/scope"
	"github.com/tova-lang/tova/internal/token"
	"github.com/tova-lang/tova/internal/types"
)

// analyzeExpr resolves expr's type, recording it in exprTypes, and
// recursively analyzes its subexpressions. Every expression kind the
// parser can produce is handled; unresolvable operands degrade to
// types.Unknown rather than failing the whole pass (spec §3.3 gradual
// typing: Unknown is always assignable).
func (a *Analyzer) analyzeExpr(expr ast.Expr) types.Type {
	if expr == nil {
		return types.Unknown
	}
	t := a.analyzeExprKind(expr)
	a.exprTypes[expr] = t
	return t
}

func (a *Analyzer) analyzeExprKind(expr ast.Expr) types.Type {
	switch e := expr.(type) {
	case *ast.NumberLit:
		if e.IsFloat {
			return types.Float
		}
		return types.Int
	case *ast.StringLit:
		return types.String
	case *ast.BoolLit:
		return types.Bool
	case *ast.NilLit:
		return types.Nil
	case *ast.TemplateLit:
		for _, part := range e.Parts {
			if part.Expr != nil {
				a.analyzeExpr(part.Expr)
			}
		}
		return types.String

	case *ast.Ident:
		if sym, ok := a.current.Lookup(e.Name); ok {
			return sym.Type
		}
		a.errorf(e.Pos(), "undefined name '%s'", e.Name)
		return types.Unknown

	case *ast.PipeTarget:
		return types.Unknown

	case *ast.BinaryExpr:
		lt := a.analyzeExpr(e.Left)
		rt := a.analyzeExpr(e.Right)
		return a.binaryResultType(e.Op, lt, rt)

	case *ast.LogicalExpr:
		a.analyzeExpr(e.Left)
		a.analyzeExpr(e.Right)
		return types.Bool

	case *ast.UnaryExpr:
		t := a.analyzeExpr(e.Operand)
		if e.Op == ast.OpNot || e.Op == ast.OpBang {
			return types.Bool
		}
		return t

	case *ast.ChainedComparison:
		for _, op := range e.Operands {
			a.analyzeExpr(op)
		}
		return types.Bool

	case *ast.MembershipExpr:
		a.analyzeExpr(e.Value)
		a.analyzeExpr(e.Collection)
		return types.Bool

	case *ast.RangeExpr:
		if e.Start != nil {
			a.analyzeExpr(e.Start)
		}
		if e.End != nil {
			a.analyzeExpr(e.End)
		}
		return types.Array{Elem: types.Int}

	case *ast.CallExpr:
		return a.analyzeCallExpr(e)

	case *ast.MemberExpr:
		return a.analyzeMemberExpr(e)

	case *ast.IndexExpr:
		objType := a.analyzeExpr(e.Object)
		a.analyzeExpr(e.Index)
		if arr, ok := objType.(types.Array); ok {
			return arr.Elem
		}
		return types.Unknown

	case *ast.SliceExpr:
		objType := a.analyzeExpr(e.Object)
		for _, part := range []ast.Expr{e.Start, e.End, e.Step} {
			if part != nil {
				a.analyzeExpr(part)
			}
		}
		return objType

	case *ast.ObjectLit:
		fields := map[string]types.Type{}
		for _, p := range e.Props {
			if p.Spread != nil {
				a.analyzeExpr(p.Spread)
				continue
			}
			if p.Value != nil {
				fields[p.Name] = a.analyzeExpr(p.Value)
			} else {
				if sym, ok := a.current.Lookup(p.Name); ok {
					fields[p.Name] = sym.Type
				}
			}
		}
		return types.Record{Name: "", Fields: fields}

	case *ast.ArrayLit:
		var elem types.Type
		for _, el := range e.Elems {
			t := a.analyzeExpr(el.Value)
			if elem == nil {
				elem = t
			}
		}
		if elem == nil {
			elem = types.Unknown
		}
		return types.Array{Elem: elem}

	case *ast.Comprehension:
		iterType := a.analyzeExpr(e.Iter)
		exit := a.enterScope(scope.Block)
		elemType := types.Type(types.Unknown)
		if arr, ok := iterType.(types.Array); ok {
			elemType = arr.Elem
		}
		for _, name := range e.Vars.Names {
			a.define(e.Pos(), name, scope.SymVariable, elemType, false)
		}
		if e.Filter != nil {
			a.analyzeExpr(e.Filter)
		}
		valType := a.analyzeExpr(e.Value)
		if e.Key != nil {
			a.analyzeExpr(e.Key)
		}
		exit()
		return types.Array{Elem: valType}

	case *ast.LambdaExpr:
		exit := a.enterScope(scope.Function)
		paramTypes := make([]types.Type, len(e.Params))
		for i, p := range e.Params {
			paramTypes[i] = a.resolveTypeExpr(p.Type)
			if p.Default != nil {
				a.analyzeExpr(p.Default)
			}
			a.define(p.Pos(), p.Name, scope.SymParameter, paramTypes[i], false)
		}
		var ret types.Type = types.Unknown
		if e.Block != nil {
			a.analyzeBlockStmts(e.Block)
		} else if e.Expr != nil {
			ret = a.analyzeExpr(e.Expr)
		}
		exit()
		return types.Function{Params: paramTypes, Ret: ret}

	case *ast.MatchExpr:
		return a.analyzeMatchExpr(e)

	case *ast.IfExpr:
		a.analyzeExpr(e.Cond)
		var t types.Type = types.Unknown
		if e.Then != nil {
			exit := a.enterScope(scope.Block)
			a.analyzeBlockStmts(e.Then)
			exit()
		}
		for _, cond := range e.ElifConds {
			a.analyzeExpr(cond)
		}
		for _, blk := range e.ElifBlocks {
			a.analyzeBlock(blk, scope.Block)
		}
		if e.Else != nil {
			a.analyzeBlock(e.Else, scope.Block)
		}
		return t

	case *ast.PipeExpr:
		a.analyzeExpr(e.Value)
		return a.analyzeExpr(e.Call)

	case *ast.SpreadExpr:
		return a.analyzeExpr(e.Value)

	case *ast.PropagateExpr:
		t := a.analyzeExpr(e.Value)
		if adt, ok := t.(types.ADT); ok {
			if fields, ok := adt.Variants["Ok"]; ok {
				return fields["value"]
			}
			if fields, ok := adt.Variants["Some"]; ok {
				return fields["value"]
			}
		}
		return t

	// JSX nodes are expressions too (client codegen's concern); the
	// analyzer only needs to walk their subexpressions.
	case *ast.JSXText:
		return types.Unknown
	case *ast.JSXExpression:
		a.analyzeExpr(e.Expr)
		return types.Unknown
	case *ast.JSXElement:
		a.requireContext(e.Pos(), "JSX", scope.Component, scope.Client)
		for _, attr := range e.Attrs {
			if attr.Value != nil {
				a.analyzeExpr(attr.Value)
			}
		}
		for _, c := range e.Children {
			if ce, ok := c.(ast.Expr); ok {
				a.analyzeExpr(ce)
			}
		}
		return types.Unknown
	case *ast.JSXFragment:
		for _, c := range e.Children {
			if ce, ok := c.(ast.Expr); ok {
				a.analyzeExpr(ce)
			}
		}
		return types.Unknown
	case *ast.JSXIf:
		for _, cond := range e.Conds {
			a.analyzeExpr(cond)
		}
		for _, branch := range e.Branches {
			for _, c := range branch {
				if ce, ok := c.(ast.Expr); ok {
					a.analyzeExpr(ce)
				}
			}
		}
		for _, c := range e.Else {
			if ce, ok := c.(ast.Expr); ok {
				a.analyzeExpr(ce)
			}
		}
		return types.Unknown
	case *ast.JSXFor:
		iterType := a.analyzeExpr(e.Iter)
		exit := a.enterScope(scope.Block)
		elemType := types.Type(types.Unknown)
		if arr, ok := iterType.(types.Array); ok {
			elemType = arr.Elem
		}
		for _, v := range e.Vars {
			a.define(e.Pos(), v, scope.SymVariable, elemType, false)
		}
		if e.Key != nil {
			a.analyzeExpr(e.Key)
		}
		for _, c := range e.Children {
			if ce, ok := c.(ast.Expr); ok {
				a.analyzeExpr(ce)
			}
		}
		exit()
		return types.Unknown

	case *ast.ErrorNode:
		return types.Unknown
	}
	return types.Unknown
}

func (a *Analyzer) binaryResultType(op ast.BinaryOp, lt, rt types.Type) types.Type {
	switch op {
	case ast.OpEq, ast.OpNeq, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return types.Bool
	case ast.OpConcat:
		return types.String
	case ast.OpCoalesce:
		if _, isNil := lt.(types.NilType); isNil {
			return rt
		}
		return lt
	}
	if types.Equals(lt, types.Float) || types.Equals(rt, types.Float) {
		return types.Float
	}
	return lt
}

func (a *Analyzer) analyzeCallExpr(e *ast.CallExpr) types.Type {
	calleeType := a.analyzeExpr(e.Callee)
	for _, arg := range e.Args {
		a.analyzeExpr(arg.Value)
	}
	if fn, ok := calleeType.(types.Function); ok {
		a.checkArgCount(e, fn)
		if fn.Ret != nil {
			return fn.Ret
		}
	}
	return types.Unknown
}

// checkArgCount reports argument-count mismatches (spec §4.3: "too few"/
// "too many" warn by default, error in strict) against the callee's
// declared parameter count. A `...spread` argument makes the effective
// count unknowable from the call site alone, so it disables the check.
func (a *Analyzer) checkArgCount(e *ast.CallExpr, fn types.Function) {
	for _, arg := range e.Args {
		if _, ok := arg.Value.(*ast.SpreadExpr); ok {
			return
		}
	}
	want := len(fn.Params)
	got := len(e.Args)
	switch {
	case got < want:
		a.warnOrErrorf(e.Pos(), "too few arguments in call: want %d, got %d", want, got)
	case got > want:
		a.warnOrErrorf(e.Pos(), "too many arguments in call: want %d, got %d", want, got)
	}
}

func (a *Analyzer) analyzeMemberExpr(e *ast.MemberExpr) types.Type {
	objType := a.analyzeExpr(e.Object)
	switch t := objType.(type) {
	case types.Record:
		if ft, ok := t.Fields[e.Name]; ok {
			return ft
		}
	case types.ADT:
		for _, fields := range t.Variants {
			if ft, ok := fields[e.Name]; ok {
				return ft
			}
		}
	}
	for _, m := range a.registry.MethodsOf(nominalName(objType)) {
		if m.Name == e.Name {
			return m.Sig
		}
	}
	return types.Unknown
}

func nominalName(t types.Type) string {
	switch v := t.(type) {
	case types.Record:
		return v.Name
	case types.ADT:
		return v.Name
	case types.Primitive:
		return v.Name
	case types.Generic:
		return v.Base
	}
	return ""
}

// checkAssignable reports an assignability diagnostic for a specific
// construct (spec §3.3/§4.3): an incompatibility warns by default and is an
// error in strict mode; numeric narrowing warns only in strict mode.
func (a *Analyzer) checkAssignable(pos token.Position, from, to types.Type, what string) {
	if from == nil || to == nil {
		return
	}
	ok, narrowed := types.AssignableDetail(from, to)
	if !ok {
		a.warnOrErrorf(pos, "%s: cannot assign %s to %s", what, from.String(), to.String())
		return
	}
	if narrowed && a.strict {
		a.warnf(pos, "%s: potential data loss narrowing %s to %s", what, from.String(), to.String())
	}
}
