package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/types"
)

// resolveTypeExpr turns surface type syntax into a resolved types.Type,
// consulting the Registry for named declarations and falling back to
// Unknown for forward references the first pass hasn't seen yet (spec
// §3.3: Unknown never fails assignability, so an unresolved reference
// degrades gracefully instead of cascading errors).
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) types.Type {
	if te == nil {
		return nil
	}
	switch t := te.(type) {
	case *ast.NamedType:
		switch t.Name {
		case "Int":
			return types.Int
		case "Float":
			return types.Float
		case "String":
			return types.String
		case "Bool":
			return types.Bool
		case "Any":
			return types.Any
		case "Nil":
			return types.Nil
		}
		if resolved, ok := a.registry.Lookup(t.Name); ok {
			return resolved
		}
		return types.Generic{Base: t.Name}

	case *ast.GenericType:
		args := make([]types.Type, len(t.Args))
		for i, arg := range t.Args {
			args[i] = a.resolveTypeExpr(arg)
		}
		switch t.Base {
		case "Option":
			if len(args) == 1 {
				return types.NewOption(args[0])
			}
		case "Result":
			if len(args) == 2 {
				return types.NewResult(args[0], args[1])
			}
		case "Array":
			if len(args) == 1 {
				return types.Array{Elem: args[0]}
			}
		}
		return types.Generic{Base: t.Base, Args: args}

	case *ast.ArrayTypeExpr:
		return types.Array{Elem: a.resolveTypeExpr(t.Elem)}

	case *ast.FunctionTypeExpr:
		params := make([]types.Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = a.resolveTypeExpr(p)
		}
		return types.Function{Params: params, Ret: a.resolveTypeExpr(t.Ret)}

	case *ast.UnionTypeExpr:
		members := make([]types.Type, len(t.Members))
		for i, m := range t.Members {
			members[i] = a.resolveTypeExpr(m)
		}
		return types.Union{Members: members}
	}
	return types.Unknown
}
