package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/scope"
	"github.com/tova-lang/tova/internal/types"
)

// bindPattern defines every name a pattern introduces against valType,
// used by both let-destructuring and match arms (spec §3.2 Patterns).
func (a *Analyzer) bindPattern(p ast.Pattern, valType types.Type) {
	switch pat := p.(type) {
	case *ast.WildcardPattern:
		// binds nothing

	case *ast.BindPattern:
		a.define(pat.Pos(), pat.Name, scope.SymVariable, valType, false)

	case *ast.LiteralPattern:
		a.analyzeExpr(pat.Value)

	case *ast.RangePattern:
		if pat.Start != nil {
			a.analyzeExpr(pat.Start)
		}
		if pat.End != nil {
			a.analyzeExpr(pat.End)
		}

	case *ast.VariantPattern:
		var fieldTypes map[string]types.Type
		if adt, ok := valType.(types.ADT); ok {
			fieldTypes = adt.Variants[pat.Variant]
			if fieldTypes == nil && pat.Variant != "" {
				if _, exists := adt.Variants[pat.Variant]; !exists {
					a.errorf(pat.Pos(), "'%s' is not a variant of %s", pat.Variant, adt.Name)
				}
			}
		}
		for i, f := range pat.Fields {
			var ft types.Type = types.Unknown
			if fieldTypes != nil {
				// variant fields are a name-keyed map with no declaration
				// order, so a positional field pattern always binds as
				// Unknown; only Named patterns get the declared field type.
				_ = i
			}
			a.bindPattern(f, ft)
		}
		for name, f := range pat.Named {
			var ft types.Type = types.Unknown
			if fieldTypes != nil {
				ft = fieldTypes[name]
			}
			a.bindPattern(f, ft)
		}

	case *ast.ArrayPattern:
		elemType := types.Type(types.Unknown)
		if arr, ok := valType.(types.Array); ok {
			elemType = arr.Elem
		}
		for _, el := range pat.Elems {
			a.bindPattern(el, elemType)
		}
		if pat.Rest != "" {
			a.define(pat.Pos(), pat.Rest, scope.SymVariable, types.Array{Elem: elemType}, false)
		}
	}
}

// analyzeMatchExpr analyzes a match expression's subject and arms, binding
// pattern variables per-arm and checking ADT exhaustiveness (spec §4.3).
func (a *Analyzer) analyzeMatchExpr(e *ast.MatchExpr) types.Type {
	subjType := a.analyzeExpr(e.Subject)

	var result types.Type = types.Unknown
	covered := map[string]bool{}
	hasWildcard := false

	for _, arm := range e.Arms {
		exit := a.enterScope(scope.Match)
		a.bindPattern(arm.Pattern, subjType)
		if arm.Guard != nil {
			a.analyzeExpr(arm.Guard)
		}
		var armType types.Type = types.Unknown
		if arm.Block != nil {
			a.analyzeBlockStmts(arm.Block)
		} else if arm.Body != nil {
			armType = a.analyzeExpr(arm.Body)
		}
		exit()
		if result == types.Unknown {
			result = armType
		}

		switch pat := arm.Pattern.(type) {
		case *ast.VariantPattern:
			if arm.Guard == nil {
				covered[pat.Variant] = true
			}
		case *ast.WildcardPattern, *ast.BindPattern:
			if arm.Guard == nil {
				hasWildcard = true
			}
		}
	}

	if adt, ok := subjType.(types.ADT); ok && !hasWildcard {
		// Non-exhaustiveness is always a warning (spec §4.3/§7/§8 scenario
		// 2: "No hard error") — one per missing variant, never bundled.
		for _, name := range adt.VariantNames() {
			if !covered[name] {
				a.warnf(e.Pos(), "Non-exhaustive match: missing '%s'", name)
			}
		}
	}

	return result
}
