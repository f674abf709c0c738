package analyzer

import (
	"github.com/tova-lang/tova/internal/ast"
	"github.com/tova-lang/tova/internal/scope"
	"github.com/tova-lang/tova/internal/token"
	"github.com/tova-lang/tova/internal/types"
)

// collectTypeDecls is a first pass that registers every `type` declaration
// (product and sum) in the Registry before any body is analyzed, so mutually
// referencing types and forward references within a file resolve (spec §3.5).
func (a *Analyzer) collectTypeDecls(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.TypeDecl:
			a.registerTypeDecl(s)
		case *ast.ServerBlock:
			a.collectTypeDecls(s.Body)
		case *ast.ClientBlock:
			a.collectTypeDecls(s.Body)
		case *ast.SharedBlock:
			a.collectTypeDecls(s.Body)
		}
	}
}

func (a *Analyzer) registerTypeDecl(s *ast.TypeDecl) {
	if len(s.Variants) > 0 {
		variants := make(map[string]map[string]types.Type, len(s.Variants))
		for _, v := range s.Variants {
			fields := make(map[string]types.Type, len(v.Fields))
			for _, f := range v.Fields {
				fields[f.Name] = a.resolveTypeExpr(f.Type)
			}
			variants[v.Name] = fields
		}
		a.registry.DefineType(s.Name, types.ADT{Name: s.Name, TypeParams: s.TypeParams, Variants: variants})
		return
	}
	fields := make(map[string]types.Type, len(s.Fields))
	for _, f := range s.Fields {
		fields[f.Name] = a.resolveTypeExpr(f.Type)
	}
	a.registry.DefineType(s.Name, types.Record{Name: s.Name, Fields: fields})
}

// analyzeTopLevelStmt dispatches the named multi-blocks (spec §4.2) plus
// everything a bare top-level statement can be.
func (a *Analyzer) analyzeTopLevelStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ServerBlock:
		exit := a.enterScope(scope.Server)
		defer exit()
		for _, b := range s.Body {
			a.analyzeTopLevelStmt(b)
		}
	case *ast.ClientBlock:
		exit := a.enterScope(scope.Client)
		defer exit()
		for _, b := range s.Body {
			a.analyzeTopLevelStmt(b)
		}
	case *ast.SharedBlock:
		exit := a.enterScope(scope.Shared)
		defer exit()
		for _, b := range s.Body {
			a.analyzeTopLevelStmt(b)
		}
	case *ast.DataBlock:
		a.analyzeDataBlock(s)
	case *ast.DeployBlock:
		exit := a.enterScope(scope.Module)
		defer exit()
		for _, p := range s.Props {
			a.analyzeObjectProp(p)
		}
	case *ast.TestBlock:
		exit := a.enterScope(scope.Function)
		defer exit()
		for _, fn := range s.Funcs {
			a.analyzeFunctionDecl(fn)
		}
	default:
		a.analyzeStmt(stmt)
	}
}

func (a *Analyzer) analyzeDataBlock(s *ast.DataBlock) {
	fields := make(map[string]types.Type, len(s.Fields))
	for _, f := range s.Fields {
		fields[f.Name] = a.resolveTypeExpr(f.Type)
	}
	rowType := types.Record{Name: s.Name, Fields: fields}
	a.registry.DefineType(s.Name, rowType)
	for _, row := range s.Rows {
		a.analyzeExpr(row)
	}
	a.define(s.Pos(), s.Name, scope.SymVariable, types.Array{Elem: rowType}, false)
}

// analyzeStmt handles every statement/declaration kind usable in any block
// body; context-validity (e.g. `state` only inside a component) is
// enforced here since the parser deliberately accepts all of these
// uniformly (spec §4.2).
func (a *Analyzer) analyzeStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		a.analyzeAssignStmt(s)
	case *ast.CompoundAssignStmt:
		a.analyzeExpr(s.Target)
		a.analyzeExpr(s.Value)
	case *ast.LetDestructureStmt:
		valType := a.analyzeExpr(s.Value)
		a.bindPattern(s.Pattern, valType)
	case *ast.FunctionDecl:
		a.analyzeFunctionDecl(s)
	case *ast.TypeDecl:
		// registered in the collectTypeDecls prepass; nothing further to do.
	case *ast.ImplBlock:
		a.analyzeImplBlock(s)
	case *ast.TraitDecl:
		a.analyzeTraitDecl(s)
	case *ast.IfStmt:
		a.analyzeIfStmt(s)
	case *ast.ForStmt:
		a.analyzeForStmt(s)
	case *ast.WhileStmt:
		a.loopDepth++
		a.analyzeExpr(s.Cond)
		a.analyzeBlock(s.Body, scope.Loop)
		a.loopDepth--
	case *ast.ReturnStmt:
		if s.Value != nil {
			a.analyzeExpr(s.Value)
		}
	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			a.errorf(s.Pos(), "break outside of a loop")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.errorf(s.Pos(), "continue outside of a loop")
		}
	case *ast.BlockStmt:
		a.analyzeBlock(s, scope.Block)
	case *ast.ExprStmt:
		a.analyzeExpr(s.X)
	case *ast.ErrorNode:
		// already diagnosed by the parser

	case *ast.StateDecl:
		a.analyzeStateDecl(s)
	case *ast.ComputedDecl:
		a.analyzeComputedDecl(s)
	case *ast.EffectDecl:
		a.analyzeEffectDecl(s)
	case *ast.ComponentDecl:
		a.analyzeComponentDecl(s)
	case *ast.StoreDecl:
		a.analyzeStoreDecl(s)

	case *ast.RouteDecl:
		a.analyzeRouteDecl(s)
	case *ast.MiddlewareDecl:
		a.requireContext(s.Pos(), "middleware", scope.Server)
		exit := a.enterScope(scope.Function)
		for _, p := range s.Params {
			a.define(p.Pos(), p.Name, scope.SymParameter, a.resolveTypeExpr(p.Type), false)
		}
		a.analyzeBlockStmts(s.Body)
		exit()
	case *ast.ModelDecl:
		a.requireContext(s.Pos(), "model", scope.Server)
		for _, p := range s.Options {
			a.analyzeObjectProp(p)
		}
	case *ast.DbDecl:
		a.requireContext(s.Pos(), "db", scope.Server)
		for _, p := range s.Props {
			a.analyzeObjectProp(p)
		}
	case *ast.SseDecl:
		a.analyzeHandlerDecl("sse", s.Pos(), s.Params, s.Body)
	case *ast.WsDecl:
		a.requireContext(s.Pos(), "ws", scope.Server)
		for _, blk := range []*ast.BlockStmt{s.OnOpen, s.OnMessage, s.OnClose} {
			if blk != nil {
				a.analyzeBlock(blk, scope.Function)
			}
		}
	case *ast.AuthDecl:
		a.requireContext(s.Pos(), "auth", scope.Server)
		for _, p := range s.Props {
			a.analyzeObjectProp(p)
		}
	case *ast.SessionDecl:
		a.requireContext(s.Pos(), "session", scope.Server)
		for _, p := range s.Props {
			a.analyzeObjectProp(p)
		}
	case *ast.ScheduleDecl:
		a.requireContext(s.Pos(), "schedule", scope.Server)
		a.analyzeBlock(s.Body, scope.Function)
	case *ast.RateLimitDecl:
		a.requireContext(s.Pos(), "rate_limit", scope.Server)
		for _, p := range s.Props {
			a.analyzeObjectProp(p)
		}
	case *ast.CompressionDecl:
		a.requireContext(s.Pos(), "compression", scope.Server)
		for _, p := range s.Props {
			a.analyzeObjectProp(p)
		}
	case *ast.UploadDecl:
		a.requireContext(s.Pos(), "upload", scope.Server)
		for _, p := range s.Props {
			a.analyzeObjectProp(p)
		}
	case *ast.CorsDecl:
		a.requireContext(s.Pos(), "cors", scope.Server)
		for _, p := range s.Props {
			a.analyzeObjectProp(p)
		}
	case *ast.EnvDecl:
		a.requireContext(s.Pos(), "env", scope.Server)
		t := a.resolveTypeExpr(s.Type)
		if s.Default != nil {
			dt := a.analyzeExpr(s.Default)
			a.checkAssignable(s.Pos(), dt, t, "env default")
		}
		a.define(s.Pos(), s.Name, scope.SymVariable, t, false)
	case *ast.LifecycleDecl:
		a.requireContext(s.Pos(), string(s.Kind), scope.Server)
		a.analyzeBlock(s.Body, scope.Function)
	case *ast.HealthDecl:
		a.requireContext(s.Pos(), "health", scope.Server)
		a.analyzeBlock(s.Body, scope.Function)
	case *ast.StaticDecl:
		a.requireContext(s.Pos(), "static", scope.Server)
	case *ast.BackgroundDecl:
		a.analyzeHandlerDecl("background", s.Pos(), s.Params, s.Body)
	case *ast.FormBlock:
		a.analyzeFormBlock(s)

	default:
		// Unknown statement kinds (e.g. a future AST addition) are silently
		// skipped rather than panicking; the parser is the sole producer of
		// this tree and only emits kinds handled above or ErrorNode.
	}
}

func (a *Analyzer) analyzeHandlerDecl(what string, pos token.Position, params []ast.Param, body *ast.BlockStmt) {
	a.requireContext(pos, what, scope.Server)
	exit := a.enterScope(scope.Function)
	for _, p := range params {
		a.define(p.Pos(), p.Name, scope.SymParameter, a.resolveTypeExpr(p.Type), false)
	}
	a.analyzeBlockStmts(body)
	exit()
}

func (a *Analyzer) analyzeBlock(b *ast.BlockStmt, ctx scope.Context) {
	if b == nil {
		return
	}
	exit := a.enterScope(ctx)
	a.analyzeBlockStmts(b)
	exit()
}

func (a *Analyzer) analyzeBlockStmts(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		a.analyzeStmt(stmt)
	}
}

func (a *Analyzer) analyzeAssignStmt(s *ast.AssignStmt) {
	for i, target := range s.Targets {
		var val ast.Expr
		if i < len(s.Values) {
			val = s.Values[i]
		}
		var valType types.Type
		if val != nil {
			valType = a.analyzeExpr(val)
		}
		if s.Type != nil {
			valType = a.resolveTypeExpr(s.Type)
		}
		ident, ok := target.(*ast.Ident)
		if !ok {
			a.analyzeExpr(target) // reassigning e.g. a member/index expr
			continue
		}
		if s.Mutable {
			// `var` always declares; define reports a same-scope duplicate.
			a.define(s.Pos(), ident.Name, scope.SymVariable, valType, true)
			continue
		}
		if existing, found := a.current.Lookup(ident.Name); found {
			if !existing.Mutable {
				a.errorf(s.Pos(), "cannot reassign immutable '%s'", ident.Name)
			}
			continue
		}
		a.define(s.Pos(), ident.Name, scope.SymVariable, valType, s.Mutable)
	}
}

func (a *Analyzer) analyzeIfStmt(s *ast.IfStmt) {
	a.analyzeExpr(s.Cond)
	a.analyzeBlock(s.Then, scope.Block)
	for i, cond := range s.ElifConds {
		a.analyzeExpr(cond)
		if i < len(s.ElifBlocks) {
			a.analyzeBlock(s.ElifBlocks[i], scope.Block)
		}
	}
	if s.Else != nil {
		a.analyzeBlock(s.Else, scope.Block)
	}
}

func (a *Analyzer) analyzeForStmt(s *ast.ForStmt) {
	iterType := a.analyzeExpr(s.Iter)
	exit := a.enterScope(scope.Loop)
	a.loopDepth++
	elemType := types.Type(types.Unknown)
	if arr, ok := iterType.(types.Array); ok {
		elemType = arr.Elem
	}
	for _, v := range s.Vars {
		a.define(s.Pos(), v, scope.SymVariable, elemType, false)
	}
	a.analyzeBlockStmts(s.Body)
	a.loopDepth--
	exit()
	if s.Else != nil {
		a.analyzeBlock(s.Else, scope.Block)
	}
}

func (a *Analyzer) analyzeFunctionDecl(s *ast.FunctionDecl) {
	paramTypes := make([]types.Type, len(s.Params))
	for i, p := range s.Params {
		paramTypes[i] = a.resolveTypeExpr(p.Type)
	}
	retType := a.resolveTypeExpr(s.RetType)
	a.define(s.Pos(), s.Name, scope.SymFunction, types.Function{Params: paramTypes, Ret: retType}, false)

	exit := a.enterScope(scope.Function)
	for i, p := range s.Params {
		if p.Default != nil {
			a.analyzeExpr(p.Default)
		}
		a.define(p.Pos(), p.Name, scope.SymParameter, paramTypes[i], false)
	}
	a.analyzeBlockStmts(s.Body)
	exit()
}

func (a *Analyzer) analyzeImplBlock(s *ast.ImplBlock) {
	for _, m := range s.Methods {
		a.analyzeFunctionDecl(m)
		paramTypes := make([]types.Type, len(m.Params))
		for i, p := range m.Params {
			paramTypes[i] = a.resolveTypeExpr(p.Type)
		}
		a.registry.AddMethod(s.Type, types.Method{Name: m.Name, Sig: types.Function{Params: paramTypes, Ret: a.resolveTypeExpr(m.RetType)}})
	}
}

func (a *Analyzer) analyzeTraitDecl(s *ast.TraitDecl) {
	for _, m := range s.Methods {
		paramTypes := make([]types.Type, len(m.Params))
		for i, p := range m.Params {
			paramTypes[i] = a.resolveTypeExpr(p.Type)
		}
		a.registry.AddTraitMethod(s.Name, types.Method{Name: m.Name, Sig: types.Function{Params: paramTypes, Ret: a.resolveTypeExpr(m.RetType)}})
		if m.Body != nil {
			a.analyzeFunctionDecl(m)
		}
	}
}

func (a *Analyzer) analyzeObjectProp(p ast.ObjectProp) {
	if p.Spread != nil {
		a.analyzeExpr(p.Spread)
		return
	}
	if p.Value != nil {
		a.analyzeExpr(p.Value)
	}
}
