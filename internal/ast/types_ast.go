package ast

// TypeExpr is surface type syntax as written by the programmer — the
// parser only records shape here; internal/types resolves it to a real
// types.Type during analysis (spec §3.3 "Generic ... is a surface type
// used before a declaration is resolved").
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a bare name: `Int`, `String`, `MyRecord`.
type NamedType struct {
	Loc
	Name string
}

func (*NamedType) typeExprNode() {}

// GenericType is `Base<Args...>`, e.g. `Result<Int, String>`, `Option<T>`.
type GenericType struct {
	Loc
	Base string
	Args []TypeExpr
}

func (*GenericType) typeExprNode() {}

// ArrayTypeExpr is `Array<Elem>` surface syntax (also accepted as `[Elem]`).
type ArrayTypeExpr struct {
	Loc
	Elem TypeExpr
}

func (*ArrayTypeExpr) typeExprNode() {}

// FunctionTypeExpr is `fn(Params...) -> Ret`.
type FunctionTypeExpr struct {
	Loc
	Params []TypeExpr
	Ret    TypeExpr
}

func (*FunctionTypeExpr) typeExprNode() {}

// UnionTypeExpr is `A | B | C`.
type UnionTypeExpr struct {
	Loc
	Members []TypeExpr
}

func (*UnionTypeExpr) typeExprNode() {}
