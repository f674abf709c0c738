// Package ast defines the Tova abstract syntax tree (spec §3.2). Every node
// kind is its own Go type; all of them embed Loc so they carry a source
// location without repeating the plumbing (the teacher repo's ast.Node
// instead repeats TokenLiteral/Pos per type — we collapse that to a single
// embedded struct since Tova's AST has no need for a "token literal" once
// the node is built).
package ast

import "github.com/tova-lang/tova/internal/token"

// Node is the base interface every AST node satisfies.
type Node interface {
	Pos() token.Position
}

// Expr is any node that produces a value.
type Expr interface {
	Node
	exprNode()
}

// Stmt is any node that performs an action.
type Stmt interface {
	Node
	stmtNode()
}

// Loc carries the source span all nodes share; embed it to satisfy Node.
type Loc struct{ P token.Position }

func (l Loc) Pos() token.Position { return l.P }

// Program is the root of a parsed file: a flat sequence of top-level
// statements (assignments, function/type decls, and the named top-level
// blocks: server/client/shared/data/deploy/test).
type Program struct {
	Loc
	Statements []Stmt
}

// Ident is a plain identifier reference.
type Ident struct {
	Loc
	Name string
}

func (*Ident) exprNode() {}

// PipeTarget is the sentinel `__pipe_target__` hole created by `x |> f(_, y)`
// style rewrites (spec GLOSSARY "Pipe target").
type PipeTarget struct{ Loc }

func (*PipeTarget) exprNode() {}

// Param is a function/lambda parameter: name, optional type annotation,
// optional default value.
type Param struct {
	Loc
	Name    string
	Type    TypeExpr // nil if untyped
	Default Expr     // nil if required
	Rest    bool     // `...rest` variadic parameter
}

// Arg is one call argument, positional (Name == "") or named (`name: value`).
type Arg struct {
	Name  string
	Value Expr
}
