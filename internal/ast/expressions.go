package ast

// ---- literals (spec §3.2 Literals) ----

type NumberLit struct {
	Loc
	Value   float64
	IsFloat bool // int vs float distinguished by presence of a fractional part/exponent
}

func (*NumberLit) exprNode() {}

type StringLit struct {
	Loc
	Value string
}

func (*StringLit) exprNode() {}

type BoolLit struct {
	Loc
	Value bool
}

func (*BoolLit) exprNode() {}

type NilLit struct{ Loc }

func (*NilLit) exprNode() {}

// TemplatePart alternates text and expr in a template literal's body.
type TemplatePart struct {
	Text string // set when Expr == nil
	Expr Expr   // set when this part is an embedded `{expr}`
}

type TemplateLit struct {
	Loc
	Parts []TemplatePart
}

func (*TemplateLit) exprNode() {}

// ---- operators ----

type BinaryOp string

const (
	OpAdd      BinaryOp = "+"
	OpSub      BinaryOp = "-"
	OpMul      BinaryOp = "*"
	OpDiv      BinaryOp = "/"
	OpMod      BinaryOp = "%"
	OpPow      BinaryOp = "**"
	OpConcat   BinaryOp = "++"
	OpEq       BinaryOp = "=="
	OpNeq      BinaryOp = "!="
	OpLt       BinaryOp = "<"
	OpLte      BinaryOp = "<="
	OpGt       BinaryOp = ">"
	OpGte      BinaryOp = ">="
	OpCoalesce BinaryOp = "??"
)

type BinaryExpr struct {
	Loc
	Op          BinaryOp
	Left, Right Expr
}

func (*BinaryExpr) exprNode() {}

type LogicalOp string

const (
	OpAnd LogicalOp = "and"
	OpOr  LogicalOp = "or"
)

type LogicalExpr struct {
	Loc
	Op          LogicalOp
	Left, Right Expr
}

func (*LogicalExpr) exprNode() {}

type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "not"
	OpBang UnaryOp = "!"
)

type UnaryExpr struct {
	Loc
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// ChainedComparison models `a < b < c < ...`: 3+ operands with their
// pairwise operators (spec §4.2 expression grammar item 8).
type ChainedComparison struct {
	Loc
	Operands []Expr
	Ops      []BinaryOp // len(Ops) == len(Operands)-1
}

func (*ChainedComparison) exprNode() {}

// MembershipExpr is `x in xs` / `x not in xs`.
type MembershipExpr struct {
	Loc
	Value, Collection Expr
	Negated           bool
}

func (*MembershipExpr) exprNode() {}

// RangeExpr is `a..b` (exclusive) or `a..=b` (inclusive).
type RangeExpr struct {
	Loc
	Start, End Expr
	Inclusive  bool
}

func (*RangeExpr) exprNode() {}

// CallExpr applies Callee to a mix of positional/named Args.
type CallExpr struct {
	Loc
	Callee Expr
	Args   []Arg
}

func (*CallExpr) exprNode() {}

// MemberExpr is `obj.name`; Optional marks `obj?.name`.
type MemberExpr struct {
	Loc
	Object   Expr
	Name     string
	Optional bool
}

func (*MemberExpr) exprNode() {}

// IndexExpr is computed subscript `obj[expr]`.
type IndexExpr struct {
	Loc
	Object, Index Expr
}

func (*IndexExpr) exprNode() {}

// SliceExpr is `obj[start:end:step]`; any of Start/End/Step may be nil.
type SliceExpr struct {
	Loc
	Object            Expr
	Start, End, Step  Expr
}

func (*SliceExpr) exprNode() {}

// ObjectProp is one entry of an ObjectLit: `name`, `name: value`, or
// `...spread`.
type ObjectProp struct {
	Name      string
	Value     Expr // nil for a pure shorthand where Name doubles as the value ident
	Shorthand bool
	Spread    Expr // set instead of Name/Value for `...expr`
}

type ObjectLit struct {
	Loc
	Props []ObjectProp
}

func (*ObjectLit) exprNode() {}

// ArrayElem is one entry of an ArrayLit: a value, or a `...spread`.
type ArrayElem struct {
	Value  Expr
	Spread bool
}

type ArrayLit struct {
	Loc
	Elems []ArrayElem
}

func (*ArrayLit) exprNode() {}

// ComprehensionVars are the loop variable(s): plain or destructured
// (`for k, v in m`).
type ComprehensionVar struct {
	Names []string // len > 1 for destructured loop variables
}

// Comprehension is `[expr for vars in iter if filter]` (list) or
// `{k: v for vars in iter if filter}` (dict, when Key != nil).
type Comprehension struct {
	Loc
	Key    Expr // non-nil for a dict comprehension
	Value  Expr
	Vars   ComprehensionVar
	Iter   Expr
	Filter Expr // optional
}

func (*Comprehension) exprNode() {}

// LambdaExpr covers both `fn(params) body` and `(params) => body` forms;
// Block is set when the body is a `{ ... }` block rather than a single
// expression.
type LambdaExpr struct {
	Loc
	Params []Param
	Expr   Expr
	Block  *BlockStmt
}

func (*LambdaExpr) exprNode() {}

// MatchArm is one arm of a MatchExpr: a Pattern, optional Guard, and Body.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr
	Body    Expr
	Block   *BlockStmt
}

type MatchExpr struct {
	Loc
	Subject Expr
	Arms    []MatchArm
}

func (*MatchExpr) exprNode() {}

// IfExpr is `if cond { then } else { else }` used in expression position.
type IfExpr struct {
	Loc
	Cond       Expr
	Then, Else *BlockStmt
	ElifConds  []Expr
	ElifBlocks []*BlockStmt
}

func (*IfExpr) exprNode() {}

// PipeExpr is `x |> f` / `x |> f(...)`.
type PipeExpr struct {
	Loc
	Value Expr
	Call  Expr // the call or callee being piped into
}

func (*PipeExpr) exprNode() {}

// SpreadExpr is a bare `...expr` used where an expression position allows
// spreading (call arguments, array/object literals use ArrayElem/ObjectProp
// instead; this variant exists for spread in other expression contexts).
type SpreadExpr struct {
	Loc
	Value Expr
}

func (*SpreadExpr) exprNode() {}

// PropagateExpr is the `?` postfix operator (spec GLOSSARY "Propagate").
type PropagateExpr struct {
	Loc
	Value Expr
}

func (*PropagateExpr) exprNode() {}

// ---- patterns (used by match arms and let-destructure) ----

type Pattern interface {
	Node
	patternNode()
}

// WildcardPattern is `_`.
type WildcardPattern struct{ Loc }

func (*WildcardPattern) patternNode() {}

// BindPattern binds the matched value to a name (a catch-all unless Guard
// is present on the enclosing arm).
type BindPattern struct {
	Loc
	Name string
}

func (*BindPattern) patternNode() {}

// LiteralPattern matches an exact literal value.
type LiteralPattern struct {
	Loc
	Value Expr // NumberLit/StringLit/BoolLit/NilLit
}

func (*LiteralPattern) patternNode() {}

// RangePattern matches membership in an inclusive/exclusive range.
type RangePattern struct {
	Loc
	Start, End Expr
	Inclusive  bool
}

func (*RangePattern) patternNode() {}

// VariantPattern matches an ADT variant and destructures its fields:
// `Some(v)`, `Err(e)`, `Point { x, y }`.
type VariantPattern struct {
	Loc
	Variant string
	Fields  []Pattern // positional field patterns
	Named   map[string]Pattern
}

func (*VariantPattern) patternNode() {}

// ArrayPattern matches/destructures an array: `[a, _, c]`.
type ArrayPattern struct {
	Loc
	Elems []Pattern // nil element means wildcard-skip
	Rest  string    // non-empty for `[a, ...rest]`
}

func (*ArrayPattern) patternNode() {}
