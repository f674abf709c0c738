package ast

// AssignStmt declares (or reassigns) a binding. Immutable by default;
// Mutable is set when introduced via `var`. A reassignment of an
// already-declared immutable name is the analyzer's job to reject (spec
// §4.3), not the parser's — the AST can't tell declaration from
// reassignment without the symbol table.
type AssignStmt struct {
	Loc
	Targets []Expr // usually one Ident; >1 for `a, b = 1, 2`
	Values  []Expr
	Mutable bool // `var x = ...`
	Type    TypeExpr
}

func (*AssignStmt) stmtNode() {}

type CompoundOp string

const (
	CompoundAdd CompoundOp = "+="
	CompoundSub CompoundOp = "-="
	CompoundMul CompoundOp = "*="
	CompoundDiv CompoundOp = "/="
)

type CompoundAssignStmt struct {
	Loc
	Target Expr
	Op     CompoundOp
	Value  Expr
}

func (*CompoundAssignStmt) stmtNode() {}

// LetDestructureStmt is `let { x: y = 10 } = o` or `let [a, _, c] = arr`.
type LetDestructureStmt struct {
	Loc
	Pattern Pattern
	Value   Expr
}

func (*LetDestructureStmt) stmtNode() {}

// FunctionDecl is `fn name(params) [: retType] { body }`.
type FunctionDecl struct {
	Loc
	Name       string
	TypeParams []string
	Params     []Param
	RetType    TypeExpr
	Body       *BlockStmt
}

func (*FunctionDecl) stmtNode() {}

// StyleDecl is a `style { ... }` block inside a component: raw CSS text,
// scanned verbatim by the lexer's style-block mode (spec §4.1 "Style
// blocks"). The client emitter scopes it to the enclosing component via an
// FNV-1a hash suffix (spec §4.4 "Client emitter").
type StyleDecl struct {
	Loc
	CSS string
}

func (*StyleDecl) stmtNode() {}

// VariantDecl is one variant of a sum TypeDecl: `Some(value: T)`,
// `Err(message: String)`.
type VariantDecl struct {
	Name   string
	Fields []Param
}

// TypeDecl is `type Name = ...`: a product record (Fields set) or a sum
// ADT (Variants set).
type TypeDecl struct {
	Loc
	Name       string
	TypeParams []string
	Fields     []Param       // product form
	Variants   []VariantDecl // sum form
}

func (*TypeDecl) stmtNode() {}

// ImplBlock is `impl TypeName { fn ... }` (optionally `impl Trait for Type`).
type ImplBlock struct {
	Loc
	Trait   string // empty for a bare `impl Type { ... }`
	Type    string
	Methods []*FunctionDecl
}

func (*ImplBlock) stmtNode() {}

// TraitDecl declares an interface of method signatures.
type TraitDecl struct {
	Loc
	Name    string
	Methods []*FunctionDecl // bodies nil for signature-only methods
}

func (*TraitDecl) stmtNode() {}

type IfStmt struct {
	Loc
	Cond       Expr
	Then       *BlockStmt
	ElifConds  []Expr
	ElifBlocks []*BlockStmt
	Else       *BlockStmt // nil if no else
}

func (*IfStmt) stmtNode() {}

// ForStmt supports `for x in iter { }`, destructured loop vars, and an
// optional `else { }` run when the loop body never executes.
type ForStmt struct {
	Loc
	Vars   []string
	Iter   Expr
	Body   *BlockStmt
	Else   *BlockStmt
}

func (*ForStmt) stmtNode() {}

type WhileStmt struct {
	Loc
	Cond Expr
	Body *BlockStmt
}

func (*WhileStmt) stmtNode() {}

type ReturnStmt struct {
	Loc
	Value Expr // nil for bare `return`
}

func (*ReturnStmt) stmtNode() {}

type BreakStmt struct{ Loc }

func (*BreakStmt) stmtNode() {}

type ContinueStmt struct{ Loc }

func (*ContinueStmt) stmtNode() {}

type BlockStmt struct {
	Loc
	Statements []Stmt
}

func (*BlockStmt) stmtNode() {}

type ExprStmt struct {
	Loc
	X Expr
}

func (*ExprStmt) stmtNode() {}

// ErrorNode is the tolerant-mode parser's recovery placeholder (spec
// §4.2): a statement the parser could not parse, inserted so analysis can
// continue treating it as Unknown.
type ErrorNode struct {
	Loc
	Message string
}

func (*ErrorNode) stmtNode() {}
func (*ErrorNode) exprNode() {}
