package ast

// ---- top-level named blocks (spec §3.2, §4.2 "Named multi-blocks") ----

// ServerBlock is `server ["name"] { ... }`. Unnamed blocks have Name == "".
type ServerBlock struct {
	Loc
	Name  string
	Body  []Stmt
}

func (*ServerBlock) stmtNode() {}

// ClientBlock is `client ["name"] { ... }`.
type ClientBlock struct {
	Loc
	Name string
	Body []Stmt
}

func (*ClientBlock) stmtNode() {}

// SharedBlock is `shared ["name"] { ... }`.
type SharedBlock struct {
	Loc
	Name string
	Body []Stmt
}

func (*SharedBlock) stmtNode() {}

// DataField is one field of a `data` block row/shape declaration.
type DataField struct {
	Name string
	Type TypeExpr
}

// DataBlock declares a static/seed data shape and its rows.
type DataBlock struct {
	Loc
	Name   string
	Fields []DataField
	Rows   []Expr // ObjectLit rows
}

func (*DataBlock) stmtNode() {}

// DeployBlock is `deploy "name" { server: ..., domain: ..., ... }`. Not
// compiled to JS — validated, then emitted as a structured record (§4.4).
type DeployBlock struct {
	Loc
	Name  string
	Props []ObjectProp
}

func (*DeployBlock) stmtNode() {}

// TestBlock is `test "name" { fn test_x() { ... } }`.
type TestBlock struct {
	Loc
	Name  string
	Funcs []*FunctionDecl
}

func (*TestBlock) stmtNode() {}

// ---- component-scoped forms (client-only or server-only; spec §3.2) ----

// StateDecl is `state name = initial` inside a component.
type StateDecl struct {
	Loc
	Name    string
	Type    TypeExpr
	Initial Expr
}

func (*StateDecl) stmtNode() {}

// ComputedDecl is `computed name = expr` (memoized derived state).
type ComputedDecl struct {
	Loc
	Name string
	Expr Expr
}

func (*ComputedDecl) stmtNode() {}

// EffectDecl is `effect { body }` with an implicit dependency list inferred
// from the signals read in body, or `effect(deps) { body }`.
type EffectDecl struct {
	Loc
	Deps []Expr
	Body *BlockStmt
}

func (*EffectDecl) stmtNode() {}

// ComponentDecl is `component Name(props) { state/computed/effect/JSX }`.
type ComponentDecl struct {
	Loc
	Name   string
	Props  []Param
	Body   []Stmt // state/computed/effect/store decls, JSX expr-statements
}

func (*ComponentDecl) stmtNode() {}

// StoreDecl is `store Name { state/computed/fn ... }` — a shared reactive
// singleton.
type StoreDecl struct {
	Loc
	Name string
	Body []Stmt
}

func (*StoreDecl) stmtNode() {}

// RouteDecl is `route METHOD "/path" (params) { body }` or
// `route METHOD "/path" -> fn`.
type RouteDecl struct {
	Loc
	Method string
	Path   string
	Params []Param
	Body   *BlockStmt
}

func (*RouteDecl) stmtNode() {}

// MiddlewareDecl is `middleware name(req, next) { body }`.
type MiddlewareDecl struct {
	Loc
	Name   string
	Params []Param
	Body   *BlockStmt
}

func (*MiddlewareDecl) stmtNode() {}

// ModelDecl is `model Name { ... }` driving ORM/table generation from a
// shared `type Name` declaration.
type ModelDecl struct {
	Loc
	Name    string
	Options []ObjectProp
}

func (*ModelDecl) stmtNode() {}

// DbDecl is `db { postgres { ... } }` / `db { sqlite { ... } }` connection
// configuration.
type DbDecl struct {
	Loc
	Driver string
	Props  []ObjectProp
}

func (*DbDecl) stmtNode() {}

// SseDecl is `sse "/path" (req) { body }`.
type SseDecl struct {
	Loc
	Path   string
	Params []Param
	Body   *BlockStmt
}

func (*SseDecl) stmtNode() {}

// WsDecl is `ws "/path" { on_open { } on_message(ws, data) { } on_close { } }`.
type WsDecl struct {
	Loc
	Path      string
	OnOpen    *BlockStmt
	OnMessage *BlockStmt
	OnClose   *BlockStmt
}

func (*WsDecl) stmtNode() {}

// AuthDecl configures authentication (`jwt`, `api_key`, ...).
type AuthDecl struct {
	Loc
	Strategy string
	Props    []ObjectProp
}

func (*AuthDecl) stmtNode() {}

// SessionDecl configures the session store.
type SessionDecl struct {
	Loc
	Store string // "memory" | "sqlite"
	Props []ObjectProp
}

func (*SessionDecl) stmtNode() {}

// ScheduleDecl is `schedule "cron-or-interval" { body }`.
type ScheduleDecl struct {
	Loc
	Spec string
	Body *BlockStmt
}

func (*ScheduleDecl) stmtNode() {}

// RateLimitDecl configures sliding-window rate limiting.
type RateLimitDecl struct {
	Loc
	Props []ObjectProp
}

func (*RateLimitDecl) stmtNode() {}

// CompressionDecl configures gzip/deflate response compression.
type CompressionDecl struct {
	Loc
	Props []ObjectProp
}

func (*CompressionDecl) stmtNode() {}

// UploadDecl configures file-upload validation.
type UploadDecl struct {
	Loc
	Props []ObjectProp
}

func (*UploadDecl) stmtNode() {}

// CorsDecl configures CORS.
type CorsDecl struct {
	Loc
	Props []ObjectProp
}

func (*CorsDecl) stmtNode() {}

// EnvDecl is a typed environment variable: `env NAME: Int = 3000`.
type EnvDecl struct {
	Loc
	Name    string
	Type    TypeExpr
	Default Expr
}

func (*EnvDecl) stmtNode() {}

// LifecycleKind distinguishes the server lifecycle hooks.
type LifecycleKind string

const (
	OnStart LifecycleKind = "on_start"
	OnStop  LifecycleKind = "on_stop"
	OnError LifecycleKind = "on_error"
)

type LifecycleDecl struct {
	Loc
	Kind LifecycleKind
	Body *BlockStmt
}

func (*LifecycleDecl) stmtNode() {}

// HealthDecl customizes the `/health` endpoint.
type HealthDecl struct {
	Loc
	Body *BlockStmt
}

func (*HealthDecl) stmtNode() {}

// StaticDecl serves a static file directory.
type StaticDecl struct {
	Loc
	Path, Dir string
}

func (*StaticDecl) stmtNode() {}

// BackgroundDecl is `background name(args) { body }`, a queued job.
type BackgroundDecl struct {
	Loc
	Name   string
	Params []Param
	Body   *BlockStmt
}

func (*BackgroundDecl) stmtNode() {}
