package ast

// FormValidator is one validation rule attached to a field: `required`,
// `min(3)`, `pattern(/.../)`, or a custom `fn(value) -> Bool` predicate.
type FormValidator struct {
	Name string
	Args []Expr
}

// FormField is `field name: Type [= default] { validators... }`.
type FormField struct {
	Loc
	Name       string
	Type       TypeExpr
	Default    Expr
	Validators []FormValidator
}

// FormGroup is `group name { field ... }`, a nested object of fields.
type FormGroup struct {
	Loc
	Name   string
	Fields []FormField
	Groups []FormGroup
}

// FormArrayField is `array name { field ... }`, a repeatable row.
type FormArrayField struct {
	Loc
	Name   string
	Fields []FormField
}

// FormStep is one step of a `steps { ... }` wizard.
type FormStep struct {
	Name    string
	Members []string // names of fields/groups/arrays gating this step
}

// FormBlock is `form Name [: T] { field ... group ... array ... steps ... on submit { ... } }`.
type FormBlock struct {
	Loc
	Name        string
	Type        TypeExpr
	Fields      []FormField
	Groups      []FormGroup
	Arrays      []FormArrayField
	Steps       []FormStep
	OnSubmit    *BlockStmt
}

func (*FormBlock) stmtNode() {}
