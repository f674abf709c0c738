package ast

// JSXAttr is one attribute of a JSXElement: a string, an `{expr}`, a
// `class:name={expr}` directive, an `on:event={handler}`, or `bind:value`.
type JSXAttr struct {
	Name     string
	Value    Expr // nil for a bare boolean attribute
	IsClass  bool // `class:active={expr}`
	ClassTag string
	IsEvent  bool // `on:click={...}`
	IsBind   bool // `bind:value` / `bind:group`
}

// JSXChild is any child of a JSXElement/JSXFragment.
type JSXChild interface {
	Node
	jsxChildNode()
}

type JSXText struct {
	Loc
	Text string
}

func (*JSXText) jsxChildNode() {}
func (*JSXText) exprNode()     {}

// JSXExpression is an embedded `{expr}` child.
type JSXExpression struct {
	Loc
	Expr Expr
}

func (*JSXExpression) jsxChildNode() {}
func (*JSXExpression) exprNode()     {}

// JSXElement is `<tag attrs...>children</tag>` or self-closing `<tag/>`.
type JSXElement struct {
	Loc
	Tag        string
	Attrs      []JSXAttr
	Children   []JSXChild
	SelfClosed bool
	Slot       string // named `slot="..."` target, if any
}

func (*JSXElement) jsxChildNode() {}
func (*JSXElement) exprNode()     {}

// JSXFragment is `<>children</>`.
type JSXFragment struct {
	Loc
	Children []JSXChild
}

func (*JSXFragment) jsxChildNode() {}
func (*JSXFragment) exprNode()     {}

// JSXIf is `if cond { children } elif cond2 { children } else { children }`
// used as a JSX child.
type JSXIf struct {
	Loc
	Conds    []Expr
	Branches [][]JSXChild
	Else     []JSXChild // nil if no else
}

func (*JSXIf) jsxChildNode() {}
func (*JSXIf) exprNode()     {}

// JSXFor is `for name[, name2] in expr [key={expr}] { children }`.
type JSXFor struct {
	Loc
	Vars     []string
	Iter     Expr
	Key      Expr // optional
	Children []JSXChild
}

func (*JSXFor) jsxChildNode() {}
func (*JSXFor) exprNode()     {}
