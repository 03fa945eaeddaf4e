// Package ast declares the nodes the parser produces.
//
// Nodes form a strict tree: every child is exclusively owned by its parent
// and the tree is not modified after the parser returns it.
package ast

type (
	Node interface {
		Span() (pos, end int)
	}

	// Expr is a Node that can appear inside a block.
	Expr interface {
		Node
		expr()
	}

	// TypeName is either a named type or a tuple of type names.
	TypeName interface {
		Node
		typeName()
	}

	Base struct {
		Pos int
		End int
	}

	File struct {
		Base `tlog:",embed"`

		Funcs []*Func
	}

	Func struct {
		Base `tlog:",embed"`

		Name string
		Args []Arg
		Ret  TypeName // nil if no return type declared
		Body []Expr
	}

	Arg struct {
		Name string
		Type TypeName
	}

	Type struct {
		Base `tlog:",embed"`

		Name string
	}

	TupleType struct {
		Base `tlog:",embed"`

		Items []TypeName
	}

	// Declare introduces a new binding: name := value.
	Declare struct {
		Base `tlog:",embed"`

		Name  string
		Value Expr
	}

	// Assign rebinds an existing name: name = value.
	Assign struct {
		Base `tlog:",embed"`

		Name  string
		Value Expr
	}

	// CondOp is a short-circuit boolean operator, || or &&.
	CondOp struct {
		Base `tlog:",embed"`

		Op    Op
		Left  Expr
		Right Expr
	}

	BinOp struct {
		Base `tlog:",embed"`

		Op    Op
		Left  Expr
		Right Expr
	}

	Not struct {
		Base `tlog:",embed"`

		Value Expr
	}

	Call struct {
		Base `tlog:",embed"`

		Name string
		Args []Expr
	}

	Name struct {
		Base `tlog:",embed"`

		Ident string
	}

	Int struct {
		Base `tlog:",embed"`

		Value int64
	}

	Str struct {
		Base `tlog:",embed"`

		Value string
	}

	Bool struct {
		Base `tlog:",embed"`

		Value bool
	}

	// Block is a nested scope. Its value, when evaluated downstream, is the
	// value of its last expression, or unit if the block is empty or its
	// last expression was semicolon terminated.
	Block struct {
		Base `tlog:",embed"`

		Exprs []Expr
	}

	// IfElse stores both branch bodies. Else is empty when there is no else
	// clause. An else-if chain is a single IfElse in Else.
	IfElse struct {
		Base `tlog:",embed"`

		Cond Expr
		Then []Expr
		Else []Expr
	}

	MakeTuple struct {
		Base `tlog:",embed"`

		Items []Expr
	}

	Op int
)

const (
	NoOp Op = iota

	Or
	And

	Equal
	NotEqual

	Leq
	Less
	Geq
	Greater

	Add
	Sub
	Mul
	Div
	Mod
)

func (b Base) Span() (pos, end int) { return b.Pos, b.End }

func (Declare) expr()   {}
func (Assign) expr()    {}
func (CondOp) expr()    {}
func (BinOp) expr()     {}
func (Not) expr()       {}
func (Call) expr()      {}
func (Name) expr()      {}
func (Int) expr()       {}
func (Str) expr()       {}
func (Bool) expr()      {}
func (Block) expr()     {}
func (IfElse) expr()    {}
func (MakeTuple) expr() {}

func (Type) typeName()      {}
func (TupleType) typeName() {}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}

	return "op?"
}

var opNames = [...]string{
	Or:       "||",
	And:      "&&",
	Equal:    "==",
	NotEqual: "!=",
	Leq:      "<=",
	Less:     "<",
	Geq:      ">=",
	Greater:  ">",
	Add:      "+",
	Sub:      "-",
	Mul:      "*",
	Div:      "/",
	Mod:      "%",
}
