// Package pyast defines the syntax-tree abstraction consumed by the
// contract checker: a small Python AST restricted to the node kinds the
// analysis needs (class and function definitions, raises, comparisons,
// calls, returns), plus a tree-sitter backed parser producing it.
//
// Every expression keeps its exact source text, which is the textual
// rendering used when the checker compares annotations and conditions.
package pyast

// Node is implemented by every element of the tree.
type Node interface {
	// Pos returns the 1-based source line of the node.
	Pos() int
}

// Comment is a `#` comment with its source line.
type Comment struct {
	Line int
	Text string
}

// File is one parsed analysis unit.
type File struct {
	Classes   []*ClassDef
	Functions []*FunctionDef // module-level functions
	Comments  []Comment
	// FirstLine is the line of the first top-level statement, 0 when the
	// unit has none. Used for file-wide suppression scoping.
	FirstLine int
}

func (f *File) Pos() int { return 1 }

// ClassDef is a class definition with its declared bases and the methods
// defined directly in its body.
type ClassDef struct {
	Name    string
	Bases   []Expr
	Methods []*FunctionDef
	Line    int
}

func (c *ClassDef) Pos() int { return c.Line }

// Param is a declared parameter. Annotation is the source text of the
// type annotation, empty when absent.
type Param struct {
	Name       string
	Annotation string
}

// FunctionDef is a function or method definition.
type FunctionDef struct {
	Name       string
	Params     []Param
	Returns    string // return annotation text, empty when absent
	Decorators []Expr
	Docstring  string
	Body       []Stmt
	Line       int
	Col        int
}

func (f *FunctionDef) Pos() int { return f.Line }

// ---------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------

// Stmt is a statement in a function body.
type Stmt interface {
	Node
	stmt()
}

// If is a conditional with its test, body and else branch. Elif chains
// are represented as a nested If in Else, mirroring the source shape.
type If struct {
	Test Expr
	Body []Stmt
	Else []Stmt
	Line int
}

// Return is a return statement. Value is nil for a bare `return`.
type Return struct {
	Value Expr
	Line  int
}

// Raise is a raise statement. Exc is nil for a bare re-raise.
type Raise struct {
	Exc  Expr
	Line int
}

// ExprStmt is a statement consisting of a single expression, including
// assignments (represented as a Raw expression over their operands).
type ExprStmt struct {
	X    Expr
	Line int
}

// Pass is the no-op placeholder statement.
type Pass struct {
	Line int
}

// Nested is any other compound statement (for, while, try, with, nested
// definitions, ...). It keeps the header expressions and nested bodies
// traversable so every reachable raise and return is visible.
type Nested struct {
	Keyword string // tree-sitter node type, e.g. "for_statement"
	Exprs   []Expr
	Body    []Stmt
	Line    int
}

func (s *If) Pos() int       { return s.Line }
func (s *Return) Pos() int   { return s.Line }
func (s *Raise) Pos() int    { return s.Line }
func (s *ExprStmt) Pos() int { return s.Line }
func (s *Pass) Pos() int     { return s.Line }
func (s *Nested) Pos() int   { return s.Line }

func (*If) stmt()       {}
func (*Return) stmt()   {}
func (*Raise) stmt()    {}
func (*ExprStmt) stmt() {}
func (*Pass) stmt()     {}
func (*Nested) stmt()   {}

// ---------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------

// Expr is an expression. Text returns the exact source text.
type Expr interface {
	Node
	Text() string
	expr()
}

// Name is a plain identifier.
type Name struct {
	ID   string
	Line int
}

func (e *Name) Text() string { return e.ID }

// Attribute is an attribute access such as `abc.ABC`.
type Attribute struct {
	Value Expr
	Attr  string
	Src   string
	Line  int
}

func (e *Attribute) Text() string { return e.Src }

// Call is a call expression.
type Call struct {
	Func Expr
	Args []Expr
	Src  string
	Line int
}

func (e *Call) Text() string { return e.Src }

// Compare is a comparison with exactly one comparator, e.g. `x < 10`.
// Chained comparisons are represented as Raw.
type Compare struct {
	Left  Expr
	Op    string
	Right Expr
	Src   string
	Line  int
}

func (e *Compare) Text() string { return e.Src }

// Number is an integer or float literal.
type Number struct {
	Value float64
	Src   string
	Line  int
}

func (e *Number) Text() string { return e.Src }

// Str is a string literal with quotes and prefixes stripped from Value.
type Str struct {
	Value string
	Src   string
	Line  int
}

func (e *Str) Text() string { return e.Src }

// Subscript is a subscription such as `errors[0]`.
type Subscript struct {
	Value Expr
	Index Expr
	Src   string
	Line  int
}

func (e *Subscript) Text() string { return e.Src }

// BoolOp is an `and`/`or` expression.
type BoolOp struct {
	Op     string
	Values []Expr
	Src    string
	Line   int
}

func (e *BoolOp) Text() string { return e.Src }

// Unary is a `not`, `-`, `+` or `~` expression.
type Unary struct {
	Op      string
	Operand Expr
	Src     string
	Line    int
}

func (e *Unary) Text() string { return e.Src }

// IfExp is a conditional expression `a if cond else b`.
type IfExp struct {
	Body Expr
	Test Expr
	Else Expr
	Src  string
	Line int
}

func (e *IfExp) Text() string { return e.Src }

// Raw is any expression kind the checker has no structured view of.
// Its children remain traversable.
type Raw struct {
	Children []Expr
	Src      string
	Line     int
}

func (e *Raw) Text() string { return e.Src }

func (e *Name) Pos() int      { return e.Line }
func (e *Attribute) Pos() int { return e.Line }
func (e *Call) Pos() int      { return e.Line }
func (e *Compare) Pos() int   { return e.Line }
func (e *Number) Pos() int    { return e.Line }
func (e *Str) Pos() int       { return e.Line }
func (e *Subscript) Pos() int { return e.Line }
func (e *BoolOp) Pos() int    { return e.Line }
func (e *Unary) Pos() int     { return e.Line }
func (e *IfExp) Pos() int     { return e.Line }
func (e *Raw) Pos() int       { return e.Line }

func (*Name) expr()      {}
func (*Attribute) expr() {}
func (*Call) expr()      {}
func (*Compare) expr()   {}
func (*Number) expr()    {}
func (*Str) expr()       {}
func (*Subscript) expr() {}
func (*BoolOp) expr()    {}
func (*Unary) expr()     {}
func (*IfExp) expr()     {}
func (*Raw) expr()       {}
