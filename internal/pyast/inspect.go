package pyast

// Inspect traverses the tree rooted at n in depth-first order, calling f
// for each node. If f returns false the children of the node are skipped.
// Nested definitions inside function bodies are traversed, so a raise
// anywhere reachable in a body is visited.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch x := n.(type) {
	case *File:
		for _, c := range x.Classes {
			Inspect(c, f)
		}
		for _, fn := range x.Functions {
			Inspect(fn, f)
		}
	case *ClassDef:
		for _, b := range x.Bases {
			Inspect(b, f)
		}
		for _, m := range x.Methods {
			Inspect(m, f)
		}
	case *FunctionDef:
		for _, d := range x.Decorators {
			Inspect(d, f)
		}
		inspectStmts(x.Body, f)
	case *If:
		Inspect(x.Test, f)
		inspectStmts(x.Body, f)
		inspectStmts(x.Else, f)
	case *Return:
		Inspect(x.Value, f)
	case *Raise:
		Inspect(x.Exc, f)
	case *ExprStmt:
		Inspect(x.X, f)
	case *Nested:
		for _, e := range x.Exprs {
			Inspect(e, f)
		}
		inspectStmts(x.Body, f)
	case *Attribute:
		Inspect(x.Value, f)
	case *Call:
		Inspect(x.Func, f)
		for _, a := range x.Args {
			Inspect(a, f)
		}
	case *Compare:
		Inspect(x.Left, f)
		Inspect(x.Right, f)
	case *Subscript:
		Inspect(x.Value, f)
		Inspect(x.Index, f)
	case *BoolOp:
		for _, v := range x.Values {
			Inspect(v, f)
		}
	case *Unary:
		Inspect(x.Operand, f)
	case *IfExp:
		Inspect(x.Body, f)
		Inspect(x.Test, f)
		Inspect(x.Else, f)
	case *Raw:
		for _, c := range x.Children {
			Inspect(c, f)
		}
	}
}

func inspectStmts(stmts []Stmt, f func(Node) bool) {
	for _, s := range stmts {
		Inspect(s, f)
	}
}

// InspectBody traverses only the body of fn, skipping decorators and the
// signature. This is the traversal used for contract extraction.
func InspectBody(fn *FunctionDef, f func(Node) bool) {
	inspectStmts(fn.Body, f)
}
