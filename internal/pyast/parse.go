package pyast

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Parse builds a File from Python source text. A source that does not
// parse cleanly is rejected; the caller skips analysis for that unit.
func Parse(source []byte) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}
	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("syntax error in source")
	}

	b := &builder{source: source}
	return b.file(root), nil
}

type builder struct {
	source   []byte
	comments []Comment
}

func (b *builder) file(root *sitter.Node) *File {
	f := &File{}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		switch n.Type() {
		case "comment":
			continue
		case "class_definition":
			f.Classes = append(f.Classes, b.classDef(n, nil))
		case "function_definition":
			f.Functions = append(f.Functions, b.funcDef(n, nil))
		case "decorated_definition":
			decorators, def := b.decorated(n)
			if def == nil {
				break
			}
			switch def.Type() {
			case "class_definition":
				f.Classes = append(f.Classes, b.classDef(def, decorators))
			case "function_definition":
				f.Functions = append(f.Functions, b.funcDef(def, decorators))
			}
		}
		if f.FirstLine == 0 {
			f.FirstLine = line(n)
		}
	}
	b.collectComments(root)
	f.Comments = b.comments
	return f
}

func (b *builder) collectComments(n *sitter.Node) {
	if n.Type() == "comment" {
		b.comments = append(b.comments, Comment{Line: line(n), Text: n.Content(b.source)})
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.collectComments(n.NamedChild(i))
	}
}

// decorated splits a decorated_definition into its decorator expressions
// and the decorated definition node.
func (b *builder) decorated(n *sitter.Node) ([]Expr, *sitter.Node) {
	var decorators []Expr
	var def *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "decorator":
			if c.NamedChildCount() > 0 {
				decorators = append(decorators, b.expr(c.NamedChild(0)))
			}
		case "class_definition", "function_definition":
			def = c
		}
	}
	return decorators, def
}

func (b *builder) classDef(n *sitter.Node, _ []Expr) *ClassDef {
	cls := &ClassDef{Line: line(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		cls.Name = name.Content(b.source)
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			c := supers.NamedChild(i)
			if c.Type() == "comment" {
				continue
			}
			cls.Bases = append(cls.Bases, b.expr(c))
		}
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		c := body.NamedChild(i)
		switch c.Type() {
		case "function_definition":
			cls.Methods = append(cls.Methods, b.funcDef(c, nil))
		case "decorated_definition":
			decorators, def := b.decorated(c)
			if def != nil && def.Type() == "function_definition" {
				cls.Methods = append(cls.Methods, b.funcDef(def, decorators))
			}
		}
	}
	return cls
}

func (b *builder) funcDef(n *sitter.Node, decorators []Expr) *FunctionDef {
	fn := &FunctionDef{Line: line(n), Col: int(n.StartPoint().Column) + 1, Decorators: decorators}
	if name := n.ChildByFieldName("name"); name != nil {
		fn.Name = name.Content(b.source)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		fn.Params = b.params(params)
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		fn.Returns = ret.Content(b.source)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		fn.Body = b.block(body)
		fn.Docstring = docstring(fn.Body)
	}
	return fn
}

func (b *builder) params(n *sitter.Node) []Param {
	var out []Param
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "identifier":
			out = append(out, Param{Name: c.Content(b.source)})
		case "typed_parameter":
			p := Param{}
			if c.NamedChildCount() > 0 {
				p.Name = c.NamedChild(0).Content(b.source)
			}
			if typ := c.ChildByFieldName("type"); typ != nil {
				p.Annotation = typ.Content(b.source)
			}
			out = append(out, p)
		case "default_parameter", "typed_default_parameter":
			p := Param{}
			if name := c.ChildByFieldName("name"); name != nil {
				p.Name = name.Content(b.source)
			}
			if typ := c.ChildByFieldName("type"); typ != nil {
				p.Annotation = typ.Content(b.source)
			}
			out = append(out, p)
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, Param{Name: c.Content(b.source)})
		}
	}
	return out
}

func (b *builder) block(n *sitter.Node) []Stmt {
	var out []Stmt
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		out = append(out, b.stmt(c)...)
	}
	return out
}

func (b *builder) stmt(n *sitter.Node) []Stmt {
	switch n.Type() {
	case "expression_statement":
		var out []Stmt
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "comment" {
				continue
			}
			out = append(out, &ExprStmt{X: b.expr(c), Line: line(c)})
		}
		return out
	case "if_statement":
		return []Stmt{b.ifStmt(n)}
	case "return_statement":
		ret := &Return{Line: line(n)}
		if n.NamedChildCount() > 0 {
			ret.Value = b.expr(n.NamedChild(0))
		}
		return []Stmt{ret}
	case "raise_statement":
		r := &Raise{Line: line(n)}
		if n.NamedChildCount() > 0 {
			r.Exc = b.expr(n.NamedChild(0))
		}
		return []Stmt{r}
	case "pass_statement":
		return []Stmt{&Pass{Line: line(n)}}
	case "decorated_definition":
		_, def := b.decorated(n)
		if def == nil {
			return nil
		}
		return b.stmt(def)
	default:
		return []Stmt{b.compound(n)}
	}
}

func (b *builder) ifStmt(n *sitter.Node) *If {
	out := &If{Line: line(n)}
	if cond := n.ChildByFieldName("condition"); cond != nil {
		out.Test = b.expr(cond)
	}
	if cons := n.ChildByFieldName("consequence"); cons != nil {
		out.Body = b.block(cons)
	}

	// elif chains become a nested If in the else branch, so traversal
	// sees every branch test.
	var elifs []*sitter.Node
	var elseClause *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "elif_clause":
			elifs = append(elifs, c)
		case "else_clause":
			elseClause = c
		}
	}

	var tail []Stmt
	if elseClause != nil {
		if body := elseClause.ChildByFieldName("body"); body != nil {
			tail = b.block(body)
		}
	}
	for i := len(elifs) - 1; i >= 0; i-- {
		c := elifs[i]
		elif := &If{Line: line(c), Else: tail}
		if cond := c.ChildByFieldName("condition"); cond != nil {
			elif.Test = b.expr(cond)
		}
		if cons := c.ChildByFieldName("consequence"); cons != nil {
			elif.Body = b.block(cons)
		}
		tail = []Stmt{elif}
	}
	out.Else = tail
	return out
}

// compound converts any remaining statement kind, keeping its nested
// blocks as statements and everything else as traversable expressions.
func (b *builder) compound(n *sitter.Node) *Nested {
	out := &Nested{Keyword: n.Type(), Line: line(n)}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch {
		case c.Type() == "comment":
			continue
		case c.Type() == "block":
			out.Body = append(out.Body, b.block(c)...)
		case strings.HasSuffix(c.Type(), "_clause"):
			out.Body = append(out.Body, b.compound(c))
		case c.Type() == "function_definition" || c.Type() == "class_definition" || c.Type() == "decorated_definition":
			out.Body = append(out.Body, b.stmt(c)...)
		default:
			out.Exprs = append(out.Exprs, b.expr(c))
		}
	}
	return out
}

func (b *builder) expr(n *sitter.Node) Expr {
	src := n.Content(b.source)
	ln := line(n)

	switch n.Type() {
	case "identifier":
		return &Name{ID: src, Line: ln}
	case "attribute":
		e := &Attribute{Src: src, Line: ln}
		if obj := n.ChildByFieldName("object"); obj != nil {
			e.Value = b.expr(obj)
		}
		if attr := n.ChildByFieldName("attribute"); attr != nil {
			e.Attr = attr.Content(b.source)
		}
		return e
	case "call":
		e := &Call{Src: src, Line: ln}
		if fn := n.ChildByFieldName("function"); fn != nil {
			e.Func = b.expr(fn)
		}
		if args := n.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				c := args.NamedChild(i)
				if c.Type() == "comment" {
					continue
				}
				e.Args = append(e.Args, b.expr(c))
			}
		}
		return e
	case "comparison_operator":
		return b.comparison(n, src, ln)
	case "integer", "float":
		if v, ok := parseNumber(src); ok {
			return &Number{Value: v, Src: src, Line: ln}
		}
		return &Raw{Src: src, Line: ln}
	case "string", "concatenated_string":
		return &Str{Value: stripString(src), Src: src, Line: ln}
	case "subscript":
		e := &Subscript{Src: src, Line: ln}
		if v := n.ChildByFieldName("value"); v != nil {
			e.Value = b.expr(v)
		}
		if idx := n.ChildByFieldName("subscript"); idx != nil {
			e.Index = b.expr(idx)
		}
		return e
	case "boolean_operator":
		e := &BoolOp{Src: src, Line: ln}
		if op := n.ChildByFieldName("operator"); op != nil {
			e.Op = op.Content(b.source)
		}
		if left := n.ChildByFieldName("left"); left != nil {
			e.Values = append(e.Values, b.expr(left))
		}
		if right := n.ChildByFieldName("right"); right != nil {
			e.Values = append(e.Values, b.expr(right))
		}
		return e
	case "not_operator":
		e := &Unary{Op: "not", Src: src, Line: ln}
		if arg := n.ChildByFieldName("argument"); arg != nil {
			e.Operand = b.expr(arg)
		}
		return e
	case "unary_operator":
		e := &Unary{Src: src, Line: ln}
		if op := n.ChildByFieldName("operator"); op != nil {
			e.Op = op.Content(b.source)
		}
		if arg := n.ChildByFieldName("argument"); arg != nil {
			e.Operand = b.expr(arg)
		}
		return e
	case "conditional_expression":
		// grammar order: consequence, condition, alternative
		e := &IfExp{Src: src, Line: ln}
		if n.NamedChildCount() >= 3 {
			e.Body = b.expr(n.NamedChild(0))
			e.Test = b.expr(n.NamedChild(1))
			e.Else = b.expr(n.NamedChild(2))
		}
		return e
	case "parenthesized_expression":
		if n.NamedChildCount() == 1 {
			return b.expr(n.NamedChild(0))
		}
	}

	e := &Raw{Src: src, Line: ln}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		e.Children = append(e.Children, b.expr(c))
	}
	return e
}

// comparison builds a Compare for the single-comparator case; chained
// comparisons stay Raw with traversable operands.
func (b *builder) comparison(n *sitter.Node, src string, ln int) Expr {
	var operands []Expr
	var ops []string
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.IsNamed() {
			if c.Type() != "comment" {
				operands = append(operands, b.expr(c))
			}
			continue
		}
		ops = append(ops, c.Content(b.source))
	}
	if len(operands) == 2 && len(ops) == 1 {
		return &Compare{Left: operands[0], Op: ops[0], Right: operands[1], Src: src, Line: ln}
	}
	return &Raw{Children: operands, Src: src, Line: ln}
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func parseNumber(src string) (float64, bool) {
	s := strings.ReplaceAll(src, "_", "")
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	// hex, octal and binary integer literals
	if v, err := strconv.ParseInt(strings.ToLower(s), 0, 64); err == nil {
		return float64(v), true
	}
	return 0, false
}

// stripString removes string prefixes and quotes from a literal.
func stripString(src string) string {
	s := strings.TrimLeft(src, "rRbBfFuU")
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, q) && len(s) >= 2*len(q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// docstring returns the documentation string when the first statement of
// a body is a bare string literal expression.
func docstring(body []Stmt) string {
	if len(body) == 0 {
		return ""
	}
	es, ok := body[0].(*ExprStmt)
	if !ok {
		return ""
	}
	if s, ok := es.X.(*Str); ok {
		return s.Value
	}
	return ""
}
