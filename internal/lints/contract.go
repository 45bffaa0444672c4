package lints

import (
	"fmt"
	"strconv"

	"github.com/liskovlint/liskov/internal/pyast"
)

// ClauseKind tags one atomic guard found in a method body.
type ClauseKind int

const (
	ClauseBranch ClauseKind = iota
	ClauseTypeCheck
	ClauseNumericBound
	ClauseEarlyReturn
	ClauseEarlyRaise
)

func (k ClauseKind) String() string {
	switch k {
	case ClauseBranch:
		return "branch"
	case ClauseTypeCheck:
		return "type check"
	case ClauseNumericBound:
		return "numeric bound"
	case ClauseEarlyReturn:
		return "early return"
	case ClauseEarlyRaise:
		return "raise"
	default:
		return "unknown"
	}
}

// PreconditionClause is one guard extracted from a method body. Two
// clauses are equal iff their kind and all fields match, so clauses can
// be compared and set-differenced directly.
type PreconditionClause struct {
	Kind      ClauseKind
	Cond      string  // Branch: condition text
	Variable  string  // TypeCheck, NumericBound: tested variable text
	TypeText  string  // TypeCheck: type expression text
	Op        string  // NumericBound: one of < <= > >=
	Threshold float64 // NumericBound
	Exception string  // EarlyRaise: resolved exception name
}

func (c PreconditionClause) describe() string {
	switch c.Kind {
	case ClauseBranch:
		return fmt.Sprintf("branch on `%s`", c.Cond)
	case ClauseTypeCheck:
		return fmt.Sprintf("type check `%s: %s`", c.Variable, c.TypeText)
	case ClauseNumericBound:
		return fmt.Sprintf("numeric bound `%s %s %s`", c.Variable, c.Op, formatThreshold(c.Threshold))
	case ClauseEarlyReturn:
		return "early return"
	case ClauseEarlyRaise:
		return fmt.Sprintf("raise of %s", c.Exception)
	default:
		return "unknown clause"
	}
}

func formatThreshold(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// MethodContract is the read-only snapshot of a method used for
// substitutability comparison.
type MethodContract struct {
	Owner  string
	Method string
	Line   int
	Col    int
	// ParamCount excludes the implicit receiver parameter.
	ParamCount int
	// ReturnType is the source text of the return annotation, empty when
	// the method declares none.
	ReturnType string
	IsAbstract bool
	// Raises holds resolved exception names in first-encounter order.
	Raises        []string
	Preconditions []PreconditionClause
	// CanReturnNothing is true when any reachable return statement
	// carries no value.
	CanReturnNothing bool
}

// RaisesException reports whether name is in the raised-exception set.
func (m *MethodContract) RaisesException(name string) bool {
	for _, r := range m.Raises {
		if r == name {
			return true
		}
	}
	return false
}

// ExtractContract walks a method body and materializes its contract.
// The traversal covers the full body, so raises and guards nested in
// loops, try blocks or inner definitions are part of the contract.
func ExtractContract(owner string, fn *pyast.FunctionDef) MethodContract {
	c := MethodContract{
		Owner:      owner,
		Method:     fn.Name,
		Line:       fn.Line,
		Col:        fn.Col,
		ParamCount: len(fn.Params) - 1,
		ReturnType: fn.Returns,
	}

	pyast.InspectBody(fn, func(n pyast.Node) bool {
		switch x := n.(type) {
		case *pyast.If:
			if x.Test != nil {
				c.Preconditions = append(c.Preconditions, PreconditionClause{
					Kind: ClauseBranch,
					Cond: x.Test.Text(),
				})
			}
		case *pyast.Call:
			if name, ok := x.Func.(*pyast.Name); ok && name.ID == "isinstance" && len(x.Args) >= 2 {
				c.Preconditions = append(c.Preconditions, PreconditionClause{
					Kind:     ClauseTypeCheck,
					Variable: x.Args[0].Text(),
					TypeText: x.Args[1].Text(),
				})
			}
		case *pyast.Compare:
			if clause, ok := numericBoundClause(x); ok {
				c.Preconditions = append(c.Preconditions, clause)
			}
		case *pyast.Return:
			if x.Value == nil {
				c.CanReturnNothing = true
				c.Preconditions = append(c.Preconditions, PreconditionClause{Kind: ClauseEarlyReturn})
			}
		case *pyast.Raise:
			if x.Exc == nil {
				// bare re-raise, no exception name to record
				break
			}
			name := resolveExceptionName(x.Exc)
			if name == "" {
				break
			}
			c.Preconditions = append(c.Preconditions, PreconditionClause{
				Kind:      ClauseEarlyRaise,
				Exception: name,
			})
			if !c.RaisesException(name) {
				c.Raises = append(c.Raises, name)
			}
		}
		return true
	})

	return c
}

// numericBoundClause recognizes a comparison between a variable and a
// numeric literal. A literal on the left flips the operator, so
// `0 <= x` records the same bound as `x >= 0`.
func numericBoundClause(cmp *pyast.Compare) (PreconditionClause, bool) {
	if name, ok := cmp.Left.(*pyast.Name); ok {
		if num, ok := cmp.Right.(*pyast.Number); ok {
			if op, ok := boundOp(cmp.Op); ok {
				return PreconditionClause{
					Kind:      ClauseNumericBound,
					Variable:  name.ID,
					Op:        op,
					Threshold: num.Value,
				}, true
			}
		}
	}
	if num, ok := cmp.Left.(*pyast.Number); ok {
		if name, ok := cmp.Right.(*pyast.Name); ok {
			if op, ok := boundOp(flipOp(cmp.Op)); ok {
				return PreconditionClause{
					Kind:      ClauseNumericBound,
					Variable:  name.ID,
					Op:        op,
					Threshold: num.Value,
				}, true
			}
		}
	}
	return PreconditionClause{}, false
}

func boundOp(op string) (string, bool) {
	switch op {
	case "<", "<=", ">", ">=":
		return op, true
	}
	return "", false
}

func flipOp(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	}
	return op
}

// resolveExceptionName unwraps a raised expression to a plain name:
// a direct name, the callee of a call, the suffix of an attribute
// access, or the base of a subscript. Anything else keeps its source
// text, matching the textual comparison the checker performs.
func resolveExceptionName(e pyast.Expr) string {
	switch x := e.(type) {
	case *pyast.Name:
		return x.ID
	case *pyast.Call:
		if x.Func == nil {
			return ""
		}
		return resolveExceptionName(x.Func)
	case *pyast.Attribute:
		return x.Attr
	case *pyast.Subscript:
		if name, ok := x.Value.(*pyast.Name); ok {
			return name.ID
		}
		return e.Text()
	default:
		return e.Text()
	}
}
