package lints

import (
	"strings"

	"github.com/liskovlint/liskov/internal/pyast"
)

// abstractDecorators are the decorator names that mark a method as
// abstract, matched on the simple name or the attribute suffix.
var abstractDecorators = map[string]struct{}{
	"abstractmethod":       {},
	"abstractproperty":     {},
	"abstractclassmethod":  {},
	"abstractstaticmethod": {},
}

// abstractDocPhrases mark a method as abstract when its docstring,
// lower-cased, contains any of them.
var abstractDocPhrases = []string{
	"abstract",
	"must implement",
	"override",
	"implement me",
	"not implemented",
	"subclasses should implement",
	"to be implemented by subclass",
}

// Classifier decides whether a method is abstract. The comparator takes
// it as a plain function so stricter strategies can be substituted.
type Classifier func(fn *pyast.FunctionDef) bool

// IsAbstractMethod is the default classification: decorator markers,
// trivial placeholder bodies, a NotImplementedError raise anywhere in
// the body, or docstring hints. It is a pure function of the tree.
func IsAbstractMethod(fn *pyast.FunctionDef) bool {
	for _, d := range fn.Decorators {
		switch x := d.(type) {
		case *pyast.Name:
			if _, ok := abstractDecorators[x.ID]; ok {
				return true
			}
		case *pyast.Attribute:
			if _, ok := abstractDecorators[x.Attr]; ok {
				return true
			}
		}
	}

	if len(fn.Body) == 1 {
		switch x := fn.Body[0].(type) {
		case *pyast.Pass:
			return true
		case *pyast.ExprStmt:
			// documentation-only body
			if _, ok := x.X.(*pyast.Str); ok {
				return true
			}
		case *pyast.Return:
			if name, ok := x.Value.(*pyast.Name); ok && name.ID == "NotImplemented" {
				return true
			}
		}
	}

	raisesNotImplemented := false
	pyast.InspectBody(fn, func(n pyast.Node) bool {
		if r, ok := n.(*pyast.Raise); ok && r.Exc != nil {
			if resolveExceptionName(r.Exc) == "NotImplementedError" {
				raisesNotImplemented = true
				return false
			}
		}
		return !raisesNotImplemented
	})
	if raisesNotImplemented {
		return true
	}

	if fn.Docstring != "" {
		low := strings.ToLower(fn.Docstring)
		for _, phrase := range abstractDocPhrases {
			if strings.Contains(low, phrase) {
				return true
			}
		}
	}

	return false
}

// IsAbstractClass reports whether a class declares an ABC/ABCMeta base
// or contains at least one abstract method.
func IsAbstractClass(cls *pyast.ClassDef) bool {
	for _, base := range cls.Bases {
		switch x := base.(type) {
		case *pyast.Name:
			if x.ID == "ABC" || x.ID == "ABCMeta" {
				return true
			}
		case *pyast.Attribute:
			if x.Attr == "ABC" || x.Attr == "ABCMeta" {
				return true
			}
		}
	}
	for _, m := range cls.Methods {
		if IsAbstractMethod(m) {
			return true
		}
	}
	return false
}
