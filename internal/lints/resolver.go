package lints

import (
	"fmt"

	"github.com/liskovlint/liskov/internal/pyast"
)

// ClassSymbol records a class defined in the analysis unit: its declared
// base names as written and the methods defined directly in its body.
// The table is immutable once the unit is fully scanned.
type ClassSymbol struct {
	Name      string
	BaseNames []string
	Methods   map[string]*pyast.FunctionDef
	Def       *pyast.ClassDef
}

// StructuralError reports a unit whose tree cannot be interpreted. The
// unit yields no violations; other units are unaffected.
type StructuralError struct {
	Reason string
	Line   int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

// buildClassTable scans all class definitions in the unit once. Base
// names referencing classes outside the unit stay in BaseNames but
// resolve to nothing during lookup.
func buildClassTable(file *pyast.File) (map[string]*ClassSymbol, error) {
	table := make(map[string]*ClassSymbol, len(file.Classes))
	for _, cls := range file.Classes {
		if cls.Name == "" {
			return nil, &StructuralError{Reason: "class definition has no name", Line: cls.Line}
		}
		sym := &ClassSymbol{
			Name:    cls.Name,
			Methods: make(map[string]*pyast.FunctionDef, len(cls.Methods)),
			Def:     cls,
		}
		for _, base := range cls.Bases {
			sym.BaseNames = append(sym.BaseNames, baseName(base))
		}
		for _, m := range cls.Methods {
			if m.Name == "" {
				return nil, &StructuralError{Reason: "method definition has no name", Line: m.Line}
			}
			// later definition wins, matching runtime semantics
			sym.Methods[m.Name] = m
		}
		table[cls.Name] = sym
	}
	return table, nil
}

// baseName renders a declared base to the plain name used for lookup:
// `Parent` and `module.Parent` both resolve as "Parent".
func baseName(e pyast.Expr) string {
	switch x := e.(type) {
	case *pyast.Name:
		return x.ID
	case *pyast.Attribute:
		return x.Attr
	default:
		return e.Text()
	}
}
