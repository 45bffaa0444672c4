package lints

import (
	"fmt"

	"github.com/liskovlint/liskov/internal/pyast"
	tt "github.com/liskovlint/liskov/internal/types"
)

// DetectHighCyclomaticComplexity reports functions and methods whose
// cyclomatic complexity exceeds the threshold. The count is 1 plus the
// decision points of the body: branch tests (elif chains count one per
// branch), loops, except clauses, boolean operators and conditional
// expressions.
func DetectHighCyclomaticComplexity(filename string, file *pyast.File, threshold int, severity tt.Severity) ([]tt.Issue, error) {
	var issues []tt.Issue

	report := func(owner string, fn *pyast.FunctionDef) {
		complexity := functionComplexity(fn)
		if complexity <= threshold {
			return
		}
		name := fn.Name
		if owner != "" {
			name = owner + "." + name
		}
		pos := tt.Position{Line: fn.Line, Column: fn.Col}
		issues = append(issues, tt.Issue{
			Rule:       "high-cyclomatic-complexity",
			Category:   "complexity",
			Filename:   filename,
			Class:      owner,
			Method:     fn.Name,
			Message:    fmt.Sprintf("function %s has a cyclomatic complexity of %d (threshold %d)", name, complexity, threshold),
			Suggestion: "Consider splitting this function into smaller functions or simplifying its branching.",
			Severity:   severity,
			Start:      pos,
			End:        pos,
		})
	}

	for _, fn := range file.Functions {
		report("", fn)
	}
	for _, cls := range file.Classes {
		for _, m := range cls.Methods {
			report(cls.Name, m)
		}
	}
	return issues, nil
}

func functionComplexity(fn *pyast.FunctionDef) int {
	complexity := 1
	pyast.InspectBody(fn, func(n pyast.Node) bool {
		switch x := n.(type) {
		case *pyast.If:
			complexity++
		case *pyast.BoolOp:
			complexity++
		case *pyast.IfExp:
			complexity++
		case *pyast.Nested:
			switch x.Keyword {
			case "for_statement", "while_statement", "except_clause":
				complexity++
			}
		}
		return true
	})
	return complexity
}
