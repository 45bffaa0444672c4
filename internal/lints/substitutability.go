package lints

import (
	"github.com/liskovlint/liskov/internal/pyast"
	tt "github.com/liskovlint/liskov/internal/types"
)

// ContractChecker runs the substitutability analysis for one unit. The
// abstractness classifier is pluggable; NewContractChecker wires the
// default heuristic.
type ContractChecker struct {
	IsAbstract Classifier
}

func NewContractChecker() *ContractChecker {
	return &ContractChecker{IsAbstract: IsAbstractMethod}
}

// Check analyzes one parsed unit and returns the ordered violation list:
// class definition order, then method definition order, then declared
// base order, then rule-family order. It never mutates the tree and is
// deterministic for a given input.
//
// Comparisons only happen against direct bases resolvable inside the
// unit; an unresolved base is a heuristic gap, not an error.
func (c *ContractChecker) Check(filename string, file *pyast.File, severity tt.Severity) ([]tt.Issue, error) {
	table, err := buildClassTable(file)
	if err != nil {
		return nil, err
	}

	var issues []tt.Issue
	for _, cls := range file.Classes {
		sym := table[cls.Name]
		for _, method := range cls.Methods {
			child := ExtractContract(cls.Name, method)
			child.IsAbstract = c.IsAbstract(method)
			for _, base := range sym.BaseNames {
				parentSym, ok := table[base]
				if !ok {
					continue
				}
				parentFn, ok := parentSym.Methods[method.Name]
				if !ok {
					continue
				}
				parent := ExtractContract(base, parentFn)
				parent.IsAbstract = c.IsAbstract(parentFn)
				issues = append(issues, CompareContracts(filename, child, parent, severity)...)
			}
		}
	}
	return issues, nil
}

// DetectContractViolations is the package entry point used by the
// engine rule, with the default abstractness classifier.
func DetectContractViolations(filename string, file *pyast.File, severity tt.Severity) ([]tt.Issue, error) {
	return NewContractChecker().Check(filename, file, severity)
}
