package internal

import (
	"github.com/liskovlint/liskov/internal/lints"
	"github.com/liskovlint/liskov/internal/pyast"
	tt "github.com/liskovlint/liskov/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given parsed unit and returns a
	// slice of Issues.
	Check(filename string, file *pyast.File) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

// thresholdSetter is implemented by rules with a numeric threshold that
// the configuration file can override.
type thresholdSetter interface {
	SetThreshold(int)
}

type baseRule struct {
	severity tt.Severity
}

func (r *baseRule) Severity() tt.Severity            { return r.severity }
func (r *baseRule) SetSeverity(severity tt.Severity) { r.severity = severity }

// SubstitutabilityRule runs the contract-compatibility analysis: every
// overriding method is compared against the matching method of each
// resolvable direct base.
type SubstitutabilityRule struct {
	baseRule
}

func NewSubstitutabilityRule() LintRule {
	return &SubstitutabilityRule{baseRule{severity: tt.SeverityError}}
}

func (r *SubstitutabilityRule) Check(filename string, file *pyast.File) ([]tt.Issue, error) {
	return lints.DetectContractViolations(filename, file, r.severity)
}

func (r *SubstitutabilityRule) Name() string {
	return "substitutability"
}

// -----------------------------------------------------------------------------

type CyclomaticComplexityRule struct {
	baseRule
	Threshold int
}

// NewCyclomaticComplexityRule is off by default in lint runs; the cyclo
// command and the configuration file enable it.
func NewCyclomaticComplexityRule() LintRule {
	return &CyclomaticComplexityRule{baseRule{severity: tt.SeverityOff}, 10}
}

func (r *CyclomaticComplexityRule) Check(filename string, file *pyast.File) ([]tt.Issue, error) {
	return lints.DetectHighCyclomaticComplexity(filename, file, r.Threshold, r.severity)
}

func (r *CyclomaticComplexityRule) Name() string {
	return "high-cyclomatic-complexity"
}

func (r *CyclomaticComplexityRule) SetThreshold(threshold int) {
	r.Threshold = threshold
}
