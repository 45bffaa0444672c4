package lints

import (
	"fmt"

	tt "github.com/liskovlint/liskov/internal/types"
)

// Rule names for the seven violation families.
const (
	RuleArity            = "lsp-arity"
	RuleReturnType       = "lsp-return-type"
	RuleNewException     = "lsp-new-exception"
	RulePrecondition     = "lsp-precondition"
	RuleTypeNarrowing    = "lsp-type-narrowing"
	RuleNumericNarrowing = "lsp-numeric-narrowing"
	RulePostcondition    = "lsp-postcondition"
)

// CategorySubstitutability tags every issue produced by the comparator.
const CategorySubstitutability = "substitutability"

// CompareContracts evaluates a child contract against its parent and
// returns violations in family order: arity, return type, exceptions,
// preconditions, type narrowing, numeric narrowing, postcondition.
// The families are independent; none short-circuits another, and the
// same clause may surface under more than one family.
func CompareContracts(filename string, child, parent MethodContract, severity tt.Severity) []tt.Issue {
	c := &comparison{
		filename: filename,
		child:    child,
		parent:   parent,
		severity: severity,
	}
	c.checkArity()
	c.checkReturnType()
	c.checkExceptions()
	c.checkPreconditions()
	c.checkTypeNarrowing()
	c.checkNumericNarrowing()
	c.checkPostcondition()
	return c.issues
}

type comparison struct {
	filename string
	child    MethodContract
	parent   MethodContract
	severity tt.Severity
	issues   []tt.Issue
}

func (c *comparison) report(rule, message string) {
	c.reportWithNote(rule, message, "")
}

func (c *comparison) reportWithNote(rule, message, note string) {
	severity := c.severity
	if rule == RuleTypeNarrowing && severity == tt.SeverityError {
		// the weakest heuristic of the set: refined isinstance checks are
		// often legitimate, so it reports one level lower
		severity = tt.SeverityWarning
	}
	pos := tt.Position{Line: c.child.Line, Column: c.child.Col}
	c.issues = append(c.issues, tt.Issue{
		Rule:     rule,
		Category: CategorySubstitutability,
		Filename: c.filename,
		Class:    c.child.Owner,
		Method:   c.child.Method,
		Message:  message,
		Note:     note,
		Severity: severity,
		Start:    pos,
		End:      pos,
	})
}

// checkArity flags a changed parameter count. Overriding an abstract
// method fixes its signature for the first time, so abstract parents
// are exempt.
func (c *comparison) checkArity() {
	if c.parent.IsAbstract {
		return
	}
	if c.child.ParamCount != c.parent.ParamCount {
		c.report(RuleArity, fmt.Sprintf(
			"method %q changes parameter count compared to parent %q (parent has %d, override has %d)",
			c.child.Method, c.parent.Owner, c.parent.ParamCount, c.child.ParamCount,
		))
	}
}

// checkReturnType flags a child whose rendered return annotation differs
// from a parent annotation that is present, abstract parent or not.
func (c *comparison) checkReturnType() {
	if c.parent.ReturnType == "" {
		return
	}
	if c.parent.ReturnType != c.child.ReturnType {
		childType := c.child.ReturnType
		if childType == "" {
			childType = "(none)"
		}
		c.report(RuleReturnType, fmt.Sprintf(
			"method %q changes declared return type from %q in parent %q to %q",
			c.child.Method, c.parent.ReturnType, c.parent.Owner, childType,
		))
	}
}

// checkExceptions flags exceptions the child can raise that the parent
// never raises. NotImplementedError is special-cased: raising it while
// overriding a concrete method degrades the method to "not implemented";
// under an abstract parent it is the expected placeholder and allowed.
func (c *comparison) checkExceptions() {
	for _, exc := range c.child.Raises {
		if exc == "NotImplementedError" {
			if !c.parent.IsAbstract {
				c.report(RuleNewException, fmt.Sprintf(
					"method %q raises NotImplementedError while overriding concrete method of %q",
					c.child.Method, c.parent.Owner,
				))
			}
			continue
		}
		if !c.parent.RaisesException(exc) {
			c.report(RuleNewException, fmt.Sprintf(
				"method %q introduces exception %q not raised by parent %q",
				c.child.Method, exc, c.parent.Owner,
			))
		}
	}
}

// checkPreconditions reports every clause of the child that the parent
// does not have, by structural clause equality. Numeric clauses also
// feed the narrowing family below; the double report is deliberate, as
// each family answers a different question.
func (c *comparison) checkPreconditions() {
	parentSet := make(map[PreconditionClause]struct{}, len(c.parent.Preconditions))
	for _, clause := range c.parent.Preconditions {
		parentSet[clause] = struct{}{}
	}
	reported := make(map[PreconditionClause]struct{}, len(c.child.Preconditions))
	for _, clause := range c.child.Preconditions {
		if _, ok := parentSet[clause]; ok {
			continue
		}
		if _, ok := reported[clause]; ok {
			continue
		}
		reported[clause] = struct{}{}
		c.report(RulePrecondition, fmt.Sprintf(
			"method %q adds a precondition (%s) not present in parent %q",
			c.child.Method, clause.describe(), c.parent.Owner,
		))
	}
}

// checkTypeNarrowing compares the last-seen type-check per variable.
func (c *comparison) checkTypeNarrowing() {
	childTypes, order := typeConstraints(c.child)
	parentTypes, _ := typeConstraints(c.parent)
	for _, variable := range order {
		childType := childTypes[variable]
		parentType, ok := parentTypes[variable]
		if !ok {
			c.report(RuleTypeNarrowing, fmt.Sprintf(
				"method %q introduces a type restriction `%s: %s` absent in parent %q",
				c.child.Method, variable, childType, c.parent.Owner,
			))
			continue
		}
		if childType != parentType {
			c.report(RuleTypeNarrowing, fmt.Sprintf(
				"method %q refines the type constraint on %q from %q to %q compared to parent %q",
				c.child.Method, variable, parentType, childType, c.parent.Owner,
			))
		}
	}
}

// checkNumericNarrowing compares the most restrictive bound per variable
// and operator class. Upper bounds narrow downward, lower bounds narrow
// upward; widening in either direction is permitted. The <,<= and >,>=
// classes never mix.
func (c *comparison) checkNumericNarrowing() {
	childBounds, order := numericConstraints(c.child)
	parentBounds, _ := numericConstraints(c.parent)
	for _, variable := range order {
		cb := childBounds[variable]
		pb, ok := parentBounds[variable]
		if !ok {
			c.report(RuleNumericNarrowing, fmt.Sprintf(
				"method %q introduces a numeric constraint on %q where parent %q had none",
				c.child.Method, variable, c.parent.Owner,
			))
			continue
		}
		c.compareUpper(variable, "<", cb.lt, pb.lt)
		c.compareUpper(variable, "<=", cb.le, pb.le)
		c.compareLower(variable, ">", cb.gt, pb.gt)
		c.compareLower(variable, ">=", cb.ge, pb.ge)
	}
}

func (c *comparison) compareUpper(variable, op string, child, parent []float64) {
	if len(child) == 0 || len(parent) == 0 {
		return
	}
	childBound := minOf(child)
	parentBound := minOf(parent)
	if childBound < parentBound {
		c.reportWithNote(RuleNumericNarrowing, fmt.Sprintf(
			"method %q narrows the allowed upper bound (%s) for %q: %s is stricter than parent's %s",
			c.child.Method, op, variable, formatThreshold(childBound), formatThreshold(parentBound),
		), fmt.Sprintf("parent accepts %s %s %s, override only %s %s %s",
			variable, op, formatThreshold(parentBound), variable, op, formatThreshold(childBound)))
	}
}

func (c *comparison) compareLower(variable, op string, child, parent []float64) {
	if len(child) == 0 || len(parent) == 0 {
		return
	}
	childBound := maxOf(child)
	parentBound := maxOf(parent)
	if childBound > parentBound {
		c.reportWithNote(RuleNumericNarrowing, fmt.Sprintf(
			"method %q raises the required lower bound (%s) for %q: %s is stricter than parent's %s",
			c.child.Method, op, variable, formatThreshold(childBound), formatThreshold(parentBound),
		), fmt.Sprintf("parent accepts %s %s %s, override only %s %s %s",
			variable, op, formatThreshold(parentBound), variable, op, formatThreshold(childBound)))
	}
}

// checkPostcondition flags a child that can return without a value when
// the parent never does.
func (c *comparison) checkPostcondition() {
	if !c.parent.CanReturnNothing && c.child.CanReturnNothing {
		c.report(RulePostcondition, fmt.Sprintf(
			"method %q may return without a value while parent %q never does",
			c.child.Method, c.parent.Owner,
		))
	}
}

// numericBounds buckets literal thresholds by operator class.
type numericBounds struct {
	lt, le, gt, ge []float64
}

// numericConstraints derives per-variable threshold buckets from the
// contract's numeric-bound clauses, with variables in first-encounter
// order for deterministic reporting.
func numericConstraints(m MethodContract) (map[string]*numericBounds, []string) {
	bounds := make(map[string]*numericBounds)
	var order []string
	for _, clause := range m.Preconditions {
		if clause.Kind != ClauseNumericBound {
			continue
		}
		b, ok := bounds[clause.Variable]
		if !ok {
			b = &numericBounds{}
			bounds[clause.Variable] = b
			order = append(order, clause.Variable)
		}
		switch clause.Op {
		case "<":
			b.lt = append(b.lt, clause.Threshold)
		case "<=":
			b.le = append(b.le, clause.Threshold)
		case ">":
			b.gt = append(b.gt, clause.Threshold)
		case ">=":
			b.ge = append(b.ge, clause.Threshold)
		}
	}
	return bounds, order
}

// typeConstraints derives the last-seen type-check per variable, with
// variables in first-encounter order.
func typeConstraints(m MethodContract) (map[string]string, []string) {
	types := make(map[string]string)
	var order []string
	for _, clause := range m.Preconditions {
		if clause.Kind != ClauseTypeCheck {
			continue
		}
		if _, ok := types[clause.Variable]; !ok {
			order = append(order, clause.Variable)
		}
		types[clause.Variable] = clause.TypeText
	}
	return types, order
}

func minOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
