package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tt "github.com/liskovlint/liskov/internal/types"
)

func rulesOf(issues []tt.Issue) []string {
	var out []string
	for _, issue := range issues {
		out = append(out, issue.Rule)
	}
	return out
}

func TestCompareArity(t *testing.T) {
	t.Parallel()
	child := MethodContract{Owner: "Car", Method: "drive", ParamCount: 2}
	parent := MethodContract{Owner: "Vehicle", Method: "drive", ParamCount: 1}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	assert.Equal(t, []string{RuleArity}, rulesOf(issues))

	parent.IsAbstract = true
	issues = CompareContracts("test.py", child, parent, tt.SeverityError)
	assert.Empty(t, issues)
}

func TestCompareReturnType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		childReturn  string
		parentReturn string
		want         int
	}{
		{"matching", "int", "int", 0},
		{"differs", "str", "int", 1},
		{"child drops annotation", "", "int", 1},
		{"parent has none", "str", "", 0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			child := MethodContract{Owner: "B", Method: "f", ReturnType: tc.childReturn}
			parent := MethodContract{Owner: "A", Method: "f", ReturnType: tc.parentReturn}
			issues := CompareContracts("test.py", child, parent, tt.SeverityError)
			assert.Len(t, issues, tc.want)
		})
	}
}

func TestCompareExceptions(t *testing.T) {
	t.Parallel()
	child := MethodContract{Owner: "B", Method: "f", Raises: []string{"ValueError", "KeyError"}}
	parent := MethodContract{Owner: "A", Method: "f", Raises: []string{"ValueError"}}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleNewException, issues[0].Rule)
	assert.Contains(t, issues[0].Message, "KeyError")
}

func TestCompareNotImplementedError(t *testing.T) {
	t.Parallel()
	child := MethodContract{Owner: "B", Method: "f", Raises: []string{"NotImplementedError"}}

	concrete := MethodContract{Owner: "A", Method: "f"}
	issues := CompareContracts("test.py", child, concrete, tt.SeverityError)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleNewException, issues[0].Rule)
	assert.Contains(t, issues[0].Message, "NotImplementedError")

	abstract := MethodContract{Owner: "A", Method: "f", IsAbstract: true}
	issues = CompareContracts("test.py", child, abstract, tt.SeverityError)
	assert.Empty(t, issues)
}

func TestComparePreconditions(t *testing.T) {
	t.Parallel()
	shared := PreconditionClause{Kind: ClauseBranch, Cond: "x is None"}
	added := PreconditionClause{Kind: ClauseBranch, Cond: "x < 0"}

	child := MethodContract{Owner: "B", Method: "f", Preconditions: []PreconditionClause{shared, added, added}}
	parent := MethodContract{Owner: "A", Method: "f", Preconditions: []PreconditionClause{shared}}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	require.Len(t, issues, 1)
	assert.Equal(t, RulePrecondition, issues[0].Rule)
	assert.Contains(t, issues[0].Message, "x < 0")
}

func TestCompareTypeNarrowing(t *testing.T) {
	t.Parallel()
	childCheck := PreconditionClause{Kind: ClauseTypeCheck, Variable: "x", TypeText: "int"}
	parentCheck := PreconditionClause{Kind: ClauseTypeCheck, Variable: "x", TypeText: "object"}

	child := MethodContract{Owner: "B", Method: "f", Preconditions: []PreconditionClause{childCheck}}
	parent := MethodContract{Owner: "A", Method: "f", Preconditions: []PreconditionClause{parentCheck}}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	var narrowing []tt.Issue
	for _, issue := range issues {
		if issue.Rule == RuleTypeNarrowing {
			narrowing = append(narrowing, issue)
		}
	}
	require.Len(t, narrowing, 1)
	assert.Contains(t, narrowing[0].Message, "refines")
	assert.Equal(t, tt.SeverityWarning, narrowing[0].Severity)
}

func TestCompareTypeNarrowingIntroduced(t *testing.T) {
	t.Parallel()
	childCheck := PreconditionClause{Kind: ClauseTypeCheck, Variable: "x", TypeText: "int"}
	child := MethodContract{Owner: "B", Method: "f", Preconditions: []PreconditionClause{childCheck}}
	parent := MethodContract{Owner: "A", Method: "f"}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	var narrowing []tt.Issue
	for _, issue := range issues {
		if issue.Rule == RuleTypeNarrowing {
			narrowing = append(narrowing, issue)
		}
	}
	require.Len(t, narrowing, 1)
	assert.Contains(t, narrowing[0].Message, "introduces")
}

func TestCompareNumericNarrowing(t *testing.T) {
	t.Parallel()
	bound := func(op string, v float64) PreconditionClause {
		return PreconditionClause{Kind: ClauseNumericBound, Variable: "x", Op: op, Threshold: v}
	}
	tests := []struct {
		name   string
		child  PreconditionClause
		parent PreconditionClause
		want   int
	}{
		{"upper bound narrowed", bound("<", 10), bound("<", 100), 1},
		{"upper bound widened", bound("<", 200), bound("<", 100), 0},
		{"upper bound equal", bound("<", 100), bound("<", 100), 0},
		{"lower bound raised", bound(">", 10), bound(">", 0), 1},
		{"lower bound lowered", bound(">", -5), bound(">", 0), 0},
		{"le narrowed", bound("<=", 5), bound("<=", 9), 1},
		{"ge raised", bound(">=", 1), bound(">=", 0), 1},
		{"lt and le never mix", bound("<", 5), bound("<=", 9), 0},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			child := MethodContract{Owner: "B", Method: "f", Preconditions: []PreconditionClause{tc.child}}
			parent := MethodContract{Owner: "A", Method: "f", Preconditions: []PreconditionClause{tc.parent}}
			issues := CompareContracts("test.py", child, parent, tt.SeverityError)

			var narrowing int
			for _, issue := range issues {
				if issue.Rule == RuleNumericNarrowing {
					narrowing++
				}
			}
			assert.Equal(t, tc.want, narrowing)
		})
	}
}

func TestCompareNumericNarrowingMostRestrictiveWins(t *testing.T) {
	t.Parallel()
	child := MethodContract{Owner: "B", Method: "f", Preconditions: []PreconditionClause{
		{Kind: ClauseNumericBound, Variable: "x", Op: "<", Threshold: 500},
		{Kind: ClauseNumericBound, Variable: "x", Op: "<", Threshold: 50},
	}}
	parent := MethodContract{Owner: "A", Method: "f", Preconditions: []PreconditionClause{
		{Kind: ClauseNumericBound, Variable: "x", Op: "<", Threshold: 100},
	}}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	var narrowing []tt.Issue
	for _, issue := range issues {
		if issue.Rule == RuleNumericNarrowing {
			narrowing = append(narrowing, issue)
		}
	}
	require.Len(t, narrowing, 1)
	assert.Contains(t, narrowing[0].Message, "50 is stricter than parent's 100")
	assert.Equal(t, "parent accepts x < 100, override only x < 50", narrowing[0].Note)
}

func TestCompareNumericConstraintIntroduced(t *testing.T) {
	t.Parallel()
	child := MethodContract{Owner: "B", Method: "f", Preconditions: []PreconditionClause{
		{Kind: ClauseNumericBound, Variable: "x", Op: "<", Threshold: 10},
	}}
	parent := MethodContract{Owner: "A", Method: "f"}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	var narrowing []tt.Issue
	for _, issue := range issues {
		if issue.Rule == RuleNumericNarrowing {
			narrowing = append(narrowing, issue)
		}
	}
	require.Len(t, narrowing, 1)
	assert.Contains(t, narrowing[0].Message, "had none")
}

func TestComparePostcondition(t *testing.T) {
	t.Parallel()
	child := MethodContract{Owner: "B", Method: "f", CanReturnNothing: true}
	parent := MethodContract{Owner: "A", Method: "f"}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	var rules []string
	for _, issue := range issues {
		rules = append(rules, issue.Rule)
	}
	assert.Contains(t, rules, RulePostcondition)

	// the other direction is fine
	issues = CompareContracts("test.py", parent, child, tt.SeverityError)
	for _, issue := range issues {
		assert.NotEqual(t, RulePostcondition, issue.Rule)
	}
}

func TestCompareFamilyOrder(t *testing.T) {
	t.Parallel()
	child := MethodContract{
		Owner: "B", Method: "f", ParamCount: 2, ReturnType: "str",
		Raises:           []string{"KeyError"},
		CanReturnNothing: true,
		Preconditions: []PreconditionClause{
			{Kind: ClauseEarlyRaise, Exception: "KeyError"},
			{Kind: ClauseTypeCheck, Variable: "x", TypeText: "int"},
			{Kind: ClauseNumericBound, Variable: "y", Op: "<", Threshold: 10},
		},
	}
	parent := MethodContract{Owner: "A", Method: "f", ParamCount: 1, ReturnType: "int"}

	issues := CompareContracts("test.py", child, parent, tt.SeverityError)
	want := []string{
		RuleArity,
		RuleReturnType,
		RuleNewException,
		RulePrecondition, RulePrecondition, RulePrecondition,
		RuleTypeNarrowing,
		RuleNumericNarrowing,
		RulePostcondition,
	}
	assert.Equal(t, want, rulesOf(issues))
}

func TestCompareIssueMetadata(t *testing.T) {
	t.Parallel()
	child := MethodContract{Owner: "Penguin", Method: "fly", Line: 12, Col: 5, ParamCount: 2}
	parent := MethodContract{Owner: "Bird", Method: "fly", ParamCount: 1}

	issues := CompareContracts("birds.py", child, parent, tt.SeverityError)
	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, "birds.py", issue.Filename)
	assert.Equal(t, "Penguin", issue.Class)
	assert.Equal(t, "fly", issue.Method)
	assert.Equal(t, CategorySubstitutability, issue.Category)
	assert.Equal(t, tt.SeverityError, issue.Severity)
	assert.Equal(t, tt.Position{Line: 12, Column: 5}, issue.Start)
}
