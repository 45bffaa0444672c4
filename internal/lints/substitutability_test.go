package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liskovlint/liskov/internal/pyast"
	tt "github.com/liskovlint/liskov/internal/types"
)

func detect(t *testing.T, src string) []tt.Issue {
	t.Helper()
	issues, err := DetectContractViolations("test.py", parseSource(t, src), tt.SeverityError)
	require.NoError(t, err)
	return issues
}

func TestDetectNoAncestorNoViolations(t *testing.T) {
	t.Parallel()
	src := `class Standalone:
    def f(self, x):
        if x < 0:
            raise ValueError("negative")
        return x
`
	assert.Empty(t, detect(t, src))
}

func TestDetectCleanOverride(t *testing.T) {
	t.Parallel()
	src := `class Base:
    def process(self, data: str) -> int:
        if data is None:
            raise ValueError("no data")
        return len(data)

class Child(Base):
    def process(self, data: str) -> int:
        if data is None:
            raise ValueError("no data")
        return len(data) * 2
`
	assert.Empty(t, detect(t, src))
}

func TestDetectBirdPenguin(t *testing.T) {
	t.Parallel()
	src := `class Bird:
    def fly(self):
        return "flying"

class Penguin(Bird):
    def fly(self):
        raise NotImplementedError("penguins cannot fly")
`
	issues := detect(t, src)
	require.Len(t, issues, 2)
	assert.Equal(t, RuleNewException, issues[0].Rule)
	assert.Contains(t, issues[0].Message, "NotImplementedError")
	assert.Equal(t, "Penguin", issues[0].Class)
	assert.Equal(t, "fly", issues[0].Method)
	assert.Equal(t, RulePrecondition, issues[1].Rule)
}

func TestDetectPlaceholderUnderAbstractParent(t *testing.T) {
	t.Parallel()
	src := `class Exporter(ABC):
    @abstractmethod
    def export(self, path):
        pass

class CsvExporter(Exporter):
    def export(self, path):
        raise NotImplementedError("todo")
`
	issues := detect(t, src)
	for _, issue := range issues {
		assert.NotEqual(t, RuleNewException, issue.Rule)
	}
}

func TestDetectArityChange(t *testing.T) {
	t.Parallel()
	src := `class Vehicle:
    def drive(self, speed):
        return speed

class Car(Vehicle):
    def drive(self, speed, gear):
        return speed * gear
`
	issues := detect(t, src)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleArity, issues[0].Rule)
	assert.Contains(t, issues[0].Message, "parent has 1, override has 2")
}

func TestDetectArityExemptUnderAbstractParent(t *testing.T) {
	t.Parallel()
	src := `class Vehicle:
    @abstractmethod
    def drive(self, speed):
        pass

class Car(Vehicle):
    def drive(self, speed, gear):
        return speed * gear
`
	assert.Empty(t, detect(t, src))
}

func TestDetectNumericNarrowing(t *testing.T) {
	t.Parallel()
	src := `class Limiter:
    def accept(self, x):
        if x < 100:
            return True
        return False

class StrictLimiter(Limiter):
    def accept(self, x):
        if x < 10:
            return True
        return False
`
	issues := detect(t, src)

	var narrowing []tt.Issue
	for _, issue := range issues {
		if issue.Rule == RuleNumericNarrowing {
			narrowing = append(narrowing, issue)
		}
	}
	require.Len(t, narrowing, 1)
	assert.Contains(t, narrowing[0].Message, "10 is stricter than parent's 100")
}

func TestDetectNumericWideningAllowed(t *testing.T) {
	t.Parallel()
	src := `class Limiter:
    def accept(self, x):
        if x < 100:
            return True
        return False

class LooseLimiter(Limiter):
    def accept(self, x):
        if x < 200:
            return True
        return False
`
	for _, issue := range detect(t, src) {
		assert.NotEqual(t, RuleNumericNarrowing, issue.Rule)
	}
}

func TestDetectPostcondition(t *testing.T) {
	t.Parallel()
	src := `class Reader:
    def read(self):
        return self.buffer

class LazyReader(Reader):
    def read(self):
        if self.buffer is None:
            return
        return self.buffer
`
	issues := detect(t, src)

	var rules []string
	for _, issue := range issues {
		rules = append(rules, issue.Rule)
	}
	assert.Contains(t, rules, RulePostcondition)
}

func TestDetectMultipleBases(t *testing.T) {
	t.Parallel()
	src := `class A:
    def f(self, x):
        return x

class B:
    def f(self, x, y):
        return x + y

class C(A, B):
    def f(self, x):
        return x
`
	issues := detect(t, src)
	require.Len(t, issues, 1)
	assert.Equal(t, RuleArity, issues[0].Rule)
	assert.Contains(t, issues[0].Message, `parent "B"`)
}

func TestDetectUnresolvedBaseSkipped(t *testing.T) {
	t.Parallel()
	src := `class Child(ImportedBase):
    def f(self, x, y, z):
        raise RuntimeError("boom")
`
	assert.Empty(t, detect(t, src))
}

func TestDetectDeterministicOrder(t *testing.T) {
	t.Parallel()
	src := `class Base:
    def f(self, x) -> int:
        return x

    def g(self, x):
        return x

class Child(Base):
    def g(self, x, y):
        return x

    def f(self, x) -> str:
        return str(x)
`
	first := detect(t, src)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, detect(t, src))
	}

	// class definition order, then method definition order within the class
	require.Len(t, first, 2)
	assert.Equal(t, "g", first[0].Method)
	assert.Equal(t, RuleArity, first[0].Rule)
	assert.Equal(t, "f", first[1].Method)
	assert.Equal(t, RuleReturnType, first[1].Rule)
}

func TestDetectStructuralError(t *testing.T) {
	t.Parallel()
	checker := NewContractChecker()
	file := parseSource(t, "class C:\n    def f(self):\n        pass\n")
	file.Classes[0].Name = ""

	_, err := checker.Check("test.py", file, tt.SeverityError)
	require.Error(t, err)
	var structural *StructuralError
	assert.ErrorAs(t, err, &structural)
}

func TestDetectCustomClassifier(t *testing.T) {
	t.Parallel()
	src := `class Base:
    def f(self, x):
        return x

class Child(Base):
    def f(self, x, y):
        return x
`
	file := parseSource(t, src)

	// everything abstract: the arity check no longer applies
	checker := &ContractChecker{IsAbstract: func(fn *pyast.FunctionDef) bool { return true }}
	issues, err := checker.Check("test.py", file, tt.SeverityError)
	require.NoError(t, err)
	assert.Empty(t, issues)
}
