package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/liskovlint/liskov/internal/nolint"
	"github.com/liskovlint/liskov/internal/pyast"
	tt "github.com/liskovlint/liskov/internal/types"
)

// Engine manages the linting process. It carries no per-unit state, so
// one engine can lint many files concurrently.
type Engine struct {
	ignoredRules map[string]bool
	ignoredPaths []string
	rules        map[string]LintRule
}

// NewEngine creates a new lint engine with the configured rules applied.
func NewEngine(rootDir string, rules map[string]tt.ConfigRule) (*Engine, error) {
	engine := &Engine{}
	engine.applyRules(rules)
	return engine, nil
}

// Define the ruleConstructor type
type ruleConstructor func() LintRule

// Define the ruleMap type
type ruleMap map[string]ruleConstructor

// Create a map to hold the mappings of rule names to their constructors
var allRuleConstructors = ruleMap{
	"substitutability":           NewSubstitutabilityRule,
	"high-cyclomatic-complexity": NewCyclomaticComplexityRule,
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) {
	e.rules = make(map[string]LintRule)
	e.registerDefaultRules()

	for key, rule := range rules {
		r := e.findRule(key)
		if r == nil {
			newRuleCstr := allRuleConstructors[key]
			if newRuleCstr == nil {
				// Unknown rule, continue to the next one
				continue
			}
			r = newRuleCstr()
			e.rules[key] = r
		}
		if rule.Severity == tt.SeverityOff {
			e.IgnoreRule(key)
		}
		r.SetSeverity(rule.Severity)
		if ts, ok := r.(thresholdSetter); ok && rule.Threshold > 0 {
			ts.SetThreshold(rule.Threshold)
		}
	}
}

func (e *Engine) registerDefaultRules() {
	for key, newRuleCstr := range allRuleConstructors {
		newRule := newRuleCstr()
		if newRule.Severity() != tt.SeverityOff {
			e.rules[key] = newRule
		}
	}
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// Run applies all lint rules to the given file and returns a slice of
// Issues. A unit that fails to parse returns an error and no issues;
// callers decide whether that aborts a multi-file run.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if !strings.HasSuffix(filename, ".py") {
		return nil, fmt.Errorf("not a python file: %s", filename)
	}
	if e.isPathIgnored(filename) {
		return nil, nil
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return e.runUnit(filename, source)
}

// RunSource applies all lint rules to the given source.
func (e *Engine) RunSource(source []byte) ([]tt.Issue, error) {
	return e.runUnit("", source)
}

func (e *Engine) runUnit(filename string, source []byte) ([]tt.Issue, error) {
	file, err := pyast.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("error parsing content: %w", err)
	}

	// unit-local: a suppression comment in one file must never leak into
	// another unit linted concurrently on the same engine
	nolintMgr := nolint.ParseComments(file, NewSourceCode(source).Lines)

	var wg sync.WaitGroup
	var mu sync.Mutex

	byRule := make(map[string][]tt.Issue, len(e.rules))
	for _, rule := range e.rules {
		wg.Add(1)
		go func(r LintRule) {
			defer wg.Done()
			if e.ignoredRules[r.Name()] {
				return
			}
			issues, err := r.Check(filename, file)
			if err != nil {
				return
			}

			nolinted := filterNolintIssues(nolintMgr, issues)

			mu.Lock()
			byRule[r.Name()] = append(byRule[r.Name()], nolinted...)
			mu.Unlock()
		}(rule)
	}
	wg.Wait()

	// aggregate in sorted rule order so the report is stable regardless
	// of goroutine scheduling; per-rule discovery order is preserved
	names := make([]string, 0, len(byRule))
	for name := range byRule {
		names = append(names, name)
	}
	sort.Strings(names)

	var allIssues []tt.Issue
	for _, name := range names {
		allIssues = append(allIssues, byRule[name]...)
	}
	return allIssues, nil
}

func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if mgr.IsNolinted(issue.Start.Line, issue.Rule) {
			continue
		}
		filtered = append(filtered, issue)
	}
	return filtered
}

func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

func (e *Engine) IgnorePath(path string) {
	e.ignoredPaths = append(e.ignoredPaths, filepath.Clean(path))
}

func (e *Engine) isPathIgnored(path string) bool {
	clean := filepath.Clean(path)
	for _, ignored := range e.ignoredPaths {
		if clean == ignored || strings.HasPrefix(clean, ignored+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
