// Package nolint handles suppression of lint issues through `# nolint`
// comments in the analyzed source.
package nolint

import (
	"strings"

	"github.com/liskovlint/liskov/internal/pyast"
)

const nolintPrefix = "nolint"

// Manager holds the nolint scopes of one source file.
type Manager struct {
	scopes []scope
}

// scope is a line range where nolint applies. An empty rule set means
// every rule is suppressed.
type scope struct {
	rules map[string]struct{}
	start int
	end   int
}

// ParseComments collects the nolint scopes of a parsed file. An inline
// comment suppresses its own line, a comment on its own line suppresses
// the next line, and a comment before any top-level statement suppresses
// the whole file.
func ParseComments(file *pyast.File, lines []string) *Manager {
	m := &Manager{}
	for _, comment := range file.Comments {
		rules, ok := parseComment(comment.Text)
		if !ok {
			continue
		}
		s := scope{rules: rules}
		switch {
		case isInline(comment, lines):
			s.start, s.end = comment.Line, comment.Line
		case file.FirstLine == 0 || comment.Line < file.FirstLine:
			s.start, s.end = 1, len(lines)
		default:
			s.start, s.end = comment.Line+1, comment.Line+1
		}
		m.scopes = append(m.scopes, s)
	}
	return m
}

// parseComment extracts the suppressed rule names. Accepted forms are
// `# nolint` (all rules) and `# nolint:rule1,rule2`.
func parseComment(text string) (map[string]struct{}, bool) {
	body := strings.TrimSpace(strings.TrimPrefix(text, "#"))
	if !strings.HasPrefix(body, nolintPrefix) {
		return nil, false
	}
	rest := body[len(nolintPrefix):]
	if rest == "" {
		return nil, true
	}
	if rest[0] != ':' {
		return nil, false
	}
	rest = strings.TrimSpace(rest[1:])
	if rest == "" {
		return nil, false
	}
	rules := make(map[string]struct{})
	for _, name := range strings.Split(rest, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			rules[name] = struct{}{}
		}
	}
	return rules, true
}

// isInline reports whether the comment shares its line with code.
func isInline(c pyast.Comment, lines []string) bool {
	if c.Line-1 < 0 || c.Line-1 >= len(lines) {
		return false
	}
	line := lines[c.Line-1]
	idx := strings.Index(line, "#")
	if idx < 0 {
		return false
	}
	return strings.TrimSpace(line[:idx]) != ""
}

// IsNolinted reports whether the rule is suppressed at the given line.
func (m *Manager) IsNolinted(line int, rule string) bool {
	if m == nil {
		return false
	}
	for _, s := range m.scopes {
		if line < s.start || line > s.end {
			continue
		}
		if len(s.rules) == 0 {
			return true
		}
		if _, ok := s.rules[rule]; ok {
			return true
		}
	}
	return false
}
