package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"
	"github.com/liskovlint/liskov/internal"
	tt "github.com/liskovlint/liskov/internal/types"
)

const tabWidth = 8

var (
	errorStyle      = color.New(color.FgRed, color.Bold)
	warningStyle    = color.New(color.FgHiYellow, color.Bold)
	ruleStyle       = color.New(color.FgYellow, color.Bold)
	fileStyle       = color.New(color.FgCyan, color.Bold)
	lineStyle       = color.New(color.FgHiBlue, color.Bold)
	messageStyle    = color.New(color.FgRed, color.Bold)
	suggestionStyle = color.New(color.FgGreen, color.Bold)
)

// issueFormatter is the interface that wraps the issueTemplate method.
// Implementations are responsible for formatting specific types of lint
// issues.
type issueFormatter interface {
	IssueTemplate() string
}

// getIssueFormatter is a factory function that returns the appropriate
// formatter based on the given rule. Substitutability families share a
// formatter that names the contract owner; everything else uses the
// general one.
func getIssueFormatter(issue tt.Issue) issueFormatter {
	if issue.Category == "substitutability" {
		return &ContractIssueFormatter{}
	}
	return &GeneralIssueFormatter{}
}

// GenerateFormattedIssue formats a slice of issues into a human-readable
// string, using the appropriate formatter for each issue.
func GenerateFormattedIssue(issues []tt.Issue, snippet *internal.SourceCode) string {
	var builder strings.Builder
	for _, issue := range issues {
		formatter := getIssueFormatter(issue)
		builder.WriteString(buildIssue(issue, snippet, formatter))
	}
	return builder.String()
}

/***** Issue Formatter Builder *****/

type IssueData struct {
	Severity        string
	Rule            string
	Filename        string
	Class           string
	Method          string
	Padding         string
	StartLine       int
	StartColumn     int
	EndLine         int
	MaxLineNumWidth int
	Message         string
	Suggestion      string
	Note            string
	SnippetLines    []string
}

func buildIssue(issue tt.Issue, snippet *internal.SourceCode, formatter issueFormatter) string {
	maxLineNumWidth := calculateMaxLineNumWidth(issue.End.Line)
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	data := IssueData{
		Severity:        issue.Severity.String(),
		Rule:            issue.Rule,
		Filename:        issue.Filename,
		Class:           issue.Class,
		Method:          issue.Method,
		StartLine:       issue.Start.Line,
		StartColumn:     issue.Start.Column,
		EndLine:         issue.End.Line,
		Message:         issue.Message,
		Suggestion:      issue.Suggestion,
		Note:            issue.Note,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         padding,
		SnippetLines:    snippet.Lines,
	}

	funcMap := template.FuncMap{
		"header":              header,
		"snippet":             codeSnippet,
		"underlineAndMessage": underlineAndMessage,
		"suggestion":          suggestion,
		"note":                note,
		"contractInfo":        contractInfo,
	}

	issueTemplate := formatter.IssueTemplate()
	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(issueTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("Error formatting issue: %v", err)
	}
	return buf.String()
}

func header(rule, severity, filename string, line, column int) string {
	style := errorStyle
	if severity == "WARNING" || severity == "INFO" {
		style = warningStyle
	}
	return style.Sprintf("%s: ", strings.ToLower(severity)) +
		ruleStyle.Sprint(rule) + "\n" +
		lineStyle.Sprint(" --> ") +
		fileStyle.Sprintf("%s:%d:%d", filename, line, column) + "\n"
}

func codeSnippet(lines []string, startLine, endLine, maxLineNumWidth int, padding string) string {
	if startLine < 1 || startLine > len(lines) {
		return ""
	}
	if endLine > len(lines) {
		endLine = len(lines)
	}

	var result strings.Builder
	result.WriteString(lineStyle.Sprintf("%s|\n", padding))
	for i := startLine; i <= endLine; i++ {
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i)
		result.WriteString(lineStyle.Sprintf("%s | ", lineNum))
		result.WriteString(expandTabs(lines[i-1]) + "\n")
	}
	return result.String()
}

func underlineAndMessage(message, padding string, startLine, startColumn int, lines []string) string {
	var result strings.Builder
	result.WriteString(lineStyle.Sprintf("%s| ", padding))

	underlineLen := 1
	if startLine >= 1 && startLine <= len(lines) {
		line := lines[startLine-1]
		underlineLen = len(strings.TrimRight(line, " \t")) - (startColumn - 1)
		if underlineLen < 1 {
			underlineLen = 1
		}
	}
	col := calculateVisualColumn(lines, startLine, startColumn)
	result.WriteString(strings.Repeat(" ", col))
	result.WriteString(messageStyle.Sprint(strings.Repeat("^", underlineLen)))
	result.WriteString(" " + messageStyle.Sprint(message) + "\n")
	return result.String()
}

func suggestion(s, padding string) string {
	if s == "" {
		return ""
	}
	return suggestionStyle.Sprint("Suggestion: ") + s + "\n"
}

func note(n string) string {
	if n == "" {
		return ""
	}
	return suggestionStyle.Sprint("Note: ") + n + "\n"
}

func contractInfo(class, method, padding string) string {
	if class == "" {
		return ""
	}
	return lineStyle.Sprintf("%s= ", padding) +
		fmt.Sprintf("contract of %s.%s\n", class, method)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

func expandTabs(line string) string {
	var result strings.Builder
	for i, ch := range line {
		if ch == '\t' {
			spaces := tabWidth - (i % tabWidth)
			result.WriteString(strings.Repeat(" ", spaces))
		} else {
			result.WriteRune(ch)
		}
	}
	return result.String()
}

// calculateVisualColumn converts a byte column to a visual column,
// accounting for tab expansion in the rendered snippet.
func calculateVisualColumn(lines []string, lineNum, column int) int {
	if lineNum < 1 || lineNum > len(lines) {
		return 0
	}
	line := lines[lineNum-1]
	visual := 0
	for i, ch := range line {
		if i+1 >= column {
			break
		}
		if ch == '\t' {
			visual += tabWidth - (visual % tabWidth)
		} else {
			visual++
		}
	}
	return visual
}
