package formatter

// GeneralIssueFormatter is the fallback formatter for issues without a
// rule-specific layout.
type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .StartColumn .SnippetLines -}}
{{suggestion .Suggestion .Padding -}}
{{note .Note -}}
`
}

// ContractIssueFormatter renders substitutability issues with the
// owning class and method under the snippet.
type ContractIssueFormatter struct{}

func (f *ContractIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .Severity .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .StartColumn .SnippetLines -}}
{{contractInfo .Class .Method .Padding -}}
{{note .Note -}}
`
}
