package models

import (
	"fmt"
	"unicode/utf8"
)

// Category classifies a finding
type Category string

const (
	CategoryCodeSmell    Category = "code_smell"
	CategoryAntiPattern  Category = "anti_pattern"
	CategoryLexicalIssue Category = "lexical_issue"
)

// String returns a human-readable label
func (c Category) String() string {
	switch c {
	case CategoryCodeSmell:
		return "Code smell"
	case CategoryAntiPattern:
		return "Anti-pattern"
	case CategoryLexicalIssue:
		return "Lexical issue"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryCodeSmell, CategoryAntiPattern, CategoryLexicalIssue:
		return true
	}
	return false
}

// Finding is a single detected issue
type Finding struct {
	Category Category `json:"category" yaml:"category"`
	RuleID   string   `json:"rule" yaml:"rule"`
	Message  string   `json:"message" yaml:"message"`
	Line     int      `json:"line,omitempty" yaml:"line,omitempty"` // 0 when unknown
}

// NewFinding builds a finding with a formatted message
func NewFinding(category Category, ruleID string, line int, format string, args ...any) Finding {
	return Finding{
		Category: category,
		RuleID:   ruleID,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
	}
}

// Report is the categorized result of one analysis call.
// All three slices are non-nil in a report returned without error.
type Report struct {
	CodeSmells    []Finding `json:"code_smells" yaml:"code_smells"`
	AntiPatterns  []Finding `json:"anti_patterns" yaml:"anti_patterns"`
	LexicalIssues []Finding `json:"lexical_issues" yaml:"lexical_issues"`
}

// NewReport returns an empty report
func NewReport() *Report {
	return &Report{
		CodeSmells:    []Finding{},
		AntiPatterns:  []Finding{},
		LexicalIssues: []Finding{},
	}
}

// Total returns the number of findings across all categories
func (r *Report) Total() int {
	return len(r.CodeSmells) + len(r.AntiPatterns) + len(r.LexicalIssues)
}

// Empty reports whether no findings were produced
func (r *Report) Empty() bool {
	return r.Total() == 0
}

// Wire is the transport shape of a report: message strings only
type Wire struct {
	CodeSmells    []string `json:"code_smells" yaml:"code_smells"`
	AntiPatterns  []string `json:"anti_patterns" yaml:"anti_patterns"`
	LexicalIssues []string `json:"lexical_issues" yaml:"lexical_issues"`
}

// Wire converts the report to its message-only transport form
func (r *Report) Wire() Wire {
	return Wire{
		CodeSmells:    messages(r.CodeSmells),
		AntiPatterns:  messages(r.AntiPatterns),
		LexicalIssues: messages(r.LexicalIssues),
	}
}

func messages(findings []Finding) []string {
	out := make([]string, 0, len(findings))
	for _, f := range findings {
		out = append(out, f.Message)
	}
	return out
}

// Line is one raw source line, numbered from 1
type Line struct {
	Number int
	Text   string
}

// SplitLines splits source at the line boundaries Python's str.splitlines
// recognizes: \n, \r\n, \r, \v, \f, \x1c, \x1d, \x1e, U+0085, U+2028 and
// U+2029. A terminating line break does not produce a trailing empty line.
func SplitLines(source string) []Line {
	var lines []Line
	n, start := 1, 0
	for i, r := range source {
		if !isLineBreak(r) {
			continue
		}
		if r == '\n' && i > 0 && source[i-1] == '\r' {
			// second half of \r\n, already split at the \r
			start = i + 1
			continue
		}
		lines = append(lines, Line{Number: n, Text: source[start:i]})
		n++
		start = i + utf8.RuneLen(r)
	}
	if start < len(source) {
		lines = append(lines, Line{Number: n, Text: source[start:]})
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// FileReport is the outcome of analyzing one named source.
// Exactly one of Report and Error is set.
type FileReport struct {
	Path   string  `json:"path" yaml:"path"`
	Report *Report `json:"report,omitempty" yaml:"report,omitempty"`
	Error  string  `json:"error,omitempty" yaml:"error,omitempty"`
	Err    error   `json:"-" yaml:"-"`
}

// NewFileReport records the result of one analysis call
func NewFileReport(path string, report *Report, err error) FileReport {
	if err != nil {
		return FileReport{Path: path, Error: err.Error(), Err: err}
	}
	return FileReport{Path: path, Report: report}
}

// Failed reports whether the analysis returned an error
func (f FileReport) Failed() bool {
	return f.Error != ""
}
