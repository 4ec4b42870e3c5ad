package models

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{"empty", "", nil},
		{"single line no terminator", "x = 1", []string{"x = 1"}},
		{"trailing newline", "a\nb\n", []string{"a", "b"}},
		{"crlf", "a\r\nb\r\n", []string{"a", "b"}},
		{"bare cr", "a\rb", []string{"a", "b"}},
		{"blank lines kept", "a\n\n\nb", []string{"a", "", "", "b"}},
		{"only newline", "\n", []string{""}},
		{"form feed", "x = 1\n\x0cdef f():\n", []string{"x = 1", "", "def f():"}},
		{"vertical tab and separators", "a\vb\x1cc\x1dd\x1ee", []string{"a", "b", "c", "d", "e"}},
		{"unicode breaks", "a\u0085b\u2028c\u2029d", []string{"a", "b", "c", "d"}},
		{"cr then lf is one break", "a\r\n\r\nb", []string{"a", "", "b"}},
		{"multibyte text kept", "é = 1\u2028ü", []string{"é = 1", "ü"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := SplitLines(tt.source)
			require.Len(t, lines, len(tt.want))
			for i, line := range lines {
				assert.Equal(t, i+1, line.Number)
				assert.Equal(t, tt.want[i], line.Text)
			}
		})
	}
}

func TestReport_WireJSON(t *testing.T) {
	report := NewReport()
	report.CodeSmells = append(report.CodeSmells,
		NewFinding(CategoryCodeSmell, "nested-loop", 3, "Nested loops detected at line %d.", 3))

	data, err := json.Marshal(report.Wire())
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"code_smells":["Nested loops detected at line 3."],"anti_patterns":[],"lexical_issues":[]}`,
		string(data))
}

func TestReport_Total(t *testing.T) {
	report := NewReport()
	assert.True(t, report.Empty())

	report.LexicalIssues = append(report.LexicalIssues, Finding{Category: CategoryLexicalIssue})
	report.AntiPatterns = append(report.AntiPatterns, Finding{Category: CategoryAntiPattern})
	assert.Equal(t, 2, report.Total())
	assert.False(t, report.Empty())
}

func TestCategory(t *testing.T) {
	assert.True(t, CategoryCodeSmell.Valid())
	assert.False(t, Category("style").Valid())
	assert.Equal(t, "Anti-pattern", CategoryAntiPattern.String())
}

func TestNewFileReport(t *testing.T) {
	ok := NewFileReport("a.py", NewReport(), nil)
	assert.False(t, ok.Failed())
	assert.NotNil(t, ok.Report)
	assert.Empty(t, ok.Error)

	failed := NewFileReport("b.py", nil, fmt.Errorf("syntax error at line 1, column 5: missing \")\""))
	assert.True(t, failed.Failed())
	assert.Nil(t, failed.Report)
	assert.Contains(t, failed.Error, "syntax error")

	data, err := json.Marshal(failed)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"report"`)
	assert.NotContains(t, string(data), `"Err"`)
}
