package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/csmell/internal/models"
)

func sampleReport() *models.Report {
	r := models.NewReport()
	r.CodeSmells = append(r.CodeSmells,
		models.NewFinding(models.CategoryCodeSmell, "nested-loop", 3, "Nested loops detected at line %d.", 3))
	r.AntiPatterns = append(r.AntiPatterns,
		models.NewFinding(models.CategoryAntiPattern, "singleton-instance", 7, "Potential Singleton pattern detected with '%s' attribute.", "_instance"))
	r.LexicalIssues = append(r.LexicalIssues,
		models.NewFinding(models.CategoryLexicalIssue, "poor-function-name", 1, "Line %d: Poorly named function detected.", 1))
	return r
}

func failedResult(path string) models.FileReport {
	return models.NewFileReport(path, nil, fmt.Errorf("syntax error at line 1, column 9: missing \")\""))
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format  string
		want    Formatter
		wantErr bool
	}{
		{"", &StandardFormatter{}, false},
		{FormatText, &StandardFormatter{}, false},
		{FormatQuiet, &QuietFormatter{}, false},
		{FormatJSON, &JSONFormatter{}, false},
		{FormatYAML, &YAMLFormatter{}, false},
		{"xml", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := NewFormatter(tt.format, Options{})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, got)
		})
	}
}

func TestDefaultFormat(t *testing.T) {
	t.Setenv("GIT_AUTHOR_DATE", "")
	t.Setenv("CSMELL_FORMAT", "")
	assert.Equal(t, FormatText, DefaultFormat())

	t.Setenv("CSMELL_FORMAT", FormatJSON)
	assert.Equal(t, FormatJSON, DefaultFormat())

	t.Setenv("GIT_AUTHOR_DATE", "@1700000000 +0000")
	assert.Equal(t, FormatQuiet, DefaultFormat())
}

func TestQuietFormatter(t *testing.T) {
	tests := []struct {
		name     string
		result   models.FileReport
		expected string
	}{
		{
			name:     "no issues",
			result:   models.NewFileReport("clean.py", models.NewReport(), nil),
			expected: "✅ clean.py: no issues\n",
		},
		{
			name:     "issues",
			result:   models.NewFileReport("views.py", sampleReport(), nil),
			expected: "⚠️  views.py: 3 issues detected\n",
		},
		{
			name:     "parse failure",
			result:   failedResult("broken.py"),
			expected: "❌ broken.py: syntax error at line 1, column 9: missing \")\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter := &QuietFormatter{}
			require.NoError(t, formatter.Format([]models.FileReport{tt.result}, &buf))
			assert.Equal(t, tt.expected, buf.String())
		})
	}
}

func TestStandardFormatter(t *testing.T) {
	results := []models.FileReport{
		models.NewFileReport("views.py", sampleReport(), nil),
		models.NewFileReport("clean.py", models.NewReport(), nil),
		failedResult("broken.py"),
	}

	var buf bytes.Buffer
	formatter := &StandardFormatter{}
	require.NoError(t, formatter.Format(results, &buf))

	expected := `🔍 views.py
  Code smells (1)
    • Nested loops detected at line 3.
  Anti-patterns (1)
    • Potential Singleton pattern detected with '_instance' attribute.
  Lexical issues (1)
    • Line 1: Poorly named function detected.

🔍 clean.py
  ✅ No issues found

🔍 broken.py
  ❌ syntax error at line 1, column 9: missing ")"

3 issues in 3 files, 1 failed to parse
`
	assert.Equal(t, expected, buf.String())
}

func TestStandardFormatter_SingleFileHasNoSummary(t *testing.T) {
	var buf bytes.Buffer
	formatter := &StandardFormatter{}
	require.NoError(t, formatter.Format([]models.FileReport{models.NewFileReport("a.py", sampleReport(), nil)}, &buf))
	assert.NotContains(t, buf.String(), "issues in")
}

func TestJSONFormatter_SingleFileIsWire(t *testing.T) {
	var buf bytes.Buffer
	formatter := &JSONFormatter{}
	require.NoError(t, formatter.Format([]models.FileReport{models.NewFileReport("views.py", sampleReport(), nil)}, &buf))

	var got map[string][]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, map[string][]string{
		"code_smells":    {"Nested loops detected at line 3."},
		"anti_patterns":  {"Potential Singleton pattern detected with '_instance' attribute."},
		"lexical_issues": {"Line 1: Poorly named function detected."},
	}, got)
}

func TestJSONFormatter_SingleFailure(t *testing.T) {
	var buf bytes.Buffer
	formatter := &JSONFormatter{}
	require.NoError(t, formatter.Format([]models.FileReport{failedResult("broken.py")}, &buf))
	assert.JSONEq(t, `{"error": "syntax error at line 1, column 9: missing \")\""}`, buf.String())
}

func TestJSONFormatter_ManyFiles(t *testing.T) {
	var buf bytes.Buffer
	formatter := &JSONFormatter{}
	require.NoError(t, formatter.Format([]models.FileReport{
		models.NewFileReport("clean.py", models.NewReport(), nil),
		failedResult("broken.py"),
	}, &buf))

	assert.JSONEq(t, `[
		{"path": "clean.py", "code_smells": [], "anti_patterns": [], "lexical_issues": []},
		{"path": "broken.py", "error": "syntax error at line 1, column 9: missing \")\""}
	]`, buf.String())
}

func TestJSONFormatter_Detailed(t *testing.T) {
	var buf bytes.Buffer
	formatter := &JSONFormatter{Detailed: true}
	require.NoError(t, formatter.Format([]models.FileReport{models.NewFileReport("views.py", sampleReport(), nil)}, &buf))

	var got []models.FileReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Report)
	assert.Equal(t, "nested-loop", got[0].Report.CodeSmells[0].RuleID)
	assert.Equal(t, 7, got[0].Report.AntiPatterns[0].Line)
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter := &YAMLFormatter{}
	require.NoError(t, formatter.Format([]models.FileReport{
		models.NewFileReport("views.py", sampleReport(), nil),
		failedResult("broken.py"),
	}, &buf))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "views.py", got[0]["path"])
	assert.Equal(t, []any{"Nested loops detected at line 3."}, got[0]["code_smells"])
	assert.Contains(t, got[1]["error"], "syntax error")
}
