package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/rohankatakam/csmell/internal/models"
)

// Rule IDs of the line checks
const (
	IDLineLength        = "line-length"
	IDComplexExpression = "complex-expression"
	IDPoorFunctionName  = "poor-function-name"
)

// WidthMode selects how line length is measured
type WidthMode string

const (
	// WidthRunes counts Unicode code points
	WidthRunes WidthMode = "runes"
	// WidthColumns counts terminal cells, so wide CJK characters count twice
	WidthColumns WidthMode = "columns"
)

// Valid reports whether m is a known width mode
func (m WidthMode) Valid() bool {
	return m == WidthRunes || m == WidthColumns
}

// LineLength flags lines longer than Max characters
type LineLength struct {
	Max   int
	Width WidthMode
}

func (r LineLength) ID() string                { return IDLineLength }
func (r LineLength) Category() models.Category { return models.CategoryLexicalIssue }
func (r LineLength) Description() string {
	return fmt.Sprintf("line longer than %d characters", r.Max)
}

func (r LineLength) Check(line models.Line) []models.Finding {
	if r.width(line.Text) <= r.Max {
		return nil
	}
	return []models.Finding{models.NewFinding(models.CategoryLexicalIssue, IDLineLength, line.Number,
		"Line %d: Line exceeds %d characters.", line.Number, r.Max)}
}

func (r LineLength) width(s string) int {
	if r.Width == WidthColumns {
		return runewidth.StringWidth(s)
	}
	return utf8.RuneCountInString(s)
}

// ComplexExpression flags lines with more than MaxParens opening parentheses
type ComplexExpression struct {
	MaxParens int
}

func (r ComplexExpression) ID() string                { return IDComplexExpression }
func (r ComplexExpression) Category() models.Category { return models.CategoryLexicalIssue }
func (r ComplexExpression) Description() string {
	return fmt.Sprintf("line has more than %d opening parentheses", r.MaxParens)
}

func (r ComplexExpression) Check(line models.Line) []models.Finding {
	if strings.Count(line.Text, "(") <= r.MaxParens {
		return nil
	}
	return []models.Finding{models.NewFinding(models.CategoryLexicalIssue, IDComplexExpression, line.Number,
		"Line %d: Overly complex expression detected.", line.Number)}
}

// oneLetterDef matches "def x(" after optional indentation
var oneLetterDef = regexp.MustCompile(`^\s*def\s+[A-Za-z]\(`)

// PoorFunctionName flags one-letter function names. The check is textual and
// does not consult the syntax tree.
type PoorFunctionName struct{}

func (PoorFunctionName) ID() string                { return IDPoorFunctionName }
func (PoorFunctionName) Category() models.Category { return models.CategoryLexicalIssue }
func (PoorFunctionName) Description() string       { return "function defined with a one-letter name" }

func (PoorFunctionName) Check(line models.Line) []models.Finding {
	if !oneLetterDef.MatchString(line.Text) {
		return nil
	}
	return []models.Finding{models.NewFinding(models.CategoryLexicalIssue, IDPoorFunctionName, line.Number,
		"Line %d: Poorly named function detected.", line.Number)}
}
