package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/csmell/internal/models"
	"github.com/rohankatakam/csmell/internal/syntax"
)

func TestDefaultRegistry_Order(t *testing.T) {
	r := Default(DefaultThresholds())

	var nodeIDs []string
	for _, rule := range r.NodeRules() {
		nodeIDs = append(nodeIDs, rule.ID())
	}
	assert.Equal(t, []string{IDLongFunction, IDLargeClass, IDNestedLoop, IDSingletonInstance}, nodeIDs)

	var lineIDs []string
	for _, rule := range r.LineRules() {
		lineIDs = append(lineIDs, rule.ID())
	}
	assert.Equal(t, []string{IDLineLength, IDComplexExpression, IDPoorFunctionName}, lineIDs)
	assert.Len(t, r.All(), 7)
}

func TestRegistry_RejectsDuplicatesAndInvalid(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.RegisterNode(NestedLoop{}))
	assert.Error(t, r.RegisterNode(NestedLoop{}))

	noop := func(syntax.Node) []models.Finding { return nil }
	assert.Error(t, r.RegisterNode(NewNodeRule("", models.CategoryCodeSmell, "", noop)))
	assert.Error(t, r.RegisterNode(NewNodeRule("odd", models.Category("style"), "", noop)))
	assert.Error(t, r.RegisterLine(nil))
}

func TestRegistry_Without(t *testing.T) {
	r := Default(DefaultThresholds())

	trimmed, err := r.Without(IDNestedLoop, IDLineLength)
	require.NoError(t, err)
	assert.False(t, trimmed.Has(IDNestedLoop))
	assert.False(t, trimmed.Has(IDLineLength))
	assert.True(t, trimmed.Has(IDLongFunction))
	assert.Len(t, trimmed.All(), 5)

	// the original is untouched
	assert.True(t, r.Has(IDNestedLoop))

	_, err = r.Without("no-such-rule")
	assert.Error(t, err)
}

func TestNewLineRule(t *testing.T) {
	todo := NewLineRule("todo-comment", models.CategoryLexicalIssue, "TODO marker",
		func(line models.Line) []models.Finding {
			return []models.Finding{models.NewFinding(models.CategoryLexicalIssue, "todo-comment", line.Number, "Line %d: TODO found.", line.Number)}
		})

	r := NewRegistry()
	require.NoError(t, r.RegisterLine(todo))

	findings := r.LineRules()[0].Check(models.Line{Number: 9, Text: "# TODO"})
	require.Len(t, findings, 1)
	assert.Equal(t, "Line 9: TODO found.", findings[0].Message)
	assert.Equal(t, "TODO marker", r.LineRules()[0].Description())
}

func TestThresholds_Validate(t *testing.T) {
	assert.NoError(t, DefaultThresholds().Validate())

	bad := DefaultThresholds()
	bad.MaxClassMethods = -1
	assert.Error(t, bad.Validate())

	bad = DefaultThresholds()
	bad.LineWidth = "bytes"
	assert.Error(t, bad.Validate())
}
