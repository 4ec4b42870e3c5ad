package analyzer

import (
	"github.com/rohankatakam/csmell/internal/limits"
	"github.com/rohankatakam/csmell/internal/models"
)

// scanLines applies every line rule to every line, lines in ascending order
func (a *Analyzer) scanLines(source string) ([]models.Finding, error) {
	lines := models.SplitLines(source)
	if err := limits.Check(limits.ResourceLines, len(lines), a.limits.MaxLines, 0); err != nil {
		return nil, err
	}

	lineRules := a.registry.LineRules()
	var findings []models.Finding
	for _, line := range lines {
		if err := limits.Check(limits.ResourceLineLength, len(line.Text), a.limits.MaxLineLength, line.Number); err != nil {
			return nil, err
		}
		for _, rule := range lineRules {
			findings = append(findings, rule.Check(line)...)
		}
	}
	return findings, nil
}
