package analyzer

import (
	"github.com/rohankatakam/csmell/internal/models"
	"github.com/rohankatakam/csmell/internal/syntax"
)

// walkStructure applies every node rule to every node, in traversal order
func (a *Analyzer) walkStructure(root *syntax.Module) ([]models.Finding, error) {
	nodeRules := a.registry.NodeRules()
	if len(nodeRules) == 0 {
		return nil, nil
	}

	var findings []models.Finding
	err := syntax.Walk(root, a.limits, func(n syntax.Node, _ int) error {
		for _, rule := range nodeRules {
			findings = append(findings, rule.Check(n)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return findings, nil
}
