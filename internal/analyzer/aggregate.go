package analyzer

import "github.com/rohankatakam/csmell/internal/models"

// Aggregate merges structural and lexical findings into a report. Findings
// are routed by category and keep their relative order; nothing is filtered
// or deduplicated.
func Aggregate(structural, lexical []models.Finding) *models.Report {
	report := models.NewReport()
	for _, group := range [][]models.Finding{structural, lexical} {
		for _, f := range group {
			switch f.Category {
			case models.CategoryCodeSmell:
				report.CodeSmells = append(report.CodeSmells, f)
			case models.CategoryAntiPattern:
				report.AntiPatterns = append(report.AntiPatterns, f)
			default:
				report.LexicalIssues = append(report.LexicalIssues, f)
			}
		}
	}
	return report
}
