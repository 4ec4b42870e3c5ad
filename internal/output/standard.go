package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/rohankatakam/csmell/internal/models"
)

// StandardFormatter outputs findings grouped by category (default)
type StandardFormatter struct {
	Color bool
}

type textStyles struct {
	header  lipgloss.Style
	section lipgloss.Style
	item    lipgloss.Style
	errText lipgloss.Style
	success lipgloss.Style
	muted   lipgloss.Style
}

func newTextStyles(w io.Writer, color bool) textStyles {
	if !color {
		plain := lipgloss.NewStyle()
		return textStyles{plain, plain, plain, plain, plain, plain}
	}
	r := lipgloss.NewRenderer(w)
	return textStyles{
		header:  r.NewStyle().Bold(true),
		section: r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		item:    r.NewStyle().Foreground(lipgloss.Color("3")),
		errText: r.NewStyle().Foreground(lipgloss.Color("1")),
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		muted:   r.NewStyle().Faint(true),
	}
}

func (f *StandardFormatter) Format(results []models.FileReport, w io.Writer) error {
	s := newTextStyles(w, f.Color)

	var total, failed int
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", s.header.Render("🔍 "+r.Path))

		if r.Failed() {
			failed++
			fmt.Fprintf(w, "  %s\n", s.errText.Render("❌ "+r.Error))
			continue
		}
		if r.Report.Empty() {
			fmt.Fprintf(w, "  %s\n", s.success.Render("✅ No issues found"))
			continue
		}

		total += r.Report.Total()
		writeSection(w, s, "Code smells", r.Report.CodeSmells)
		writeSection(w, s, "Anti-patterns", r.Report.AntiPatterns)
		writeSection(w, s, "Lexical issues", r.Report.LexicalIssues)
	}

	if len(results) > 1 {
		summary := fmt.Sprintf("%d issues in %d files", total, len(results))
		if failed > 0 {
			summary += fmt.Sprintf(", %d failed to parse", failed)
		}
		fmt.Fprintf(w, "\n%s\n", s.muted.Render(summary))
	}
	return nil
}

func writeSection(w io.Writer, s textStyles, title string, findings []models.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s\n", s.section.Render(fmt.Sprintf("%s (%d)", title, len(findings))))
	for _, finding := range findings {
		fmt.Fprintf(w, "    %s %s\n", s.item.Render("•"), finding.Message)
	}
}
