package output

import (
	"fmt"
	"io"

	"github.com/rohankatakam/csmell/internal/models"
)

// QuietFormatter outputs one line per file (for pre-commit hooks)
type QuietFormatter struct{}

func (f *QuietFormatter) Format(results []models.FileReport, w io.Writer) error {
	for _, r := range results {
		switch {
		case r.Failed():
			fmt.Fprintf(w, "❌ %s: %s\n", r.Path, r.Error)
		case r.Report.Empty():
			fmt.Fprintf(w, "✅ %s: no issues\n", r.Path)
		default:
			fmt.Fprintf(w, "⚠️  %s: %d issues detected\n", r.Path, r.Report.Total())
		}
	}
	return nil
}
