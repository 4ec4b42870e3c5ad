package output

import (
	"fmt"
	"io"
	"os"

	"github.com/rohankatakam/csmell/internal/models"
)

// Formatter defines output formatting interface
type Formatter interface {
	Format(results []models.FileReport, w io.Writer) error
}

// Format names accepted by NewFormatter
const (
	FormatText  = "text"
	FormatQuiet = "quiet"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Options tune the formatters
type Options struct {
	Color    bool // style text output for a terminal
	Detailed bool // include rule IDs, categories and lines in json/yaml
}

// NewFormatter creates the formatter for the named format
func NewFormatter(format string, opts Options) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &StandardFormatter{Color: opts.Color}, nil
	case FormatQuiet:
		return &QuietFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Detailed: opts.Detailed}, nil
	case FormatYAML:
		return &YAMLFormatter{Detailed: opts.Detailed}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text, quiet, json or yaml)", format)
	}
}

// DefaultFormat returns appropriate default based on environment
func DefaultFormat() string {
	// Pre-commit hook context (GIT_AUTHOR_DATE set by git)
	if os.Getenv("GIT_AUTHOR_DATE") != "" {
		return FormatQuiet
	}
	if f := os.Getenv("CSMELL_FORMAT"); f != "" {
		return f
	}
	return FormatText
}

// wireEntry is one analyzed file in the message-only listing
type wireEntry struct {
	Path        string `json:"path" yaml:"path"`
	models.Wire `yaml:",inline"`
}

// failedEntry is one file that could not be analyzed
type failedEntry struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// errorBody mirrors the transport error object
type errorBody struct {
	Error string `json:"error" yaml:"error"`
}

// document picks the value to encode: a single file in wire form matches
// what the transports return, several files become a list
func document(results []models.FileReport, detailed bool) any {
	if detailed {
		return results
	}
	if len(results) == 1 {
		r := results[0]
		if r.Failed() {
			return errorBody{Error: r.Error}
		}
		return r.Report.Wire()
	}

	entries := make([]any, 0, len(results))
	for _, r := range results {
		if r.Failed() {
			entries = append(entries, failedEntry{Path: r.Path, Error: r.Error})
			continue
		}
		entries = append(entries, wireEntry{Path: r.Path, Wire: r.Report.Wire()})
	}
	return entries
}
