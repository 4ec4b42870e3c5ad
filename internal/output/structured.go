package output

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/csmell/internal/models"
)

// JSONFormatter outputs machine-readable JSON
type JSONFormatter struct {
	Detailed bool
}

func (f *JSONFormatter) Format(results []models.FileReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document(results, f.Detailed)); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// YAMLFormatter outputs YAML
type YAMLFormatter struct {
	Detailed bool
}

func (f *YAMLFormatter) Format(results []models.FileReport, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(document(results, f.Detailed)); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}
