// Package limits bounds the work a single analysis call may do.
package limits

import "fmt"

// Resource names reported by ExceededError
const (
	ResourceSourceBytes = "source_bytes"
	ResourceDepth       = "depth"
	ResourceNodes       = "nodes"
	ResourceLines       = "lines"
	ResourceLineLength  = "line_length"
)

// Limits caps input size and tree shape. A zero field disables that bound.
type Limits struct {
	MaxSourceBytes int `yaml:"max_source_bytes" mapstructure:"max_source_bytes"`
	MaxDepth       int `yaml:"max_depth" mapstructure:"max_depth"`
	MaxNodes       int `yaml:"max_nodes" mapstructure:"max_nodes"`
	MaxLines       int `yaml:"max_lines" mapstructure:"max_lines"`
	MaxLineLength  int `yaml:"max_line_length" mapstructure:"max_line_length"` // bytes of a single line
}

// Default returns the bounds used when nothing is configured
func Default() Limits {
	return Limits{
		MaxSourceBytes: 10 * 1024 * 1024, // 10MB
		MaxDepth:       1000,
		MaxNodes:       2_000_000,
		MaxLines:       500_000,
		MaxLineLength:  1024 * 1024,
	}
}

// Unbounded returns limits with every bound disabled
func Unbounded() Limits {
	return Limits{}
}

// ExceededError reports that an input crossed a configured bound
type ExceededError struct {
	Resource string
	Limit    int
	Line     int // 1-based line where the bound was crossed, 0 when unknown
}

func (e *ExceededError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("resource limit exceeded: %s > %d (line %d)", e.Resource, e.Limit, e.Line)
	}
	return fmt.Sprintf("resource limit exceeded: %s > %d", e.Resource, e.Limit)
}

// Check returns an ExceededError when value is over limit. A limit <= 0 never fails.
func Check(resource string, value, limit, line int) error {
	if limit <= 0 || value <= limit {
		return nil
	}
	return &ExceededError{Resource: resource, Limit: limit, Line: line}
}

// Validate rejects negative bounds
func (l Limits) Validate() error {
	fields := map[string]int{
		ResourceSourceBytes: l.MaxSourceBytes,
		ResourceDepth:       l.MaxDepth,
		ResourceNodes:       l.MaxNodes,
		ResourceLines:       l.MaxLines,
		ResourceLineLength:  l.MaxLineLength,
	}
	for name, v := range fields {
		if v < 0 {
			return fmt.Errorf("limit %s must not be negative (got %d)", name, v)
		}
	}
	return nil
}
