// Package analyzer is the entry point of the smell analysis: it parses the
// source, applies node rules over the syntax tree and line rules over the raw
// text, and aggregates everything into one report.
//
// Analysis is synchronous and holds no state between calls. An *Analyzer is
// safe for concurrent use.
package analyzer

import (
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/rohankatakam/csmell/internal/errors"
	"github.com/rohankatakam/csmell/internal/limits"
	"github.com/rohankatakam/csmell/internal/models"
	"github.com/rohankatakam/csmell/internal/rules"
	"github.com/rohankatakam/csmell/internal/syntax"
)

// Config selects thresholds, bounds and disabled rules
type Config struct {
	Thresholds    rules.Thresholds
	Limits        limits.Limits
	DisabledRules []string
}

// DefaultConfig returns the stock configuration
func DefaultConfig() Config {
	return Config{
		Thresholds: rules.DefaultThresholds(),
		Limits:     limits.Default(),
	}
}

// Analyzer runs a fixed rule registry over source text
type Analyzer struct {
	parser   *syntax.Parser
	registry *rules.Registry
	limits   limits.Limits
}

// New builds an analyzer with the built-in rules
func New(cfg Config) (*Analyzer, error) {
	if err := cfg.Thresholds.Validate(); err != nil {
		return nil, errors.ValidationErrorf("invalid thresholds: %v", err)
	}
	if err := cfg.Limits.Validate(); err != nil {
		return nil, errors.ValidationErrorf("invalid limits: %v", err)
	}

	registry := rules.Default(cfg.Thresholds)
	if len(cfg.DisabledRules) > 0 {
		trimmed, err := registry.Without(cfg.DisabledRules...)
		if err != nil {
			return nil, errors.ValidationErrorf("invalid disabled_rules: %v", err)
		}
		registry = trimmed
	}
	return NewWithRegistry(registry, cfg.Limits), nil
}

// NewWithRegistry builds an analyzer around a caller-assembled registry
func NewWithRegistry(registry *rules.Registry, l limits.Limits) *Analyzer {
	return &Analyzer{
		parser:   syntax.NewParser(l),
		registry: registry,
		limits:   l,
	}
}

// Rules returns the analyzer's rule registry
func (a *Analyzer) Rules() *rules.Registry {
	return a.registry
}

// Analyze parses source and returns the categorized findings.
// Empty source yields an empty report. On failure no report is returned: a
// syntax error is an *errors.Error of type ErrorTypeParse wrapping a
// *syntax.ParseError, an exceeded bound is ErrorTypeResourceLimit wrapping a
// *limits.ExceededError.
func (a *Analyzer) Analyze(source string) (*models.Report, error) {
	mod, err := a.parser.Parse(source)
	if err != nil {
		return nil, classify(err)
	}

	structural, err := a.walkStructure(mod)
	if err != nil {
		return nil, classify(err)
	}

	lexical, err := a.scanLines(source)
	if err != nil {
		return nil, classify(err)
	}

	return Aggregate(structural, lexical), nil
}

var defaultAnalyzer = sync.OnceValues(func() (*Analyzer, error) {
	return New(DefaultConfig())
})

// Analyze runs the default analyzer
func Analyze(source string) (*models.Report, error) {
	a, err := defaultAnalyzer()
	if err != nil {
		return nil, err
	}
	return a.Analyze(source)
}

func classify(err error) error {
	var parseErr *syntax.ParseError
	if stderrors.As(err, &parseErr) {
		return errors.ParseError(err, "failed to parse source")
	}
	var exceeded *limits.ExceededError
	if stderrors.As(err, &exceeded) {
		return errors.ResourceLimitError(err, "analysis aborted")
	}
	return errors.InternalError(err, fmt.Sprintf("analysis failed: %T", err))
}
