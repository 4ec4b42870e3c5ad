package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/csmell/internal/errors"
	"github.com/rohankatakam/csmell/internal/rules"
)

// ValidationResult holds validation results
type ValidationResult struct {
	Valid    bool
	Errors   []string
	Warnings []string
}

// AddError adds an error to the validation result
func (vr *ValidationResult) AddError(format string, args ...interface{}) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, fmt.Sprintf(format, args...))
}

// AddWarning adds a warning to the validation result
func (vr *ValidationResult) AddWarning(format string, args ...interface{}) {
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if there are any errors
func (vr *ValidationResult) HasErrors() bool {
	return !vr.Valid || len(vr.Errors) > 0
}

// Error returns a formatted error message
func (vr *ValidationResult) Error() string {
	if !vr.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Configuration validation failed:\n")
	for _, err := range vr.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err))
	}

	if len(vr.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, warn := range vr.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn))
		}
	}

	return sb.String()
}

// Validate checks every section of the configuration
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}

	c.validateAnalysis(result)
	c.validateLimits(result)
	c.validateServer(result)
	c.validateGitHub(result)
	c.validateLogging(result)

	return result
}

// Require validates the configuration and returns a config error when invalid.
// Warnings are logged.
func (c *Config) Require() error {
	result := c.Validate()
	for _, warn := range result.Warnings {
		logrus.Warn(warn)
	}
	if result.HasErrors() {
		return errors.ConfigError(result.Error())
	}
	return nil
}

func (c *Config) validateAnalysis(result *ValidationResult) {
	if err := c.Analysis.Thresholds.Validate(); err != nil {
		result.AddError("analysis: %v", err)
	}

	known := rules.Default(rules.DefaultThresholds())
	for _, id := range c.Analysis.DisabledRules {
		if !known.Has(id) {
			result.AddError("analysis.disabled_rules: unknown rule %q", id)
		}
	}

	if c.Analysis.Workers <= 0 {
		result.AddWarning("analysis.workers is %d, files will be analyzed one at a time", c.Analysis.Workers)
	}
}

func (c *Config) validateLimits(result *ValidationResult) {
	if err := c.Limits.Validate(); err != nil {
		result.AddError("limits: %v", err)
		return
	}
	if c.Limits.MaxDepth == 0 || c.Limits.MaxNodes == 0 {
		result.AddWarning("limits: tree depth or node count is unbounded")
	}
}

func (c *Config) validateServer(result *ValidationResult) {
	if c.Server.Addr == "" {
		result.AddError("server.addr is required")
	}
	if c.Server.MaxUploadBytes <= 0 {
		result.AddError("server.max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	if c.Server.RequestsPerSecond < 0 {
		result.AddError("server.requests_per_second must not be negative")
	}
	if c.Server.RequestsPerSecond > 0 && c.Server.Burst <= 0 {
		result.AddError("server.burst must be positive when rate limiting is enabled")
	}
	if c.Server.AnalysisTimeout <= 0 {
		result.AddWarning("server.analysis_timeout is not set, analyses will not time out")
	}
}

func (c *Config) validateGitHub(result *ValidationResult) {
	if c.GitHub.Token == "" {
		result.AddWarning("GITHUB_TOKEN is not set. GitHub sources are limited to unauthenticated rate limits.")
	}

	if c.GitHub.RateLimit <= 0 {
		result.AddWarning("GITHUB_RATE_LIMIT is invalid, will use default (10 req/s)")
	}
}

func (c *Config) validateLogging(result *ValidationResult) {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		result.AddError("logging.level: %v", err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		result.AddError("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.Logging.Output == "" {
		result.AddWarning("logging.output is not set, will use stderr")
	}
}
