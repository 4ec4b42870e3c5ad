package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/csmell/internal/errors"
	"github.com/rohankatakam/csmell/internal/rules"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, rules.DefaultThresholds(), cfg.Analysis.Thresholds)
	assert.Equal(t, ":8000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.AnalysisTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)

	result := cfg.Validate()
	assert.False(t, result.HasErrors(), result.Error())
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
analysis:
  max_line_length: 120
  max_open_parens: 5
  disabled_rules: [poor-function-name]
limits:
  max_depth: 50
server:
  addr: ":9090"
  analysis_timeout: 3s
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Analysis.MaxLineLength)
	assert.Equal(t, 5, cfg.Analysis.MaxOpenParens)
	assert.Equal(t, 10, cfg.Analysis.MaxFunctionStatements, "unset keys keep defaults")
	assert.Equal(t, []string{rules.IDPoorFunctionName}, cfg.Analysis.DisabledRules)
	assert.Equal(t, 50, cfg.Limits.MaxDepth)
	assert.Equal(t, Default().Limits.MaxNodes, cfg.Limits.MaxNodes)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.AnalysisTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	ac := cfg.AnalyzerConfig()
	assert.Equal(t, cfg.Analysis.Thresholds, ac.Thresholds)
	assert.Equal(t, cfg.Limits, ac.Limits)
	assert.Equal(t, cfg.Analysis.DisabledRules, ac.DisabledRules)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "analysis:\n  max_line_length: 120\n")
	t.Setenv("CSMELL_ANALYSIS_MAX_LINE_LENGTH", "100")
	t.Setenv("CSMELL_LOGGING_LEVEL", "warn")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("GITHUB_RATE_LIMIT", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Analysis.MaxLineLength, "environment wins over the file")
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
	assert.Equal(t, 2, cfg.GitHub.RateLimit)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := writeConfig(t, "analysis: [not, a, map\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	cfg := Default()
	cfg.Analysis.MaxClassMethods = 7
	cfg.Analysis.LineWidth = rules.WidthColumns
	cfg.Server.AnalysisTimeout = 2 * time.Second

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, loaded.Analysis.MaxClassMethods)
	assert.Equal(t, rules.WidthColumns, loaded.Analysis.LineWidth)
	assert.Equal(t, 2*time.Second, loaded.Server.AnalysisTimeout)
}

func TestYAML_MasksToken(t *testing.T) {
	cfg := Default()
	cfg.GitHub.Token = "ghp_secret"

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.NotContains(t, string(out), "ghp_secret")
	assert.Contains(t, string(out), "max_line_length: 80")
	assert.Equal(t, "ghp_secret", cfg.GitHub.Token, "original is untouched")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantErrors int
	}{
		{"defaults", func(*Config) {}, 0},
		{"negative threshold", func(c *Config) { c.Analysis.MaxLineLength = -1 }, 1},
		{"unknown disabled rule", func(c *Config) { c.Analysis.DisabledRules = []string{"nope"} }, 1},
		{"bad width mode", func(c *Config) { c.Analysis.LineWidth = "bytes" }, 1},
		{"negative limit", func(c *Config) { c.Limits.MaxLines = -3 }, 1},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, 1},
		{"rate without burst", func(c *Config) { c.Server.Burst = 0 }, 1},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, 1},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			result := cfg.Validate()
			assert.Len(t, result.Errors, tt.wantErrors, result.Error())
			assert.Equal(t, tt.wantErrors == 0, result.Valid)
		})
	}
}

func TestValidate_Warnings(t *testing.T) {
	cfg := Default()
	cfg.GitHub.Token = ""
	cfg.Limits.MaxDepth = 0

	result := cfg.Validate()
	assert.False(t, result.HasErrors())
	assert.Len(t, result.Warnings, 2)
}

func TestRequire(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Require())

	cfg.Logging.Format = "xml"
	err := cfg.Require()
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "logging.format")
}
