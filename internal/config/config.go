package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/rohankatakam/csmell/internal/analyzer"
	"github.com/rohankatakam/csmell/internal/limits"
	"github.com/rohankatakam/csmell/internal/rules"
)

// Config holds all configuration settings
type Config struct {
	// Rule thresholds and rule selection
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`

	// Bounds on a single analysis call
	Limits limits.Limits `yaml:"limits" mapstructure:"limits"`

	// HTTP transport
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// GitHub source loader
	GitHub GitHubConfig `yaml:"github" mapstructure:"github"`

	// Logging for the CLI and transports
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

type AnalysisConfig struct {
	rules.Thresholds `yaml:",inline" mapstructure:",squash"`
	DisabledRules    []string `yaml:"disabled_rules" mapstructure:"disabled_rules"`
	Workers          int      `yaml:"workers" mapstructure:"workers"` // parallel files in batch mode
}

type ServerConfig struct {
	Addr              string        `yaml:"addr" mapstructure:"addr"`
	MaxUploadBytes    int64         `yaml:"max_upload_bytes" mapstructure:"max_upload_bytes"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 = unlimited
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	AnalysisTimeout   time.Duration `yaml:"analysis_timeout" mapstructure:"analysis_timeout"`
}

type GitHubConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	RateLimit int    `yaml:"rate_limit" mapstructure:"rate_limit"` // Requests per second
}

type LoggingConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`   // logrus level name
	Format     string `yaml:"format" mapstructure:"format"` // "text" or "json"
	Output     string `yaml:"output" mapstructure:"output"` // "stdout", "stderr" or a file path
	MaxSize    int64  `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Thresholds: rules.DefaultThresholds(),
			Workers:    4,
		},
		Limits: limits.Default(),
		Server: ServerConfig{
			Addr:              ":8000",
			MaxUploadBytes:    10 * 1024 * 1024, // 10MB
			RequestsPerSecond: 20,
			Burst:             40,
			AnalysisTimeout:   10 * time.Second,
		},
		GitHub: GitHubConfig{
			RateLimit: 10, // 10 requests per second
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxBackups: 3,
		},
	}
}

// AnalyzerConfig returns the subset of settings the analyzer consumes
func (c *Config) AnalyzerConfig() analyzer.Config {
	return analyzer.Config{
		Thresholds:    c.Analysis.Thresholds,
		Limits:        c.Limits,
		DisabledRules: append([]string(nil), c.Analysis.DisabledRules...),
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
	// Load .env files first (in order of precedence)
	loadEnvFiles()

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, Default())

	// Load from environment variables: CSMELL_ANALYSIS_MAX_LINE_LENGTH etc.
	v.SetEnvPrefix("CSMELL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Try to find config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search for config in standard locations
		v.SetConfigName("config")
		v.AddConfigPath(".csmell")
		v.AddConfigPath(".")
		homeDir, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(homeDir, ".csmell"))
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

// setDefaults registers every leaf key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	t := cfg.Analysis.Thresholds
	v.SetDefault("analysis.max_function_statements", t.MaxFunctionStatements)
	v.SetDefault("analysis.max_class_methods", t.MaxClassMethods)
	v.SetDefault("analysis.max_line_length", t.MaxLineLength)
	v.SetDefault("analysis.max_open_parens", t.MaxOpenParens)
	v.SetDefault("analysis.line_width", string(t.LineWidth))
	v.SetDefault("analysis.disabled_rules", []string{})
	v.SetDefault("analysis.workers", cfg.Analysis.Workers)

	v.SetDefault("limits.max_source_bytes", cfg.Limits.MaxSourceBytes)
	v.SetDefault("limits.max_depth", cfg.Limits.MaxDepth)
	v.SetDefault("limits.max_nodes", cfg.Limits.MaxNodes)
	v.SetDefault("limits.max_lines", cfg.Limits.MaxLines)
	v.SetDefault("limits.max_line_length", cfg.Limits.MaxLineLength)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.max_upload_bytes", cfg.Server.MaxUploadBytes)
	v.SetDefault("server.requests_per_second", cfg.Server.RequestsPerSecond)
	v.SetDefault("server.burst", cfg.Server.Burst)
	v.SetDefault("server.analysis_timeout", cfg.Server.AnalysisTimeout)

	v.SetDefault("github.token", cfg.GitHub.Token)
	v.SetDefault("github.rate_limit", cfg.GitHub.RateLimit)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.output", cfg.Logging.Output)
	v.SetDefault("logging.max_size", cfg.Logging.MaxSize)
	v.SetDefault("logging.max_backups", cfg.Logging.MaxBackups)
}

// loadEnvFiles loads .env files in order of precedence
func loadEnvFiles() {
	envFiles := []string{
		".env.local", // Local overrides (highest precedence)
		".env",       // Main environment file
	}

	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			// godotenv.Load never overrides variables that are already set
			_ = godotenv.Load(file)
		}
	}

	// Also try loading from home directory
	homeDir, _ := os.UserHomeDir()
	homeEnvFile := filepath.Join(homeDir, ".csmell", ".env")
	if _, err := os.Stat(homeEnvFile); err == nil {
		_ = godotenv.Load(homeEnvFile)
	}
}

// applyEnvOverrides applies the unprefixed environment variables that other
// tools already set
func applyEnvOverrides(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}
	if level := os.Getenv("CSMELL_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if rateLimit := os.Getenv("GITHUB_RATE_LIMIT"); rateLimit != "" {
		if rate, err := strconv.Atoi(rateLimit); err == nil {
			cfg.GitHub.RateLimit = rate
		}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// YAML renders the configuration; the GitHub token is masked
func (c *Config) YAML() ([]byte, error) {
	masked := *c
	if masked.GitHub.Token != "" {
		masked.GitHub.Token = "********"
	}
	return yaml.Marshal(&masked)
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	path = expandPath(path)

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
