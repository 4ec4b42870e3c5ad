package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/rohankatakam/csmell/internal/config"
	"github.com/rohankatakam/csmell/internal/errors"
	"github.com/rohankatakam/csmell/internal/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	cfgFile string
	verbose bool
	logger  *logging.Logger
	cfg     *config.Config
)

// exitError carries a process exit code without printing anything more
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		logger.Close()
	}
	if err != nil {
		if _, ok := err.(*exitError); !ok {
			fmt.Fprint(os.Stderr, errorText(err, verbose))
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for fatal errors such as invalid configuration, otherwise 1
func exitCode(err error) int {
	var ee *exitError
	if stderrors.As(err, &ee) {
		return ee.code
	}
	if errors.IsFatal(err) {
		return 2
	}
	return 1
}

// errorText renders err for stderr; verbose mode adds type, severity and context
func errorText(err error, verbose bool) string {
	var e *errors.Error
	if verbose && stderrors.As(err, &e) {
		return "Error: " + e.DetailedString()
	}
	return fmt.Sprintf("Error: %v\n", err)
}

var rootCmd = &cobra.Command{
	Use:   "csmell",
	Short: "csmell - code smell detection for Python",
	Long: `csmell parses Python source and reports:

  Code smells    functions with more than 10 statements,
                 classes with more than 20 methods,
                 loops nested directly inside loops
  Anti-patterns  assignments to an _instance attribute (Singleton)
  Lexical issues lines over 80 characters, lines with more than 3 "(",
                 one-letter function names

Thresholds are configurable; run "csmell rules" for the active set.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logrus.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}

		// Initialize logger
		logCfg := logging.Config{
			Level:      cfg.Logging.Level,
			Format:     cfg.Logging.Format,
			Output:     cfg.Logging.Output,
			MaxSize:    cfg.Logging.MaxSize,
			MaxBackups: cfg.Logging.MaxBackups,
		}
		if verbose {
			logCfg.Level = "debug"
		}
		logger, err = logging.New(logCfg)
		if err != nil {
			return err
		}
		logger.Install()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .csmell/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Set custom version template
	rootCmd.SetVersionTemplate(`csmell {{.Version}}
Build time: ` + BuildTime + `
Git commit: ` + GitCommit + `
`)

	// Add subcommands
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(configCmd)
}
