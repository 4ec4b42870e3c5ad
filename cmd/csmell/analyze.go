package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rohankatakam/csmell/internal/analyzer"
	"github.com/rohankatakam/csmell/internal/git"
	"github.com/rohankatakam/csmell/internal/github"
	"github.com/rohankatakam/csmell/internal/models"
	"github.com/rohankatakam/csmell/internal/output"
	"github.com/rohankatakam/csmell/internal/source"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// analyzeCmd reports code smells for files, stdin, staged changes or a GitHub path
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|dir|-]...",
	Short: "Detect code smells in Python source",
	Long: `Analyzes Python files and reports code smells, anti-patterns and lexical issues.

Directories are searched for .py and .pyi files. Use "-" to read standard input.
Without arguments inside a git repository, the Python files changed since HEAD
are analyzed.

Examples:
  # Analyze a file
  csmell analyze app.py

  # Analyze the Python files changed since the last commit
  csmell analyze

  # Analyze a package as JSON
  csmell analyze src/ --format json

  # Analyze a file on GitHub
  csmell analyze --github psf/requests/src/requests/api.py@main

  # Pre-commit hook: analyze staged Python files
  csmell analyze --pre-commit`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "", "Output format: text, quiet, json or yaml (default: text, quiet in git hooks)")
	analyzeCmd.Flags().Bool("detailed", false, "Include rule IDs, categories and lines in json/yaml output")
	analyzeCmd.Flags().String("github", "", "Analyze a GitHub path: owner/repo[/path][@ref]")
	analyzeCmd.Flags().Bool("pre-commit", false, "Analyze files staged for commit")
	analyzeCmd.Flags().Int("workers", 0, "Parallel analyses (default: analysis.workers)")

	analyzeCmd.MarkFlagsMutuallyExclusive("github", "pre-commit")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	format, _ := cmd.Flags().GetString("format")
	detailed, _ := cmd.Flags().GetBool("detailed")
	ghPath, _ := cmd.Flags().GetString("github")
	preCommit, _ := cmd.Flags().GetBool("pre-commit")
	workers, _ := cmd.Flags().GetInt("workers")

	if format == "" {
		format = output.DefaultFormat()
	}
	if preCommit && format == output.FormatText {
		format = output.FormatQuiet
	}
	if workers <= 0 {
		workers = cfg.Analysis.Workers
	}

	formatter, err := output.NewFormatter(format, output.Options{
		Color:    term.IsTerminal(int(os.Stdout.Fd())),
		Detailed: detailed,
	})
	if err != nil {
		return err
	}

	a, err := analyzer.New(cfg.AnalyzerConfig())
	if err != nil {
		return err
	}

	start := time.Now()
	sources, err := loadSources(ctx, args, ghPath, preCommit)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		logrus.Info("No Python files to analyze")
		return nil
	}

	results, err := source.AnalyzeAll(ctx, a, sources, workers)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"files":    len(results),
		"duration": time.Since(start),
	}).Debug("analysis complete")

	if err := formatter.Format(results, os.Stdout); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if failed := countFailed(results); failed > 0 {
		logrus.WithField("failed", failed).Debug("some files could not be analyzed")
		return &exitError{code: 1}
	}
	return nil
}

// loadSources resolves the command's inputs into in-memory sources
func loadSources(ctx context.Context, args []string, ghPath string, preCommit bool) ([]source.Source, error) {
	maxBytes := int64(cfg.Limits.MaxSourceBytes)

	switch {
	case ghPath != "":
		if len(args) > 0 {
			return nil, fmt.Errorf("--github cannot be combined with file arguments")
		}
		loc, err := github.ParseLocation(ghPath)
		if err != nil {
			return nil, err
		}
		client := github.NewClient(cfg.GitHub.Token, cfg.GitHub.RateLimit)
		logrus.WithField("location", loc.String()).Debug("fetching from GitHub")
		return client.FetchSources(ctx, loc)

	case preCommit:
		if err := git.DetectGitRepo(); err != nil {
			return nil, err
		}
		return git.StagedSources(maxBytes)
	}

	if len(args) == 0 {
		// Inside a repository, default to the files changed since HEAD
		if err := git.DetectGitRepo(); err != nil {
			return nil, fmt.Errorf("no input: pass files, directories, \"-\", --github or --pre-commit")
		}
		logrus.Debug("no files given, analyzing files changed since HEAD")
		return git.ChangedSources(maxBytes)
	}
	paths, err := source.Expand(args)
	if err != nil {
		return nil, err
	}

	sources := make([]source.Source, 0, len(paths))
	for _, p := range paths {
		src, err := source.ReadFile(p, maxBytes)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func countFailed(results []models.FileReport) int {
	n := 0
	for _, r := range results {
		if r.Failed() {
			n++
		}
	}
	return n
}
