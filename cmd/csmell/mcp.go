package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rohankatakam/csmell/internal/analyzer"
	"github.com/rohankatakam/csmell/internal/mcp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the analyzer as MCP tools over stdio",
	Long: `Runs a Model Context Protocol server on stdin/stdout exposing the
analyze_code and list_rules tools. Logs go to the configured log output,
never to stdout.`,
	RunE: runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// stdout carries the protocol
	if cfg.Logging.Output == "stdout" {
		logrus.SetOutput(os.Stderr)
	}

	a, err := analyzer.New(cfg.AnalyzerConfig())
	if err != nil {
		return err
	}
	return mcp.NewServer(a, Version, logrus.StandardLogger()).Run(ctx)
}
