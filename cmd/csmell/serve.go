package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rohankatakam/csmell/internal/analyzer"
	"github.com/rohankatakam/csmell/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analyzer over HTTP",
	Long: `Starts an HTTP server that accepts a multipart upload on POST /analyze/
(field "codeFile") and responds with the JSON report.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	if err := cfg.Require(); err != nil {
		return err
	}

	a, err := analyzer.New(cfg.AnalyzerConfig())
	if err != nil {
		return err
	}

	srv := server.New(a, server.Config{
		MaxUploadBytes:    cfg.Server.MaxUploadBytes,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
		AnalysisTimeout:   cfg.Server.AnalysisTimeout,
	}, logrus.StandardLogger())

	return srv.ListenAndServe(ctx, addr)
}
