// Package mcp serves the analyzer as Model Context Protocol tools over stdio.
package mcp

import (
	"context"
	"fmt"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/rohankatakam/csmell/internal/models"
	"github.com/rohankatakam/csmell/internal/rules"
)

// Tool names
const (
	ToolAnalyzeCode = "analyze_code"
	ToolListRules   = "list_rules"
)

// Analyzer is the part of analyzer.Analyzer the tools need
type Analyzer interface {
	Analyze(source string) (*models.Report, error)
	Rules() *rules.Registry
}

// AnalyzeInput is the analyze_code argument object
type AnalyzeInput struct {
	Source string `json:"source" jsonschema:"Python source text to analyze"`
}

// RuleInfo describes one registered rule
type RuleInfo struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// RulesOutput is the list_rules result
type RulesOutput struct {
	Rules []RuleInfo `json:"rules"`
}

// Server registers the tools on an SDK server
type Server struct {
	analyzer Analyzer
	log      logrus.FieldLogger
	server   *mcpsdk.Server
}

// NewServer creates the MCP server with all tools registered
func NewServer(a Analyzer, version string, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{
		analyzer: a,
		log:      log,
		server:   mcpsdk.NewServer(&mcpsdk.Implementation{Name: "csmell", Version: version}, nil),
	}

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        ToolAnalyzeCode,
		Description: "Detect code smells, anti-patterns and lexical issues in Python source. Returns code_smells, anti_patterns and lexical_issues as lists of messages.",
	}, s.analyzeCode)

	mcpsdk.AddTool(s.server, &mcpsdk.Tool{
		Name:        ToolListRules,
		Description: "List the detection rules with their category and description.",
	}, s.listRules)

	return s
}

// SDK returns the underlying SDK server
func (s *Server) SDK() *mcpsdk.Server {
	return s.server
}

// Run serves over stdin/stdout until the client disconnects or ctx ends
func (s *Server) Run(ctx context.Context) error {
	s.log.Info("mcp server started on stdio")
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) analyzeCode(ctx context.Context, req *mcpsdk.CallToolRequest, in AnalyzeInput) (*mcpsdk.CallToolResult, models.Wire, error) {
	start := time.Now()
	report, err := s.analyzer.Analyze(in.Source)
	if err != nil {
		s.log.WithError(err).Debug("analyze_code failed")
		return nil, models.Wire{}, err
	}

	s.log.WithFields(logrus.Fields{
		"findings": report.Total(),
		"duration": time.Since(start),
	}).Debug("analyze_code")

	wire := report.Wire()
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: summary(report)}},
	}, wire, nil
}

func (s *Server) listRules(ctx context.Context, req *mcpsdk.CallToolRequest, _ struct{}) (*mcpsdk.CallToolResult, RulesOutput, error) {
	var out RulesOutput
	for _, r := range s.analyzer.Rules().All() {
		out.Rules = append(out.Rules, RuleInfo{
			ID:          r.ID(),
			Category:    string(r.Category()),
			Description: r.Description(),
		})
	}
	return nil, out, nil
}

func summary(r *models.Report) string {
	if r.Empty() {
		return "No issues found."
	}
	return fmt.Sprintf("%d code smells, %d anti-patterns, %d lexical issues.",
		len(r.CodeSmells), len(r.AntiPatterns), len(r.LexicalIssues))
}
