// Package mcpserver exposes the analyzer over the Model Context Protocol,
// so agents can ask for dead-code reports without shelling out.
package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/driftdetect/deadwood/internal/analysis"
	"github.com/driftdetect/deadwood/pkg/config"
	"github.com/driftdetect/deadwood/pkg/models"
)

// Server wraps the MCP server with the analyzer tool registered.
type Server struct {
	server *mcp.Server
}

// NewServer creates the server.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "deadwood",
		Version: version,
	}, nil)

	s := &Server{server: server}
	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_dead_code",
		Description: describeAnalyze(),
	}, handleAnalyze)
	return s
}

// Run serves over stdio until the context ends.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// AnalyzeInput is the tool input.
type AnalyzeInput struct {
	Path          string   `json:"path,omitempty" jsonschema:"Project root to analyze. Defaults to the current directory."`
	MinConfidence string   `json:"min_confidence,omitempty" jsonschema:"Minimum confidence to report: low, medium, high, or confirmed."`
	DetectCycles  bool     `json:"detect_cycles,omitempty" jsonschema:"Also report zombie cycles (mutually dependent dead code)."`
	Coverage      []string `json:"coverage,omitempty" jsonschema:"Paths to JaCoCo/Kover XML or LCOV coverage reports."`
	Format        string   `json:"format,omitempty" jsonschema:"Output format: toon (default) or json."`
}

func describeAnalyze() string {
	return `Finds dead code in an Android Kotlin/Java source tree: unreferenced
declarations, write-only properties, unused parameters, unused enum cases
and sealed variants, redundant overrides, unused intent extras, and unused
resources.

USE WHEN:
- Auditing a codebase before deleting legacy features
- Estimating cleanup effort after a refactor
- Verifying that a removal left no orphans behind

INTERPRETING RESULTS:
- confidence "confirmed": coverage or R8/ProGuard output agrees, safe
- confidence "high": private/internal symbol, static view is complete
- confidence "medium": default static verdict, public surface included
- confidence "low": unrecognized annotations on the symbol or its
  enclosing class; verify manually before deleting

Reflection, DI containers, and XML bindings are modeled through a large
known-annotation set; anything outside it lowers confidence instead of
disappearing.`
}

func handleAnalyze(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	root := input.Path
	if root == "" {
		root = "."
	}
	cfg, err := config.Load("", root)
	if err != nil {
		return toolError(err.Error())
	}

	outcome, err := analysis.Run(ctx, analysis.Options{
		Root:          root,
		Cfg:           cfg,
		MinConfidence: models.ParseConfidence(input.MinConfidence),
		DetectCycles:  input.DetectCycles,
		CoverageFiles: input.Coverage,
	})
	if err != nil {
		return toolError(err.Error())
	}

	report := models.NewReport(outcome.Findings, outcome.Summary)
	text, err := marshal(report, input.Format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

func marshal(data any, format string) (string, error) {
	if format == "json" {
		out, err := json.MarshalIndent(data, "", "  ")
		return string(out), err
	}
	out, err := toon.Marshal(data, toon.WithIndent(2))
	return string(out), err
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + msg}},
		IsError: true,
	}, nil, nil
}
