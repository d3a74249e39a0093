package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// Tool name constants.
const (
	ToolNameAnalyze = "gitgauge_analyze"
	ToolNameGet     = "gitgauge_get_analysis"
	ToolNameRecent  = "gitgauge_recent_analyses"
)

const (
	analyzeToolDescription = "Analyze a GitHub repository or user profile. Returns DORA metrics, " +
		"repository health, contributor rankings, an activity timeline and a work breakdown for " +
		"repositories, or portfolio and activity views for users."
	getToolDescription    = "Fetch a previously completed analysis by its ID."
	recentToolDescription = "List recently completed analyses, newest first."
)

// Input types (auto-generate JSON schemas via struct tags).

// AnalyzeInput is the input schema for the gitgauge_analyze tool.
type AnalyzeInput struct {
	URL  string `json:"url"            jsonschema:"GitHub URL, either github.com/owner/repo or github.com/username"`
	Type string `json:"type,omitempty" jsonschema:"analysis type, repository or user (default: inferred from the URL)"`
}

// GetInput is the input schema for the gitgauge_get_analysis tool.
type GetInput struct {
	ID string `json:"id" jsonschema:"analysis ID returned by gitgauge_analyze"`
}

// RecentInput is the input schema for the gitgauge_recent_analyses tool.
type RecentInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of analyses to return (default: 10)"`
}

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

func (s *Server) handleAnalyze(ctx context.Context, _ *mcpsdk.CallToolRequest, input AnalyzeInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	record, err := s.analyzer.Analyze(ctx, models.AnalysisRequest{
		URL:  input.URL,
		Type: models.AnalysisType(input.Type),
	})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(record)
}

func (s *Server) handleGet(ctx context.Context, _ *mcpsdk.CallToolRequest, input GetInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	record, err := s.store.GetAnalysis(ctx, input.ID)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(record)
}

func (s *Server) handleRecent(ctx context.Context, _ *mcpsdk.CallToolRequest, input RecentInput) (*mcpsdk.CallToolResult, ToolOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	summaries, err := s.store.ListRecent(ctx, limit)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(summaries)
}
