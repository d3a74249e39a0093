// Package mcp implements a Model Context Protocol server exposing GitGauge
// analyses as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"sort"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gitgauge/gitgauge-go/internal/models"
	"github.com/gitgauge/gitgauge-go/internal/storage"
)

const (
	serverName    = "gitgauge"
	serverVersion = "1.0.0"
)

// Analyzer runs one analysis end to end.
type Analyzer interface {
	Analyze(ctx context.Context, req models.AnalysisRequest) (*models.AnalysisRecord, error)
}

// Server wraps the MCP SDK server with GitGauge tool registrations.
type Server struct {
	inner    *mcpsdk.Server
	analyzer Analyzer
	store    storage.Store
	tools    []string
}

// NewServer creates an MCP server with all GitGauge tools registered.
func NewServer(analyzer Analyzer, store storage.Store) *Server {
	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		nil,
	)

	srv := &Server{
		inner:    inner,
		analyzer: analyzer,
		store:    store,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)
	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	if err := s.inner.Run(ctx, &mcpsdk.StdioTransport{}); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

// RunWithTransport starts the MCP server on the given transport.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	if err := s.inner.Run(ctx, transport); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameAnalyze,
		Description: analyzeToolDescription,
	}, s.handleAnalyze)
	s.tools = append(s.tools, ToolNameAnalyze)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameGet,
		Description: getToolDescription,
	}, s.handleGet)
	s.tools = append(s.tools, ToolNameGet)

	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameRecent,
		Description: recentToolDescription,
	}, s.handleRecent)
	s.tools = append(s.tools, ToolNameRecent)
}
