package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gitgauge/gitgauge-go/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol server on stdio",
	Long: `Runs an MCP server exposing GitGauge as tools for AI assistants:

  gitgauge_analyze          analyze a repository or user URL
  gitgauge_get_analysis     fetch a stored analysis by ID
  gitgauge_recent_analyses  list recent analyses

Logs go to stderr; stdout carries the MCP transport.`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.store.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return mcp.NewServer(d.service, d.store).Run(ctx)
}
