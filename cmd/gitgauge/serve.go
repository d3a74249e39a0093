package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gitgauge/gitgauge-go/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP API",
	Long: `Starts the HTTP API:

  POST /api/analyze       run an analysis for a repository or user URL
  GET  /api/analysis/{id} fetch a stored analysis
  GET  /api/analyses      list recent analyses
  GET  /api/stats         GitHub API call statistics
  GET  /api/health        liveness probe`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.store.Close()

	addr := serveAddr
	if addr == "" {
		addr = cfg.Server.ListenAddr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(d.service, d.store, d.tracker, logger)
	return srv.Run(ctx, addr)
}
