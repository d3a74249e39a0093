package main

import (
	"github.com/gitgauge/gitgauge-go/internal/analysis"
	"github.com/gitgauge/gitgauge-go/internal/analyzer"
	"github.com/gitgauge/gitgauge-go/internal/cache"
	"github.com/gitgauge/gitgauge-go/internal/config"
	"github.com/gitgauge/gitgauge-go/internal/github"
	"github.com/gitgauge/gitgauge-go/internal/ingestion"
	"github.com/gitgauge/gitgauge-go/internal/stats"
	"github.com/gitgauge/gitgauge-go/internal/storage"
)

// deps is the wired dependency graph shared by serve, analyze and mcp.
type deps struct {
	service *analysis.Service
	store   storage.Store
	tracker *stats.Tracker
}

// buildDeps wires the GitHub client, storage and analysis service from the
// loaded configuration. The token chain falls back to the keychain and
// credentials file when the config carries no token.
func buildDeps() (*deps, error) {
	token := cfg.GitHub.Token
	if token == "" {
		cm := config.NewCredentialManager(logger)
		var err error
		token, err = cm.GetGitHubToken()
		if err != nil {
			return nil, err
		}
	}
	if token == "" {
		logger.Warn("no GitHub token configured, using unauthenticated rate limits")
	}

	store, err := storage.New(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	tracker := stats.NewTracker()
	metadataCache := cache.New(cfg.Cache.MetadataTTL)
	client := github.NewClient(token, float64(cfg.GitHub.RateLimit), metadataCache, tracker, logger)

	service := analysis.NewService(client, store, analyzer.New(), analysis.Options{
		WindowDays: cfg.Analysis.WindowDays,
		ResultTTL:  cfg.Cache.ResultTTL,
		Ingestion: ingestion.Options{
			MaxCommits:  cfg.Analysis.MaxCommits,
			MaxDetailed: cfg.Analysis.MaxDetailed,
		},
	}, logger)

	return &deps{service: service, store: store, tracker: tracker}, nil
}
