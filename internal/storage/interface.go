// Package storage persists analysis results. Metric payloads are stored as
// JSON columns: they are read back whole, never queried field by field.
package storage

import (
	"context"

	"github.com/gitgauge/gitgauge-go/internal/models"
)

// Store defines the storage interface.
type Store interface {
	// SaveAnalysis persists one completed analysis run.
	SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error

	// GetAnalysis returns a stored analysis by ID.
	GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error)

	// GetLatestByURL returns the most recent stored analysis for a URL.
	GetLatestByURL(ctx context.Context, url string) (*models.AnalysisRecord, error)

	// ListRecent returns summaries of the most recent analyses, newest first.
	ListRecent(ctx context.Context, limit int) ([]models.AnalysisSummary, error)

	// Close closes the underlying connection.
	Close() error
}
