package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/models"
)

// SQLiteStore implements storage using SQLite (for local/development)
type SQLiteStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(path string, logger *logrus.Logger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("connect to sqlite: %w", err)
	}

	// Enable foreign keys and WAL mode for better concurrency
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		repository_name TEXT,
		repository_owner TEXT,
		username TEXT,
		analysis_type TEXT NOT NULL,
		dora_metrics TEXT,
		health_metrics TEXT,
		contributors TEXT,
		timeline TEXT,
		work_classification TEXT,
		user_analysis TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_url ON analyses(url, created_at);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	row, err := toRow(record)
	if err != nil {
		return err
	}

	query := `
		INSERT OR REPLACE INTO analyses
		(id, url, repository_name, repository_owner, username, analysis_type,
		 dora_metrics, health_metrics, contributors, timeline,
		 work_classification, user_analysis, created_at)
		VALUES (:id, :url, :repository_name, :repository_owner, :username,
		 :analysis_type, :dora_metrics, :health_metrics, :contributors,
		 :timeline, :work_classification, :user_analysis, :created_at)
	`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	return nil
}

func (s *SQLiteStore) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var row analysisRow
	query := `SELECT * FROM analyses WHERE id = ?`

	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(errors.KindNotFound, "analysis %s not found", id)
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	return row.toRecord()
}

func (s *SQLiteStore) GetLatestByURL(ctx context.Context, url string) (*models.AnalysisRecord, error) {
	var row analysisRow
	query := `SELECT * FROM analyses WHERE url = ? ORDER BY created_at DESC LIMIT 1`

	err := s.db.GetContext(ctx, &row, query, url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(errors.KindNotFound, "no analysis for %s", url)
		}
		return nil, fmt.Errorf("get analysis by url: %w", err)
	}

	return row.toRecord()
}

func (s *SQLiteStore) ListRecent(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	var rows []analysisRow
	query := `
		SELECT id, url, repository_name, repository_owner, username,
		       analysis_type, created_at
		FROM analyses ORDER BY created_at DESC LIMIT ?
	`

	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}

	summaries := make([]models.AnalysisSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, rows[i].toSummary())
	}

	return summaries, nil
}
