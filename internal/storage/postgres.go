package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/models"
)

// PostgresStore implements storage using PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPostgresStore creates a new PostgreSQL storage
func NewPostgresStore(dsn string, logger *logrus.Logger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store := &PostgresStore{
		db:     db,
		logger: logger,
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func (s *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		repository_name TEXT,
		repository_owner TEXT,
		username TEXT,
		analysis_type TEXT NOT NULL,
		dora_metrics JSONB,
		health_metrics JSONB,
		contributors JSONB,
		timeline JSONB,
		work_classification JSONB,
		user_analysis JSONB,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_url ON analyses(url, created_at);
	CREATE INDEX IF NOT EXISTS idx_analyses_created ON analyses(created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) SaveAnalysis(ctx context.Context, record *models.AnalysisRecord) error {
	row, err := toRow(record)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO analyses
		(id, url, repository_name, repository_owner, username, analysis_type,
		 dora_metrics, health_metrics, contributors, timeline,
		 work_classification, user_analysis, created_at)
		VALUES (:id, :url, :repository_name, :repository_owner, :username,
		 :analysis_type, :dora_metrics, :health_metrics, :contributors,
		 :timeline, :work_classification, :user_analysis, :created_at)
		ON CONFLICT (id) DO UPDATE SET
			dora_metrics = EXCLUDED.dora_metrics,
			health_metrics = EXCLUDED.health_metrics,
			contributors = EXCLUDED.contributors,
			timeline = EXCLUDED.timeline,
			work_classification = EXCLUDED.work_classification,
			user_analysis = EXCLUDED.user_analysis,
			created_at = EXCLUDED.created_at
	`
	if _, err := s.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var row analysisRow
	query := `SELECT * FROM analyses WHERE id = $1`

	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(errors.KindNotFound, "analysis %s not found", id)
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}

	return row.toRecord()
}

func (s *PostgresStore) GetLatestByURL(ctx context.Context, url string) (*models.AnalysisRecord, error) {
	var row analysisRow
	query := `SELECT * FROM analyses WHERE url = $1 ORDER BY created_at DESC LIMIT 1`

	err := s.db.GetContext(ctx, &row, query, url)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.Newf(errors.KindNotFound, "no analysis for %s", url)
		}
		return nil, fmt.Errorf("get analysis by url: %w", err)
	}

	return row.toRecord()
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]models.AnalysisSummary, error) {
	var rows []analysisRow
	query := `
		SELECT id, url, repository_name, repository_owner, username,
		       analysis_type, created_at
		FROM analyses ORDER BY created_at DESC LIMIT $1
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
