package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/gitgauge/gitgauge-go/internal/errors"
	"github.com/gitgauge/gitgauge-go/internal/models"
)

// analysisRow is the flat row shape shared by both backends. Metric bundles
// travel as JSON text, NULL when the analysis mode did not produce them.
type analysisRow struct {
	ID                 string         `db:"id"`
	URL                string         `db:"url"`
	RepositoryName     sql.NullString `db:"repository_name"`
	RepositoryOwner    sql.NullString `db:"repository_owner"`
	Username           sql.NullString `db:"username"`
	AnalysisType       string         `db:"analysis_type"`
	DoraMetrics        sql.NullString `db:"dora_metrics"`
	HealthMetrics      sql.NullString `db:"health_metrics"`
	Contributors       sql.NullString `db:"contributors"`
	Timeline           sql.NullString `db:"timeline"`
	WorkClassification sql.NullString `db:"work_classification"`
	UserAnalysis       sql.NullString `db:"user_analysis"`
	CreatedAt          time.Time      `db:"created_at"`
}

func toRow(record *models.AnalysisRecord) (*analysisRow, error) {
	row := &analysisRow{
		ID:              record.ID,
		URL:             record.URL,
		RepositoryName:  nullable(record.RepositoryName),
		RepositoryOwner: nullable(record.RepositoryOwner),
		Username:        nullable(record.Username),
		AnalysisType:    string(record.AnalysisType),
		CreatedAt:       record.CreatedAt,
	}

	for _, field := range []struct {
		dst   *sql.NullString
		value interface{}
		set   bool
	}{
		{&row.DoraMetrics, record.DoraMetrics, record.DoraMetrics != nil},
		{&row.HealthMetrics, record.HealthMetrics, record.HealthMetrics != nil},
		{&row.Contributors, record.Contributors, record.Contributors != nil},
		{&row.Timeline, record.Timeline, record.Timeline != nil},
		{&row.WorkClassification, record.WorkClassification, record.WorkClassification != nil},
		{&row.UserAnalysis, record.UserAnalysis, record.UserAnalysis != nil},
	} {
		if !field.set {
			continue
		}
		data, err := json.Marshal(field.value)
		if err != nil {
			return nil, errors.Wrap(err, errors.KindUnknown, "encode analysis payload")
		}
		*field.dst = sql.NullString{String: string(data), Valid: true}
	}

	return row, nil
}

func (r *analysisRow) toRecord() (*models.AnalysisRecord, error) {
	record := &models.AnalysisRecord{
		ID:              r.ID,
		URL:             r.URL,
		RepositoryName:  r.RepositoryName.String,
		RepositoryOwner: r.RepositoryOwner.String,
		Username:        r.Username.String,
		AnalysisType:    models.AnalysisType(r.AnalysisType),
		CreatedAt:       r.CreatedAt,
	}

	for _, field := range []struct {
		src sql.NullString
		dst interface{}
	}{
		{r.DoraMetrics, &record.DoraMetrics},
		{r.HealthMetrics, &record.HealthMetrics},
		{r.Contributors, &record.Contributors},
		{r.Timeline, &record.Timeline},
		{r.WorkClassification, &record.WorkClassification},
		{r.UserAnalysis, &record.UserAnalysis},
	} {
		if !field.src.Valid {
			continue
		}
		if err := json.Unmarshal([]byte(field.src.String), field.dst); err != nil {
			return nil, errors.Wrap(err, errors.KindUnknown, "decode analysis payload")
		}
	}

	return record, nil
}

func (r *analysisRow) toSummary() models.AnalysisSummary {
	return models.AnalysisSummary{
		ID:              r.ID,
		URL:             r.URL,
		RepositoryName:  r.RepositoryName.String,
		RepositoryOwner: r.RepositoryOwner.String,
		Username:        r.Username.String,
		AnalysisType:    models.AnalysisType(r.AnalysisType),
		CreatedAt:       r.CreatedAt,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
