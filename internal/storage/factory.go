package storage

import (
	"github.com/sirupsen/logrus"

	"github.com/gitgauge/gitgauge-go/internal/config"
	"github.com/gitgauge/gitgauge-go/internal/errors"
)

// New opens the store selected by configuration.
func New(cfg config.StorageConfig, logger *logrus.Logger) (Store, error) {
	switch cfg.Type {
	case "postgres":
		if cfg.PostgresDSN == "" {
			return nil, errors.New(errors.KindValidation, "storage type is postgres but POSTGRES_DSN is not set")
		}
		return NewPostgresStore(cfg.PostgresDSN, logger)
	case "sqlite", "":
		return NewSQLiteStore(cfg.SQLitePath, logger)
	default:
		return nil, errors.Newf(errors.KindValidation, "unknown storage type %q", cfg.Type)
	}
}
