// Package backend selects and wires the record store implementation.
package backend

import (
	"fmt"
	"log/slog"

	"burokasa/internal/config"
	"burokasa/internal/services"
	"burokasa/internal/storage"
)

// New creates the record store named by the configuration.
func New(cfg *config.Config, logger *slog.Logger) (services.RecordStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite repository: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, nil
	case "memory":
		logger.Info("Initialized memory backend")
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
