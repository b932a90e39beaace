package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jask/easybook/internal/config"
	"github.com/jask/easybook/internal/database"
	"github.com/jask/easybook/internal/database/repository"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// OpenBackend builds the persistence port selected by cfg.
func OpenBackend(_ context.Context, cfg config.StorageConfig, logger *log.Logger) (Persistence, CleanupFunc, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendSQLite:
		db, err := database.Open(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		if err := database.RunMigrations(db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("opened sqlite backend", "path", cfg.Path, "key", cfg.Key)
		return SQLitePersistence{Repo: repository.NewSnapshotRepo(db), Key: cfg.Key}, db.Close, nil
	case config.BackendFile:
		logger.Info("opened file backend", "path", cfg.Path)
		return FilePersistence{Path: cfg.Path}, noop, nil
	case config.BackendMemory:
		logger.Info("opened memory backend")
		return NewMemoryPersistence(), noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
