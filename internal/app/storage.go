// Package app assembles the storage backend selected by configuration.
package app

import (
	"context"
	"fmt"

	"taskmanager/internal/config"
	"taskmanager/internal/domain/store"
	"taskmanager/internal/logger"
	db "taskmanager/repository/db"
	storage "taskmanager/repository/inmemory"
)

// OpenStore returns the in-memory store for the "memory" driver and a SQL
// store otherwise, applying migrations first when cfg.Migrate is set.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (store.Store, error) {
	log := logger.FromContext(ctx)

	if cfg.Driver == "memory" {
		log.Warn("using in-memory storage, data is lost on exit")
		return storage.NewStorage(), nil
	}

	dialect, err := db.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if cfg.Migrate {
		if err := db.Migration(dialect, cfg.DSN); err != nil {
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		log.Info("migrations applied", "driver", cfg.Driver)
	}

	st, err := db.NewStorage(ctx, dialect, cfg.DSN, db.Options{MaxOpenConns: cfg.MaxOpenConns})
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.Driver, err)
	}
	return st, nil
}
