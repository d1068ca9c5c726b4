package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

var ErrInMemoryMigration = errors.New("migrations need a file-backed sqlite database")

// Migration applies every pending up migration for the dialect. It opens its
// own connection so the caller's pool is left untouched.
func Migration(dialect Dialect, dsn string) error {
	url, err := migrationURL(dialect, dsn)
	if err != nil {
		return err
	}

	sub, err := fs.Sub(migrationFS, "migrations/"+string(dialect))
	if err != nil {
		return fmt.Errorf("open %s migrations: %w", dialect, err)
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("load %s migrations: %w", dialect, err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// migrationURL converts a storage dsn into the url golang-migrate expects.
func migrationURL(dialect Dialect, dsn string) (string, error) {
	if dsn == "" {
		return "", fmt.Errorf("empty %s dsn", dialect)
	}

	switch dialect {
	case Postgres:
		for _, prefix := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(dsn, prefix) {
				return "pgx5://" + strings.TrimPrefix(dsn, prefix), nil
			}
		}
		if strings.HasPrefix(dsn, "pgx5://") {
			return dsn, nil
		}
		return "", fmt.Errorf("postgres dsn must be a postgres:// url")
	case SQLite:
		path := strings.TrimPrefix(dsn, "file:")
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		if path == "" || path == ":memory:" || strings.Contains(dsn, "mode=memory") {
			return "", ErrInMemoryMigration
		}
		return "sqlite://" + path, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", dialect)
	}
}
