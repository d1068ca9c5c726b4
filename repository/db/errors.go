package db

import (
	"database/sql"
	"errors"
	"strings"

	"taskmanager/internal/domain/store"

	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// mapError translates driver errors into the store sentinels. The driver error
// stays in the chain for logging.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return errors.Join(store.ErrDuplicate, err)
		case pgForeignKeyViolation:
			return errors.Join(store.ErrReferenced, err)
		}
		return err
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return errors.Join(store.ErrDuplicate, err)
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return errors.Join(store.ErrReferenced, err)
		}
		if liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			msg := liteErr.Error()
			switch {
			case strings.Contains(msg, "UNIQUE"):
				return errors.Join(store.ErrDuplicate, err)
			case strings.Contains(msg, "FOREIGN KEY"):
				return errors.Join(store.ErrReferenced, err)
			}
		}
	}
	return err
}
