// Package db implements the store contracts over database/sql for PostgreSQL
// (pgx stdlib driver) and SQLite (modernc driver).
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taskmanager/internal/domain/store"
	"taskmanager/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// rowScanner is *sql.Row or *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

type Options struct {
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
}

type Storage struct {
	db      *sql.DB
	dialect Dialect
	repos
}

var _ store.Store = (*Storage)(nil)

// NewStorage opens and pings the database. For sqlite, dsn is a file path.
func NewStorage(ctx context.Context, dialect Dialect, dsn string, opts Options) (*Storage, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty %s dsn", dialect)
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 15 * time.Second
	}

	source := dsn
	if dialect == SQLite {
		source = sqliteSource(dsn)
	}

	conn, err := sql.Open(dialect.driverName(), source)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dialect, err)
	}

	switch dialect {
	case SQLite:
		// one connection serialises writers and keeps the pragmas in effect
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	default:
		if opts.MaxOpenConns > 0 {
			conn.SetMaxOpenConns(opts.MaxOpenConns)
			conn.SetMaxIdleConns(opts.MaxOpenConns / 2)
		}
		if opts.ConnMaxLifetime > 0 {
			conn.SetConnMaxLifetime(opts.ConnMaxLifetime)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", dialect, err)
	}

	logger.FromContext(ctx).Info("database connection established", "driver", string(dialect))

	return &Storage{
		db:      conn,
		dialect: dialect,
		repos:   repos{q: conn, d: dialect},
	}, nil
}

func sqliteSource(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (s *Storage) Dialect() Dialect {
	return s.dialect
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// WithinTx commits when fn returns nil and rolls back on error or panic.
func (s *Storage) WithinTx(ctx context.Context, fn func(tx store.Repositories) error) error {
	log := logger.FromContext(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", "error", err)
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to roll back transaction after panic", "error", rbErr, "panic", p)
			}
			panic(p)
		}
	}()

	if err := fn(repos{q: tx, d: s.dialect}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("failed to roll back transaction", "rollback_error", rbErr, "error", err)
			return fmt.Errorf("roll back transaction: %v (original error: %w)", rbErr, err)
		}
		log.Debug("rolled back transaction", "error", err)
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transaction", "error", err)
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

// repos binds the entity repositories to one querier.
type repos struct {
	q querier
	d Dialect
}

func (r repos) Users() store.UserRepository               { return &userRepo{q: r.q, d: r.d} }
func (r repos) TaskStatuses() store.TaskStatusRepository { return &taskStatusRepo{q: r.q, d: r.d} }
func (r repos) Labels() store.LabelRepository             { return &labelRepo{q: r.q, d: r.d} }
func (r repos) Tasks() store.TaskRepository               { return &taskRepo{q: r.q, d: r.d} }

// Shared helpers used by every repository.

func exists(ctx context.Context, q querier, d Dialect, query string, args ...any) (bool, error) {
	var found int
	err := q.QueryRowContext(ctx, d.rebind(query), args...).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, mapError(err)
	}
	return true, nil
}

func count(ctx context.Context, q querier, table string) (int64, error) {
	var n int64
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, mapError(err)
	}
	return n, nil
}

func deleteByID(ctx context.Context, q querier, d Dialect, table string, id int64) error {
	if _, err := q.ExecContext(ctx, d.rebind("DELETE FROM "+table+" WHERE id = ?"), id); err != nil {
		return mapError(err)
	}
	return nil
}

// updated returns store.ErrNotFound when an UPDATE matched no row.
func updated(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
