package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/hongminglow/nebula-be/internal/storage"
	"github.com/hongminglow/nebula-be/internal/storage/postgres/migrations"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

var gooseUpContext = goose.UpContext

// Store provides Postgres-backed persistence for every table.
type Store struct {
	pool *pgxpool.Pool
	db   *sql.DB
}

// Options tunes the connection pool.
type Options struct {
	MaxConns int32
}

// New connects to databaseURL, applies migrations and returns a ready store.
func New(ctx context.Context, databaseURL string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool, db: stdlib.OpenDBFromPool(pool)}
	if err := s.db.PingContext(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := RunMigrations(ctx, s.db); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing handle. Migrations are not applied.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set migration dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases database resources.
func (s *Store) Close() error {
	err := s.db.Close()
	if s.pool != nil {
		s.pool.Close()
	}
	return err
}

// mapError translates driver errors into storage sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return storage.ErrAlreadyExists
		case "23503", "22P02":
			// Foreign key misses and malformed uuids both mean the referenced row is absent.
			return storage.ErrNotFound
		}
	}
	return err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	mapped := mapError(err)
	if mapped == storage.ErrNotFound || mapped == storage.ErrAlreadyExists {
		return mapped
	}
	return fmt.Errorf("%s: %w", op, mapped)
}

type scanner interface {
	Scan(dest ...any) error
}

// assignments accumulates "column = $n" pairs for partial updates.
type assignments struct {
	parts []string
	args  []any
}

func (a *assignments) add(column string, value any) {
	a.args = append(a.args, value)
	a.parts = append(a.parts, fmt.Sprintf("%s = $%d", column, len(a.args)))
}

func (a *assignments) raw(expr string) {
	a.parts = append(a.parts, expr)
}

func (a *assignments) empty() bool {
	return len(a.parts) == 0
}

func (a *assignments) clause() string {
	return strings.Join(a.parts, ", ")
}

// next returns the placeholder for one more trailing argument.
func (a *assignments) next(value any) string {
	a.args = append(a.args, value)
	return fmt.Sprintf("$%d", len(a.args))
}

func addIf[T any](a *assignments, column string, value *T) {
	if value != nil {
		a.add(column, *value)
	}
}

func (s *Store) execDelete(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
