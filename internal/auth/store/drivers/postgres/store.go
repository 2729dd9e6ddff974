package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

const uniqueViolation = "23505"

// dbtx is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	pool *pgxpool.Pool
	dsn  string
}

// NewStore connects a pool to the database at dsn, a postgres:// URL.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", err)
	}

	return &Store{pool: pool, dsn: dsn}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Acquire checks out a dedicated connection.
func (s *Store) Acquire(ctx context.Context) (store.Conn, error) {
	c, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: acquire: %w", err)
	}
	return &conn{c: c}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	return runTx(ctx, tx, fn)
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.pool} }

func runTx(ctx context.Context, tx pgx.Tx, fn func(tx store.Tx) error) error {
	t := &txStore{ctx: ctx, tx: tx}
	defer func() {
		_ = t.Rollback() // no-op after commit
	}()

	if err := fn(t); err != nil {
		return err
	}
	return t.Commit()
}

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}

	switch pgErr.ConstraintName {
	case "ix_users_username":
		return fmt.Errorf("%w: %v", store.ErrDuplicateUsername, err)
	case "ix_users_email":
		return fmt.Errorf("%w: %v", store.ErrDuplicateEmail, err)
	default:
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	}
}
