package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

// dbtx is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

// NewStore opens the database file at path. Every pooled connection gets
// a busy timeout, WAL journaling and foreign keys, and transactions start
// IMMEDIATE so a read-then-insert never fails with a lock upgrade.
func NewStore(path string) (*Store, error) {
	dsn := buildDSN(path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	return &Store{db: db, dsn: dsn}, nil
}

func buildDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path +
		"?_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)" +
		"&_pragma=foreign_keys(1)" +
		"&_txlock=immediate"
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Acquire checks out a dedicated connection.
func (s *Store) Acquire(ctx context.Context) (store.Conn, error) {
	c, err := s.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: acquire: %w", err)
	}
	return &conn{c: c}, nil
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	return runTx(newTx(tx), fn)
}

func (s *Store) Users() store.Users { return &usersRepo{db: s.db} }

// runTx commits when fn succeeds and rolls back otherwise, including on
// panic.
func runTx(tx *txStore, fn func(tx store.Tx) error) error {
	defer func() {
		_ = tx.Rollback() // safe to call even after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapUniqueViolation turns "UNIQUE constraint failed: users.<col>" into
// the matching store error.
func mapUniqueViolation(err error) error {
	var se *msqlite.Error
	if !errors.As(err, &se) || se.Code() != sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return err
	}

	msg := se.Error()
	switch {
	case strings.Contains(msg, "users.username"):
		return fmt.Errorf("%w: %v", store.ErrDuplicateUsername, err)
	case strings.Contains(msg, "users.email"):
		return fmt.Errorf("%w: %v", store.ErrDuplicateEmail, err)
	default:
		return fmt.Errorf("%w: %v", store.ErrAlreadyExists, err)
	}
}
