package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// Unique constraint violations, distinguished so registration can
	// report which field collided even when it lost an insert race.
	ErrDuplicateUsername = fmt.Errorf("%w: username", ErrAlreadyExists)
	ErrDuplicateEmail    = fmt.Errorf("%w: email", ErrAlreadyExists)
)

// Querier exposes the repositories. It is implemented by the Store itself,
// by a request scoped Conn and by a Tx, so the same service code runs
// against any of them.
type Querier interface {
	Users() Users
}

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement this.
type Store interface {
	Querier

	// Acquire checks a dedicated connection out of the pool. The caller
	// MUST Release it on every path.
	Acquire(ctx context.Context) (Conn, error)

	// WithTx runs fn in a transaction on any pooled connection. If fn
	// returns an error the transaction is rolled back, otherwise committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases the pool.
	Close() error
}

// Conn is a persistence handle scoped to one unit of work, normally one
// HTTP request.
type Conn interface {
	Querier

	// WithTx runs fn in a transaction on this connection.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Release returns the connection to the pool. Calling it more than once
	// is a no-op.
	Release()
}

// Tx is a transactional Querier. Nested transactions are not supported.
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByUsername looks up the normalised form of username.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// GetUserByEmail looks up the normalised form of email.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts u (username and email already normalised) and
	// returns it with ID filled in. Unique violations map to
	// ErrDuplicateUsername or ErrDuplicateEmail.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// SetActive flips the active flag. Returns ErrNotFound for an unknown
	// username.
	SetActive(ctx context.Context, username string, active bool) error
}
