package sqlite

import (
	"context"
	"database/sql"
	"sync"

	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

type conn struct {
	c    *sql.Conn
	once sync.Once
}

func (c *conn) Users() store.Users { return &usersRepo{db: c.c} }

func (c *conn) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := c.c.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	return runTx(newTx(tx), fn)
}

func (c *conn) Release() {
	c.once.Do(func() {
		_ = c.c.Close() // returns the connection to the pool
	})
}
