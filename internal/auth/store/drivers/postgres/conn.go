package postgres

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

type conn struct {
	c    *pgxpool.Conn
	once sync.Once
}

func (c *conn) Users() store.Users { return &usersRepo{db: c.c} }

func (c *conn) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := c.c.Begin(ctx)
	if err != nil {
		return err
	}
	return runTx(ctx, tx, fn)
}

func (c *conn) Release() {
	c.once.Do(c.c.Release)
}
