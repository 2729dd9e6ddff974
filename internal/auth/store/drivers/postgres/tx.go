package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

type txStore struct {
	ctx context.Context
	tx  pgx.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit(t.ctx) }
func (t *txStore) Rollback() error { return t.tx.Rollback(context.WithoutCancel(t.ctx)) }

func (t *txStore) Users() store.Users { return &usersRepo{db: t.tx} }
