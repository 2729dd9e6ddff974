package postgres

import (
	"context"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

const userColumns = `id, username, email, hashed_password, COALESCE(is_active, false)`

type usersRepo struct {
	db dbtx
}

func (r *usersRepo) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where+` = $1`, arg).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Active)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return r.getOne(ctx, "id", id)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.getOne(ctx, "username", domain.NormalizeUsername(username))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, "email", domain.NormalizeEmail(email))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.Username = domain.NormalizeUsername(u.Username)
	u.Email = domain.NormalizeEmail(u.Email)

	err := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, hashed_password, is_active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.Active,
	).Scan(&u.ID)
	if err != nil {
		return domain.User{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *usersRepo) SetActive(ctx context.Context, username string, active bool) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = $1 WHERE username = $2`,
		active, domain.NormalizeUsername(username))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
