package sqlite

import (
	"context"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

// is_active may be NULL in rows written by the previous backend.
const userColumns = `id, username, email, hashed_password, COALESCE(is_active, 0)`

type usersRepo struct {
	db dbtx
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Active); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, domain.NormalizeUsername(username)))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, domain.NormalizeEmail(email)))
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	u.Username = domain.NormalizeUsername(u.Username)
	u.Email = domain.NormalizeEmail(u.Email)

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, hashed_password, is_active)
		 VALUES (?, ?, ?, ?)
		 RETURNING id`,
		u.Username, u.Email, u.PasswordHash, u.Active,
	).Scan(&u.ID)
	if err != nil {
		return domain.User{}, mapUniqueViolation(err)
	}
	return u, nil
}

func (r *usersRepo) SetActive(ctx context.Context, username string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = ? WHERE username = ?`,
		active, domain.NormalizeUsername(username))
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
