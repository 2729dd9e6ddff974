package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

var ErrUserNotFound = errors.New("user_not_found")

// UserService holds operator actions on accounts.
type UserService struct {
	Store store.Store
}

// SetActive activates or deactivates username.
func (s *UserService) SetActive(ctx context.Context, username string, active bool) error {
	err := s.Store.Users().SetActive(ctx, domain.NormalizeUsername(username), active)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return err
}

// GetUser fetches username.
func (s *UserService) GetUser(ctx context.Context, username string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByUsername(ctx, domain.NormalizeUsername(username))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}
	return u, err
}
