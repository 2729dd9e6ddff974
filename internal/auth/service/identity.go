package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
	"github.com/Jexxer/warframe-checklist/internal/auth/revocation"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
)

// IdentityResolver turns a raw session token into the current user. It
// keeps no state between calls.
type IdentityResolver struct {
	Codec       *jwtx.Codec
	Revocations revocation.List
}

func NewIdentityResolver(codec *jwtx.Codec, revocations revocation.List) *IdentityResolver {
	if revocations == nil {
		revocations = revocation.Noop{}
	}
	return &IdentityResolver{Codec: codec, Revocations: revocations}
}

// Resolve validates the token, checks it was not revoked, loads
// the user named by its subject and requires the account to be active.
// Any token problem or unknown subject is ErrInvalidCredentials and an
// inactive account is ErrInactiveUser.
func (r *IdentityResolver) Resolve(ctx context.Context, users store.Users, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	claims, err := r.Codec.Validate(token)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	revoked, err := r.Revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return domain.User{}, fmt.Errorf("service: revocation lookup: %w", err)
	}
	if revoked {
		return domain.User{}, fmt.Errorf("%w: token revoked", ErrInvalidCredentials)
	}

	user, err := users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, fmt.Errorf("%w: unknown subject", ErrInvalidCredentials)
		}
		return domain.User{}, err
	}

	if !user.Active {
		return domain.User{}, ErrInactiveUser
	}

	return user, nil
}
