package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Jexxer/warframe-checklist/pkg/idx"
)

// Default token TTL constants.
const (
	// DefaultAccessTokenTTL is used when a caller asks for a non-positive TTL.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultSessionTTL is the lifetime login and registration hand out. The
	// browser keeps the cookie for as long as the token inside it is valid.
	DefaultSessionTTL = 14 * 24 * time.Hour
)

// Claims are the session token claims. The subject is the stored
// (normalised) username.
type Claims struct {
	jwt.RegisteredClaims
}

// NewClaims builds minimally-correct claims.
func NewClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a unique identifier for the "jti" claim. Revocation keys
// on it.
func NewJTI() string {
	return idx.New().String()
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateSubject rejects tokens that do not name a user.
func (c *Claims) ValidateSubject() error {
	if c.Subject == "" {
		return ErrMissingSubject
	}
	return nil
}

// ValidateExpiry checks exp and nbf against now. A token is already expired
// at the instant now equals exp. There is no leeway.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrMissingExpiry
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// Remaining is how long the token stays valid after now, never negative.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(c.ExpiresAt.Sub(now), 0)
}
