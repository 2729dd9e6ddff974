package jwtx_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
)

func TestValidateIssuer(t *testing.T) {
	c := &jwtx.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer: "warframe-checklist",
		},
	}

	t.Run("matching issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer("warframe-checklist"))
	})

	t.Run("empty expected issuer", func(t *testing.T) {
		require.NoError(t, c.ValidateIssuer(""))
	})

	t.Run("mismatched issuer", func(t *testing.T) {
		err := c.ValidateIssuer("someone-else")
		require.ErrorIs(t, err, jwtx.ErrIssuer)
		require.ErrorIs(t, err, jwtx.ErrInvalid)
	})
}

func TestValidateExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid token", func(t *testing.T) {
		c := jwtx.NewClaims("alice", "", time.Minute, now)
		require.NoError(t, c.ValidateExpiry(now))
		require.NoError(t, c.ValidateExpiry(now.Add(59*time.Second)))
	})

	t.Run("expired at exactly exp", func(t *testing.T) {
		c := jwtx.NewClaims("alice", "", time.Minute, now)
		require.ErrorIs(t, c.ValidateExpiry(now.Add(time.Minute)), jwtx.ErrExpired)
	})

	t.Run("not yet valid", func(t *testing.T) {
		c := jwtx.NewClaims("alice", "", time.Minute, now)
		require.ErrorIs(t, c.ValidateExpiry(now.Add(-time.Second)), jwtx.ErrNotYetValid)
	})

	t.Run("missing exp", func(t *testing.T) {
		c := &jwtx.Claims{}
		require.ErrorIs(t, c.ValidateExpiry(now), jwtx.ErrMissingExpiry)
	})
}

func TestNewClaims_DefaultTTL(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for _, ttl := range []time.Duration{0, -time.Hour} {
		c := jwtx.NewClaims("alice", "", ttl, now)
		require.Equal(t, now.Add(jwtx.DefaultAccessTokenTTL), c.ExpiresAt.Time)
	}
}

func TestNewClaims_UniqueJTI(t *testing.T) {
	now := time.Now()
	a := jwtx.NewClaims("alice", "", time.Minute, now)
	b := jwtx.NewClaims("alice", "", time.Minute, now)
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
}

func TestRemaining(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := jwtx.NewClaims("alice", "", time.Hour, now)

	require.Equal(t, time.Hour, c.Remaining(now))
	require.Equal(t, time.Duration(0), c.Remaining(now.Add(2*time.Hour)))
}
