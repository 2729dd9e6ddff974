package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
)

func TestResolve(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	sess := register(t, f, "alice", "alice@example.com", "wonderland")
	token := sess.Token.Value

	_, err := f.resolver.Resolve(t.Context(), f.store.Users(), token)
	require.ErrorIs(t, err, service.ErrInactiveUser)

	require.NoError(t, f.users.SetActive(t.Context(), "alice", true))

	user, err := f.resolver.Resolve(t.Context(), f.store.Users(), token)
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, user.ID)
	require.True(t, user.Active)
}

func TestResolve_Rejects(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "wonderland")
	require.NoError(t, f.users.SetActive(t.Context(), "alice", true))

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	expiredCodec, err := jwtx.NewCodec(testKey, jwtx.AlgHS256, testIssuer, jwtx.WithClock(func() time.Time { return past }))
	require.NoError(t, err)
	expired, err := expiredCodec.Issue("alice", time.Minute)
	require.NoError(t, err)

	otherKey, err := jwtx.NewCodec([]byte("another-key-another-key-another!!"), jwtx.AlgHS256, testIssuer)
	require.NoError(t, err)
	forged, err := otherKey.Issue("alice", time.Hour)
	require.NoError(t, err)

	ghost, err := f.codec.Issue("ghost", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"expired", expired.Value},
		{"wrong key", forged.Value},
		{"unknown subject", ghost.Value},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.resolver.Resolve(t.Context(), f.store.Users(), tt.token)
			require.ErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "wonderland")
	require.NoError(t, f.users.SetActive(t.Context(), "alice", true))

	sess, err := f.auth.Login(t.Context(), f.store.Users(), "alice", "wonderland")
	require.NoError(t, err)

	_, err = f.resolver.Resolve(t.Context(), f.store.Users(), sess.Token.Value)
	require.NoError(t, err)

	claims, err := f.codec.Validate(sess.Token.Value)
	require.NoError(t, err)
	require.Equal(t, sess.Token.ID, claims.ID)

	require.NoError(t, f.auth.Logout(t.Context(), claims))
	require.Equal(t, 1, f.revoked.Len())

	_, err = f.resolver.Resolve(t.Context(), f.store.Users(), sess.Token.Value)
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	other, err := f.auth.Login(t.Context(), f.store.Users(), "alice", "wonderland")
	require.NoError(t, err)
	_, err = f.resolver.Resolve(t.Context(), f.store.Users(), other.Token.Value)
	require.NoError(t, err)
}

func TestLogout_SkipsExpiredToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	expired := jwtx.NewClaims("alice", testIssuer, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, f.auth.Logout(t.Context(), expired))
	require.Zero(t, f.revoked.Len())

	live := jwtx.NewClaims("alice", testIssuer, time.Hour, time.Now())
	require.NoError(t, f.auth.Logout(t.Context(), live))
	require.Equal(t, 1, f.revoked.Len())
}
