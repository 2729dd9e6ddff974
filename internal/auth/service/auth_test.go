package service_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
)

func register(t *testing.T, f *fixture, username, email, password string) service.Session {
	t.Helper()
	sess, err := f.auth.Register(t.Context(), f.store, authsdk.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return sess
}

func TestRegister_CreatesInactiveUserAndIssuesToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	sess := register(t, f, " Bob ", "Bob@Example.com", "hunter2")
	require.NotZero(t, sess.User.ID)
	require.Equal(t, "bob", sess.User.Username)
	require.Equal(t, "bob@example.com", sess.User.Email)
	require.False(t, sess.User.Active)
	require.NotEqual(t, "hunter2", sess.User.PasswordHash)
	require.NotNil(t, sess.Token)

	claims, err := f.codec.Validate(sess.Token.Value)
	require.NoError(t, err)
	require.Equal(t, "bob", claims.Subject)
	require.WithinDuration(t, time.Now().Add(14*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestRegister_WithoutToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.auth.RegisterIssuesToken = false

	sess := register(t, f, "bob", "bob@example.com", "hunter2")
	require.Nil(t, sess.Token)
	require.Equal(t, "bob", sess.User.Username)
}

func TestRegister_Duplicates(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	register(t, f, "bob", "bob@example.com", "hunter2")

	tests := []struct {
		name     string
		username string
		email    string
		want     error
	}{
		{"same username", "bob", "other@example.com", service.ErrUserAlreadyExists},
		{"username differs only in case", "BOB", "other@example.com", service.ErrUserAlreadyExists},
		{"both taken reports username first", "bob", "bob@example.com", service.ErrUserAlreadyExists},
		{"same email", "robert", "bob@example.com", service.ErrEmailAlreadyExists},
		{"email differs only in case", "robert", "BOB@example.COM", service.ErrEmailAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(t.Context(), f.store, authsdk.RegisterRequest{
				Username: tt.username,
				Email:    tt.email,
				Password: "pw",
			})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name  string
		req   authsdk.RegisterRequest
		field string
	}{
		{"missing username", authsdk.RegisterRequest{Email: "a@example.com", Password: "pw"}, "username"},
		{"blank username", authsdk.RegisterRequest{Username: "   ", Email: "a@example.com", Password: "pw"}, "username"},
		{"bad email", authsdk.RegisterRequest{Username: "a", Email: "not-an-email", Password: "pw"}, "email"},
		{"missing password", authsdk.RegisterRequest{Username: "a", Email: "a@example.com"}, "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Register(t.Context(), f.store, tt.req)
			require.ErrorIs(t, err, service.ErrInvalidRequest)

			var verr *service.ValidationError
			require.True(t, errors.As(err, &verr))
			require.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.auth.Register(t.Context(), f.store, authsdk.RegisterRequest{
				Username: "racer",
				Email:    "racer" + string(rune('a'+i)) + "@example.com",
				Password: "pw",
			})
		}()
	}
	wg.Wait()

	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		require.ErrorIs(t, err, service.ErrUserAlreadyExists)
	}
	require.Equal(t, 1, ok)
}

func TestLogin(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "wonderland")

	t.Run("success with any username case", func(t *testing.T) {
		sess, err := f.auth.Login(t.Context(), f.store.Users(), "Alice", "wonderland")
		require.NoError(t, err)
		require.NotNil(t, sess.Token)

		claims, err := f.codec.Validate(sess.Token.Value)
		require.NoError(t, err)
		require.Equal(t, "alice", claims.Subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := f.auth.Login(t.Context(), f.store.Users(), "alice", "WONDERLAND")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := f.auth.Login(t.Context(), f.store.Users(), "mallory", "wonderland")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("inactive users can still log in", func(t *testing.T) {
		sess, err := f.auth.Login(t.Context(), f.store.Users(), "alice", "wonderland")
		require.NoError(t, err)
		require.False(t, sess.User.Active)
	})
}

func TestLogin_TokensAreIndependent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	register(t, f, "alice", "alice@example.com", "wonderland")

	a, err := f.auth.Login(t.Context(), f.store.Users(), "alice", "wonderland")
	require.NoError(t, err)
	b, err := f.auth.Login(t.Context(), f.store.Users(), "alice", "wonderland")
	require.NoError(t, err)

	require.NotEqual(t, a.Token.ID, b.Token.ID)
	require.NotEqual(t, a.Token.Value, b.Token.Value)
}
