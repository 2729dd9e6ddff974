// Package storetest holds behaviour tests every store driver must pass.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
)

// Run exercises st, which must have migrations applied and be empty.
func Run(t *testing.T, st store.Store) {
	t.Helper()

	t.Run("create and lookup", func(t *testing.T) { testCreateAndLookup(t, st) })
	t.Run("lookups are normalised", func(t *testing.T) { testNormalisedLookup(t, st) })
	t.Run("not found", func(t *testing.T) { testNotFound(t, st) })
	t.Run("duplicate username", func(t *testing.T) { testDuplicateUsername(t, st) })
	t.Run("duplicate email", func(t *testing.T) { testDuplicateEmail(t, st) })
	t.Run("set active", func(t *testing.T) { testSetActive(t, st) })
	t.Run("conn scope", func(t *testing.T) { testConn(t, st) })
	t.Run("tx rollback", func(t *testing.T) { testTxRollback(t, st) })
	t.Run("concurrent create", func(t *testing.T) { testConcurrentCreate(t, st) })
	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, st.ApplyMigrations())
	})
}

func newUser(username, email string) domain.User {
	return domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	}
}

func testCreateAndLookup(t *testing.T, st store.Store) {
	ctx := context.Background()

	created, err := st.Users().CreateUser(ctx, newUser("Alice", "Alice@Example.com"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, "alice", created.Username)
	require.Equal(t, "alice@example.com", created.Email)
	require.False(t, created.Active)

	byID, err := st.Users().GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, byID)

	byName, err := st.Users().GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, created, byName)

	byEmail, err := st.Users().GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, created, byEmail)
}

func testNormalisedLookup(t *testing.T, st store.Store) {
	ctx := context.Background()

	_, err := st.Users().CreateUser(ctx, newUser("carol", "carol@example.com"))
	require.NoError(t, err)

	for _, name := range []string{"carol", "Carol", "CAROL"} {
		u, err := st.Users().GetUserByUsername(ctx, name)
		require.NoError(t, err, name)
		require.Equal(t, "carol", u.Username)
	}

	u, err := st.Users().GetUserByEmail(ctx, "CAROL@example.com")
	require.NoError(t, err)
	require.Equal(t, "carol", u.Username)
}

func testNotFound(t *testing.T, st store.Store) {
	ctx := context.Background()

	_, err := st.Users().GetUserByUsername(ctx, "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Users().GetUserByID(ctx, 999999)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, st.Users().SetActive(ctx, "nobody", true), store.ErrNotFound)
}

func testDuplicateUsername(t *testing.T, st store.Store) {
	ctx := context.Background()

	_, err := st.Users().CreateUser(ctx, newUser("dave", "dave@example.com"))
	require.NoError(t, err)

	_, err = st.Users().CreateUser(ctx, newUser("Dave", "dave2@example.com"))
	require.ErrorIs(t, err, store.ErrDuplicateUsername)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func testDuplicateEmail(t *testing.T, st store.Store) {
	ctx := context.Background()

	_, err := st.Users().CreateUser(ctx, newUser("erin", "erin@example.com"))
	require.NoError(t, err)

	_, err = st.Users().CreateUser(ctx, newUser("erin2", "ERIN@example.com"))
	require.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func testSetActive(t *testing.T, st store.Store) {
	ctx := context.Background()

	_, err := st.Users().CreateUser(ctx, newUser("frank", "frank@example.com"))
	require.NoError(t, err)

	require.NoError(t, st.Users().SetActive(ctx, "Frank", true))
	u, err := st.Users().GetUserByUsername(ctx, "frank")
	require.NoError(t, err)
	require.True(t, u.Active)

	require.NoError(t, st.Users().SetActive(ctx, "frank", false))
	u, err = st.Users().GetUserByUsername(ctx, "frank")
	require.NoError(t, err)
	require.False(t, u.Active)
}

func testConn(t *testing.T, st store.Store) {
	ctx := context.Background()

	c, err := st.Acquire(ctx)
	require.NoError(t, err)
	defer c.Release()

	created, err := c.Users().CreateUser(ctx, newUser("grace", "grace@example.com"))
	require.NoError(t, err)

	err = c.WithTx(ctx, func(tx store.Tx) error {
		u, err := tx.Users().GetUserByUsername(ctx, "grace")
		if err != nil {
			return err
		}
		require.Equal(t, created.ID, u.ID)
		return nil
	})
	require.NoError(t, err)

	c.Release()
	require.NotPanics(t, c.Release, "release must be idempotent")

	// The pool is still usable after the release.
	_, err = st.Users().GetUserByUsername(ctx, "grace")
	require.NoError(t, err)
}

func testTxRollback(t *testing.T, st store.Store) {
	ctx := context.Background()
	boom := errors.New("boom")

	err := st.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().CreateUser(ctx, newUser("heidi", "heidi@example.com")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = st.Users().GetUserByUsername(ctx, "heidi")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func testConcurrentCreate(t *testing.T, st store.Store) {
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = st.Users().CreateUser(ctx, newUser("ivan", "ivan@example.com"))
		}()
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	}
	require.Equal(t, 1, created)
}
