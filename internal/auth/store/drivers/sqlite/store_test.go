package sqlite_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/internal/auth/store/drivers/sqlite"
	"github.com/Jexxer/warframe-checklist/internal/auth/store/storetest"
)

func TestStore(t *testing.T) {
	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	storetest.Run(t, st)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.db")

	st, err := sqlite.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	require.NoError(t, st.Ping(t.Context()))
	require.NoError(t, st.Close())

	st, err = sqlite.NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())
}
