package cryptox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/pkg/cryptox"
)

func TestLoadOrGenerateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secret")

	// First call generates and persists
	first, err := cryptox.LoadOrGenerateSecret(path, cryptox.TokenSize256)
	require.NoError(t, err)
	require.Len(t, first, 43)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// Second call reads the same value back
	second, err := cryptox.LoadOrGenerateSecret(path, cryptox.TokenSize256)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestLoadOrGenerateSecret_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("  hand-written\n"), 0600))

	secret, err := cryptox.LoadOrGenerateSecret(path, cryptox.TokenSize256)
	require.NoError(t, err)
	require.Equal(t, "hand-written", secret)
}

func TestLoadOrGenerateSecret_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	require.NoError(t, os.WriteFile(path, []byte("\n"), 0600))

	_, err := cryptox.LoadOrGenerateSecret(path, cryptox.TokenSize256)
	require.Error(t, err)
}
