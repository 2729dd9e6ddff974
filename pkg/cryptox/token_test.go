package cryptox_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/pkg/cryptox"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"256-bit token", cryptox.TokenSize256, 43},
		{"512-bit token", cryptox.TokenSize512, 86},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := cryptox.GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.wantLen)

			token2, err := cryptox.GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, token2, "tokens should be unique")
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := cryptox.GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}
