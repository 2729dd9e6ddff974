package cryptox_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jexxer/warframe-checklist/pkg/cryptox"
)

func TestHash(t *testing.T) {
	h := cryptox.NewHasher("")

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 1000)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// Verify PHC format
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "m=19456,t=2,p=1", parts[3])
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")

			require.True(t, h.Verify(tt.password, hash))
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := cryptox.NewHasher("")
	password := "samepassword"

	hash1, err := h.Hash(password)
	require.NoError(t, err)
	hash2, err := h.Hash(password)
	require.NoError(t, err)

	// Each hash should be different due to unique salts
	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

	// But both should verify the same password
	require.True(t, h.Verify(password, hash1))
	require.True(t, h.Verify(password, hash2))
}

func TestVerify_WrongPassword(t *testing.T) {
	h := cryptox.NewHasher("")
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{
		"wrong-password",
		"Correct-Password",
		"correct-password ",
		"",
		"correct-passwor",
		strings.Repeat("x", 10000),
	} {
		require.False(t, h.Verify(wrong, hash), "%q should not verify", wrong)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	h := cryptox.NewHasher("")

	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"plaintext", "correct"},
		{"wrong algorithm", "$argon2i$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"zero parameters", "$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"truncated bcrypt", "$2b$12$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotPanics(t, func() {
				require.False(t, h.Verify("correct", tt.invalidHash))
			})
		})
	}
}

func TestVerify_RejectsExcessiveCost(t *testing.T) {
	h := cryptox.NewHasher("")
	salt := "c29tZXNhbHRzb21lc2FsdA"                      // 16 bytes
	hash := "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA" // 32 bytes
	long := strings.Repeat("A", 100)                      // 75 bytes

	tests := []struct {
		name string
		hash string
	}{
		{"huge iterations", "$argon2id$v=19$m=19456,t=200000,p=1$" + salt + "$" + hash},
		{"huge memory", "$argon2id$v=19$m=4194304,t=1,p=1$" + salt + "$" + hash},
		{"huge parallelism", "$argon2id$v=19$m=19456,t=1,p=64$" + salt + "$" + hash},
		{"short hash", "$argon2id$v=19$m=19456,t=2,p=1$" + salt + "$aGFzaA"},
		{"long hash", "$argon2id$v=19$m=19456,t=2,p=1$" + salt + "$" + long},
		{"long salt", "$argon2id$v=19$m=19456,t=2,p=1$" + long + "$" + hash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := time.Now()
			require.False(t, h.Verify("correct", tt.hash))
			require.Less(t, time.Since(start), 100*time.Millisecond)
		})
	}
}

func TestVerify_LegacyBcrypt(t *testing.T) {
	// Rows written by the previous backend hold passlib bcrypt hashes.
	legacy, err := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	require.NoError(t, err)

	h := cryptox.NewHasher("pepper-does-not-apply")
	require.True(t, h.Verify("correct", string(legacy)))
	require.False(t, h.Verify("incorrect", string(legacy)))
}

func TestHash_PepperIntegration(t *testing.T) {
	password := "test-password"

	hash, err := cryptox.NewHasher("pepper-a").Hash(password)
	require.NoError(t, err)

	require.True(t, cryptox.NewHasher("pepper-a").Verify(password, hash))
	require.False(t, cryptox.NewHasher("pepper-b").Verify(password, hash),
		"a different pepper must not verify")
	require.False(t, cryptox.NewHasher("").Verify(password, hash),
		"a missing pepper must not verify")
}
