package service_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/internal/auth/revocation"
	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/internal/auth/store/drivers/sqlite"
	"github.com/Jexxer/warframe-checklist/pkg/cryptox"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const testIssuer = "warframe-checklist-test"

type fixture struct {
	store    *sqlite.Store
	codec    *jwtx.Codec
	revoked  *revocation.Memory
	auth     *service.AuthService
	resolver *service.IdentityResolver
	users    *service.UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec(testKey, jwtx.AlgHS256, testIssuer)
	require.NoError(t, err)

	revoked := revocation.NewMemory()
	auth, err := service.NewAuthService(cryptox.NewHasher(""), codec, revoked, 14*24*time.Hour, true)
	require.NoError(t, err)

	return &fixture{
		store:    st,
		codec:    codec,
		revoked:  revoked,
		auth:     auth,
		resolver: service.NewIdentityResolver(codec, revoked),
		users:    &service.UserService{Store: st},
	}
}
