package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	authhttp "github.com/Jexxer/warframe-checklist/internal/auth/http"
	"github.com/Jexxer/warframe-checklist/internal/auth/revocation"
	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/internal/auth/store"
	"github.com/Jexxer/warframe-checklist/internal/auth/store/drivers/sqlite"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
	"github.com/Jexxer/warframe-checklist/pkg/cryptox"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const (
	testIssuer = "warframe-checklist-test"
	testOrigin = "https://app.example.com"
	sessionTTL = 14 * 24 * time.Hour
)

type env struct {
	router  *authhttp.Router
	store   *countingStore
	codec   *jwtx.Codec
	revoked *revocation.Memory
	auth    *service.AuthService
}

type envOption func(*authhttp.Router)

func withLoginLimit(cfg httpx.RateLimitConfig, trustedProxies ...string) envOption {
	return func(r *authhttp.Router) {
		trusted, err := httpx.ParseTrustedProxies(trustedProxies)
		if err != nil {
			panic(err)
		}
		r.LoginLimiter = httpx.NewRateLimiter(cfg, httpx.CompositeKeyExtractor(":",
			httpx.ClientIPKeyExtractor(trusted),
			httpx.FormFieldKeyExtractor("username"),
		))
	}
}

func withSessionLimit(cfg httpx.RateLimitConfig) envOption {
	return func(r *authhttp.Router) {
		r.SessionLimiter = httpx.NewRateLimiter(cfg, httpx.UserIDKeyExtractor)
	}
}

func withoutRegisterToken() envOption {
	return func(r *authhttp.Router) { r.AuthService.RegisterIssuesToken = false }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	sq, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	require.NoError(t, sq.ApplyMigrations())
	st := &countingStore{Store: sq}

	codec, err := jwtx.NewCodec(testKey, jwtx.AlgHS256, testIssuer)
	require.NoError(t, err)

	revoked := revocation.NewMemory()
	auth, err := service.NewAuthService(cryptox.NewHasher(""), codec, revoked, sessionTTL, true)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := authhttp.NewRouter("test", st, httpx.NewCookieTransport(httpx.DefaultCookieName, true), logger)
	router.AuthService = auth
	router.Resolver = service.NewIdentityResolver(codec, revoked)
	router.Codec = codec
	router.Revocations = revoked
	router.CORSOrigins = []string{testOrigin}
	for _, opt := range opts {
		opt(router)
	}
	router.ApplyRoutes()

	return &env{router: router, store: st, codec: codec, revoked: revoked, auth: auth}
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	req.RemoteAddr = "192.0.2.10:40000"
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *env) login(username, password string) *httptest.ResponseRecorder {
	return e.loginVia("", username, password)
}

// loginVia logs in with forwardedFor as the X-Forwarded-For header.
func (e *env) loginVia(forwardedFor, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	return e.do(req)
}

func (e *env) register(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func (e *env) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: httpx.DefaultCookieName, Value: "Bearer " + token})
	}
	return e.do(req)
}

func (e *env) activate(t *testing.T, username string) {
	t.Helper()
	require.NoError(t, e.store.Users().SetActive(context.Background(), username, true))
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) authsdk.ErrorResponse {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode[authsdk.ErrorResponse](t, rec)
	require.Equal(t, code, body.Error)
	if status == http.StatusUnauthorized {
		require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	}
	return body
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == httpx.DefaultCookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", httpx.DefaultCookieName)
	return nil
}

// countingStore records how many request connections were handed out and
// given back.
type countingStore struct {
	store.Store
	acquired atomic.Int64
	released atomic.Int64
}

func (s *countingStore) Acquire(ctx context.Context) (store.Conn, error) {
	c, err := s.Store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	s.acquired.Add(1)
	return &countingConn{Conn: c, released: &s.released}, nil
}

type countingConn struct {
	store.Conn
	released *atomic.Int64
}

func (c *countingConn) Release() {
	c.released.Add(1)
	c.Conn.Release()
}
