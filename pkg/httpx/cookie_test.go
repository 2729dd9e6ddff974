package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jexxer/warframe-checklist/pkg/httpx"
)

func TestCookieTransport_Attach(t *testing.T) {
	tr := httpx.NewCookieTransport("", true)
	require.Equal(t, httpx.DefaultCookieName, tr.Name())

	rec := httptest.NewRecorder()
	tr.Attach(rec, "abc.def.ghi", 14*24*time.Hour)

	res := rec.Result()
	cookies := res.Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	require.Equal(t, "access_token", c.Name)
	require.Equal(t, "Bearer abc.def.ghi", c.Value)
	require.Equal(t, "/", c.Path)
	require.Equal(t, 14*24*60*60, c.MaxAge)
	require.True(t, c.HttpOnly)
	require.True(t, c.Secure)
	require.Equal(t, http.SameSiteNoneMode, c.SameSite)
	require.WithinDuration(t, time.Now().Add(14*24*time.Hour), c.Expires, time.Minute)

	raw := res.Header.Get("Set-Cookie")
	require.Contains(t, raw, "HttpOnly")
	require.Contains(t, raw, "Secure")
	require.Contains(t, raw, "SameSite=None")
}

func TestCookieTransport_InsecureUsesLax(t *testing.T) {
	tr := httpx.NewCookieTransport("access_token", false)

	rec := httptest.NewRecorder()
	tr.Attach(rec, "tok", time.Hour)

	c := rec.Result().Cookies()[0]
	require.False(t, c.Secure)
	require.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestCookieTransport_ExtractRoundTrip(t *testing.T) {
	tr := httpx.NewCookieTransport("access_token", true)

	rec := httptest.NewRecorder()
	tr.Attach(rec, "abc.def.ghi", time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/users/me/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	tok, err := tr.Extract(req)
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", tok)
}

func TestCookieTransport_Extract(t *testing.T) {
	tr := httpx.NewCookieTransport("access_token", true)

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"missing cookie", "", "", httpx.ErrMissingToken},
		{"other cookie only", "theme=dark", "", httpx.ErrMissingToken},
		{"no scheme", "access_token=abc", "", httpx.ErrMissingToken},
		{"wrong scheme", `access_token="Basic abc"`, "", httpx.ErrMissingToken},
		{"empty credential", `access_token="Bearer "`, "", httpx.ErrMissingToken},
		{"quoted bearer", `access_token="Bearer abc"`, "abc", nil},
		{"lower-case scheme", `access_token="bearer abc"`, "abc", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Cookie", tt.header)
			}

			got, err := tr.Extract(req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCookieTransport_Clear(t *testing.T) {
	tr := httpx.NewCookieTransport("access_token", true)

	rec := httptest.NewRecorder()
	tr.Clear(rec)

	c := rec.Result().Cookies()[0]
	require.Equal(t, "access_token", c.Name)
	require.Empty(t, c.Value)
	require.Equal(t, -1, c.MaxAge)
}
