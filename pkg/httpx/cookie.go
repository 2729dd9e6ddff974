package httpx

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// DefaultCookieName is the cookie the browser app reads and writes.
const DefaultCookieName = "access_token"

// ErrMissingToken is returned by Extract when the request carries no
// usable bearer credential.
var ErrMissingToken = errors.New("httpx: missing bearer token")

// CookieTransport moves session tokens between server and browser in a
// single HttpOnly cookie whose value is "Bearer <token>".
type CookieTransport struct {
	name   string
	secure bool
	now    func() time.Time
}

// NewCookieTransport returns a transport for the named cookie. With secure
// set the cookie is Secure and SameSite=None so the cross-origin frontend
// can send it. Plain HTTP (local development only) falls back to Lax,
// browsers drop SameSite=None cookies that are not Secure.
func NewCookieTransport(name string, secure bool) *CookieTransport {
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieTransport{name: name, secure: secure, now: time.Now}
}

// Name returns the cookie name.
func (t *CookieTransport) Name() string { return t.name }

func (t *CookieTransport) sameSite() http.SameSite {
	if t.secure {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// Attach sets the session cookie for token. Max-Age and Expires both
// follow ttl.
func (t *CookieTransport) Attach(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    "Bearer " + token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  t.now().Add(ttl).UTC(),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: t.sameSite(),
	})
}

// Extract returns the raw token from the session cookie. A missing cookie,
// a scheme other than Bearer or an empty credential all yield
// ErrMissingToken.
func (t *CookieTransport) Extract(r *http.Request) (string, error) {
	c, err := r.Cookie(t.name)
	if err != nil {
		return "", ErrMissingToken
	}

	scheme, param, ok := strings.Cut(strings.TrimSpace(c.Value), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", ErrMissingToken
	}

	param = strings.TrimSpace(param)
	if param == "" {
		return "", ErrMissingToken
	}
	return param, nil
}

// Clear tells the browser to drop the session cookie.
func (t *CookieTransport) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: t.sameSite(),
	})
}
