package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
)

// LoginHandler serves POST /token.
type LoginHandler struct {
	AuthService *service.AuthService
	Cookies     *httpx.CookieTransport
}

// ServeHTTP godoc
//
//	@Summary		Log in
//	@Description	Verifies form credentials, sets the access_token cookie and returns the same token in the body.
//	@Tags			Auth
//	@Accept			application/x-www-form-urlencoded
//	@Produce		json
//	@Param			username	formData	string					true	"Username (case-insensitive)"
//	@Param			password	formData	string					true	"Password"
//	@Success		200			{object}	authsdk.TokenResponse	"access_token, token_type"
//	@Failure		400			{object}	authsdk.ErrorResponse	"malformed form"
//	@Failure		401			{object}	authsdk.ErrorResponse	"Incorrect username or password"
//	@Failure		429			{object}	authsdk.ErrorResponse	"rate limited"
//	@Header			200			{string}	Set-Cookie				"access_token=\"Bearer <jwt>\"; HttpOnly; Secure; SameSite=None"
//	@Router			/token [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") &&
		!strings.HasPrefix(ct, "multipart/form-data") {
		authsdk.ErrInvalidRequest.WithDescription("expected a form body").WriteError(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("malformed form body").WriteError(w)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		authsdk.ErrInvalidRequest.WithDescription("username and password are required").WriteError(w)
		return
	}

	conn, ok := requestConn(w, r)
	if !ok {
		return
	}

	sess, err := h.AuthService.Login(r.Context(), conn.Users(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authsdk.ErrInvalidCredentials.WithDescription("Incorrect username or password").WriteError(w)
			return
		}
		writeServiceError(w, r, err)
		return
	}

	writeSession(w, h.Cookies, h.AuthService, *sess.Token)
}

// writeSession sets the cookie and writes the token body shared by login
// and registration.
func writeSession(w http.ResponseWriter, cookies *httpx.CookieTransport, auth *service.AuthService, tok jwtx.Token) {
	cookies.Attach(w, tok.Value, auth.SessionTTL)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: tok.Value,
		TokenType:   "bearer",
	})
}

// TokenCheckHandler godoc
//
//	@Summary		Check session
//	@Description	Runs the full identity pipeline on the access_token cookie.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.TokenCheckResponse	"valid"
//	@Failure		401	{object}	authsdk.ErrorResponse		"missing, invalid or expired session"
//	@Failure		403	{object}	authsdk.ErrorResponse		"inactive user"
//	@Failure		429	{object}	authsdk.ErrorResponse		"rate limited"
//	@Router			/token/ [get].
func TokenCheckHandler(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenCheckResponse{Valid: true})
}
