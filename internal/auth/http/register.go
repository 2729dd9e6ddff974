package http

import (
	"encoding/json"
	"net/http"

	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
)

const maxRegisterBody = 64 << 10

// RegisterHandler serves POST /register/.
type RegisterHandler struct {
	AuthService *service.AuthService
	Cookies     *httpx.CookieTransport
}

// ServeHTTP godoc
//
//	@Summary		Register
//	@Description	Creates an inactive account. By default the new account is signed in exactly like POST /token.
//	@Description	When the server does not sign new accounts in, 201 with the profile is returned instead.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"username, email, password"
//	@Success		200		{object}	authsdk.TokenResponse		"access_token, token_type"
//	@Success		201		{object}	authsdk.RegisterResponse	"profile of the new account"
//	@Failure		400		{object}	authsdk.ErrorResponse		"invalid_request"
//	@Failure		409		{object}	authsdk.ErrorResponse		"user_already_exists or email_already_exists"
//	@Failure		429		{object}	authsdk.ErrorResponse		"rate limited"
//	@Router			/register/ [post].
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRegisterBody)).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WithDescription("malformed JSON body").WriteError(w)
		return
	}

	conn, ok := requestConn(w, r)
	if !ok {
		return
	}

	sess, err := h.AuthService.Register(r.Context(), conn, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if sess.Token == nil {
		httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{User: userResponse(sess.User)})
		return
	}

	writeSession(w, h.Cookies, h.AuthService, *sess.Token)
}
