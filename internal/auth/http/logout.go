package http

import (
	"net/http"

	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
	"github.com/Jexxer/warframe-checklist/pkg/jwtx"
	"github.com/Jexxer/warframe-checklist/pkg/slogx"
)

// LogoutHandler serves POST /logout.
type LogoutHandler struct {
	AuthService *service.AuthService
	Codec       *jwtx.Codec
	Cookies     *httpx.CookieTransport
}

// ServeHTTP godoc
//
//	@Summary		Log out
//	@Description	Revokes the current session token when a revocation backend is configured and clears the cookie.
//	@Description	Succeeds without a session too, so the browser can always reset its state.
//	@Tags			Auth
//	@Success		204	"cookie cleared"
//	@Failure		500	{object}	authsdk.ErrorResponse	"revocation backend unavailable"
//	@Router			/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	if token, err := h.Cookies.Extract(r); err == nil {
		// Expired or forged tokens need no revocation.
		if claims, err := h.Codec.Validate(token); err == nil {
			if err := h.AuthService.Logout(r.Context(), claims); err != nil {
				writeServiceError(w, r, err)
				return
			}
			log.Info("session revoked", "sub", claims.Subject)
		}
	}

	h.Cookies.Clear(w)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
