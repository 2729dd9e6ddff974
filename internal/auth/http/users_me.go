package http

import (
	"net/http"

	"github.com/Jexxer/warframe-checklist/internal/auth/domain"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
	"github.com/Jexxer/warframe-checklist/pkg/httpx"
)

// UsersMeHandler godoc
//
//	@Summary		Current user
//	@Description	Returns the profile of the user behind the access_token cookie.
//	@Tags			Users
//	@Produce		json
//	@Success		200	{object}	authsdk.UserResponse	"id, username, email, is_active"
//	@Failure		401	{object}	authsdk.ErrorResponse	"missing, invalid or expired session"
//	@Failure		403	{object}	authsdk.ErrorResponse	"inactive user"
//	@Failure		429	{object}	authsdk.ErrorResponse	"rate limited"
//	@Router			/users/me/ [get].
func UsersMeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := IdentityFromContext(r.Context())
	if !ok {
		authsdk.ErrInvalidCredentials.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}

func userResponse(u domain.User) authsdk.UserResponse {
	return authsdk.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsActive: u.Active,
	}
}
