package http

import (
	"errors"
	"net/http"

	"github.com/Jexxer/warframe-checklist/internal/auth/service"
	"github.com/Jexxer/warframe-checklist/pkg/authsdk"
	"github.com/Jexxer/warframe-checklist/pkg/slogx"
)

// writeServiceError translates a service error into the JSON envelope.
// Anything unrecognised is logged and reported as server_error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInactiveUser):
		authsdk.ErrInactiveUser.WriteError(w)
	case errors.Is(err, service.ErrUserAlreadyExists):
		authsdk.ErrUserAlreadyExists.WriteError(w)
	case errors.Is(err, service.ErrEmailAlreadyExists):
		authsdk.ErrEmailAlreadyExists.WriteError(w)
	case errors.As(err, &verr):
		authsdk.ErrInvalidRequest.WithDescription(verr.Error()).WriteError(w)
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
