package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Jexxer/warframe-checklist/pkg/httpx"
)

// Error codes carried in the "error" field of every failure response.
const (
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUserAlreadyExists  = "user_already_exists"
	ErrorCodeEmailAlreadyExists = "email_already_exists"
	ErrorCodeInactiveUser       = "inactive_user"
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeRateLimitExceeded  = "rate_limit_exceeded"
	ErrorCodeServerError        = "server_error"
)

// APIError is the JSON error envelope {error, error_description}. The
// server writes it and the client parses it back, so callers on both
// sides can match with errors.Is against the predefined values below.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine readable error code
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on the error code so a parsed response compares equal to the
// predefined error with the same code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

// WriteError writes the error envelope. Unauthenticated responses carry a
// Bearer challenge.
func (e *APIError) WriteError(w http.ResponseWriter) {
	if e.StatusCode == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	httpx.WriteJSON(w, e.StatusCode, ErrorResponse{
		Error:            e.Code,
		ErrorDescription: e.Description,
	})
}

// WithDescription returns a copy of e with a different description.
func (e *APIError) WithDescription(desc string) *APIError {
	c := *e
	c.Description = desc
	return &c
}

// NewAPIError creates a new APIError.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

var (
	// ErrInvalidCredentials covers unknown users, wrong passwords and any
	// missing, invalid, expired or revoked session token. The description
	// never says which.
	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "Could not validate credentials",
	}

	ErrUserAlreadyExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeUserAlreadyExists,
		Description: "User already exists",
	}

	ErrEmailAlreadyExists = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailAlreadyExists,
		Description: "Email already exists",
	}

	ErrInactiveUser = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeInactiveUser,
		Description: "Inactive user",
	}

	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrRateLimitExceeded = &APIError{
		StatusCode:  http.StatusTooManyRequests,
		Code:        ErrorCodeRateLimitExceeded,
		Description: "Too many requests. Please try again later.",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// parseErrorResponse turns a non-2xx response into an *APIError.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
