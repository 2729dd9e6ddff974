package authsdk

// ErrorResponse is the wire form of APIError.
type ErrorResponse struct {
	Error            string `json:"error" example:"invalid_credentials"`
	ErrorDescription string `json:"error_description" example:"Could not validate credentials"`
}

// TokenResponse is returned by POST /token and POST /register/. The same
// token is also set in the access_token cookie.
type TokenResponse struct {
	AccessToken string `json:"access_token"`

	// TokenType is always "bearer"
	TokenType string `json:"token_type" example:"bearer"`
}

// TokenCheckResponse is returned by GET /token/ for a usable session.
type TokenCheckResponse struct {
	Valid bool `json:"valid" example:"true"`
}

// RegisterRequest is the JSON body of POST /register/.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64" example:"alice"`
	Email    string `json:"email" validate:"required,email,max=254" example:"alice@example.com"`
	Password string `json:"password" validate:"required,min=1,max=1024" example:"correct horse battery staple"`
}

// UserResponse is the public profile returned by GET /users/me/. It never
// carries the password hash.
type UserResponse struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	IsActive bool   `json:"is_active" example:"true"`
}

// RegisterResponse is returned by POST /register/ when the server is
// configured not to sign in freshly registered, still inactive accounts.
type RegisterResponse struct {
	User UserResponse `json:"user"`
}

// HealthResponse is returned by /livez and /readyz (readyz adds Checks).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports each dependency the service needs to serve traffic.
type HealthChecks struct {
	Database   string `json:"database"`
	Revocation string `json:"revocation"`
}
