package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// Client talks to the warframe-checklist API the way the browser app does:
// the session lives in the access_token cookie held by the client's jar.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with its own cookie jar.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil) // only fails with a non-nil options value
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
	}
}

// NewClientWithHTTP uses hc as is. Set a Jar on it or the session cookie is
// dropped after Login.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{BaseURL: strings.TrimSuffix(baseURL, "/"), HTTPClient: hc}
}

// Login posts form credentials to /token. On success the session cookie is
// stored in the jar and the token is also returned.
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.doRequest(ctx, http.MethodPost, "/token", strings.NewReader(form.Encode()), map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Register creates an account. When the server signs new accounts in, the
// token is returned and the cookie stored. Otherwise the token is nil and
// only the profile comes back.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*TokenResponse, *UserResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/register/", bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, nil, err
	}

	if resp.StatusCode == http.StatusCreated {
		var reg RegisterResponse
		if err := decodeJSON(resp, &reg, http.StatusCreated); err != nil {
			return nil, nil, err
		}
		return nil, &reg.User, nil
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, nil, err
	}
	return &tok, nil, nil
}

// Me returns the profile of the signed-in user.
func (c *Client) Me(ctx context.Context) (*UserResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/users/me/", nil, nil)
	if err != nil {
		return nil, err
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckToken reports whether the current session is usable. An invalid or
// inactive session comes back as an *APIError, not as false.
func (c *Client) CheckToken(ctx context.Context) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/token/", nil, nil)
	if err != nil {
		return false, err
	}

	var check TokenCheckResponse
	if err := decodeJSON(resp, &check, http.StatusOK); err != nil {
		return false, err
	}
	return check.Valid, nil
}

// Logout ends the session server side (when revocation is enabled) and
// clears the cookie.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/logout", nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
