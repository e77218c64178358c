package api

import (
	"context"
	"net/http"

	"github.com/sicea/console/internal/models"
)

// LoginResult is the backend's login response: an opaque token plus the
// authenticated profile.
type LoginResult struct {
	Token string             `json:"token"`
	User  models.UserProfile `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token. Failures carry the most useful
// message the backend offered (see parseError).
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	if err := c.sendJSON(ctx, http.MethodPost, "", "/users/login/", loginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout invalidates the token server-side. Callers treat failure as
// best-effort and clear local state regardless.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.sendJSON(ctx, http.MethodPost, token, "/users/logout/", nil, nil)
}

// Me returns the profile behind a token, which doubles as token verification.
func (c *Client) Me(ctx context.Context, token string) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.getJSON(ctx, token, "/users/me/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
