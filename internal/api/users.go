package api

import (
	"context"
	"net/http"

	"github.com/sicea/console/internal/models"
)

// AdminUserInput carries the admin-editable user fields. Pointer fields are
// omitted when nil so PATCH only touches what the form submitted.
type AdminUserInput struct {
	Email     string `json:"email,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Password  string `json:"password,omitempty"`
	IsActive  *bool  `json:"is_active,omitempty"`
	IsStaff   *bool  `json:"is_staff,omitempty"`
}

func (c *Client) ListUsers(ctx context.Context, token string) ([]models.UserProfile, error) {
	var out []models.UserProfile
	if err := c.getJSON(ctx, token, "/users/admin-users/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, token string, in AdminUserInput) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.sendJSON(ctx, http.MethodPost, token, "/users/admin-users/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, token, id string, in AdminUserInput) (*models.UserProfile, error) {
	var out models.UserProfile
	if err := c.sendJSON(ctx, http.MethodPatch, token, "/users/admin-users/"+id+"/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, token, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, token, "/users/admin-users/"+id+"/", nil, nil)
}
