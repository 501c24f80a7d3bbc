package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cci-admin-dashboard/internal/models"
)

const usersPath = "/admin-auth/admin/users"

// ListUsers fetches one page of users
func (c *Client) ListUsers(ctx context.Context, query url.Values) (*models.Collection[models.User], error) {
	var out models.Collection[models.User]
	if err := c.do(ctx, http.MethodGet, usersPath, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUser fetches one user with their content reviews
func (c *Client) GetUser(ctx context.Context, id string) (*models.UserDetails, error) {
	return getData[models.UserDetails](ctx, c, usersPath+"/"+url.PathEscape(id), nil)
}

// UpdateUser replaces a user's editable fields
func (c *Client) UpdateUser(ctx context.Context, id string, update models.UserUpdate) error {
	return c.do(ctx, http.MethodPut, usersPath+"/"+url.PathEscape(id), nil, update, nil)
}

// DeactivateUser deactivates a user account
func (c *Client) DeactivateUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, usersPath+"/"+url.PathEscape(id), nil, nil, nil)
}
