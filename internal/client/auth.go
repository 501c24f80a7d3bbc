package client

import (
	"context"
	"net/http"

	"github.com/cci-admin-dashboard/internal/models"
)

// Login exchanges credentials for a bearer token. A response with
// success=false is returned as an *APIError carrying the backend's message.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Token == "" {
		msg := resp.Error
		if msg == "" {
			msg = "Invalid email or password"
		}
		return nil, &APIError{Status: http.StatusOK, Message: msg}
	}
	return &resp, nil
}
