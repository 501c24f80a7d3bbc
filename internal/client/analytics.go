package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cci-admin-dashboard/internal/models"
)

func (c *Client) analytics(ctx context.Context, path string, query url.Values) (models.Analytics, error) {
	var a models.Analytics
	if err := c.do(ctx, http.MethodGet, path, query, nil, &a); err != nil {
		return nil, err
	}
	return a.Unwrap(), nil
}

// UserAnalytics fetches the platform-wide analytics of the overview page
func (c *Client) UserAnalytics(ctx context.Context, query url.Values) (models.Analytics, error) {
	return c.analytics(ctx, "/admin-auth/admin/analytics", query)
}

// ContractAnalytics fetches insurance application analytics
func (c *Client) ContractAnalytics(ctx context.Context, query url.Values) (models.Analytics, error) {
	return c.analytics(ctx, "/insurance/admin/analytics", query)
}

// PremiumAnalytics fetches premium analytics
func (c *Client) PremiumAnalytics(ctx context.Context, query url.Values) (models.Analytics, error) {
	return c.analytics(ctx, "/admin-premiums/admin/analytics", query)
}

// ClaimAnalytics fetches claim analytics
func (c *Client) ClaimAnalytics(ctx context.Context, query url.Values) (models.Analytics, error) {
	return c.analytics(ctx, "/admin-claims/admin/analytics", query)
}
