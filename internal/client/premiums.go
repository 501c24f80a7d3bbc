package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cci-admin-dashboard/internal/models"
)

const premiumsPath = "/admin-premiums/admin/premiums"

// ListPremiums fetches one page of premiums
func (c *Client) ListPremiums(ctx context.Context, query url.Values) (*models.Collection[models.Premium], error) {
	var out models.Collection[models.Premium]
	if err := c.do(ctx, http.MethodGet, premiumsPath, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OverduePremiums fetches premiums past their due date
func (c *Client) OverduePremiums(ctx context.Context) ([]models.Premium, error) {
	var out models.Collection[models.Premium]
	if err := c.do(ctx, http.MethodGet, premiumsPath+"/overdue", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AdjustPremium applies a percentage adjustment to one premium
func (c *Client) AdjustPremium(ctx context.Context, id string, adj models.PremiumAdjustment) error {
	return c.do(ctx, http.MethodPost, premiumsPath+"/"+url.PathEscape(id)+"/adjust", nil, adj, nil)
}

// BulkAdjustPremiums adjusts several premiums in one request
func (c *Client) BulkAdjustPremiums(ctx context.Context, items []models.BulkPremiumAdjustment) ([]models.BulkResult, error) {
	var out models.BulkResponse
	body := map[string]any{"adjustments": items}
	if err := c.do(ctx, http.MethodPost, premiumsPath+"/bulk-adjust", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// PremiumHistory fetches the adjustment and payment history of a premium
func (c *Client) PremiumHistory(ctx context.Context, id string) ([]models.PremiumHistoryEntry, error) {
	var out struct {
		History []models.PremiumHistoryEntry `json:"history"`
	}
	if err := c.do(ctx, http.MethodGet, premiumsPath+"/"+url.PathEscape(id)+"/history", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}

// AuditPremiums runs the backend's AI audit over the given premiums
func (c *Client) AuditPremiums(ctx context.Context, ids []string) ([]models.AuditResult, error) {
	var out []models.AuditResult
	body := map[string]any{"premiumIds": ids}
	if err := c.do(ctx, http.MethodPost, premiumsPath+"/audit", nil, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendReminders sends payment reminders for the given premiums
func (c *Client) SendReminders(ctx context.Context, ids []string) ([]models.BulkResult, error) {
	var out models.BulkResponse
	body := map[string]any{"premiumIds": ids}
	if err := c.do(ctx, http.MethodPost, "/admin-premiums/admin/reminders", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// RetryPayment retries the failed payment of a user's premium
func (c *Client) RetryPayment(ctx context.Context, userID string) error {
	body := map[string]string{"userId": userID}
	return c.do(ctx, http.MethodPost, "/premiums/retry-payment", nil, body, nil)
}
