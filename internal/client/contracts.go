package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cci-admin-dashboard/internal/models"
)

const contractPath = "/admin-insurance/admin/contract/"

// ListContracts fetches one page of insurance contracts
func (c *Client) ListContracts(ctx context.Context, query url.Values) (*models.Collection[models.Contract], error) {
	var out models.Collection[models.Contract]
	if err := c.do(ctx, http.MethodGet, "/insurance/admin/contracts", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReviewContract approves or rejects one insurance application
func (c *Client) ReviewContract(ctx context.Context, review models.ContractReview) error {
	return c.do(ctx, http.MethodPost, "/insurance/admin/review", nil, review, nil)
}

// BulkReviewContracts reviews several applications in one request
func (c *Client) BulkReviewContracts(ctx context.Context, reviews []models.ContractReview) ([]models.BulkResult, error) {
	var out models.BulkResponse
	body := map[string]any{"reviews": reviews}
	if err := c.do(ctx, http.MethodPost, "/admin-insurance/admin/bulk-review", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ManageRenewals reminds or renews the given contracts
func (c *Client) ManageRenewals(ctx context.Context, req models.RenewalRequest) ([]models.BulkResult, error) {
	var out models.BulkResponse
	if err := c.do(ctx, http.MethodPost, "/admin-insurance/admin/renewals", nil, req, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// GetContract fetches one contract by its owner's user ID
func (c *Client) GetContract(ctx context.Context, userID string) (*models.ContractDetails, error) {
	return getData[models.ContractDetails](ctx, c, contractPath+url.PathEscape(userID), nil)
}

// UpdateContract changes coverage, platforms and declared earnings
func (c *Client) UpdateContract(ctx context.Context, userID string, update models.ContractUpdate) error {
	return c.do(ctx, http.MethodPut, contractPath+url.PathEscape(userID), nil, update, nil)
}

// AnalyzeContract asks the backend for AI insights on a contract
func (c *Client) AnalyzeContract(ctx context.Context, userID string) (*models.ContractAnalysis, error) {
	var env envelope[models.ContractAnalysis]
	if err := c.do(ctx, http.MethodPost, contractPath+url.PathEscape(userID)+"/analyze", nil, nil, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// TerminateContract ends a contract
func (c *Client) TerminateContract(ctx context.Context, userID, reason string) error {
	body := map[string]string{"reason": reason}
	return c.do(ctx, http.MethodPost, contractPath+url.PathEscape(userID)+"/terminate", nil, body, nil)
}

// ContractHistory fetches the status history of a contract
func (c *Client) ContractHistory(ctx context.Context, userID string) (*models.ContractHistory, error) {
	return getData[models.ContractHistory](ctx, c, contractPath+url.PathEscape(userID)+"/history", nil)
}
