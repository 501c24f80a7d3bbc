package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/cci-admin-dashboard/internal/models"
)

const claimsPath = "/admin-claims/admin/claims"

// ListClaims fetches one page of claims
func (c *Client) ListClaims(ctx context.Context, query url.Values) (*models.Collection[models.Claim], error) {
	var out models.Collection[models.Claim]
	if err := c.do(ctx, http.MethodGet, claimsPath, query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingDeadlineClaims fetches claims close to their resolution deadline
func (c *Client) PendingDeadlineClaims(ctx context.Context) ([]models.Claim, error) {
	var out models.Collection[models.Claim]
	if err := c.do(ctx, http.MethodGet, claimsPath+"/pending-deadline", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// HighRiskCreators fetches creators flagged by claim frequency
func (c *Client) HighRiskCreators(ctx context.Context, query url.Values) ([]models.HighRiskCreator, error) {
	var out struct {
		HighRiskCreators []models.HighRiskCreator `json:"highRiskCreators"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin-claims/admin/high-risk", query, nil, &out); err != nil {
		return nil, err
	}
	return out.HighRiskCreators, nil
}

// GetClaim fetches one claim with its evidence and evaluation
func (c *Client) GetClaim(ctx context.Context, id string) (*models.Claim, error) {
	return getData[models.Claim](ctx, c, claimsPath+"/"+url.PathEscape(id), nil)
}

// ClaimHistory fetches the status changes of a claim
func (c *Client) ClaimHistory(ctx context.Context, id string) ([]models.StatusChange, error) {
	h, err := getData[models.ClaimHistory](ctx, c, claimsPath+"/"+url.PathEscape(id)+"/history", nil)
	if err != nil {
		return nil, err
	}
	return h.History.StatusChanges, nil
}

// EvaluateClaim asks the backend to run its automated evaluation
func (c *Client) EvaluateClaim(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, claimsPath+"/"+url.PathEscape(id)+"/evaluate", nil, nil, nil)
}

// ReviewClaim records a manual review decision
func (c *Client) ReviewClaim(ctx context.Context, id string, review models.ClaimReview) error {
	return c.do(ctx, http.MethodPost, claimsPath+"/"+url.PathEscape(id)+"/review", nil, review, nil)
}

// MarkClaimPaid records the payout of an approved claim
func (c *Client) MarkClaimPaid(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, claimsPath+"/"+url.PathEscape(id)+"/mark-paid", nil, nil, nil)
}

// BulkReviewClaims reviews several claims in one request
func (c *Client) BulkReviewClaims(ctx context.Context, reviews []models.BulkClaimReview) ([]models.BulkResult, error) {
	var out models.BulkResponse
	body := map[string]any{"reviews": reviews}
	if err := c.do(ctx, http.MethodPost, claimsPath+"/bulk-review", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// AuditClaims runs the backend's AI audit over the given claims
func (c *Client) AuditClaims(ctx context.Context, ids []string) ([]models.AuditResult, error) {
	var out envelope[[]models.AuditResult]
	body := map[string]any{"claimIds": ids}
	if err := c.do(ctx, http.MethodPost, claimsPath+"/audit", nil, body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
