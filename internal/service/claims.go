package service

import (
	"context"

	"github.com/cci-admin-dashboard/internal/detail"
	"github.com/cci-admin-dashboard/internal/form"
	"github.com/cci-admin-dashboard/internal/listctl"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/notify"
	"github.com/cci-admin-dashboard/internal/validation"
)

const (
	kindClaim = "claim"

	// SubClaimHistory is the status history of the claim page
	SubClaimHistory = "history"
)

// ClaimView opens the detail page of one claim
func (w *Workspace) ClaimView(id string) *detail.View[models.Claim] {
	v := detail.New(detail.Config[models.Claim]{
		Name: kindClaim,
		ID:   id,
		Load: w.api.GetClaim,
		Subs: map[string]detail.SubLoader{
			SubClaimHistory: func(ctx context.Context, id string) (any, error) {
				return w.api.ClaimHistory(ctx, id)
			},
		},
		Notifier: w.Notices,
		Logger:   w.log,
	})
	w.mount(kindClaim, v)
	return v
}

// ReviewClaimForm returns the open manual review form of a claim
func (w *Workspace) ReviewClaimForm(id string) *form.Form {
	return w.Form(formKey(kindClaim, id, "review"), form.Config{
		SuccessMessage: "Claim reviewed successfully",
		OnDone:         refetch(w.Claims),
	})
}

// ReviewClaim submits a manual review of one claim
func (w *Workspace) ReviewClaim(ctx context.Context, id string, in validation.ClaimReviewInput) error {
	return w.ReviewClaimForm(id).Submit(ctx, in, func(ctx context.Context) error {
		return w.api.ReviewClaim(ctx, id, in.Review())
	})
}

// EvaluateClaim asks the backend for an AI evaluation. Only submitted
// claims can be evaluated.
func (w *Workspace) EvaluateClaim(ctx context.Context, id string) error {
	f := w.Form(formKey(kindClaim, id, "evaluate"), form.Config{
		SuccessMessage: "Claim evaluated successfully",
		OnDone:         refetch(w.Claims),
	})
	return f.Submit(ctx, nil, func(ctx context.Context) error {
		if err := w.claimAllows(ctx, id, func(a models.ClaimActions) bool { return a.Evaluate }); err != nil {
			return err
		}
		return w.api.EvaluateClaim(ctx, id)
	})
}

// MarkClaimPaid marks an approved claim as paid
func (w *Workspace) MarkClaimPaid(ctx context.Context, id string) error {
	f := w.Form(formKey(kindClaim, id, "paid"), form.Config{
		SuccessMessage: "Claim marked as paid",
		OnDone:         refetch(w.Claims),
	})
	return f.Submit(ctx, nil, func(ctx context.Context) error {
		if err := w.claimAllows(ctx, id, func(a models.ClaimActions) bool { return a.MarkPaid }); err != nil {
			return err
		}
		return w.api.MarkClaimPaid(ctx, id)
	})
}

// AuditClaim runs the AI audit on one claim and keeps the result for its page
func (w *Workspace) AuditClaim(ctx context.Context, id string) error {
	f := w.Form(formKey(kindClaim, id, "audit"), form.Config{})
	return f.Submit(ctx, nil, func(ctx context.Context) error {
		if err := w.claimAllows(ctx, id, func(a models.ClaimActions) bool { return a.Audit }); err != nil {
			return err
		}
		results, err := w.api.AuditClaims(ctx, []string{id})
		if err != nil {
			return err
		}
		w.setClaimAudits(results)
		for _, r := range results {
			if !r.Success {
				w.Notices.Notify(notify.LevelError, "Audit failed: "+r.Error)
				return nil
			}
		}
		w.Notices.Notify(notify.LevelSuccess, "Claim audited successfully")
		return nil
	})
}

// claimAllows loads the claim and checks its status permits an action
func (w *Workspace) claimAllows(ctx context.Context, id string, allowed func(models.ClaimActions) bool) error {
	claim, err := w.api.GetClaim(ctx, id)
	if err != nil {
		return err
	}
	if !allowed(claim.Actions()) {
		return ErrActionNotAllowed
	}
	return nil
}

// BulkReviewClaims applies one review to every selected claim
func (w *Workspace) BulkReviewClaims(ctx context.Context, in validation.ClaimReviewInput) (listctl.Outcome, error) {
	var out listctl.Outcome
	f := w.Form(formKey("claims", "bulk", "review"), form.Config{Notifier: notify.Discard})
	err := f.Submit(ctx, in, func(ctx context.Context) error {
		var err error
		out, err = listctl.BulkAct(ctx, w.Claims, listctl.Bulk[models.BulkClaimReview]{
			Label:  "Review",
			Build:  in.BulkItem,
			Submit: w.api.BulkReviewClaims,
		})
		return err
	})
	return out, err
}

// AuditClaims runs the AI audit over the selected claims
func (w *Workspace) AuditClaims(ctx context.Context) (listctl.Outcome, error) {
	var out listctl.Outcome
	f := w.Form(formKey("claims", "bulk", "audit"), form.Config{Notifier: notify.Discard})
	err := f.Submit(ctx, nil, func(ctx context.Context) error {
		var err error
		out, err = listctl.BulkAct(ctx, w.Claims, listctl.Bulk[string]{
			Label: "Audit",
			Build: func(id string) string { return id },
			Submit: func(ctx context.Context, ids []string) ([]models.BulkResult, error) {
				results, err := w.api.AuditClaims(ctx, ids)
				if err != nil {
					return nil, err
				}
				w.setClaimAudits(results)
				return auditOutcomes(results), nil
			},
		})
		return err
	})
	return out, err
}
