package service

import (
	"context"
	"fmt"

	"github.com/cci-admin-dashboard/internal/detail"
	"github.com/cci-admin-dashboard/internal/form"
	"github.com/cci-admin-dashboard/internal/listctl"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/notify"
	"github.com/cci-admin-dashboard/internal/validation"
)

const (
	kindPremium = "premium"

	// SubPremiumHistory is the adjustment history of the premium page
	SubPremiumHistory = "history"
)

// PremiumView opens the detail page of one premium. The backend has no
// single-premium endpoint, so the row comes from the premiums table, which
// is loaded first when it has never been shown.
func (w *Workspace) PremiumView(id string) *detail.View[models.Premium] {
	v := detail.New(detail.Config[models.Premium]{
		Name: kindPremium,
		ID:   id,
		Load: w.premiumRow,
		Subs: map[string]detail.SubLoader{
			SubPremiumHistory: func(ctx context.Context, id string) (any, error) {
				return w.api.PremiumHistory(ctx, id)
			},
		},
		Notifier: w.Notices,
		Logger:   w.log,
	})
	w.mount(kindPremium, v)
	return v
}

func (w *Workspace) premiumRow(ctx context.Context, id string) (*models.Premium, error) {
	if !w.Premiums.Fetched() {
		if err := w.Premiums.Fetch(ctx); err != nil {
			return nil, err
		}
	}
	p, ok := w.Premiums.Row(id)
	if !ok {
		return nil, ErrRowNotLoaded
	}
	return &p, nil
}

// AdjustPremiumForm returns the open adjustment form of a premium
func (w *Workspace) AdjustPremiumForm(id string) *form.Form {
	return w.Form(formKey(kindPremium, id, "adjust"), form.Config{
		SuccessMessage: "Premium adjusted successfully",
		OnDone:         refetch(w.Premiums),
	})
}

// AdjustPremium submits the adjustment form of one premium
func (w *Workspace) AdjustPremium(ctx context.Context, id string, in validation.AdjustmentInput) error {
	return w.AdjustPremiumForm(id).Submit(ctx, in, func(ctx context.Context) error {
		return w.api.AdjustPremium(ctx, id, in.Adjustment())
	})
}

// BulkAdjustPremiums applies one adjustment to every selected premium
func (w *Workspace) BulkAdjustPremiums(ctx context.Context, in validation.AdjustmentInput) (listctl.Outcome, error) {
	var out listctl.Outcome
	f := w.Form(formKey("premiums", "bulk", "adjust"), form.Config{Notifier: notify.Discard})
	err := f.Submit(ctx, in, func(ctx context.Context) error {
		var err error
		out, err = listctl.BulkAct(ctx, w.Premiums, listctl.Bulk[models.BulkPremiumAdjustment]{
			Label:  "Adjustment",
			Build:  in.BulkItem,
			Submit: w.api.BulkAdjustPremiums,
		})
		return err
	})
	return out, err
}

// AuditPremiums runs the AI audit over the selected premiums. The full
// results are kept for download.
func (w *Workspace) AuditPremiums(ctx context.Context) (listctl.Outcome, error) {
	var out listctl.Outcome
	f := w.Form(formKey("premiums", "bulk", "audit"), form.Config{Notifier: notify.Discard})
	err := f.Submit(ctx, nil, func(ctx context.Context) error {
		var err error
		out, err = listctl.BulkAct(ctx, w.Premiums, listctl.Bulk[string]{
			Label: "Audit",
			Build: func(id string) string { return id },
			Submit: func(ctx context.Context, ids []string) ([]models.BulkResult, error) {
				results, err := w.api.AuditPremiums(ctx, ids)
				if err != nil {
					return nil, err
				}
				w.setAudit(results)
				return auditOutcomes(results), nil
			},
		})
		return err
	})
	return out, err
}

// SendReminders sends payment reminders for the selected premiums
func (w *Workspace) SendReminders(ctx context.Context) (listctl.Outcome, error) {
	var out listctl.Outcome
	f := w.Form(formKey("premiums", "bulk", "reminders"), form.Config{Notifier: notify.Discard})
	err := f.Submit(ctx, nil, func(ctx context.Context) error {
		var err error
		out, err = listctl.BulkAct(ctx, w.Premiums, listctl.Bulk[string]{
			Label:  "Payment reminder",
			Build:  func(id string) string { return id },
			Submit: w.api.SendReminders,
		})
		return err
	})
	return out, err
}

// RetryPayment retries the failed payment of a premium's owner
func (w *Workspace) RetryPayment(ctx context.Context, premiumID string) error {
	f := w.Form(formKey(kindPremium, premiumID, "retry"), form.Config{
		SuccessMessage: "Payment retry initiated",
		OnDone:         refetch(w.Premiums),
	})
	return f.Submit(ctx, nil, func(ctx context.Context) error {
		p, ok := w.Premiums.Row(premiumID)
		if !ok {
			return ErrRowNotLoaded
		}
		userID := p.PremiumDetails.UserID.ID
		if userID == "" {
			return fmt.Errorf("premium %s has no owner", listctl.ShortID(premiumID))
		}
		return w.api.RetryPayment(ctx, userID)
	})
}
