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
	kindContract = "contract"

	// Sub-resources of the contract page
	SubContractHistory  = "history"
	SubContractAnalysis = "analysis"
)

// ContractView opens the detail page of one contract. The contract, its
// history and its AI analysis load together.
func (w *Workspace) ContractView(userID string) *detail.View[models.ContractDetails] {
	v := detail.New(detail.Config[models.ContractDetails]{
		Name: kindContract,
		ID:   userID,
		Load: w.api.GetContract,
		Subs: map[string]detail.SubLoader{
			SubContractHistory: func(ctx context.Context, id string) (any, error) {
				return w.api.ContractHistory(ctx, id)
			},
			SubContractAnalysis: func(ctx context.Context, id string) (any, error) {
				return w.api.AnalyzeContract(ctx, id)
			},
		},
		Notifier: w.Notices,
		Logger:   w.log,
	})
	w.mount(kindContract, v)
	return v
}

// ContractStatusForm returns the open approve/reject form of a contract
func (w *Workspace) ContractStatusForm(userID string) *form.Form {
	return w.Form(formKey(kindContract, userID, "status"), form.Config{
		OnDone: refetch(w.Contracts),
	})
}

// ChangeContractStatus approves or rejects one contract. A rejection
// without a reason never reaches the backend.
func (w *Workspace) ChangeContractStatus(ctx context.Context, userID string, in validation.ReviewDecisionInput) error {
	return w.ContractStatusForm(userID).Submit(ctx, in, func(ctx context.Context) error {
		if err := w.api.ReviewContract(ctx, in.Review(userID)); err != nil {
			return err
		}
		if in.Action == models.ReviewApprove {
			w.Notices.Notify(notify.LevelSuccess, "Contract approved successfully")
		} else {
			w.Notices.Notify(notify.LevelSuccess, "Contract rejected successfully")
		}
		return nil
	})
}

// UpdateContractForm returns the open update form of a contract
func (w *Workspace) UpdateContractForm(userID string) *form.Form {
	return w.Form(formKey(kindContract, userID, "update"), form.Config{
		SuccessMessage: "Contract updated successfully",
		OnDone:         refetch(w.Contracts),
	})
}

// UpdateContract submits the update form of a contract
func (w *Workspace) UpdateContract(ctx context.Context, userID string, in validation.ContractUpdateInput) error {
	return w.UpdateContractForm(userID).Submit(ctx, in, func(ctx context.Context) error {
		return w.api.UpdateContract(ctx, userID, in.Update())
	})
}

// TerminateContract ends a contract and closes its detail page
func (w *Workspace) TerminateContract(ctx context.Context, userID string, in validation.TerminateInput) error {
	f := w.Form(formKey(kindContract, userID, "terminate"), form.Config{
		SuccessMessage: "Contract terminated successfully",
		OnDone: func(ctx context.Context) error {
			w.unmount(kindContract)
			return refetch(w.Contracts)(ctx)
		},
	})
	return f.Submit(ctx, in, func(ctx context.Context) error {
		return w.api.TerminateContract(ctx, userID, in.Reason)
	})
}

// BulkReviewContracts applies one decision to every selected contract
func (w *Workspace) BulkReviewContracts(ctx context.Context, in validation.ReviewDecisionInput) (listctl.Outcome, error) {
	var out listctl.Outcome
	f := w.Form(formKey("contracts", "bulk", "review"), form.Config{Notifier: notify.Discard})
	err := f.Submit(ctx, in, func(ctx context.Context) error {
		var err error
		out, err = listctl.BulkAct(ctx, w.Contracts, listctl.Bulk[models.ContractReview]{
			Label:  "Review",
			Build:  in.Review,
			Submit: w.api.BulkReviewContracts,
		})
		return err
	})
	return out, err
}

// ManageRenewals sends renewal reminders, or renews, the selected contracts
func (w *Workspace) ManageRenewals(ctx context.Context, in validation.RenewalInput) (listctl.Outcome, error) {
	var out listctl.Outcome
	f := w.Form(formKey("contracts", "bulk", "renewals"), form.Config{Notifier: notify.Discard})
	err := f.Submit(ctx, in, func(ctx context.Context) error {
		label := "Renewal"
		if in.Action == models.RenewalRemind {
			label = "Renewal reminder"
		}
		var err error
		out, err = listctl.BulkAct(ctx, w.Contracts, listctl.Bulk[string]{
			Label: label,
			Build: func(id string) string { return id },
			Submit: func(ctx context.Context, ids []string) ([]models.BulkResult, error) {
				return w.api.ManageRenewals(ctx, models.RenewalRequest{UserIDs: ids, Action: in.Action})
			},
		})
		return err
	})
	return out, err
}
