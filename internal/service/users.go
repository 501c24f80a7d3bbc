package service

import (
	"context"

	"github.com/cci-admin-dashboard/internal/detail"
	"github.com/cci-admin-dashboard/internal/form"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/validation"
)

const kindUser = "user"

// UserView opens the detail page of one user
func (w *Workspace) UserView(id string) *detail.View[models.UserDetails] {
	v := detail.New(detail.Config[models.UserDetails]{
		Name:     kindUser,
		ID:       id,
		Load:     w.api.GetUser,
		Notifier: w.Notices,
		Logger:   w.log,
	})
	w.mount(kindUser, v)
	return v
}

// UpdateUserForm returns the open update form of a user
func (w *Workspace) UpdateUserForm(id string) *form.Form {
	return w.Form(formKey(kindUser, id, "update"), form.Config{
		SuccessMessage: "User updated successfully",
		OnDone:         refetch(w.Users),
	})
}

// UpdateUser submits the update form of a user
func (w *Workspace) UpdateUser(ctx context.Context, id string, in validation.UserUpdateInput) error {
	return w.UpdateUserForm(id).Submit(ctx, in, func(ctx context.Context) error {
		return w.api.UpdateUser(ctx, id, in.Update())
	})
}

// DeactivateUser submits the deactivate confirmation of a user
func (w *Workspace) DeactivateUser(ctx context.Context, id string) error {
	f := w.Form(formKey(kindUser, id, "deactivate"), form.Config{
		SuccessMessage: "User deactivated successfully",
		OnDone:         refetch(w.Users),
	})
	return f.Submit(ctx, nil, func(ctx context.Context) error {
		return w.api.DeactivateUser(ctx, id)
	})
}
