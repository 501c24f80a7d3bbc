package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/mocks"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/repository"
	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

func newAuth(auth service.Authenticator) (service.AuthService, *mocks.MockSessionRepository, *mocks.MockWorkspaceService) {
	repo := mocks.NewMockSessionRepository()
	ws := &mocks.MockWorkspaceService{}
	return service.NewAuthService(repo, auth, ws, time.Hour, zerolog.Nop()), repo, ws
}

func TestLogin_AdminCreatesSession(t *testing.T) {
	backend := mocks.NewMockAuthenticator("Admin")
	auth, repo, _ := newAuth(backend)

	sess, err := auth.Login(context.Background(), validation.LoginInput{Email: " root@cci.io ", Password: "password1"})
	require.NoError(t, err)

	assert.Equal(t, "token-root@cci.io", sess.Token)
	assert.Equal(t, "root@cci.io", sess.User.Email)
	assert.WithinDuration(t, sess.CreatedAt.Add(time.Hour), sess.ExpiresAt, time.Second)
	assert.Equal(t, 1, repo.Count())

	got, err := auth.Resolve(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
}

func TestLogin_NonAdminPersistsNothing(t *testing.T) {
	auth, repo, _ := newAuth(mocks.NewMockAuthenticator("user"))

	sess, err := auth.Login(context.Background(), validation.LoginInput{Email: "creator@cci.io", Password: "password1"})
	assert.ErrorIs(t, err, service.ErrNotAdmin)
	assert.Nil(t, sess)
	assert.Equal(t, 0, repo.Count())
}

func TestLogin_InvalidInputNeverCallsBackend(t *testing.T) {
	tests := []struct {
		name  string
		in    validation.LoginInput
		field string
	}{
		{"bad email", validation.LoginInput{Email: "not-an-email", Password: "password1"}, "email"},
		{"short password", validation.LoginInput{Email: "root@cci.io", Password: "short"}, "password"},
		{"empty", validation.LoginInput{}, "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := mocks.NewMockAuthenticator("admin")
			auth, repo, _ := newAuth(backend)

			_, err := auth.Login(context.Background(), tt.in)
			errs, ok := validation.AsErrors(err)
			require.True(t, ok, "expected validation errors, got %v", err)
			assert.NotEmpty(t, errs.Field(tt.field))
			assert.Zero(t, backend.Calls)
			assert.Zero(t, repo.Count())
		})
	}
}

func TestLogin_BackendRejection(t *testing.T) {
	backend := &mocks.MockAuthenticator{
		LoginFunc: func(ctx context.Context, email, password string) (*models.LoginResponse, error) {
			return nil, &client.APIError{Status: 401, Message: "Invalid email or password"}
		},
	}
	auth, repo, _ := newAuth(backend)

	_, err := auth.Login(context.Background(), validation.LoginInput{Email: "root@cci.io", Password: "password1"})
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Zero(t, repo.Count())
}

func TestLogin_StoreFailure(t *testing.T) {
	auth, repo, _ := newAuth(mocks.NewMockAuthenticator("admin"))
	repo.CreateError = errors.New("disk full")

	_, err := auth.Login(context.Background(), validation.LoginInput{Email: "root@cci.io", Password: "password1"})
	assert.ErrorContains(t, err, "disk full")
}

func TestLogout_TearsDownSessionAndWorkspace(t *testing.T) {
	auth, repo, ws := newAuth(mocks.NewMockAuthenticator("admin"))
	sess, err := auth.Login(context.Background(), validation.LoginInput{Email: "root@cci.io", Password: "password1"})
	require.NoError(t, err)

	require.NoError(t, auth.Logout(context.Background(), sess.ID))

	assert.Equal(t, 0, repo.Count())
	assert.Equal(t, []uuid.UUID{sess.ID}, ws.Closed)
	_, err = auth.Resolve(context.Background(), sess.ID)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestResolve_UnknownSessionClosesWorkspace(t *testing.T) {
	auth, _, ws := newAuth(mocks.NewMockAuthenticator("admin"))
	id := uuid.New()

	_, err := auth.Resolve(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.Equal(t, []uuid.UUID{id}, ws.Closed)
}
