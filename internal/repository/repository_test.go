package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cci-admin-dashboard/internal/database"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/repository"
)

func newSQLiteRepo(t *testing.T) repository.SessionRepository {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.RunMigrations())
	return repository.New(db).Session
}

func repos(t *testing.T) map[string]repository.SessionRepository {
	return map[string]repository.SessionRepository{
		"memory": repository.NewInMemory().Session,
		"sqlite": newSQLiteRepo(t),
	}
}

func newSession(ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:        uuid.New(),
		Token:     "jwt-token",
		User:      models.AuthUser{ID: "a1", Email: "admin@cci.io", Role: "admin"},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func TestSessionRepository_CreateGetDelete(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newSession(time.Hour)
			require.NoError(t, repo.Create(ctx, s))

			got, err := repo.GetByID(ctx, s.ID)
			require.NoError(t, err)
			assert.Equal(t, s.ID, got.ID)
			assert.Equal(t, "jwt-token", got.Token)
			assert.Equal(t, s.User, got.User)
			assert.Equal(t, s.ExpiresAt.Unix(), got.ExpiresAt.Unix())

			require.NoError(t, repo.Delete(ctx, s.ID))
			_, err = repo.GetByID(ctx, s.ID)
			assert.ErrorIs(t, err, repository.ErrSessionNotFound)

			// deleting twice is fine
			assert.NoError(t, repo.Delete(ctx, s.ID))
		})
	}
}

func TestSessionRepository_Expiry(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			expired := newSession(-time.Minute)
			live := newSession(time.Hour)
			require.NoError(t, repo.Create(ctx, expired))
			require.NoError(t, repo.Create(ctx, live))

			_, err := repo.GetByID(ctx, expired.ID)
			assert.ErrorIs(t, err, repository.ErrSessionNotFound)

			n, err := repo.DeleteExpired(ctx, time.Now())
			require.NoError(t, err)
			assert.Equal(t, int64(1), n)

			_, err = repo.GetByID(ctx, live.ID)
			assert.NoError(t, err)
		})
	}
}

func TestSessionRepository_UnknownID(t *testing.T) {
	for name, repo := range repos(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.GetByID(context.Background(), uuid.New())
			assert.ErrorIs(t, err, repository.ErrSessionNotFound)
		})
	}
}
