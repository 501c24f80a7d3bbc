package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cci-admin-dashboard/internal/mocks"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/service"
)

func TestSessionSweeper_RemovesExpiredSessions(t *testing.T) {
	repo := mocks.NewMockSessionRepository()
	now := time.Now()
	expired := &models.Session{ID: uuid.New(), ExpiresAt: now.Add(-time.Minute)}
	live := &models.Session{ID: uuid.New(), ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, repo.Create(context.Background(), expired))
	require.NoError(t, repo.Create(context.Background(), live))

	sweeper := service.NewSessionSweeper(repo, &mocks.MockWorkspaceService{}, 10*time.Millisecond, zerolog.Nop())
	go sweeper.StartSweeper(context.Background())
	defer sweeper.StopSweeper()

	require.Eventually(t, func() bool { return repo.Count() == 1 }, time.Second, 5*time.Millisecond)
	_, err := repo.GetByID(context.Background(), live.ID)
	assert.NoError(t, err)
}

func TestSessionSweeper_StopWithoutStart(t *testing.T) {
	sweeper := service.NewSessionSweeper(mocks.NewMockSessionRepository(), &mocks.MockWorkspaceService{}, time.Minute, zerolog.Nop())
	assert.NotPanics(t, sweeper.StopSweeper)
}
