package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/repository"
)

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mu                sync.Mutex
	Sessions          map[uuid.UUID]*models.Session
	CreateError       error
	DeleteCalls       int
	CreateFunc        func(ctx context.Context, s *models.Session) error
	DeleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

// Verify interface compliance
var _ repository.SessionRepository = (*MockSessionRepository)(nil)

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		Sessions: make(map[uuid.UUID]*models.Session),
	}
}

func (m *MockSessionRepository) Create(ctx context.Context, s *models.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, s)
	}
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions[s.ID] = s
	return nil
}

func (m *MockSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.Sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return s, nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls++
	delete(m.Sessions, id)
	return nil
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, now)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.Sessions {
		if s.Expired(now) {
			delete(m.Sessions, id)
			n++
		}
	}
	return n, nil
}

// Count returns the number of stored sessions
func (m *MockSessionRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sessions)
}
