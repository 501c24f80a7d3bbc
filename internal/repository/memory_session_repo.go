package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cci-admin-dashboard/internal/models"
)

// memorySessionRepo keeps sessions in process memory. Sessions do not
// survive a restart.
type memorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]models.Session
}

// NewMemorySessionRepo creates an in-memory session repository
func NewMemorySessionRepo() SessionRepository {
	return &memorySessionRepo{sessions: make(map[uuid.UUID]models.Session)}
}

func (r *memorySessionRepo) Create(_ context.Context, s *models.Session) error {
	r.mu.Lock()
	r.sessions[s.ID] = *s
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok || s.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

func (r *memorySessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
	return nil
}

func (r *memorySessionRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}
