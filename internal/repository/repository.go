package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/cci-admin-dashboard/internal/database"
	"github.com/cci-admin-dashboard/internal/models"
)

// ErrSessionNotFound is returned when no live session has the given ID
var ErrSessionNotFound = errors.New("session not found")

// SessionRepository persists operator sessions. A session's token and user
// are written and deleted together.
type SessionRepository interface {
	Create(ctx context.Context, s *models.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Session SessionRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Session: NewSessionRepo(db),
	}
}

// NewInMemory creates repositories that keep everything in process memory
func NewInMemory() *Repositories {
	return &Repositories{
		Session: NewMemorySessionRepo(),
	}
}
