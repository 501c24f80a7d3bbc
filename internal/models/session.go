package models

import (
	"time"

	"github.com/google/uuid"
)

// Session is a logged-in administrator's server-side session. The bearer
// token never leaves the server; the browser only holds the session ID.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Token     string    `json:"-"`
	User      AuthUser  `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
