package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cci-admin-dashboard/internal/database"
	"github.com/cci-admin-dashboard/internal/models"
)

// sessionRepo is the SQL implementation of SessionRepository. It runs on
// both PostgreSQL and SQLite; timestamps are stored as unix seconds.
type sessionRepo struct {
	db *database.DB
}

// NewSessionRepo creates a new session repository
func NewSessionRepo(db *database.DB) SessionRepository {
	return &sessionRepo{db: db}
}

// Create inserts a new session
func (r *sessionRepo) Create(ctx context.Context, s *models.Session) error {
	userData, err := json.Marshal(s.User)
	if err != nil {
		return fmt.Errorf("failed to encode session user: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO sessions (id, token, user_data, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	_, err = r.db.ExecContext(ctx, query,
		s.ID.String(), s.Token, string(userData), s.CreatedAt.Unix(), s.ExpiresAt.Unix(),
	)
	return err
}

// GetByID retrieves a session by ID. Expired sessions are not returned.
func (r *sessionRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	query := r.db.Rebind(`
		SELECT id, token, user_data, created_at, expires_at
		FROM sessions WHERE id = $1
	`)

	var (
		s                  models.Session
		rawID, userData    string
		createdAt, expires int64
	)
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&rawID, &s.Token, &userData, &createdAt, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.ID, err = uuid.Parse(rawID); err != nil {
		return nil, fmt.Errorf("invalid session id in store: %w", err)
	}
	if err := json.Unmarshal([]byte(userData), &s.User); err != nil {
		return nil, fmt.Errorf("failed to decode session user: %w", err)
	}
	s.CreatedAt = time.Unix(createdAt, 0)
	s.ExpiresAt = time.Unix(expires, 0)

	if s.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}
	return &s, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *sessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE id = $1`), id.String())
	return err
}

// DeleteExpired removes every session expired at now
func (r *sessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM sessions WHERE expires_at <= $1`), now.Unix())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
