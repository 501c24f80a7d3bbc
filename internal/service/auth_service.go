package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/repository"
	"github.com/cci-admin-dashboard/internal/validation"
)

// ErrNotAdmin is returned when a non-admin account tries to log in
var ErrNotAdmin = errors.New("access denied: admin privileges required")

// authService is the concrete implementation of AuthService
type authService struct {
	sessions   repository.SessionRepository
	auth       Authenticator
	workspaces WorkspaceService
	validator  *validation.Validator
	ttl        time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

func newAuthService(sessions repository.SessionRepository, auth Authenticator, workspaces WorkspaceService, v *validation.Validator, ttl time.Duration, log zerolog.Logger) *authService {
	return &authService{
		sessions:   sessions,
		auth:       auth,
		workspaces: workspaces,
		validator:  v,
		ttl:        ttl,
		now:        time.Now,
		log:        log.With().Str("service", "auth").Logger(),
	}
}

// NewAuthService creates an AuthService
func NewAuthService(sessions repository.SessionRepository, auth Authenticator, workspaces WorkspaceService, ttl time.Duration, log zerolog.Logger) AuthService {
	return newAuthService(sessions, auth, workspaces, validation.NewValidator(), ttl, log)
}

// Login validates the credentials locally, exchanges them for a token and
// opens a session. Non-admin accounts get ErrNotAdmin and nothing is stored.
func (s *authService) Login(ctx context.Context, in validation.LoginInput) (*models.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}

	resp, err := s.auth.Login(ctx, in.Email, in.Password)
	if err != nil {
		s.log.Warn().Err(err).Str("email", in.Email).Msg("Login rejected by backend")
		return nil, err
	}

	if !strings.EqualFold(resp.User.Role, models.RoleAdmin) {
		s.log.Warn().Str("email", in.Email).Str("role", resp.User.Role).Msg("Non-admin login refused")
		return nil, ErrNotAdmin
	}

	return s.init(ctx, resp.Token, resp.User)
}

// init is the only writer that creates session state
func (s *authService) init(ctx context.Context, token string, user models.AuthUser) (*models.Session, error) {
	now := s.now()
	sess := &models.Session{
		ID:        uuid.New(),
		Token:     token,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	s.log.Info().Str("session_id", sess.ID.String()).Str("user", user.Email).Msg("Session started")
	return sess, nil
}

// Logout tears the session down
func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.teardown(ctx, sessionID)
}

// teardown is the only writer that removes session state. Token and user go
// together with the workspace.
func (s *authService) teardown(ctx context.Context, sessionID uuid.UUID) error {
	s.workspaces.Close(sessionID)
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	s.log.Info().Str("session_id", sessionID.String()).Msg("Session ended")
	return nil
}

// Resolve returns the live session for sessionID
func (s *authService) Resolve(ctx context.Context, sessionID uuid.UUID) (*models.Session, error) {
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, repository.ErrSessionNotFound) {
		s.workspaces.Close(sessionID)
	}
	return sess, err
}
