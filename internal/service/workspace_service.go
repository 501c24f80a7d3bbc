package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/validation"
)

// workspaceService is the concrete implementation of WorkspaceService
type workspaceService struct {
	api       *client.Client
	validator *validation.Validator
	limit     int
	log       zerolog.Logger

	mu         sync.Mutex
	workspaces map[uuid.UUID]*Workspace
}

func newWorkspaceService(api *client.Client, v *validation.Validator, limit int, log zerolog.Logger) *workspaceService {
	return &workspaceService{
		api:        api,
		validator:  v,
		limit:      limit,
		log:        log.With().Str("service", "workspace").Logger(),
		workspaces: make(map[uuid.UUID]*Workspace),
	}
}

// NewWorkspaceService creates a WorkspaceService
func NewWorkspaceService(api *client.Client, limit int, log zerolog.Logger) WorkspaceService {
	return newWorkspaceService(api, validation.NewValidator(), limit, log)
}

// Open returns the session's workspace, creating it on first use
func (s *workspaceService) Open(sess *models.Session) *Workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.workspaces[sess.ID]; ok {
		return ws
	}
	ws := newWorkspace(sess, s.api, s.validator, s.limit, s.log)
	s.workspaces[sess.ID] = ws
	s.log.Debug().Str("session_id", sess.ID.String()).Int("open", len(s.workspaces)).Msg("Workspace opened")
	return ws
}

// Close disposes the workspace of a session, if any
func (s *workspaceService) Close(id uuid.UUID) {
	s.mu.Lock()
	ws, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.mu.Unlock()
	if ok {
		ws.Close()
	}
}

// CloseExpired disposes every workspace whose session expired at now
func (s *workspaceService) CloseExpired(now time.Time) int {
	s.mu.Lock()
	var expired []*Workspace
	for id, ws := range s.workspaces {
		if !now.Before(ws.ExpiresAt) {
			expired = append(expired, ws)
			delete(s.workspaces, id)
		}
	}
	s.mu.Unlock()

	for _, ws := range expired {
		ws.Close()
	}
	return len(expired)
}

// Count returns the number of open workspaces
func (s *workspaceService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workspaces)
}
