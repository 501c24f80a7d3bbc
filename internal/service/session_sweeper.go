package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/repository"
)

// DefaultSweepInterval is used when no interval is configured
const DefaultSweepInterval = 5 * time.Minute

// sessionSweeper is the concrete implementation of SweeperService
type sessionSweeper struct {
	sessions   repository.SessionRepository
	workspaces WorkspaceService
	interval   time.Duration
	now        func() time.Time
	log        zerolog.Logger

	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
	mu      sync.Mutex
}

func newSessionSweeper(sessions repository.SessionRepository, workspaces WorkspaceService, interval time.Duration, log zerolog.Logger) *sessionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &sessionSweeper{
		sessions:   sessions,
		workspaces: workspaces,
		interval:   interval,
		now:        time.Now,
		log:        log.With().Str("service", "sweeper").Logger(),
	}
}

// NewSessionSweeper creates a SweeperService
func NewSessionSweeper(sessions repository.SessionRepository, workspaces WorkspaceService, interval time.Duration, log zerolog.Logger) SweeperService {
	return newSessionSweeper(sessions, workspaces, interval, log)
}

// StartSweeper runs the sweep loop until ctx is cancelled or StopSweeper is
// called. It blocks; run it in its own goroutine.
func (s *sessionSweeper) StartSweeper(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()
	defer close(done)

	s.log.Info().Dur("interval", s.interval).Msg("Session sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.log.Info().Msg("Session sweeper stopping")
			return
		case <-ticker.C:
			s.sweep(s.ctx)
		}
	}
}

// StopSweeper stops the loop and waits for it to return
func (s *sessionSweeper) StopSweeper() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	<-s.done
	s.running = false
	s.log.Info().Msg("Session sweeper stopped")
}

// sweep deletes expired sessions and disposes their workspaces
func (s *sessionSweeper) sweep(ctx context.Context) {
	now := s.now()
	deleted, err := s.sessions.DeleteExpired(ctx, now)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to delete expired sessions")
	}
	closed := s.workspaces.CloseExpired(now)
	if deleted > 0 || closed > 0 {
		s.log.Info().Int64("sessions", deleted).Int("workspaces", closed).Msg("Expired sessions swept")
	}
}
