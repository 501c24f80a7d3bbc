package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/config"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/repository"
	"github.com/cci-admin-dashboard/internal/validation"
)

// Authenticator exchanges credentials for a bearer token
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
}

// AuthService owns the session lifecycle. Login is the only path that
// creates a session and Logout the only one that deletes it.
type AuthService interface {
	Login(ctx context.Context, in validation.LoginInput) (*models.Session, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	Resolve(ctx context.Context, sessionID uuid.UUID) (*models.Session, error)
}

// WorkspaceService keeps one Workspace per live session
type WorkspaceService interface {
	Open(s *models.Session) *Workspace
	Close(sessionID uuid.UUID)
	CloseExpired(now time.Time) int
	Count() int
}

// SweeperService removes expired sessions in the background
type SweeperService interface {
	StartSweeper(ctx context.Context)
	StopSweeper()
}

// ExportService writes downloads to the browser
type ExportService interface {
	WriteReport(w http.ResponseWriter, report *client.Report) error
	StreamAuditResults(w http.ResponseWriter, results []models.AuditResult) error
}

// Services holds all service interfaces
type Services struct {
	Auth       AuthService
	Workspaces WorkspaceService
	Sweeper    SweeperService
	Export     ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, api *client.Client, cfg *config.Config, log zerolog.Logger) *Services {
	validator := validation.NewValidator()
	workspaces := newWorkspaceService(api, validator, cfg.List.PageLimit, log)
	auth := newAuthService(repos.Session, api, workspaces, validator, cfg.Session.TTL, log)
	sweeper := newSessionSweeper(repos.Session, workspaces, cfg.Session.SweepInterval, log)

	return &Services{
		Auth:       auth,
		Workspaces: workspaces,
		Sweeper:    sweeper,
		Export:     newExportService(log),
	}
}
