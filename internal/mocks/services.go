package mocks

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	LoginFunc func(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Calls     int
}

// Verify interface compliance
var _ service.Authenticator = (*MockAuthenticator)(nil)

// NewMockAuthenticator returns an authenticator that logs everyone in with role
func NewMockAuthenticator(role string) *MockAuthenticator {
	return &MockAuthenticator{
		LoginFunc: func(ctx context.Context, email, password string) (*models.LoginResponse, error) {
			return &models.LoginResponse{
				Success: true,
				Token:   "token-" + email,
				User:    models.AuthUser{ID: "u-1", Email: email, Role: role},
			}, nil
		},
	}
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	m.Calls++
	return m.LoginFunc(ctx, email, password)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	LoginFunc   func(ctx context.Context, in validation.LoginInput) (*models.Session, error)
	ResolveFunc func(ctx context.Context, id uuid.UUID) (*models.Session, error)
	LoggedOut   []uuid.UUID
}

// Verify interface compliance
var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Login(ctx context.Context, in validation.LoginInput) (*models.Session, error) {
	return m.LoginFunc(ctx, in)
}

func (m *MockAuthService) Logout(ctx context.Context, id uuid.UUID) error {
	m.LoggedOut = append(m.LoggedOut, id)
	return nil
}

func (m *MockAuthService) Resolve(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	return m.ResolveFunc(ctx, id)
}

// MockWorkspaceService is a mock implementation of WorkspaceService. It only
// records which sessions were closed.
type MockWorkspaceService struct {
	mu     sync.Mutex
	Closed []uuid.UUID
}

// Verify interface compliance
var _ service.WorkspaceService = (*MockWorkspaceService)(nil)

func (m *MockWorkspaceService) Open(s *models.Session) *service.Workspace {
	return nil
}

func (m *MockWorkspaceService) Close(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = append(m.Closed, id)
}

func (m *MockWorkspaceService) CloseExpired(now time.Time) int {
	return 0
}

func (m *MockWorkspaceService) Count() int {
	return 0
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	WriteReportFunc func(w http.ResponseWriter, report *client.Report) error
	Reports         []*client.Report
	AuditExports    int
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func (m *MockExportService) WriteReport(w http.ResponseWriter, report *client.Report) error {
	m.Reports = append(m.Reports, report)
	if m.WriteReportFunc != nil {
		return m.WriteReportFunc(w, report)
	}
	return nil
}

func (m *MockExportService) StreamAuditResults(w http.ResponseWriter, results []models.AuditResult) error {
	m.AuditExports++
	return nil
}
