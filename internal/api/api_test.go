package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cci-admin-dashboard/internal/api"
	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/config"
	"github.com/cci-admin-dashboard/internal/mocks"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/repository"
	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

const cookieName = "cci_session"

// backend is a fake dashboard API recording every request
type backend struct {
	mu      sync.Mutex
	mux     *http.ServeMux
	hits    map[string]int
	queries map[string]url.Values
}

func (b *backend) handle(path string, h http.HandlerFunc) {
	b.mux.HandleFunc("/api"+path, h)
}

func (b *backend) json(path string, status int, v any) {
	b.handle(path, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	})
}

func (b *backend) count(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits["/api"+path]
}

func (b *backend) total() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.hits {
		n += c
	}
	return n
}

func (b *backend) query(path string) url.Values {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.queries["/api"+path]
}

type testServer struct {
	router   *gin.Engine
	backend  *backend
	services *service.Services
}

func setupTestRouter(t *testing.T) *testServer {
	t.Helper()
	return setupTestRouterWith(t, nil)
}

// setupTestRouterWith lets a test adjust the config before the router is built
func setupTestRouterWith(t *testing.T, configure func(cfg *config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	b := &backend{mux: http.NewServeMux(), hits: make(map[string]int), queries: make(map[string]url.Values)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.hits[r.URL.Path]++
		b.queries[r.URL.Path] = r.URL.Query()
		b.mu.Unlock()
		b.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Server:  config.ServerConfig{Port: "8080"},
		Backend: config.BackendConfig{BaseURL: srv.URL + "/api", Timeout: 5 * time.Second},
		Session: config.SessionConfig{
			Store:         config.StoreMemory,
			TTL:           time.Hour,
			SweepInterval: time.Minute,
			CookieName:    cookieName,
		},
		List: config.ListConfig{PageLimit: 10},
	}
	if configure != nil {
		configure(cfg)
	}

	log := zerolog.Nop()
	backendClient := client.New(cfg.Backend.BaseURL, client.Options{Timeout: cfg.Backend.Timeout, Logger: log})
	services := service.NewServices(repository.NewInMemory(), backendClient, cfg, log)

	router, err := api.NewRouter(services, nil, cfg, log)
	require.NoError(t, err)
	return &testServer{router: router, backend: b, services: services}
}

func (s *testServer) do(method, target string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// login signs in as an admin and returns the session cookie
func (s *testServer) login(t *testing.T) *http.Cookie {
	t.Helper()
	s.backend.json("/auth/login", http.StatusOK, map[string]any{
		"success": true,
		"token":   "tok-admin",
		"user":    map[string]string{"email": "root@cci.io", "role": "admin"},
	})
	w := s.do(http.MethodPost, "/login", url.Values{"email": {"root@cci.io"}, "password": {"s3cret-pass"}}, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// csrfToken returns the token of the session behind cookie
func (s *testServer) csrfToken(t *testing.T, cookie *http.Cookie) string {
	t.Helper()
	id, err := uuid.Parse(cookie.Value)
	require.NoError(t, err)
	sess, err := s.services.Auth.Resolve(context.Background(), id)
	require.NoError(t, err)
	return s.services.Workspaces.Open(sess).CSRFToken
}

// signed adds the session's token to a posted form
func (s *testServer) signed(t *testing.T, cookie *http.Cookie, form url.Values) url.Values {
	t.Helper()
	form.Set("csrf_token", s.csrfToken(t, cookie))
	return form
}

var csrfInput = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

var usersPage = map[string]any{
	"data": []map[string]any{
		{"_id": "u-1", "personalInfo": map[string]string{"firstName": "Amina", "lastName": "Otieno", "email": "amina@cci.io"}},
	},
	"pagination": map[string]int{"page": 1, "limit": 10, "total": 1},
}

func TestHealthEndpoint(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodGet, "/health", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "cci-admin-dashboard", response["service"])
	assert.Equal(t, "memory", response["store"])
	assert.EqualValues(t, 0, response["workspaces"])
}

func TestProtectedRoutes_RedirectWithoutSession(t *testing.T) {
	s := setupTestRouter(t)

	for _, target := range []string{"/", "/contracts", "/premiums/p-1", "/claims/report"} {
		w := s.do(http.MethodGet, target, nil, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code, target)
		assert.Equal(t, "/login", w.Header().Get("Location"), target)
	}
	w := s.do(http.MethodGet, "/", nil, &http.Cookie{Name: cookieName, Value: "not-a-uuid"})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	assert.Zero(t, s.backend.total(), "no backend call without a session")
}

func TestLogin_AdminSeesUsersOverview(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.json("/admin-auth/admin/users", http.StatusOK, usersPage)
	s.backend.json("/admin-auth/admin/analytics", http.StatusOK, map[string]any{
		"totalUsers": 12,
		"statusBreakdown": []map[string]any{
			{"_id": "Active", "count": 8},
			{"_id": nil, "count": 4},
		},
	})
	var auth string
	s.backend.handle("/admin-auth/admin/report", func(w http.ResponseWriter, r *http.Request) {
		s.backend.mu.Lock()
		auth = r.Header.Get("Authorization")
		s.backend.mu.Unlock()
	})

	cookie := s.login(t)

	w := s.do(http.MethodGet, "/", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Amina")
	assert.Contains(t, body, "Total users")
	assert.Contains(t, body, "Unknown")
	assert.Contains(t, body, "root@cci.io")

	s.do(http.MethodGet, "/users/report", nil, cookie)
	s.backend.mu.Lock()
	assert.Equal(t, "Bearer tok-admin", auth)
	s.backend.mu.Unlock()

	w = s.do(http.MethodGet, "/login", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code, "signed-in operators skip the login page")
}

func TestLogin_NonAdminRefused(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.json("/auth/login", http.StatusOK, map[string]any{
		"success": true,
		"token":   "tok-user",
		"user":    map[string]string{"email": "creator@cci.io", "role": "user"},
	})

	w := s.do(http.MethodPost, "/login", url.Values{"email": {"creator@cci.io"}, "password": {"s3cret-pass"}}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied: admin privileges required")
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 0, s.services.Workspaces.Count())
}

func TestLogin_InvalidInputNeverReachesBackend(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodPost, "/login", url.Values{"email": {"not-an-email"}, "password": {"short"}}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "not-an-email")
	assert.Zero(t, s.backend.count("/auth/login"))
}

func TestLogin_BackendRejection(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.json("/auth/login", http.StatusOK, map[string]any{"success": false, "error": "Invalid credentials"})

	w := s.do(http.MethodPost, "/login", url.Values{"email": {"root@cci.io"}, "password": {"wrong-pass"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
}

func TestReportDownload_FixedFilename(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.handle("/admin-insurance/admin/contract/report", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte("PK-docx"))
	})
	cookie := s.login(t)

	w := s.do(http.MethodGet, "/contracts/report?status=Active&search=", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="CCI_Contract_Report.docx"`)
	assert.Equal(t, "PK-docx", w.Body.String())

	q := s.backend.query("/admin-insurance/admin/contract/report")
	assert.Equal(t, "Active", q.Get("status"))
	assert.False(t, q.Has("search"), "empty filters are not sent")
}

func TestReportDownload_FailureReturnsToList(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.json("/admin-premiums/admin/report", http.StatusInternalServerError, map[string]string{"message": "report engine down"})
	cookie := s.login(t)

	w := s.do(http.MethodGet, "/premiums/report", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/premiums", w.Header().Get("Location"))
}

func TestContractReject_WithoutReasonIsBlocked(t *testing.T) {
	s := setupTestRouter(t)
	cookie := s.login(t)

	w := s.do(http.MethodPost, "/contracts/u-1/status", s.signed(t, cookie, url.Values{"action": {"reject"}}), cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/contracts/u-1", w.Header().Get("Location"))
	assert.Zero(t, s.backend.count("/insurance/admin/review"))
}

func TestBulkAction_EmptySelection(t *testing.T) {
	s := setupTestRouter(t)
	cookie := s.login(t)

	w := s.do(http.MethodPost, "/premiums/audit", s.signed(t, cookie, url.Values{}), cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/premiums", w.Header().Get("Location"))
	assert.Zero(t, s.backend.count("/admin-premiums/admin/premiums/audit"))
}

func TestUnauthorizedBackend_EndsSession(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.json("/admin-auth/admin/users", http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	s.backend.json("/admin-auth/admin/analytics", http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	cookie := s.login(t)

	w := s.do(http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 0, s.services.Workspaces.Count())

	hits := s.backend.count("/admin-auth/admin/users")
	w = s.do(http.MethodGet, "/", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, hits, s.backend.count("/admin-auth/admin/users"), "a torn down session makes no calls")
}

func TestLogout_EndsSession(t *testing.T) {
	s := setupTestRouter(t)
	cookie := s.login(t)
	s.do(http.MethodGet, "/premiums/audit-results", nil, cookie)
	require.Equal(t, 1, s.services.Workspaces.Count())

	w := s.do(http.MethodPost, "/logout", s.signed(t, cookie, url.Values{}), cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, 0, s.services.Workspaces.Count())

	w = s.do(http.MethodGet, "/contracts", nil, cookie)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestRecovery_RendersReloadPage(t *testing.T) {
	s := setupTestRouter(t)
	s.router.GET("/boom", func(c *gin.Context) { panic("template exploded") })

	w := s.do(http.MethodGet, "/boom", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Something went wrong")
	assert.Contains(t, w.Body.String(), `href="/boom"`)
}

func TestSecurityHeaders(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodGet, "/login", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestRequestIDHeader(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodGet, "/health", nil, nil)
	_, err := uuid.Parse(w.Header().Get("X-Request-ID"))
	assert.NoError(t, err)
}

func TestLogin_StoreFailure(t *testing.T) {
	s := setupTestRouter(t)
	s.services.Auth = &mocks.MockAuthService{
		LoginFunc: func(ctx context.Context, in validation.LoginInput) (*models.Session, error) {
			return nil, errors.New("failed to store session: disk full")
		},
	}

	w := s.do(http.MethodPost, "/login", url.Values{"email": {"root@cci.io"}, "password": {"s3cret-pass"}}, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Login failed")
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestReportDownload_HandsReportToExporter(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.handle("/admin-claims/admin/report", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("claims"))
	})
	export := &mocks.MockExportService{}
	s.services.Export = export
	cookie := s.login(t)

	s.do(http.MethodGet, "/claims/report", nil, cookie)
	require.Len(t, export.Reports, 1)
	assert.Equal(t, "CCI_Claim_Report.docx", export.Reports[0].Filename)
	assert.Equal(t, "claims", string(export.Reports[0].Body))
	assert.Zero(t, export.AuditExports)
}

func TestContractReject_FieldErrorShownInline(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.json("/admin-insurance/admin/contract/u-1", http.StatusOK, map[string]any{"data": map[string]any{
		"userId":          "u-1",
		"personalInfo":    map[string]string{"firstName": "Amina", "lastName": "Otieno"},
		"insuranceStatus": map[string]any{"status": "Pending"},
	}})
	s.backend.json("/admin-insurance/admin/contract/u-1/history", http.StatusOK, map[string]any{"data": map[string]any{}})
	s.backend.json("/admin-insurance/admin/contract/u-1/analyze", http.StatusOK, map[string]any{"data": map[string]any{}})
	cookie := s.login(t)

	w := s.do(http.MethodGet, "/contracts/u-1", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	m := csrfInput.FindStringSubmatch(w.Body.String())
	require.Len(t, m, 2, "forms carry the session token")
	assert.Equal(t, s.csrfToken(t, cookie), m[1])

	form := url.Values{"action": {"reject"}, "rejectionReason": {"   "}, "csrf_token": {m[1]}}
	w = s.do(http.MethodPost, "/contracts/u-1/status", form, cookie)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/contracts/u-1", w.Header().Get("Location"))
	assert.Zero(t, s.backend.count("/insurance/admin/review"))

	w = s.do(http.MethodGet, "/contracts/u-1", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	i := strings.Index(body, `name="rejectionReason"`)
	require.GreaterOrEqual(t, i, 0)
	field := body[i:]
	field = field[:strings.Index(field, "</form>")]
	assert.Contains(t, field, `<p class="field-error">This field is required</p>`)
	assert.Contains(t, field, `<option value="reject" selected>`, "the chosen action is kept")
	assert.Contains(t, body, "Please correct the highlighted fields")
	assert.NotContains(t, body, "rejectionReason: ")

	w = s.do(http.MethodGet, "/contracts/u-1", nil, cookie)
	assert.NotContains(t, w.Body.String(), "field-error", "errors show once")
}

func TestNotFound_RendersPageWithHomeLink(t *testing.T) {
	s := setupTestRouter(t)

	w := s.do(http.MethodGet, "/no/such/page", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Page not found")
	assert.Contains(t, w.Body.String(), `href="/"`)
	assert.Contains(t, w.Body.String(), `/static/app.css`)
}

func TestUnknownSession_ClearsCookieWithSessionAttributes(t *testing.T) {
	s := setupTestRouterWith(t, func(cfg *config.Config) {
		cfg.Session.CookieSecure = true
	})

	w := s.do(http.MethodGet, "/contracts", nil, &http.Cookie{Name: cookieName, Value: uuid.NewString()})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var cleared *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			cleared = c
		}
	}
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
	assert.True(t, cleared.Secure)
	assert.True(t, cleared.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cleared.SameSite)
}

func TestCSRF_StateChangesNeedSessionToken(t *testing.T) {
	s := setupTestRouter(t)
	s.backend.json("/insurance/admin/review", http.StatusOK, map[string]any{"success": true})
	cookie := s.login(t)
	approve := url.Values{"action": {"approve"}}

	w := s.do(http.MethodPost, "/contracts/u-1/status", approve, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Your form expired")

	forged := url.Values{"action": {"approve"}, "csrf_token": {"forged"}}
	w = s.do(http.MethodPost, "/contracts/u-1/status", forged, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, s.backend.count("/insurance/admin/review"))

	w = s.do(http.MethodPost, "/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, 1, s.services.Workspaces.Count(), "logout without a token keeps the session")

	req := httptest.NewRequest(http.MethodPost, "/contracts/u-1/status", strings.NewReader(approve.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-CSRF-Token", s.csrfToken(t, cookie))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, s.backend.count("/insurance/admin/review"))

	w = s.do(http.MethodGet, "/premiums/audit-results", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, w.Code, "reads need no token")
}
