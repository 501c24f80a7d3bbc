package api

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/config"
	"github.com/cci-admin-dashboard/internal/form"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/notify"
	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

// Context keys set by the session middleware
const (
	sessionKey   = "session"
	workspaceKey = "workspace"
)

// pageLimits are the page sizes offered by the row selector
var pageLimits = []int{5, 10, 25, 50, 100}

// page is the data every template renders from
type page struct {
	Title    string
	Nav      string
	Entity   string
	User     models.AuthUser
	Notices  []notify.Notice
	List     any
	Panels   service.Panels
	KPIs     []models.KPI
	Charts   []chart
	Insights []string
	Detail   any
	Extra    map[string]any
	Form     map[string]string
	Errors   map[string]string
	Error    string
	CSRF     string
}

type chart struct {
	Title  string
	Series models.Series
}

// Handler serves every dashboard page
type Handler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewHandler creates a new Handler
func NewHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *Handler {
	return &Handler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "dashboard").Logger(),
	}
}

func workspace(c *gin.Context) *service.Workspace {
	return c.MustGet(workspaceKey).(*service.Workspace)
}

// render drains the workspace notices into the page and writes it. A
// submission rejected on this page comes back with its field errors and
// the values the operator typed.
func (h *Handler) render(c *gin.Context, status int, name string, p page) {
	if v, ok := c.Get(workspaceKey); ok {
		ws := v.(*service.Workspace)
		p.User = ws.User
		p.CSRF = ws.CSRFToken
		if r, ok := ws.TakeRejected(pageKey(c.Request.URL.Path)); ok {
			p.Errors = r.Errors
			p.Form = r.Values
		}
		p.Notices = ws.Notices.Drain()
	}
	c.HTML(status, name, p)
}

// pageKey names the page a path renders; "/" is the users list
func pageKey(path string) string {
	if path == "/" {
		return "/users"
	}
	return strings.TrimSuffix(path, "/")
}

// NotFound renders the in-layout page for unknown paths
func (h *Handler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "notfound.html", page{Title: "Not found"})
}

// redirect sends the browser to path with a GET, completing post/redirect/get
func redirect(c *gin.Context, path string) {
	c.Redirect(http.StatusSeeOther, path)
}

// expired reports whether err means the backend rejected the session token.
// The session is then torn down and the browser sent to the login page.
func (h *Handler) expired(c *gin.Context, errs ...error) bool {
	for _, err := range errs {
		if client.IsUnauthorized(err) {
			h.log.Info().Err(err).Msg("Backend rejected session token")
			h.endSession(c)
			redirect(c, "/login")
			return true
		}
	}
	return false
}

// endSession tears the session down and clears the cookie
func (h *Handler) endSession(c *gin.Context) {
	if v, ok := c.Get(sessionKey); ok {
		if err := h.services.Auth.Logout(c.Request.Context(), v.(*models.Session).ID); err != nil {
			h.log.Error().Err(err).Msg("Failed to end session")
		}
	} else if id, err := sessionID(c, h.cfg.Session.CookieName); err == nil {
		if err := h.services.Auth.Logout(c.Request.Context(), id); err != nil {
			h.log.Error().Err(err).Str("session_id", id.String()).Msg("Failed to end session")
		}
	}
	h.clearCookie(c)
}

// done finishes a mutation: an expired token goes to the login page, field
// errors are kept for the page to show beside their inputs, and everything
// else lands back on the page. Failures from the backend were already
// reported by the form or list.
func (h *Handler) done(c *gin.Context, back string, err error) {
	if h.expired(c, err) {
		return
	}
	ws := workspace(c)
	if errs, ok := validation.AsErrors(err); ok {
		if msg := errs.Field("form"); msg != "" {
			ws.Notices.Notify(notify.LevelError, msg)
		} else {
			ws.KeepRejected(pageKey(back), errs, posted(c))
			ws.Notices.Notify(notify.LevelError, "Please correct the highlighted fields")
		}
	} else if errors.Is(err, form.ErrBusy) {
		ws.Notices.Notify(notify.LevelInfo, "A submission is already in progress")
	}
	redirect(c, back)
}

// posted returns the submitted form values, for refilling the inputs
func posted(c *gin.Context) map[string]string {
	_ = c.Request.ParseForm()
	values := make(map[string]string, len(c.Request.PostForm))
	for k, v := range c.Request.PostForm {
		if k == "csrf_token" || len(v) == 0 {
			continue
		}
		values[k] = v[0]
	}
	return values
}

// bind decodes the posted form into in
func bind(c *gin.Context, in any) error {
	if err := c.ShouldBind(in); err != nil {
		return validation.Errors{{Field: "form", Message: "invalid form data"}}
	}
	return nil
}

func (h *Handler) setCookie(c *gin.Context, s *models.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, s.ID.String(), int(h.cfg.Session.TTL.Seconds()), "/", "", h.cfg.Session.CookieSecure, true)
}

func (h *Handler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.CookieSecure, true)
}

func sessionID(c *gin.Context, cookie string) (uuid.UUID, error) {
	raw, err := c.Cookie(cookie)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(raw)
}

// reportURL links the report download to the active filters
func reportURL(entity string, filters map[string]string) template.URL {
	q := url.Values{}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	u := "/" + entity + "/report"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return template.URL(u)
}

// backTo returns the local page the form was posted from, or fallback
func backTo(c *gin.Context, fallback string) string {
	ref, err := url.Parse(c.Request.Referer())
	if err != nil || ref.Path == "" || !strings.HasPrefix(ref.Path, "/") || strings.HasPrefix(ref.Path, "//") {
		return fallback
	}
	if ref.Host != "" && ref.Host != c.Request.Host {
		return fallback
	}
	return ref.Path
}
