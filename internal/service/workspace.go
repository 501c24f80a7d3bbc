package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/form"
	"github.com/cci-admin-dashboard/internal/listctl"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/notify"
	"github.com/cci-admin-dashboard/internal/validation"
)

// Entities served by the shared list routes
const (
	EntityUsers     = "users"
	EntityContracts = "contracts"
	EntityPremiums  = "premiums"
	EntityClaims    = "claims"
)

var (
	// ErrUnknownEntity is returned for a list name that has no controller
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrActionNotAllowed is returned when an entity's status forbids an action
	ErrActionNotAllowed = errors.New("action not allowed in the current status")
	// ErrRowNotLoaded is returned when an action needs a row that is not on the current page
	ErrRowNotLoaded = errors.New("item is not on the current page")
)

// Lister is the type-independent surface of a list controller
type Lister interface {
	Fetch(ctx context.Context) error
	SetFilters(ctx context.Context, filters map[string]string) error
	SetPage(ctx context.Context, n int) error
	SetLimit(ctx context.Context, n int) error
	ToggleSelect(id string) error
	SelectAll()
	Selected() []string
	Fetched() bool
	Err() error
}

// Workspace is the server-side state of one operator session: its four
// tables, pending notices and open forms.
type Workspace struct {
	SessionID uuid.UUID
	ExpiresAt time.Time
	User      models.AuthUser
	// CSRFToken must accompany every state-changing request of the session
	CSRFToken string

	Notices   *notify.Queue
	Users     *listctl.Controller[models.User]
	Contracts *listctl.Controller[models.Contract]
	Premiums  *listctl.Controller[models.Premium]
	Claims    *listctl.Controller[models.Claim]

	api       *client.Client
	validator *validation.Validator
	log       zerolog.Logger

	mu          sync.Mutex
	forms       map[string]*form.Form
	views       map[string]closer
	lastAudit   []models.AuditResult
	claimAudits map[string]models.AuditResult
	rejected    map[string]Rejected
	closed      bool
}

// Rejected is a submission that failed validation, kept until the page it
// was posted from renders its field errors next to the inputs
type Rejected struct {
	Errors map[string]string
	Values map[string]string
}

type closer interface{ Close() }

func newWorkspace(s *models.Session, api *client.Client, v *validation.Validator, limit int, log zerolog.Logger) *Workspace {
	api = api.WithToken(s.Token)
	notices := notify.NewQueue()
	log = log.With().Str("session_id", s.ID.String()).Logger()

	return &Workspace{
		SessionID: s.ID,
		ExpiresAt: s.ExpiresAt,
		User:      s.User,
		CSRFToken: generateCSRFToken(),
		Notices:   notices,
		Users: listctl.New(listctl.Config[models.User]{
			Noun: "User", Fetch: fetcher(api.ListUsers), IDOf: func(u models.User) string { return u.ID },
			Limit: limit, Notifier: notices, Logger: log,
		}),
		Contracts: listctl.New(listctl.Config[models.Contract]{
			Noun: "Contract", Fetch: fetcher(api.ListContracts), IDOf: func(c models.Contract) string { return c.UserID },
			Limit: limit, Notifier: notices, Logger: log,
		}),
		Premiums: listctl.New(listctl.Config[models.Premium]{
			Noun: "Premium", Fetch: fetcher(api.ListPremiums), IDOf: func(p models.Premium) string { return p.ID },
			Limit: limit, Notifier: notices, Logger: log,
		}),
		Claims: listctl.New(listctl.Config[models.Claim]{
			Noun: "Claim", Fetch: fetcher(api.ListClaims), IDOf: func(c models.Claim) string { return c.ID },
			Limit: limit, Notifier: notices, Logger: log,
		}),
		api:       api,
		validator: v,
		log:       log.With().Str("component", "workspace").Logger(),
		forms:       make(map[string]*form.Form),
		views:       make(map[string]closer),
		claimAudits: make(map[string]models.AuditResult),
		rejected:    make(map[string]Rejected),
	}
}

// generateCSRFToken returns 32 random bytes, URL-safe base64 encoded
func generateCSRFToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return base64.URLEncoding.EncodeToString([]byte(fmt.Sprintf("%d", time.Now().UnixNano())))
	}
	return base64.URLEncoding.EncodeToString(b)
}

// fetcher adapts a client collection call to a list controller fetch
func fetcher[T any](list func(ctx context.Context, q url.Values) (*models.Collection[T], error)) listctl.FetchFunc[T] {
	return func(ctx context.Context, q listctl.Query) (*models.Collection[T], error) {
		return list(ctx, q.Values())
	}
}

// API returns the backend client bound to this session's token
func (w *Workspace) API() *client.Client {
	return w.api
}

// List returns the controller of entity for the shared list routes
func (w *Workspace) List(entity string) (Lister, error) {
	switch entity {
	case EntityUsers:
		return w.Users, nil
	case EntityContracts:
		return w.Contracts, nil
	case EntityPremiums:
		return w.Premiums, nil
	case EntityClaims:
		return w.Claims, nil
	}
	return nil, ErrUnknownEntity
}

// Form returns the open form registered under key, opening a new one when
// none is open or the previous one closed after success. Keys look like
// "contract:<id>:status".
func (w *Workspace) Form(key string, cfg form.Config) *form.Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	if f, ok := w.forms[key]; ok && !f.Closed() {
		return f
	}
	if cfg.Name == "" {
		cfg.Name = key
	}
	cfg.Validator = w.validator
	if cfg.Notifier == nil {
		cfg.Notifier = w.Notices
	}
	cfg.Logger = w.log
	f := form.New(cfg)
	w.forms[key] = f
	return f
}

// OpenForms returns the number of forms not yet closed
func (w *Workspace) OpenForms() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := 0
	for key, f := range w.forms {
		if f.Closed() {
			delete(w.forms, key)
			continue
		}
		n++
	}
	return n
}

// Validate checks input against its struct tags
func (w *Workspace) Validate(input any) error {
	return w.validator.Struct(input)
}

// KeepRejected stores the field errors and posted values of a rejected
// submission for the next render of page
func (w *Workspace) KeepRejected(page string, errs validation.Errors, values map[string]string) {
	w.mu.Lock()
	w.rejected[page] = Rejected{Errors: errs.Map(), Values: values}
	w.mu.Unlock()
}

// TakeRejected returns and forgets the rejected submission kept for page
func (w *Workspace) TakeRejected(page string) (Rejected, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.rejected[page]
	delete(w.rejected, page)
	return r, ok
}

// Close disposes every controller. Late responses are then ignored.
func (w *Workspace) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	views := w.views
	w.views = make(map[string]closer)
	w.mu.Unlock()

	for _, v := range views {
		v.Close()
	}
	w.Users.Close()
	w.Contracts.Close()
	w.Premiums.Close()
	w.Claims.Close()
	w.log.Debug().Msg("Workspace closed")
}

// mount makes v the open detail view of kind, closing the one it replaces
func (w *Workspace) mount(kind string, v closer) {
	w.mu.Lock()
	prev := w.views[kind]
	w.views[kind] = v
	w.mu.Unlock()
	if prev != nil {
		prev.Close()
	}
}

// unmount closes the open detail view of kind
func (w *Workspace) unmount(kind string) {
	w.mu.Lock()
	v := w.views[kind]
	delete(w.views, kind)
	w.mu.Unlock()
	if v != nil {
		v.Close()
	}
}

func formKey(kind, id, action string) string {
	return kind + ":" + id + ":" + action
}

// refetch reloads c after a mutation, unless it was never shown
func refetch[T any](c *listctl.Controller[T]) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if !c.Fetched() {
			return nil
		}
		return c.Fetch(ctx)
	}
}

func (w *Workspace) setAudit(results []models.AuditResult) {
	w.mu.Lock()
	w.lastAudit = results
	w.mu.Unlock()
}

// AuditResults returns the results of the last premium audit
func (w *Workspace) AuditResults() []models.AuditResult {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastAudit
}

// ClaimAudit returns the last audit result of one claim
func (w *Workspace) ClaimAudit(id string) (models.AuditResult, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.claimAudits[id]
	return r, ok
}

func (w *Workspace) setClaimAudits(results []models.AuditResult) {
	w.mu.Lock()
	for _, r := range results {
		w.claimAudits[r.ID] = r
	}
	w.mu.Unlock()
}

// auditOutcomes reduces audit results to bulk results for reconciliation
func auditOutcomes(results []models.AuditResult) []models.BulkResult {
	out := make([]models.BulkResult, 0, len(results))
	for _, r := range results {
		out = append(out, models.BulkResult{ID: r.ID, Success: r.Success, Error: r.Error})
	}
	return out
}
