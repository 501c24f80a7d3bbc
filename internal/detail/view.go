// Package detail loads a single entity together with its related
// sub-resources and reloads all of them after every successful mutation.
package detail

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cci-admin-dashboard/internal/notify"
)

// ErrClosed is returned by Refresh on a closed view
var ErrClosed = errors.New("detail view closed")

// SubLoader fetches one related sub-resource of the entity
type SubLoader func(ctx context.Context, id string) (any, error)

// Config parameterizes a View
type Config[T any] struct {
	Name     string
	ID       string
	Load     func(ctx context.Context, id string) (*T, error)
	Subs     map[string]SubLoader
	Notifier notify.Notifier
	Logger   zerolog.Logger
}

// View holds one entity page. Refresh replaces the entity and every
// sub-resource together or not at all.
type View[T any] struct {
	name     string
	id       string
	load     func(ctx context.Context, id string) (*T, error)
	subs     map[string]SubLoader
	notifier notify.Notifier
	log      zerolog.Logger

	mu      sync.Mutex
	entity  *T
	related map[string]any
	loading bool
	err     string
	gen     uint64
	closed  bool
}

// New creates a view. Call Refresh to load it.
func New[T any](cfg Config[T]) *View[T] {
	n := cfg.Notifier
	if n == nil {
		n = notify.Discard
	}
	return &View[T]{
		name:     cfg.Name,
		id:       cfg.ID,
		load:     cfg.Load,
		subs:     cfg.Subs,
		notifier: n,
		log:      cfg.Logger.With().Str("component", "detail").Str("view", cfg.Name).Str("id", cfg.ID).Logger(),
		related:  map[string]any{},
	}
}

// ID returns the entity ID the view is bound to
func (v *View[T]) ID() string {
	return v.id
}

// Refresh loads the entity and all sub-resources in parallel
func (v *View[T]) Refresh(ctx context.Context) error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.gen++
	gen := v.gen
	v.loading = true
	v.mu.Unlock()

	var (
		entity  *T
		resMu   sync.Mutex
		related = make(map[string]any, len(v.subs))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		e, err := v.load(gctx, v.id)
		if err != nil {
			return err
		}
		entity = e
		return nil
	})
	for name, load := range v.subs {
		name, load := name, load
		g.Go(func() error {
			res, err := load(gctx, v.id)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			resMu.Lock()
			related[name] = res
			resMu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || gen != v.gen {
		return nil
	}
	v.loading = false
	if err != nil {
		v.err = err.Error()
		v.log.Warn().Err(err).Msg("Refresh failed")
		v.notifier.Notify(notify.LevelError, v.err)
		return err
	}
	v.entity = entity
	v.related = related
	v.err = ""
	return nil
}

// Close disposes the view; loads resolving afterwards are ignored
func (v *View[T]) Close() {
	v.mu.Lock()
	v.closed = true
	v.loading = false
	v.mu.Unlock()
}

// Snapshot returns the current state of the view
func (v *View[T]) Snapshot() Page[T] {
	v.mu.Lock()
	defer v.mu.Unlock()
	related := make(map[string]any, len(v.related))
	for k, r := range v.related {
		related[k] = r
	}
	return Page[T]{
		ID:      v.id,
		Entity:  v.entity,
		Related: related,
		Loading: v.loading,
		Error:   v.err,
	}
}

// Page is an immutable view state
type Page[T any] struct {
	ID      string
	Entity  *T
	Related map[string]any
	Loading bool
	Error   string
}

// Loaded reports whether the entity has been loaded
func (p Page[T]) Loaded() bool {
	return p.Entity != nil
}

// Sub returns the sub-resource stored under name, typed
func Sub[S any](related map[string]any, name string) (S, bool) {
	s, ok := related[name].(S)
	return s, ok
}
