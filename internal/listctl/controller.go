// Package listctl implements the list-view controller shared by every entity
// table: filter, paginate, select and bulk-act against a collection endpoint.
package listctl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/notify"
)

var (
	// ErrUnknownRow is returned when selecting an ID that is not a current row
	ErrUnknownRow = errors.New("row is not on the current page")
	// ErrEmptySelection is returned by BulkAct when nothing is selected
	ErrEmptySelection = errors.New("no rows selected")
	// ErrInvalidLimit is returned by SetLimit for a non-positive page size
	ErrInvalidLimit = errors.New("page size must be positive")
	// ErrClosed is returned by operations on a closed controller
	ErrClosed = errors.New("list controller closed")
)

// DefaultLimit is the page size used when none is configured
const DefaultLimit = 10

// Query is what a fetch sends to the collection endpoint
type Query struct {
	Filters map[string]string
	Page    int
	Limit   int
}

// Values encodes the query as URL parameters. Empty filters are omitted.
func (q Query) Values() url.Values {
	v := url.Values{}
	for k, val := range q.Filters {
		if val != "" {
			v.Set(k, val)
		}
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v
}

// FetchFunc loads one page of a collection
type FetchFunc[T any] func(ctx context.Context, q Query) (*models.Collection[T], error)

// Config parameterizes a Controller
type Config[T any] struct {
	// Noun labels per-item notices, e.g. "Claim"
	Noun     string
	Fetch    FetchFunc[T]
	IDOf     func(T) string
	Limit    int
	Notifier notify.Notifier
	Logger   zerolog.Logger
}

// Controller owns the state of one entity table. It is safe for concurrent
// use; only the most recently issued fetch may replace rows.
type Controller[T any] struct {
	noun     string
	fetch    FetchFunc[T]
	idOf     func(T) string
	notifier notify.Notifier
	log      zerolog.Logger

	mu         sync.Mutex
	rows       []T
	pagination models.PageInfo
	filters    map[string]string
	selected   map[string]struct{}
	loading    bool
	err        string
	lastErr    error
	gen        uint64
	fetched    bool
	closed     bool
}

// New creates a controller. Nothing is fetched until Fetch is called.
func New[T any](cfg Config[T]) *Controller[T] {
	limit := cfg.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	n := cfg.Notifier
	if n == nil {
		n = notify.Discard
	}
	return &Controller[T]{
		noun:       cfg.Noun,
		fetch:      cfg.Fetch,
		idOf:       cfg.IDOf,
		notifier:   n,
		log:        cfg.Logger.With().Str("component", "listctl").Str("list", cfg.Noun).Logger(),
		pagination: models.PageInfo{Page: 1, Limit: limit},
		filters:    make(map[string]string),
		selected:   make(map[string]struct{}),
	}
}

// Fetch loads the current page. Rows are replaced wholly on success and left
// untouched on failure. Responses superseded by a newer fetch, or arriving
// after Close, are discarded.
func (c *Controller[T]) Fetch(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.gen++
	gen := c.gen
	c.pagination.Page = clampPage(c.pagination.Page, c.pagination.Pages)
	q := Query{
		Filters: copyFilters(c.filters),
		Page:    c.pagination.Page,
		Limit:   c.pagination.Limit,
	}
	c.loading = true
	c.mu.Unlock()

	c.log.Debug().Int("page", q.Page).Int("limit", q.Limit).Uint64("generation", gen).Msg("Fetching collection")
	resp, err := c.fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		c.log.Debug().Uint64("generation", gen).Msg("Discarding stale response")
		return nil
	}
	c.loading = false

	if err != nil {
		c.err = err.Error()
		c.lastErr = err
		c.log.Warn().Err(err).Msg("Fetch failed")
		c.notifier.Notify(notify.LevelError, c.err)
		return err
	}

	rows := resp.Data
	if rows == nil {
		rows = []T{}
	}
	c.rows = rows
	c.pagination = normalize(resp.Pagination, q)
	c.err = ""
	c.lastErr = nil
	c.fetched = true
	c.pruneSelection()
	return nil
}

// SetFilter sets one filter (an empty value removes the constraint), resets
// to page 1, clears the selection and refetches.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) error {
	return c.SetFilters(ctx, map[string]string{key: value})
}

// SetFilters applies several filters with a single refetch
func (c *Controller[T]) SetFilters(ctx context.Context, filters map[string]string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	for k, v := range filters {
		if v == "" {
			delete(c.filters, k)
			continue
		}
		c.filters[k] = v
	}
	c.pagination.Page = 1
	c.clearSelection()
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// SetPage moves to page n. Pages outside [1, pages] are ignored.
func (c *Controller[T]) SetPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if n < 1 || n > c.pagination.Pages {
		c.mu.Unlock()
		return nil
	}
	c.pagination.Page = n
	c.clearSelection()
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// SetLimit changes the page size and returns to page 1
func (c *Controller[T]) SetLimit(ctx context.Context, n int) error {
	if n <= 0 {
		return ErrInvalidLimit
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pagination.Limit = n
	c.pagination.Page = 1
	c.clearSelection()
	c.mu.Unlock()
	return c.Fetch(ctx)
}

// ToggleSelect adds or removes id from the selection
func (c *Controller[T]) ToggleSelect(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasRow(id) {
		return ErrUnknownRow
	}
	if _, ok := c.selected[id]; ok {
		delete(c.selected, id)
	} else {
		c.selected[id] = struct{}{}
	}
	return nil
}

// SelectAll clears the selection when every row is selected, otherwise
// selects every row.
func (c *Controller[T]) SelectAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.selected) == len(c.rows) {
		c.clearSelection()
		return
	}
	for _, r := range c.rows {
		c.selected[c.idOf(r)] = struct{}{}
	}
}

// ClearSelection empties the selection
func (c *Controller[T]) ClearSelection() {
	c.mu.Lock()
	c.clearSelection()
	c.mu.Unlock()
}

// Selected returns the selected IDs in row order
func (c *Controller[T]) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.selected))
	for _, r := range c.rows {
		id := c.idOf(r)
		if _, ok := c.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Row returns the current row with the given ID
func (c *Controller[T]) Row(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range c.rows {
		if c.idOf(r) == id {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Err returns the error of the last fetch, or nil when it succeeded
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Fetched reports whether at least one fetch has succeeded
func (c *Controller[T]) Fetched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetched
}

// Close disposes the controller; in-flight responses are ignored afterwards
func (c *Controller[T]) Close() {
	c.mu.Lock()
	c.closed = true
	c.loading = false
	c.mu.Unlock()
}

// Snapshot returns a copy of the state for rendering
func (c *Controller[T]) Snapshot() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows := make([]T, len(c.rows))
	copy(rows, c.rows)
	selected := make(map[string]bool, len(c.selected))
	for id := range c.selected {
		selected[id] = true
	}
	return State[T]{
		Rows:        rows,
		Pagination:  c.pagination,
		Filters:     copyFilters(c.filters),
		Selected:    selected,
		AllSelected: len(c.rows) > 0 && len(c.selected) == len(c.rows),
		Loading:     c.loading,
		Error:       c.err,
		Empty:       c.fetched && len(c.rows) == 0 && c.err == "",
	}
}

// State is an immutable view of a controller
type State[T any] struct {
	Rows        []T
	Pagination  models.PageInfo
	Filters     map[string]string
	Selected    map[string]bool
	AllSelected bool
	Loading     bool
	Error       string
	Empty       bool
}

// SelectedCount returns the number of selected rows
func (s State[T]) SelectedCount() int {
	return len(s.Selected)
}

// HasPrev reports whether a previous page exists
func (s State[T]) HasPrev() bool {
	return s.Pagination.Page > 1
}

// HasNext reports whether a next page exists
func (s State[T]) HasNext() bool {
	return s.Pagination.Page < s.Pagination.Pages
}

// PageNumbers lists every page number for a pager
func (s State[T]) PageNumbers() []int {
	pages := make([]int, s.Pagination.Pages)
	for i := range pages {
		pages[i] = i + 1
	}
	return pages
}

// FilterKeys returns the active filter keys in sorted order
func (s State[T]) FilterKeys() []string {
	keys := make([]string, 0, len(s.Filters))
	for k := range s.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Controller[T]) hasRow(id string) bool {
	for _, r := range c.rows {
		if c.idOf(r) == id {
			return true
		}
	}
	return false
}

func (c *Controller[T]) clearSelection() {
	if len(c.selected) > 0 {
		c.selected = make(map[string]struct{})
	}
}

func (c *Controller[T]) pruneSelection() {
	for id := range c.selected {
		if !c.hasRow(id) {
			delete(c.selected, id)
		}
	}
}

func (c *Controller[T]) notifyf(level notify.Level, format string, args ...any) {
	c.notifier.Notify(level, fmt.Sprintf(format, args...))
}

// clampPage keeps page inside [1, max(pages, 1)]
func clampPage(page, pages int) int {
	if pages < 1 {
		pages = 1
	}
	switch {
	case page < 1:
		return 1
	case page > pages:
		return pages
	}
	return page
}

// normalize fills gaps in a backend PageInfo from the query that produced it
// and recomputes pages from total and limit.
func normalize(p models.PageInfo, q Query) models.PageInfo {
	if p.Limit <= 0 {
		p.Limit = q.Limit
	}
	if p.Page <= 0 {
		p.Page = q.Page
	}
	return p.Normalize()
}

func copyFilters(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
