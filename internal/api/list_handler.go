package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/cci-admin-dashboard/internal/detail"
	"github.com/cci-admin-dashboard/internal/listctl"
	"github.com/cci-admin-dashboard/internal/notify"
	"github.com/cci-admin-dashboard/internal/service"
	"github.com/cci-admin-dashboard/internal/validation"
)

// chartDef names a breakdown of the analytics payload
type chartDef struct {
	Title string
	Key   string
	Field string
}

// listView describes one list page
type listView struct {
	Entity   string
	Title    string
	Template string
	KPIs     map[string]string
	Charts   []chartDef
}

// renderList loads the page of rows and the side panels in parallel and
// renders the list page. A rejected token ends the session instead.
func renderList[T any](h *Handler, c *gin.Context, ctl *listctl.Controller[T], v listView) {
	ws := workspace(c)
	ctx := c.Request.Context()

	var (
		g                 errgroup.Group
		panels            service.Panels
		fetchErr, loadErr error
	)
	g.Go(func() error {
		fetchErr = ctl.Fetch(ctx)
		return nil
	})
	g.Go(func() error {
		panels, loadErr = ws.Panels(ctx, v.Entity)
		return nil
	})
	_ = g.Wait()

	if h.expired(c, fetchErr, loadErr) {
		return
	}

	state := ctl.Snapshot()
	analytics := panels.Analytics.Unwrap()
	charts := make([]chart, 0, len(v.Charts))
	for _, def := range v.Charts {
		charts = append(charts, chart{Title: def.Title, Series: analytics.Breakdown(def.Key, def.Field)})
	}

	h.render(c, http.StatusOK, v.Template, page{
		Title:    v.Title,
		Nav:      v.Entity,
		Entity:   v.Entity,
		List:     state,
		Panels:   panels,
		KPIs:     analytics.KPIs(v.KPIs),
		Charts:   charts,
		Insights: analytics.Insights(),
		Extra: map[string]any{
			"Limits":    pageLimits,
			"ReportURL": reportURL(v.Entity, state.Filters),
			"HasAudit":  len(ws.AuditResults()) > 0,
		},
	})
}

// renderDetail refreshes a detail view and renders its page
func renderDetail[T any](h *Handler, c *gin.Context, view *detail.View[T], nav, title, tmpl string, extra map[string]any) {
	err := view.Refresh(c.Request.Context())
	if h.expired(c, err) {
		return
	}
	h.render(c, http.StatusOK, tmpl, page{
		Title:  title,
		Nav:    nav,
		Entity: nav,
		Detail: view.Snapshot(),
		Extra:  extra,
	})
}

// listHandler serves the list routes shared by every entity
type listHandler struct {
	*Handler
	entity string
}

func (l listHandler) back() string {
	return "/" + l.entity
}

func (l listHandler) list(c *gin.Context) (service.Lister, bool) {
	ctl, err := workspace(c).List(l.entity)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return nil, false
	}
	return ctl, true
}

// Filter handles POST /:entity/filter
func (l listHandler) Filter(c *gin.Context) {
	ctl, ok := l.list(c)
	if !ok {
		return
	}
	var in validation.FilterInput
	err := bind(c, &in)
	if err == nil {
		err = workspace(c).Validate(in)
	}
	if err == nil {
		err = ctl.SetFilters(c.Request.Context(), in.Filters())
	}
	l.done(c, l.back(), err)
}

// Page handles POST /:entity/page/:n
func (l listHandler) Page(c *gin.Context) {
	ctl, ok := l.list(c)
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		redirect(c, l.back())
		return
	}
	l.done(c, l.back(), ctl.SetPage(c.Request.Context(), n))
}

// Limit handles POST /:entity/limit
func (l listHandler) Limit(c *gin.Context) {
	ctl, ok := l.list(c)
	if !ok {
		return
	}
	var in validation.LimitInput
	err := bind(c, &in)
	if err == nil {
		err = workspace(c).Validate(in)
	}
	if err == nil {
		err = ctl.SetLimit(c.Request.Context(), in.Limit)
	}
	l.done(c, l.back(), err)
}

// Select handles POST /:entity/select/:id
func (l listHandler) Select(c *gin.Context) {
	ctl, ok := l.list(c)
	if !ok {
		return
	}
	if err := ctl.ToggleSelect(c.Param("id")); errors.Is(err, listctl.ErrUnknownRow) {
		workspace(c).Notices.Notify(notify.LevelError, "Row is no longer on this page")
	}
	redirect(c, l.back())
}

// SelectAll handles POST /:entity/select-all
func (l listHandler) SelectAll(c *gin.Context) {
	ctl, ok := l.list(c)
	if !ok {
		return
	}
	ctl.SelectAll()
	redirect(c, l.back())
}

// Report handles GET /:entity/report
func (l listHandler) Report(c *gin.Context) {
	var in validation.FilterInput
	if err := c.ShouldBindQuery(&in); err != nil {
		l.done(c, l.back(), validation.Errors{{Field: "filters", Message: "invalid filter values"}})
		return
	}
	report, err := workspace(c).DownloadReport(c.Request.Context(), l.entity, in)
	if err != nil {
		l.done(c, l.back(), err)
		return
	}
	if err := l.services.Export.WriteReport(c.Writer, report); err != nil {
		l.log.Error().Err(err).Str("report", report.Filename).Msg("Failed to write report")
	}
}

// DownloadAuditResults handles GET /premiums/audit-results
func (h *Handler) DownloadAuditResults(c *gin.Context) {
	ws := workspace(c)
	results := ws.AuditResults()
	if len(results) == 0 {
		ws.Notices.Notify(notify.LevelInfo, "No audit results to download")
		redirect(c, "/premiums")
		return
	}
	if err := h.services.Export.StreamAuditResults(c.Writer, results); err != nil {
		h.log.Error().Err(err).Msg("Failed to stream audit results")
	}
}

// bulkDone finishes a bulk action. Outcomes, including an empty
// selection, were already reported by the list.
func (h *Handler) bulkDone(c *gin.Context, back string, _ listctl.Outcome, err error) {
	if errors.Is(err, listctl.ErrEmptySelection) {
		redirect(c, back)
		return
	}
	h.done(c, back, err)
}
