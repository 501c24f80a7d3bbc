package service

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cci-admin-dashboard/internal/client"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/notify"
	"github.com/cci-admin-dashboard/internal/validation"
)

// Panels holds the side panels of a list page. A panel whose load failed is
// left empty and reported as a notice.
type Panels struct {
	Analytics models.Analytics
	Overdue   []models.Premium
	Urgent    []models.Claim
	HighRisk  []models.HighRiskCreator
}

// Panels loads the side panels of an entity's list page in parallel. Panels
// are independent: one failing does not cancel the others. The first error
// is returned so callers can detect a rejected token.
func (w *Workspace) Panels(ctx context.Context, entity string) (Panels, error) {
	var (
		p     Panels
		g     errgroup.Group
		mu    sync.Mutex
		first error
	)
	run := func(name string, load func(ctx context.Context) error) {
		g.Go(func() error {
			if err := load(ctx); err != nil {
				w.log.Warn().Err(err).Str("panel", name).Msg("Panel load failed")
				w.Notices.Notify(notify.LevelError, "Failed to load "+name+": "+err.Error())
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
			}
			return nil
		})
	}
	analytics := func(load func(context.Context, url.Values) (models.Analytics, error)) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			a, err := load(ctx, nil)
			p.Analytics = a
			return err
		}
	}

	switch entity {
	case EntityUsers:
		run("analytics", analytics(w.api.UserAnalytics))
	case EntityContracts:
		run("analytics", analytics(w.api.ContractAnalytics))
	case EntityPremiums:
		run("analytics", analytics(w.api.PremiumAnalytics))
		run("overdue premiums", func(ctx context.Context) error {
			overdue, err := w.api.OverduePremiums(ctx)
			p.Overdue = overdue
			return err
		})
	case EntityClaims:
		run("analytics", analytics(w.api.ClaimAnalytics))
		run("urgent claims", func(ctx context.Context) error {
			urgent, err := w.api.PendingDeadlineClaims(ctx)
			p.Urgent = urgent
			return err
		})
		run("high-risk creators", func(ctx context.Context) error {
			risky, err := w.api.HighRiskCreators(ctx, nil)
			p.HighRisk = risky
			return err
		})
	default:
		return p, ErrUnknownEntity
	}
	_ = g.Wait()
	return p, first
}

// DownloadReport fetches the report of entity filtered by in. Empty filter
// fields are not sent.
func (w *Workspace) DownloadReport(ctx context.Context, entity string, in validation.FilterInput) (*client.Report, error) {
	if err := w.Validate(in); err != nil {
		return nil, err
	}
	kind := client.ReportKind(entity)
	if _, ok := client.ReportFilename(kind); !ok {
		return nil, ErrUnknownEntity
	}

	query := url.Values{}
	for k, v := range in.Filters() {
		if v != "" {
			query.Set(k, v)
		}
	}
	report, err := w.api.DownloadReport(ctx, kind, query)
	if err != nil {
		if !client.IsUnauthorized(err) {
			w.Notices.Notify(notify.LevelError, "Failed to download report: "+err.Error())
		}
		return nil, err
	}
	w.log.Info().Str("report", report.Filename).Int("bytes", len(report.Body)).Msg("Report downloaded")
	return report, nil
}
