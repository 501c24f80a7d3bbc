package listctl

import (
	"context"

	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/notify"
)

// Bulk describes one bulk action over the selected rows
type Bulk[P any] struct {
	// Label names the action in notices, e.g. "Review"
	Label  string
	Build  func(id string) P
	Submit func(ctx context.Context, items []P) ([]models.BulkResult, error)
}

// Outcome is the reconciled result of a bulk action
type Outcome struct {
	Submitted int
	Succeeded []string
	Failed    []models.BulkResult
}

// AllSucceeded reports whether every submitted item succeeded
func (o Outcome) AllSucceeded() bool {
	return len(o.Failed) == 0 && len(o.Succeeded) == o.Submitted
}

// BulkAct submits one payload per selected row as a single request and
// reconciles the per-item results. Failed items are reported individually and
// never retried. After the backend answers, the selection is cleared and the
// page refetched whatever the outcome. A request that fails outright keeps the
// selection so the operator can retry.
func BulkAct[T, P any](ctx context.Context, c *Controller[T], b Bulk[P]) (Outcome, error) {
	ids := c.Selected()
	if len(ids) == 0 {
		c.notifier.Notify(notify.LevelError, "Select at least one item")
		return Outcome{}, ErrEmptySelection
	}

	items := make([]P, 0, len(ids))
	for _, id := range ids {
		items = append(items, b.Build(id))
	}

	c.log.Info().Str("action", b.Label).Int("items", len(items)).Msg("Submitting bulk action")
	results, err := b.Submit(ctx, items)
	if err != nil {
		c.log.Warn().Err(err).Str("action", b.Label).Msg("Bulk action failed")
		c.notifyf(notify.LevelError, "%s failed: %s", b.Label, err.Error())
		return Outcome{Submitted: len(ids)}, err
	}

	out := reconcile(ids, results)
	if out.AllSucceeded() {
		c.notifyf(notify.LevelSuccess, "%s completed for %d item(s)", b.Label, out.Submitted)
	} else {
		c.notifyf(notify.LevelError, "Some items failed: %d out of %d", len(out.Failed), out.Submitted)
		for _, f := range out.Failed {
			c.notifyf(notify.LevelError, "%s %s: %s", c.noun, ShortID(f.ID), f.Error)
		}
	}

	c.ClearSelection()
	return out, c.Fetch(ctx)
}

// reconcile partitions results by success. Submitted IDs with no result are
// counted as failed.
func reconcile(ids []string, results []models.BulkResult) Outcome {
	out := Outcome{Submitted: len(ids)}
	seen := make(map[string]bool, len(results))
	for _, r := range results {
		seen[r.ID] = true
		if r.Success {
			out.Succeeded = append(out.Succeeded, r.ID)
			continue
		}
		if r.Error == "" {
			r.Error = "failed"
		}
		out.Failed = append(out.Failed, r)
	}
	for _, id := range ids {
		if !seen[id] {
			out.Failed = append(out.Failed, models.BulkResult{ID: id, Error: "no result returned"})
		}
	}
	return out
}

// ShortID returns the last six characters of an ID for notices
func ShortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}
