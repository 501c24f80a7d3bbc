package listctl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cci-admin-dashboard/internal/listctl"
	"github.com/cci-admin-dashboard/internal/models"
	"github.com/cci-admin-dashboard/internal/notify"
)

type reviewItem struct {
	ClaimID string
	Notes   string
}

func TestBulkAct_PartialFailure(t *testing.T) {
	b := &fakeBackend{rows: rows(3)}
	c, q := newController(t, b, 10)
	require.NoError(t, c.Fetch(context.Background()))
	c.SelectAll()
	q.Drain()
	calls := b.calls()

	var submitted []reviewItem
	out, err := listctl.BulkAct(context.Background(), c, listctl.Bulk[reviewItem]{
		Label: "Review",
		Build: func(id string) reviewItem { return reviewItem{ClaimID: id, Notes: "ok"} },
		Submit: func(_ context.Context, items []reviewItem) ([]models.BulkResult, error) {
			submitted = items
			return []models.BulkResult{
				{ID: "a", Success: true},
				{ID: "b", Success: false, Error: "already paid"},
				{ID: "c", Success: true},
			}, nil
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []reviewItem{{"a", "ok"}, {"b", "ok"}, {"c", "ok"}}, submitted)
	assert.Len(t, out.Failed, 1)
	assert.Equal(t, []string{"a", "c"}, out.Succeeded)
	assert.False(t, out.AllSucceeded())
	assert.Empty(t, c.Selected())
	assert.Equal(t, calls+1, b.calls(), "bulk action refetches")

	notices := q.Drain()
	require.Len(t, notices, 2)
	assert.Equal(t, "Some items failed: 1 out of 3", notices[0].Message)
	assert.Equal(t, "Row b: already paid", notices[1].Message)
}

func TestBulkAct_AllSucceeded(t *testing.T) {
	b := &fakeBackend{rows: rows(2)}
	c, q := newController(t, b, 10)
	require.NoError(t, c.Fetch(context.Background()))
	c.SelectAll()

	out, err := listctl.BulkAct(context.Background(), c, listctl.Bulk[string]{
		Label: "Reminder",
		Build: func(id string) string { return id },
		Submit: func(_ context.Context, ids []string) ([]models.BulkResult, error) {
			res := make([]models.BulkResult, len(ids))
			for i, id := range ids {
				res[i] = models.BulkResult{ID: id, Success: true}
			}
			return res, nil
		},
	})
	require.NoError(t, err)
	assert.True(t, out.AllSucceeded())
	assert.Empty(t, c.Selected())

	notices := q.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, notify.LevelSuccess, notices[0].Level)
	assert.Equal(t, "Reminder completed for 2 item(s)", notices[0].Message)
}

func TestBulkAct_MissingResultCountsAsFailure(t *testing.T) {
	b := &fakeBackend{rows: rows(2)}
	c, _ := newController(t, b, 10)
	require.NoError(t, c.Fetch(context.Background()))
	c.SelectAll()

	out, err := listctl.BulkAct(context.Background(), c, listctl.Bulk[string]{
		Label: "Audit",
		Build: func(id string) string { return id },
		Submit: func(context.Context, []string) ([]models.BulkResult, error) {
			return []models.BulkResult{{ID: "a", Success: true}}, nil
		},
	})
	require.NoError(t, err)
	require.Len(t, out.Failed, 1)
	assert.Equal(t, "b", out.Failed[0].ID)
}

func TestBulkAct_EmptySelection(t *testing.T) {
	b := &fakeBackend{rows: rows(2)}
	c, q := newController(t, b, 10)
	require.NoError(t, c.Fetch(context.Background()))

	called := false
	_, err := listctl.BulkAct(context.Background(), c, listctl.Bulk[string]{
		Build: func(id string) string { return id },
		Submit: func(context.Context, []string) ([]models.BulkResult, error) {
			called = true
			return nil, nil
		},
	})
	assert.ErrorIs(t, err, listctl.ErrEmptySelection)
	assert.False(t, called)
	assert.Equal(t, 1, q.Len())
}

func TestBulkAct_RequestFailureKeepsSelection(t *testing.T) {
	b := &fakeBackend{rows: rows(3)}
	c, q := newController(t, b, 10)
	require.NoError(t, c.Fetch(context.Background()))
	require.NoError(t, c.ToggleSelect("b"))
	calls := b.calls()

	_, err := listctl.BulkAct(context.Background(), c, listctl.Bulk[string]{
		Label: "Review",
		Build: func(id string) string { return id },
		Submit: func(context.Context, []string) ([]models.BulkResult, error) {
			return nil, errors.New("gateway timeout")
		},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"b"}, c.Selected())
	assert.Equal(t, calls, b.calls())

	notices := q.Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, "Review failed: gateway timeout", notices[0].Message)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", listctl.ShortID("abc"))
	assert.Equal(t, "654321", listctl.ShortID("65f0a1b2c3654321"))
}
