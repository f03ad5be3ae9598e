package audit

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	events []Event
}

func (r *stubRepo) List(_ context.Context, filter Filter, cursor int64, limit int) ([]Event, error) {
	var out []Event
	for i := len(r.events) - 1; i >= 0; i-- {
		event := r.events[i]
		if cursor > 0 && event.ID >= cursor {
			continue
		}
		if filter.Entity != "" && event.Entity != filter.Entity {
			continue
		}
		out = append(out, event)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func seedEvents(n int) []Event {
	events := make([]Event, 0, n)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		events = append(events, Event{
			ID:     int64(i),
			Action: "role.updated",
			Entity: "role",
			At:     base.Add(time.Duration(i) * time.Minute),
		})
	}
	return events
}

func TestTimelinePaging(t *testing.T) {
	svc := NewService(&stubRepo{events: seedEvents(120)}, slog.Default())
	ctx := context.Background()

	page, err := svc.Timeline(ctx, Filter{}, 0, 50)
	require.NoError(t, err)
	require.Len(t, page.Events, 50)
	require.True(t, page.HasNext)
	require.Equal(t, int64(71), page.NextCursor)
	require.Equal(t, int64(120), page.Events[0].ID)

	page, err = svc.Timeline(ctx, Filter{}, page.NextCursor, 50)
	require.NoError(t, err)
	require.Len(t, page.Events, 50)
	require.True(t, page.HasNext)

	page, err = svc.Timeline(ctx, Filter{}, page.NextCursor, 50)
	require.NoError(t, err)
	require.Len(t, page.Events, 20)
	require.False(t, page.HasNext)
	require.Zero(t, page.NextCursor)
}

func TestTimelineClampsPageSize(t *testing.T) {
	svc := NewService(&stubRepo{events: seedEvents(200)}, slog.Default())

	page, err := svc.Timeline(context.Background(), Filter{}, 0, 500)
	require.NoError(t, err)
	require.Len(t, page.Events, 50)

	page, err = svc.Timeline(context.Background(), Filter{}, 0, -1)
	require.NoError(t, err)
	require.Len(t, page.Events, 50)
}

func TestTimelineFilter(t *testing.T) {
	events := seedEvents(10)
	events[2].Entity = "booking"
	svc := NewService(&stubRepo{events: events}, slog.Default())

	page, err := svc.Timeline(context.Background(), Filter{Entity: "booking"}, 0, 50)
	require.NoError(t, err)
	require.Len(t, page.Events, 1)
	require.Equal(t, int64(3), page.Events[0].ID)
}
