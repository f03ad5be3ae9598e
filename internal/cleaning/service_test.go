package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/harborstay/harborstay/internal/shared"
)

type stubRepo struct {
	tasks     map[string]Task
	checkouts map[string][]string
}

func newStubRepo() *stubRepo {
	return &stubRepo{tasks: map[string]Task{}, checkouts: map[string][]string{}}
}

func dateKey(t time.Time) string { return t.Format("2006-01-02") }

func (r *stubRepo) ListForDate(_ context.Context, date time.Time) ([]Task, error) {
	var out []Task
	for _, task := range r.tasks {
		if task.DueDate.Equal(date) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (r *stubRepo) Get(_ context.Context, id string) (Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("cleaning: task %q: %w", id, shared.ErrNotFound)
	}
	return task, nil
}

func (r *stubRepo) InsertBatch(_ context.Context, tasks []Task) error {
	for _, task := range tasks {
		r.tasks[task.ID] = task
	}
	return nil
}

func (r *stubRepo) Update(_ context.Context, task Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return fmt.Errorf("cleaning: task %q: %w", task.ID, shared.ErrNotFound)
	}
	r.tasks[task.ID] = task
	return nil
}

func (r *stubRepo) CheckoutRooms(_ context.Context, date time.Time) ([]string, error) {
	return r.checkouts[dateKey(date)], nil
}

func (r *stubRepo) HasOpenTask(_ context.Context, roomID string) (bool, error) {
	for _, task := range r.tasks {
		if task.RoomID == roomID && task.Status != TaskDone {
			return true, nil
		}
	}
	return false, nil
}

func newTestService(t *testing.T) (*Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	return NewService(repo, nil, slog.Default()), repo
}

func TestGenerateForDate(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	repo.checkouts[dateKey(date)] = []string{"room-1", "room-2"}

	created, err := svc.GenerateForDate(ctx, date)
	require.NoError(t, err)
	require.Equal(t, 2, created)
	require.Len(t, repo.tasks, 2)
	for _, task := range repo.tasks {
		require.Equal(t, TaskPending, task.Status)
		require.True(t, task.DueDate.Equal(date))
	}
}

func TestGenerateIsIdempotent(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	repo.checkouts[dateKey(date)] = []string{"room-1"}

	created, err := svc.GenerateForDate(ctx, date)
	require.NoError(t, err)
	require.Equal(t, 1, created)

	created, err = svc.GenerateForDate(ctx, date)
	require.NoError(t, err)
	require.Zero(t, created)
	require.Len(t, repo.tasks, 1)
}

func TestGenerateSkipsDoneTasks(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	date := time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC)
	repo.checkouts[dateKey(date)] = []string{"room-1"}
	repo.tasks["old"] = Task{ID: "old", RoomID: "room-1", Status: TaskDone, DueDate: date.AddDate(0, 0, -7)}

	created, err := svc.GenerateForDate(ctx, date)
	require.NoError(t, err)
	require.Equal(t, 1, created)
}

func TestUpdateTask(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	repo.tasks["t1"] = Task{ID: "t1", RoomID: "room-1", Status: TaskPending}

	status := TaskInProgress
	assignee := "user-5"
	task, err := svc.Update(ctx, "t1", UpdateInput{Status: &status, AssigneeID: &assignee})
	require.NoError(t, err)
	require.Equal(t, TaskInProgress, task.Status)
	require.Equal(t, "user-5", task.AssigneeID)

	bogus := TaskStatus("scrubbed")
	_, err = svc.Update(ctx, "t1", UpdateInput{Status: &bogus})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Update(ctx, "missing", UpdateInput{})
	require.ErrorIs(t, err, shared.ErrNotFound)
}
