package cleaning

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/shared"
)

// UpdateInput carries partial fields for task updates.
type UpdateInput struct {
	Status     *TaskStatus
	AssigneeID *string
	Notes      *string
}

// Service handles housekeeping business logic.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Board returns the housekeeping board for one day.
func (s *Service) Board(ctx context.Context, date time.Time) ([]Task, error) {
	return s.repo.ListForDate(ctx, date)
}

// Update applies a partial task update.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Task, error) {
	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return Task{}, err
	}
	if input.Status != nil {
		if !ValidStatus(*input.Status) {
			return Task{}, fmt.Errorf("cleaning: unknown task status %q: %w", *input.Status, shared.ErrValidation)
		}
		task.Status = *input.Status
	}
	if input.AssigneeID != nil {
		task.AssigneeID = *input.AssigneeID
	}
	if input.Notes != nil {
		task.Notes = *input.Notes
	}
	task.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, task); err != nil {
		return Task{}, err
	}
	s.recordAudit(ctx, "cleaning.task_updated", task.ID, map[string]any{"status": string(task.Status)})
	return task, nil
}

// GenerateForDate creates pending tasks for every room with a departure on
// the given date. Rooms that already carry an open task are skipped so the
// generator can run repeatedly.
func (s *Service) GenerateForDate(ctx context.Context, date time.Time) (int, error) {
	roomIDs, err := s.repo.CheckoutRooms(ctx, date)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	var tasks []Task
	for _, roomID := range roomIDs {
		open, err := s.repo.HasOpenTask(ctx, roomID)
		if err != nil {
			return 0, err
		}
		if open {
			continue
		}
		tasks = append(tasks, Task{
			ID:        uuid.NewString(),
			RoomID:    roomID,
			DueDate:   date,
			Status:    TaskPending,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if len(tasks) == 0 {
		return 0, nil
	}
	if err := s.repo.InsertBatch(ctx, tasks); err != nil {
		return 0, err
	}
	if s.logger != nil {
		s.logger.Info("generated cleaning tasks",
			slog.Time("date", date), slog.Int("count", len(tasks)))
	}
	return len(tasks), nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "cleaning_task",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record cleaning audit event", slog.String("action", action), slog.Any("error", err))
	}
}
