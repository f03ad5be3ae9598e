package expenses

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/shared"
)

// CreateInput carries fields for expense creation.
type CreateInput struct {
	PropertyID  string
	CategoryID  string
	RoomID      string
	Description string
	Amount      float64
	IncurredOn  time.Time
	Vendor      string
	Receipt     string
}

// UpdateInput carries partial fields for expense updates.
type UpdateInput struct {
	CategoryID  *string
	RoomID      *string
	Description *string
	Amount      *float64
	IncurredOn  *time.Time
	Vendor      *string
	Receipt     *string
}

// Service handles expense business logic.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns expenses matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Expense, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches an expense by id.
func (s *Service) Get(ctx context.Context, id string) (Expense, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new expense.
func (s *Service) Create(ctx context.Context, input CreateInput) (Expense, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return Expense{}, fmt.Errorf("expenses: description is required: %w", shared.ErrValidation)
	}
	if input.PropertyID == "" || input.CategoryID == "" {
		return Expense{}, fmt.Errorf("expenses: property and category are required: %w", shared.ErrValidation)
	}
	if input.Amount <= 0 {
		return Expense{}, fmt.Errorf("expenses: amount must be positive: %w", shared.ErrValidation)
	}
	if input.IncurredOn.IsZero() {
		return Expense{}, fmt.Errorf("expenses: incurred date is required: %w", shared.ErrValidation)
	}

	now := time.Now().UTC()
	expense := Expense{
		ID:          uuid.NewString(),
		PropertyID:  input.PropertyID,
		CategoryID:  input.CategoryID,
		RoomID:      input.RoomID,
		Description: description,
		Amount:      input.Amount,
		IncurredOn:  input.IncurredOn,
		Vendor:      strings.TrimSpace(input.Vendor),
		Receipt:     input.Receipt,
		CreatedBy:   shared.UserIDFromContext(ctx),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, expense); err != nil {
		return Expense{}, err
	}
	s.recordAudit(ctx, "expense.created", expense.ID, map[string]any{"amount": expense.Amount})
	return expense, nil
}

// Update applies a partial expense update.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Expense, error) {
	expense, err := s.repo.Get(ctx, id)
	if err != nil {
		return Expense{}, err
	}
	if input.CategoryID != nil {
		expense.CategoryID = *input.CategoryID
	}
	if input.RoomID != nil {
		expense.RoomID = *input.RoomID
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return Expense{}, fmt.Errorf("expenses: description is required: %w", shared.ErrValidation)
		}
		expense.Description = description
	}
	if input.Amount != nil {
		if *input.Amount <= 0 {
			return Expense{}, fmt.Errorf("expenses: amount must be positive: %w", shared.ErrValidation)
		}
		expense.Amount = *input.Amount
	}
	if input.IncurredOn != nil {
		expense.IncurredOn = *input.IncurredOn
	}
	if input.Vendor != nil {
		expense.Vendor = strings.TrimSpace(*input.Vendor)
	}
	if input.Receipt != nil {
		expense.Receipt = *input.Receipt
	}
	expense.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, expense); err != nil {
		return Expense{}, err
	}
	s.recordAudit(ctx, "expense.updated", expense.ID, map[string]any{"amount": expense.Amount})
	return expense, nil
}

// Delete removes an expense.
func (s *Service) Delete(ctx context.Context, id string) error {
	expense, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "expense.deleted", id, map[string]any{"amount": expense.Amount})
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "expense",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record expense audit event", slog.String("action", action), slog.Any("error", err))
	}
}
