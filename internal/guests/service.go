package guests

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/shared"
)

// CreateInput carries fields for guest creation.
type CreateInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Nationality string
	IDNumber    string
	Notes       string
}

// UpdateInput carries partial fields for guest updates.
type UpdateInput struct {
	FirstName   *string
	LastName    *string
	Email       *string
	Phone       *string
	Nationality *string
	IDNumber    *string
	Notes       *string
}

// Service handles guest business logic.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns guests matching the optional search term.
func (s *Service) List(ctx context.Context, search string) ([]Guest, error) {
	return s.repo.List(ctx, strings.TrimSpace(search))
}

// Get fetches a guest by id.
func (s *Service) Get(ctx context.Context, id string) (Guest, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new guest.
func (s *Service) Create(ctx context.Context, input CreateInput) (Guest, error) {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	if first == "" && last == "" {
		return Guest{}, fmt.Errorf("guests: a name is required: %w", shared.ErrValidation)
	}

	now := time.Now().UTC()
	guest := Guest{
		ID:          uuid.NewString(),
		FirstName:   first,
		LastName:    last,
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:       strings.TrimSpace(input.Phone),
		Nationality: strings.TrimSpace(input.Nationality),
		IDNumber:    strings.TrimSpace(input.IDNumber),
		Notes:       input.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, guest); err != nil {
		return Guest{}, err
	}
	s.recordAudit(ctx, "guest.created", guest.ID, map[string]any{"name": guest.FullName()})
	return guest, nil
}

// Update applies a partial guest update.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Guest, error) {
	guest, err := s.repo.Get(ctx, id)
	if err != nil {
		return Guest{}, err
	}
	if input.FirstName != nil {
		guest.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		guest.LastName = strings.TrimSpace(*input.LastName)
	}
	if guest.FirstName == "" && guest.LastName == "" {
		return Guest{}, fmt.Errorf("guests: a name is required: %w", shared.ErrValidation)
	}
	if input.Email != nil {
		guest.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		guest.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Nationality != nil {
		guest.Nationality = strings.TrimSpace(*input.Nationality)
	}
	if input.IDNumber != nil {
		guest.IDNumber = strings.TrimSpace(*input.IDNumber)
	}
	if input.Notes != nil {
		guest.Notes = *input.Notes
	}
	guest.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, guest); err != nil {
		return Guest{}, err
	}
	s.recordAudit(ctx, "guest.updated", guest.ID, map[string]any{"name": guest.FullName()})
	return guest, nil
}

// Delete removes a guest.
func (s *Service) Delete(ctx context.Context, id string) error {
	guest, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "guest.deleted", id, map[string]any{"name": guest.FullName()})
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "guest",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record guest audit event", slog.String("action", action), slog.Any("error", err))
	}
}
