package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/shared"
)

// Service handles reference catalog maintenance.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Properties returns all properties.
func (s *Service) Properties(ctx context.Context) ([]Property, error) {
	return s.repo.ListProperties(ctx)
}

// SaveProperty creates or updates a property. An empty id creates.
func (s *Service) SaveProperty(ctx context.Context, p Property) (Property, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return Property{}, fmt.Errorf("settings: property name is required: %w", shared.ErrValidation)
	}
	now := time.Now().UTC()
	if p.ID == "" {
		p.ID = uuid.NewString()
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	if err := s.repo.UpsertProperty(ctx, p); err != nil {
		return Property{}, err
	}
	s.recordAudit(ctx, "settings.property_saved", p.ID, map[string]any{"name": p.Name})
	return p, nil
}

// RoomTypes returns all room types.
func (s *Service) RoomTypes(ctx context.Context) ([]RoomType, error) {
	return s.repo.ListRoomTypes(ctx)
}

// SaveRoomType creates or updates a room type. An empty id creates.
func (s *Service) SaveRoomType(ctx context.Context, rt RoomType) (RoomType, error) {
	rt.Name = strings.TrimSpace(rt.Name)
	if rt.Name == "" {
		return RoomType{}, fmt.Errorf("settings: room type name is required: %w", shared.ErrValidation)
	}
	if rt.Capacity < 1 {
		return RoomType{}, fmt.Errorf("settings: capacity must be at least 1: %w", shared.ErrValidation)
	}
	now := time.Now().UTC()
	if rt.ID == "" {
		rt.ID = uuid.NewString()
		rt.CreatedAt = now
	}
	rt.UpdatedAt = now
	if err := s.repo.UpsertRoomType(ctx, rt); err != nil {
		return RoomType{}, err
	}
	s.recordAudit(ctx, "settings.room_type_saved", rt.ID, map[string]any{"name": rt.Name})
	return rt, nil
}

// BookingSources returns all booking sources.
func (s *Service) BookingSources(ctx context.Context) ([]BookingSource, error) {
	return s.repo.ListBookingSources(ctx)
}

// SaveBookingSource creates or updates a booking source. An empty id creates.
func (s *Service) SaveBookingSource(ctx context.Context, bs BookingSource) (BookingSource, error) {
	bs.Name = strings.TrimSpace(bs.Name)
	if bs.Name == "" {
		return BookingSource{}, fmt.Errorf("settings: source name is required: %w", shared.ErrValidation)
	}
	if bs.CommissionPct < 0 || bs.CommissionPct > 100 {
		return BookingSource{}, fmt.Errorf("settings: commission must be between 0 and 100: %w", shared.ErrValidation)
	}
	now := time.Now().UTC()
	if bs.ID == "" {
		bs.ID = uuid.NewString()
		bs.CreatedAt = now
	}
	bs.UpdatedAt = now
	if err := s.repo.UpsertBookingSource(ctx, bs); err != nil {
		return BookingSource{}, err
	}
	s.recordAudit(ctx, "settings.booking_source_saved", bs.ID, map[string]any{"name": bs.Name})
	return bs, nil
}

// ExpenseCategories returns all expense categories.
func (s *Service) ExpenseCategories(ctx context.Context) ([]ExpenseCategory, error) {
	return s.repo.ListExpenseCategories(ctx)
}

// SaveExpenseCategory creates or updates an expense category. An empty id creates.
func (s *Service) SaveExpenseCategory(ctx context.Context, ec ExpenseCategory) (ExpenseCategory, error) {
	ec.Name = strings.TrimSpace(ec.Name)
	if ec.Name == "" {
		return ExpenseCategory{}, fmt.Errorf("settings: category name is required: %w", shared.ErrValidation)
	}
	now := time.Now().UTC()
	if ec.ID == "" {
		ec.ID = uuid.NewString()
		ec.CreatedAt = now
	}
	ec.UpdatedAt = now
	if err := s.repo.UpsertExpenseCategory(ctx, ec); err != nil {
		return ExpenseCategory{}, err
	}
	s.recordAudit(ctx, "settings.expense_category_saved", ec.ID, map[string]any{"name": ec.Name})
	return ec, nil
}

// DeleteExpenseCategory removes an expense category.
func (s *Service) DeleteExpenseCategory(ctx context.Context, id string) error {
	if err := s.repo.DeleteExpenseCategory(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "settings.expense_category_deleted", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "settings",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record settings audit event", slog.String("action", action), slog.Any("error", err))
	}
}
