package rooms

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/shared"
)

// CreateInput carries fields for room creation.
type CreateInput struct {
	PropertyID   string
	RoomTypeID   string
	OwnerID      string
	Number       string
	Floor        int
	BaseRate     float64
	MaxOccupancy int
	Notes        string
}

// UpdateInput carries partial fields for room updates.
type UpdateInput struct {
	RoomTypeID   *string
	OwnerID      *string
	Number       *string
	Floor        *int
	BaseRate     *float64
	MaxOccupancy *int
	Housekeeping *HousekeepingState
	IsActive     *bool
	Notes        *string
}

// Service handles room business logic.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns rooms matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Room, error) {
	return s.repo.List(ctx, filter)
}

// Get fetches a room by id.
func (s *Service) Get(ctx context.Context, id string) (Room, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new room. New rooms start clean and active.
func (s *Service) Create(ctx context.Context, input CreateInput) (Room, error) {
	number := strings.TrimSpace(input.Number)
	if number == "" {
		return Room{}, fmt.Errorf("rooms: number is required: %w", shared.ErrValidation)
	}
	if input.PropertyID == "" || input.RoomTypeID == "" {
		return Room{}, fmt.Errorf("rooms: property and room type are required: %w", shared.ErrValidation)
	}
	if input.MaxOccupancy < 1 {
		return Room{}, fmt.Errorf("rooms: max occupancy must be at least 1: %w", shared.ErrValidation)
	}

	now := time.Now().UTC()
	room := Room{
		ID:           uuid.NewString(),
		PropertyID:   input.PropertyID,
		RoomTypeID:   input.RoomTypeID,
		OwnerID:      input.OwnerID,
		Number:       number,
		Floor:        input.Floor,
		BaseRate:     input.BaseRate,
		MaxOccupancy: input.MaxOccupancy,
		Housekeeping: HousekeepingClean,
		IsActive:     true,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, room); err != nil {
		return Room{}, err
	}
	s.recordAudit(ctx, "room.created", room.ID, map[string]any{"number": room.Number})
	return room, nil
}

// Update applies a partial room update.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Room, error) {
	room, err := s.repo.Get(ctx, id)
	if err != nil {
		return Room{}, err
	}
	if input.RoomTypeID != nil {
		room.RoomTypeID = *input.RoomTypeID
	}
	if input.OwnerID != nil {
		room.OwnerID = *input.OwnerID
	}
	if input.Number != nil {
		number := strings.TrimSpace(*input.Number)
		if number == "" {
			return Room{}, fmt.Errorf("rooms: number is required: %w", shared.ErrValidation)
		}
		room.Number = number
	}
	if input.Floor != nil {
		room.Floor = *input.Floor
	}
	if input.BaseRate != nil {
		room.BaseRate = *input.BaseRate
	}
	if input.MaxOccupancy != nil {
		if *input.MaxOccupancy < 1 {
			return Room{}, fmt.Errorf("rooms: max occupancy must be at least 1: %w", shared.ErrValidation)
		}
		room.MaxOccupancy = *input.MaxOccupancy
	}
	if input.Housekeeping != nil {
		if !validHousekeeping(*input.Housekeeping) {
			return Room{}, fmt.Errorf("rooms: unknown housekeeping state %q: %w", *input.Housekeeping, shared.ErrValidation)
		}
		room.Housekeeping = *input.Housekeeping
	}
	if input.IsActive != nil {
		room.IsActive = *input.IsActive
	}
	if input.Notes != nil {
		room.Notes = *input.Notes
	}
	room.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, room); err != nil {
		return Room{}, err
	}
	s.recordAudit(ctx, "room.updated", room.ID, map[string]any{"number": room.Number})
	return room, nil
}

// Delete removes a room.
func (s *Service) Delete(ctx context.Context, id string) error {
	room, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "room.deleted", id, map[string]any{"number": room.Number})
	return nil
}

func validHousekeeping(state HousekeepingState) bool {
	switch state {
	case HousekeepingClean, HousekeepingDirty, HousekeepingInProgress, HousekeepingInspected:
		return true
	}
	return false
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "room",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record room audit event", slog.String("action", action), slog.Any("error", err))
	}
}
