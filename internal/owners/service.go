package owners

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/rooms"
	"github.com/harborstay/harborstay/internal/shared"
)

// RoomLister exposes the room listing needed by the owner portal.
type RoomLister interface {
	ListByOwner(ctx context.Context, ownerID string) ([]rooms.Room, error)
}

// CreateInput carries fields for owner creation.
type CreateInput struct {
	UserID        string
	Name          string
	Email         string
	Phone         string
	CommissionPct float64
	BankAccount   string
	Notes         string
}

// UpdateInput carries partial fields for owner updates.
type UpdateInput struct {
	UserID        *string
	Name          *string
	Email         *string
	Phone         *string
	CommissionPct *float64
	BankAccount   *string
	Notes         *string
}

// Service handles owner business logic.
type Service struct {
	repo   RepositoryPort
	rooms  RoomLister
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, roomLister RoomLister, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, rooms: roomLister, audit: audit, logger: logger}
}

// List returns all owners.
func (s *Service) List(ctx context.Context) ([]Owner, error) {
	return s.repo.List(ctx)
}

// Get fetches an owner by id.
func (s *Service) Get(ctx context.Context, id string) (Owner, error) {
	return s.repo.Get(ctx, id)
}

// GetByUser fetches the owner profile for a portal account.
func (s *Service) GetByUser(ctx context.Context, userID string) (Owner, error) {
	return s.repo.GetByUser(ctx, userID)
}

// Create registers a new owner.
func (s *Service) Create(ctx context.Context, input CreateInput) (Owner, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return Owner{}, fmt.Errorf("owners: name is required: %w", shared.ErrValidation)
	}
	if input.CommissionPct < 0 || input.CommissionPct > 100 {
		return Owner{}, fmt.Errorf("owners: commission must be between 0 and 100: %w", shared.ErrValidation)
	}

	now := time.Now().UTC()
	owner := Owner{
		ID:            uuid.NewString(),
		UserID:        input.UserID,
		Name:          name,
		Email:         strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:         strings.TrimSpace(input.Phone),
		CommissionPct: input.CommissionPct,
		BankAccount:   strings.TrimSpace(input.BankAccount),
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, owner); err != nil {
		return Owner{}, err
	}
	s.recordAudit(ctx, "owner.created", owner.ID, map[string]any{"name": owner.Name})
	return owner, nil
}

// Update applies a partial owner update.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Owner, error) {
	owner, err := s.repo.Get(ctx, id)
	if err != nil {
		return Owner{}, err
	}
	if input.UserID != nil {
		owner.UserID = *input.UserID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return Owner{}, fmt.Errorf("owners: name is required: %w", shared.ErrValidation)
		}
		owner.Name = name
	}
	if input.Email != nil {
		owner.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Phone != nil {
		owner.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.CommissionPct != nil {
		if *input.CommissionPct < 0 || *input.CommissionPct > 100 {
			return Owner{}, fmt.Errorf("owners: commission must be between 0 and 100: %w", shared.ErrValidation)
		}
		owner.CommissionPct = *input.CommissionPct
	}
	if input.BankAccount != nil {
		owner.BankAccount = strings.TrimSpace(*input.BankAccount)
	}
	if input.Notes != nil {
		owner.Notes = *input.Notes
	}
	owner.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, owner); err != nil {
		return Owner{}, err
	}
	s.recordAudit(ctx, "owner.updated", owner.ID, map[string]any{"name": owner.Name})
	return owner, nil
}

// Delete removes an owner.
func (s *Service) Delete(ctx context.Context, id string) error {
	owner, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.recordAudit(ctx, "owner.deleted", id, map[string]any{"name": owner.Name})
	return nil
}

// Rooms lists the rooms attributed to an owner.
func (s *Service) Rooms(ctx context.Context, ownerID string) ([]rooms.Room, error) {
	if _, err := s.repo.Get(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.rooms.ListByOwner(ctx, ownerID)
}

// MonthlyStatement builds the payout statement for one calendar month.
func (s *Service) MonthlyStatement(ctx context.Context, ownerID string, year int, month time.Month) (Statement, error) {
	if year < 2000 || month < time.January || month > time.December {
		return Statement{}, fmt.Errorf("owners: invalid statement period: %w", shared.ErrValidation)
	}
	if _, err := s.repo.Get(ctx, ownerID); err != nil {
		return Statement{}, err
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	lines, err := s.repo.StatementLines(ctx, ownerID, from, to)
	if err != nil {
		return Statement{}, err
	}

	statement := Statement{
		OwnerID: ownerID,
		Year:    year,
		Month:   month,
		Lines:   lines,
	}
	for _, line := range lines {
		statement.GrossRevenue += line.TotalAmount
		statement.TotalCommission += line.Commission
		statement.TotalFees += line.TourismFee + line.VAT
		statement.NetPayout += line.NetToOwner
	}
	return statement, nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "owner",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record owner audit event", slog.String("action", action), slog.Any("error", err))
	}
}
