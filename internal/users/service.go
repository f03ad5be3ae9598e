package users

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/harborstay/internal/auth"
	"github.com/harborstay/harborstay/internal/shared"
)

// CreateInput carries fields for user creation.
type CreateInput struct {
	Name        string
	Email       string
	AccountKind string
	Password    string
}

// UpdateInput carries partial fields for user updates.
type UpdateInput struct {
	Name     *string
	Email    *string
	IsActive *bool
}

// Service handles user management business logic.
type Service struct {
	repo   RepositoryPort
	audit  shared.AuditRecorder
	logger *slog.Logger
}

// NewService builds a Service instance.
func NewService(repo RepositoryPort, audit shared.AuditRecorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get fetches a user by id.
func (s *Service) Get(ctx context.Context, id string) (User, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new account.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" {
		return User{}, fmt.Errorf("users: name and email are required: %w", shared.ErrValidation)
	}
	if len(input.Password) < 8 {
		return User{}, fmt.Errorf("users: password must be at least 8 characters: %w", shared.ErrValidation)
	}
	kind := input.AccountKind
	if !shared.IsStaffKind(kind) && kind != shared.AccountKindOwner {
		return User{}, fmt.Errorf("users: unknown account kind %q: %w", kind, shared.ErrValidation)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}

	now := time.Now().UTC()
	user := User{
		ID:          uuid.NewString(),
		Email:       email,
		Name:        name,
		AccountKind: kind,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Insert(ctx, user, hash); err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, "user.created", user.ID, map[string]any{"email": user.Email})
	return user, nil
}

// Update applies a partial profile update.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (User, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return User{}, fmt.Errorf("users: name is required: %w", shared.ErrValidation)
		}
		user.Name = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email == "" {
			return User{}, fmt.Errorf("users: email is required: %w", shared.ErrValidation)
		}
		user.Email = email
	}
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	s.recordAudit(ctx, "user.updated", user.ID, map[string]any{"email": user.Email})
	return user, nil
}

// ChangePassword replaces the account password.
func (s *Service) ChangePassword(ctx context.Context, id, password string) error {
	if len(password) < 8 {
		return fmt.Errorf("users: password must be at least 8 characters: %w", shared.ErrValidation)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, id, hash); err != nil {
		return err
	}
	s.recordAudit(ctx, "user.password_changed", id, nil)
	return nil
}

func (s *Service) recordAudit(ctx context.Context, action, entityID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	entry := shared.AuditEntry{
		ActorID:  shared.UserIDFromContext(ctx),
		Action:   action,
		Entity:   "user",
		EntityID: entityID,
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, entry); err != nil && s.logger != nil {
		s.logger.Warn("record user audit event", slog.String("action", action), slog.Any("error", err))
	}
}
