package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/harborstay/harborstay/internal/shared"
)

// Service wraps authentication business rules. Staff and owner logins are
// separate entry points: an owner authenticating against the staff portal
// is rejected outright, and vice versa.
type Service struct {
	repo Repository
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AuthenticateStaff validates credentials for the staff portal.
func (s *Service) AuthenticateStaff(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !shared.IsStaffKind(account.AccountKind) {
		return nil, fmt.Errorf("auth: please use the owner portal to log in: %w", shared.ErrInvalidCredentials)
	}
	return account, nil
}

// AuthenticateOwner validates credentials for the owner portal.
func (s *Service) AuthenticateOwner(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if account.AccountKind != shared.AccountKindOwner {
		return nil, fmt.Errorf("auth: please use the staff portal to log in: %w", shared.ErrInvalidCredentials)
	}
	return account, nil
}

func (s *Service) authenticate(ctx context.Context, email, password string) (*Account, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !account.IsActive {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return account, nil
}

// HashPassword produces a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
