package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/odyssey-erp/invoice-dashboard/internal/shared"
)

// dummyHash is compared against when no user matches so that unknown emails
// cost the same bcrypt work as wrong passwords.
var dummyHash = mustHash("dashboard-dummy-password")

func mustHash(password string) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: generate dummy hash: %v", err))
	}
	return hash
}

// Service verifies credentials against stored users.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a new Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// Verify returns the user owning email when password matches its hash.
// Malformed credentials, unknown emails and wrong passwords all return
// shared.ErrInvalidCredentials. Storage failures are returned as-is and never
// collapse into ErrInvalidCredentials.
func (s *Service) Verify(ctx context.Context, email, password string) (*User, error) {
	if err := s.validate.Struct(Credentials{Email: email, Password: password}); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}
