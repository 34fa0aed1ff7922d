// Package auth implements email/password authentication on top of the
// account store.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/teranga-resto/teranga-resto/internal/shared"
	"github.com/teranga-resto/teranga-resto/internal/users"
)

// Service wraps authentication business rules.
type Service struct {
	repo users.Repository
	// adminEmail is promoted to admin on registration. Empty disables
	// the promotion.
	adminEmail string
	now        func() time.Time
}

// NewService constructs a new Service.
func NewService(repo users.Repository, adminEmail string) *Service {
	return &Service{repo: repo, adminEmail: adminEmail, now: time.Now}
}

// Authenticate validates email/password credentials. Failures are always
// reported as invalid credentials, never as "no such account".
func (s *Service) Authenticate(ctx context.Context, email, password string) (users.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return users.User{}, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Register creates an account with role "user", or "admin" when the email
// matches the configured admin address.
func (s *Service) Register(ctx context.Context, name, email, password string) (users.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return users.User{}, fmt.Errorf("%w: name and email required", shared.ErrValidation)
	}
	if len(password) < 8 {
		return users.User{}, fmt.Errorf("%w: password must be at least 8 characters", shared.ErrValidation)
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return users.User{}, fmt.Errorf("%w: email already registered", shared.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return users.User{}, err
	}

	role := users.RoleUser
	if s.adminEmail != "" && email == strings.ToLower(s.adminEmail) {
		role = users.RoleAdmin
	}
	now := s.now().UTC()
	u := users.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return users.User{}, err
	}
	return u, nil
}
