package users

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// Service handles account administration. Both operations are admin-only;
// the caller's role is checked here, not only at the router.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// RoleOf returns the role of the given user.
func (s *Service) RoleOf(ctx context.Context, userID string) (string, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// List returns every account. Only admins may call it.
func (s *Service) List(ctx context.Context, callerID string) ([]User, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

// UpdateRole changes another user's role. Admins cannot change their own
// role, so the system always keeps at least the acting admin.
func (s *Service) UpdateRole(ctx context.Context, callerID, targetID, role string) (User, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return User{}, err
	}
	if targetID == callerID {
		return User{}, fmt.Errorf("%w: cannot change your own role", shared.ErrValidation)
	}
	if !ValidRole(role) {
		return User{}, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, role)
	}

	u, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		return User{}, err
	}
	s.logger.InfoContext(ctx, "role updated",
		slog.String("user_id", targetID),
		slog.String("role", role),
		slog.String("by", callerID))
	return u, nil
}

func (s *Service) requireAdmin(ctx context.Context, callerID string) error {
	if callerID == "" {
		return fmt.Errorf("%w: authentication required", shared.ErrForbidden)
	}
	caller, err := s.repo.Get(ctx, callerID)
	if err != nil {
		return err
	}
	if caller.Role != RoleAdmin {
		return fmt.Errorf("%w: admin role required", shared.ErrForbidden)
	}
	return nil
}
