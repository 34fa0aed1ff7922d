// Package rbac wires role checks into the HTTP layer.
package rbac

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/teranga-resto/teranga-resto/internal/platform/httpx"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// RoleResolver answers the role of a user. Implemented by the users service.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (string, error)
}

// Middleware wires authorization helpers for HTTP handlers.
type Middleware struct {
	Roles  RoleResolver
	Logger *slog.Logger
}

// RequireAuthenticated rejects requests without a logged-in session.
func (m Middleware) RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.CurrentUserID(r.Context()) == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose session user is not an admin.
func (m Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := shared.CurrentUserID(r.Context())
		if userID == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
			return
		}
		role, err := m.Roles.RoleOf(r.Context(), userID)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Error("rbac role lookup", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "admin role required")
			return
		}
		if role != "admin" {
			httpx.Problem(w, http.StatusForbidden, "Forbidden", "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
