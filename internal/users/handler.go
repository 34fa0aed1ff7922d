package users

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teranga-resto/teranga-resto/internal/platform/httpx"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// Handler exposes the account administration API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers account administration endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Put("/{id}/role", h.UpdateRole)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context(), shared.CurrentUserID(r.Context()))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if users == nil {
		users = []User{}
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	u, err := h.service.UpdateRole(r.Context(),
		shared.CurrentUserID(r.Context()), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		h.logger.Error("update role failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}
