package invoices

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/teranga-resto/teranga-resto/internal/platform/httpx"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// Handler exposes the invoice API.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

// MountRoutes registers invoice endpoints on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Edit)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/toggle", h.ToggleStatus)
	r.Post("/{id}/adjustments", h.AddAdjustment)
	r.Delete("/{id}/adjustments/{adjustmentID}", h.RemoveAdjustment)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	inv, err := h.service.Create(r.Context(), req, shared.CurrentUserID(r.Context()))
	if err != nil {
		h.logger.Error("create invoice failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, inv)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListInvoicesRequest{}
	if status := r.URL.Query().Get("status"); status != "" {
		s := Status(status)
		req.Status = &s
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && limit > 0 {
		req.Limit = limit
	}
	if offset, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && offset > 0 {
		req.Offset = offset
	}

	invoices, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.logger.Error("list invoices failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	if invoices == nil {
		invoices = []Invoice{}
	}
	page := 1
	if req.Limit > 0 {
		page = req.Offset/req.Limit + 1
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"invoices":   invoices,
		"total":      total,
		"pagination": shared.NewPagination(page, req.Limit, total),
	})
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	inv, err := h.service.Edit(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.logger.Error("edit invoice failed", "error", err)
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.ToggleStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	var req AdjustmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	inv, err := h.service.AddAdjustment(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) RemoveAdjustment(w http.ResponseWriter, r *http.Request) {
	inv, err := h.service.RemoveAdjustment(r.Context(),
		chi.URLParam(r, "id"), chi.URLParam(r, "adjustmentID"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, inv)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
