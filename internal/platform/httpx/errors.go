package httpx

import (
	"errors"
	"net/http"

	"github.com/teranga-resto/teranga-resto/internal/billing/adjustments"
	"github.com/teranga-resto/teranga-resto/internal/billing/money"
	"github.com/teranga-resto/teranga-resto/internal/billing/numbering"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, adjustments.ErrInvalidAdjustment),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrNotPositive):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, numbering.ErrCollision):
		// Retryable: the client may resubmit the creation.
		Problem(w, http.StatusConflict, "Numbering Conflict", err.Error())
	case errors.Is(err, shared.ErrInvalidCredentials):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
