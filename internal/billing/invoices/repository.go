package invoices

import (
	"context"

	"github.com/teranga-resto/teranga-resto/internal/billing/adjustments"
	"github.com/teranga-resto/teranga-resto/internal/billing/money"
)

// Repository defines persistence operations for the invoice aggregate.
//
// Create must allocate the invoice number atomically with the insert: two
// racing creations must never commit the same number. Every other method
// operates on already-numbered invoices.
type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error)
	// Replace swaps the invoice's items and adjustments wholesale and
	// updates metadata and total in one transaction.
	Replace(ctx context.Context, inv *Invoice) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	UpdateTotal(ctx context.Context, id string, total money.Money) error
	AddAdjustment(ctx context.Context, invoiceID string, adj adjustments.Adjustment) error
	RemoveAdjustment(ctx context.Context, invoiceID, adjustmentID string) error
	Delete(ctx context.Context, id string) error
}
