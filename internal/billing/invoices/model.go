// Package invoices owns the invoice aggregate: line items, adjustments,
// status and the recompute-on-mutation contract for the total.
package invoices

import (
	"fmt"
	"time"

	"github.com/teranga-resto/teranga-resto/internal/billing/adjustments"
	"github.com/teranga-resto/teranga-resto/internal/billing/money"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// Status enumerates invoice payment states. There is no terminal state;
// PAID can revert to PENDING.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
)

// ErrEmptyInvoice rejects invoice creation without items, before any write.
var ErrEmptyInvoice = fmt.Errorf("%w: invoice requires at least one item", shared.ErrValidation)

// Item is one persisted invoice line. ProductID is nil for ad-hoc items.
// Total always equals UnitPrice * Quantity and is recomputed on every
// mutation; the stored value is never trusted on its own.
type Item struct {
	ID          string      `json:"id"`
	InvoiceID   string      `json:"invoice_id"`
	ProductID   *string     `json:"product_id,omitempty"`
	ProductName string      `json:"product_name"`
	UnitPrice   money.Money `json:"unit_price"`
	Quantity    int         `json:"quantity"`
	Total       money.Money `json:"total"`
	Position    int         `json:"position"`
}

// Creator identifies the user who created an invoice.
type Creator struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Invoice is the aggregate root. Number is assigned exactly once at
// creation and never changes; Total is always the reconciliation of the
// current items and adjustments, never independently editable.
type Invoice struct {
	ID          string                   `json:"id"`
	Number      string                   `json:"number"`
	TableNumber string                   `json:"table_number"`
	Notes       string                   `json:"notes"`
	Status      Status                   `json:"status"`
	Total       money.Money              `json:"total"`
	CreatedBy   *string                  `json:"created_by,omitempty"`
	Creator     *Creator                 `json:"creator,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
	Items       []Item                   `json:"items"`
	Adjustments []adjustments.Adjustment `json:"adjustments"`
}

// Toggle flips the payment status. Any invoice can be toggled any number
// of times; there are no guard conditions.
func (s Status) Toggle() Status {
	if s == StatusPaid {
		return StatusPending
	}
	return StatusPaid
}

// Breakdown returns the receipt breakdown for the invoice's current state.
func (inv *Invoice) Breakdown() adjustments.Breakdown {
	return adjustments.New(inv.Adjustments...).Breakdown(subtotal(inv.Items))
}

// subtotal recomputes the sum of line totals from unit price and quantity.
func subtotal(items []Item) money.Money {
	var sum money.Money
	for _, it := range items {
		sum = sum.Add(it.UnitPrice.Mul(it.Quantity))
	}
	return sum
}
