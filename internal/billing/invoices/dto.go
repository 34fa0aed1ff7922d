package invoices

// ItemRequest is one submitted cart line. The line total is never part of
// the request; it is recomputed server-side from unit price and quantity.
type ItemRequest struct {
	ProductID   *string `json:"product_id,omitempty"`
	ProductName string  `json:"product_name" validate:"required"`
	UnitPrice   int64   `json:"unit_price" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
}

// AdjustmentRequest is one submitted credit or deduction.
type AdjustmentRequest struct {
	Label  string `json:"label" validate:"required"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
	Kind   string `json:"kind" validate:"required,oneof=credit deduction"`
}

// CreateInvoiceRequest creates an invoice from cart contents. The client
// never supplies a total; it is always recomputed.
type CreateInvoiceRequest struct {
	Items       []ItemRequest       `json:"items" validate:"dive"`
	Adjustments []AdjustmentRequest `json:"adjustments,omitempty" validate:"omitempty,dive"`
	TableNumber string              `json:"table_number,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

// EditInvoiceRequest replaces an invoice's items, adjustments and metadata
// in full. Number, creation date and status are not editable here.
type EditInvoiceRequest struct {
	Items       []ItemRequest       `json:"items" validate:"dive"`
	Adjustments []AdjustmentRequest `json:"adjustments,omitempty" validate:"omitempty,dive"`
	TableNumber string              `json:"table_number,omitempty"`
	Notes       string              `json:"notes,omitempty"`
}

// ListInvoicesRequest filters the invoice listing.
type ListInvoicesRequest struct {
	Status *Status `json:"status,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}
