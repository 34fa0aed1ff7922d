package invoices

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/teranga-resto/teranga-resto/internal/billing/adjustments"
	"github.com/teranga-resto/teranga-resto/internal/billing/cart"
	"github.com/teranga-resto/teranga-resto/internal/billing/money"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

// Service handles invoice business logic. Every write path recomputes the
// total from the submitted items and adjustments; amounts sent by clients
// for derived fields are discarded.
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

// Create validates the request, reconciles the total and persists the
// invoice. The invoice number is allocated by the repository inside the
// insert transaction.
func (s *Service) Create(ctx context.Context, req CreateInvoiceRequest, createdBy string) (*Invoice, error) {
	items, adjs, total, err := buildAggregate(req.Items, req.Adjustments)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyInvoice
	}

	inv := &Invoice{
		ID:          uuid.NewString(),
		TableNumber: req.TableNumber,
		Notes:       req.Notes,
		Status:      StatusPending,
		Total:       total,
		Items:       items,
		Adjustments: adjs,
	}
	if createdBy != "" {
		inv.CreatedBy = &createdBy
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
	}

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "invoice created",
		slog.String("invoice_id", inv.ID),
		slog.String("number", inv.Number),
		slog.Int64("total", int64(inv.Total)))
	return inv, nil
}

// Get loads one invoice with its items and adjustments.
func (s *Service) Get(ctx context.Context, id string) (*Invoice, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: invoice id required", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// List returns invoices matching the filter plus the unfiltered match count.
func (s *Service) List(ctx context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	if req.Status != nil && *req.Status != StatusPending && *req.Status != StatusPaid {
		return nil, 0, fmt.Errorf("%w: unknown status %q", shared.ErrValidation, *req.Status)
	}
	return s.repo.List(ctx, req)
}

// Edit replaces the invoice's items, adjustments and metadata in full and
// stores the freshly reconciled total. The invoice number and creation date
// are untouched.
func (s *Service) Edit(ctx context.Context, id string, req EditInvoiceRequest) (*Invoice, error) {
	items, adjs, total, err := buildAggregate(req.Items, req.Adjustments)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyInvoice
	}

	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	current.TableNumber = req.TableNumber
	current.Notes = req.Notes
	current.Total = total
	current.Items = items
	current.Adjustments = adjs
	for i := range current.Items {
		current.Items[i].InvoiceID = current.ID
	}

	if err := s.repo.Replace(ctx, current); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "invoice edited",
		slog.String("invoice_id", current.ID),
		slog.Int64("total", int64(current.Total)))
	return current, nil
}

// ToggleStatus flips PENDING<->PAID and returns the updated invoice.
func (s *Service) ToggleStatus(ctx context.Context, id string) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Status = inv.Status.Toggle()
	if err := s.repo.UpdateStatus(ctx, id, inv.Status); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "invoice status toggled",
		slog.String("invoice_id", id),
		slog.String("status", string(inv.Status)))
	return inv, nil
}

// AddAdjustment appends one credit or deduction to an existing invoice and
// recomputes the stored total from the resulting state.
func (s *Service) AddAdjustment(ctx context.Context, invoiceID string, req AdjustmentRequest) (*Invoice, error) {
	adj := adjustments.Adjustment{
		ID:     uuid.NewString(),
		Label:  req.Label,
		Amount: money.Money(req.Amount),
		Kind:   adjustments.Kind(req.Kind),
	}
	if err := adjustments.Validate(adj.Label, adj.Amount, adj.Kind); err != nil {
		return nil, err
	}

	inv, err := s.repo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddAdjustment(ctx, invoiceID, adj); err != nil {
		return nil, err
	}
	inv.Adjustments = append(inv.Adjustments, adj)
	return s.storeTotal(ctx, inv)
}

// RemoveAdjustment drops one adjustment and recomputes the stored total.
// Removing an adjustment that is already gone still succeeds.
func (s *Service) RemoveAdjustment(ctx context.Context, invoiceID, adjustmentID string) (*Invoice, error) {
	inv, err := s.repo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveAdjustment(ctx, invoiceID, adjustmentID); err != nil {
		return nil, err
	}
	ledger := adjustments.New(inv.Adjustments...)
	ledger.Remove(adjustmentID)
	inv.Adjustments = ledger.Entries()
	return s.storeTotal(ctx, inv)
}

// Delete removes the invoice and its children.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "invoice deleted", slog.String("invoice_id", id))
	return nil
}

func (s *Service) storeTotal(ctx context.Context, inv *Invoice) (*Invoice, error) {
	inv.Total = inv.Breakdown().Total
	if err := s.repo.UpdateTotal(ctx, inv.ID, inv.Total); err != nil {
		return nil, err
	}
	return inv, nil
}

// buildAggregate turns request items and adjustments into persisted form and
// reconciles the total. Catalog lines with the same product id merge;
// ad-hoc lines never do.
func buildAggregate(items []ItemRequest, adjs []AdjustmentRequest) ([]Item, []adjustments.Adjustment, money.Money, error) {
	lines := cart.New()
	for _, it := range items {
		lines.AddOrIncrement(it.ProductID, it.ProductName, money.Money(it.UnitPrice), it.Quantity)
	}

	ledger := adjustments.New()
	for _, a := range adjs {
		adj := adjustments.Adjustment{
			ID:     uuid.NewString(),
			Label:  a.Label,
			Amount: money.Money(a.Amount),
			Kind:   adjustments.Kind(a.Kind),
		}
		if err := ledger.Add(adj); err != nil {
			return nil, nil, 0, err
		}
	}

	out := make([]Item, 0, lines.Len())
	for i, line := range lines.Lines() {
		out = append(out, Item{
			ID:          uuid.NewString(),
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			Total:       line.Total,
			Position:    i,
		})
	}
	return out, ledger.Entries(), ledger.Reconcile(lines.Subtotal()), nil
}
