package invoices

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teranga-resto/teranga-resto/internal/billing/adjustments"
	"github.com/teranga-resto/teranga-resto/internal/billing/money"
	"github.com/teranga-resto/teranga-resto/internal/billing/numbering"
	"github.com/teranga-resto/teranga-resto/internal/shared"
)

type memoryRepository struct {
	mu       sync.Mutex
	invoices map[string]*Invoice
	counter  int64
	year     int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{invoices: map[string]*Invoice{}, year: 2025}
}

func (m *memoryRepository) Create(_ context.Context, inv *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	inv.Number = numbering.Format(m.year, m.counter)
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	m.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (m *memoryRepository) Get(_ context.Context, id string) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
	}
	return cloneInvoice(inv), nil
}

func (m *memoryRepository) List(_ context.Context, req ListInvoicesRequest) ([]Invoice, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Invoice
	for _, inv := range m.invoices {
		if req.Status != nil && inv.Status != *req.Status {
			continue
		}
		out = append(out, *cloneInvoice(inv))
	}
	return out, len(out), nil
}

func (m *memoryRepository) Replace(_ context.Context, inv *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.invoices[inv.ID]
	if !ok {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, inv.ID)
	}
	inv.Number = current.Number
	inv.CreatedAt = current.CreatedAt
	inv.UpdatedAt = time.Now()
	m.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (m *memoryRepository) UpdateStatus(_ context.Context, id string, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
	}
	inv.Status = status
	return nil
}

func (m *memoryRepository) UpdateTotal(_ context.Context, id string, total money.Money) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
	}
	inv.Total = total
	return nil
}

func (m *memoryRepository) AddAdjustment(_ context.Context, invoiceID string, adj adjustments.Adjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, invoiceID)
	}
	inv.Adjustments = append(inv.Adjustments, adj)
	return nil
}

func (m *memoryRepository) RemoveAdjustment(_ context.Context, invoiceID, adjustmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, invoiceID)
	}
	for i := range inv.Adjustments {
		if inv.Adjustments[i].ID == adjustmentID {
			inv.Adjustments = append(inv.Adjustments[:i], inv.Adjustments[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.invoices[id]; !ok {
		return fmt.Errorf("%w: invoice %s", shared.ErrNotFound, id)
	}
	delete(m.invoices, id)
	return nil
}

func cloneInvoice(inv *Invoice) *Invoice {
	out := *inv
	out.Items = append([]Item(nil), inv.Items...)
	out.Adjustments = append([]adjustments.Adjustment(nil), inv.Adjustments...)
	return &out
}

func newTestService() (*Service, *memoryRepository) {
	repo := newMemoryRepository()
	return NewService(repo, slog.Default()), repo
}

func strPtr(s string) *string { return &s }

func TestCreateInvoiceComputesTotal(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{
			{ProductID: strPtr("p1"), ProductName: "Thiof", UnitPrice: 1000, Quantity: 2},
			{ProductName: "Extra sauce", UnitPrice: 500, Quantity: 1},
		},
	}, "user-1")
	require.NoError(t, err)
	require.Equal(t, money.Money(2500), inv.Total)
	require.Equal(t, StatusPending, inv.Status)
	require.Equal(t, "FAC-2025-0001", inv.Number)
	require.Len(t, inv.Items, 2)
	require.Equal(t, "user-1", *inv.CreatedBy)
}

func TestCreateInvoiceRejectsEmpty(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Create(context.Background(), CreateInvoiceRequest{}, "user-1")
	require.ErrorIs(t, err, ErrEmptyInvoice)
	require.Empty(t, repo.invoices)
}

func TestCreateInvoiceMergesCatalogLines(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{
			{ProductID: strPtr("p1"), ProductName: "Yassa", UnitPrice: 2000, Quantity: 1},
			{ProductID: strPtr("p1"), ProductName: "Yassa", UnitPrice: 2000, Quantity: 2},
			{ProductName: "Plat du jour", UnitPrice: 1500, Quantity: 1},
			{ProductName: "Plat du jour", UnitPrice: 1500, Quantity: 1},
		},
	}, "")
	require.NoError(t, err)
	// Catalog lines merge, ad-hoc lines never do.
	require.Len(t, inv.Items, 3)
	require.Equal(t, 3, inv.Items[0].Quantity)
	require.Equal(t, money.Money(9000), inv.Total)
	require.Nil(t, inv.CreatedBy)
}

func TestCreateInvoiceClampsTotalAtZero(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{
			{ProductName: "Café", UnitPrice: 500, Quantity: 2},
		},
		Adjustments: []AdjustmentRequest{
			{Label: "Geste commercial", Amount: 5000, Kind: "deduction"},
		},
	}, "")
	require.NoError(t, err)
	require.Equal(t, money.Money(0), inv.Total)
}

func TestCreateInvoiceWithCreditsAndDeductions(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{
			{ProductName: "Menu midi", UnitPrice: 2500, Quantity: 1},
		},
		Adjustments: []AdjustmentRequest{
			{Label: "Ardoise semaine passée", Amount: 1000, Kind: "credit"},
			{Label: "Remise fidélité", Amount: 500, Kind: "deduction"},
		},
	}, "")
	require.NoError(t, err)
	require.Equal(t, money.Money(3000), inv.Total)
}

func TestSequentialNumbering(t *testing.T) {
	svc, _ := newTestService()

	for i := 1; i <= 3; i++ {
		inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
			Items: []ItemRequest{{ProductName: "Bissap", UnitPrice: 500, Quantity: 1}},
		}, "")
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("FAC-2025-%04d", i), inv.Number)
	}
}

func TestToggleStatusRoundTrip(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Ataya", UnitPrice: 300, Quantity: 1}},
	}, "")
	require.NoError(t, err)

	toggled, err := svc.ToggleStatus(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPaid, toggled.Status)

	back, err := svc.ToggleStatus(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, StatusPending, back.Status)
}

func TestEditReplacesItemsAndRecomputes(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Mafé", UnitPrice: 2000, Quantity: 2}},
	}, "")
	require.NoError(t, err)
	require.Equal(t, money.Money(4000), inv.Total)

	edited, err := svc.Edit(context.Background(), inv.ID, EditInvoiceRequest{
		Items: []ItemRequest{
			{ProductName: "Mafé", UnitPrice: 2000, Quantity: 1},
			{ProductName: "Jus de gingembre", UnitPrice: 700, Quantity: 2},
		},
		TableNumber: "T4",
	})
	require.NoError(t, err)
	require.Equal(t, money.Money(3400), edited.Total)
	require.Equal(t, "T4", edited.TableNumber)
	require.Equal(t, inv.Number, edited.Number)
	require.Len(t, edited.Items, 2)
}

func TestEditRejectsEmptyItems(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Dibi", UnitPrice: 3000, Quantity: 1}},
	}, "")
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), inv.ID, EditInvoiceRequest{})
	require.ErrorIs(t, err, ErrEmptyInvoice)
}

func TestAddAdjustmentRecomputesStoredTotal(t *testing.T) {
	svc, repo := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Thiéboudienne", UnitPrice: 2500, Quantity: 1}},
	}, "")
	require.NoError(t, err)

	updated, err := svc.AddAdjustment(context.Background(), inv.ID, AdjustmentRequest{
		Label: "Boisson offerte la veille", Amount: 800, Kind: "credit",
	})
	require.NoError(t, err)
	require.Equal(t, money.Money(3300), updated.Total)

	stored, err := repo.Get(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, money.Money(3300), stored.Total)
}

func TestAddAdjustmentValidates(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Fataya", UnitPrice: 200, Quantity: 5}},
	}, "")
	require.NoError(t, err)

	_, err = svc.AddAdjustment(context.Background(), inv.ID, AdjustmentRequest{
		Label: "   ", Amount: 100, Kind: "credit",
	})
	require.ErrorIs(t, err, adjustments.ErrInvalidAdjustment)

	_, err = svc.AddAdjustment(context.Background(), inv.ID, AdjustmentRequest{
		Label: "Remise", Amount: 100, Kind: "rebate",
	})
	require.ErrorIs(t, err, adjustments.ErrInvalidAdjustment)
}

func TestRemoveAdjustmentRecomputes(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Pastels", UnitPrice: 1000, Quantity: 1}},
		Adjustments: []AdjustmentRequest{
			{Label: "Remise", Amount: 400, Kind: "deduction"},
		},
	}, "")
	require.NoError(t, err)
	require.Equal(t, money.Money(600), inv.Total)

	updated, err := svc.RemoveAdjustment(context.Background(), inv.ID, inv.Adjustments[0].ID)
	require.NoError(t, err)
	require.Equal(t, money.Money(1000), updated.Total)
	require.Empty(t, updated.Adjustments)

	// Removing again is a no-op, not an error.
	again, err := svc.RemoveAdjustment(context.Background(), inv.ID, inv.Adjustments[0].ID)
	require.NoError(t, err)
	require.Equal(t, money.Money(1000), again.Total)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newTestService()

	a, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Soupe kandia", UnitPrice: 1800, Quantity: 1}},
	}, "")
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Domoda", UnitPrice: 2000, Quantity: 1}},
	}, "")
	require.NoError(t, err)

	_, err = svc.ToggleStatus(context.Background(), a.ID)
	require.NoError(t, err)

	paid := StatusPaid
	invoices, total, err := svc.List(context.Background(), ListInvoicesRequest{Status: &paid})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, invoices, 1)
	require.Equal(t, a.ID, invoices[0].ID)

	_, _, err = svc.List(context.Background(), ListInvoicesRequest{Status: statusPtr("SHIPPED")})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestDeleteInvoice(t *testing.T) {
	svc, _ := newTestService()

	inv, err := svc.Create(context.Background(), CreateInvoiceRequest{
		Items: []ItemRequest{{ProductName: "Ngalakh", UnitPrice: 1200, Quantity: 1}},
	}, "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), inv.ID))
	_, err = svc.Get(context.Background(), inv.ID)
	require.ErrorIs(t, err, shared.ErrNotFound)

	require.ErrorIs(t, svc.Delete(context.Background(), inv.ID), shared.ErrNotFound)
}

func statusPtr(s Status) *Status { return &s }
