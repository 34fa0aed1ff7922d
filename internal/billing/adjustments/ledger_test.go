package adjustments

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teranga-resto/teranga-resto/internal/billing/money"
)

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Validate("", 500, Credit), ErrInvalidAdjustment)
	require.ErrorIs(t, Validate("   ", 500, Deduction), ErrInvalidAdjustment)
	require.ErrorIs(t, Validate("Avoir", 0, Credit), ErrInvalidAdjustment)
	require.ErrorIs(t, Validate("Avoir", -5, Credit), ErrInvalidAdjustment)
	require.ErrorIs(t, Validate("Avoir", 500, Kind("refund")), ErrInvalidAdjustment)
	require.NoError(t, Validate("Avoir", 500, Credit))
}

func TestParseAmount(t *testing.T) {
	got, err := ParseAmount("1500,5")
	require.NoError(t, err)
	require.Equal(t, money.Money(1501), got)

	_, err = ParseAmount("-5")
	require.ErrorIs(t, err, ErrInvalidAdjustment)
	_, err = ParseAmount("")
	require.ErrorIs(t, err, ErrInvalidAdjustment)
}

func TestReconcileNoAdjustments(t *testing.T) {
	l := New()
	require.Equal(t, money.Money(2500), l.Reconcile(2500))
}

func TestReconcileClampsAtZero(t *testing.T) {
	l := New()
	require.NoError(t, l.Add(Adjustment{ID: "d1", Label: "Geste commercial", Amount: 3000, Kind: Deduction}))

	// Deducting more than is owed is accepted and floors the total.
	require.Equal(t, money.Money(0), l.Reconcile(2500))
}

func TestReconcileCreditsAndDeductions(t *testing.T) {
	l := New()
	require.NoError(t, l.Add(Adjustment{ID: "c1", Label: "Sandwich non payé", Amount: 1000, Kind: Credit}))
	require.NoError(t, l.Add(Adjustment{ID: "d1", Label: "Avoir", Amount: 500, Kind: Deduction}))

	require.Equal(t, money.Money(3000), l.Reconcile(2500))
	require.Equal(t, money.Money(1000), l.CreditTotal())
	require.Equal(t, money.Money(500), l.DeductionTotal())
}

func TestAddRejectsInvalidEntries(t *testing.T) {
	l := New()
	require.ErrorIs(t, l.Add(Adjustment{ID: "x", Label: "", Amount: 500, Kind: Credit}), ErrInvalidAdjustment)
	require.ErrorIs(t, l.Add(Adjustment{ID: "x", Label: "Avoir", Amount: -5, Kind: Credit}), ErrInvalidAdjustment)
	require.Empty(t, l.Entries())

	require.NoError(t, l.Add(Adjustment{ID: "x", Label: "Avoir", Amount: 500, Kind: Credit}))
	require.Equal(t, money.Money(500), l.CreditTotal())
}

func TestDuplicateLabelsStaySeparate(t *testing.T) {
	l := New()
	require.NoError(t, l.Add(Adjustment{ID: "a", Label: "Avoir", Amount: 200, Kind: Deduction}))
	require.NoError(t, l.Add(Adjustment{ID: "b", Label: "Avoir", Amount: 300, Kind: Deduction}))

	require.Len(t, l.Entries(), 2)
	require.Equal(t, money.Money(500), l.DeductionTotal())
}

func TestRemoveIsIdempotent(t *testing.T) {
	l := New(
		Adjustment{ID: "a", Label: "Avoir", Amount: 200, Kind: Deduction},
		Adjustment{ID: "b", Label: "Extra", Amount: 300, Kind: Credit},
	)

	l.Remove("a")
	once := l.Entries()
	l.Remove("a")
	twice := l.Entries()

	require.Equal(t, once, twice)
	require.Len(t, twice, 1)
	require.Equal(t, "b", twice[0].ID)
}

func TestBreakdownOrdering(t *testing.T) {
	l := New()
	require.NoError(t, l.Add(Adjustment{ID: "d1", Label: "Remise", Amount: 500, Kind: Deduction}))
	require.NoError(t, l.Add(Adjustment{ID: "c1", Label: "Sandwich", Amount: 1000, Kind: Credit}))
	require.NoError(t, l.Add(Adjustment{ID: "c2", Label: "Café", Amount: 300, Kind: Credit}))

	b := l.Breakdown(2500)
	require.Equal(t, money.Money(2500), b.Subtotal)
	require.Equal(t, money.Money(3300), b.Total)

	// Credits grouped first in insertion order, then deductions.
	require.Len(t, b.Lines, 3)
	require.Equal(t, "Sandwich", b.Lines[0].Label)
	require.Equal(t, "Café", b.Lines[1].Label)
	require.Equal(t, "Remise", b.Lines[2].Label)
	require.Equal(t, Deduction, b.Lines[2].Kind)
}
