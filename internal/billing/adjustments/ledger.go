// Package adjustments validates credit/deduction entries and folds them
// into a subtotal to produce the invoice total.
package adjustments

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teranga-resto/teranga-resto/internal/billing/money"
)

// Kind tags an adjustment as increasing or decreasing the total.
type Kind string

const (
	// Credit is an amount the customer owes on top of the subtotal.
	Credit Kind = "credit"
	// Deduction is an amount subtracted from the subtotal.
	Deduction Kind = "deduction"
)

// ErrInvalidAdjustment rejects entries with an empty label or a
// non-positive amount.
var ErrInvalidAdjustment = errors.New("invalid adjustment")

// Adjustment is a named credit or deduction attached to an invoice.
type Adjustment struct {
	ID     string
	Label  string
	Amount money.Money
	Kind   Kind
}

// Validate checks an adjustment before it is accepted. Labels must contain
// non-whitespace characters and amounts must be strictly positive.
func Validate(label string, amount money.Money, kind Kind) error {
	if strings.TrimSpace(label) == "" {
		return fmt.Errorf("%w: empty label", ErrInvalidAdjustment)
	}
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidAdjustment)
	}
	if kind != Credit && kind != Deduction {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAdjustment, kind)
	}
	return nil
}

// ParseAmount parses a user-entered adjustment amount. Comma and period are
// both accepted as decimal separator; non-positive results are rejected.
func ParseAmount(input string) (money.Money, error) {
	m, err := money.ParsePositive(input)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidAdjustment, err)
	}
	return m, nil
}

// Ledger aggregates the adjustments of one invoice in insertion order.
type Ledger struct {
	entries []Adjustment
}

// New returns a ledger preloaded with existing entries.
func New(entries ...Adjustment) *Ledger {
	l := &Ledger{}
	l.entries = append(l.entries, entries...)
	return l
}

// Add validates and appends an entry. Duplicate labels are allowed and stay
// separate lines.
func (l *Ledger) Add(a Adjustment) error {
	if err := Validate(a.Label, a.Amount, a.Kind); err != nil {
		return err
	}
	l.entries = append(l.entries, a)
	return nil
}

// Remove drops the entry with the given id. Removing an absent id is a no-op.
func (l *Ledger) Remove(id string) {
	for i := range l.entries {
		if l.entries[i].ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// Entries returns the adjustments in insertion order.
func (l *Ledger) Entries() []Adjustment {
	out := make([]Adjustment, len(l.entries))
	copy(out, l.entries)
	return out
}

// CreditTotal sums the credit entries.
func (l *Ledger) CreditTotal() money.Money {
	var sum money.Money
	for _, a := range l.entries {
		if a.Kind == Credit {
			sum = sum.Add(a.Amount)
		}
	}
	return sum
}

// DeductionTotal sums the deduction entries.
func (l *Ledger) DeductionTotal() money.Money {
	var sum money.Money
	for _, a := range l.entries {
		if a.Kind != Credit {
			sum = sum.Add(a.Amount)
		}
	}
	return sum
}

// Reconcile computes max(0, subtotal + credits - deductions). A deduction
// total exceeding subtotal+credits floors the result at zero instead of
// failing: writing off more than is owed is an accepted outcome, not an
// error.
func (l *Ledger) Reconcile(subtotal money.Money) money.Money {
	v := subtotal.Add(l.CreditTotal()).Sub(l.DeductionTotal())
	return money.Clamp(v)
}

// BreakdownLine is one row of the receipt breakdown.
type BreakdownLine struct {
	Label  string
	Amount string
	Kind   Kind
}

// Breakdown describes how a total was reached: subtotal, credits in
// insertion order, deductions in insertion order, final total.
type Breakdown struct {
	Subtotal money.Money
	Lines    []BreakdownLine
	Total    money.Money
}

// Breakdown builds the receipt breakdown for a given subtotal.
func (l *Ledger) Breakdown(subtotal money.Money) Breakdown {
	b := Breakdown{Subtotal: subtotal, Total: l.Reconcile(subtotal)}
	for _, a := range l.entries {
		if a.Kind == Credit {
			b.Lines = append(b.Lines, BreakdownLine{Label: a.Label, Amount: "+ " + a.Amount.Format(), Kind: Credit})
		}
	}
	for _, a := range l.entries {
		if a.Kind != Credit {
			b.Lines = append(b.Lines, BreakdownLine{Label: a.Label, Amount: "- " + a.Amount.Format(), Kind: Deduction})
		}
	}
	return b
}
