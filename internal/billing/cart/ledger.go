// Package cart maintains the line items of a cart or invoice and computes
// the subtotal they represent.
package cart

import (
	"github.com/google/uuid"

	"github.com/teranga-resto/teranga-resto/internal/billing/money"
)

// Line is one priced line of a cart or invoice. ProductID is nil for ad-hoc
// lines that reference no catalog entry. Total always equals UnitPrice *
// Quantity; it is recomputed on every mutation, never trusted from storage.
type Line struct {
	Key         string
	ProductID   *string
	ProductName string
	UnitPrice   money.Money
	Quantity    int
	Total       money.Money
}

// Ledger holds an ordered sequence of lines.
type Ledger struct {
	lines []Line
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// AddOrIncrement adds deltaQty of a product to the ledger. Lines that
// reference the same catalog product merge by incrementing quantity. Ad-hoc
// lines (nil productID) always append a new independent line, even when the
// name matches an existing one.
func (l *Ledger) AddOrIncrement(productID *string, name string, unitPrice money.Money, deltaQty int) Line {
	if deltaQty <= 0 {
		deltaQty = 1
	}
	if productID != nil {
		for i := range l.lines {
			if l.lines[i].ProductID != nil && *l.lines[i].ProductID == *productID {
				l.lines[i].Quantity += deltaQty
				l.lines[i].Total = l.lines[i].UnitPrice.Mul(l.lines[i].Quantity)
				return l.lines[i]
			}
		}
	}

	line := Line{
		Key:         lineKey(productID),
		ProductID:   productID,
		ProductName: name,
		UnitPrice:   unitPrice,
		Quantity:    deltaQty,
		Total:       unitPrice.Mul(deltaQty),
	}
	l.lines = append(l.lines, line)
	return line
}

// SetQuantity sets the quantity of the referenced line, recomputing its
// total. A quantity of zero or below removes the line entirely.
func (l *Ledger) SetQuantity(key string, qty int) {
	if qty <= 0 {
		l.Remove(key)
		return
	}
	for i := range l.lines {
		if l.lines[i].Key == key {
			l.lines[i].Quantity = qty
			l.lines[i].Total = l.lines[i].UnitPrice.Mul(qty)
			return
		}
	}
}

// Remove drops the referenced line. No-op when the key is absent.
func (l *Ledger) Remove(key string) {
	for i := range l.lines {
		if l.lines[i].Key == key {
			l.lines = append(l.lines[:i], l.lines[i+1:]...)
			return
		}
	}
}

// Lines returns the current lines in insertion order.
func (l *Ledger) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len reports the number of lines.
func (l *Ledger) Len() int {
	return len(l.lines)
}

// Subtotal sums the line totals. It is recomputed on every call so cached
// drift is impossible. Returns 0 for an empty ledger.
func (l *Ledger) Subtotal() money.Money {
	var sum money.Money
	for _, line := range l.lines {
		sum = sum.Add(line.Total)
	}
	return sum
}

func lineKey(productID *string) string {
	if productID != nil {
		return *productID
	}
	return uuid.NewString()
}
