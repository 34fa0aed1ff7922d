// Package money models whole-FCFA amounts as fixed-point integers.
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Money is a non-negative amount in whole FCFA. Intermediate results of a
// computation may go negative and are carried as Cents values; the clamp to
// zero happens only when a final total is materialized.
type Money int64

// Cents is a signed intermediate amount. The name keeps the distinction with
// Money explicit even though FCFA has no fractional sub-unit.
type Cents int64

var (
	// ErrInvalidAmount is returned when user input cannot be parsed into an amount.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrNotPositive is returned when a strictly positive amount is required.
	ErrNotPositive = errors.New("amount must be positive")
)

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return m + other
}

// Sub returns the signed difference m - other. The result may be negative
// and must be clamped with Clamp before being stored or displayed as a total.
func (m Money) Sub(other Money) Cents {
	return Cents(m) - Cents(other)
}

// Mul scales the amount by a positive quantity.
func (m Money) Mul(qty int) Money {
	if qty <= 0 {
		return 0
	}
	return m * Money(qty)
}

// Signed converts the amount into an intermediate value.
func (m Money) Signed() Cents {
	return Cents(m)
}

// Clamp materializes an intermediate value into a final amount, flooring at zero.
func Clamp(v Cents) Money {
	if v < 0 {
		return 0
	}
	return Money(v)
}

var printer = message.NewPrinter(language.French)

// Format renders the amount for receipts, e.g. "1 500 FCFA".
func (m Money) Format() string {
	return printer.Sprintf("%d FCFA", int64(m))
}

// String implements fmt.Stringer.
func (m Money) String() string {
	return strconv.FormatInt(int64(m), 10)
}

// ParseAmount parses user input into an amount. Both comma and period are
// accepted as decimal separator; the value is rounded to the nearest whole
// unit. Empty, non-numeric and negative input is rejected.
func ParseAmount(input string) (Money, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, input)
	}
	return Money(math.Round(v)), nil
}

// ParsePositive parses user input and additionally rejects amounts that
// round to zero or below.
func ParsePositive(input string) (Money, error) {
	m, err := ParseAmount(input)
	if err != nil {
		return 0, err
	}
	if m <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotPositive, input)
	}
	return m, nil
}
