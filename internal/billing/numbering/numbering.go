// Package numbering mints sequential invoice numbers.
//
// Numbers look like FAC-2024-0001. The year is the calendar year at
// allocation time; the sequence is a single counter over every invoice ever
// created, so it does not reset when the year changes (FAC-2025-0050 is
// followed by FAC-2026-0051). Allocation goes through an atomic counter
// rather than a count-then-insert read, and the invoices table enforces
// uniqueness of the number, so a duplicate can only surface as a visible
// conflict, never a silent collision.
package numbering

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrCollision reports that a concurrently allocated number already exists.
// Under the atomic counter this should not happen; it maps to a retryable
// conflict at the HTTP boundary.
var ErrCollision = errors.New("invoice number collision")

// Counter hands out strictly increasing sequence values.
type Counter interface {
	Next(ctx context.Context) (int64, error)
}

// Format renders a sequence value as an invoice number for the given year.
// Sequences are zero-padded to four digits; wider values keep all digits.
func Format(year int, seq int64) string {
	return fmt.Sprintf("FAC-%d-%04d", year, seq)
}

// Service allocates invoice numbers from a counter.
type Service struct {
	counter Counter
	now     func() time.Time
}

// NewService builds a Service. A nil clock defaults to time.Now.
func NewService(counter Counter, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{counter: counter, now: now}
}

// Allocate mints the next invoice number.
func (s *Service) Allocate(ctx context.Context) (string, error) {
	seq, err := s.counter.Next(ctx)
	if err != nil {
		return "", fmt.Errorf("numbering: next sequence: %w", err)
	}
	return Format(s.now().Year(), seq), nil
}
