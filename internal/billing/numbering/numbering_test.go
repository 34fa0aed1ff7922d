package numbering

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryCounter struct {
	value int64
}

func (c *memoryCounter) Next(ctx context.Context) (int64, error) {
	c.value++
	return c.value, nil
}

func fixedClock(year int) func() time.Time {
	return func() time.Time {
		return time.Date(year, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
}

func TestFormat(t *testing.T) {
	require.Equal(t, "FAC-2024-0001", Format(2024, 1))
	require.Equal(t, "FAC-2024-0042", Format(2024, 42))
	require.Equal(t, "FAC-2025-12345", Format(2025, 12345))
}

func TestAllocateIsMonotonic(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memoryCounter{}, fixedClock(2024))

	for i := 1; i <= 12; i++ {
		number, err := svc.Allocate(ctx)
		require.NoError(t, err)
		require.Equal(t, Format(2024, int64(i)), number)
	}
}

func TestSequenceDoesNotResetAcrossYears(t *testing.T) {
	ctx := context.Background()
	counter := &memoryCounter{}

	svc := NewService(counter, fixedClock(2024))
	first, err := svc.Allocate(ctx)
	require.NoError(t, err)
	second, err := svc.Allocate(ctx)
	require.NoError(t, err)
	require.Equal(t, "FAC-2024-0001", first)
	require.Equal(t, "FAC-2024-0002", second)

	// Simulate 50 invoices existing before the year rolls over.
	counter.value = 50
	svc = NewService(counter, fixedClock(2025))
	next, err := svc.Allocate(ctx)
	require.NoError(t, err)
	require.Equal(t, "FAC-2025-0051", next)
}
