package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		input   string
		want    Money
		wantErr bool
	}{
		{"1500", 1500, false},
		{" 1500 ", 1500, false},
		{"1500.4", 1500, false},
		{"1500.5", 1501, false},
		{"1500,5", 1501, false},
		{"0", 0, false},
		{"", 0, true},
		{"abc", 0, true},
		{"-5", 0, true},
		{"12,3,4", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.input)
		if tc.wantErr {
			require.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.input)
			continue
		}
		require.NoError(t, err, "input %q", tc.input)
		require.Equal(t, tc.want, got, "input %q", tc.input)
	}
}

func TestParsePositive(t *testing.T) {
	_, err := ParsePositive("0")
	require.ErrorIs(t, err, ErrNotPositive)

	_, err = ParsePositive("0,4")
	require.ErrorIs(t, err, ErrNotPositive)

	_, err = ParsePositive("-5")
	require.ErrorIs(t, err, ErrInvalidAmount)

	got, err := ParsePositive("500")
	require.NoError(t, err)
	require.Equal(t, Money(500), got)
}

func TestArithmetic(t *testing.T) {
	require.Equal(t, Money(2500), Money(1000).Mul(2).Add(Money(500).Mul(1)))
	require.Equal(t, Money(0), Money(1000).Mul(0))
	require.Equal(t, Money(0), Money(1000).Mul(-3))

	// Sub may go negative as an intermediate; Clamp floors the final value.
	diff := Money(2500).Sub(3000)
	require.Equal(t, Cents(-500), diff)
	require.Equal(t, Money(0), Clamp(diff))
	require.Equal(t, Money(200), Clamp(200))
}

func TestFormat(t *testing.T) {
	require.Contains(t, Money(0).Format(), "0")
	require.Contains(t, Money(500).Format(), "FCFA")
}
