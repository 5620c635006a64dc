package vnpay

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxnRefRoundTrip(t *testing.T) {
	issued := time.UnixMilli(1700000000000)
	ref := NewTxnRef(42, issued)

	assert.Equal(t, "42-1700000000000", ref.String())

	parsed, err := ParseTxnRef(ref.String())
	require.NoError(t, err)
	assert.Equal(t, uint(42), parsed.OrderID)
	assert.Equal(t, issued.UnixMilli(), parsed.IssuedAt.UnixMilli())
}

func TestParseTxnRefRejectsGarbage(t *testing.T) {
	cases := []struct {
		name string
		in   string
		err  error
	}{
		{"non-numeric order segment", "abc-123", ErrInvalidOrderID},
		{"empty", "", ErrMalformedTxnRef},
		{"no separator", "12345", ErrMalformedTxnRef},
		{"negative order id", "-5-99", ErrMalformedTxnRef},
		{"zero order id", "0-99", ErrInvalidOrderID},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseTxnRef(tc.in)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestParseTxnRefUnknownButWellFormed(t *testing.T) {
	parsed, err := ParseTxnRef("999999-1700000000000")
	require.NoError(t, err)
	assert.Equal(t, uint(999999), parsed.OrderID)
}
