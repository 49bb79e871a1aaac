package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculator_Shipping(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name     string
		subtotal float64
		region   string
		want     float64
	}{
		{"below threshold non-remote", 200, "Delhi", 50},
		{"at threshold non-remote", 250, "Delhi", 0},
		{"above threshold non-remote", 1000, "Maharashtra", 0},
		{"below threshold remote", 100, "Ladakh", 70},
		{"above threshold remote still pays surcharge", 500, "Lakshadweep", 20},
		{"just under threshold", 249.99, "Delhi", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Shipping(tt.subtotal, tt.region))
		})
	}
}

func TestCalculator_Tax(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	tests := []struct {
		name     string
		subtotal float64
		want     float64
	}{
		{"exact", 200, 36},
		{"rounds to currency unit", 55, 9.9},
		{"rounds fractional paise", 123.45, 22.22}, // 22.221 -> 22.22
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calc.Tax(tt.subtotal), 0.0001)
		})
	}
}

func TestCalculator_Quote(t *testing.T) {
	calc := NewCalculator(DefaultConfig())

	t.Run("delhi order below free shipping", func(t *testing.T) {
		q := calc.Quote(200, "Delhi")
		assert.Equal(t, 200.0, q.Subtotal)
		assert.Equal(t, 50.0, q.Shipping)
		assert.Equal(t, 36.0, q.Tax)
		assert.Equal(t, 286.0, q.Total)
	})

	t.Run("free shipping order", func(t *testing.T) {
		q := calc.Quote(300, "Delhi")
		assert.Equal(t, 0.0, q.Shipping)
		assert.Equal(t, 54.0, q.Tax)
		assert.Equal(t, 354.0, q.Total)
	})

	t.Run("quote is reproducible", func(t *testing.T) {
		a := calc.Quote(123.45, "Ladakh")
		b := calc.Quote(123.45, "Ladakh")
		assert.Equal(t, a, b)
	})
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 1.13, RoundHalfUp(1.125))
	assert.Equal(t, 1.12, RoundHalfUp(1.124))
	assert.Equal(t, 36.0, RoundHalfUp(36.0))
}

func TestWithinTolerance(t *testing.T) {
	assert.True(t, WithinTolerance(286.0, 286.0))
	assert.True(t, WithinTolerance(286.0, 286.01))
	assert.True(t, WithinTolerance(286.01, 286.0))
	assert.False(t, WithinTolerance(286.0, 286.02))
	assert.False(t, WithinTolerance(286.0, 280.0))
}
