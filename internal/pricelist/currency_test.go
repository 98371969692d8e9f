package pricelist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicstats/internal/model"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		cell      string
		qualifier model.PriceQualifier
		amount    float64
	}{
		{"£500", model.Exact, 500},
		{"500", model.Exact, 500},
		{"  £1,250.50 ", model.Exact, 1250.5},
		{"$99.99", model.Exact, 99.99},
		{"€75", model.Exact, 75},
		{"From £450", model.From, 450},
		{"from £1,200", model.From, 1200},
		{"FROM 80.5", model.From, 80.5},
		{"From", model.Unavailable, 0},
		{"From TBC", model.Unavailable, 0},
		{"", model.Unavailable, 0},
		{"   ", model.Unavailable, 0},
		{"POA", model.Unavailable, 0},
		{"N/A", model.Unavailable, 0},
		{"Included", model.Unavailable, 0},
		{"1.2.3", model.Unavailable, 0},
		{"-50", model.Unavailable, 0},
		{"£", model.Unavailable, 0},
		{".", model.Unavailable, 0},
	}

	for _, tt := range tests {
		t.Run(tt.cell, func(t *testing.T) {
			got := ParsePrice(tt.cell)
			assert.Equal(t, tt.qualifier, got.Qualifier)
			amount, ok := got.Value()
			if tt.qualifier == model.Unavailable {
				assert.False(t, ok)
				assert.Equal(t, model.UnavailablePrice(), got)
				return
			}
			require.True(t, ok)
			assert.InDelta(t, tt.amount, amount, 1e-9)
		})
	}
}

// Re-parsing a rendered price yields the same amount and qualifier.
func TestParsePriceRoundTrip(t *testing.T) {
	cells := []string{"£500", "From £450", "1,999.99", "0.5", "£0", "From 12.25", "$1,000,000"}
	for _, cell := range cells {
		first := ParsePrice(cell)
		second := ParsePrice(first.String())

		assert.Equal(t, first.Qualifier, second.Qualifier, cell)
		a, _ := first.Value()
		b, _ := second.Value()
		assert.Equal(t, a, b, cell)
	}
}
