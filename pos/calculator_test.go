package pos

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTotalsScenario(t *testing.T) {
	lines := []CartLine{
		{ProductID: "1", SKU: "PRD001", UnitPrice: 2500, Quantity: 2},
		{ProductID: "2", SKU: "PRD002", UnitPrice: 1890, Quantity: 1},
	}
	calc := NewCalculator(DefaultTaxRate)

	first := calc.Totals(lines)
	second := calc.Totals(lines)

	assert.Equal(t, Totals{Subtotal: 6890, Tax: 1378, Total: 8268}, first)
	assert.Equal(t, first, second)
}

func TestSubtotalEmpty(t *testing.T) {
	assert.Equal(t, int64(0), Subtotal(nil))
	assert.Equal(t, Totals{}, NewCalculator(DefaultTaxRate).Totals(nil))
}

func TestTaxRoundsHalfUp(t *testing.T) {
	tests := map[string]struct {
		subtotal int64
		rate     string
		want     int64
	}{
		"exact":           {subtotal: 6890, rate: "0.20", want: 1378},
		"half rounds up":  {subtotal: 1245, rate: "0.10", want: 125},
		"below half down": {subtotal: 1244, rate: "0.10", want: 124},
		"zero rate":       {subtotal: 5000, rate: "0", want: 0},
		"18 percent":      {subtotal: 2350, rate: "0.18", want: 423},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Tax(tc.subtotal, decimal.RequireFromString(tc.rate)))
		})
	}
}
