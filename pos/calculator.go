package pos

import "github.com/shopspring/decimal"

// DefaultTaxRate is the flat rate applied to every subtotal
var DefaultTaxRate = decimal.RequireFromString("0.20")

// Totals are the derived amounts of a set of lines
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// Subtotal sums unitPrice × quantity over lines
func Subtotal(lines []CartLine) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.LineTotal()
	}
	return sum
}

// Tax returns subtotal × rate rounded half-up to the unit
func Tax(subtotal int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(subtotal).Mul(rate).Round(0).IntPart()
}

// Total returns subtotal + tax
func Total(subtotal, tax int64) int64 {
	return subtotal + tax
}

// Calculator derives totals at a fixed tax rate
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator returns a calculator for rate
func NewCalculator(rate decimal.Decimal) Calculator {
	return Calculator{rate: rate}
}

// Rate returns the configured tax rate
func (c Calculator) Rate() decimal.Decimal {
	return c.rate
}

// Totals computes subtotal, tax and total for lines
func (c Calculator) Totals(lines []CartLine) Totals {
	subtotal := Subtotal(lines)
	tax := Tax(subtotal, c.rate)
	return Totals{Subtotal: subtotal, Tax: tax, Total: Total(subtotal, tax)}
}
