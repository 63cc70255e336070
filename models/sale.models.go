package models

import (
	"fmt"
	"strings"
	"time"
)

// PaymentMethod is how a sale was settled
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

// ParsePaymentMethod accepts "cash" or "card" in any case
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", invalid("paymentMethod", fmt.Sprintf("unsupported method %q", s))
	}
	return m, nil
}

// Valid reports whether m is a supported method
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// SaleStatus distinguishes completed sales from refund records
type SaleStatus string

const (
	SaleCompleted SaleStatus = "completed"
	SaleRefund    SaleStatus = "refund"
)

// SaleLine is one product line of a sale
type SaleLine struct {
	ProductID string `bson:"product_id" json:"productId"`
	SKU       string `bson:"sku" json:"sku"`
	Name      string `bson:"name" json:"name"`
	Quantity  int    `bson:"quantity" json:"quantity"`
	UnitPrice int64  `bson:"unit_price" json:"unitPrice"`
	LineTotal int64  `bson:"line_total" json:"lineTotal"`
}

// Sale is an immutable record of a completed checkout or of its refund
type Sale struct {
	ID            string        `bson:"_id,omitempty" json:"id"`
	TransactionID string        `bson:"transaction_id" json:"transactionId"`
	Timestamp     time.Time     `bson:"timestamp" json:"timestamp"`
	Lines         []SaleLine    `bson:"lines" json:"lines"`
	Subtotal      int64         `bson:"subtotal" json:"subtotal"`
	Tax           int64         `bson:"tax" json:"tax"`
	Total         int64         `bson:"total" json:"total"`
	PaymentMethod PaymentMethod `bson:"payment_method" json:"paymentMethod"`
	Cashier       string        `bson:"cashier" json:"cashier"`
	CustomerID    string        `bson:"customer_id,omitempty" json:"customerId,omitempty"`
	Status        SaleStatus    `bson:"status" json:"status"`
	RefundOf      string        `bson:"refund_of,omitempty" json:"refundOf,omitempty"`
	Reason        string        `bson:"reason,omitempty" json:"reason,omitempty"`
}

// SaleFilter narrows a sales listing. Zero times and limit mean unbounded.
type SaleFilter struct {
	Start time.Time
	End   time.Time
	Limit int
}

// Matches reports whether s falls within the filter's time range
func (f SaleFilter) Matches(s Sale) bool {
	if !f.Start.IsZero() && s.Timestamp.Before(f.Start) {
		return false
	}
	if !f.End.IsZero() && s.Timestamp.After(f.End) {
		return false
	}
	return true
}

// Validate checks that a sale draft is internally consistent
func (s Sale) Validate() error {
	if len(s.Lines) == 0 {
		return invalid("lines", "at least one line is required")
	}
	var subtotal int64
	for i, l := range s.Lines {
		field := fmt.Sprintf("lines[%d]", i)
		switch {
		case strings.TrimSpace(l.ProductID) == "":
			return invalid(field+".productId", "required")
		case l.Quantity < 1:
			return invalid(field+".quantity", "must be at least 1")
		case l.UnitPrice < 0:
			return invalid(field+".unitPrice", "must not be negative")
		case l.LineTotal != l.UnitPrice*int64(l.Quantity):
			return invalid(field+".lineTotal", "does not equal unitPrice × quantity")
		}
		subtotal += l.LineTotal
	}
	if s.Subtotal != subtotal {
		return invalid("subtotal", "does not equal the sum of line totals")
	}
	if s.Tax < 0 {
		return invalid("tax", "must not be negative")
	}
	if s.Total != s.Subtotal+s.Tax {
		return invalid("total", "does not equal subtotal + tax")
	}
	if !s.PaymentMethod.Valid() {
		return invalid("paymentMethod", "must be cash or card")
	}
	if strings.TrimSpace(s.Cashier) == "" {
		return invalid("cashier", "required")
	}
	return nil
}

// Compensation builds the refund record that reverses s. Quantities and amounts are
// negated so that summing a sale with its refund nets to zero.
func (s Sale) Compensation(cashier, reason string, at time.Time) Sale {
	lines := make([]SaleLine, len(s.Lines))
	for i, l := range s.Lines {
		l.Quantity = -l.Quantity
		l.LineTotal = -l.LineTotal
		lines[i] = l
	}
	return Sale{
		Timestamp:     at,
		Lines:         lines,
		Subtotal:      -s.Subtotal,
		Tax:           -s.Tax,
		Total:         -s.Total,
		PaymentMethod: s.PaymentMethod,
		Cashier:       cashier,
		CustomerID:    s.CustomerID,
		Status:        SaleRefund,
		RefundOf:      s.ID,
		Reason:        reason,
	}
}
