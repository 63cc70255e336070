package pos

import (
	"context"
	"time"

	"supermarket-erp/models"
)

// SaleCreator persists a sale draft and returns the stored record
type SaleCreator interface {
	CreateSale(ctx context.Context, draft models.Sale) (models.Sale, error)
}

// Recorder turns a cart into a persisted sale
type Recorder struct {
	sales SaleCreator
	calc  Calculator
	now   func() time.Time
}

// NewRecorder creates a Recorder that stores sales through sales
func NewRecorder(sales SaleCreator, calc Calculator) *Recorder {
	return &Recorder{
		sales: sales,
		calc:  calc,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// Draft builds the sale record for the current content of cart
func (r *Recorder) Draft(cart *Cart, method models.PaymentMethod, cashier string) models.Sale {
	lines := cart.Lines()
	totals := r.calc.Totals(lines)

	saleLines := make([]models.SaleLine, len(lines))
	for i, l := range lines {
		saleLines[i] = models.SaleLine{
			ProductID: l.ProductID,
			SKU:       l.SKU,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		}
	}

	return models.Sale{
		Timestamp:     r.now(),
		Lines:         saleLines,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		Total:         totals.Total,
		PaymentMethod: method,
		Cashier:       cashier,
		Status:        models.SaleCompleted,
	}
}

// Checkout records the cart as a sale and clears it once the store confirms.
// An empty cart fails with ErrEmptyCart before the store is contacted. A store
// failure is returned as *SaleRecordingError and the cart is left as it was.
func (r *Recorder) Checkout(ctx context.Context, cart *Cart, method models.PaymentMethod, cashier string) (models.Sale, error) {
	if cart.Len() == 0 {
		return models.Sale{}, ErrEmptyCart
	}
	if !method.Valid() {
		return models.Sale{}, &models.ValidationError{Field: "paymentMethod", Reason: "must be cash or card"}
	}

	draft := r.Draft(cart, method, cashier)
	sale, err := r.sales.CreateSale(ctx, draft)
	if err != nil {
		return models.Sale{}, &SaleRecordingError{Cause: err}
	}

	cart.Clear()
	return sale, nil
}
