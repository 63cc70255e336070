package pos

import (
	"context"
	"errors"
	"testing"
	"time"

	"supermarket-erp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSales struct {
	createFn func(ctx context.Context, draft models.Sale) (models.Sale, error)
	calls    int
	last     models.Sale
}

func (f *fakeSales) CreateSale(ctx context.Context, draft models.Sale) (models.Sale, error) {
	f.calls++
	f.last = draft
	return f.createFn(ctx, draft)
}

func newTestRecorder(sales SaleCreator) *Recorder {
	r := NewRecorder(sales, NewCalculator(DefaultTaxRate))
	r.now = func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }
	return r
}

func filledCart(t *testing.T) *Cart {
	t.Helper()
	c := NewCart()
	require.NoError(t, c.AddLine(bananas, 2))
	require.NoError(t, c.AddLine(milk, 1))
	return c
}

func TestCheckoutSuccessClearsCart(t *testing.T) {
	store := &fakeSales{createFn: func(_ context.Context, draft models.Sale) (models.Sale, error) {
		draft.ID = "sale-1"
		draft.TransactionID = "TXN-1"
		return draft, nil
	}}
	r := newTestRecorder(store)
	cart := filledCart(t)

	sale, err := r.Checkout(context.Background(), cart, models.PaymentCard, "Alice Dubois")

	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)
	assert.Equal(t, 0, cart.Len())
	assert.Equal(t, "sale-1", sale.ID)
	assert.Equal(t, int64(6890), sale.Subtotal)
	assert.Equal(t, int64(1378), sale.Tax)
	assert.Equal(t, int64(8268), sale.Total)
	assert.Equal(t, sale.Subtotal+sale.Tax, sale.Total)

	draft := store.last
	assert.Equal(t, models.PaymentCard, draft.PaymentMethod)
	assert.Equal(t, "Alice Dubois", draft.Cashier)
	assert.Empty(t, draft.CustomerID)
	assert.Equal(t, time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC), draft.Timestamp)
	require.Len(t, draft.Lines, 2)
	assert.Equal(t, int64(5000), draft.Lines[0].LineTotal)
	require.NoError(t, draft.Validate())
}

func TestCheckoutEmptyCartSkipsStore(t *testing.T) {
	store := &fakeSales{createFn: func(context.Context, models.Sale) (models.Sale, error) {
		t.Fatal("store must not be called")
		return models.Sale{}, nil
	}}
	r := newTestRecorder(store)

	_, err := r.Checkout(context.Background(), NewCart(), models.PaymentCash, "Bob Martin")

	require.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 0, store.calls)
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	cause := errors.New("connection refused")
	store := &fakeSales{createFn: func(context.Context, models.Sale) (models.Sale, error) {
		return models.Sale{}, cause
	}}
	r := newTestRecorder(store)
	cart := filledCart(t)
	before := cart.Lines()

	_, err := r.Checkout(context.Background(), cart, models.PaymentCash, "Bob Martin")

	require.ErrorIs(t, err, ErrSaleRecordingFailed)
	require.ErrorIs(t, err, cause)
	var recErr *SaleRecordingError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, before, cart.Lines())
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	store := &fakeSales{createFn: func(context.Context, models.Sale) (models.Sale, error) {
		return models.Sale{}, nil
	}}
	r := newTestRecorder(store)
	cart := filledCart(t)

	_, err := r.Checkout(context.Background(), cart, "crypto", "Bob Martin")

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, 0, store.calls)
	assert.Equal(t, 2, cart.Len())
}

func TestRegistrySessionsArePerCashier(t *testing.T) {
	reg := NewRegistry()
	a := reg.Session("alice")
	require.Same(t, a, reg.Session("alice"))
	require.NotSame(t, a, reg.Session("bob"))

	require.NoError(t, a.Do(func(c *Cart) error { return c.AddLine(bananas, 1) }))
	reg.Drop("alice")

	err := reg.Session("alice").Do(func(c *Cart) error {
		assert.Equal(t, 0, c.Len())
		return nil
	})
	require.NoError(t, err)
}
