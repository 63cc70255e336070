package pos

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bananas = Product{ID: "1", SKU: "PRD001", Name: "Bananes Bio", UnitPrice: 2500, AvailableStock: 45}
	milk    = Product{ID: "2", SKU: "PRD002", Name: "Lait Entier 1L", UnitPrice: 1890, AvailableStock: 12}
)

func TestAddLineMergesByProduct(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddLine(bananas, 1))
	require.NoError(t, c.AddLine(milk, 1))
	require.NoError(t, c.AddLine(bananas, 2))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "1", lines[0].ProductID)
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, "2", lines[1].ProductID)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestAddLineRejectsOverStock(t *testing.T) {
	p := Product{ID: "9", SKU: "PRD009", Name: "Croissants x6", UnitPrice: 5400, AvailableStock: 5}
	c := NewCart()

	require.NoError(t, c.AddLine(p, 3))
	err := c.AddLine(p, 3)

	require.ErrorIs(t, err, ErrInsufficientStock)
	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 3, c.Lines()[0].Quantity)
}

func TestAddLineRejectsNewLineOverStock(t *testing.T) {
	c := NewCart()
	err := c.AddLine(Product{ID: "x", AvailableStock: 0}, 1)
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 0, c.Len())
}

func TestAddLineRejectsInvalidQuantity(t *testing.T) {
	c := NewCart()
	require.ErrorIs(t, c.AddLine(bananas, 0), ErrInvalidQuantity)
	assert.Equal(t, 0, c.Len())
}

func TestSetLineQuantity(t *testing.T) {
	tests := map[string]struct {
		productID string
		quantity  int
		wantErr   error
		wantLines int
		wantQty   int
	}{
		"sets exact quantity": {productID: "2", quantity: 7, wantLines: 2, wantQty: 7},
		"zero removes":        {productID: "2", quantity: 0, wantLines: 1},
		"negative removes":    {productID: "2", quantity: -4, wantLines: 1},
		"over stock rejected": {productID: "2", quantity: 13, wantErr: ErrInsufficientStock, wantLines: 2, wantQty: 1},
		"unknown is a no-op":  {productID: "404", quantity: 3, wantLines: 2, wantQty: 1},
		"exactly stock is ok": {productID: "2", quantity: 12, wantLines: 2, wantQty: 12},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := NewCart()
			require.NoError(t, c.AddLine(bananas, 1))
			require.NoError(t, c.AddLine(milk, 1))

			err := c.SetLineQuantity(tc.productID, tc.quantity)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			lines := c.Lines()
			require.Len(t, lines, tc.wantLines)
			if tc.wantLines == 2 {
				assert.Equal(t, tc.wantQty, lines[1].Quantity)
			}
		})
	}
}

func TestRefreshUpdatesAvailability(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddLine(milk, 2))

	fresh := milk
	fresh.AvailableStock = 3
	fresh.UnitPrice = 1990
	c.Refresh(fresh)

	require.ErrorIs(t, c.SetLineQuantity(milk.ID, 4), ErrInsufficientStock)
	require.NoError(t, c.SetLineQuantity(milk.ID, 3))
	assert.Equal(t, int64(1990), c.Lines()[0].UnitPrice)

	c.Refresh(bananas)
	assert.Equal(t, 1, c.Len())
}

func TestRemoveAndClear(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddLine(bananas, 1))
	require.NoError(t, c.AddLine(milk, 1))

	c.RemoveLine("404")
	assert.Equal(t, 2, c.Len())

	c.RemoveLine("1")
	require.Len(t, c.Lines(), 1)
	assert.Equal(t, "2", c.Lines()[0].ProductID)

	c.Clear()
	assert.Empty(t, c.Lines())
}

func TestLinesIsACopy(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddLine(bananas, 1))

	lines := c.Lines()
	lines[0].Quantity = 99
	require.NoError(t, c.AddLine(milk, 1))

	assert.Equal(t, 1, c.Lines()[0].Quantity)
	assert.Len(t, lines, 1)
}

func TestAddLineMergeTakesFreshSnapshot(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddLine(bananas, 1))

	repriced := bananas
	repriced.UnitPrice = 9999
	repriced.AvailableStock = 10

	require.ErrorIs(t, c.AddLine(repriced, 100), ErrInsufficientStock)
	assert.Equal(t, int64(2500), c.Lines()[0].UnitPrice)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	require.NoError(t, c.AddLine(repriced, 1))
	assert.Equal(t, int64(9999), c.Lines()[0].UnitPrice)
	assert.Equal(t, 2, c.Lines()[0].Quantity)
}

func TestUpdateLine(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddLine(milk, 1))

	fresh := milk
	fresh.UnitPrice = 1990
	fresh.AvailableStock = 4

	require.ErrorIs(t, c.UpdateLine(fresh, 5), ErrInsufficientStock)
	assert.Equal(t, int64(1890), c.Lines()[0].UnitPrice)
	assert.Equal(t, 1, c.Lines()[0].Quantity)

	require.NoError(t, c.UpdateLine(fresh, 4))
	assert.Equal(t, int64(1990), c.Lines()[0].UnitPrice)
	assert.Equal(t, 4, c.Lines()[0].Quantity)

	require.NoError(t, c.UpdateLine(bananas, 3))
	assert.False(t, c.Has(bananas.ID))

	require.NoError(t, c.UpdateLine(fresh, 0))
	assert.Equal(t, 0, c.Len())
}

func TestRefreshAllIsAllOrNothing(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddLine(bananas, 2))
	require.NoError(t, c.AddLine(milk, 5))

	pricier := bananas
	pricier.UnitPrice = 3000
	scarce := milk
	scarce.AvailableStock = 4

	err := c.RefreshAll([]Product{pricier, scarce})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, milk.ID, stockErr.ProductID)
	assert.Equal(t, int64(2500), c.Lines()[0].UnitPrice)

	scarce.AvailableStock = 5
	require.NoError(t, c.RefreshAll([]Product{pricier, scarce}))
	assert.Equal(t, int64(3000), c.Lines()[0].UnitPrice)
	assert.Equal(t, 5, c.Lines()[1].Quantity)
}
