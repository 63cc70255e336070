package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"supermarket-erp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *MemoryStore {
	t.Helper()
	m := NewMemoryStore()
	n, err := SeedCatalog(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, 12, n)
	return m
}

func saleDraft(lines ...models.SaleLine) models.Sale {
	var subtotal int64
	for i := range lines {
		lines[i].LineTotal = lines[i].UnitPrice * int64(lines[i].Quantity)
		subtotal += lines[i].LineTotal
	}
	tax := subtotal / 5
	return models.Sale{
		Lines:         lines,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal + tax,
		PaymentMethod: models.PaymentCash,
		Cashier:       "Claire Durand",
	}
}

func TestSeedCatalogOnlyOnce(t *testing.T) {
	m := seededStore(t)

	n, err := SeedCatalog(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	products, err := m.ListProducts(context.Background(), models.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, products, 12)
	assert.Equal(t, "PRD001", products[0].SKU)
}

func TestListProductsFilter(t *testing.T) {
	m := seededStore(t)
	ctx := context.Background()

	boissons, err := m.ListProducts(ctx, models.ProductFilter{Category: "Boissons"})
	require.NoError(t, err)
	assert.Len(t, boissons, 2)

	bio, err := m.ListProducts(ctx, models.ProductFilter{Search: "bio"})
	require.NoError(t, err)
	assert.Len(t, bio, 2)
}

func TestFindByCode(t *testing.T) {
	m := seededStore(t)
	ctx := context.Background()

	p, err := m.FindByCode(ctx, "prd003")
	require.NoError(t, err)
	assert.Equal(t, "Pain de Mie", p.Name)

	p, err = m.FindByCode(ctx, "1234567890134")
	require.NoError(t, err)
	assert.Equal(t, "PRD012", p.SKU)

	_, err = m.FindByCode(ctx, "PRD999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProductRejectsDuplicateSKU(t *testing.T) {
	m := seededStore(t)

	_, err := m.CreateProduct(context.Background(), models.Product{SKU: "prd001", Name: "Doublon"})
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	_, err = m.CreateProduct(context.Background(), models.Product{SKU: "PRD013"})
	var verr *models.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	m := seededStore(t)
	ctx := context.Background()

	p, err := m.GetProduct(ctx, "6")
	require.NoError(t, err)
	p.Price = 1300
	updated, err := m.UpdateProduct(ctx, "6", p)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), updated.Price)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)

	_, err = m.UpdateProduct(ctx, "404", p)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.DeleteProduct(ctx, "6"))
	assert.ErrorIs(t, m.DeleteProduct(ctx, "6"), ErrNotFound)
	products, _ := m.ListProducts(ctx, models.ProductFilter{})
	assert.Len(t, products, 11)
}

func TestAdjustStock(t *testing.T) {
	m := seededStore(t)
	ctx := context.Background()

	p, err := m.AdjustStock(ctx, "11", 10)
	require.NoError(t, err)
	assert.Equal(t, 15, p.Stock)

	_, err = m.AdjustStock(ctx, "11", -16)
	assert.ErrorIs(t, err, ErrNegativeStock)

	p, err = m.AdjustStock(ctx, "11", -15)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	_, err = m.AdjustStock(ctx, "404", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateSaleDecrementsStockClampedAtZero(t *testing.T) {
	m := seededStore(t)
	ctx := context.Background()

	draft := saleDraft(
		models.SaleLine{ProductID: "1", SKU: "PRD001", Name: "Bananes Bio", Quantity: 2, UnitPrice: 2500},
		models.SaleLine{ProductID: "11", SKU: "PRD011", Name: "Eau Minérale 6x1.5L", Quantity: 9, UnitPrice: 3900},
	)
	sale, err := m.CreateSale(ctx, draft)
	require.NoError(t, err)

	assert.NotEmpty(t, sale.ID)
	assert.True(t, strings.HasPrefix(sale.TransactionID, "TXN-"))
	assert.Equal(t, models.SaleCompleted, sale.Status)
	assert.False(t, sale.Timestamp.IsZero())

	bananas, _ := m.GetProduct(ctx, "1")
	water, _ := m.GetProduct(ctx, "11")
	assert.Equal(t, 43, bananas.Stock)
	assert.Equal(t, 0, water.Stock)

	got, err := m.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.TransactionID, got.TransactionID)
}

func TestCreateSaleRejectsInvalidDraft(t *testing.T) {
	m := seededStore(t)
	draft := saleDraft(models.SaleLine{ProductID: "1", Quantity: 1, UnitPrice: 2500})
	draft.Total++

	_, err := m.CreateSale(context.Background(), draft)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "total", verr.Field)
}

func TestListSalesFilters(t *testing.T) {
	m := seededStore(t)
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		draft := saleDraft(models.SaleLine{ProductID: "7", Quantity: 1, UnitPrice: 2800})
		draft.Timestamp = base.AddDate(0, 0, i)
		_, err := m.CreateSale(ctx, draft)
		require.NoError(t, err)
	}

	all, err := m.ListSales(ctx, models.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.True(t, all[0].Timestamp.After(all[4].Timestamp))

	window, err := m.ListSales(ctx, models.SaleFilter{Start: base.AddDate(0, 0, 1), End: base.AddDate(0, 0, 3)})
	require.NoError(t, err)
	assert.Len(t, window, 3)

	limited, err := m.ListSales(ctx, models.SaleFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, base.AddDate(0, 0, 4), limited[0].Timestamp)
}

func TestRefundSale(t *testing.T) {
	m := seededStore(t)
	ctx := context.Background()

	sale, err := m.CreateSale(ctx, saleDraft(models.SaleLine{ProductID: "3", SKU: "PRD003", Quantity: 5, UnitPrice: 3490}))
	require.NoError(t, err)

	refund, err := m.RefundSale(ctx, sale.ID, "Bob Martin", "produit périmé")
	require.NoError(t, err)
	assert.Equal(t, models.SaleRefund, refund.Status)
	assert.Equal(t, sale.ID, refund.RefundOf)
	assert.Equal(t, -sale.Total, refund.Total)

	p, _ := m.GetProduct(ctx, "3")
	assert.Equal(t, 25, p.Stock)

	_, err = m.RefundSale(ctx, sale.ID, "Bob Martin", "again")
	assert.ErrorIs(t, err, ErrAlreadyRefunded)

	_, err = m.RefundSale(ctx, refund.ID, "Bob Martin", "refund of refund")
	assert.ErrorIs(t, err, ErrNotRefundable)

	_, err = m.RefundSale(ctx, "404", "Bob Martin", "")
	assert.ErrorIs(t, err, ErrNotFound)

	original, err := m.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SaleCompleted, original.Status)
}

func TestReturnedSalesDoNotShareLines(t *testing.T) {
	m := seededStore(t)
	ctx := context.Background()

	sale, err := m.CreateSale(ctx, saleDraft(models.SaleLine{ProductID: "4", SKU: "PRD004", Quantity: 2, UnitPrice: 3200}))
	require.NoError(t, err)
	sale.Lines[0].Quantity = 99

	got, err := m.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Lines[0].Quantity)
	got.Lines[0].UnitPrice = 1

	listed, err := m.ListSales(ctx, models.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, int64(3200), listed[0].Lines[0].UnitPrice)
	listed[0].Lines[0].LineTotal = 0

	refund, err := m.RefundSale(ctx, sale.ID, "Bob Martin", "")
	require.NoError(t, err)
	assert.Equal(t, int64(-6400), refund.Lines[0].LineTotal)
	refund.Lines[0].Quantity = 0

	again, err := m.GetSale(ctx, refund.ID)
	require.NoError(t, err)
	assert.Equal(t, -2, again.Lines[0].Quantity)
	original, err := m.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6400), original.Lines[0].LineTotal)
}

func TestSuppliersCRUD(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()

	a, err := m.CreateSupplier(ctx, models.Supplier{Name: "Laiterie du Sahel", Contact: "Awa Diop", Category: "Produits Laitiers", Email: "awa@laiterie.sn"})
	require.NoError(t, err)
	_, err = m.CreateSupplier(ctx, models.Supplier{Name: "Boulangerie Centrale", Contact: "Jean Kouassi", Category: "Boulangerie"})
	require.NoError(t, err)

	_, err = m.CreateSupplier(ctx, models.Supplier{Name: "Sans contact"})
	require.Error(t, err)

	all, err := m.ListSuppliers(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Boulangerie Centrale", all[0].Name)

	found, err := m.ListSuppliers(ctx, "awa")
	require.NoError(t, err)
	require.Len(t, found, 1)

	a.Phone = "+221 33 000 00 00"
	updated, err := m.UpdateSupplier(ctx, a.ID, a)
	require.NoError(t, err)
	assert.Equal(t, a.Phone, updated.Phone)

	require.NoError(t, m.DeleteSupplier(ctx, a.ID))
	_, err = m.GetSupplier(ctx, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEnsureUser(t *testing.T) {
	m := NewMemoryStore()
	ctx := context.Background()
	admin := models.User{Name: "Admin", Email: "Admin@Supermarket.test", Password: "hash", Role: models.RoleAdmin}

	require.NoError(t, EnsureUser(ctx, m, admin))
	require.NoError(t, EnsureUser(ctx, m, admin))

	u, err := m.GetUserByEmail(ctx, "admin@supermarket.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)

	_, err = m.CreateUser(ctx, admin)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}
