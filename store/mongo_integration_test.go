//go:build integration

package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"supermarket-erp/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.uber.org/zap"
)

func setupMongoStore(t *testing.T) *MongoStore {
	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := ConnectMongo(ctx, uri)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	s := NewMongoStore(client.Database("supermarket_test"), zap.NewNop())
	require.NoError(t, s.CreateIndexes(ctx))
	_, err = SeedCatalog(ctx, s)
	require.NoError(t, err)
	return s
}

func TestMongoStoreCatalog(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	products, err := s.ListProducts(ctx, models.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 12)

	bio, err := s.ListProducts(ctx, models.ProductFilter{Search: "BIO"})
	require.NoError(t, err)
	assert.Len(t, bio, 2)

	p, err := s.FindByCode(ctx, "prd002")
	require.NoError(t, err)
	assert.Equal(t, "Lait Entier 1L", p.Name)

	_, err = s.CreateProduct(ctx, models.Product{SKU: "PRD001", Name: "Doublon"})
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	_, err = s.GetProduct(ctx, "404")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoStoreAdjustStock(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	p, err := s.AdjustStock(ctx, "6", -8)
	require.NoError(t, err)
	assert.Equal(t, 0, p.Stock)

	_, err = s.AdjustStock(ctx, "6", -1)
	assert.ErrorIs(t, err, ErrNegativeStock)

	_, err = s.AdjustStock(ctx, "404", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoStoreSaleAndRefund(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	sale, err := s.CreateSale(ctx, saleDraft(
		models.SaleLine{ProductID: "2", SKU: "PRD002", Name: "Lait Entier 1L", Quantity: 20, UnitPrice: 1890},
	))
	require.NoError(t, err)

	milk, err := s.GetProduct(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 0, milk.Stock)

	sales, err := s.ListSales(ctx, models.SaleFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, sale.TransactionID, sales[0].TransactionID)

	refund, err := s.RefundSale(ctx, sale.ID, "Bob Martin", "erreur de caisse")
	require.NoError(t, err)
	assert.Equal(t, -sale.Total, refund.Total)

	milk, err = s.GetProduct(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, 20, milk.Stock)

	_, err = s.RefundSale(ctx, sale.ID, "Bob Martin", "again")
	assert.ErrorIs(t, err, ErrAlreadyRefunded)
}

func TestMongoStoreConcurrentRefunds(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	sale, err := s.CreateSale(ctx, saleDraft(
		models.SaleLine{ProductID: "5", SKU: "PRD005", Name: "Yaourt Nature x4", Quantity: 2, UnitPrice: 2350},
	))
	require.NoError(t, err)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		refused   atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.RefundSale(ctx, sale.ID, "Bob Martin", "double clic")
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, ErrAlreadyRefunded):
				refused.Add(1)
			default:
				t.Errorf("unexpected refund error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), refused.Load())

	sales, err := s.ListSales(ctx, models.SaleFilter{})
	require.NoError(t, err)
	refunds := 0
	for _, sl := range sales {
		if sl.Status == models.SaleRefund {
			refunds++
		}
	}
	assert.Equal(t, 1, refunds)

	yogurt, err := s.GetProduct(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, 22, yogurt.Stock)
}

func TestMongoStoreUsers(t *testing.T) {
	s := setupMongoStore(t)
	ctx := context.Background()

	u := models.User{Name: "Alice Dubois", Email: "alice@supermarket.test", Password: "hash", Role: models.RoleCashier}
	require.NoError(t, EnsureUser(ctx, s, u))

	_, err := s.CreateUser(ctx, u)
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	got, err := s.GetUserByEmail(ctx, "ALICE@supermarket.test")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCashier, got.Role)
}
