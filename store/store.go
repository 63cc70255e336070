// Package store persists the catalog, sales, suppliers and staff accounts.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"supermarket-erp/models"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no record has the requested id or code
	ErrNotFound = errors.New("not found")
	// ErrDuplicateSKU is returned when another product already uses the SKU
	ErrDuplicateSKU = errors.New("sku already exists")
	// ErrDuplicateEmail is returned when a staff account already uses the email
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrNegativeStock is returned when an adjustment would take stock below zero
	ErrNegativeStock = errors.New("stock cannot go below zero")
	// ErrAlreadyRefunded is returned when the sale already has a refund record
	ErrAlreadyRefunded = errors.New("sale already refunded")
	// ErrNotRefundable is returned for refund records and other non-completed sales
	ErrNotRefundable = errors.New("only completed sales can be refunded")
)

// ProductStore manages the catalog and its stock levels
type ProductStore interface {
	ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	// FindByCode looks a product up by SKU or barcode, ignoring case
	FindByCode(ctx context.Context, code string) (models.Product, error)
	CreateProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, p models.Product) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	// AdjustStock applies delta to the product's stock and fails with
	// ErrNegativeStock when the result would be negative
	AdjustStock(ctx context.Context, id string, delta int) (models.Product, error)
}

// SaleStore records sales and their refunds
type SaleStore interface {
	CreateSale(ctx context.Context, draft models.Sale) (models.Sale, error)
	GetSale(ctx context.Context, id string) (models.Sale, error)
	ListSales(ctx context.Context, filter models.SaleFilter) ([]models.Sale, error)
	RefundSale(ctx context.Context, id, cashier, reason string) (models.Sale, error)
}

// SupplierStore manages the supplier directory
type SupplierStore interface {
	ListSuppliers(ctx context.Context, search string) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id string) (models.Supplier, error)
	CreateSupplier(ctx context.Context, s models.Supplier) (models.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, s models.Supplier) (models.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) error
}

// UserStore manages staff accounts
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
}

// Store is the full persistence surface of the service
type Store interface {
	ProductStore
	SaleStore
	SupplierStore
	UserStore
}

// newTransactionID returns a receipt number of the form TXN-<unixms>-<suffix>
func newTransactionID(at time.Time) string {
	return fmt.Sprintf("TXN-%d-%s", at.UnixMilli(), uuid.NewString()[:8])
}

// prepareSale validates a draft and stamps the fields the store owns
func prepareSale(draft models.Sale, now time.Time) (models.Sale, error) {
	if err := draft.Validate(); err != nil {
		return models.Sale{}, err
	}
	if draft.Timestamp.IsZero() {
		draft.Timestamp = now
	}
	draft.Lines = append([]models.SaleLine(nil), draft.Lines...)
	draft.TransactionID = newTransactionID(now)
	draft.Status = models.SaleCompleted
	draft.RefundOf = ""
	return draft, nil
}
