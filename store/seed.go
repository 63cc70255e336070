package store

import (
	"context"
	"errors"
	"fmt"

	"supermarket-erp/models"
)

// DemoProducts returns the demo catalog used to seed empty stores
func DemoProducts() []models.Product {
	return []models.Product{
		{ID: "1", SKU: "PRD001", Name: "Bananes Bio", Category: "Fruits & Légumes", Price: 2500, Cost: 1500, Barcode: "1234567890123", Stock: 45, MinStock: 20, MaxStock: 100},
		{ID: "2", SKU: "PRD002", Name: "Lait Entier 1L", Category: "Produits Laitiers", Price: 1890, Cost: 1200, Barcode: "1234567890124", Stock: 12, MinStock: 30, MaxStock: 80},
		{ID: "3", SKU: "PRD003", Name: "Pain de Mie", Category: "Boulangerie", Price: 3490, Cost: 2000, Barcode: "1234567890125", Stock: 25, MinStock: 15, MaxStock: 60},
		{ID: "4", SKU: "PRD004", Name: "Tomates Fraîches", Category: "Fruits & Légumes", Price: 3200, Cost: 2100, Barcode: "1234567890126", Stock: 38, MinStock: 25, MaxStock: 80},
		{ID: "5", SKU: "PRD005", Name: "Yaourt Nature x4", Category: "Produits Laitiers", Price: 2350, Cost: 1400, Barcode: "1234567890127", Stock: 22, MinStock: 20, MaxStock: 70},
		{ID: "6", SKU: "PRD006", Name: "Baguette Tradition", Category: "Boulangerie", Price: 1200, Cost: 700, Barcode: "1234567890128", Stock: 8, MinStock: 10, MaxStock: 50},
		{ID: "7", SKU: "PRD007", Name: "Pommes Golden", Category: "Fruits & Légumes", Price: 2800, Cost: 1800, Barcode: "1234567890129", Stock: 55, MinStock: 30, MaxStock: 100},
		{ID: "8", SKU: "PRD008", Name: "Fromage Emmental", Category: "Produits Laitiers", Price: 4500, Cost: 3000, Barcode: "1234567890130", Stock: 18, MinStock: 15, MaxStock: 50},
		{ID: "9", SKU: "PRD009", Name: "Croissants x6", Category: "Boulangerie", Price: 5400, Cost: 3200, Barcode: "1234567890131", Stock: 14, MinStock: 12, MaxStock: 40},
		{ID: "10", SKU: "PRD010", Name: "Carottes Bio", Category: "Fruits & Légumes", Price: 2100, Cost: 1300, Barcode: "1234567890132", Stock: 32, MinStock: 20, MaxStock: 70},
		{ID: "11", SKU: "PRD011", Name: "Eau Minérale 6x1.5L", Category: "Boissons", Price: 3900, Cost: 2500, Barcode: "1234567890133", Stock: 5, MinStock: 15, MaxStock: 60},
		{ID: "12", SKU: "PRD012", Name: "Jus d'Orange 1L", Category: "Boissons", Price: 2700, Cost: 1700, Barcode: "1234567890134", Stock: 28, MinStock: 20, MaxStock: 80},
	}
}

// SeedCatalog inserts the demo catalog when products holds no products yet.
// It reports how many products were inserted.
func SeedCatalog(ctx context.Context, products ProductStore) (int, error) {
	existing, err := products.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, p := range DemoProducts() {
		if _, err := products.CreateProduct(ctx, p); err != nil {
			return i, fmt.Errorf("seed %s: %w", p.SKU, err)
		}
	}
	return len(DemoProducts()), nil
}

// EnsureUser creates u unless an account with its email already exists.
// The password must already be hashed.
func EnsureUser(ctx context.Context, users UserStore, u models.User) error {
	_, err := users.GetUserByEmail(ctx, u.Email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("lookup user: %w", err)
	}
	if _, err := users.CreateUser(ctx, u); err != nil && !errors.Is(err, ErrDuplicateEmail) {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}
