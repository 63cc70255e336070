package models

import (
	"strings"
	"time"
)

// Product represents a sellable catalog item together with its stock levels
type Product struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	SKU        string    `bson:"sku" json:"sku"`
	Name       string    `bson:"name" json:"name"`
	Category   string    `bson:"category" json:"category"`
	Price      int64     `bson:"price" json:"price"`
	Cost       int64     `bson:"cost" json:"cost"`
	Barcode    string    `bson:"barcode,omitempty" json:"barcode,omitempty"`
	Image      string    `bson:"image,omitempty" json:"image,omitempty"`
	SupplierID string    `bson:"supplier_id,omitempty" json:"supplierId,omitempty"`
	Stock      int       `bson:"stock" json:"stock"`
	MinStock   int       `bson:"min_stock" json:"minStock"`
	MaxStock   int       `bson:"max_stock" json:"maxStock"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

// ProductFilter narrows a product listing
type ProductFilter struct {
	Search   string
	Category string
}

// IsZero reports whether the filter selects every product
func (f ProductFilter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && strings.TrimSpace(f.Category) == ""
}

// Matches reports whether p passes the filter. Search is a case-insensitive
// substring match on name, sku and barcode.
func (f ProductFilter) Matches(p Product) bool {
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, p.Category) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.SKU), q) ||
		strings.Contains(strings.ToLower(p.Barcode), q)
}

// Normalize trims free-text fields and upper-cases the SKU
func (p *Product) Normalize() {
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Barcode = strings.TrimSpace(p.Barcode)
}

// Validate checks the product contract
func (p Product) Validate() error {
	switch {
	case strings.TrimSpace(p.SKU) == "":
		return invalid("sku", "required")
	case strings.TrimSpace(p.Name) == "":
		return invalid("name", "required")
	case p.Price < 0:
		return invalid("price", "must not be negative")
	case p.Cost < 0:
		return invalid("cost", "must not be negative")
	case p.Stock < 0:
		return invalid("stock", "must not be negative")
	case p.MinStock < 0:
		return invalid("minStock", "must not be negative")
	case p.MaxStock != 0 && p.MaxStock < p.MinStock:
		return invalid("maxStock", "must be at least minStock")
	}
	return nil
}

// StockItem returns the stock view of the product
func (p Product) StockItem() StockItem {
	return StockItem{
		ProductID:    p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Category:     p.Category,
		CurrentStock: p.Stock,
		MinStock:     p.MinStock,
		MaxStock:     p.MaxStock,
		Status:       StockStatusOf(p.Stock, p.MinStock),
	}
}
