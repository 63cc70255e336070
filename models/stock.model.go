package models

import "strings"

// StockStatus classifies a stock level against its minimum
type StockStatus string

const (
	StockOK  StockStatus = "ok"
	StockLow StockStatus = "low"
	StockOut StockStatus = "out"
)

// StockStatusOf classifies current against minimum. Zero is out, at or below min is low.
func StockStatusOf(current, minimum int) StockStatus {
	switch {
	case current <= 0:
		return StockOut
	case current <= minimum:
		return StockLow
	default:
		return StockOK
	}
}

// StockItem is the stock view of a product
type StockItem struct {
	ProductID    string      `json:"productId"`
	SKU          string      `json:"sku"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	CurrentStock int         `json:"currentStock"`
	MinStock     int         `json:"minStock"`
	MaxStock     int         `json:"maxStock"`
	Status       StockStatus `json:"status"`
}

// NeedsRestock reports whether the item is low or out
func (s StockItem) NeedsRestock() bool {
	return s.Status != StockOK
}

// Adjustment types
const (
	AdjustAdd    = "add"
	AdjustRemove = "remove"
)

// StockAdjustment is a manual correction of a product's stock
type StockAdjustment struct {
	ProductID string `json:"productId"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason"`
}

// Validate checks the adjustment contract
func (a StockAdjustment) Validate() error {
	if strings.TrimSpace(a.ProductID) == "" {
		return invalid("productId", "required")
	}
	if a.Type != AdjustAdd && a.Type != AdjustRemove {
		return invalid("type", "must be add or remove")
	}
	if a.Quantity < 1 {
		return invalid("quantity", "must be at least 1")
	}
	return nil
}

// Delta returns the signed stock change
func (a StockAdjustment) Delta() int {
	if a.Type == AdjustRemove {
		return -a.Quantity
	}
	return a.Quantity
}
