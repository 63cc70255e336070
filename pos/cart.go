// Package pos holds the point-of-sale core: the cart, the checkout arithmetic and
// the recorder that turns a cart into a persisted sale.
package pos

import "supermarket-erp/models"

// Product is the catalog snapshot a cart reads prices and availability from
type Product struct {
	ID             string
	SKU            string
	Name           string
	UnitPrice      int64
	AvailableStock int
}

// SnapshotOf converts a catalog product into a cart snapshot
func SnapshotOf(p models.Product) Product {
	return Product{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		UnitPrice:      p.Price,
		AvailableStock: p.Stock,
	}
}

// CartLine is one product and quantity pending checkout
type CartLine struct {
	ProductID string `json:"productId"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
}

// LineTotal returns unitPrice × quantity
func (l CartLine) LineTotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

type entry struct {
	line      CartLine
	available int
}

// Cart is the working set of a checkout. It is not safe for concurrent use;
// callers serialise access (see Session).
type Cart struct {
	entries []entry
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) find(productID string) int {
	for i := range c.entries {
		if c.entries[i].line.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddLine merges quantity into the line for p, creating it if needed. A merged line
// takes p's price and name. The cart is left unchanged when the resulting quantity
// would exceed p.AvailableStock.
func (c *Cart) AddLine(p Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	i := c.find(p.ID)
	current := 0
	if i >= 0 {
		current = c.entries[i].line.Quantity
	}
	if current+quantity > p.AvailableStock {
		return &InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Requested: current + quantity,
			Available: p.AvailableStock,
		}
	}

	if i >= 0 {
		e := &c.entries[i]
		e.line.Quantity += quantity
		e.line.SKU = p.SKU
		e.line.Name = p.Name
		e.line.UnitPrice = p.UnitPrice
		e.available = p.AvailableStock
		return nil
	}
	c.entries = append(c.entries, entry{
		line: CartLine{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			UnitPrice: p.UnitPrice,
			Quantity:  quantity,
		},
		available: p.AvailableStock,
	})
	return nil
}

// SetLineQuantity sets the exact quantity of a line. Zero or less removes it and an
// unknown product is a no-op. The check uses the last availability seen for the line.
func (c *Cart) SetLineQuantity(productID string, quantity int) error {
	i := c.find(productID)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		c.removeAt(i)
		return nil
	}
	e := &c.entries[i]
	if quantity > e.available {
		return &InsufficientStockError{
			ProductID: productID,
			Name:      e.line.Name,
			Requested: quantity,
			Available: e.available,
		}
	}
	e.line.Quantity = quantity
	return nil
}

// UpdateLine sets the quantity of p's line checked against p's availability, and
// takes p's price and name only when the check passes. Zero or less removes the line
// and a product not in the cart is a no-op.
func (c *Cart) UpdateLine(p Product, quantity int) error {
	i := c.find(p.ID)
	if i < 0 {
		return nil
	}
	if quantity <= 0 {
		c.removeAt(i)
		return nil
	}
	if quantity > p.AvailableStock {
		return &InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Requested: quantity,
			Available: p.AvailableStock,
		}
	}
	e := &c.entries[i]
	e.line.SKU = p.SKU
	e.line.Name = p.Name
	e.line.UnitPrice = p.UnitPrice
	e.line.Quantity = quantity
	e.available = p.AvailableStock
	return nil
}

// RefreshAll checks every line against its snapshot in products and applies the
// snapshots only if all lines still fit their availability. Lines without a
// snapshot are checked against nothing and kept as they are.
func (c *Cart) RefreshAll(products []Product) error {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, e := range c.entries {
		p, ok := byID[e.line.ProductID]
		if ok && e.line.Quantity > p.AvailableStock {
			return &InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Requested: e.line.Quantity,
				Available: p.AvailableStock,
			}
		}
	}
	for _, p := range byID {
		c.Refresh(p)
	}
	return nil
}

// Has reports whether the cart holds a line for productID
func (c *Cart) Has(productID string) bool {
	return c.find(productID) >= 0
}

// Refresh replaces the snapshot of an existing line with p, keeping its quantity.
// It does nothing when p is not in the cart.
func (c *Cart) Refresh(p Product) {
	i := c.find(p.ID)
	if i < 0 {
		return
	}
	e := &c.entries[i]
	e.line.SKU = p.SKU
	e.line.Name = p.Name
	e.line.UnitPrice = p.UnitPrice
	e.available = p.AvailableStock
}

// RemoveLine drops the line for productID if present
func (c *Cart) RemoveLine(productID string) {
	if i := c.find(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.entries = append(c.entries[:i], c.entries[i+1:]...)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.entries = nil
}

// Lines returns a copy of the lines in insertion order
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.line
	}
	return out
}

// Len returns the number of lines
func (c *Cart) Len() int {
	return len(c.entries)
}
