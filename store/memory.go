package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"supermarket-erp/models"

	"github.com/google/uuid"
)

// MemoryStore is a Store kept in process memory. It backs development runs and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	products  map[string]models.Product
	order     []string
	sales     []models.Sale
	suppliers map[string]models.Supplier
	users     map[string]models.User
	now       func() time.Time
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[string]models.Product),
		suppliers: make(map[string]models.Supplier),
		users:     make(map[string]models.User),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) ListProducts(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Product, 0, len(m.order))
	for _, id := range m.order {
		if p := m.products[id]; filter.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryStore) GetProduct(_ context.Context, id string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) FindByCode(_ context.Context, code string) (models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	code = strings.TrimSpace(code)
	for _, id := range m.order {
		p := m.products[id]
		if strings.EqualFold(p.SKU, code) || (p.Barcode != "" && p.Barcode == code) {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

func (m *MemoryStore) skuTaken(sku, except string) bool {
	for id, p := range m.products {
		if id != except && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

func (m *MemoryStore) CreateProduct(_ context.Context, p models.Product) (models.Product, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.skuTaken(p.SKU, "") {
		return models.Product{}, ErrDuplicateSKU
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := m.now()
	p.CreatedAt, p.UpdatedAt = now, now
	m.products[p.ID] = p
	m.order = append(m.order, p.ID)
	return p, nil
}

func (m *MemoryStore) UpdateProduct(_ context.Context, id string, p models.Product) (models.Product, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return models.Product{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	if m.skuTaken(p.SKU, id) {
		return models.Product{}, ErrDuplicateSKU
	}
	p.ID = id
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = m.now()
	m.products[id] = p
	return p, nil
}

func (m *MemoryStore) DeleteProduct(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MemoryStore) AdjustStock(_ context.Context, id string, delta int) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	if p.Stock+delta < 0 {
		return models.Product{}, ErrNegativeStock
	}
	p.Stock += delta
	p.UpdatedAt = m.now()
	m.products[id] = p
	return p, nil
}

// CreateSale stores the sale and decrements stock for each line, clamped at zero
func (m *MemoryStore) CreateSale(_ context.Context, draft models.Sale) (models.Sale, error) {
	sale, err := prepareSale(draft, m.now())
	if err != nil {
		return models.Sale{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sale.ID = uuid.NewString()
	m.sales = append(m.sales, cloneSale(sale))
	for _, l := range sale.Lines {
		m.moveStockLocked(l.ProductID, -l.Quantity)
	}
	return cloneSale(sale), nil
}

// cloneSale copies s so that callers never share Lines with a stored record
func cloneSale(s models.Sale) models.Sale {
	s.Lines = append([]models.SaleLine(nil), s.Lines...)
	return s
}

func (m *MemoryStore) moveStockLocked(productID string, delta int) {
	p, ok := m.products[productID]
	if !ok {
		return
	}
	p.Stock = max(0, p.Stock+delta)
	p.UpdatedAt = m.now()
	m.products[productID] = p
}

func (m *MemoryStore) GetSale(_ context.Context, id string) (models.Sale, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.sales {
		if s.ID == id {
			return cloneSale(s), nil
		}
	}
	return models.Sale{}, ErrNotFound
}

// ListSales returns matching sales, newest first
func (m *MemoryStore) ListSales(_ context.Context, filter models.SaleFilter) ([]models.Sale, error) {
	m.mu.RLock()
	out := make([]models.Sale, 0, len(m.sales))
	for _, s := range m.sales {
		if filter.Matches(s) {
			out = append(out, cloneSale(s))
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// RefundSale records a compensating sale for id and puts its quantities back in stock
func (m *MemoryStore) RefundSale(_ context.Context, id, cashier, reason string) (models.Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var original *models.Sale
	for i := range m.sales {
		s := &m.sales[i]
		if s.RefundOf == id {
			return models.Sale{}, ErrAlreadyRefunded
		}
		if s.ID == id {
			original = s
		}
	}
	if original == nil {
		return models.Sale{}, ErrNotFound
	}
	if original.Status != models.SaleCompleted {
		return models.Sale{}, ErrNotRefundable
	}

	now := m.now()
	refund := original.Compensation(cashier, reason, now)
	refund.ID = uuid.NewString()
	refund.TransactionID = newTransactionID(now)
	m.sales = append(m.sales, refund)
	for _, l := range original.Lines {
		m.moveStockLocked(l.ProductID, l.Quantity)
	}
	return cloneSale(refund), nil
}

func (m *MemoryStore) ListSuppliers(_ context.Context, search string) ([]models.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Supplier, 0, len(m.suppliers))
	for _, s := range m.suppliers {
		if s.MatchesSearch(search) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *MemoryStore) GetSupplier(_ context.Context, id string) (models.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.suppliers[id]
	if !ok {
		return models.Supplier{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) CreateSupplier(_ context.Context, s models.Supplier) (models.Supplier, error) {
	if err := s.Validate(); err != nil {
		return models.Supplier{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s.ID = uuid.NewString()
	s.CreatedAt = m.now()
	m.suppliers[s.ID] = s
	return s, nil
}

func (m *MemoryStore) UpdateSupplier(_ context.Context, id string, s models.Supplier) (models.Supplier, error) {
	if err := s.Validate(); err != nil {
		return models.Supplier{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.suppliers[id]
	if !ok {
		return models.Supplier{}, ErrNotFound
	}
	s.ID = id
	s.CreatedAt = existing.CreatedAt
	m.suppliers[id] = s
	return s, nil
}

func (m *MemoryStore) DeleteSupplier(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.suppliers[id]; !ok {
		return ErrNotFound
	}
	delete(m.suppliers, id)
	return nil
}

func (m *MemoryStore) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) CreateUser(_ context.Context, u models.User) (models.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if err := u.Validate(); err != nil {
		return models.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[u.Email]; ok {
		return models.User{}, ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	u.CreatedAt = m.now()
	m.users[u.Email] = u
	return u, nil
}
