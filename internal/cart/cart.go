// Package cart keeps the shopper's working basket. Every mutation is
// written through to the store before returning.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"purefood/internal/domain"
	"purefood/internal/kvstore"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrCapacityExceeded = errors.New("not enough stock")
	ErrNotInCart        = errors.New("product is not in the cart")
)

// Manager owns the cart lines. Lines are unique by product id and keep
// the order in which products were first added.
type Manager struct {
	mu     sync.RWMutex
	store  *kvstore.Store
	items  []domain.CartItem
	logger *zap.Logger
}

// New loads the persisted cart, starting empty when none is stored
func New(ctx context.Context, store *kvstore.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{store: store, logger: logger}

	var items []domain.CartItem
	if store.GetJSON(ctx, kvstore.CartKey, &items) {
		m.items = items
	}
	return m
}

func (m *Manager) persist(ctx context.Context) {
	m.store.SetJSON(ctx, kvstore.CartKey, m.items)
}

func (m *Manager) index(productID string) int {
	for i, item := range m.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts qty units of product in the cart, accumulating onto an
// existing line. Stock is not enforced here; see CheckStock.
func (m *Manager) Add(ctx context.Context, product domain.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(product.ID); i >= 0 {
		m.items[i].Quantity += qty
	} else {
		m.items = append(m.items, domain.CartItem{Product: product, Quantity: qty})
	}
	m.persist(ctx)

	m.logger.Debug("Added to cart",
		zap.String("product_id", product.ID),
		zap.Int("quantity", qty),
	)
	return nil
}

// Remove drops the line for productID. Missing lines are ignored.
func (m *Manager) Remove(ctx context.Context, productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(productID)
	if i < 0 {
		return
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	m.persist(ctx)
}

// SetQuantity replaces a line's quantity; qty <= 0 removes the line.
// Setting a product that is not in the cart does nothing.
func (m *Manager) SetQuantity(ctx context.Context, productID string, qty int) {
	if qty <= 0 {
		m.Remove(ctx, productID)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(productID)
	if i < 0 {
		return
	}
	m.items[i].Quantity = qty
	m.persist(ctx)
}

// Clear empties the cart and erases the persisted copy
func (m *Manager) Clear(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = nil
	m.store.Remove(ctx, kvstore.CartKey)
}

// Items returns a copy of the cart lines
func (m *Manager) Items() []domain.CartItem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := make([]domain.CartItem, len(m.items))
	copy(items, m.items)
	return items
}

// Total is recomputed from the lines on every call
func (m *Manager) Total() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := decimal.Zero
	for _, item := range m.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the sum of quantities
func (m *Manager) ItemCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, item := range m.items {
		count += item.Quantity
	}
	return count
}

// Quantity returns how many units of productID are in the cart
func (m *Manager) Quantity(productID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.index(productID); i >= 0 {
		return m.items[i].Quantity
	}
	return 0
}

// IsEmpty reports whether the cart has no lines
func (m *Manager) IsEmpty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items) == 0
}

// CheckStock reports ErrCapacityExceeded when adding additional units
// would put more of product in the cart than its stock.
func (m *Manager) CheckStock(product domain.Product, additional int) error {
	if additional < 1 {
		return ErrInvalidQuantity
	}
	if product.Stock <= 0 {
		return fmt.Errorf("%s is out of stock: %w", product.Name, ErrCapacityExceeded)
	}
	if m.Quantity(product.ID)+additional > product.Stock {
		return fmt.Errorf("only %d of %s available: %w", product.Stock, product.Name, ErrCapacityExceeded)
	}
	return nil
}
