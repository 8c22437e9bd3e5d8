package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"purefood/internal/domain"
	"purefood/internal/kvstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound = errors.New("order not found")
)

// RecentOrdersLimit caps SalesStats.RecentOrders
const RecentOrdersLimit = 10

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	List(ctx context.Context) ([]*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByPhone(ctx context.Context, phone string) ([]*domain.Order, error)
	Create(ctx context.Context, order domain.NewOrder) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*domain.SalesStats, error)
}

type orderRepository struct {
	mu    sync.Mutex
	store *kvstore.Store
	now   func() time.Time
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(store *kvstore.Store) OrderRepository {
	return &orderRepository{store: store, now: time.Now}
}

func (r *orderRepository) load(ctx context.Context) []*domain.Order {
	var orders []*domain.Order
	r.store.GetJSON(ctx, kvstore.OrdersKey, &orders)
	return orders
}

func (r *orderRepository) save(ctx context.Context, orders []*domain.Order) {
	r.store.SetJSON(ctx, kvstore.OrdersKey, orders)
}

// List returns all orders in insertion order
func (r *orderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.load(ctx)
	if orders == nil {
		orders = []*domain.Order{}
	}
	return orders, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, o := range r.load(ctx) {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// FindByPhone returns orders whose phone contains the query, newest first
func (r *orderRepository) FindByPhone(ctx context.Context, phone string) ([]*domain.Order, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return []*domain.Order{}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	matches := []*domain.Order{}
	for _, o := range r.load(ctx) {
		if strings.Contains(o.Phone, phone) {
			matches = append(matches, o)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches, nil
}

// Create validates the customer fields and stores a pending order.
// Items are copied so the caller cannot alter the stored snapshot.
func (r *orderRepository) Create(ctx context.Context, input domain.NewOrder) (*domain.Order, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	items := make([]domain.OrderItem, len(input.Items))
	copy(items, input.Items)

	order := &domain.Order{
		ID:           uuid.NewString(),
		CustomerName: input.CustomerName,
		Phone:        input.Phone,
		Address:      input.Address,
		Items:        items,
		TotalAmount:  input.TotalAmount,
		Status:       domain.OrderStatusPending,
		CreatedAt:    r.now().UTC(),
		Notes:        input.Notes,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.save(ctx, append(r.load(ctx), order))
	return order, nil
}

// UpdateStatus overwrites the status in place. Any status may follow
// any other.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.load(ctx)
	for _, o := range orders {
		if o.ID == id {
			o.Status = status
			r.save(ctx, orders)
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Delete removes an order, reporting false when it was absent
func (r *orderRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	orders := r.load(ctx)
	kept := orders[:0]
	for _, o := range orders {
		if o.ID != id {
			kept = append(kept, o)
		}
	}
	if len(kept) == len(orders) {
		return false, nil
	}

	r.save(ctx, kept)
	return true, nil
}

// Stats aggregates the order book. Recent orders follow storage order,
// not createdAt.
func (r *orderRepository) Stats(ctx context.Context) (*domain.SalesStats, error) {
	r.mu.Lock()
	orders := r.load(ctx)
	r.mu.Unlock()

	stats := &domain.SalesStats{
		TotalOrders:  len(orders),
		TotalSales:   decimal.Zero,
		RecentOrders: make([]*domain.Order, 0, RecentOrdersLimit),
	}

	for _, o := range orders {
		switch o.Status {
		case domain.OrderStatusPending:
			stats.PendingOrders++
		case domain.OrderStatusCompleted:
			stats.CompletedOrders++
			stats.TotalSales = stats.TotalSales.Add(o.TotalAmount)
		}
	}

	for i := len(orders) - 1; i >= 0 && len(stats.RecentOrders) < RecentOrdersLimit; i-- {
		stats.RecentOrders = append(stats.RecentOrders, orders[i])
	}

	return stats, nil
}
