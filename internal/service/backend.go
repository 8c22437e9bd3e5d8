package service

import (
	"context"
	"fmt"

	"purefood/internal/domain"
	"purefood/internal/repository"
)

// Backend is the data access surface used by the storefront. The local
// variant works against repositories, the remote one against the HTTP API.
// A variant is chosen once at startup.
type Backend interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)

	ListOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	TrackOrders(ctx context.Context, phone string) ([]*domain.Order, error)
	CreateOrder(ctx context.Context, order domain.NewOrder) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id string) (bool, error)
	GetOrderStats(ctx context.Context) (*domain.SalesStats, error)

	// Login exchanges admin credentials for a bearer token
	Login(ctx context.Context, username, password string) (string, error)
}

type localBackend struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	auth     AuthService
}

// NewLocalBackend creates a Backend over the local repositories
func NewLocalBackend(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	auth AuthService,
) Backend {
	return &localBackend{
		products: products,
		orders:   orders,
		auth:     auth,
	}
}

func (b *localBackend) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := b.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (b *localBackend) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return b.products.FindByID(ctx, id)
}

func (b *localBackend) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	return b.products.Create(ctx, input)
}

func (b *localBackend) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	return b.products.Update(ctx, id, patch)
}

func (b *localBackend) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return b.products.Delete(ctx, id)
}

func (b *localBackend) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := b.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (b *localBackend) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return b.orders.FindByID(ctx, id)
}

func (b *localBackend) TrackOrders(ctx context.Context, phone string) ([]*domain.Order, error) {
	return b.orders.FindByPhone(ctx, phone)
}

func (b *localBackend) CreateOrder(ctx context.Context, order domain.NewOrder) (*domain.Order, error) {
	return b.orders.Create(ctx, order)
}

func (b *localBackend) UpdateOrderStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	return b.orders.UpdateStatus(ctx, id, status)
}

func (b *localBackend) DeleteOrder(ctx context.Context, id string) (bool, error) {
	return b.orders.Delete(ctx, id)
}

func (b *localBackend) GetOrderStats(ctx context.Context) (*domain.SalesStats, error) {
	stats, err := b.orders.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute order stats: %w", err)
	}
	return stats, nil
}

func (b *localBackend) Login(ctx context.Context, username, password string) (string, error) {
	return b.auth.Login(ctx, username, password)
}
