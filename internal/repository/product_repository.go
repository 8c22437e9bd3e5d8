package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"purefood/internal/domain"
	"purefood/internal/kvstore"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	List(ctx context.Context) ([]*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) (bool, error)
	SeedSamples(ctx context.Context) (int, error)
}

type productRepository struct {
	mu    sync.Mutex
	store *kvstore.Store
	now   func() time.Time
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(store *kvstore.Store) ProductRepository {
	return &productRepository{store: store, now: time.Now}
}

func (r *productRepository) load(ctx context.Context) []*domain.Product {
	var products []*domain.Product
	r.store.GetJSON(ctx, kvstore.ProductsKey, &products)
	return products
}

func (r *productRepository) save(ctx context.Context, products []*domain.Product) {
	r.store.SetJSON(ctx, kvstore.ProductsKey, products)
}

// List returns the stored catalog, or the sample catalog when nothing
// is stored. Samples are never persisted by List.
func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if products := r.load(ctx); len(products) > 0 {
		return products, nil
	}
	return SampleProducts(r.now()), nil
}

// FindByID looks the product up in the same view List returns
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	products, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrProductNotFound
}

// Create assigns an id and creation time, then appends the product
func (r *productRepository) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product := input.NewProduct(uuid.NewString(), r.now().UTC())
	products := append(r.load(ctx), product)
	r.save(ctx, products)

	return product, nil
}

// Update merges patch into a stored product
func (r *productRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load(ctx)
	for _, p := range products {
		if p.ID != id {
			continue
		}
		if err := patch.Apply(p); err != nil {
			return nil, fmt.Errorf("failed to update product %s: %w", id, err)
		}
		r.save(ctx, products)
		return p, nil
	}

	return nil, ErrProductNotFound
}

// Delete removes a stored product, reporting false when it was absent
func (r *productRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products := r.load(ctx)
	kept := products[:0]
	for _, p := range products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(products) {
		return false, nil
	}

	r.save(ctx, kept)
	return true, nil
}

// SeedSamples persists the sample catalog when no products are stored
// and returns how many products were written.
func (r *productRepository) SeedSamples(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.load(ctx)) > 0 {
		return 0, nil
	}

	now := r.now().UTC()
	products := make([]*domain.Product, 0, len(sampleProducts))
	for _, input := range sampleProducts {
		products = append(products, input.NewProduct(uuid.NewString(), now))
	}
	r.save(ctx, products)

	return len(products), nil
}

var sampleProducts = []domain.ProductInput{
	{
		Name:        "Organic Rice",
		Description: "Premium quality organic rice, 5kg pack",
		Price:       decimal.NewFromInt(450),
		Image:       "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=400",
		Category:    "Rice & Grains",
		Stock:       50,
	},
	{
		Name:        "Pure Honey",
		Description: "100% pure natural honey, 500g",
		Price:       decimal.NewFromInt(350),
		Image:       "https://images.unsplash.com/photo-1587049352846-4a222e784d38?w=400",
		Category:    "Honey & Sweeteners",
		Stock:       30,
	},
	{
		Name:        "Fresh Milk",
		Description: "Farm fresh milk, 1 liter",
		Price:       decimal.NewFromInt(80),
		Image:       "https://images.unsplash.com/photo-1563636619-e9143da7973b?w=400",
		Category:    "Dairy",
		Stock:       100,
	},
	{
		Name:        "Organic Eggs",
		Description: "Farm fresh organic eggs, dozen",
		Price:       decimal.NewFromInt(150),
		Image:       "https://images.unsplash.com/photo-1582722872445-44dc5f7e3c8f?w=400",
		Category:    "Dairy",
		Stock:       40,
	},
	{
		Name:        "Mustard Oil",
		Description: "Pure mustard oil, 1 liter",
		Price:       decimal.NewFromInt(220),
		Image:       "https://images.unsplash.com/photo-1474979266404-7eaacbcd87c5?w=400",
		Category:    "Cooking Oil",
		Stock:       25,
	},
	{
		Name:        "Mixed Spices",
		Description: "Assorted spices pack, 500g",
		Price:       decimal.NewFromInt(280),
		Image:       "https://images.unsplash.com/photo-1596040033229-a9821ebd058d?w=400",
		Category:    "Spices",
		Stock:       35,
	},
}

// SampleProducts returns the read-only first-run catalog with ids sample-0..N
func SampleProducts(now time.Time) []*domain.Product {
	products := make([]*domain.Product, 0, len(sampleProducts))
	for i, input := range sampleProducts {
		products = append(products, input.NewProduct(fmt.Sprintf("sample-%d", i), now.UTC()))
	}
	return products
}
