package repository

import (
	"context"
	"testing"
	"time"

	"purefood/internal/domain"
	"purefood/internal/kvstore"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore() *kvstore.Store {
	return kvstore.NewVolatile(zap.NewNop())
}

func validProductInput() domain.ProductInput {
	return domain.ProductInput{
		Name:        "Basmati Rice",
		Description: "Aromatic long grain, 1kg",
		Price:       decimal.RequireFromString("190.50"),
		Image:       "https://example.com/rice.jpg",
		Category:    "Rice & Grains",
		Stock:       12,
	}
}

func TestProductListReturnsSamplesWhenEmpty(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	repo := NewProductRepository(store)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	assert.Equal(t, "sample-0", products[0].ID)
	assert.Equal(t, "Organic Rice", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(450)))

	_, persisted := store.Get(ctx, kvstore.ProductsKey)
	assert.False(t, persisted, "samples must not be persisted by List")

	found, err := repo.FindByID(ctx, "sample-2")
	require.NoError(t, err)
	assert.Equal(t, "Fresh Milk", found.Name)
}

func TestProductSamplesAreReadOnlyUntilSeeded(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestStore())

	name := "Brown Rice"
	_, err := repo.Update(ctx, "sample-0", domain.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)

	deleted, err := repo.Delete(ctx, "sample-0")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestProductCreateReplacesSamples(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestStore())

	created, err := repo.Create(ctx, validProductInput())
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, created.ID, products[0].ID)
}

func TestProductCreateRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.ProductInput)
		want   error
	}{
		{"blank name", func(in *domain.ProductInput) { in.Name = "   " }, domain.ErrProductNameRequired},
		{"blank category", func(in *domain.ProductInput) { in.Category = "" }, domain.ErrCategoryRequired},
		{"negative price", func(in *domain.ProductInput) { in.Price = decimal.NewFromInt(-1) }, domain.ErrNegativePrice},
		{"negative stock", func(in *domain.ProductInput) { in.Stock = -3 }, domain.ErrNegativeStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore()
			repo := NewProductRepository(store)

			input := validProductInput()
			tt.mutate(&input)

			_, err := repo.Create(ctx, input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrValidation)

			_, persisted := store.Get(ctx, kvstore.ProductsKey)
			assert.False(t, persisted)
		})
	}
}

func TestProductUpdateMergesPatch(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestStore())
	created, err := repo.Create(ctx, validProductInput())
	require.NoError(t, err)

	stock := 0
	price := decimal.NewFromInt(200)
	updated, err := repo.Update(ctx, created.ID, domain.ProductPatch{Stock: &stock, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Stock)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.ID, updated.ID)

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reloaded.Stock)
}

func TestProductUpdateRejectsInvalidPatch(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestStore())
	created, err := repo.Create(ctx, validProductInput())
	require.NoError(t, err)

	name := "Renamed"
	stock := -1
	_, err = repo.Update(ctx, created.ID, domain.ProductPatch{Name: &name, Stock: &stock})
	assert.ErrorIs(t, err, domain.ErrNegativeStock)

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, reloaded.Name, "rejected patch must leave the product unchanged")
}

func TestProductUpdateUnknownID(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestStore())
	_, err := repo.Create(ctx, validProductInput())
	require.NoError(t, err)

	name := "x"
	_, err = repo.Update(ctx, "missing", domain.ProductPatch{Name: &name})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewProductRepository(newTestStore())
	first, err := repo.Create(ctx, validProductInput())
	require.NoError(t, err)
	second, err := repo.Create(ctx, validProductInput())
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, second.ID, products[0].ID)

	_, err = repo.FindByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductSeedSamples(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	repo := NewProductRepository(store)

	n, err := repo.SeedSamples(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	products, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	assert.NotEqual(t, "sample-0", products[0].ID)

	n, err = repo.SeedSamples(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "seeding a non-empty catalog is a no-op")

	deleted, err := repo.Delete(ctx, products[0].ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestProductPersistsAcrossRepositories(t *testing.T) {
	ctx := context.Background()
	store := newTestStore()
	created, err := NewProductRepository(store).Create(ctx, validProductInput())
	require.NoError(t, err)

	found, err := NewProductRepository(store).FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found.Price.Equal(created.Price))
	assert.True(t, found.CreatedAt.Equal(created.CreatedAt))
}

func TestSampleProductsUseGivenTime(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, p := range SampleProducts(now) {
		assert.Equal(t, now, p.CreatedAt, "sample %d", i)
		assert.GreaterOrEqual(t, p.Stock, 0)
	}
}

// Feature: storefront catalog, Property 1: Product creation preserves attributes
func TestProperty_ProductCreationPreservesAttributes(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("creating and retrieving a product preserves all attributes", prop.ForAll(
		func(name string, description string, cents int64, category string, stock int) bool {
			ctx := context.Background()
			repo := NewProductRepository(newTestStore())

			input := domain.ProductInput{
				Name:        name,
				Description: description,
				Price:       decimal.New(cents, -2),
				Category:    category,
				Stock:       stock,
			}
			created, err := repo.Create(ctx, input)
			if err != nil {
				t.Logf("FAIL: Failed to create product: %v", err)
				return false
			}

			retrieved, err := repo.FindByID(ctx, created.ID)
			if err != nil {
				t.Logf("FAIL: Failed to retrieve product: %v", err)
				return false
			}

			return retrieved.Name == name &&
				retrieved.Description == description &&
				retrieved.Price.Equal(input.Price) &&
				retrieved.Category == category &&
				retrieved.Stock == stock
		},
		gen.Identifier(),
		gen.AlphaString(),
		gen.Int64Range(0, 10000000),
		gen.Identifier(),
		gen.IntRange(0, 10000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: storefront catalog, Property 2: Every created product gets a distinct id
func TestProperty_ProductIDsAreUnique(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("n creates yield n distinct ids", prop.ForAll(
		func(n int) bool {
			ctx := context.Background()
			repo := NewProductRepository(newTestStore())

			seen := make(map[string]bool, n)
			for i := 0; i < n; i++ {
				p, err := repo.Create(ctx, validProductInput())
				if err != nil || seen[p.ID] {
					return false
				}
				seen[p.ID] = true
			}

			products, err := repo.List(ctx)
			return err == nil && len(products) == n
		},
		gen.IntRange(1, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
