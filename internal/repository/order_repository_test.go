package repository

import (
	"context"
	"fmt"
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
)

func validNewOrder() domain.NewOrder {
	items := []domain.OrderItem{
		{ProductID: "p1", ProductName: "Organic Rice", Price: decimal.NewFromInt(450), Quantity: 2},
		{ProductID: "p2", ProductName: "Fresh Milk", Price: decimal.NewFromInt(80), Quantity: 3},
	}
	return domain.NewOrder{
		CustomerName: "Rahim",
		Phone:        "01711000000",
		Address:      "12 Lake Road",
		Items:        items,
		TotalAmount:  domain.ItemsTotal(items),
	}
}

func TestOrderCreate(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore())

	order, err := repo.Create(ctx, validNewOrder())
	require.NoError(t, err)
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(1140)))

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.CustomerName, found.CustomerName)
	assert.Len(t, found.Items, 2)
}

func TestOrderCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.NewOrder)
		want   error
	}{
		{"empty name", func(o *domain.NewOrder) { o.CustomerName = "" }, domain.ErrCustomerNameRequired},
		{"blank phone", func(o *domain.NewOrder) { o.Phone = "  " }, domain.ErrPhoneRequired},
		{"empty address", func(o *domain.NewOrder) { o.Address = "" }, domain.ErrAddressRequired},
		{"name reported before address", func(o *domain.NewOrder) {
			o.CustomerName = ""
			o.Address = ""
		}, domain.ErrCustomerNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newTestStore()
			repo := NewOrderRepository(store)

			input := validNewOrder()
			tt.mutate(&input)

			_, err := repo.Create(ctx, input)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, domain.ErrValidation)

			_, persisted := store.Get(ctx, kvstore.OrdersKey)
			assert.False(t, persisted, "nothing may be persisted on validation failure")
		})
	}
}

func TestOrderItemsAreSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore())

	input := validNewOrder()
	order, err := repo.Create(ctx, input)
	require.NoError(t, err)

	input.Items[0].Price = decimal.NewFromInt(1)
	input.Items[0].ProductName = "changed"

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Organic Rice", found.Items[0].ProductName)
	assert.True(t, found.Items[0].Price.Equal(decimal.NewFromInt(450)))
}

func TestOrderFindByIDNotFound(t *testing.T) {
	repo := NewOrderRepository(newTestStore())
	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderUpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore())
	order, err := repo.Create(ctx, validNewOrder())
	require.NoError(t, err)

	// any status may follow any other
	for _, status := range []domain.OrderStatus{
		domain.OrderStatusCompleted,
		domain.OrderStatusPending,
		domain.OrderStatusCancelled,
		domain.OrderStatusProcessing,
	} {
		updated, err := repo.UpdateStatus(ctx, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)

		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, status, found.Status)
	}

	_, err = repo.UpdateStatus(ctx, "missing", domain.OrderStatusCompleted)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	_, err = repo.UpdateStatus(ctx, order.ID, domain.OrderStatus("shipped"))
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}

func TestOrderDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore())
	order, err := repo.Create(ctx, validNewOrder())
	require.NoError(t, err)

	deleted, err := repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, order.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderStatsOnEmptyBook(t *testing.T) {
	stats, err := NewOrderRepository(newTestStore()).Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.True(t, stats.TotalSales.IsZero())
	assert.NotNil(t, stats.RecentOrders)
	assert.Empty(t, stats.RecentOrders)
}

func TestOrderStats(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore())

	var ids []string
	for i := 0; i < 12; i++ {
		input := validNewOrder()
		input.CustomerName = fmt.Sprintf("customer-%d", i)
		input.TotalAmount = decimal.NewFromInt(int64(100 * (i + 1)))
		order, err := repo.Create(ctx, input)
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	_, err := repo.UpdateStatus(ctx, ids[0], domain.OrderStatusCompleted)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, ids[4], domain.OrderStatusCompleted)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, ids[5], domain.OrderStatusCancelled)
	require.NoError(t, err)
	_, err = repo.UpdateStatus(ctx, ids[6], domain.OrderStatusProcessing)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 12, stats.TotalOrders)
	assert.Equal(t, 2, stats.CompletedOrders)
	assert.Equal(t, 8, stats.PendingOrders)
	// only completed orders count: 100 + 500
	assert.True(t, stats.TotalSales.Equal(decimal.NewFromInt(600)), stats.TotalSales.String())

	require.Len(t, stats.RecentOrders, RecentOrdersLimit)
	assert.Equal(t, ids[11], stats.RecentOrders[0].ID)
	assert.Equal(t, ids[2], stats.RecentOrders[9].ID)
}

func TestOrderStatsFollowInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore()).(*orderRepository)

	// createdAt runs backwards, recent orders must not be resorted
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		at := base.Add(-time.Duration(i) * time.Hour)
		repo.now = func() time.Time { return at }
		order, err := repo.Create(ctx, validNewOrder())
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats.RecentOrders, 3)
	assert.Equal(t, []string{ids[2], ids[1], ids[0]}, []string{
		stats.RecentOrders[0].ID, stats.RecentOrders[1].ID, stats.RecentOrders[2].ID,
	})
}

func TestOrderFindByPhone(t *testing.T) {
	ctx := context.Background()
	repo := NewOrderRepository(newTestStore()).(*orderRepository)

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	phones := []string{"01711000000", "01811999999", "01711000000"}
	var ids []string
	for i, phone := range phones {
		at := base.Add(time.Duration(i) * time.Minute)
		repo.now = func() time.Time { return at }
		input := validNewOrder()
		input.Phone = phone
		order, err := repo.Create(ctx, input)
		require.NoError(t, err)
		ids = append(ids, order.ID)
	}

	matches, err := repo.FindByPhone(ctx, " 0171100 ")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, ids[2], matches[0].ID, "newest first")
	assert.Equal(t, ids[0], matches[1].ID)

	none, err := repo.FindByPhone(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

// Feature: storefront orders, Property 3: Totals only count completed orders
func TestProperty_StatsCountCompletedSalesOnly(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("totalSales sums completed orders and counts add up", prop.ForAll(
		func(picks []int) bool {
			ctx := context.Background()
			repo := NewOrderRepository(newTestStore())

			want := decimal.Zero
			pending, completed := 0, 0
			for i, pick := range picks {
				status := domain.OrderStatuses[pick]
				input := validNewOrder()
				input.TotalAmount = decimal.NewFromInt(int64(i + 1))
				order, err := repo.Create(ctx, input)
				if err != nil {
					return false
				}
				if _, err := repo.UpdateStatus(ctx, order.ID, status); err != nil {
					return false
				}
				switch status {
				case domain.OrderStatusPending:
					pending++
				case domain.OrderStatusCompleted:
					completed++
					want = want.Add(input.TotalAmount)
				}
			}

			stats, err := repo.Stats(ctx)
			if err != nil {
				return false
			}
			wantRecent := len(picks)
			if wantRecent > RecentOrdersLimit {
				wantRecent = RecentOrdersLimit
			}
			return stats.TotalOrders == len(picks) &&
				stats.PendingOrders == pending &&
				stats.CompletedOrders == completed &&
				stats.TotalSales.Equal(want) &&
				len(stats.RecentOrders) == wantRecent
		},
		gen.SliceOf(gen.IntRange(0, len(domain.OrderStatuses)-1)),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
