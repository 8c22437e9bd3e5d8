package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every known status
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ParseOrderStatus converts a raw string into a known status
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// OrderItem is a snapshot of a product taken at checkout time
type OrderItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal returns price times quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order represents a placed cash-on-delivery order
type Order struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Items        []OrderItem     `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Status       OrderStatus     `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	Notes        string          `json:"notes,omitempty"`
}

// NewOrder carries the checkout data used to create an order
type NewOrder struct {
	CustomerName string          `json:"customerName" validate:"required"`
	Phone        string          `json:"phone" validate:"required"`
	Address      string          `json:"address" validate:"required"`
	Items        []OrderItem     `json:"items"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Notes        string          `json:"notes,omitempty"`
}

// Validate reports the first missing customer field, in form order, then
// rejects negative amounts
func (n NewOrder) Validate() error {
	trimmed := NewOrder{
		CustomerName: strings.TrimSpace(n.CustomerName),
		Phone:        strings.TrimSpace(n.Phone),
		Address:      strings.TrimSpace(n.Address),
	}
	if err := validate.Struct(trimmed); err != nil {
		return firstValidationError(err, orderFieldErrors)
	}
	if n.TotalAmount.IsNegative() {
		return ErrNegativeTotal
	}
	for _, item := range n.Items {
		if item.Price.IsNegative() {
			return ErrNegativeItemPrice
		}
	}
	return nil
}

// ItemsTotal returns the sum of price times quantity over the items
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// SalesStats summarises the order book for the admin dashboard
type SalesStats struct {
	TotalOrders     int             `json:"totalOrders"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	PendingOrders   int             `json:"pendingOrders"`
	CompletedOrders int             `json:"completedOrders"`
	RecentOrders    []*Order        `json:"recentOrders"`
}
