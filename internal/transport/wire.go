package transport

import (
	"time"

	"purefood/internal/domain"

	"github.com/shopspring/decimal"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the bearer token for admin calls
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// MessageResponse is returned by deletes
type MessageResponse struct {
	Message string `json:"message"`
}

// ProductResponse is the wire form of a product
type ProductResponse struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewProductResponse converts a product to its wire form
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		Category:    p.Category,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

// Product converts the wire form back to a product
func (r ProductResponse) Product() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Image:       r.Image,
		Category:    r.Category,
		Stock:       r.Stock,
		CreatedAt:   r.CreatedAt,
	}
}

// CustomerDetails groups the delivery contact of an order
type CustomerDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderItemRequest is one order line as sent by the client
type OrderItemRequest struct {
	ProductID   string          `json:"productId" validate:"required"`
	ProductName string          `json:"productName"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" validate:"gte=1"`
}

// CreateOrderRequest accepts customer fields either flat or grouped
// under customerDetails
type CreateOrderRequest struct {
	CustomerName    string             `json:"customerName"`
	Phone           string             `json:"phone"`
	Address         string             `json:"address"`
	CustomerDetails *CustomerDetails   `json:"customerDetails,omitempty"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	Notes           string             `json:"notes,omitempty"`
}

// NewCreateOrderRequest builds the request body for a new order
func NewCreateOrderRequest(o domain.NewOrder) CreateOrderRequest {
	items := make([]OrderItemRequest, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemRequest(item))
	}
	return CreateOrderRequest{
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		Notes:        o.Notes,
	}
}

// NewOrder resolves the customer fields and returns the domain input
func (r CreateOrderRequest) NewOrder() domain.NewOrder {
	order := domain.NewOrder{
		CustomerName: r.CustomerName,
		Phone:        r.Phone,
		Address:      r.Address,
		TotalAmount:  r.TotalAmount,
		Notes:        r.Notes,
	}
	if d := r.CustomerDetails; d != nil {
		order.CustomerName = firstNonEmpty(d.Name, order.CustomerName)
		order.Phone = firstNonEmpty(d.Phone, order.Phone)
		order.Address = firstNonEmpty(d.Address, order.Address)
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, domain.OrderItem(item))
	}
	return order
}

// UpdateStatusRequest represents the order status change payload
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed cancelled"`
}

// OrderResponse is the wire form of an order. Customer fields are sent
// both grouped and flat.
type OrderResponse struct {
	ID              string             `json:"_id"`
	CustomerDetails CustomerDetails    `json:"customerDetails"`
	CustomerName    string             `json:"customerName,omitempty"`
	Phone           string             `json:"phone,omitempty"`
	Address         string             `json:"address,omitempty"`
	Items           []OrderItemRequest `json:"items"`
	TotalAmount     decimal.Decimal    `json:"totalAmount"`
	Status          domain.OrderStatus `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
	Notes           string             `json:"notes,omitempty"`
}

// NewOrderResponse converts an order to its wire form
func NewOrderResponse(o *domain.Order) OrderResponse {
	items := make([]OrderItemRequest, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemRequest(item))
	}
	return OrderResponse{
		ID: o.ID,
		CustomerDetails: CustomerDetails{
			Name:    o.CustomerName,
			Phone:   o.Phone,
			Address: o.Address,
		},
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		Items:        items,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		CreatedAt:    o.CreatedAt,
		Notes:        o.Notes,
	}
}

// Order converts the wire form back to an order, preferring the grouped
// customer fields
func (r OrderResponse) Order() *domain.Order {
	items := make([]domain.OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, domain.OrderItem(item))
	}
	return &domain.Order{
		ID:           r.ID,
		CustomerName: firstNonEmpty(r.CustomerDetails.Name, r.CustomerName),
		Phone:        firstNonEmpty(r.CustomerDetails.Phone, r.Phone),
		Address:      firstNonEmpty(r.CustomerDetails.Address, r.Address),
		Items:        items,
		TotalAmount:  r.TotalAmount,
		Status:       r.Status,
		CreatedAt:    r.CreatedAt,
		Notes:        r.Notes,
	}
}

// StatsResponse is the wire form of the sales summary
type StatsResponse struct {
	TotalOrders     int             `json:"totalOrders"`
	TotalSales      decimal.Decimal `json:"totalSales"`
	PendingOrders   int             `json:"pendingOrders"`
	CompletedOrders int             `json:"completedOrders"`
	RecentOrders    []OrderResponse `json:"recentOrders"`
}

// NewStatsResponse converts sales stats to their wire form
func NewStatsResponse(s *domain.SalesStats) StatsResponse {
	recent := make([]OrderResponse, 0, len(s.RecentOrders))
	for _, o := range s.RecentOrders {
		recent = append(recent, NewOrderResponse(o))
	}
	return StatsResponse{
		TotalOrders:     s.TotalOrders,
		TotalSales:      s.TotalSales,
		PendingOrders:   s.PendingOrders,
		CompletedOrders: s.CompletedOrders,
		RecentOrders:    recent,
	}
}

// SalesStats converts the wire form back to sales stats
func (r StatsResponse) SalesStats() *domain.SalesStats {
	recent := make([]*domain.Order, 0, len(r.RecentOrders))
	for _, o := range r.RecentOrders {
		recent = append(recent, o.Order())
	}
	return &domain.SalesStats{
		TotalOrders:     r.TotalOrders,
		TotalSales:      r.TotalSales,
		PendingOrders:   r.PendingOrders,
		CompletedOrders: r.CompletedOrders,
		RecentOrders:    recent,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
