package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"purefood/internal/cart"
	"purefood/internal/domain"

	"go.uber.org/zap"
)

var ErrCartEmpty = errors.New("cart is empty")

// CheckoutDetails is what the customer types into the checkout form
type CheckoutDetails struct {
	CustomerName string
	Phone        string
	Address      string
	Notes        string
}

// CheckoutService turns the cart into a cash-on-delivery order
type CheckoutService struct {
	backend Backend
	logger  *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(backend Backend, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{backend: backend, logger: logger}
}

// PlaceOrder snapshots the cart into an order. The cart is cleared only
// after the backend accepted the order.
func (s *CheckoutService) PlaceOrder(ctx context.Context, basket *cart.Manager, details CheckoutDetails) (*domain.Order, error) {
	lines := basket.Items()
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, line.OrderItem())
	}

	input := domain.NewOrder{
		CustomerName: strings.TrimSpace(details.CustomerName),
		Phone:        strings.TrimSpace(details.Phone),
		Address:      strings.TrimSpace(details.Address),
		Notes:        strings.TrimSpace(details.Notes),
		Items:        items,
		TotalAmount:  basket.Total(),
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	order, err := s.backend.CreateOrder(ctx, input)
	if err != nil {
		s.logger.Warn("Order placement failed", zap.Error(err))
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	basket.Clear(ctx)
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID),
		zap.String("total", order.TotalAmount.String()),
		zap.Int("lines", len(order.Items)),
	)
	return order, nil
}
