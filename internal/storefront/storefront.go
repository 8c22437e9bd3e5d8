// Package storefront wires the client-side state: backend, cart, admin
// session and checkout.
package storefront

import (
	"context"
	"fmt"
	"io"
	"time"

	"purefood/internal/cart"
	"purefood/internal/config"
	"purefood/internal/domain"
	"purefood/internal/kvstore"
	"purefood/internal/remote"
	"purefood/internal/repository"
	"purefood/internal/service"
	"purefood/internal/session"

	"go.uber.org/zap"
)

type App struct {
	Backend  service.Backend
	Cart     *cart.Manager
	Session  *session.Gate
	Checkout *service.CheckoutService
	Store    *kvstore.Store

	mode    string
	storage io.Closer
	logger  *zap.Logger
}

// New opens the local store and selects the backend variant. The choice
// is fixed for the lifetime of the App.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, storage := kvstore.Open(ctx, cfg, logger)

	app, err := NewWithStore(ctx, cfg, store, logger)
	if err != nil {
		storage.Close()
		return nil, err
	}
	app.storage = storage
	return app, nil
}

// NewWithStore builds the App over an already opened store
func NewWithStore(ctx context.Context, cfg *config.Config, store *kvstore.Store, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	backend, err := newBackend(ctx, cfg, store, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Storefront ready",
		zap.String("backend", cfg.Backend.Mode),
		zap.Bool("durable", store.Durable()),
	)

	return &App{
		Backend:  backend,
		Cart:     cart.New(ctx, store, logger),
		Session:  session.NewGate(store, kvstore.NewVolatile(logger), logger),
		Checkout: service.NewCheckoutService(backend, logger),
		Store:    store,
		mode:     cfg.Backend.Mode,
		logger:   logger,
	}, nil
}

func newBackend(ctx context.Context, cfg *config.Config, store *kvstore.Store, logger *zap.Logger) (service.Backend, error) {
	switch cfg.Backend.Mode {
	case config.BackendLocal:
		admins := repository.NewAdminRepository(store)
		admins.Init(ctx)
		expiry := time.Duration(cfg.JWT.AccessExpiry) * time.Minute
		return service.NewLocalBackend(
			repository.NewProductRepository(store),
			repository.NewOrderRepository(store),
			service.NewAuthService(admins, cfg.JWT.Secret, expiry),
		), nil

	case config.BackendRemote:
		if cfg.Backend.RemoteURL == "" {
			return nil, fmt.Errorf("remote backend selected without BACKEND_REMOTE_URL")
		}
		return remote.NewClient(cfg.Backend.RemoteURL, store, logger), nil
	}

	return nil, fmt.Errorf("unknown backend mode %q", cfg.Backend.Mode)
}

// Mode returns the selected backend variant
func (a *App) Mode() string {
	return a.mode
}

// AddToCart looks the product up and adds qty units after the stock check
func (a *App) AddToCart(ctx context.Context, productID string, qty int) (*domain.Product, error) {
	product, err := a.Backend.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := a.Cart.CheckStock(*product, qty); err != nil {
		return nil, err
	}
	if err := a.Cart.Add(ctx, *product, qty); err != nil {
		return nil, err
	}
	return product, nil
}

// SetCartQuantity overwrites a line's quantity. Raising it is checked
// against current stock; zero or less removes the line. A positive
// quantity for a product not in the cart is ErrNotInCart.
func (a *App) SetCartQuantity(ctx context.Context, productID string, qty int) error {
	current := a.Cart.Quantity(productID)
	if current == 0 && qty > 0 {
		return fmt.Errorf("%s: %w", productID, cart.ErrNotInCart)
	}
	if qty > current {
		product, err := a.Backend.GetProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := a.Cart.CheckStock(*product, qty-current); err != nil {
			return err
		}
	}
	a.Cart.SetQuantity(ctx, productID, qty)
	return nil
}

// PlaceOrder checks out the current cart
func (a *App) PlaceOrder(ctx context.Context, details service.CheckoutDetails) (*domain.Order, error) {
	return a.Checkout.PlaceOrder(ctx, a.Cart, details)
}

// Close releases the local store
func (a *App) Close() error {
	if a.storage == nil {
		return nil
	}
	return a.storage.Close()
}
