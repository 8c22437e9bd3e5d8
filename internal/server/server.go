package server

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"purefood/internal/config"
	"purefood/internal/kvstore"
	custommiddleware "purefood/internal/middleware"
	"purefood/internal/repository"
	"purefood/internal/service"
	"purefood/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config  *config.Config
	logger  *zap.Logger
	storage io.Closer
	limiter *redis.Client
}

// NewServer wires the storefront API over store. storage is closed with
// the server.
func NewServer(cfg *config.Config, logger *zap.Logger, store *kvstore.Store, storage io.Closer) *Server {
	var limiter *redis.Client
	if cfg.RateLimit.Enabled {
		limiter = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      otelhttp.NewHandler(NewRouter(cfg, logger, store, limiter), "purefood-api"),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config:  cfg,
		logger:  logger,
		storage: storage,
		limiter: limiter,
	}
}

// NewRouter builds the API routes. limiter may be nil to disable rate
// limiting.
func NewRouter(cfg *config.Config, logger *zap.Logger, store *kvstore.Store, limiter *redis.Client) chi.Router {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.Env == "development"))
	if limiter != nil {
		router.Use(custommiddleware.RateLimitMiddleware(limiter, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "purefood:ratelimit",
		}, logger))
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := store.Health(r.Context())
		health["status"] = "ok"
		custommiddleware.RespondWithJSON(w, http.StatusOK, health)
	})

	// Initialize repositories
	productRepo := repository.NewProductRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	adminRepo := repository.NewAdminRepository(store)

	// Initialize services
	expiry := time.Duration(cfg.JWT.AccessExpiry) * time.Minute
	authService := service.NewAuthService(adminRepo, cfg.JWT.Secret, expiry)
	backend := service.NewLocalBackend(productRepo, orderRepo, authService)

	// Create auth middleware
	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	// Register routes
	transport.NewAuthHandler(authService, logger).RegisterRoutes(router)
	transport.NewProductHandler(backend, logger).RegisterRoutes(router, authMiddleware)
	transport.NewOrderHandler(backend, logger).RegisterRoutes(router, authMiddleware)

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.limiter != nil {
		if err := s.limiter.Close(); err != nil {
			s.logger.Error("Failed to close rate limit client", zap.Error(err))
		}
	}

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			s.logger.Error("Failed to close storage", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
