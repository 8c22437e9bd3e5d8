package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"purefood/internal/config"
	"purefood/internal/kvstore"
	"purefood/internal/logger"
	"purefood/internal/repository"
	"purefood/internal/server"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

// prepareStorage opens the store and makes sure the admin record and,
// when requested, the sample catalog exist.
func prepareStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*server.Server, error) {
	store, storage := kvstore.Open(ctx, cfg, log)

	if repository.NewAdminRepository(store).Init(ctx) {
		log.Info("Default admin credentials stored", zap.String("username", repository.DefaultAdminUsername))
	}

	if cfg.Storage.SeedSamples {
		seeded, err := repository.NewProductRepository(store).SeedSamples(ctx)
		if err != nil {
			storage.Close()
			return nil, fmt.Errorf("failed to seed sample products: %w", err)
		}
		log.Info("Sample catalog seeded", zap.Int("products", seeded))
	}

	return server.NewServer(cfg, log, store, storage), nil
}

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting purefood API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := prepareStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to prepare storage", zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})

	// Stops on a signal or when the listener fails
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully, press Ctrl+C again to force")
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Server forced to shutdown", zap.Error(err))
		}
		return srv.Close()
	})

	if err := g.Wait(); err != nil {
		log.Fatal("Server stopped with error", zap.Error(err))
	}
	log.Info("Graceful shutdown complete")
}
