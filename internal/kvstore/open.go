package kvstore

import (
	"context"
	"fmt"
	"io"

	"purefood/internal/config"
	"purefood/internal/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the configured medium and wraps it in a Store. Opening
// failures are logged and leave the store on its volatile fallback.
// The returned closer releases the medium's connections.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, io.Closer) {
	medium, closer, err := openMedium(ctx, cfg, logger)
	if err != nil {
		logger.Warn("Failed to open durable storage",
			zap.String("driver", cfg.Storage.Driver),
			zap.Error(err),
		)
		return New(ctx, nil, logger), nopCloser{}
	}

	store := New(ctx, medium, logger)
	logger.Info("Storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.Bool("durable", store.Durable()),
	)
	return store, closer
}

func openMedium(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Medium, io.Closer, error) {
	switch cfg.Storage.Driver {
	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db.DB, database.DialectSQLite, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		m := NewSQLMedium(db)
		return m, m, nil

	case config.DriverPostgres:
		db, err := database.OpenPostgres(ctx, database.PostgresDSN(cfg.Database))
		if err != nil {
			return nil, nil, err
		}
		if err := database.RunMigrations(db.DB, database.DialectPostgres, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		m := NewSQLMedium(db)
		return m, m, nil

	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		m := NewRedisMedium(client)
		return m, m, nil

	case config.DriverMemory:
		return NewMemoryMedium(), nopCloser{}, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}
