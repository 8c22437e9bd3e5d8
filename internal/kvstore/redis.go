package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisMedium stores documents as plain Redis strings without expiry
type RedisMedium struct {
	client *redis.Client
}

// NewRedisMedium wraps a connected client
func NewRedisMedium(client *redis.Client) *RedisMedium {
	return &RedisMedium{client: client}
}

func (m *RedisMedium) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := m.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (m *RedisMedium) Set(ctx context.Context, key string, value []byte) error {
	if err := m.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (m *RedisMedium) Remove(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Health pings the server
func (m *RedisMedium) Health(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if err := m.client.Ping(ctx).Err(); err != nil {
		return map[string]string{"status": "down", "error": err.Error()}
	}
	stats := m.client.PoolStats()
	return map[string]string{
		"status":      "up",
		"total_conns": fmt.Sprint(stats.TotalConns),
		"idle_conns":  fmt.Sprint(stats.IdleConns),
	}
}

// Close closes the client
func (m *RedisMedium) Close() error {
	return m.client.Close()
}
