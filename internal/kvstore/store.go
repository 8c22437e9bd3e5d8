package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Store is the storage adapter used by repositories. Callers never see
// medium failures: the first failing call switches the store to its
// volatile fallback for the rest of the process lifetime.
type Store struct {
	mu       sync.RWMutex
	medium   Medium
	volatile *MemoryMedium
	durable  bool
	logger   *zap.Logger
}

// New probes medium with a write and delete. A nil medium or a failed
// probe selects the volatile fallback.
func New(ctx context.Context, medium Medium, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		medium:   medium,
		volatile: NewMemoryMedium(),
		logger:   logger,
	}

	if medium == nil {
		logger.Warn("No durable storage configured, using in-memory storage")
		return s
	}

	if err := probe(ctx, medium); err != nil {
		logger.Warn("Durable storage unavailable, using in-memory storage", zap.Error(err))
		return s
	}

	s.durable = true
	return s
}

// NewVolatile creates a store that only keeps data in memory
func NewVolatile(logger *zap.Logger) *Store {
	return New(context.Background(), NewMemoryMedium(), logger)
}

func probe(ctx context.Context, medium Medium) error {
	if err := medium.Set(ctx, probeKey, []byte(probeKey)); err != nil {
		return err
	}
	return medium.Remove(ctx, probeKey)
}

// Durable reports whether the durable medium is still in use
func (s *Store) Durable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.durable
}

type healthChecker interface {
	Health(ctx context.Context) map[string]string
}

// Health describes the active medium. Media that can report on their
// connection add their own entries.
func (s *Store) Health(ctx context.Context) map[string]string {
	medium, durable := s.active()
	if !durable {
		return map[string]string{"storage": "volatile"}
	}

	health := map[string]string{"storage": "durable"}
	if checker, ok := medium.(healthChecker); ok {
		for k, v := range checker.Health(ctx) {
			health["medium_"+k] = v
		}
	}
	return health
}

func (s *Store) active() (Medium, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.durable {
		return s.medium, true
	}
	return s.volatile, false
}

func (s *Store) degrade(op, key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.durable {
		return
	}
	s.durable = false
	s.logger.Warn("Durable storage failed, switching to in-memory storage",
		zap.String("operation", op),
		zap.String("key", key),
		zap.Error(err),
	)
}

// Get returns the raw value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	medium, durable := s.active()
	value, err := medium.Get(ctx, key)
	if err == nil {
		return value, true
	}
	if errors.Is(err, ErrKeyNotFound) || !durable {
		return nil, false
	}

	s.degrade("get", key, err)
	value, err = s.volatile.Get(ctx, key)
	return value, err == nil
}

// Set stores value under key
func (s *Store) Set(ctx context.Context, key string, value []byte) {
	medium, durable := s.active()
	err := medium.Set(ctx, key, value)
	if err == nil || !durable {
		return
	}

	s.degrade("set", key, err)
	_ = s.volatile.Set(ctx, key, value)
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(ctx context.Context, key string) {
	medium, durable := s.active()
	err := medium.Remove(ctx, key)
	if err == nil || errors.Is(err, ErrKeyNotFound) || !durable {
		return
	}

	s.degrade("remove", key, err)
	_ = s.volatile.Remove(ctx, key)
}

// GetJSON decodes the document under key into v. Undecodable documents
// are reported as absent.
func (s *Store) GetJSON(ctx context.Context, key string, v any) bool {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("Discarding undecodable stored document",
			zap.String("key", key),
			zap.Error(err),
		)
		return false
	}
	return true
}

// SetJSON encodes v and stores it under key
func (s *Store) SetJSON(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("Failed to encode document", zap.String("key", key), zap.Error(err))
		return
	}
	s.Set(ctx, key, raw)
}
