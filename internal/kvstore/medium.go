// Package kvstore persists serialized documents under namespaced keys.
// A Store wraps a durable Medium and transparently degrades to a
// process-lifetime volatile map when the medium is unusable.
package kvstore

import (
	"context"
	"errors"
	"sync"
)

// ErrKeyNotFound is returned by a Medium when a key has no value
var ErrKeyNotFound = errors.New("key not found")

// Keys used by the storefront
const (
	ProductsKey = "purefood_products"
	OrdersKey   = "purefood_orders"
	CartKey     = "purefood_cart"
	AdminKey    = "purefood_admin"
	TokenKey    = "purefood_token"

	probeKey = "__test__"
)

// Medium is a durable key-value backing store
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// MemoryMedium is an in-process Medium. It never fails.
type MemoryMedium struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryMedium creates an empty in-memory medium
func NewMemoryMedium() *MemoryMedium {
	return &MemoryMedium{data: make(map[string][]byte)}
}

func (m *MemoryMedium) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *MemoryMedium) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryMedium) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}

// Len returns the number of stored keys
func (m *MemoryMedium) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
