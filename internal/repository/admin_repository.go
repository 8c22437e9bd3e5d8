package repository

import (
	"context"
	"sync"

	"purefood/internal/domain"
	"purefood/internal/kvstore"
)

// Default credentials seeded on first run
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "admin123"
)

// AdminRepository checks credentials against the singleton admin record.
// The record is kept and compared in plaintext, with no lockout.
type AdminRepository interface {
	Init(ctx context.Context) bool
	Verify(ctx context.Context, username, password string) bool
}

type adminRepository struct {
	store *kvstore.Store

	mu   sync.Mutex
	last *domain.AdminCredentials
}

// NewAdminRepository creates a new instance of AdminRepository
func NewAdminRepository(store *kvstore.Store) AdminRepository {
	return &adminRepository{store: store}
}

func defaultAdmin() domain.AdminCredentials {
	return domain.AdminCredentials{
		Username: DefaultAdminUsername,
		Password: DefaultAdminPassword,
	}
}

func (r *adminRepository) remember(admin domain.AdminCredentials) {
	r.mu.Lock()
	r.last = &admin
	r.mu.Unlock()
}

// Init seeds the default record when none exists and reports whether it did
func (r *adminRepository) Init(ctx context.Context) bool {
	var existing domain.AdminCredentials
	if r.store.GetJSON(ctx, kvstore.AdminKey, &existing) {
		r.remember(existing)
		return false
	}
	admin := defaultAdmin()
	r.store.SetJSON(ctx, kvstore.AdminKey, admin)
	r.remember(admin)
	return true
}

// Verify reports whether both fields exactly match the stored record.
// Once the store has lost its durable medium the record is restored into
// the in-memory fallback from the last one seen, or the defaults.
func (r *adminRepository) Verify(ctx context.Context, username, password string) bool {
	var admin domain.AdminCredentials
	if r.store.GetJSON(ctx, kvstore.AdminKey, &admin) {
		r.remember(admin)
	} else {
		if r.store.Durable() {
			return false
		}
		admin = r.restore(ctx)
	}
	return admin.Username == username && admin.Password == password
}

func (r *adminRepository) restore(ctx context.Context) domain.AdminCredentials {
	r.mu.Lock()
	admin := defaultAdmin()
	if r.last != nil {
		admin = *r.last
	}
	r.mu.Unlock()

	r.store.SetJSON(ctx, kvstore.AdminKey, admin)
	return admin
}
