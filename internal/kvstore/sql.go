package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"purefood/internal/database"

	"github.com/jmoiron/sqlx"
)

// SQLMedium stores documents in the kv_entries table. Queries are
// rebound per driver so the same medium serves sqlite and Postgres.
type SQLMedium struct {
	db *sqlx.DB
}

// NewSQLMedium wraps a migrated database
func NewSQLMedium(db *sqlx.DB) *SQLMedium {
	return &SQLMedium{db: db}
}

func (m *SQLMedium) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := m.db.GetContext(ctx, &value, m.db.Rebind(`SELECT value FROM kv_entries WHERE key = ?`), key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

func (m *SQLMedium) Set(ctx context.Context, key string, value []byte) error {
	query := m.db.Rebind(`
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`)

	if _, err := m.db.ExecContext(ctx, query, key, string(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (m *SQLMedium) Remove(ctx context.Context, key string) error {
	if _, err := m.db.ExecContext(ctx, m.db.Rebind(`DELETE FROM kv_entries WHERE key = ?`), key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Health reports connection statistics of the underlying database
func (m *SQLMedium) Health(ctx context.Context) map[string]string {
	return database.Health(ctx, m.db)
}

// Close closes the underlying database
func (m *SQLMedium) Close() error {
	return m.db.Close()
}
