package kvstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"purefood/internal/config"
	"purefood/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// exerciseMedium runs the shared Medium contract
func exerciseMedium(t *testing.T, medium Medium) {
	t.Helper()
	ctx := context.Background()

	_, err := medium.Get(ctx, ProductsKey)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, medium.Set(ctx, ProductsKey, []byte(`[{"id":"a"}]`)))
	value, err := medium.Get(ctx, ProductsKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, string(value))

	require.NoError(t, medium.Set(ctx, ProductsKey, []byte(`[]`)))
	value, err = medium.Get(ctx, ProductsKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(value))

	require.NoError(t, medium.Remove(ctx, ProductsKey))
	_, err = medium.Get(ctx, ProductsKey)
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, medium.Remove(ctx, "never-set"))

	store := New(ctx, medium, zap.NewNop())
	assert.True(t, store.Durable())
}

func TestMemoryMedium(t *testing.T) {
	exerciseMedium(t, NewMemoryMedium())
}

func TestSQLMediumOnSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db.DB, database.DialectSQLite, zap.NewNop()))

	exerciseMedium(t, NewSQLMedium(db))
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Storage: config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "purefood.db"),
	}}

	store, closer := Open(ctx, cfg, zap.NewNop())
	require.True(t, store.Durable())
	store.Set(ctx, CartKey, []byte(`[{"quantity":2}]`))
	require.NoError(t, closer.Close())

	reopened, closer := Open(ctx, cfg, zap.NewNop())
	defer closer.Close()
	value, ok := reopened.Get(ctx, CartKey)
	require.True(t, ok)
	assert.Equal(t, `[{"quantity":2}]`, string(value))
}

func TestStoreHealthReportsMedium(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Storage: config.StorageConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "health.db"),
	}}
	store, closer := Open(ctx, cfg, zap.NewNop())
	defer closer.Close()

	health := store.Health(ctx)
	assert.Equal(t, "durable", health["storage"])
	assert.Equal(t, "up", health["medium_status"])

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	redisStore := New(ctx, NewRedisMedium(client), zap.NewNop())
	assert.Equal(t, "up", redisStore.Health(ctx)["medium_status"])

	assert.Equal(t, map[string]string{"storage": "volatile"}, NewVolatile(zap.NewNop()).Health(ctx))
}

func TestOpenDegradesOnUnusableMedium(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		Storage: config.StorageConfig{Driver: config.DriverRedis},
		Redis:   config.RedisConfig{Host: "127.0.0.1", Port: "1"},
	}

	store, closer := Open(ctx, cfg, zap.NewNop())
	defer closer.Close()

	assert.False(t, store.Durable())
	store.Set(ctx, AdminKey, []byte("x"))
	_, ok := store.Get(ctx, AdminKey)
	assert.True(t, ok)
}

func TestOpenUnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "floppy"}}
	store, closer := Open(context.Background(), cfg, zap.NewNop())
	defer closer.Close()
	assert.False(t, store.Durable())
}

func TestRedisMedium(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	medium := NewRedisMedium(client)
	t.Cleanup(func() { medium.Close() })

	exerciseMedium(t, medium)
}

func TestRedisMediumFailureDegradesStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := New(ctx, NewRedisMedium(client), zap.NewNop())
	require.True(t, store.Durable())

	mr.Close()
	store.Set(ctx, OrdersKey, []byte(`[]`))

	assert.False(t, store.Durable())
	value, ok := store.Get(ctx, OrdersKey)
	require.True(t, ok)
	assert.Equal(t, `[]`, string(value))
}

func TestSQLMediumOnPostgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Skipf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.OpenPostgres(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.RunMigrations(db.DB, database.DialectPostgres, zap.NewNop()))

	exerciseMedium(t, NewSQLMedium(db))
}
