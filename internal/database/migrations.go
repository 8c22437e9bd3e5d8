package database

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Goose dialects for the supported SQL media
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

// RunMigrations executes all pending database migrations
func RunMigrations(db *sql.DB, dialect string, logger *zap.Logger) error {
	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info("Checking for pending migrations...",
		zap.String("dir", migrationsDir),
		zap.String("dialect", dialect),
	)

	if err := goose.Up(db, migrationsDir); err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("Migrations completed successfully")
	return nil
}
