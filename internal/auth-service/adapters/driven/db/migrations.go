package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"user-auth/internal/auth-service/core/ports/driven"
	"user-auth/internal/config"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// goose keeps its base FS and dialect in package state
var gooseMu sync.Mutex

// gooseUpContext is swapped out in tests.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded schema for the database's driver.
func RunMigrations(ctx context.Context, db driven.IDB) error {
	var dialect, dir string
	switch db.Driver() {
	case config.DriverPostgres:
		dialect, dir = "pgx", "migrations/postgres"
	case config.DriverSQLite:
		dialect, dir = "sqlite3", "migrations/sqlite"
	default:
		return fmt.Errorf("no migrations for driver %q", db.Driver())
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetLogger(goose.NopLogger())

	if err := gooseUpContext(ctx, db.GetConn().DB, dir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
