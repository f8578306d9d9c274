package db

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"user-auth/internal/config"
	"user-auth/internal/mylogger"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

type DB struct {
	ctx    context.Context
	cfg    *config.DBconfig
	mylog  mylogger.Logger
	conn   *sqlx.DB
	driver string
}

// Start opens the configured database and retries until it answers a ping.
func Start(ctx context.Context, dbCfg *config.DBconfig, mylog mylogger.Logger) (*DB, error) {
	d := &DB{
		ctx:    ctx,
		cfg:    dbCfg,
		mylog:  mylog,
		driver: dbCfg.Driver,
	}

	if err := d.connect(); err != nil {
		return nil, err
	}

	return d, nil
}

// FromConn wraps an already opened handle. Used by tests.
func FromConn(conn *sqlx.DB, driver string) *DB {
	return &DB{
		ctx:    context.Background(),
		mylog:  mylogger.NewNop(),
		conn:   conn,
		driver: driver,
	}
}

func (d *DB) GetConn() *sqlx.DB {
	return d.conn
}

func (d *DB) Driver() string {
	return d.driver
}

// Close closes the connection pool
func (d *DB) Close() error {
	if d.conn == nil {
		return nil
	}
	if err := d.conn.Close(); err != nil {
		return fmt.Errorf("close database connection: %v", err)
	}
	return nil
}

// IsAlive pings the DB to verify it's responsive
func (d *DB) IsAlive(ctx context.Context) error {
	if d.conn == nil {
		return fmt.Errorf("DB is not initialized")
	}
	if err := d.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	return nil
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "pgx", nil
	case config.DriverSQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// connect establishes the pool with retry logic
func (d *DB) connect() error {
	driverName, err := sqlDriverName(d.cfg.Driver)
	if err != nil {
		return err
	}

	if d.cfg.Driver == config.DriverSQLite {
		if dir := filepath.Dir(d.cfg.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create sqlite directory: %w", err)
			}
		}
	}

	var lastErr error
	for i := 0; i < d.cfg.MaxRetries; i++ {
		conn, err := sqlx.Open(driverName, d.cfg.DSN())
		if err == nil {
			err = conn.PingContext(d.ctx)
			if err != nil {
				_ = conn.Close()
			}
		}
		if err != nil {
			lastErr = fmt.Errorf("failed to connect to database: %w", err)
			d.mylog.Error(fmt.Sprintf("DB connection attempt %d failed", i+1), err)

			select {
			case <-d.ctx.Done():
				return d.ctx.Err()
			case <-time.After(time.Second * time.Duration(i+1)):
			}
			continue
		}

		// sqlite allows a single writer
		if d.cfg.Driver == config.DriverSQLite {
			conn.SetMaxOpenConns(1)
		}

		d.conn = conn
		d.mylog.Info("Successfully connected to the database", "driver", d.cfg.Driver)
		return nil
	}

	return fmt.Errorf("failed to connect to the database after %d attempts: %w", d.cfg.MaxRetries, lastErr)
}
