// Package database provides connection setup for the SQL database (MariaDB/
// MySQL or PostgreSQL) and Redis. Connections are created once at startup and
// shared across the application via dependency injection. This package owns
// the connection lifecycle (open, configure pool, ping, close) and the small
// amount of dialect glue the repositories need.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	// SQL drivers -- imported for side effect of registering them.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/keyxmakerx/itemhub/internal/config"
)

// DB is the shared connection pool plus the dialect it speaks. Repositories
// write queries with "?" placeholders and run them through Rebind.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Wrap pairs an already-open *sql.DB with its dialect. Used by tests that
// build the pool with sqlmock.
func Wrap(db *sql.DB, dialect Dialect) *DB {
	return &DB{DB: db, Dialect: dialect}
}

// Open creates a connection pool configured with the settings from the
// provided config. It pings the database to verify connectivity before
// returning.
func Open(cfg config.DatabaseConfig) (*DB, error) {
	dialect := DialectFor(cfg.Driver)

	db, err := sql.Open(dialect.DriverName(), cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening %s connection: %w", dialect, err)
	}

	// Configure connection pool settings to prevent connection exhaustion
	// and stale connections under load.
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Retry with exponential backoff -- the database may still be starting
	// up when the app container launches.
	const maxRetries = 10
	backoff := 1 * time.Second
	var pingErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pingErr = db.PingContext(ctx)
		cancel()

		if pingErr == nil {
			return Wrap(db, dialect), nil
		}

		if attempt == maxRetries {
			break
		}

		slog.Warn("database not ready, retrying...",
			slog.String("dialect", dialect.String()),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", maxRetries),
			slog.Duration("backoff", backoff),
			slog.Any("error", pingErr),
		)
		time.Sleep(backoff)
		backoff = min(backoff*2, 30*time.Second)
	}

	db.Close()
	return nil, fmt.Errorf("pinging %s after %d attempts: %w", dialect, maxRetries, pingErr)
}

// Rebind is shorthand for db.Dialect.Rebind.
func (db *DB) Rebind(query string) string {
	return db.Dialect.Rebind(query)
}
