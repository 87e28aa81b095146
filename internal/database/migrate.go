package database

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"

	// File source driver for reading migration files from disk.
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// RunMigrations applies all pending migrations for db's dialect. root is the
// directory containing one sub-directory per dialect (mysql/, postgres/).
// Safe to call on every startup -- already-applied migrations are skipped.
func RunMigrations(db *DB, root string) error {
	var (
		driver migratedb.Driver
		name   string
		err    error
	)
	switch db.Dialect {
	case Postgres:
		driver, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
		name = "pgx5"
	default:
		driver, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
		name = "mysql"
	}
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	dir := filepath.Join(root, db.Dialect.String())
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, name, driver)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	slog.Info("migrations applied",
		slog.String("dialect", db.Dialect.String()),
		slog.Uint64("version", uint64(version)),
		slog.Bool("dirty", dirty),
	)

	return nil
}
