// Package main is the entry point for the Itemhub server. It loads
// configuration, establishes database connections, applies migrations,
// wires together all plugins, and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keyxmakerx/itemhub/internal/app"
	"github.com/keyxmakerx/itemhub/internal/config"
	"github.com/keyxmakerx/itemhub/internal/database"
)

func main() {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	// Configure structured logging based on environment.
	setupLogging(cfg)

	if cfg.IsProduction() && cfg.UsesDevJWTSecret() {
		slog.Warn("JWT_SECRET is not set; using the insecure development secret")
	}

	slog.Info("starting Itemhub",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("db_driver", cfg.Database.Driver),
	)

	if err := run(cfg); err != nil {
		slog.Error("server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
}

// shutdownTimeout is how long in-flight requests get to finish after a
// shutdown signal.
const shutdownTimeout = 10 * time.Second

// run owns every resource so deferred closes execute before the process
// exits, and only after the server has drained.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Connect to SQL database ---
	db, err := database.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("connected to database", slog.String("dialect", db.Dialect.String()))

	// --- Apply migrations ---
	if err := database.RunMigrations(db, cfg.Database.MigrationsPath); err != nil {
		return err
	}

	// --- Connect to Redis ---
	rdb, err := database.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Create Application ---
	application := app.New(cfg, db, rdb)
	application.RegisterRoutes()

	return serve(ctx, application, shutdownTimeout)
}

// server is what serve drives; *app.App satisfies it.
type server interface {
	Start() error
	Shutdown(ctx context.Context) error
}

// serve runs srv until ctx is canceled, then gives in-flight requests up to
// drain to finish. It returns only once the server has fully stopped, and
// reports a Start failure (such as a busy port) as an error.
func serve(ctx context.Context, srv server, drain time.Duration) error {
	startErr := make(chan error, 1)
	go func() { startErr <- srv.Start() }()

	select {
	case err := <-startErr:
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("starting server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server...", slog.Duration("drain", drain))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	if err := <-startErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// setupLogging configures the global slog logger based on the environment.
// Development uses text format for readability. Production uses JSON for
// structured log aggregation. LOG_LEVEL overrides the default level.
func setupLogging(cfg *config.Config) {
	var handler slog.Handler
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}

	if cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
