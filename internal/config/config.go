// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development, and a local
// .env file is honoured when present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// DevJWTSecret is used when JWT_SECRET is unset. Tokens signed with it are
// forgeable by anyone who has read this file.
const DevJWTSecret = "dev-secret-key-change-in-production"

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 3000).
	Port int

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// ClientURL is the single browser origin allowed by CORS.
	ClientURL string

	// Database holds SQL connection settings.
	Database DatabaseConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Auth holds authentication-related settings.
	Auth AuthConfig

	// Posts holds blog feed settings.
	Posts PostsConfig
}

// DatabaseConfig holds SQL connection parameters. Individual fields are read
// from separate env vars; if DATABASE_URL is set, it takes precedence.
type DatabaseConfig struct {
	// Driver is "mysql" (MariaDB/MySQL) or "postgres".
	Driver string

	// Host is the database address, with or without a port.
	Host string

	User     string
	Password string
	Name     string

	// dsnOverride is set when DATABASE_URL is provided, bypassing individual fields.
	dsnOverride string

	// MigrationsPath is the root directory holding one sub-directory of
	// migrations per driver (db/migrations/mysql, db/migrations/postgres).
	MigrationsPath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the driver-specific connection string. If DATABASE_URL was
// set, it is returned as-is.
func (d DatabaseConfig) DSN() string {
	if d.dsnOverride != "" {
		return d.dsnOverride
	}

	if d.Driver == DriverPostgres {
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(d.User, d.Password),
			Host:     ensurePort(d.Host, "5432"),
			Path:     "/" + d.Name,
			RawQuery: "sslmode=disable",
		}
		return u.String()
	}

	// Use the driver's FormatDSN to safely handle special characters.
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string

	// PingTimeout bounds the startup connectivity check.
	PingTimeout time.Duration
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// JWTSecret is the HMAC key for session tokens.
	JWTSecret string
}

// PostsConfig holds blog feed settings.
type PostsConfig struct {
	// CacheTTL bounds how stale the cached feed may be.
	CacheTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error for values that cannot work at all (unknown driver).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	cfg := &Config{
		Env:       getEnv("ENV", "development"),
		Port:      getEnvInt("PORT", 3000),
		LogLevel:  getEnv("LOG_LEVEL", ""),
		ClientURL: getEnv("CLIENT_URL", "http://localhost:5173"),

		Database: DatabaseConfig{
			Driver:          strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
			Host:            getEnv("DB_HOST", "localhost"),
			User:            getEnv("DB_USER", "itemhub"),
			Password:        getEnv("DB_PASSWORD", "itemhub"),
			Name:            getEnv("DB_NAME", "itemhub"),
			dsnOverride:     getEnv("DATABASE_URL", ""),
			MigrationsPath:  getEnv("MIGRATIONS_PATH", "db/migrations"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL:         getEnv("REDIS_URL", "redis://localhost:6379"),
			PingTimeout: getEnvDuration("REDIS_PING_TIMEOUT", 3*time.Second),
		},

		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
		},

		Posts: PostsConfig{
			CacheTTL: getEnvDuration("POSTS_CACHE_TTL", 30*time.Second),
		},
	}

	switch cfg.Database.Driver {
	case DriverMySQL, DriverPostgres:
	case "postgresql", "pgx":
		cfg.Database.Driver = DriverPostgres
	case "mariadb":
		cfg.Database.Driver = DriverMySQL
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want mysql or postgres)", cfg.Database.Driver)
	}

	// Fall back to the dev secret so local setups work without a .env. The
	// caller warns about it once logging is configured.
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DevJWTSecret
	}

	return cfg, nil
}

// UsesDevJWTSecret reports whether tokens are signed with the built-in
// development secret.
func (c *Config) UsesDevJWTSecret() bool {
	return c.Auth.JWTSecret == DevJWTSecret
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// IsProduction returns true if running in production. Case-insensitive so
// "Production" and "prod" count too.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// SlogLevel maps LogLevel to a slog level. Empty means "debug in
// development, info otherwise".
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	if c.IsDevelopment() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "30s") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
