package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/itemhub/internal/config"
)

// defaultRedisPingTimeout applies when the config leaves PingTimeout unset.
const defaultRedisPingTimeout = 3 * time.Second

// NewRedis connects the client backing the post feed cache. The ping is
// bounded by cfg.PingTimeout and by ctx, whichever ends first, so a
// missing Redis fails startup quickly instead of hanging.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %w", err)
	}

	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = defaultRedisPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := redis.NewClient(opts)
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s (timeout %s): %w", opts.Addr, timeout, err)
	}

	slog.Info("connected to Redis",
		slog.String("addr", opts.Addr),
		slog.Int("db", opts.DB),
		slog.String("used_for", "post feed cache"),
	)
	return client, nil
}
