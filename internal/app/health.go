package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// healthTimeout bounds each dependency ping.
const healthTimeout = 2 * time.Second

// healthResponse is the body of the health endpoints.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// health pings the database and Redis. It answers 200 "ok" when both
// respond and 503 "degraded" otherwise, for Docker and load balancer health checks.
func (a *App) health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	checks := map[string]string{
		"database": checkStatus(ctx, "database", func(ctx context.Context) error {
			return a.DB.PingContext(ctx)
		}),
	}
	if a.Redis != nil {
		checks["redis"] = checkStatus(ctx, "redis", func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		})
	}

	status, code := "ok", http.StatusOK
	for _, v := range checks {
		if v != "ok" {
			status, code = "degraded", http.StatusServiceUnavailable
		}
	}
	return c.JSON(code, healthResponse{Status: status, Checks: checks})
}

// checkStatus runs ping and reports "ok" or "down", logging failures.
func checkStatus(ctx context.Context, name string, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		slog.Warn("health check failed",
			slog.String("dependency", name),
			slog.Any("error", err),
		)
		return "down"
	}
	return "ok"
}
