package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// contextKeyRequestID is the Echo context key holding the request ID.
const contextKeyRequestID = "request_id"

// maxRequestIDLen bounds client-supplied IDs so they can't bloat log lines.
const maxRequestIDLen = 128

// RequestID returns middleware that tags every request with an ID, taken
// from the incoming X-Request-ID header when present or generated as a UUID
// otherwise. The ID is echoed back in the response header and attached to
// request logs.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(echo.HeaderXRequestID)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}

			c.Set(contextKeyRequestID, id)
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			return next(c)
		}
	}
}

// GetRequestID returns the current request's ID, or "" if the RequestID
// middleware did not run.
func GetRequestID(c echo.Context) string {
	id, _ := c.Get(contextKeyRequestID).(string)
	return id
}
