// Package response implements the uniform JSON envelope every API endpoint
// answers with. A response is exactly one of:
//
//	{ "success": true,  "data": ..., "message": "..." }
//	{ "success": false, "error": { "code": "...", "message": "...", "details": [...] } }
//
// Handlers call Success directly and return errors for everything else; the
// ErrorHandler installed on the Echo instance renders those as Failure.
package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/itemhub/internal/apperror"
)

// SuccessBody is the wire shape of a successful response.
type SuccessBody struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// FailureBody is the wire shape of a failed response.
type FailureBody struct {
	Success bool               `json:"success"`
	Error   *apperror.AppError `json:"error"`
}

// Success writes a success envelope. A nil data value is serialized as
// "data": null, which is what logout and delete return.
func Success(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, SuccessBody{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error writes a failure envelope for err. Non-AppError values are treated
// as internal errors so their text never reaches the client.
func Error(c echo.Context, err error) error {
	appErr := apperror.As(err)
	if appErr == nil {
		appErr = apperror.NewInternal(err)
	}
	return c.JSON(appErr.Status, FailureBody{
		Success: false,
		Error:   appErr,
	})
}

// ErrorHandler is the custom Echo HTTPErrorHandler. It maps domain errors
// (AppError) and Echo's own HTTP errors (router 404/405, body-limit 413,
// ...) to the failure envelope, logging anything with an internal cause.
func ErrorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	appErr := apperror.As(err)
	if appErr == nil {
		// Check for Echo's built-in HTTP errors (e.g., 404 from router).
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			message := ""
			if msg, ok := echoErr.Message.(string); ok {
				message = msg
			}
			appErr = apperror.FromStatus(echoErr.Code, message)
		} else {
			appErr = apperror.NewInternal(err)
		}
	}

	// Log internal errors with the underlying cause.
	if appErr.Status >= http.StatusInternalServerError {
		slog.Error("internal error",
			slog.String("code", appErr.Code),
			slog.Any("internal", appErr.Internal),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(appErr.Status)
		return
	}
	if writeErr := Error(c, appErr); writeErr != nil {
		slog.Warn("failed to write error response", slog.Any("error", writeErr))
	}
}
