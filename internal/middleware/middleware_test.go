package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyxmakerx/itemhub/internal/apperror"
	"github.com/keyxmakerx/itemhub/internal/response"
)

// newTestEcho builds an Echo instance whose error handler records the error
// it was given, so tests can see what middleware returned, then renders it
// the way the app does.
func newTestEcho(seen *error) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		*seen = err
		response.ErrorHandler(err, c)
	}
	return e
}

func TestRecovery_TurnsPanicIntoInternalError(t *testing.T) {
	var seen error
	e := newTestEcho(&seen)
	e.Use(Recovery())
	e.GET("/boom", func(c echo.Context) error { panic("kaboom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	appErr := apperror.As(seen)
	require.NotNil(t, appErr)
	assert.Equal(t, apperror.CodeInternal, appErr.Code)
	assert.NotContains(t, rec.Body.String(), "kaboom")
}

func TestRequestID(t *testing.T) {
	var seen error
	e := newTestEcho(&seen)
	e.Use(RequestID())

	var inHandler string
	e.GET("/", func(c echo.Context) error {
		inHandler = GetRequestID(c)
		return c.NoContent(http.StatusNoContent)
	})

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Len(t, inHandler, 36)
		assert.Equal(t, inHandler, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRequestID, "abc-123")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, "abc-123", inHandler)
		assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
	})
}

func TestRequestLogger_RendersErrorOnce(t *testing.T) {
	var seen error
	calls := 0
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		calls++
		seen = err
		if appErr := apperror.As(err); appErr != nil && !c.Response().Committed {
			_ = c.NoContent(appErr.Status)
		}
	}
	e.Use(RequestLogger())
	e.GET("/missing", func(c echo.Context) error { return apperror.NewNotFound("nope") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, calls)
	assert.True(t, apperror.IsNotFound(seen))
}

func TestSecurityHeaders(t *testing.T) {
	for _, hsts := range []bool{false, true} {
		var seen error
		e := newTestEcho(&seen)
		e.Use(SecurityHeaders(hsts))
		e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, hsts, rec.Header().Get("Strict-Transport-Security") != "")
	}
}

func TestCORS(t *testing.T) {
	var seen error
	e := newTestEcho(&seen)
	e.Use(CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:5173/"}, AllowCredentials: true}))
	e.GET("/api/items", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
		req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:5173", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
		assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/items", nil)
		req.Header.Set(echo.HeaderOrigin, "http://localhost:5173")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderAccessControlAllowMethods), http.MethodPatch)
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/items", nil)
		req.Header.Set(echo.HeaderOrigin, "https://evil.example")
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	})
}

func TestCORS_WildcardDropsCredentials(t *testing.T) {
	var seen error
	e := newTestEcho(&seen)
	e.Use(CORS(CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}))
	e.GET("/", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderOrigin, "https://anywhere.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "https://anywhere.example", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
}

func TestTrustedProxies(t *testing.T) {
	extract := buildIPExtractor([]string{"10.0.0.0/8", "not-a-cidr"})

	tests := []struct {
		name   string
		remote string
		xff    string
		want   string
	}{
		{"direct client", "203.0.113.5:1234", "", "203.0.113.5"},
		{"untrusted peer cannot spoof", "203.0.113.5:1234", "198.51.100.1", "203.0.113.5"},
		{"trusted proxy forwards client", "10.1.2.3:80", "198.51.100.1, 10.1.2.3", "198.51.100.1"},
		{"trusted proxy without header", "10.1.2.3:80", "", "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set(echo.HeaderXForwardedFor, tt.xff)
			}
			assert.Equal(t, tt.want, extract(req))
		})
	}
}

var errSentinel = errors.New("sentinel")

func TestRequestLogger_PassesThroughPlainErrors(t *testing.T) {
	var seen error
	e := newTestEcho(&seen)
	e.Use(RequestLogger())
	e.GET("/", func(c echo.Context) error { return errSentinel })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.ErrorIs(t, seen, errSentinel)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
