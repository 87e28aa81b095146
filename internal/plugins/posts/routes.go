package posts

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/itemhub/internal/plugins/auth"
)

// RegisterRoutes sets up the blog routes under /api/posts. Reading the feed
// is public; writing requires a session.
func RegisterRoutes(e *echo.Echo, h *Handler, verifier auth.TokenVerifier) {
	g := e.Group("/api/posts")
	requireAuth := auth.RequireAuth(verifier)

	g.GET("", h.List)
	g.POST("", h.Create, requireAuth)
	g.PATCH("/:id/like", h.Like, requireAuth)
}
