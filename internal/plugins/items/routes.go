package items

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the item routes under /api/items. All are public.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	g := e.Group("/api/items")

	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
