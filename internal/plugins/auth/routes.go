package auth

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all auth routes under /api/auth. Signup, login and
// logout are public; /me requires a valid session cookie.
func RegisterRoutes(e *echo.Echo, h *Handler, verifier TokenVerifier) {
	g := e.Group("/api/auth")

	g.POST("/signup", h.Signup)
	g.POST("/login", h.Login)
	g.POST("/logout", h.Logout)
	g.GET("/me", h.Me, RequireAuth(verifier))
}
