package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/itemhub/internal/response"
	"github.com/keyxmakerx/itemhub/internal/validation"
)

// TokenCookieName is the HTTP cookie that carries the session token.
const TokenCookieName = "token"

// Handler handles HTTP requests for authentication (signup, login, logout,
// me). Handlers are thin: they bind the request, call the service, and
// render the response. No business logic lives here.
type Handler struct {
	service       AuthService
	secureCookies bool
}

// NewHandler creates a new auth handler. secureCookies marks the session
// cookie Secure and should be true in production.
func NewHandler(service AuthService, secureCookies bool) *Handler {
	return &Handler{service: service, secureCookies: secureCookies}
}

// Signup creates an account and logs it in (POST /api/auth/signup).
func (h *Handler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	user, token, err := h.service.Signup(c.Request().Context(), SignupInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return response.Success(c, http.StatusCreated, authPayload{User: user.ToPublic()}, "Account created successfully")
}

// Login authenticates with email and password (POST /api/auth/login).
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := validation.Bind(c, &req); err != nil {
		return err
	}

	user, token, err := h.service.Login(c.Request().Context(), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.setTokenCookie(c, token)
	return response.Success(c, http.StatusOK, authPayload{User: user.ToPublic()}, "")
}

// Logout clears the session cookie (POST /api/auth/logout). Tokens are
// stateless, so there is nothing to destroy server-side.
func (h *Handler) Logout(c echo.Context) error {
	h.clearTokenCookie(c)
	return response.Success(c, http.StatusOK, nil, "Logged out successfully")
}

// Me returns the authenticated user (GET /api/auth/me).
func (h *Handler) Me(c echo.Context) error {
	user, err := h.service.CurrentUser(c.Request().Context(), GetUserID(c))
	if err != nil {
		return err
	}
	return response.Success(c, http.StatusOK, user.ToPublic(), "")
}

// --- Cookie helpers ---

// getTokenCookie reads the session token from the cookie.
func getTokenCookie(c echo.Context) string {
	cookie, err := c.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setTokenCookie sets the session cookie on the response. The cookie is
// HttpOnly (JS can't read it), SameSite=Lax, and lives as long as the token.
func (h *Handler) setTokenCookie(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(TokenTTL.Seconds()),
	})
}

// clearTokenCookie removes the session cookie by setting MaxAge to -1.
func (h *Handler) clearTokenCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
