package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/itemhub/internal/apperror"
)

// contextKeyUserID is the Echo context key holding the authenticated user's
// id. Other plugins read it through GetUserID.
const contextKeyUserID = "auth_user_id"

// RequireAuth returns middleware that validates the "token" cookie and
// injects the caller's user id into the request context. Missing or invalid
// tokens end the request with 401. The cookie itself is left untouched.
func RequireAuth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getTokenCookie(c)
			if token == "" {
				return apperror.NewUnauthorized("Not authenticated")
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				return apperror.NewUnauthorized("Invalid token")
			}

			c.Set(contextKeyUserID, userID)
			return next(c)
		}
	}
}

// GetUserID retrieves the authenticated user's id from the Echo context.
// Returns 0 if the request did not pass through RequireAuth.
func GetUserID(c echo.Context) int64 {
	id, ok := c.Get(contextKeyUserID).(int64)
	if !ok {
		return 0
	}
	return id
}
