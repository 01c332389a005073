package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gudang/internal/apperr"
	"gudang/internal/services"
)

// LocalsUserID is the locals key AuthRequired stores the authenticated
// user id under.
const LocalsUserID = "user_id"

// AuthRequired is the auth guard: it extracts and verifies the bearer
// token and attaches the authenticated identity to the request context.
// The verified payload is trusted as-is; the guard does not hit the user
// store on every request.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			return apperr.NoToken()
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, services.ErrTokenExpired) {
				return apperr.TokenExpired()
			}
			return apperr.InvalidToken()
		}

		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			return apperr.InvalidToken()
		}

		c.Locals(LocalsUserID, sub)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by AuthRequired, or ""
// on an unauthenticated request.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(LocalsUserID).(string); ok {
		return id
	}
	return ""
}
