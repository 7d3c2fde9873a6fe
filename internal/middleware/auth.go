package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/service"
	"github.com/noah-isme/unireg-go-api/internal/utils"
)

// Locals keys populated by TokenAuth.
const (
	LocalUser     = "user"
	LocalUserID   = "user_id"
	LocalUserRole = "user_role"
	LocalTokenID  = "token_id"
)

// TokenAuth returns a middleware that authenticates opaque bearer tokens.
// Every request resolves the token against the store, so a revoked token is
// rejected on the very next call.
func TokenAuth(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		plaintext := strings.TrimSpace(authorization[len(bearer):])
		if plaintext == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		user, tokenID, err := auth.Resolve(c.Context(), plaintext)
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
			}
			return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
		}

		c.Locals(LocalUser, &user)
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalUserRole, user.Role.Name)
		c.Locals(LocalTokenID, tokenID)

		return c.Next()
	}
}

// UserFromContext returns the authenticated user, or nil when absent.
func UserFromContext(c *fiber.Ctx) *models.User {
	if v := c.Locals(LocalUser); v != nil {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// UserIDFromContext returns the authenticated user's id, or zero when absent.
func UserIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals(LocalUserID); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// RoleFromContext returns the authenticated user's role, or empty when absent.
func RoleFromContext(c *fiber.Ctx) models.RoleName {
	if v := c.Locals(LocalUserRole); v != nil {
		if role, ok := v.(models.RoleName); ok {
			return role
		}
	}
	return ""
}

// TokenIDFromContext returns the id of the presented token, or zero when absent.
func TokenIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals(LocalTokenID); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
