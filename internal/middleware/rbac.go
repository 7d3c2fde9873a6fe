package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/unireg-go-api/internal/models"
	"github.com/noah-isme/unireg-go-api/internal/utils"
)

// RequireRole ensures the authenticated user holds one of the allowed roles.
// Roles are a closed enumeration; unknown values never match. The check runs
// before any handler logic, so a forbidden caller learns nothing about the
// target entity. An empty role list admits any authenticated user.
func RequireRole(roles ...models.RoleName) fiber.Handler {
	allowed := make(map[models.RoleName]struct{}, len(roles))
	for _, role := range roles {
		if role.Valid() {
			allowed[role] = struct{}{}
		}
	}

	return func(c *fiber.Ctx) error {
		role := RoleFromContext(c)
		if !role.Valid() {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}

		if len(allowed) == 0 {
			return c.Next()
		}

		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}

		return c.Next()
	}
}
