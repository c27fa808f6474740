package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"hirewave/placement-portal/internal/models"
	"hirewave/placement-portal/internal/services"
)

const claimsKey = "claims"

// RequireAuth validates the bearer token and records the request with the
// audit sink when one is given.
func RequireAuth(auth services.AuthService, audit services.AuditSink) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}

		claims, err := auth.ValidateToken(parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		c.Locals(claimsKey, claims)

		// Method and Path alias the request buffer, which is reused after
		// the handler returns.
		if audit != nil {
			userID := claims.UserID
			audit.Emit(models.AuditEvent{
				UserID: &userID,
				Role:   string(claims.Role),
				Method: utils.CopyString(c.Method()),
				Path:   utils.CopyString(c.Path()),
			})
		}

		return c.Next()
	}
}

// RequireRole rejects authenticated users whose role is not listed.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := currentClaims(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		for _, role := range roles {
			if claims.Role == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}
}

func currentClaims(c *fiber.Ctx) *services.Claims {
	claims, _ := c.Locals(claimsKey).(*services.Claims)
	return claims
}
