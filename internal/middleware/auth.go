package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/bilgisen/regionews/internal/logger"
	"github.com/gofiber/fiber/v2"
)

// AdminOnly guards mutating endpoints with the single static admin key.
// The key is read from X-API-Key or an "Authorization: Bearer" header.
// An empty adminKey disables the check, which is only allowed outside production.
func AdminOnly(adminKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if adminKey == "" {
			return c.Next()
		}

		apiKey := c.Get("X-API-Key")
		if apiKey == "" {
			apiKey = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}

		if apiKey == "" {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Admin access attempt without API key")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "API key is required",
			})
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(adminKey)) != 1 {
			logger.Get().Warn().
				Str("method", c.Method()).
				Str("path", c.Path()).
				Str("ip", c.IP()).
				Msg("Unauthorized admin access attempt")

			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}

		return c.Next()
	}
}
