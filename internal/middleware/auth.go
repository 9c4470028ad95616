package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/complianceguard/regdash/internal/types"
)

// AdminKey guards the /api/admin routes with a shared key carried in the
// X-Admin-Key header. An empty configured key leaves the routes open, which
// matches how the dashboard runs inside a trusted network.
func AdminKey(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key == "" {
			return c.Next()
		}
		got := c.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "Invalid or missing X-Admin-Key header",
				Type:    "admin.authorization",
			}
		}
		return c.Next()
	}
}
