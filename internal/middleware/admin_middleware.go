package middleware

import (
	"crypto/subtle"

	"github.com/fadilmartias/job-atlas/internal/util"
	"github.com/gofiber/fiber/v2"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminToken rejects requests whose X-Admin-Token header does not match token.
func AdminToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(AdminTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: "unauthorized",
			})
		}
		return c.Next()
	}
}
