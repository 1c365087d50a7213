package server

import (
	"screams/internal/middleware"
	"screams/internal/models"

	"github.com/gofiber/fiber/v2"
)

// currentHandle returns the authenticated handle set by AuthRequired.
func currentHandle(c *fiber.Ctx) string {
	handle, _ := c.Locals(middleware.UserHandleLocal).(string)
	return handle
}

// parseBody decodes the JSON body into dest, answering 400 on failure.
// Callers return nil when ok is false.
func parseBody(c *fiber.Ctx, dest interface{}) bool {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, models.NewValidationError("Invalid request body"))
		return false
	}
	return true
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}
