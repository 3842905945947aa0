package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports service liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
