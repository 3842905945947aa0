package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimiter builds a fixed-window per-client-IP admission gate that runs
// ahead of the router. Requests over the budget are rejected with 429 before
// any handler or store access. Pass a nil store to keep counters in process
// memory; pass a shared store (Redis) to enforce one window across replicas.
func RateLimiter(max int, window time.Duration, store fiber.Storage) fiber.Handler {
	cfg := limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		},
	}
	if store != nil {
		cfg.Storage = store
	}
	return limiter.New(cfg)
}
