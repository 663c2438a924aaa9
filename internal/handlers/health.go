package handlers

import "github.com/gofiber/fiber/v2"

// HealthCheck handles GET /health.
// It answers a plain "up" and does not touch the store.
func HealthCheck(c *fiber.Ctx) error {
	return c.SendString("up")
}
