package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthCheck verifica una dependencia (PostgreSQL, Redis).
type HealthCheck func(ctx context.Context) error

// Health devuelve el estado de cada dependencia; 503 si alguna falla. No expone detalles del error.
func Health(service string, checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		status := fiber.StatusOK
		deps := fiber.Map{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = "error"
				status = fiber.StatusServiceUnavailable
				continue
			}
			deps[name] = "connected"
		}
		state := "ok"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":  state,
			"service": service,
			"deps":    deps,
		})
	}
}
