package handlers

import (
	"cardbase/internal/config"
	"cardbase/internal/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler serves GET /health
type HealthHandler struct {
	Config *config.Config
	DB     *gorm.DB
}

// Check reports service health; an unreachable database yields a 503.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	result := services.HealthCheck(h.Config, h.DB)

	status := fiber.StatusOK
	if result.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return c.Status(status).JSON(result)
}
