package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tahara/internal/models"
)

func (handler *Handler) ListDayTypes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"day_types": models.KnownDayTypes()})
}
