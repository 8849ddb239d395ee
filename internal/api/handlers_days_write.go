package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/models"
)

// UpsertDay only accepts registered day types. Unknown tags can still reach
// the log through import, where they are kept as stored.
func (handler *Handler) UpsertDay(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := dayPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(payload.DayType) == "" {
		return apiError(c, fiber.StatusBadRequest, "day_type is required")
	}

	tag := models.NormalizeDayTypeTag(payload.DayType)
	if !models.IsKnownDayType(string(tag)) {
		return apiError(c, fiber.StatusBadRequest, "invalid day type")
	}

	view, err := handler.cycles.SetDay(day, tag)
	if err != nil {
		return handler.serviceError(c, err)
	}

	handler.logger.WithFields(logrus.Fields{
		"client":   currentClient(c),
		"date":     day.String(),
		"day_type": string(tag),
	}).Debug("day entry saved")
	return c.JSON(dayViewResponse(view))
}

func (handler *Handler) DeleteDay(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	removed, err := handler.cycles.ClearDay(day)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(fiber.Map{"ok": true, "removed": removed})
}
