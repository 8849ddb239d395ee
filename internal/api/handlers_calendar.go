package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tahara/internal/models"
)

const calendarMonthLayout = "2006-01"

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	today := handler.today()

	month := today.FirstOfMonth()
	if raw := strings.TrimSpace(c.Query("month")); raw != "" {
		parsed, err := time.Parse(calendarMonthLayout, raw)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid month")
		}
		month = models.DateOf(parsed)
	}

	calendar, err := handler.cycles.Calendar(month, today)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(calendar)
}
