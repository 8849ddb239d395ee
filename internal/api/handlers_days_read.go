package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tahara/internal/services"
)

func (handler *Handler) GetDays(c *fiber.Ctx) error {
	dayRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, rangeErrorMessage(err))
	}

	entries := handler.cycles.Log().AllEntries()
	if dayRange.From != nil || dayRange.To != nil {
		filtered := entries[:0]
		for _, entry := range entries {
			if dayRange.Contains(entry.Date) {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}

	return c.JSON(fiber.Map{"entries": dayEntriesResponse(entries)})
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}
	return c.JSON(dayViewResponse(handler.cycles.DayView(day)))
}

func (handler *Handler) GetDayGuidance(c *fiber.Ctx) error {
	day, err := parseDayParam(c.Params("date"))
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	guidance := handler.cycles.Guidance(day)
	return c.JSON(guidanceResponse{
		Date:            day.String(),
		DayType:         string(guidance.DayType),
		Status:          string(guidance.Status),
		Message:         guidance.Message,
		Actionable:      guidance.Actionable,
		PrayerRequired:  guidance.PrayerRequired,
		FastingRequired: guidance.FastingRequired,
	})
}

func rangeErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrExportFromDateInvalid):
		return "invalid from date"
	case errors.Is(err, services.ErrExportToDateInvalid):
		return "invalid to date"
	default:
		return "invalid range"
	}
}
