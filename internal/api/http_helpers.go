package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tahara/internal/models"
	"github.com/terraincognita07/tahara/internal/services"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func parseDayParam(raw string) (models.Date, error) {
	return models.ParseDate(strings.TrimSpace(raw))
}

func (handler *Handler) today() models.Date {
	return models.DateOf(handler.now().In(handler.location))
}

// serviceError maps engine errors onto HTTP responses. Anything not
// recognized is a server-side failure and is logged.
func (handler *Handler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, models.ErrMalformedDate):
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	case errors.Is(err, services.ErrInsufficientHistory):
		return apiError(c, fiber.StatusUnprocessableEntity, "insufficient history")
	case errors.Is(err, services.ErrInvalidCycleLength):
		return apiError(c, fiber.StatusUnprocessableEntity, "invalid cycle length")
	case errors.Is(err, services.ErrInvalidPeriodDuration):
		return apiError(c, fiber.StatusUnprocessableEntity, "invalid period duration")
	case errors.Is(err, services.ErrLogClosed):
		return apiError(c, fiber.StatusServiceUnavailable, "cycle log unavailable")
	default:
		handler.logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func dayEntriesResponse(entries []models.CycleDayEntry) []dayEntryResponse {
	response := make([]dayEntryResponse, 0, len(entries))
	for _, entry := range entries {
		dayType := models.ResolveDayType(string(entry.DayType))
		response = append(response, dayEntryResponse{
			Date:    entry.Date.String(),
			DayType: string(entry.DayType),
			Label:   dayType.Label,
			Status:  string(dayType.Status),
		})
	}
	return response
}

func dayViewResponse(view services.DayView) dayResponse {
	return dayResponse{
		Date:      view.Date.String(),
		DayType:   string(view.DayType.Tag),
		Label:     view.DayType.Label,
		Status:    string(view.DayType.Status),
		Color:     view.DayType.Color,
		Logged:    view.Logged,
		Predicted: view.Predicted,
	}
}
