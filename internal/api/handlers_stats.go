package api

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	stats, err := handler.cycles.Statistics()
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(stats)
}

func (handler *Handler) GetPredictions(c *fiber.Ctx) error {
	cycles := 0
	if raw := strings.TrimSpace(c.Query("cycles")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 || parsed > maxPredictionCycles {
			return apiError(c, fiber.StatusBadRequest, "invalid cycles")
		}
		cycles = parsed
	}

	forecast, err := handler.cycles.Forecast(cycles)
	if err != nil {
		return handler.serviceError(c, err)
	}
	return c.JSON(forecast)
}
