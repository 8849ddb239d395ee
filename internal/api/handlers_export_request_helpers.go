package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tahara/internal/services"
)

func (handler *Handler) parseExportRange(c *fiber.Ctx) (services.ExportRange, bool, error) {
	exportRange, err := services.ParseExportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return services.ExportRange{}, false, apiError(c, fiber.StatusBadRequest, rangeErrorMessage(err))
	}
	return exportRange, true, nil
}

func buildExportFilename(now time.Time, extension string) string {
	return fmt.Sprintf("tahara-export-%s.%s", now.Format("2006-01-02"), extension)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
}
