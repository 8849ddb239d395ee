package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tahara/internal/services"
)

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	exportRange, ok, err := handler.parseExportRange(c)
	if !ok {
		return err
	}
	return c.JSON(handler.exports.BuildSummary(exportRange))
}

// ExportJSON writes the persisted serialization, so the file can be fed back
// into ImportJSON unchanged.
func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	exportRange, ok, err := handler.parseExportRange(c)
	if !ok {
		return err
	}

	body, err := json.MarshalIndent(handler.exports.BuildJSON(exportRange), "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSONCharsetUTF8, buildExportFilename(handler.now().In(handler.location), "json"))
	return c.Send(body)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	exportRange, ok, err := handler.parseExportRange(c)
	if !ok {
		return err
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range handler.exports.BuildCSVRows(exportRange) {
		if err := writer.Write(row.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(handler.now().In(handler.location), "csv"))
	return c.Send(output.Bytes())
}

func (handler *Handler) ImportJSON(c *fiber.Ctx) error {
	serialized := map[string]string{}
	if err := json.Unmarshal(c.Body(), &serialized); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := handler.cycles.Log().Import(serialized)
	if err != nil {
		return handler.serviceError(c, err)
	}

	handler.logger.WithField("client", currentClient(c)).
		WithField("imported", result.Imported).
		WithField("skipped", result.Skipped).
		Info("cycle log imported")
	return c.JSON(result)
}
