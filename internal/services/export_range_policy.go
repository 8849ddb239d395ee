package services

import (
	"errors"
	"strings"

	"github.com/terraincognita07/tahara/internal/models"
)

var (
	ErrExportFromDateInvalid = errors.New("export invalid from date")
	ErrExportToDateInvalid   = errors.New("export invalid to date")
	ErrExportRangeInvalid    = errors.New("export invalid range")
)

// ExportRange bounds are inclusive; a nil bound is open.
type ExportRange struct {
	From *models.Date
	To   *models.Date
}

func (exportRange ExportRange) Contains(date models.Date) bool {
	if exportRange.From != nil && date.Before(*exportRange.From) {
		return false
	}
	if exportRange.To != nil && date.After(*exportRange.To) {
		return false
	}
	return true
}

func ParseExportRange(rawFrom string, rawTo string) (ExportRange, error) {
	var exportRange ExportRange

	if fromRaw := strings.TrimSpace(rawFrom); fromRaw != "" {
		from, err := models.ParseDate(fromRaw)
		if err != nil {
			return ExportRange{}, ErrExportFromDateInvalid
		}
		exportRange.From = &from
	}

	if toRaw := strings.TrimSpace(rawTo); toRaw != "" {
		to, err := models.ParseDate(toRaw)
		if err != nil {
			return ExportRange{}, ErrExportToDateInvalid
		}
		exportRange.To = &to
	}

	if exportRange.From != nil && exportRange.To != nil && exportRange.To.Before(*exportRange.From) {
		return ExportRange{}, ErrExportRangeInvalid
	}

	return exportRange, nil
}
