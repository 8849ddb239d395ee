package services

import "github.com/terraincognita07/tahara/internal/models"

var ExportCSVHeaders = []string{
	"Date",
	"Day type",
	"Label",
	"Status",
}

type ExportEntryReader interface {
	AllEntries() []models.CycleDayEntry
}

type ExportService struct {
	entries ExportEntryReader
}

type ExportSummary struct {
	TotalEntries int    `json:"total_entries"`
	HasData      bool   `json:"has_data"`
	DateFrom     string `json:"date_from"`
	DateTo       string `json:"date_to"`
}

type ExportCSVRow struct {
	Date    string
	DayType string
	Label   string
	Status  string
}

func NewExportService(entries ExportEntryReader) *ExportService {
	return &ExportService{entries: entries}
}

func (service *ExportService) entriesInRange(exportRange ExportRange) []models.CycleDayEntry {
	all := service.entries.AllEntries()
	filtered := make([]models.CycleDayEntry, 0, len(all))
	for _, entry := range all {
		if exportRange.Contains(entry.Date) {
			filtered = append(filtered, entry)
		}
	}
	return filtered
}

func (service *ExportService) BuildSummary(exportRange ExportRange) ExportSummary {
	entries := service.entriesInRange(exportRange)
	if len(entries) == 0 {
		return ExportSummary{}
	}
	return ExportSummary{
		TotalEntries: len(entries),
		HasData:      true,
		DateFrom:     entries[0].Date.String(),
		DateTo:       entries[len(entries)-1].Date.String(),
	}
}

// BuildJSON returns the persisted serialization: ISO date -> stored tag.
// Unknown tags are exported as stored.
func (service *ExportService) BuildJSON(exportRange ExportRange) map[string]string {
	entries := service.entriesInRange(exportRange)
	serialized := make(map[string]string, len(entries))
	for _, entry := range entries {
		serialized[entry.Date.String()] = string(entry.DayType)
	}
	return serialized
}

func (service *ExportService) BuildCSVRows(exportRange ExportRange) []ExportCSVRow {
	entries := service.entriesInRange(exportRange)
	rows := make([]ExportCSVRow, 0, len(entries))
	for _, entry := range entries {
		dayType := models.ResolveDayType(string(entry.DayType))
		rows = append(rows, ExportCSVRow{
			Date:    entry.Date.String(),
			DayType: string(entry.DayType),
			Label:   dayType.Label,
			Status:  string(dayType.Status),
		})
	}
	return rows
}

func (row ExportCSVRow) Columns() []string {
	return []string{row.Date, row.DayType, row.Label, row.Status}
}
