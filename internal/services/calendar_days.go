package services

import (
	"time"

	"github.com/terraincognita07/tahara/internal/models"
)

type CalendarDayState struct {
	Date        models.Date             `json:"-"`
	DateString  string                  `json:"date"`
	Day         int                     `json:"day"`
	InMonth     bool                    `json:"in_month"`
	IsToday     bool                    `json:"is_today"`
	DayType     models.DayTypeTag       `json:"day_type"`
	Label       string                  `json:"label"`
	Status      models.ObligationStatus `json:"status"`
	Color       string                  `json:"color"`
	IsLogged    bool                    `json:"is_logged"`
	IsPeriod    bool                    `json:"is_period"`
	IsPredicted bool                    `json:"is_predicted"`
}

type CalendarMonth struct {
	Month          string             `json:"month"`
	MonthStart     models.Date        `json:"month_start"`
	Days           []CalendarDayState `json:"days"`
	PredictedDates []string           `json:"predicted_dates"`
	HasPrediction  bool               `json:"has_prediction"`
}

// CalendarGridRange returns the Sunday-first grid bounds around a month.
func CalendarGridRange(monthStart models.Date) (models.Date, models.Date) {
	monthStart = monthStart.FirstOfMonth()
	monthEnd := monthStart.LastOfMonth()
	gridStart := monthStart.AddDays(-int(monthStart.Weekday()))
	gridEnd := monthEnd.AddDays(int(time.Saturday) - int(monthEnd.Weekday()))
	return gridStart, gridEnd
}

// BuildCalendarDayStates marks logged and predicted days independently so a
// logged day inside a predicted window keeps both flags.
func BuildCalendarDayStates(monthStart models.Date, entries []models.CycleDayEntry, predicted map[models.Date]bool, today models.Date) []CalendarDayState {
	monthStart = monthStart.FirstOfMonth()
	gridStart, gridEnd := CalendarGridRange(monthStart)

	loggedByDate := make(map[models.Date]models.DayTypeTag, len(entries))
	for _, entry := range entries {
		loggedByDate[entry.Date] = entry.DayType
	}

	days := make([]CalendarDayState, 0, 42)
	for day := gridStart; !day.After(gridEnd); day = day.AddDays(1) {
		tag, logged := loggedByDate[day]
		dayType := models.ResolveDayType(string(tag))

		days = append(days, CalendarDayState{
			Date:        day,
			DateString:  day.String(),
			Day:         day.Day(),
			InMonth:     day.Month() == monthStart.Month() && day.Year() == monthStart.Year(),
			IsToday:     day == today,
			DayType:     dayType.Tag,
			Label:       dayType.Label,
			Status:      dayType.Status,
			Color:       dayType.Color,
			IsLogged:    logged,
			IsPeriod:    logged && dayType.IsMenstruation(),
			IsPredicted: predicted[day],
		})
	}

	return days
}
