package services

import (
	"errors"

	"github.com/terraincognita07/tahara/internal/models"
)

type CycleOptions struct {
	History          HistoryOptions
	PredictionCycles int
}

type Forecast struct {
	Available  bool                `json:"available"`
	Reason     string              `json:"reason,omitempty"`
	Statistics CycleStatistics     `json:"statistics"`
	Windows    []PredictedWindow   `json:"windows"`
	ByMonth    map[string][]string `json:"by_month"`
}

type DayView struct {
	Date      models.Date    `json:"date"`
	DayType   models.DayType `json:"day_type"`
	Guidance  Guidance       `json:"guidance"`
	Logged    bool           `json:"logged"`
	Predicted bool           `json:"predicted"`
}

type CycleService struct {
	log     *CycleLog
	options CycleOptions
}

func NewCycleService(log *CycleLog, options CycleOptions) *CycleService {
	if options.PredictionCycles <= 0 {
		options.PredictionCycles = DefaultPredictionCycles
	}
	options.History = options.History.normalized()
	return &CycleService{log: log, options: options}
}

func (service *CycleService) Log() *CycleLog {
	return service.log
}

func (service *CycleService) Options() CycleOptions {
	return service.options
}

func (service *CycleService) SetDay(date models.Date, tag models.DayTypeTag) (DayView, error) {
	if err := service.log.SetEntry(date, tag); err != nil {
		return DayView{}, err
	}
	return service.DayView(date), nil
}

func (service *CycleService) ClearDay(date models.Date) (bool, error) {
	return service.log.ClearEntry(date)
}

func (service *CycleService) Statistics() (CycleStatistics, error) {
	return ParseHistory(service.log.AllEntries(), service.options.History)
}

// Forecast skips prediction when history is too sparse instead of failing;
// any other error is returned to the caller.
func (service *CycleService) Forecast(cycles int) (Forecast, error) {
	if cycles <= 0 {
		cycles = service.options.PredictionCycles
	}

	stats, err := service.Statistics()
	if err != nil {
		if errors.Is(err, ErrInsufficientHistory) {
			return Forecast{
				Reason:     err.Error(),
				Statistics: stats,
				Windows:    []PredictedWindow{},
				ByMonth:    map[string][]string{},
			}, nil
		}
		return Forecast{}, err
	}

	windows, err := PredictFromStatistics(stats, cycles)
	if err != nil {
		return Forecast{}, err
	}

	return Forecast{
		Available:  true,
		Statistics: stats,
		Windows:    windows,
		ByMonth:    GroupPredictedByMonth(windows),
	}, nil
}

func (service *CycleService) DayView(date models.Date) DayView {
	dayType := models.ResolveDayType(string(service.log.GetEntry(date)))
	view := DayView{
		Date:     date,
		DayType:  dayType,
		Guidance: ResolveGuidance(dayType),
		Logged:   service.log.HasEntry(date),
	}

	forecast, err := service.Forecast(0)
	if err == nil && forecast.Available {
		view.Predicted = PredictedDateSet(forecast.Windows)[date]
	}
	return view
}

func (service *CycleService) Guidance(date models.Date) Guidance {
	return GuidanceForTag(string(service.log.GetEntry(date)))
}

// Calendar builds the month grid around monthStart. Predictions extend far
// enough to cover the visible grid.
func (service *CycleService) Calendar(month models.Date, today models.Date) (CalendarMonth, error) {
	monthStart := month.FirstOfMonth()
	gridStart, gridEnd := CalendarGridRange(monthStart)

	cycles := service.options.PredictionCycles
	predicted := map[models.Date]bool{}
	forecast, err := service.Forecast(cycles)
	if err != nil {
		return CalendarMonth{}, err
	}
	if forecast.Available {
		if lastStart, ok := forecast.Statistics.LastStartDate(); ok && forecast.Statistics.AverageCycleLengthDays > 0 {
			needed := lastStart.DaysUntil(gridEnd)/forecast.Statistics.AverageCycleLengthDays + 1
			if needed > cycles {
				forecast, err = service.Forecast(needed)
				if err != nil {
					return CalendarMonth{}, err
				}
			}
		}
		predicted = PredictedDateSet(forecast.Windows)
	}

	entries := service.log.EntriesInRange(gridStart, gridEnd)
	days := BuildCalendarDayStates(monthStart, entries, predicted, today)

	monthLabel := monthStart.MonthLabel()
	predictedInMonth := forecast.ByMonth[monthLabel]
	if predictedInMonth == nil {
		predictedInMonth = []string{}
	}

	return CalendarMonth{
		Month:          monthLabel,
		MonthStart:     monthStart,
		Days:           days,
		PredictedDates: predictedInMonth,
		HasPrediction:  forecast.Available,
	}, nil
}
