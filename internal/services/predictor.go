package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/terraincognita07/tahara/internal/models"
)

var (
	ErrInvalidCycleLength    = errors.New("invalid cycle length")
	ErrInvalidPeriodDuration = errors.New("invalid period duration")
)

// DefaultPredictionCycles is a count of cycle iterations, not calendar months.
const DefaultPredictionCycles = 6

type PredictedWindow struct {
	Start     models.Date   `json:"start"`
	End       models.Date   `json:"end"`
	Dates     []models.Date `json:"dates"`
	Predicted bool          `json:"predicted"`
}

// Predict projects cycles future period windows after lastStart. The first
// window starts one full cycle after lastStart.
func Predict(lastStart models.Date, averageCycleLengthDays int, averagePeriodDurationDays int, cycles int) ([]PredictedWindow, error) {
	if averageCycleLengthDays <= 0 {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidCycleLength, averageCycleLengthDays)
	}
	if averagePeriodDurationDays <= 0 {
		return nil, fmt.Errorf("%w: %d days", ErrInvalidPeriodDuration, averagePeriodDurationDays)
	}
	if lastStart.IsZero() {
		return nil, fmt.Errorf("%w: missing last start date", ErrInsufficientHistory)
	}
	if cycles <= 0 {
		return []PredictedWindow{}, nil
	}

	windows := make([]PredictedWindow, 0, cycles)
	start := lastStart
	for cycle := 0; cycle < cycles; cycle++ {
		start = start.AddDays(averageCycleLengthDays)
		dates := make([]models.Date, 0, averagePeriodDurationDays)
		for offset := 0; offset < averagePeriodDurationDays; offset++ {
			dates = append(dates, start.AddDays(offset))
		}
		windows = append(windows, PredictedWindow{
			Start:     start,
			End:       dates[len(dates)-1],
			Dates:     dates,
			Predicted: true,
		})
	}
	return windows, nil
}

// PredictFromStatistics predicts from the last detected start date.
func PredictFromStatistics(stats CycleStatistics, cycles int) ([]PredictedWindow, error) {
	lastStart, ok := stats.LastStartDate()
	if !ok || len(stats.StartDates) < 2 {
		return nil, ErrInsufficientHistory
	}
	return Predict(lastStart, stats.AverageCycleLengthDays, stats.AveragePeriodDurationDays, cycles)
}

// GroupPredictedByMonth keys every predicted date by its "January 2024"
// label. Dates are unique and ascending within a label.
func GroupPredictedByMonth(windows []PredictedWindow) map[string][]string {
	sets := make(map[string]map[models.Date]struct{})
	for _, window := range windows {
		for _, date := range window.Dates {
			label := date.MonthLabel()
			if sets[label] == nil {
				sets[label] = make(map[models.Date]struct{})
			}
			sets[label][date] = struct{}{}
		}
	}

	grouped := make(map[string][]string, len(sets))
	for label, set := range sets {
		dates := make([]models.Date, 0, len(set))
		for date := range set {
			dates = append(dates, date)
		}
		sort.Slice(dates, func(i, j int) bool {
			return dates[i].Before(dates[j])
		})
		keys := make([]string, 0, len(dates))
		for _, date := range dates {
			keys = append(keys, date.String())
		}
		grouped[label] = keys
	}
	return grouped
}

func PredictedDateSet(windows []PredictedWindow) map[models.Date]bool {
	set := make(map[models.Date]bool)
	for _, window := range windows {
		for _, date := range window.Dates {
			set[date] = true
		}
	}
	return set
}
