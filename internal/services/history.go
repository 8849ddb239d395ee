package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/terraincognita07/tahara/internal/models"
)

var ErrInsufficientHistory = errors.New("insufficient history")

const DefaultPeriodStride = 6

type BoundaryMode string

const (
	// BoundaryGap starts a new period window at every gap of more than one
	// calendar day between logged menstruation dates.
	BoundaryGap BoundaryMode = "gap"
	// BoundaryStride splits the sorted menstruation dates into fixed blocks
	// of StrideSize entries. Kept for compatibility with predictions made by
	// older releases.
	BoundaryStride BoundaryMode = "stride"
)

func ParseBoundaryMode(raw string) (BoundaryMode, error) {
	switch BoundaryMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", BoundaryGap:
		return BoundaryGap, nil
	case BoundaryStride:
		return BoundaryStride, nil
	default:
		return "", fmt.Errorf("unknown boundary mode %q", raw)
	}
}

type HistoryOptions struct {
	Mode       BoundaryMode
	StrideSize int
}

func (options HistoryOptions) normalized() HistoryOptions {
	if options.Mode == "" {
		options.Mode = BoundaryGap
	}
	if options.StrideSize <= 0 {
		options.StrideSize = DefaultPeriodStride
	}
	return options
}

type PeriodWindow struct {
	Start models.Date `json:"start"`
	End   models.Date `json:"end"`
	Days  int         `json:"days"`
}

type CycleStatistics struct {
	StartDates                []models.Date  `json:"start_dates"`
	Windows                   []PeriodWindow `json:"windows"`
	CycleLengths              []int          `json:"cycle_lengths"`
	AverageCycleLengthDays    int            `json:"average_cycle_length_days"`
	AveragePeriodDurationDays int            `json:"average_period_duration_days"`
	Mode                      BoundaryMode   `json:"mode"`
}

// LastStartDate returns the most recent detected start date.
func (stats CycleStatistics) LastStartDate() (models.Date, bool) {
	if len(stats.StartDates) == 0 {
		return models.Date{}, false
	}
	return stats.StartDates[len(stats.StartDates)-1], true
}

// ParseHistory derives cycle statistics from logged entries. With fewer than
// two start dates it returns ErrInsufficientHistory together with the partial
// statistics, whose averages are left at zero.
func ParseHistory(entries []models.CycleDayEntry, options HistoryOptions) (CycleStatistics, error) {
	options = options.normalized()
	days := menstruationDates(entries)

	var windows []PeriodWindow
	switch options.Mode {
	case BoundaryStride:
		windows = strideWindows(days, options.StrideSize)
	default:
		windows = gapWindows(days)
	}

	stats := CycleStatistics{
		StartDates: make([]models.Date, 0, len(windows)),
		Windows:    windows,
		Mode:       options.Mode,
	}
	for _, window := range windows {
		stats.StartDates = append(stats.StartDates, window.Start)
	}

	if len(stats.StartDates) < 2 {
		return stats, fmt.Errorf("%w: %d period start date(s) found", ErrInsufficientHistory, len(stats.StartDates))
	}

	stats.CycleLengths = startDateDeltas(stats.StartDates)
	stats.AverageCycleLengthDays = roundedMean(stats.CycleLengths)

	if options.Mode == BoundaryStride {
		stats.AveragePeriodDurationDays = options.StrideSize
	} else {
		durations := make([]int, 0, len(windows))
		for _, window := range windows {
			durations = append(durations, window.Days)
		}
		stats.AveragePeriodDurationDays = roundedMean(durations)
	}

	return stats, nil
}

func menstruationDates(entries []models.CycleDayEntry) []models.Date {
	seen := make(map[models.Date]struct{}, len(entries))
	days := make([]models.Date, 0, len(entries))
	for _, entry := range entries {
		if entry.Date.IsZero() || !models.ResolveDayType(string(entry.DayType)).IsMenstruation() {
			continue
		}
		if _, exists := seen[entry.Date]; exists {
			continue
		}
		seen[entry.Date] = struct{}{}
		days = append(days, entry.Date)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})
	return days
}

func gapWindows(days []models.Date) []PeriodWindow {
	windows := make([]PeriodWindow, 0)
	for _, day := range days {
		if len(windows) > 0 {
			current := &windows[len(windows)-1]
			if current.End.DaysUntil(day) <= 1 {
				current.End = day
				current.Days++
				continue
			}
		}
		windows = append(windows, PeriodWindow{Start: day, End: day, Days: 1})
	}
	return windows
}

// strideWindows does not check calendar adjacency inside a block.
func strideWindows(days []models.Date, stride int) []PeriodWindow {
	windows := make([]PeriodWindow, 0, len(days)/stride+1)
	for offset := 0; offset < len(days); offset += stride {
		end := offset + stride
		if end > len(days) {
			end = len(days)
		}
		windows = append(windows, PeriodWindow{
			Start: days[offset],
			End:   days[end-1],
			Days:  end - offset,
		})
	}
	return windows
}

func startDateDeltas(starts []models.Date) []int {
	if len(starts) < 2 {
		return nil
	}
	deltas := make([]int, 0, len(starts)-1)
	for i := 1; i < len(starts); i++ {
		deltas = append(deltas, starts[i-1].DaysUntil(starts[i]))
	}
	return deltas
}

// roundedMean rounds half away from zero; an empty slice yields zero.
func roundedMean(values []int) int {
	if len(values) == 0 {
		return 0
	}
	total := decimal.Zero
	for _, value := range values {
		total = total.Add(decimal.NewFromInt(int64(value)))
	}
	return int(total.Div(decimal.NewFromInt(int64(len(values)))).Round(0).IntPart())
}
