package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/tahara/internal/models"
)

func newTwoCycleService(t *testing.T, options CycleOptions) *CycleService {
	t.Helper()
	entries := append(periodRun("2024-06-15", 6, models.DayTypePeriodHeavy), periodRun("2024-07-13", 6, models.DayTypePeriodMedium)...)
	cycleLog, _ := newTestCycleLog(t, serializedEntries(entries))
	return NewCycleService(cycleLog, options)
}

func TestCycleServiceForecast(t *testing.T) {
	service := newTwoCycleService(t, CycleOptions{})

	forecast, err := service.Forecast(2)
	require.NoError(t, err)
	require.True(t, forecast.Available)
	require.Len(t, forecast.Windows, 2)
	require.Equal(t, "2024-08-10", forecast.Windows[0].Start.String())
	require.Equal(t, "2024-09-07", forecast.Windows[1].Start.String())
	require.Equal(t, []string{"2024-08-10", "2024-08-11", "2024-08-12", "2024-08-13", "2024-08-14", "2024-08-15"}, forecast.ByMonth["August 2024"])

	defaults, err := service.Forecast(0)
	require.NoError(t, err)
	require.Len(t, defaults.Windows, DefaultPredictionCycles)
}

func TestCycleServiceForecastSkipsPredictionOnSparseHistory(t *testing.T) {
	cycleLog, _ := newTestCycleLog(t, serializedEntries(periodRun("2024-06-15", 5, models.DayTypePeriod)))
	service := NewCycleService(cycleLog, CycleOptions{})

	forecast, err := service.Forecast(3)
	require.NoError(t, err)
	require.False(t, forecast.Available)
	require.NotEmpty(t, forecast.Reason)
	require.Empty(t, forecast.Windows)
	require.Empty(t, forecast.ByMonth)
	require.Equal(t, []string{"2024-06-15"}, dateStrings(forecast.Statistics.StartDates))

	_, err = service.Statistics()
	require.ErrorIs(t, err, ErrInsufficientHistory)
}

func TestCycleServiceSetDayRefreshesStatistics(t *testing.T) {
	cycleLog, _ := newTestCycleLog(t, serializedEntries(periodRun("2024-06-15", 5, models.DayTypePeriod)))
	service := NewCycleService(cycleLog, CycleOptions{})

	view, err := service.SetDay(models.MustParseDate("2024-07-12"), models.DayTypePeriodHeavy)
	require.NoError(t, err)
	require.True(t, view.Logged)
	require.Equal(t, models.StatusExempt, view.Guidance.Status)

	stats, err := service.Statistics()
	require.NoError(t, err)
	require.Equal(t, 27, stats.AverageCycleLengthDays)
}

func TestCycleServiceStrideModeFromOptions(t *testing.T) {
	service := newTwoCycleService(t, CycleOptions{History: HistoryOptions{Mode: BoundaryStride}})

	stats, err := service.Statistics()
	require.NoError(t, err)
	require.Equal(t, BoundaryStride, stats.Mode)
	require.Equal(t, 6, stats.AveragePeriodDurationDays)
}

func TestCycleServiceDayView(t *testing.T) {
	service := newTwoCycleService(t, CycleOptions{})

	logged := service.DayView(models.MustParseDate("2024-07-13"))
	require.True(t, logged.Logged)
	require.False(t, logged.Predicted)
	require.Equal(t, models.DayTypePeriodMedium, logged.DayType.Tag)

	predicted := service.DayView(models.MustParseDate("2024-08-12"))
	require.False(t, predicted.Logged)
	require.True(t, predicted.Predicted)
	require.Equal(t, models.DayTypeNormal, predicted.DayType.Tag)
	require.Equal(t, models.StatusRequired, predicted.Guidance.Status)

	require.Equal(t, models.StatusExempt, service.Guidance(models.MustParseDate("2024-06-16")).Status)
}

func TestCycleServiceCalendarMarksLoggedAndPredictedDays(t *testing.T) {
	service := newTwoCycleService(t, CycleOptions{})
	_, err := service.SetDay(models.MustParseDate("2024-08-12"), models.DayTypeOvulation)
	require.NoError(t, err)

	month, err := service.Calendar(models.MustParseDate("2024-08-20"), models.MustParseDate("2024-08-05"))
	require.NoError(t, err)
	require.Equal(t, "August 2024", month.Month)
	require.True(t, month.HasPrediction)
	require.Len(t, month.Days, 35)
	require.Equal(t, "2024-07-28", month.Days[0].DateString)
	require.Equal(t, []string{"2024-08-10", "2024-08-11", "2024-08-12", "2024-08-13", "2024-08-14", "2024-08-15"}, month.PredictedDates)

	both := findCalendarDayStateByDateString(t, month.Days, "2024-08-12")
	require.True(t, both.IsLogged)
	require.True(t, both.IsPredicted)
	require.False(t, both.IsPeriod)
	require.Equal(t, models.DayTypeOvulation, both.DayType)

	today := findCalendarDayStateByDateString(t, month.Days, "2024-08-05")
	require.True(t, today.IsToday)
}

func TestCycleServiceCalendarExtendsPredictionToVisibleGrid(t *testing.T) {
	service := newTwoCycleService(t, CycleOptions{PredictionCycles: 6})

	month, err := service.Calendar(models.MustParseDate("2024-12-01"), models.MustParseDate("2024-08-05"))
	require.NoError(t, err)
	require.Equal(t, []string{
		"2024-12-01", "2024-12-02", "2024-12-03", "2024-12-04", "2024-12-05",
		"2024-12-28", "2024-12-29", "2024-12-30", "2024-12-31",
	}, month.PredictedDates)

	spill := findCalendarDayStateByDateString(t, month.Days, "2025-01-02")
	require.False(t, spill.InMonth)
	require.True(t, spill.IsPredicted)
}

func TestCycleServiceCalendarWithoutPrediction(t *testing.T) {
	cycleLog, _ := newTestCycleLog(t, nil)
	service := NewCycleService(cycleLog, CycleOptions{})

	month, err := service.Calendar(models.MustParseDate("2026-02-01"), models.MustParseDate("2026-02-10"))
	require.NoError(t, err)
	require.False(t, month.HasPrediction)
	require.Empty(t, month.PredictedDates)
	require.Len(t, month.Days, 28)
}
