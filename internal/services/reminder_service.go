package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/models"
)

const DefaultReminderLeadDays = 2

type Reminder struct {
	NextStart models.Date `json:"next_start"`
	DaysUntil int         `json:"days_until"`
}

func (reminder Reminder) Message() string {
	if reminder.DaysUntil == 0 {
		return fmt.Sprintf("Your predicted period starts today (%s).", reminder.NextStart.String())
	}
	return fmt.Sprintf("Your predicted period starts in %d day(s) on %s.", reminder.DaysUntil, reminder.NextStart.String())
}

// Notifier delivers reminders. Push delivery lives outside this module.
type Notifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

type ForecastReader interface {
	Forecast(cycles int) (Forecast, error)
}

type ReminderService struct {
	forecasts ForecastReader
	notifier  Notifier
	leadDays  int
	logger    logrus.FieldLogger

	mu     sync.Mutex
	sentOn map[models.Date]models.Date
}

func NewReminderService(forecasts ForecastReader, notifier Notifier, leadDays int, logger logrus.FieldLogger) *ReminderService {
	if leadDays < 0 {
		leadDays = DefaultReminderLeadDays
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReminderService{
		forecasts: forecasts,
		notifier:  notifier,
		leadDays:  leadDays,
		logger:    logger.WithField("component", "reminders"),
		sentOn:    make(map[models.Date]models.Date),
	}
}

// NextReminder returns the first predicted start on or after today when it
// falls within the lead window.
func (service *ReminderService) NextReminder(today models.Date) (Reminder, bool, error) {
	forecast, err := service.forecasts.Forecast(1)
	if err != nil {
		return Reminder{}, false, err
	}
	if !forecast.Available {
		return Reminder{}, false, nil
	}

	lastStart, _ := forecast.Statistics.LastStartDate()
	cycleLength := forecast.Statistics.AverageCycleLengthDays
	next := lastStart.AddDays(cycleLength)
	for next.Before(today) {
		next = next.AddDays(cycleLength)
	}

	daysUntil := today.DaysUntil(next)
	if daysUntil > service.leadDays {
		return Reminder{}, false, nil
	}
	return Reminder{NextStart: next, DaysUntil: daysUntil}, true, nil
}

func (service *ReminderService) Check(ctx context.Context, today models.Date) error {
	reminder, due, err := service.NextReminder(today)
	if err != nil {
		return err
	}
	if !due {
		service.logger.WithField("today", today.String()).Debug("no period reminder due")
		return nil
	}
	if !service.markSent(reminder.NextStart, today) {
		return nil
	}
	if err := service.notifier.Notify(ctx, reminder); err != nil {
		service.unmarkSent(reminder.NextStart)
		return fmt.Errorf("notify period reminder: %w", err)
	}
	return nil
}

// markSent reports whether the reminder for nextStart has not gone out today.
func (service *ReminderService) markSent(nextStart models.Date, today models.Date) bool {
	service.mu.Lock()
	defer service.mu.Unlock()

	if sent, ok := service.sentOn[nextStart]; ok && sent == today {
		return false
	}
	for start := range service.sentOn {
		if start.Before(today) {
			delete(service.sentOn, start)
		}
	}
	service.sentOn[nextStart] = today
	return true
}

func (service *ReminderService) unmarkSent(nextStart models.Date) {
	service.mu.Lock()
	defer service.mu.Unlock()
	delete(service.sentOn, nextStart)
}

type LogNotifier struct {
	logger logrus.FieldLogger
}

func NewLogNotifier(logger logrus.FieldLogger) *LogNotifier {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogNotifier{logger: logger}
}

func (notifier *LogNotifier) Notify(_ context.Context, reminder Reminder) error {
	notifier.logger.WithFields(logrus.Fields{
		"next_start": reminder.NextStart.String(),
		"days_until": reminder.DaysUntil,
	}).Info(reminder.Message())
	return nil
}
