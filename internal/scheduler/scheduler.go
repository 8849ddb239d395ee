package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/models"
)

const reminderJobTimeout = time.Minute

type ReminderChecker interface {
	Check(ctx context.Context, today models.Date) error
}

// Scheduler runs the period reminder check on a cron spec evaluated in the
// configured location.
type Scheduler struct {
	cronEngine *cron.Cron
	reminders  ReminderChecker
	location   *time.Location
	spec       string
	logger     logrus.FieldLogger
	now        func() time.Time
}

func New(reminders ReminderChecker, spec string, location *time.Location, logger logrus.FieldLogger) *Scheduler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{
		cronEngine: cron.New(cron.WithLocation(location)),
		reminders:  reminders,
		location:   location,
		spec:       spec,
		logger:     logger.WithField("component", "scheduler"),
		now:        time.Now,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cronEngine.AddFunc(s.spec, s.runReminderCheck); err != nil {
		return fmt.Errorf("add reminder job %q: %w", s.spec, err)
	}
	s.cronEngine.Start()
	s.logger.WithField("spec", s.spec).Info("reminder scheduler started")
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cronEngine.Stop().Done()
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) runReminderCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), reminderJobTimeout)
	defer cancel()

	today := models.DateOf(s.now().In(s.location))
	if err := s.reminders.Check(ctx, today); err != nil {
		s.logger.WithError(err).WithField("today", today.String()).Error("reminder check failed")
	}
}
