package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/config"
)

// New builds the process logger. Production and staging emit JSON; other
// environments use the text formatter with full timestamps.
func New(cfg *config.Config) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

func NewWithOutput(cfg *config.Config, output io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(output)

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.Warnf("invalid log level %q, defaulting to info", cfg.LogLevel)
	} else {
		log.SetLevel(level)
	}

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.WithField("environment", cfg.Environment).Debug("logger initialized")
	return log
}
