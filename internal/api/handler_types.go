package api

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/services"
)

const maxPredictionCycles = 120

type Handler struct {
	cycles    *services.CycleService
	exports   *services.ExportService
	secretKey []byte
	location  *time.Location
	logger    logrus.FieldLogger
	now       func() time.Time
}

func NewHandler(cycles *services.CycleService, secretKey string, location *time.Location, logger logrus.FieldLogger) (*Handler, error) {
	if cycles == nil {
		return nil, errors.New("cycle service is required")
	}
	if secretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		cycles:    cycles,
		exports:   services.NewExportService(cycles.Log()),
		secretKey: []byte(secretKey),
		location:  location,
		logger:    logger.WithField("component", "api"),
		now:       time.Now,
	}, nil
}

type dayEntryResponse struct {
	Date    string `json:"date"`
	DayType string `json:"day_type"`
	Label   string `json:"label"`
	Status  string `json:"status"`
}

type dayResponse struct {
	Date      string `json:"date"`
	DayType   string `json:"day_type"`
	Label     string `json:"label"`
	Status    string `json:"status"`
	Color     string `json:"color"`
	Logged    bool   `json:"logged"`
	Predicted bool   `json:"predicted"`
}

type guidanceResponse struct {
	Date            string `json:"date"`
	DayType         string `json:"day_type"`
	Status          string `json:"status"`
	Message         string `json:"message"`
	Actionable      bool   `json:"actionable"`
	PrayerRequired  bool   `json:"prayer_required"`
	FastingRequired bool   `json:"fasting_required"`
}
