package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/terraincognita07/tahara/internal/services"
)

const (
	DefaultPort         = "8080"
	DefaultReminderCron = "0 8 * * *"
	DefaultTokenTTL     = 720 * time.Hour
	minSecretKeyLength  = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                    {},
	"replace_with_at_least_32_random_characters": {},
}

var ErrInvalidConfig = errors.New("invalid configuration")

// Config is built once at startup and passed to every consumer.
type Config struct {
	Port             string
	DBPath           string
	Location         *time.Location
	SecretKey        string
	LogLevel         string
	Environment      string
	BoundaryMode     services.BoundaryMode
	PeriodStride     int
	PredictionCycles int
	ReminderCron     string
	ReminderLeadDays int
	CORSOrigins      string
	TokenTTL         time.Duration
}

// Load reads a .env file when present and then the environment. Values
// already set in the environment win over the file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		DBPath:      getEnv("DB_PATH", filepath.Join("data", "tahara.db")),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Environment: strings.ToLower(getEnv("ENVIRONMENT", "development")),
		CORSOrigins: strings.TrimSpace(os.Getenv("CORS_ORIGINS")),
	}

	var err error
	if cfg.Port, err = resolvePort(); err != nil {
		return nil, err
	}
	if cfg.SecretKey, err = resolveSecretKey(); err != nil {
		return nil, err
	}
	if cfg.Location, err = resolveLocation(); err != nil {
		return nil, err
	}
	if cfg.BoundaryMode, err = services.ParseBoundaryMode(os.Getenv("BOUNDARY_MODE")); err != nil {
		return nil, fmt.Errorf("%w: BOUNDARY_MODE: %w", ErrInvalidConfig, err)
	}
	if cfg.PeriodStride, err = resolvePositiveInt("PERIOD_STRIDE", services.DefaultPeriodStride); err != nil {
		return nil, err
	}
	if cfg.PredictionCycles, err = resolvePositiveInt("PREDICTION_CYCLES", services.DefaultPredictionCycles); err != nil {
		return nil, err
	}
	if cfg.ReminderLeadDays, err = resolveNonNegativeInt("REMINDER_LEAD_DAYS", services.DefaultReminderLeadDays); err != nil {
		return nil, err
	}
	if cfg.ReminderCron, err = resolveCronSpec(); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = resolveTokenTTL(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) IsProduction() bool {
	return cfg.Environment == "production" || cfg.Environment == "staging"
}

func (cfg *Config) HistoryOptions() services.HistoryOptions {
	return services.HistoryOptions{Mode: cfg.BoundaryMode, StrideSize: cfg.PeriodStride}
}

func (cfg *Config) CycleOptions() services.CycleOptions {
	return services.CycleOptions{History: cfg.HistoryOptions(), PredictionCycles: cfg.PredictionCycles}
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", fmt.Errorf("%w: SECRET_KEY is not set", ErrInvalidConfig)
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(secret)]; insecure {
		return "", fmt.Errorf("%w: SECRET_KEY uses a placeholder value", ErrInvalidConfig)
	}
	if len(secret) < minSecretKeyLength {
		return "", fmt.Errorf("%w: SECRET_KEY must be at least %d characters", ErrInvalidConfig, minSecretKeyLength)
	}
	return secret, nil
}

func resolvePort() (string, error) {
	raw := getEnv("PORT", DefaultPort)
	port, err := strconv.Atoi(raw)
	if err != nil || port < 1 || port > 65535 {
		return "", fmt.Errorf("%w: PORT must be between 1 and 65535, got %q", ErrInvalidConfig, raw)
	}
	return strconv.Itoa(port), nil
}

func resolveLocation() (*time.Location, error) {
	name := getEnv("TZ", "UTC")
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: TZ %q: %w", ErrInvalidConfig, name, err)
	}
	return location, nil
}

func resolvePositiveInt(key string, fallback int) (int, error) {
	value, err := resolveNonNegativeInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if value == 0 {
		return 0, fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, key)
	}
	return value, nil
}

func resolveNonNegativeInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", ErrInvalidConfig, key, raw)
	}
	return value, nil
}

func resolveCronSpec() (string, error) {
	spec := getEnv("REMINDER_CRON", DefaultReminderCron)
	if _, err := cron.ParseStandard(spec); err != nil {
		return "", fmt.Errorf("%w: REMINDER_CRON %q: %w", ErrInvalidConfig, spec, err)
	}
	return spec, nil
}

func resolveTokenTTL() (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv("TOKEN_TTL"))
	if raw == "" {
		return DefaultTokenTTL, nil
	}
	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		return 0, fmt.Errorf("%w: TOKEN_TTL must be a positive duration, got %q", ErrInvalidConfig, raw)
	}
	return ttl, nil
}

func getEnv(key string, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
