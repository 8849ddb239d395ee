package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/models"
)

var (
	ErrLogLoadFailed = errors.New("load cycle log failed")
	ErrLogClosed     = errors.New("cycle log closed")
)

// LogStore persists the serialized log: ISO date -> day-type tag.
type LogStore interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, entries map[string]string) error
}

type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Invalid  []string `json:"invalid,omitempty"`
}

// CycleLog is the in-memory mirror of the persisted log. Reads never touch
// the store; writes are handed to a single writer goroutine and do not wait
// for durability. Use Flush to wait.
type CycleLog struct {
	mu      sync.RWMutex
	entries map[models.Date]models.DayTypeTag
	writer  *logWriter
	logger  logrus.FieldLogger
	closed  bool
}

func NewCycleLog(store LogStore, logger logrus.FieldLogger) *CycleLog {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithField("component", "cycle_log")
	return &CycleLog{
		entries: make(map[models.Date]models.DayTypeTag),
		writer:  newLogWriter(store, logger),
		logger:  logger,
	}
}

// Load replaces the mirror with the stored log. A missing log is an empty
// log; rows with malformed dates are dropped with a warning.
func (log *CycleLog) Load(ctx context.Context) error {
	stored, err := log.writer.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogLoadFailed, err)
	}

	entries := make(map[models.Date]models.DayTypeTag, len(stored))
	for rawDate, rawTag := range stored {
		date, err := models.ParseDate(rawDate)
		if err != nil {
			log.logger.WithError(err).WithField("date", rawDate).Warn("skipping stored entry with malformed date")
			continue
		}
		entries[date] = models.DayTypeTag(strings.TrimSpace(rawTag))
	}

	log.mu.Lock()
	log.entries = entries
	log.mu.Unlock()

	log.logger.WithField("entries", len(entries)).Info("cycle log loaded")
	return nil
}

func (log *CycleLog) SetEntry(date models.Date, tag models.DayTypeTag) error {
	if date.IsZero() {
		return fmt.Errorf("%w: empty date", models.ErrMalformedDate)
	}

	log.mu.Lock()
	defer log.mu.Unlock()
	if log.closed {
		return ErrLogClosed
	}
	log.entries[date] = models.DayTypeTag(strings.TrimSpace(string(tag)))
	log.writer.enqueue(log.snapshotLocked())
	return nil
}

// ClearEntry removes the entry so the date reads as normal again.
func (log *CycleLog) ClearEntry(date models.Date) (bool, error) {
	log.mu.Lock()
	defer log.mu.Unlock()
	if log.closed {
		return false, ErrLogClosed
	}
	if _, exists := log.entries[date]; !exists {
		return false, nil
	}
	delete(log.entries, date)
	log.writer.enqueue(log.snapshotLocked())
	return true, nil
}

// Import merges a serialized log. Entries overwrite existing dates.
func (log *CycleLog) Import(serialized map[string]string) (ImportResult, error) {
	result := ImportResult{}
	parsed := make(map[models.Date]models.DayTypeTag, len(serialized))
	for rawDate, rawTag := range serialized {
		date, err := models.ParseDate(rawDate)
		if err != nil {
			result.Skipped++
			result.Invalid = append(result.Invalid, rawDate)
			continue
		}
		parsed[date] = models.NormalizeDayTypeTag(rawTag)
	}
	sort.Strings(result.Invalid)

	log.mu.Lock()
	defer log.mu.Unlock()
	if log.closed {
		return ImportResult{}, ErrLogClosed
	}
	for date, tag := range parsed {
		log.entries[date] = tag
	}
	result.Imported = len(parsed)
	if result.Imported > 0 {
		log.writer.enqueue(log.snapshotLocked())
	}
	return result, nil
}

func (log *CycleLog) GetEntry(date models.Date) models.DayTypeTag {
	log.mu.RLock()
	defer log.mu.RUnlock()
	if tag, ok := log.entries[date]; ok {
		return tag
	}
	return models.DayTypeNormal
}

func (log *CycleLog) HasEntry(date models.Date) bool {
	log.mu.RLock()
	defer log.mu.RUnlock()
	_, ok := log.entries[date]
	return ok
}

// AllEntries returns every entry ordered by date ascending.
func (log *CycleLog) AllEntries() []models.CycleDayEntry {
	log.mu.RLock()
	entries := make([]models.CycleDayEntry, 0, len(log.entries))
	for date, tag := range log.entries {
		entries = append(entries, models.CycleDayEntry{Date: date, DayType: tag})
	}
	log.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// EntriesInRange returns entries with from <= date <= to, ascending.
func (log *CycleLog) EntriesInRange(from models.Date, to models.Date) []models.CycleDayEntry {
	all := log.AllEntries()
	filtered := make([]models.CycleDayEntry, 0, len(all))
	for _, entry := range all {
		if entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

func (log *CycleLog) Len() int {
	log.mu.RLock()
	defer log.mu.RUnlock()
	return len(log.entries)
}

func (log *CycleLog) Snapshot() map[string]string {
	log.mu.RLock()
	defer log.mu.RUnlock()
	return log.snapshotLocked()
}

// Flush waits until every write issued so far has reached the store.
func (log *CycleLog) Flush(ctx context.Context) error {
	log.mu.RLock()
	defer log.mu.RUnlock()
	if log.closed {
		return ErrLogClosed
	}
	return log.writer.flush(ctx)
}

// Close drains pending writes and stops the writer.
func (log *CycleLog) Close() {
	log.mu.Lock()
	if log.closed {
		log.mu.Unlock()
		return
	}
	log.closed = true
	log.mu.Unlock()
	log.writer.close()
}

func (log *CycleLog) snapshotLocked() map[string]string {
	snapshot := make(map[string]string, len(log.entries))
	for date, tag := range log.entries {
		snapshot[date.String()] = string(tag)
	}
	return snapshot
}
