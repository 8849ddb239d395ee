package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/tahara/internal/models"
)

type memoryLogStore struct {
	mu      sync.Mutex
	stored  map[string]string
	saves   []map[string]string
	loadErr error
	saveErr error
}

func newMemoryLogStore(initial map[string]string) *memoryLogStore {
	return &memoryLogStore{stored: initial}
}

func (store *memoryLogStore) Load(context.Context) (map[string]string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.loadErr != nil {
		return nil, store.loadErr
	}
	copied := make(map[string]string, len(store.stored))
	for key, value := range store.stored {
		copied[key] = value
	}
	return copied, nil
}

func (store *memoryLogStore) Save(_ context.Context, entries map[string]string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.saves = append(store.saves, entries)
	if store.saveErr != nil {
		return store.saveErr
	}
	store.stored = entries
	return nil
}

func (store *memoryLogStore) snapshot() map[string]string {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.stored
}

func (store *memoryLogStore) setSaveErr(err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.saveErr = err
}

var errStoreUnavailable = errors.New("store unavailable")

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestCycleLog(t *testing.T, initial map[string]string) (*CycleLog, *memoryLogStore) {
	t.Helper()
	store := newMemoryLogStore(initial)
	cycleLog := NewCycleLog(store, quietLogger())
	t.Cleanup(cycleLog.Close)
	if err := cycleLog.Load(context.Background()); err != nil {
		t.Fatalf("load cycle log: %v", err)
	}
	return cycleLog, store
}

func entriesFor(tag models.DayTypeTag, dates ...string) []models.CycleDayEntry {
	entries := make([]models.CycleDayEntry, 0, len(dates))
	for _, date := range dates {
		entries = append(entries, models.CycleDayEntry{Date: models.MustParseDate(date), DayType: tag})
	}
	return entries
}

func periodRun(start string, days int, tag models.DayTypeTag) []models.CycleDayEntry {
	first := models.MustParseDate(start)
	entries := make([]models.CycleDayEntry, 0, days)
	for offset := 0; offset < days; offset++ {
		entries = append(entries, models.CycleDayEntry{Date: first.AddDays(offset), DayType: tag})
	}
	return entries
}

func serializedEntries(entries []models.CycleDayEntry) map[string]string {
	serialized := make(map[string]string, len(entries))
	for _, entry := range entries {
		serialized[entry.Date.String()] = string(entry.DayType)
	}
	return serialized
}

func dateStrings(dates []models.Date) []string {
	result := make([]string, 0, len(dates))
	for _, date := range dates {
		result = append(result, date.String())
	}
	return result
}
