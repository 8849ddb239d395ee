package db

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/terraincognita07/tahara/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const cycleEntryBatchSize = 200

// CycleEntryRepository stores the serialized cycle log, one row per date.
type CycleEntryRepository struct {
	database *gorm.DB
}

func NewCycleEntryRepository(database *gorm.DB) *CycleEntryRepository {
	return &CycleEntryRepository{database: database}
}

func (repo *CycleEntryRepository) List(ctx context.Context) ([]models.CycleEntry, error) {
	entries := make([]models.CycleEntry, 0)
	if err := repo.database.WithContext(ctx).Order("date ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Load returns the stored log keyed by ISO date. Dates are returned as
// stored; validation is the caller's job.
func (repo *CycleEntryRepository) Load(ctx context.Context) (map[string]string, error) {
	entries, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cycle entries: %w", err)
	}

	serialized := make(map[string]string, len(entries))
	for _, entry := range entries {
		serialized[entry.Date] = entry.DayType
	}
	return serialized, nil
}

// Save makes the stored rows equal to entries: changed dates are upserted and
// dates missing from entries are deleted, in one transaction.
func (repo *CycleEntryRepository) Save(ctx context.Context, entries map[string]string) error {
	return repo.database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing := make([]models.CycleEntry, 0)
		if err := tx.Select("date", "day_type").Find(&existing).Error; err != nil {
			return fmt.Errorf("load existing cycle entries: %w", err)
		}

		stale := make([]string, 0)
		unchanged := make(map[string]bool, len(existing))
		for _, row := range existing {
			tag, keep := entries[row.Date]
			switch {
			case !keep:
				stale = append(stale, row.Date)
			case tag == row.DayType:
				unchanged[row.Date] = true
			}
		}

		if len(stale) > 0 {
			if err := tx.Where("date IN ?", stale).Delete(&models.CycleEntry{}).Error; err != nil {
				return fmt.Errorf("delete stale cycle entries: %w", err)
			}
		}

		now := time.Now().UTC()
		upserts := make([]models.CycleEntry, 0, len(entries))
		for date, tag := range entries {
			if unchanged[date] {
				continue
			}
			upserts = append(upserts, models.CycleEntry{
				Date:      date,
				DayType:   tag,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
		if len(upserts) == 0 {
			return nil
		}
		sort.Slice(upserts, func(i, j int) bool {
			return upserts[i].Date < upserts[j].Date
		})

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"day_type", "updated_at"}),
		}).CreateInBatches(&upserts, cycleEntryBatchSize).Error
		if err != nil {
			return fmt.Errorf("upsert cycle entries: %w", err)
		}
		return nil
	})
}

func (repo *CycleEntryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := repo.database.WithContext(ctx).Model(&models.CycleEntry{}).Count(&total).Error
	return total, err
}
