package models

import "time"

// CycleEntry is the persisted row for one logged day. Date holds the ISO
// form; the cycle log parses it on load.
type CycleEntry struct {
	ID        uint      `gorm:"primaryKey"`
	Date      string    `gorm:"type:text;not null;uniqueIndex:uidx_cycle_entries_date"`
	DayType   string    `gorm:"not null;default:normal"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CycleEntry) TableName() string {
	return "cycle_entries"
}

type CycleDayEntry struct {
	Date    Date       `json:"date"`
	DayType DayTypeTag `json:"day_type"`
}
