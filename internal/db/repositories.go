package db

import "gorm.io/gorm"

type Repositories struct {
	CycleEntries *CycleEntryRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		CycleEntries: NewCycleEntryRepository(database),
	}
}
