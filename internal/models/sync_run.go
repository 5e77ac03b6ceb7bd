package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncRun is the persisted record of one sync run for one entity type.
type SyncRun struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID    uuid.UUID `gorm:"index"`
	EntityType  string    `gorm:"index"`
	Fetched     int
	Processed   int
	CreatedRows int
	UpdatedRows int
	SkippedRows int
	ErrorCount  int
	Success     bool
	Status      string
	StartedAt   time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
}
