package models

import (
	"time"

	"github.com/google/uuid"
)

// MappingRule maps a business-operation code to a budget category.
// When several rules share a code, highest priority wins, then highest
// confidence, then lowest id.
type MappingRule struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID `gorm:"index"`
	OperationCode string    `gorm:"index"`
	CategoryID    uuid.UUID
	Priority      int
	Confidence    float64
	Active        bool `gorm:"index"`
	CreatedAt     time.Time
}
