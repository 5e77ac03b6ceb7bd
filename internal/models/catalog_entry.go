package models

import (
	"time"

	"github.com/google/uuid"
)

// Entry types synced from the accounting system.
const (
	EntryTypeOrganization = "organization"
	EntryTypeCategory     = "category"
)

type CatalogEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"index;uniqueIndex:idx_catalog_identity"`
	EntryType string    `gorm:"uniqueIndex:idx_catalog_identity"`
	// ExternalID is the Ref_Key assigned by the accounting system.
	// (TenantID, EntryType, ExternalID) is the idempotency key for upserts.
	ExternalID       string `gorm:"uniqueIndex:idx_catalog_identity"`
	Name             string
	Code             string `gorm:"index"`
	IsFolder         bool
	ParentID         *uuid.UUID
	ExternalParentID string
	// ParentPending marks entries whose parent was not present locally
	// when last synced; the next link pass retries them.
	ParentPending bool `gorm:"index"`
	Active        bool
	LastSyncedAt  time.Time
	CreatedAt     time.Time
}
