package repository

import (
	"budget-sync-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// Expose DB if needed
func (r *CatalogRepository) DB() *gorm.DB {
	return r.db
}

// FindByExternalRef looks up an entry by its accounting-system Ref_Key
// within one tenant and entry type.
func (r *CatalogRepository) FindByExternalRef(tenantID uuid.UUID, entryType, externalID string) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	err := r.db.
		Where("tenant_id = ? AND entry_type = ? AND external_id = ?", tenantID, entryType, externalID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *CatalogRepository) GetByID(id uuid.UUID) (*models.CatalogEntry, error) {
	var entry models.CatalogEntry
	if err := r.db.First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListPendingParents returns entries whose parent link is still unresolved.
func (r *CatalogRepository) ListPendingParents(tenantID uuid.UUID, entryType string) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := r.db.
		Where("tenant_id = ? AND entry_type = ? AND parent_pending = ?", tenantID, entryType, true).
		Order("code ASC").
		Find(&entries).Error
	return entries, err
}

func (r *CatalogRepository) ListByTenant(tenantID uuid.UUID, entryType string) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	err := r.db.
		Where("tenant_id = ? AND entry_type = ?", tenantID, entryType).
		Order("name ASC").
		Find(&entries).Error
	return entries, err
}
