package repository

import (
	"budget-sync-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MappingRuleRepository struct {
	db *gorm.DB
}

func NewMappingRuleRepository(db *gorm.DB) *MappingRuleRepository {
	return &MappingRuleRepository{db: db}
}

func (r *MappingRuleRepository) DB() *gorm.DB {
	return r.db
}

func (r *MappingRuleRepository) Create(rule *models.MappingRule) error {
	return r.db.Create(rule).Error
}

func (r *MappingRuleRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.MappingRule{}, "id = ?", id).Error
}

func (r *MappingRuleRepository) ListByTenant(tenantID uuid.UUID) ([]models.MappingRule, error) {
	var rules []models.MappingRule
	err := r.db.
		Where("tenant_id = ?", tenantID).
		Order("priority DESC, confidence DESC, id ASC").
		Find(&rules).Error
	return rules, err
}

// FindActiveByCode returns active rules matching an operation code exactly,
// best rule first: priority desc, then confidence desc, then id asc so the
// ordering is total and selection stays deterministic.
func (r *MappingRuleRepository) FindActiveByCode(tenantID uuid.UUID, operationCode string) ([]models.MappingRule, error) {
	var rules []models.MappingRule
	err := r.db.
		Where("tenant_id = ? AND operation_code = ? AND active = ?", tenantID, operationCode, true).
		Order("priority DESC, confidence DESC, id ASC").
		Find(&rules).Error
	return rules, err
}
