package repository

import (
	"budget-sync-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StatementLineRepository struct {
	db *gorm.DB
}

func NewStatementLineRepository(db *gorm.DB) *StatementLineRepository {
	return &StatementLineRepository{db: db}
}

func (r *StatementLineRepository) DB() *gorm.DB {
	return r.db
}

func (r *StatementLineRepository) GetByID(id uuid.UUID) (*models.StatementLine, error) {
	var line models.StatementLine
	if err := r.db.First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// ListByTenant returns statement lines with cursor pagination and an
// optional status filter.
func (r *StatementLineRepository) ListByTenant(
	tenantID uuid.UUID,
	status string,
	cursor string,
	limit int,
) ([]models.StatementLine, string, bool) {

	var lines []models.StatementLine
	query := r.db.
		Where("tenant_id = ?", tenantID).
		Order("id ASC").
		Limit(limit + 1)

	if status != "" && status != "all" {
		query = query.Where("status = ?", status)
	}
	if cursor != "" {
		query = query.Where("id > ?", cursor)
	}

	query.Find(&lines)

	hasMore := false
	var nextCursor string
	if len(lines) > limit {
		hasMore = true
		nextCursor = lines[limit-1].ID.String()
		lines = lines[:limit]
	}

	return lines, nextCursor, hasMore
}

// ListUnclassified returns lines a bulk re-classification should visit.
func (r *StatementLineRepository) ListUnclassified(tenantID uuid.UUID) ([]models.StatementLine, error) {
	var lines []models.StatementLine
	err := r.db.
		Where("tenant_id = ? AND status IN ?", tenantID, []string{models.StatusNew, models.StatusNeedsReview}).
		Order("line_date ASC").
		Find(&lines).Error
	return lines, err
}
