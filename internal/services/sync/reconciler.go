package sync

import (
	"errors"
	"strings"
	"time"

	"budget-sync-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// upsertCatalogEntry applies one catalog draft inside the page transaction.
// (tenant, entry type, external ref) is the idempotency key: absent rows are
// inserted, changed rows updated, unchanged rows skipped without a write.
func upsertCatalogEntry(tx *gorm.DB, tenantID uuid.UUID, entryType string, draft *CatalogDraft, now time.Time) (outcome, error) {
	var existing models.CatalogEntry
	err := tx.
		Where("tenant_id = ? AND entry_type = ? AND external_id = ?", tenantID, entryType, draft.ExternalID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		entry := models.CatalogEntry{
			ID:               uuid.New(),
			TenantID:         tenantID,
			EntryType:        entryType,
			ExternalID:       draft.ExternalID,
			Name:             draft.Name,
			Code:             draft.Code,
			IsFolder:         draft.IsFolder,
			ExternalParentID: draft.ExternalParentID,
			ParentPending:    draft.ExternalParentID != "",
			Active:           !draft.Deleted,
			LastSyncedAt:     now,
			CreatedAt:        now,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return outcomeSkipped, err
		}
		return outcomeCreated, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}

	changed := false
	if !sameString(existing.Name, draft.Name) {
		existing.Name = draft.Name
		changed = true
	}
	if !sameString(existing.Code, draft.Code) {
		existing.Code = draft.Code
		changed = true
	}
	if existing.IsFolder != draft.IsFolder {
		existing.IsFolder = draft.IsFolder
		changed = true
	}
	if existing.ExternalParentID != draft.ExternalParentID {
		existing.ExternalParentID = draft.ExternalParentID
		existing.ParentID = nil
		existing.ParentPending = draft.ExternalParentID != ""
		changed = true
	}
	if active := !draft.Deleted; existing.Active != active {
		existing.Active = active
		changed = true
	}

	if !changed {
		return outcomeSkipped, nil
	}

	existing.LastSyncedAt = now
	if err := tx.Save(&existing).Error; err != nil {
		return outcomeSkipped, err
	}
	return outcomeUpdated, nil
}

// upsertStatementLine applies one statement draft. New lines are classified
// opportunistically on the way in; existing lines keep their classification
// unless the operation code itself changed.
func upsertStatementLine(tx *gorm.DB, tenantID uuid.UUID, draft *StatementDraft, now time.Time, classify func(*models.StatementLine) error) (outcome, error) {
	var existing models.StatementLine
	err := tx.
		Where("tenant_id = ? AND external_id = ?", tenantID, draft.ExternalID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		line := models.StatementLine{
			ID:                uuid.New(),
			TenantID:          tenantID,
			ExternalID:        draft.ExternalID,
			LineDate:          draft.Date,
			Amount:            draft.Amount,
			Direction:         draft.Direction,
			CounterpartyName:  draft.CounterpartyName,
			CounterpartyTaxID: draft.CounterpartyTaxID,
			Purpose:           draft.Purpose,
			OperationCode:     draft.OperationCode,
			Status:            models.StatusNew,
			LastSyncedAt:      now,
			CreatedAt:         now,
		}
		if classify != nil {
			if err := classify(&line); err != nil {
				return outcomeSkipped, err
			}
		}
		if err := tx.Create(&line).Error; err != nil {
			return outcomeSkipped, err
		}
		return outcomeCreated, nil
	}
	if err != nil {
		return outcomeSkipped, err
	}

	changed := false
	reclassify := false
	if !existing.LineDate.Equal(draft.Date) {
		existing.LineDate = draft.Date
		changed = true
	}
	if existing.Amount != draft.Amount {
		existing.Amount = draft.Amount
		existing.Direction = draft.Direction
		changed = true
	}
	if !sameString(existing.CounterpartyName, draft.CounterpartyName) {
		existing.CounterpartyName = draft.CounterpartyName
		changed = true
	}
	if !sameString(existing.CounterpartyTaxID, draft.CounterpartyTaxID) {
		existing.CounterpartyTaxID = draft.CounterpartyTaxID
		changed = true
	}
	if !sameString(existing.Purpose, draft.Purpose) {
		existing.Purpose = draft.Purpose
		changed = true
	}
	if !sameString(existing.OperationCode, draft.OperationCode) {
		existing.OperationCode = draft.OperationCode
		changed = true
		reclassify = true
	}

	if !changed {
		return outcomeSkipped, nil
	}

	// Manual matches stay untouched; only machine classifications follow
	// a changed operation code.
	if reclassify && classify != nil && existing.Status != models.StatusMatched {
		if err := classify(&existing); err != nil {
			return outcomeSkipped, err
		}
	}

	existing.LastSyncedAt = now
	if err := tx.Save(&existing).Error; err != nil {
		return outcomeSkipped, err
	}
	return outcomeUpdated, nil
}

// sameString compares after trimming and case folding so formatting noise
// from the external system does not register as an update.
func sameString(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
