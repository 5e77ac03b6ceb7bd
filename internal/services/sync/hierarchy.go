package sync

import (
	"errors"
	"fmt"

	"budget-sync-backend/internal/models"
	"budget-sync-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxParentDepth bounds the ancestor walk of the cycle guard.
const maxParentDepth = 50

// linkParents is the second pass of hierarchy resolution. The node pass has
// already upserted every entry with its raw Parent_Key; this pass resolves
// those external references to local ids. Pages arrive in no particular
// order, so a child regularly lands before its parent — by the time this
// runs, both are in the store and the link succeeds regardless of page
// order. A parent that never arrived (filtered out, or still upstream)
// leaves the entry parentless and flagged for the next run.
func linkParents(repo *repository.CatalogRepository, tenantID uuid.UUID, entryType string, result *Result) {
	pending, err := repo.ListPendingParents(tenantID, entryType)
	if err != nil {
		result.recordError("link pass", err)
		return
	}

	for i := range pending {
		entry := &pending[i]

		parent, err := repo.FindByExternalRef(tenantID, entryType, entry.ExternalParentID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Deferred: a future run resolves it once the parent is local.
			continue
		}
		if err != nil {
			result.recordError(entry.ExternalID, err)
			continue
		}

		if err := checkAncestry(repo, entry, parent); err != nil {
			result.recordError(entry.ExternalID, err)
			continue
		}

		parentID := parent.ID
		entry.ParentID = &parentID
		entry.ParentPending = false
		if err := repo.DB().Save(entry).Error; err != nil {
			result.recordError(entry.ExternalID, err)
		}
	}
}

// checkAncestry walks the candidate parent's chain upward and rejects the
// link if the entry itself appears there (cycle) or the chain exceeds the
// depth bound.
func checkAncestry(repo *repository.CatalogRepository, entry, candidate *models.CatalogEntry) error {
	if candidate.ID == entry.ID {
		return fmt.Errorf("entry cannot be its own parent")
	}

	currentID := candidate.ParentID
	for depth := 0; currentID != nil; depth++ {
		if depth >= maxParentDepth {
			return fmt.Errorf("parent chain exceeds depth %d", maxParentDepth)
		}
		if *currentID == entry.ID {
			return fmt.Errorf("parent link would create a cycle via %s", candidate.ExternalID)
		}

		ancestor, err := repo.GetByID(*currentID)
		if err != nil {
			return err
		}
		currentID = ancestor.ParentID
	}
	return nil
}
