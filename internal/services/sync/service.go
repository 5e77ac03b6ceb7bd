package sync

import (
	"context"
	"fmt"
	"log"
	"time"

	"budget-sync-backend/internal/erp"
	"budget-sync-backend/internal/models"
	"budget-sync-backend/internal/repository"
	"budget-sync-backend/internal/services/classification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity types the engine knows how to sync.
const (
	EntityOrganizations    = "organizations"
	EntityCategories       = "categories"
	EntityBankTransactions = "bank_transactions"
)

// AllEntityTypes lists the sync order for a full run. Catalogs go first so
// freshly pulled transactions can classify against current categories.
var AllEntityTypes = []string{EntityOrganizations, EntityCategories, EntityBankTransactions}

type entitySpec struct {
	collection string
	entryType  string
	catalog    bool
}

var entitySpecs = map[string]entitySpec{
	EntityOrganizations:    {collection: "Catalog_Organizations", entryType: models.EntryTypeOrganization, catalog: true},
	EntityCategories:       {collection: "Catalog_BudgetCategories", entryType: models.EntryTypeCategory, catalog: true},
	EntityBankTransactions: {collection: "Document_BankStatementLines", catalog: false},
}

type Service struct {
	db         *gorm.DB
	gateway    erp.Gateway
	catalogs   *repository.CatalogRepository
	lines      *repository.StatementLineRepository
	classifier *classification.Engine
	pageSize   int
}

func NewService(
	gateway erp.Gateway,
	catalogs *repository.CatalogRepository,
	lines *repository.StatementLineRepository,
	classifier *classification.Engine,
) *Service {
	return &Service{
		db:         catalogs.DB(),
		gateway:    gateway,
		catalogs:   catalogs,
		lines:      lines,
		classifier: classifier,
		pageSize:   defaultPageSize,
	}
}

// Options tune one sync run.
type Options struct {
	PageSize int
	Filter   string
}

// Run syncs one entity type for one tenant and returns the aggregated
// result. Errors never escape: record-level defects land in the result's
// error list, and only a connectivity failure before any record was
// processed marks the run failed. Callers must serialize concurrent runs
// for the same (tenant, entity type); the keyed upsert is not locked
// internally.
func (s *Service) Run(ctx context.Context, tenantID uuid.UUID, entityType string, opts Options) *Result {
	result := newResult(entityType)

	spec, ok := entitySpecs[entityType]
	if !ok {
		result.fail(fmt.Errorf("unknown entity type %q", entityType))
		return result
	}

	run := s.startRun(tenantID, entityType)

	if err := s.gateway.Ping(ctx); err != nil {
		result.fail(err)
		s.finishRun(run, result)
		return result
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = s.pageSize
	}

	result.State = StateFetching
	p := newPager(s.gateway, pageSize)
	fetched, warn, err := p.each(ctx, spec.collection, opts.Filter, func(page []erp.Record) error {
		result.State = StateProcessing
		if err := s.processPage(tenantID, spec, page, result); err != nil {
			return err
		}
		result.State = StateCommitted
		return nil
	})
	result.Fetched = fetched
	if warn != "" {
		result.warn(warn)
	}
	if err != nil {
		if result.Processed == 0 {
			// Nothing landed: the whole entity type failed.
			result.fail(err)
			s.finishRun(run, result)
			return result
		}
		// Pages already committed stay; the interruption is recorded and
		// the next run resumes idempotently.
		result.recordError(spec.collection, err)
	}

	if spec.catalog {
		linkParents(s.catalogs, tenantID, spec.entryType, result)
	}

	result.State = StateDone
	s.finishRun(run, result)

	log.Printf("sync %s tenant=%s fetched=%d created=%d updated=%d skipped=%d errors=%d",
		entityType, tenantID, result.Fetched, result.Created, result.Updated, result.Skipped, len(result.Errors))
	return result
}

// RunAll syncs every entity type sequentially. A failed type does not stop
// the types after it.
func (s *Service) RunAll(ctx context.Context, tenantID uuid.UUID, opts Options) []*Result {
	results := make([]*Result, 0, len(AllEntityTypes))
	for _, entityType := range AllEntityTypes {
		results = append(results, s.Run(ctx, tenantID, entityType, opts))
	}
	return results
}

// processPage stages one page's upserts in a single transaction. Each
// record gets its own savepoint so a failing write rolls back alone and
// the rest of the page still commits.
func (s *Service) processPage(tenantID uuid.UUID, spec entitySpec, page []erp.Record, result *Result) error {
	now := time.Now().UTC()

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i, rec := range page {
			sp := fmt.Sprintf("sync_rec_%d", i)

			if spec.catalog {
				draft, err := MapCatalogRecord(rec)
				if err != nil {
					result.reject(err.Error())
					continue
				}
				tx.SavePoint(sp)
				out, err := upsertCatalogEntry(tx, tenantID, spec.entryType, draft, now)
				if err != nil {
					tx.RollbackTo(sp)
					result.fold(outcomeSkipped)
					result.recordError(draft.ExternalID, err)
					continue
				}
				result.fold(out)
				continue
			}

			draft, err := MapStatementRecord(rec)
			if err != nil {
				result.reject(err.Error())
				continue
			}
			tx.SavePoint(sp)
			out, err := upsertStatementLine(tx, tenantID, draft, now, s.classifier.Apply)
			if err != nil {
				tx.RollbackTo(sp)
				result.fold(outcomeSkipped)
				result.recordError(draft.ExternalID, err)
				continue
			}
			result.fold(out)
		}
		return nil
	})
}

// Reclassify re-runs classification over a tenant's new and needs-review
// lines, e.g. after a rule-table edit. Manually matched lines are left
// alone.
func (s *Service) Reclassify(tenantID uuid.UUID) (int, error) {
	lines, err := s.lines.ListUnclassified(tenantID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range lines {
		line := &lines[i]
		before := line.Status
		beforeCategory := line.CategoryID

		if err := s.classifier.Apply(line); err != nil {
			return updated, err
		}
		if line.Status == before && equalCategory(beforeCategory, line.CategoryID) {
			continue
		}
		if err := s.db.Save(line).Error; err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// PushDocument creates a payment document in the accounting system from a
// local statement line and returns the Ref_Key the remote side assigned.
// This is the one-way create: nothing is reconciled back.
func (s *Service) PushDocument(ctx context.Context, lineID uuid.UUID) (string, error) {
	line, err := s.lines.GetByID(lineID)
	if err != nil {
		return "", err
	}

	fields := erp.Record{
		"Date":              line.LineDate.Format("2006-01-02T15:04:05"),
		"Amount":            line.Amount,
		"Counterparty":      line.CounterpartyName,
		"TaxID":             line.CounterpartyTaxID,
		"PaymentPurpose":    line.Purpose,
		"BusinessOperation": line.OperationCode,
	}
	return s.gateway.CreateDocument(ctx, "Document_PaymentOrder", fields)
}

func (s *Service) startRun(tenantID uuid.UUID, entityType string) *models.SyncRun {
	run := &models.SyncRun{
		ID:         uuid.New(),
		TenantID:   tenantID,
		EntityType: entityType,
		Status:     "processing",
		StartedAt:  time.Now(),
		CreatedAt:  time.Now(),
	}
	s.db.Create(run)
	return run
}

func (s *Service) finishRun(run *models.SyncRun, result *Result) {
	now := time.Now()
	run.Fetched = result.Fetched
	run.Processed = result.Processed
	run.CreatedRows = result.Created
	run.UpdatedRows = result.Updated
	run.SkippedRows = result.Skipped
	run.ErrorCount = len(result.Errors)
	run.Success = result.Success
	run.Status = result.State
	run.CompletedAt = &now
	s.db.Save(run)
}

func equalCategory(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
