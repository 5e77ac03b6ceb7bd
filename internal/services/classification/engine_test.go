package classification

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"budget-sync-backend/internal/models"
	"budget-sync-backend/internal/repository"
)

func testEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MappingRule{}, &models.StatementLine{}))
	return NewEngine(repository.NewMappingRuleRepository(db)), db
}

func addRule(t *testing.T, db *gorm.DB, tenant uuid.UUID, code string, category uuid.UUID, priority int, confidence float64, active bool) models.MappingRule {
	t.Helper()
	rule := models.MappingRule{
		ID:            uuid.New(),
		TenantID:      tenant,
		OperationCode: code,
		CategoryID:    category,
		Priority:      priority,
		Confidence:    confidence,
		Active:        active,
	}
	require.NoError(t, db.Create(&rule).Error)
	return rule
}

func TestResolveDeterministic(t *testing.T) {
	t.Parallel()

	engine, db := testEngine(t)
	tenant := uuid.New()
	catA := uuid.New()
	catB := uuid.New()
	addRule(t, db, tenant, "payment_to_supplier", catA, 5, 0.8, true)
	addRule(t, db, tenant, "payment_to_supplier", catB, 5, 0.6, true)

	for i := 0; i < 10; i++ {
		rule, ok, err := engine.Resolve(tenant, "payment_to_supplier")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, catA, rule.CategoryID)
	}
}

func TestResolvePriorityBeatsConfidence(t *testing.T) {
	t.Parallel()

	engine, db := testEngine(t)
	tenant := uuid.New()
	low := uuid.New()
	high := uuid.New()
	addRule(t, db, tenant, "salary", low, 1, 1.0, true)
	addRule(t, db, tenant, "salary", high, 10, 0.5, true)

	rule, ok, err := engine.Resolve(tenant, "salary")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, high, rule.CategoryID)
}

func TestResolveHigherPriorityRuleChangesOutcome(t *testing.T) {
	t.Parallel()

	engine, db := testEngine(t)
	tenant := uuid.New()
	first := uuid.New()
	addRule(t, db, tenant, "rent", first, 5, 0.7, true)

	rule, ok, err := engine.Resolve(tenant, "rent")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first, rule.CategoryID)

	// A lower-priority rule must not change the selection.
	addRule(t, db, tenant, "rent", uuid.New(), 1, 1.0, true)
	rule, ok, err = engine.Resolve(tenant, "rent")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, first, rule.CategoryID)

	// A higher-priority rule must.
	winner := uuid.New()
	addRule(t, db, tenant, "rent", winner, 20, 0.4, true)
	rule, ok, err = engine.Resolve(tenant, "rent")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, winner, rule.CategoryID)
}

func TestResolveExactMatchOnly(t *testing.T) {
	t.Parallel()

	engine, db := testEngine(t)
	tenant := uuid.New()
	addRule(t, db, tenant, "payment_to_supplier", uuid.New(), 5, 0.8, true)

	_, ok, err := engine.Resolve(tenant, "payment")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestResolveIgnoresInactiveAndForeignTenant(t *testing.T) {
	t.Parallel()

	engine, db := testEngine(t)
	tenant := uuid.New()
	addRule(t, db, tenant, "fees", uuid.New(), 5, 0.8, false)
	addRule(t, db, uuid.New(), "fees", uuid.New(), 5, 0.8, true)

	_, ok, err := engine.Resolve(tenant, "fees")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestApplyNoMatchLeavesNeedsReview(t *testing.T) {
	t.Parallel()

	engine, _ := testEngine(t)
	line := models.StatementLine{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		OperationCode: "unknown_code",
		Status:        models.StatusNew,
	}

	require.NoError(t, engine.Apply(&line))
	require.Equal(t, models.StatusNeedsReview, line.Status)
	require.Nil(t, line.CategoryID)
	require.Zero(t, line.ConfidenceScore)
}

func TestApplySetsCategoryAndDetails(t *testing.T) {
	t.Parallel()

	engine, db := testEngine(t)
	tenant := uuid.New()
	category := uuid.New()
	addRule(t, db, tenant, "payment_to_supplier", category, 5, 0.85, true)

	line := models.StatementLine{
		ID:            uuid.New(),
		TenantID:      tenant,
		OperationCode: "payment_to_supplier",
		Status:        models.StatusNew,
	}

	require.NoError(t, engine.Apply(&line))
	require.Equal(t, models.StatusCategorized, line.Status)
	require.NotNil(t, line.CategoryID)
	require.Equal(t, category, *line.CategoryID)
	require.Equal(t, 0.85, line.ConfidenceScore)
	require.NotEmpty(t, line.ClassificationDetails)
}
