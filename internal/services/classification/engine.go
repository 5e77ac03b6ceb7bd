package classification

import (
	"encoding/json"

	"budget-sync-backend/internal/models"
	"budget-sync-backend/internal/repository"

	"github.com/google/uuid"
)

// Engine resolves a statement line's business-operation code against the
// tenant's mapping-rule table. Matching is exact on the code; among matching
// rules the highest priority wins, then highest confidence, then lowest id,
// so the same inputs always select the same rule.
type Engine struct {
	rules *repository.MappingRuleRepository
}

func NewEngine(rules *repository.MappingRuleRepository) *Engine {
	return &Engine{rules: rules}
}

// Resolve returns the best-matching rule for an operation code, or ok=false
// when no active rule matches.
func (e *Engine) Resolve(tenantID uuid.UUID, operationCode string) (*models.MappingRule, bool, error) {
	if operationCode == "" {
		return nil, false, nil
	}

	candidates, err := e.rules.FindActiveByCode(tenantID, operationCode)
	if err != nil {
		return nil, false, err
	}
	if len(candidates) == 0 {
		return nil, false, nil
	}

	// Repository ordering already ranks candidates; the first is the winner.
	best := candidates[0]
	return &best, true, nil
}

// Apply classifies a line in place. No rule match leaves the line in
// needs_review rather than defaulting it to a generic category.
func (e *Engine) Apply(line *models.StatementLine) error {
	rule, ok, err := e.Resolve(line.TenantID, line.OperationCode)
	if err != nil {
		return err
	}

	if !ok {
		line.CategoryID = nil
		line.ConfidenceScore = 0
		line.Status = models.StatusNeedsReview
		line.ClassificationDetails = nil
		return nil
	}

	categoryID := rule.CategoryID
	line.CategoryID = &categoryID
	line.ConfidenceScore = rule.Confidence
	line.Status = models.StatusCategorized

	details := map[string]interface{}{
		"rule_id":        rule.ID.String(),
		"operation_code": line.OperationCode,
		"priority":       rule.Priority,
		"confidence":     rule.Confidence,
		"decision":       line.Status,
	}
	detailsJSON, _ := json.Marshal(details)
	line.ClassificationDetails = detailsJSON
	return nil
}
