package handler

import (
	"net/http"
	"time"

	"budget-sync-backend/internal/models"
	"budget-sync-backend/internal/repository"
	"budget-sync-backend/internal/services/classification"
	service "budget-sync-backend/internal/services/sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SyncHandler struct {
	service    *service.Service
	classifier *classification.Engine
	catalogs   *repository.CatalogRepository
	lines      *repository.StatementLineRepository
	rules      *repository.MappingRuleRepository
}

func NewSyncHandler(
	s *service.Service,
	classifier *classification.Engine,
	catalogs *repository.CatalogRepository,
	lines *repository.StatementLineRepository,
	rules *repository.MappingRuleRepository,
) *SyncHandler {
	return &SyncHandler{
		service:    s,
		classifier: classifier,
		catalogs:   catalogs,
		lines:      lines,
		rules:      rules,
	}
}

// RunSync triggers a synchronous sync for one entity type (or all of them
// when entity_type is omitted) and returns the result counts.
func (h *SyncHandler) RunSync(c *gin.Context) {
	var payload struct {
		TenantID   string `json:"tenant_id"`
		EntityType string `json:"entity_type"`
		PageSize   int    `json:"page_size"`
		Filter     string `json:"filter"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant ID"})
		return
	}

	opts := service.Options{PageSize: payload.PageSize, Filter: payload.Filter}

	if payload.EntityType == "" {
		results := h.service.RunAll(c.Request.Context(), tenantID, opts)
		c.JSON(http.StatusOK, gin.H{"results": results})
		return
	}

	result := h.service.Run(c.Request.Context(), tenantID, payload.EntityType, opts)
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ClassifyTransaction re-classifies a single statement line on demand.
func (h *SyncHandler) ClassifyTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	line, err := h.lines.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	if err := h.classifier.Apply(line); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.lines.DB().Save(line).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction classified", "transaction": line})
}

// ReclassifyAll re-runs classification over a tenant's unresolved lines.
func (h *SyncHandler) ReclassifyAll(c *gin.Context) {
	var payload struct {
		TenantID string `json:"tenant_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant ID"})
		return
	}

	updated, err := h.service.Reclassify(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reclassification completed", "transactions_updated": updated})
}

// MatchTransaction manually pins a statement line to a category. Matched
// lines are never touched by machine re-classification.
func (h *SyncHandler) MatchTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	var payload struct {
		CategoryID string `json:"category_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	categoryID, err := uuid.Parse(payload.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}

	line, err := h.lines.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}

	line.CategoryID = &categoryID
	line.ConfidenceScore = 1
	line.Status = models.StatusMatched
	line.ClassificationDetails = nil
	if err := h.lines.DB().Save(line).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction matched", "transaction": line})
}

// PushDocument creates a payment document in the accounting system from a
// local statement line.
func (h *SyncHandler) PushDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	refKey, err := h.service.PushDocument(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "document created", "ref_key": refKey})
}

// ListTransactions lists a tenant's statement lines with cursor pagination.
func (h *SyncHandler) ListTransactions(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant ID"})
		return
	}

	status := c.Query("status")
	cursor := c.Query("cursor")
	limit := 50

	items, nextCursor, hasMore := h.lines.ListByTenant(tenantID, status, cursor, limit)
	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"next_cursor": nextCursor,
		"has_more":    hasMore,
	})
}

// ListCatalog lists a tenant's synced catalog entries of one type.
func (h *SyncHandler) ListCatalog(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant ID"})
		return
	}

	entryType := c.Param("entryType")
	if entryType != models.EntryTypeOrganization && entryType != models.EntryTypeCategory {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid catalog type"})
		return
	}

	entries, err := h.catalogs.ListByTenant(tenantID, entryType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": entries})
}

// CreateRule adds a mapping rule for a tenant.
func (h *SyncHandler) CreateRule(c *gin.Context) {
	var payload struct {
		TenantID      string  `json:"tenant_id"`
		OperationCode string  `json:"operation_code"`
		CategoryID    string  `json:"category_id"`
		Priority      int     `json:"priority"`
		Confidence    float64 `json:"confidence"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	tenantID, err := uuid.Parse(payload.TenantID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant ID"})
		return
	}
	categoryID, err := uuid.Parse(payload.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
		return
	}
	if payload.OperationCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation code required"})
		return
	}
	if payload.Confidence < 0 || payload.Confidence > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "confidence must be between 0 and 1"})
		return
	}

	rule := &models.MappingRule{
		ID:            uuid.New(),
		TenantID:      tenantID,
		OperationCode: payload.OperationCode,
		CategoryID:    categoryID,
		Priority:      payload.Priority,
		Confidence:    payload.Confidence,
		Active:        true,
		CreatedAt:     time.Now(),
	}
	if err := h.rules.Create(rule); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule created", "rule": rule})
}

// ListRules lists a tenant's mapping rules, best-first.
func (h *SyncHandler) ListRules(c *gin.Context) {
	tenantID, err := uuid.Parse(c.Query("tenant_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant ID"})
		return
	}

	rules, err := h.rules.ListByTenant(tenantID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": rules})
}

// DeleteRule removes a mapping rule.
func (h *SyncHandler) DeleteRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule ID"})
		return
	}
	if err := h.rules.Delete(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "rule deleted"})
}
