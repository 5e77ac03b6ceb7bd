package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"budget-sync-backend/internal/erp"
	handler "budget-sync-backend/internal/handlers"
	"budget-sync-backend/internal/repository"
	"budget-sync-backend/internal/services/classification"
	service "budget-sync-backend/internal/services/sync"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, gateway erp.Gateway) {
	catalogRepo := repository.NewCatalogRepository(db)
	lineRepo := repository.NewStatementLineRepository(db)
	ruleRepo := repository.NewMappingRuleRepository(db)

	classifier := classification.NewEngine(ruleRepo)
	syncService := service.NewService(gateway, catalogRepo, lineRepo, classifier)

	syncHandler := handler.NewSyncHandler(syncService, classifier, catalogRepo, lineRepo, ruleRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Sync routes
	syncGroup := api.Group("/sync")
	syncGroup.POST("/run", syncHandler.RunSync)
	syncGroup.POST("/reclassify", syncHandler.ReclassifyAll)

	// Transaction-level routes
	tx := api.Group("/transactions")
	tx.GET("", syncHandler.ListTransactions)
	tx.POST("/:id/classify", syncHandler.ClassifyTransaction)
	tx.POST("/:id/match", syncHandler.MatchTransaction)
	tx.POST("/:id/push", syncHandler.PushDocument)

	// Catalog routes
	api.GET("/catalogs/:entryType", syncHandler.ListCatalog)

	// Mapping rule routes
	rules := api.Group("/rules")
	{
		rules.POST("", syncHandler.CreateRule)
		rules.GET("", syncHandler.ListRules)
		rules.DELETE("/:id", syncHandler.DeleteRule)
	}
}
