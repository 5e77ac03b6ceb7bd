package main

import (
	"log"
	"time"

	"budget-sync-backend/internal/config"
	"budget-sync-backend/internal/erp"
	"budget-sync-backend/internal/models"
	"budget-sync-backend/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	db := config.InitDB()

	db.AutoMigrate(
		&models.CatalogEntry{},
		&models.StatementLine{},
		&models.MappingRule{},
		&models.SyncRun{},
	)

	gateway := erp.NewClient(config.LoadERPConfig())

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, gateway)

	r.Run(":8080")
}
