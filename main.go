// File: /main.go
package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"mutiroes-api/config"
	"mutiroes-api/database"
	"mutiroes-api/jobs"
	"mutiroes-api/middleware"
	"mutiroes-api/routes"
	"mutiroes-api/services"
)

func main() {
	// Load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Seed database with base data (categories and badges)
	if err := database.SeedData(db); err != nil {
		log.Printf("Warning: Failed to seed database: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Email service shared by controllers and background jobs
	emailService := services.NewEmailService(cfg)

	// Start background maintenance (event completion + reminders)
	maintenanceJob := jobs.NewEventMaintenanceJob(db, emailService, cfg.MaintenanceInterval, cfg.ReminderWindow)
	maintenanceJob.Start()
	defer maintenanceJob.Stop()

	// Create router
	router := gin.Default()

	// Setup CORS middleware
	router.Use(routes.SetupCORS())

	// Security headers
	router.Use(middleware.SecurityHeaders())

	// Basic abuse protection
	router.Use(middleware.RateLimit(120, 30))

	// Setup routes
	routes.SetupRoutes(router, db, cfg, emailService)

	// Start server
	log.Printf("Starting Mutiroes API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
