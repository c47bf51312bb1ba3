// File: /routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"mutiroes-api/config"
	"mutiroes-api/controllers"
	"mutiroes-api/middleware"
	"mutiroes-api/repositories"
	"mutiroes-api/services"
)

func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, emailService *services.EmailService) {
	// Repositories
	eventRepo := repositories.NewEventRepository(db)
	participationRepo := repositories.NewParticipationRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	badgeRepo := repositories.NewBadgeRepository(db)

	// Services
	admissionService := services.NewAdmissionService(participationRepo)
	statsService := services.NewStatsService(participationRepo)
	badgeService := services.NewBadgeService(badgeRepo, participationRepo)

	// Controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	eventController := controllers.NewEventController(db, eventRepo, participationRepo,
		admissionService, statsService, emailService)
	participantController := controllers.NewParticipantController(eventRepo, participationRepo, admissionService)
	reportController := controllers.NewReportController(eventRepo, participationRepo, reportRepo)
	badgeController := controllers.NewBadgeController(badgeRepo, badgeService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Public event browsing
	v1.GET("/events", eventController.GetEvents)
	v1.GET("/events/:id", eventController.GetEvent)
	v1.GET("/categories", eventController.GetCategories)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		events := protected.Group("/events")
		{
			events.POST("/", eventController.CreateEvent)
			events.GET("/my_events", eventController.MyEvents)
			events.GET("/nearby", eventController.NearbyEvents)
			events.PUT("/:id", eventController.UpdateEvent)
			events.DELETE("/:id", eventController.DeleteEvent)

			events.POST("/:id/join", eventController.JoinEvent)
			events.POST("/:id/leave", eventController.LeaveEvent)
			events.POST("/:id/check_in", eventController.CheckIn)
			events.GET("/:id/stats", eventController.GetStats)

			events.GET("/:id/participants", participantController.ListParticipants)
			events.POST("/:id/participants", participantController.CreateParticipant)
			events.GET("/:id/participants/:participantId", participantController.GetParticipant)
			events.PUT("/:id/participants/:participantId", participantController.UpdateParticipant)
			events.DELETE("/:id/participants/:participantId", participantController.DeleteParticipant)

			events.GET("/:id/resources", eventController.GetResources)
			events.POST("/:id/resources", eventController.CreateResource)

			events.GET("/:id/report", reportController.GetReport)
			events.POST("/:id/report", reportController.CreateReport)
			events.PUT("/:id/report", reportController.UpdateReport)
		}

		badges := protected.Group("/badges")
		{
			badges.GET("/", badgeController.ListBadges)
			badges.GET("/mine", badgeController.MyBadges)
			badges.POST("/:id/earn", badgeController.EarnBadge)
		}
	}
}
