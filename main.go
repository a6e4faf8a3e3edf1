package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"onboarding-intake/pkg/api"
	"onboarding-intake/pkg/clients/airtable"
	"onboarding-intake/pkg/clients/webhook"
	"onboarding-intake/pkg/config"
	"onboarding-intake/pkg/middleware"
	"onboarding-intake/pkg/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file")
	}

	// Initialize configuration
	cfg := config.LoadConfig()

	// Initialize API clients
	airtableClient := airtable.NewClient(cfg)
	notifier := webhook.NewNotifier(cfg.WebhookURL)
	secondaryNotifier := webhook.NewNotifier(cfg.SecondaryWebhookURL)

	// Initialize services
	submissionService := services.NewSubmissionService(
		airtableClient,
		notifier,
		secondaryNotifier,
		cfg,
	)

	// Create a new Gin router with default middleware
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	// Initialize handlers
	handlers := api.NewHandlers(submissionService)

	// Register routes
	router.POST("/api/submit", handlers.HandleSubmit)
	router.GET("/health", handlers.HealthCheck)

	// Start the server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
