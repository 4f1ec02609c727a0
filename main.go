package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hermes-oms/hermes/config"
	"github.com/hermes-oms/hermes/models"
	"github.com/hermes-oms/hermes/services"
)

func main() {
	// Basic logging
	log.Println("Starting Hermes order management server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := models.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize the geocoder used by the site controller
	geocoder := services.InitGeocoder(cfg)

	// Build the router
	router := SetupRouter(cfg, db, geocoder)

	// Start server
	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	db := config.GetDB()
	if db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Hermes order management API is running",
	})
}
