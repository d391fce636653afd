package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ruolez/inventory-update/internal/database"
	"github.com/ruolez/inventory-update/internal/middleware"
	"github.com/ruolez/inventory-update/internal/repositories"
	"github.com/ruolez/inventory-update/internal/router"
	"github.com/ruolez/inventory-update/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments pass the environment directly.
	_ = godotenv.Load()

	// Initialize Logger
	utils.InitLogger()
	utils.InitStoreTimezone()

	// Load configuration database settings from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "inventory_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "inventory_password")
	dbName := utils.Getenv("DB_NAME", "inventory_update_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "db_schema.sql")

	// Initialize Database
	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Configuration database initialized", map[string]interface{}{"configured_from_env": true})

	dbConn := database.GetDB()

	// Seed default settings so the threshold endpoint always answers.
	settingRepo := repositories.NewSettingRepository(dbConn)
	if err := settingRepo.EnsureDefaultSettings(); err != nil {
		utils.LogError(err, "Failed to seed default settings")
		log.Fatalf("Failed to seed default settings: %v", err)
	}

	engine := gin.Default()

	// Add GinLogger middleware for request logging
	engine.Use(utils.GinLogger())
	engine.Use(middleware.NoCacheMiddleware())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"} // Default origins
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Session-Token"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	// Setup all application routes
	router.Setup(engine, dbConn)

	// Server port configuration
	port := utils.Getenv("PORT", "5557")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "configured_from_env": true})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
