package router

import (
	"database/sql"

	"github.com/ruolez/inventory-update/internal/connectors"
	"github.com/ruolez/inventory-update/internal/handlers"
	"github.com/ruolez/inventory-update/internal/middleware"
	"github.com/ruolez/inventory-update/internal/repositories"
	"github.com/ruolez/inventory-update/internal/services"
	"github.com/ruolez/inventory-update/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB) {
	// Initialize Repositories
	storeRepo := repositories.NewStoreRepository(db)
	adminCfgRepo := repositories.NewAdminConfigRepository(db)
	txLogRepo := repositories.NewTransactionLogRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	settingRepo := repositories.NewSettingRepository(db)

	// Connector factories. Services build a fresh connector per operation so
	// a saved config change takes effect on the next request.
	adminFactory := services.AdminConnectorFactory(connectors.NewAdminConnector)
	storeFactory := services.StoreConnectorFactory(connectors.NewStoreConnector)

	// Initialize Services
	authService := services.NewAuthService(sessionRepo, adminCfgRepo, adminFactory)
	aggregationService := services.NewAggregationService(storeRepo, adminCfgRepo, adminFactory, storeFactory)
	reconciliationService := services.NewReconciliationService(storeRepo, adminCfgRepo, settingRepo, txLogRepo, adminFactory, storeFactory, utils.NowInStoreTZ)
	storeService := services.NewStoreService(storeRepo, adminCfgRepo, db, adminFactory, storeFactory)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(reconciliationService, aggregationService)
	transactionHandler := handlers.NewTransactionHandler(txLogRepo)
	configHandler := handlers.NewConfigHandler(storeService)
	settingHandler := handlers.NewSettingHandler(reconciliationService)

	api := engine.Group("/api")

	// Public routes: login, plus the config surface so a fresh install can
	// be bootstrapped before any user can sign in.
	SetupPublicAuthRoutes(api.Group("/auth"), authHandler)
	SetupConfigRoutes(api, configHandler, settingHandler)

	// Session-guarded routes
	authenticated := api.Group("")
	authenticated.Use(middleware.SessionAuthMiddleware(authService))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupTransactionRoutes(authenticated, transactionHandler)
	}
}
