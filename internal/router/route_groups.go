package router

import (
	"github.com/ruolez/inventory-update/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupPublicAuthRoutes sets up the unauthenticated auth routes.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes sets up the session-guarded auth routes.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.Logout)
	group.GET("/me", authHandler.Me)
}

// SetupProductRoutes sets up the scanning and reconciliation routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/product")
	{
		productRoutes.GET("/lookup", productHandler.Lookup)
		productRoutes.GET("/quotations", productHandler.Quotations)
		productRoutes.GET("/purchase-orders", productHandler.PurchaseOrders)
		productRoutes.GET("/bin-locations", productHandler.BinLocations)
		productRoutes.POST("/check-difference", productHandler.CheckDifference)
		productRoutes.POST("/update-quantity", productHandler.UpdateQuantity)
	}
}

// SetupTransactionRoutes sets up the reconciliation ledger routes.
func SetupTransactionRoutes(authenticatedGroup *gin.RouterGroup, transactionHandler *handlers.TransactionHandler) {
	authenticatedGroup.GET("/transactions", transactionHandler.GetTransactions)
}

// SetupConfigRoutes sets up the configuration routes. These stay open so an
// operator can point the service at the admin DB and stores on first run.
func SetupConfigRoutes(apiGroup *gin.RouterGroup, configHandler *handlers.ConfigHandler, settingHandler *handlers.SettingHandler) {
	configRoutes := apiGroup.Group("/config")
	{
		configRoutes.GET("/status", configHandler.Status)

		configRoutes.GET("/admin-db", configHandler.GetAdminDB)
		configRoutes.POST("/admin-db", configHandler.SaveAdminDB)
		configRoutes.POST("/test-admin-db", configHandler.TestAdminDB)

		configRoutes.GET("/stores", configHandler.GetStores)
		configRoutes.POST("/stores", configHandler.CreateStore)
		configRoutes.PUT("/stores/:id", configHandler.UpdateStore)
		configRoutes.DELETE("/stores/:id", configHandler.DeleteStore)
		configRoutes.POST("/stores/:id/test", configHandler.TestStore)
		configRoutes.POST("/stores/:id/set-primary", configHandler.SetPrimaryStore)

		configRoutes.GET("/settings/quantity-threshold", settingHandler.GetQuantityThreshold)
		configRoutes.POST("/settings/quantity-threshold", settingHandler.SaveQuantityThreshold)
	}
}
