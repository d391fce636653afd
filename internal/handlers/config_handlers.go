package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ruolez/inventory-update/internal/services"
	"github.com/ruolez/inventory-update/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ConfigHandler manages admin DB and store connection configuration. These
// endpoints stay open (no session) so an operator can bootstrap a fresh
// install, matching the settings surface this replaces.
type ConfigHandler struct {
	storeService services.StoreService
}

// NewConfigHandler creates a new ConfigHandler.
func NewConfigHandler(ss services.StoreService) *ConfigHandler {
	return &ConfigHandler{storeService: ss}
}

// Status reports whether the admin DB and a primary store are configured.
func (h *ConfigHandler) Status(c *gin.Context) {
	status, err := h.storeService.ConfigStatus()
	if err != nil {
		utils.LogError(err, "Status: Error from storeService.ConfigStatus")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get config status.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, status)
}

// GetAdminDB returns the saved admin DB config. The password never leaves
// the server; the model hides it from JSON.
func (h *ConfigHandler) GetAdminDB(c *gin.Context) {
	cfg, err := h.storeService.GetAdminDBConfig()
	if err != nil {
		if errors.Is(err, services.ErrAdminDBNotConfigured) {
			c.JSON(http.StatusOK, gin.H{"config": nil})
			return
		}
		utils.LogError(err, "GetAdminDB: Error from storeService.GetAdminDBConfig")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get admin DB config.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

// SaveAdminDB replaces the admin DB config.
func (h *ConfigHandler) SaveAdminDB(c *gin.Context) {
	var req services.AdminDBConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.storeService.SaveAdminDBConfig(req); err != nil {
		utils.LogError(err, "SaveAdminDB: Error from storeService.SaveAdminDBConfig")
		if errors.Is(err, services.ErrConfigValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save admin DB config.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TestAdminDB checks the given admin DB coordinates without saving them.
func (h *ConfigHandler) TestAdminDB(c *gin.Context) {
	var req services.AdminDBConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.storeService.TestAdminDBConnection(c.Request.Context(), req); err != nil {
		utils.LogError(err, "TestAdminDB: connection test failed")
		if errors.Is(err, services.ErrConfigValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Connection successful"})
}

// GetStores lists all registered store connections, primary first.
func (h *ConfigHandler) GetStores(c *gin.Context) {
	stores, err := h.storeService.GetStores()
	if err != nil {
		utils.LogError(err, "GetStores: Error from storeService.GetStores")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get stores.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stores": stores})
}

// CreateStore registers a new store connection.
func (h *ConfigHandler) CreateStore(c *gin.Context) {
	var req services.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	store, err := h.storeService.CreateStore(req)
	if err != nil {
		utils.LogError(err, "CreateStore: Error from storeService.CreateStore")
		switch {
		case errors.Is(err, services.ErrStoreValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		case errors.Is(err, services.ErrNicknameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Store nickname already exists.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to add store.", err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": store.ID})
}

func storeIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid store ID format.", err.Error()))
		return 0, false
	}
	return id, true
}

// UpdateStore applies a partial update to a store connection.
func (h *ConfigHandler) UpdateStore(c *gin.Context) {
	id, ok := storeIDParam(c)
	if !ok {
		return
	}

	var req services.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.storeService.UpdateStore(id, req); err != nil {
		utils.LogError(err, "UpdateStore: Error from storeService.UpdateStore")
		switch {
		case errors.Is(err, services.ErrStoreNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Store not found.", err.Error()))
		case errors.Is(err, services.ErrNicknameExists):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Store nickname already exists.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update store.", err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteStore removes a store connection.
func (h *ConfigHandler) DeleteStore(c *gin.Context) {
	id, ok := storeIDParam(c)
	if !ok {
		return
	}

	if err := h.storeService.DeleteStore(id); err != nil {
		utils.LogError(err, "DeleteStore: Error from storeService.DeleteStore")
		if errors.Is(err, services.ErrStoreNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Store not found.", err.Error()))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete store.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TestStore checks that a registered store database answers.
func (h *ConfigHandler) TestStore(c *gin.Context) {
	id, ok := storeIDParam(c)
	if !ok {
		return
	}

	if err := h.storeService.TestStoreConnection(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Store not found.", err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Connection successful"})
}

// SetPrimaryStore makes a store the single primary.
func (h *ConfigHandler) SetPrimaryStore(c *gin.Context) {
	id, ok := storeIDParam(c)
	if !ok {
		return
	}

	if err := h.storeService.SetPrimaryStore(id); err != nil {
		utils.LogError(err, "SetPrimaryStore: Error from storeService.SetPrimaryStore")
		if errors.Is(err, services.ErrStoreNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Store not found.", err.Error()))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to set primary store.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
