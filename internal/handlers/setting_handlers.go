package handlers

import (
	"errors"
	"net/http"

	"github.com/ruolez/inventory-update/internal/services"
	"github.com/ruolez/inventory-update/pkg/utils"

	"github.com/gin-gonic/gin"
)

// SettingHandler exposes the reconciliation tunables.
type SettingHandler struct {
	reconciliationService services.ReconciliationService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(rs services.ReconciliationService) *SettingHandler {
	return &SettingHandler{reconciliationService: rs}
}

// GetQuantityThreshold returns the variance threshold, defaulted when unset.
func (h *SettingHandler) GetQuantityThreshold(c *gin.Context) {
	threshold, err := h.reconciliationService.QuantityThreshold()
	if err != nil {
		utils.LogError(err, "GetQuantityThreshold: Error from reconciliationService.QuantityThreshold")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get threshold.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": threshold})
}

type saveThresholdRequest struct {
	Threshold *float64 `json:"threshold" binding:"required"`
}

// SaveQuantityThreshold updates the variance threshold.
func (h *SettingHandler) SaveQuantityThreshold(c *gin.Context) {
	var req saveThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Threshold value is required.", err.Error()))
		return
	}

	if err := h.reconciliationService.SetQuantityThreshold(*req.Threshold); err != nil {
		utils.LogError(err, "SaveQuantityThreshold: Error from reconciliationService.SetQuantityThreshold")
		if errors.Is(err, services.ErrInvalidThreshold) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Threshold must be a non-negative number.", err.Error()))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to save threshold.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "threshold": *req.Threshold})
}
