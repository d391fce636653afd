package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ruolez/inventory-update/internal/middleware"
	"github.com/ruolez/inventory-update/internal/services"
	"github.com/ruolez/inventory-update/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ProductHandler holds the services behind the scanning workflow.
type ProductHandler struct {
	reconciliationService services.ReconciliationService
	aggregationService    services.AggregationService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(rs services.ReconciliationService, ags services.AggregationService) *ProductHandler {
	return &ProductHandler{reconciliationService: rs, aggregationService: ags}
}

// respondNotConfigured maps the configuration sentinels to a 503; returns
// false when err is neither.
func respondNotConfigured(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrAdminDBNotConfigured):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeNotConfigured, "Admin database not configured. Please configure in settings.", err.Error()))
	case errors.Is(err, services.ErrPrimaryStoreNotConfigured):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusServiceUnavailable, utils.ErrCodeNotConfigured, "Primary store not configured. Please configure in settings.", err.Error()))
	default:
		return false
	}
	return true
}

// Lookup finds a product by barcode in the primary store.
func (h *ProductHandler) Lookup(c *gin.Context) {
	barcode := strings.TrimSpace(c.Query("barcode"))
	if barcode == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Barcode is required.", ""))
		return
	}

	product, err := h.reconciliationService.LookupProductByUPC(c.Request.Context(), barcode)
	if err != nil {
		utils.LogError(err, "Lookup: Error from reconciliationService.LookupProductByUPC")
		if respondNotConfigured(c, err) {
			return
		}
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Lookup failed.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, product)
}

// Quotations returns the itemized cross-store quotation quantities for a UPC.
func (h *ProductHandler) Quotations(c *gin.Context) {
	upc := strings.TrimSpace(c.Query("upc"))
	if upc == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "UPC is required.", ""))
		return
	}

	agg, err := h.aggregationService.AggregateQuotations(c.Request.Context(), upc)
	if err != nil {
		utils.LogError(err, "Quotations: Error from aggregationService.AggregateQuotations")
		if respondNotConfigured(c, err) {
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get quotations.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, agg)
}

// PurchaseOrders returns the itemized pending-PO quantities for a UPC.
func (h *ProductHandler) PurchaseOrders(c *gin.Context) {
	upc := strings.TrimSpace(c.Query("upc"))
	if upc == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "UPC is required.", ""))
		return
	}

	agg, err := h.aggregationService.AggregatePurchaseOrders(c.Request.Context(), upc)
	if err != nil {
		utils.LogError(err, "PurchaseOrders: Error from aggregationService.AggregatePurchaseOrders")
		if respondNotConfigured(c, err) {
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get purchase orders.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, agg)
}

// BinLocations returns the summed bin-location quantity for a UPC.
func (h *ProductHandler) BinLocations(c *gin.Context) {
	upc := strings.TrimSpace(c.Query("upc"))
	if upc == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "UPC is required.", ""))
		return
	}

	agg, err := h.aggregationService.AggregateBinLocations(c.Request.Context(), upc)
	if err != nil {
		utils.LogError(err, "BinLocations: Error from aggregationService.AggregateBinLocations")
		if respondNotConfigured(c, err) {
			return
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get bin locations.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, agg)
}

// CheckDifference runs the pre-flight variance check without committing.
func (h *ProductHandler) CheckDifference(c *gin.Context) {
	var req services.CheckDifferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.reconciliationService.CheckDifference(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CheckDifference: Error from reconciliationService.CheckDifference")
		if respondNotConfigured(c, err) {
			return
		}
		switch {
		case errors.Is(err, services.ErrReconciliationValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Check failed.", err.Error()))
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateQuantity commits a reconciled count to the primary store and the
// admin audit table, and appends the ledger row.
func (h *ProductHandler) UpdateQuantity(c *gin.Context) {
	var req services.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	username := c.GetString(middleware.ContextUsername)
	result, err := h.reconciliationService.UpdateQuantity(c.Request.Context(), username, req)
	if err != nil {
		utils.LogError(err, "UpdateQuantity: Error from reconciliationService.UpdateQuantity")
		if respondNotConfigured(c, err) {
			return
		}
		switch {
		case errors.Is(err, services.ErrReconciliationValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		case errors.Is(err, services.ErrProductNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", ""))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Update failed.", err.Error()))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":             true,
		"product_id":          result.ProductID,
		"old_quantity":        result.OldQuantity,
		"new_quantity":        result.NewQuantity,
		"user_entered_qty":    result.UserEnteredQty,
		"quotations_qty":      result.QuotationsQty,
		"purchase_orders_qty": result.PurchaseOrdersQty,
		"top_bins_qty":        result.TopBinsQty,
		"difference":          result.Difference,
	})
}
