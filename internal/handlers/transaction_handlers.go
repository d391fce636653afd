package handlers

import (
	"net/http"
	"strconv"

	"github.com/ruolez/inventory-update/internal/repositories"
	"github.com/ruolez/inventory-update/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TransactionHandler exposes the reconciliation ledger.
type TransactionHandler struct {
	txLogRepo repositories.TransactionLogRepository
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(repo repositories.TransactionLogRepository) *TransactionHandler {
	return &TransactionHandler{txLogRepo: repo}
}

// GetTransactions returns ledger rows newest first, optionally filtered by
// status and username.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	var status, username *string
	if s := c.Query("status"); s != "" {
		status = &s
	}
	if u := c.Query("username"); u != "" {
		username = &u
	}

	transactions, err := h.txLogRepo.GetTransactions(limit, offset, status, username)
	if err != nil {
		utils.LogError(err, "GetTransactions: Error from txLogRepo.GetTransactions")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to get transactions.", err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
