package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ruolez/inventory-update/internal/models"
)

// TransactionLogRepository is the append-only reconciliation ledger. Rows
// are never updated or deleted.
type TransactionLogRepository interface {
	LogTransaction(entry *models.TransactionLogEntry) error
	GetTransactions(limit, offset int, status, username *string) ([]models.TransactionLogEntry, error)
}

type transactionLogRepository struct {
	db *sql.DB
}

// NewTransactionLogRepository creates a new instance of TransactionLogRepository.
func NewTransactionLogRepository(db *sql.DB) TransactionLogRepository {
	return &transactionLogRepository{db: db}
}

// LogTransaction appends one ledger row for a reconciliation attempt.
func (r *transactionLogRepository) LogTransaction(entry *models.TransactionLogEntry) error {
	query := `INSERT INTO transaction_log
	          (username, store_nickname, product_id, product_upc, product_sku,
	           product_description, old_quantity, new_quantity, difference,
	           user_entered_qty, quotations_qty, purchase_orders_qty, top_bins_qty,
	           status, error_message)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(query,
		entry.Username, entry.StoreNickname, entry.ProductID, entry.ProductUPC, entry.ProductSKU,
		entry.ProductDescription, entry.OldQuantity, entry.NewQuantity, entry.Difference,
		entry.UserEnteredQty, entry.QuotationsQty, entry.PurchaseOrdersQty, entry.TopBinsQty,
		entry.Status, entry.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("%w: logging transaction: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetTransactions retrieves ledger rows newest first, optionally filtered by
// status and/or username, paginated with limit/offset.
func (r *transactionLogRepository) GetTransactions(limit, offset int, status, username *string) ([]models.TransactionLogEntry, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, username, store_nickname, product_id, product_upc, product_sku,
	                                 product_description, old_quantity, new_quantity, difference,
	                                 user_entered_qty, quotations_qty, purchase_orders_qty, top_bins_qty,
	                                 status, error_message, created_at
	                          FROM transaction_log`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if status != nil && *status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *status)
		argCount++
	}
	if username != nil && *username != "" {
		conditions = append(conditions, fmt.Sprintf("username = $%d", argCount))
		args = append(args, *username)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, limit, offset)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying transaction log: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	entries := []models.TransactionLogEntry{}
	for rows.Next() {
		var entry models.TransactionLogEntry
		if err := rows.Scan(
			&entry.ID, &entry.Username, &entry.StoreNickname, &entry.ProductID, &entry.ProductUPC,
			&entry.ProductSKU, &entry.ProductDescription, &entry.OldQuantity, &entry.NewQuantity,
			&entry.Difference, &entry.UserEnteredQty, &entry.QuotationsQty, &entry.PurchaseOrdersQty,
			&entry.TopBinsQty, &entry.Status, &entry.ErrorMessage, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning transaction log row: %v", ErrDatabaseError, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating transaction log rows: %v", ErrDatabaseError, err)
	}
	return entries, nil
}
