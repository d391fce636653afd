package models

import "time"

// Transaction log statuses.
const (
	TransactionStatusSuccess = "success"
	TransactionStatusFailed  = "failed"
)

// TransactionLogEntry is one immutable row of the reconciliation ledger.
// Every commit attempt produces exactly one row, successful or not. For a
// failed attempt OldQuantity and Difference stay nil because the store-side
// state at failure time is unknown, while NewQuantity records the quantity
// the attempt tried to write.
type TransactionLogEntry struct {
	ID                 int64     `json:"id" db:"id"`
	Username           string    `json:"username" db:"username"`
	StoreNickname      string    `json:"store_nickname" db:"store_nickname"`
	ProductID          int64     `json:"product_id" db:"product_id"`
	ProductUPC         string    `json:"product_upc" db:"product_upc"`
	ProductSKU         string    `json:"product_sku" db:"product_sku"`
	ProductDescription string    `json:"product_description" db:"product_description"`
	OldQuantity        *float64  `json:"old_quantity" db:"old_quantity"`
	NewQuantity        *float64  `json:"new_quantity" db:"new_quantity"`
	Difference         *float64  `json:"difference" db:"difference"`
	UserEnteredQty     *float64  `json:"user_entered_qty" db:"user_entered_qty"`
	QuotationsQty      float64   `json:"quotations_qty" db:"quotations_qty"`
	PurchaseOrdersQty  float64   `json:"purchase_orders_qty" db:"purchase_orders_qty"`
	TopBinsQty         float64   `json:"top_bins_qty" db:"top_bins_qty"`
	Status             string    `json:"status" db:"status"`
	ErrorMessage       *string   `json:"error_message,omitempty" db:"error_message"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}
