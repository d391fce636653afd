package models

import "time"

// Product mirrors one row of the store database's item master. The store
// database owns this record; this application only reads it and writes
// QuantityOnHand/LastCountDate during a reconciliation commit.
type Product struct {
	ProductID      int64      `json:"product_id"`
	UPC            string     `json:"product_upc"`
	SKU            *string    `json:"product_sku,omitempty"`
	Description    *string    `json:"product_description,omitempty"`
	QuantityOnHand *float64   `json:"quantity_on_hand"`
	LastCountDate  *time.Time `json:"last_count_date,omitempty"`
	UnitsPerCase   float64    `json:"units_per_case"`
}
