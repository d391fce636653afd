package models

// PendingPurchaseOrder is a not-yet-received PO header from the primary
// store, limited by the connector to the trailing 90-day window.
type PendingPurchaseOrder struct {
	PoID     int64
	PoNumber string
}

// PurchaseOrderContribution is one itemized line of a purchase-order
// aggregation. Purchase-order quantities are informational only and are
// never folded into a committed inventory count.
type PurchaseOrderContribution struct {
	PoNumber   string   `json:"po_number"`
	QtyOrdered *float64 `json:"qty_ordered"`
	Error      string   `json:"error,omitempty"`
}
