package models

import "strconv"

// PendingQuotation is one entry of the admin-side quotation index. The
// legacy QuotationsStatus table overloads generic columns: SourceDB carries
// the nickname of the store that owns the quotation and Dop1 carries that
// store's quotation id. The connector maps them into the named fields here
// so the rest of the code never sees the positional column names.
type PendingQuotation struct {
	QuotationNumber     string
	SourceStoreNickname string
	QuotationRef        string
}

// ForeignQuotationID parses the store-local quotation id out of the legacy
// reference column.
func (q PendingQuotation) ForeignQuotationID() (int64, error) {
	return strconv.ParseInt(q.QuotationRef, 10, 64)
}

// QuotationContribution is one itemized line of a quotation aggregation.
// QtyOrdered is nil when the source store could not be queried; such lines
// contribute nothing to the aggregation total but stay visible for review.
type QuotationContribution struct {
	SourceStore     string   `json:"source_db"`
	QuotationNumber string   `json:"quotation_number"`
	QtyOrdered      *float64 `json:"qty_ordered"`
	StoreConfigured bool     `json:"store_configured"`
	Error           string   `json:"error,omitempty"`
}
