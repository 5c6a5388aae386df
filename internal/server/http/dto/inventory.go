package dto

import "time"

// RestockRequest increments stock outside the order flow.
type RestockRequest struct {
	Quantity    int    `json:"quantity" binding:"required"`
	Reference   string `json:"reference"`
	ReferenceID int64  `json:"reference_id"`
}

// LedgerEntryResponse is one append-only stock change record.
type LedgerEntryResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	Change      int       `json:"change"`
	Reference   string    `json:"reference"`
	ReferenceID int64     `json:"reference_id,omitempty"`
	ActorID     int64     `json:"actor_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StockReportResponse compares stored stock with the ledger-derived value.
type StockReportResponse struct {
	ProductID  int64 `json:"product_id"`
	Stored     int   `json:"stored"`
	Computed   int   `json:"computed"`
	Consistent bool  `json:"consistent"`
}
