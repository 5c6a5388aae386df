package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRef classifies what caused a stock change.
type LedgerRef string

const (
	LedgerRefOrder      LedgerRef = "order"
	LedgerRefRefund     LedgerRef = "refund"
	LedgerRefPurchase   LedgerRef = "purchase"
	LedgerRefAdjustment LedgerRef = "adjustment"
)

// LedgerEntry is one append-only record of a stock change. Entries are never
// updated or deleted; current stock must equal initial stock plus their sum.
type LedgerEntry struct {
	ID          int64
	ProductID   int64
	Change      int
	Reference   LedgerRef
	ReferenceID int64
	ActorID     int64
	CreatedAt   time.Time
}

// Product is the slice of the catalog this engine owns: the stock counter and
// the price snapshot taken at reservation time. Catalog CRUD lives elsewhere.
type Product struct {
	ID            int64
	Name          string
	SKU           string
	Price         decimal.Decimal
	StockQuantity int
	InitialStock  int
}

// StockReport compares the stored counter against the ledger-derived value.
type StockReport struct {
	ProductID  int64
	Stored     int
	Computed   int
	Consistent bool
}
