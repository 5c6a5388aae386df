package repository

import (
	"context"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// InventoryRepository owns the per-product stock counter and its audit trail.
// Every mutation locks the product row, verifies the ledger still reconciles,
// and appends exactly one ledger entry.
type InventoryRepository interface {
	// Reserve decrements stock for an order line; fails with
	// InsufficientStockError when qty exceeds what the locked row holds.
	Reserve(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error

	// Release returns previously reserved stock (cancellation, refund).
	Release(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error

	// Restock increments stock for a purchase-order receipt or adjustment.
	Restock(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error

	// Ledger returns the append-only audit entries, oldest first.
	Ledger(ctx context.Context, productID int64) ([]model.LedgerEntry, error)

	// GetProduct loads the stock/price view of a product.
	GetProduct(ctx context.Context, productID int64) (*model.Product, error)

	// Reconcile compares stored stock with the ledger-derived value.
	Reconcile(ctx context.Context, productID int64) (*model.StockReport, error)
}
