package usecase

import (
	"context"
	"strings"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/domain/repository"
)

// InventoryUseCase manages the stock counters and their audit ledger.
type InventoryUseCase struct {
	inventory repository.InventoryRepository
}

// NewInventoryUseCase constructs InventoryUseCase.
func NewInventoryUseCase(inventory repository.InventoryRepository) *InventoryUseCase {
	return &InventoryUseCase{inventory: inventory}
}

// Restock increments stock for a purchase receipt or manual adjustment.
func (u *InventoryUseCase) Restock(ctx context.Context, actor model.Actor, productID int64, qty int, reference string, referenceID int64) error {
	if !actor.IsStaff() {
		return domainErrors.ErrForbidden
	}
	if qty <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	ref, err := parseRestockRef(reference)
	if err != nil {
		return err
	}
	return u.inventory.Restock(ctx, actor, productID, qty, ref, referenceID)
}

// Ledger returns the audit trail for a product.
func (u *InventoryUseCase) Ledger(ctx context.Context, actor model.Actor, productID int64) ([]model.LedgerEntry, error) {
	if !actor.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	return u.inventory.Ledger(ctx, productID)
}

// Reconcile reports stored stock against the ledger-derived value.
func (u *InventoryUseCase) Reconcile(ctx context.Context, actor model.Actor, productID int64) (*model.StockReport, error) {
	if !actor.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	return u.inventory.Reconcile(ctx, productID)
}

// parseRestockRef accepts only audit references valid for stock increments
// initiated outside the order flow.
func parseRestockRef(token string) (model.LedgerRef, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "purchase":
		return model.LedgerRefPurchase, nil
	case "adjustment", "":
		return model.LedgerRefAdjustment, nil
	default:
		return "", domainErrors.ErrInvalidReference
	}
}
