package repository

import (
	"context"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// CartRepository manages the customer's cart lines.
type CartRepository interface {
	// Lines returns cart contents joined with current product data.
	Lines(ctx context.Context, customerID int64) ([]model.CartLine, error)

	// Add inserts a line or increments the quantity of an existing one.
	Add(ctx context.Context, customerID, productID int64, qty int) error

	// SetQuantity replaces the quantity of an existing line.
	SetQuantity(ctx context.Context, customerID, productID int64, qty int) error

	// Remove deletes one line.
	Remove(ctx context.Context, customerID, productID int64) error

	// Clear deletes all lines for the customer.
	Clear(ctx context.Context, customerID int64) error
}
