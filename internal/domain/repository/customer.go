package repository

import (
	"context"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// CustomerRepository resolves the customer-owned references checkout needs.
type CustomerRepository interface {
	GetAddress(ctx context.Context, addressID int64) (*model.Address, error)
	GetPaymentMethod(ctx context.Context, methodID int64) (*model.PaymentMethod, error)
}
