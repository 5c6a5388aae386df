package usecase

import (
	"context"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/domain/repository"
)

// OrderUseCase owns the order state machine and its monetary totals.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// Get loads one order; customers only see their own.
func (u *OrderUseCase) Get(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.IsCustomer() && order.CustomerID != actor.UserID {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// List returns the actor's orders; staff see everything.
func (u *OrderUseCase) List(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if actor.IsStaff() {
		return u.orders.ListAll(ctx)
	}
	return u.orders.ListByCustomer(ctx, actor.UserID)
}

// UpdateStatus parses the target token at the boundary and applies the
// transition. Only staff move orders through the fulfillment states.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, token string) (*model.Order, error) {
	target, err := model.ParseOrderStatus(token)
	if err != nil {
		return nil, err
	}
	if !actor.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	return u.orders.UpdateStatus(ctx, actor, orderID, target)
}

// Cancel cancels an order. Customers may cancel their own orders while they
// are still PENDING or PROCESSING; ownership is checked under the row lock.
func (u *OrderUseCase) Cancel(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return u.orders.UpdateStatus(ctx, actor, orderID, model.OrderStatusCancelled)
}

// Hold parks an order administratively.
func (u *OrderUseCase) Hold(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if !actor.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	return u.orders.UpdateStatus(ctx, actor, orderID, model.OrderStatusOnHold)
}

// Resume returns an ON_HOLD order to its previous status.
func (u *OrderUseCase) Resume(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if !actor.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	return u.orders.Resume(ctx, actor, orderID)
}

// History returns the status history; customers only for their own orders.
func (u *OrderUseCase) History(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusChange, error) {
	if actor.IsCustomer() {
		if _, err := u.Get(ctx, actor, orderID); err != nil {
			return nil, err
		}
	}
	return u.orders.History(ctx, orderID)
}
