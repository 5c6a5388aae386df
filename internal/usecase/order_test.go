package usecase

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	testhelpers "github.com/wanjiru/dukani/internal/test"
)

func TestOrderGetEnforcesOwnership(t *testing.T) {
	orders := &testhelpers.OrderRepositoryStub{Order: &model.Order{ID: 5, CustomerID: 7}}
	uc := NewOrderUseCase(orders)

	owner := model.Actor{UserID: 7, Role: model.RoleCustomer}
	if _, err := uc.Get(context.Background(), owner, 5); err != nil {
		t.Fatalf("unexpected error for owner: %v", err)
	}

	stranger := model.Actor{UserID: 8, Role: model.RoleCustomer}
	if _, err := uc.Get(context.Background(), stranger, 5); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for stranger, got %v", err)
	}

	staff := model.Actor{UserID: 2, Role: model.RoleStaff}
	if _, err := uc.Get(context.Background(), staff, 5); err != nil {
		t.Fatalf("unexpected error for staff: %v", err)
	}
}

func TestOrderListScopesByRole(t *testing.T) {
	orders := &testhelpers.OrderRepositoryStub{
		Orders:    []model.Order{{ID: 1}},
		AllOrders: []model.Order{{ID: 1}, {ID: 2}, {ID: 3}},
	}
	uc := NewOrderUseCase(orders)

	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}
	mine, err := uc.List(context.Background(), customer)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected customer scoped list, got %v err=%v", mine, err)
	}

	staff := model.Actor{UserID: 2, Role: model.RoleStaff}
	all, err := uc.List(context.Background(), staff)
	if err != nil || len(all) != 3 {
		t.Fatalf("expected full list for staff, got %v err=%v", all, err)
	}
}

func TestOrderUpdateStatusParsesTokenAndChecksRole(t *testing.T) {
	orders := &testhelpers.OrderRepositoryStub{}
	uc := NewOrderUseCase(orders)
	staff := model.Actor{UserID: 2, Role: model.RoleStaff}

	if _, err := uc.UpdateStatus(context.Background(), staff, 5, "bogus"); !errors.Is(err, domainErrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}

	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}
	if _, err := uc.UpdateStatus(context.Background(), customer, 5, "shipped"); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for customer, got %v", err)
	}

	order, err := uc.UpdateStatus(context.Background(), staff, 5, "shipped")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusShipped {
		t.Fatalf("expected shipped, got %s", order.Status)
	}
	if len(orders.UpdateCalls) != 1 || orders.UpdateCalls[0].Target != model.OrderStatusShipped {
		t.Fatalf("unexpected update calls %v", orders.UpdateCalls)
	}
}

func TestOrderCancelDelegatesForCustomers(t *testing.T) {
	orders := &testhelpers.OrderRepositoryStub{}
	uc := NewOrderUseCase(orders)
	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}

	order, err := uc.Cancel(context.Background(), customer, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.Status != model.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", order.Status)
	}
	if orders.UpdateCalls[0].Target != model.OrderStatusCancelled {
		t.Fatalf("expected cancel transition, got %v", orders.UpdateCalls)
	}
}

func TestOrderHoldAndResumeAreStaffOnly(t *testing.T) {
	orders := &testhelpers.OrderRepositoryStub{}
	uc := NewOrderUseCase(orders)
	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}
	staff := model.Actor{UserID: 2, Role: model.RoleStaff}

	if _, err := uc.Hold(context.Background(), customer, 5); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden hold, got %v", err)
	}
	if _, err := uc.Resume(context.Background(), customer, 5); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden resume, got %v", err)
	}

	if _, err := uc.Hold(context.Background(), staff, 5); err != nil {
		t.Fatalf("unexpected hold error: %v", err)
	}
	if _, err := uc.Resume(context.Background(), staff, 5); err != nil {
		t.Fatalf("unexpected resume error: %v", err)
	}
	if len(orders.ResumedCalls) != 1 {
		t.Fatalf("expected resume call, got %d", len(orders.ResumedCalls))
	}
}

func TestOrderHistoryChecksOwnershipForCustomers(t *testing.T) {
	orders := &testhelpers.OrderRepositoryStub{
		Order:   &model.Order{ID: 5, CustomerID: 7},
		Changes: []model.StatusChange{{OrderID: 5, Status: model.OrderStatusPending}},
	}
	uc := NewOrderUseCase(orders)

	owner := model.Actor{UserID: 7, Role: model.RoleCustomer}
	history, err := uc.History(context.Background(), owner, 5)
	if err != nil || len(history) != 1 {
		t.Fatalf("unexpected history result: %v err=%v", history, err)
	}

	stranger := model.Actor{UserID: 8, Role: model.RoleCustomer}
	if _, err := uc.History(context.Background(), stranger, 5); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden history, got %v", err)
	}
}
