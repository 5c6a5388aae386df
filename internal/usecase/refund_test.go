package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	testhelpers "github.com/wanjiru/dukani/internal/test"
)

func refundItems() []model.RefundRequestItem {
	return []model.RefundRequestItem{{OrderItemID: 1, Quantity: 1, Amount: decimal.NewFromInt(10)}}
}

func TestRefundIsStaffOnly(t *testing.T) {
	refunds := &testhelpers.RefundRepositoryStub{}
	uc := NewRefundUseCase(refunds)
	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}

	if _, err := uc.Refund(context.Background(), customer, 5, 1, refundItems(), "damaged", false); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(refunds.Created) != 0 {
		t.Fatal("expected no refund creation")
	}
}

func TestRefundValidatesItems(t *testing.T) {
	refunds := &testhelpers.RefundRepositoryStub{}
	uc := NewRefundUseCase(refunds)
	staff := model.Actor{UserID: 2, Role: model.RoleStaff}

	if _, err := uc.Refund(context.Background(), staff, 5, 1, nil, "damaged", false); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity for empty items, got %v", err)
	}

	bad := []model.RefundRequestItem{{OrderItemID: 1, Quantity: 0, Amount: decimal.NewFromInt(10)}}
	if _, err := uc.Refund(context.Background(), staff, 5, 1, bad, "damaged", false); !errors.Is(err, domainErrors.ErrInvalidQuantity) {
		t.Fatalf("expected invalid quantity, got %v", err)
	}

	bad = []model.RefundRequestItem{{OrderItemID: 1, Quantity: 1, Amount: decimal.Zero}}
	if _, err := uc.Refund(context.Background(), staff, 5, 1, bad, "damaged", false); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestRefundDelegatesToRepository(t *testing.T) {
	refunds := &testhelpers.RefundRepositoryStub{}
	uc := NewRefundUseCase(refunds)
	staff := model.Actor{UserID: 2, Role: model.RoleStaff}

	refund, err := uc.Refund(context.Background(), staff, 5, 1, refundItems(), "damaged", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refund.Status != model.RefundStatusProcessed {
		t.Fatalf("expected processed refund, got %s", refund.Status)
	}
}

func TestRefundPropagatesBoundErrors(t *testing.T) {
	exceeds := domainErrors.RefundExceedsPaymentError{Requested: decimal.NewFromInt(20), Available: decimal.NewFromInt(5)}
	refunds := &testhelpers.RefundRepositoryStub{
		CreateFn: func(context.Context, model.Actor, int64, int64, []model.RefundRequestItem, string, bool) (*model.Refund, error) {
			return nil, exceeds
		},
	}
	uc := NewRefundUseCase(refunds)
	staff := model.Actor{UserID: 2, Role: model.RoleStaff}

	_, err := uc.Refund(context.Background(), staff, 5, 1, refundItems(), "damaged", false)
	var got domainErrors.RefundExceedsPaymentError
	if !errors.As(err, &got) {
		t.Fatalf("expected refund exceeds payment error, got %v", err)
	}
}

func TestRefundListByOrder(t *testing.T) {
	refunds := &testhelpers.RefundRepositoryStub{Refunds: []model.Refund{{ID: 1, OrderID: 5}}}
	uc := NewRefundUseCase(refunds)

	list, err := uc.ListByOrder(context.Background(), 5)
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected list result: %v err=%v", list, err)
	}
}
