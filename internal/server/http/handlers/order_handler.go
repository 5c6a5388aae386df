package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/server/http/dto"
)

// OrderHandler manages order lifecycle endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	actor := CurrentActor(c)
	orders, err := h.facade.Orders(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i], false))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order, true))
}

// UpdateStatus handles PATCH /api/orders/:id/status.
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), actor, orderID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order, true))
}

// Cancel handles POST /api/orders/:id/cancel.
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.facade.CancelOrder)
}

// Hold handles POST /api/orders/:id/hold.
func (h *OrderHandler) Hold(c *gin.Context) {
	h.transition(c, h.facade.HoldOrder)
}

// Resume handles POST /api/orders/:id/resume.
func (h *OrderHandler) Resume(c *gin.Context) {
	h.transition(c, h.facade.ResumeOrder)
}

// History handles GET /api/orders/:id/history.
func (h *OrderHandler) History(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	history, err := h.facade.OrderHistory(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.StatusChangeResponse, 0, len(history))
	for _, change := range history {
		resp = append(resp, dto.StatusChangeResponse{
			Status:    string(change.Status),
			ActorID:   change.ActorID,
			Note:      change.Note,
			ChangedAt: change.ChangedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) transition(c *gin.Context, apply func(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	order, err := apply(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order, true))
}

func toOrderResponse(order *model.Order, withItems bool) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		CustomerID:     order.CustomerID,
		Status:         string(order.Status),
		PaymentStatus:  string(order.PaymentStatus),
		Subtotal:       order.Subtotal,
		ShippingCost:   order.ShippingCost,
		TaxAmount:      order.TaxAmount,
		DiscountAmount: order.DiscountAmount,
		TotalAmount:    order.TotalAmount,
		BalanceDue:     order.BalanceDue,
		CreatedAt:      order.CreatedAt,
		UpdatedAt:      order.UpdatedAt,
	}
	if withItems {
		for _, item := range order.Items {
			resp.Items = append(resp.Items, dto.OrderItemResponse{
				ID:         item.ID,
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				UnitPrice:  item.UnitPrice,
				Discount:   item.Discount,
				TotalPrice: item.TotalPrice,
			})
		}
	}
	return resp
}
