package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/server/http/dto"
)

// RefundHandler manages refund endpoints.
type RefundHandler struct {
	facade RefundFacade
}

// NewRefundHandler constructs RefundHandler.
func NewRefundHandler(facade RefundFacade) *RefundHandler {
	return &RefundHandler{facade: facade}
}

// Create handles POST /api/orders/:id/refunds.
func (h *RefundHandler) Create(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	items := make([]model.RefundRequestItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.RefundRequestItem{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		})
	}

	refund, err := h.facade.RefundOrder(c.Request.Context(), actor, orderID, req.PaymentID, items, req.Reason, req.Restock)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRefundResponse(refund))
}

// List handles GET /api/orders/:id/refunds.
func (h *RefundHandler) List(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	refunds, err := h.facade.OrderRefunds(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.RefundResponse, 0, len(refunds))
	for i := range refunds {
		resp = append(resp, toRefundResponse(&refunds[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func toRefundResponse(r *model.Refund) dto.RefundResponse {
	resp := dto.RefundResponse{
		ID:          r.ID,
		OrderID:     r.OrderID,
		PaymentID:   r.PaymentID,
		Amount:      r.Amount,
		Reason:      r.Reason,
		Status:      string(r.Status),
		ProcessedBy: r.ProcessedBy,
		ProcessedAt: r.ProcessedAt,
	}
	for _, item := range r.Items {
		resp.Items = append(resp.Items, dto.RefundItemResponse{
			OrderItemID: item.OrderItemID,
			Quantity:    item.Quantity,
			Amount:      item.Amount,
		})
	}
	return resp
}
