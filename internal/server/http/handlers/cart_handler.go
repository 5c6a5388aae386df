package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/server/http/dto"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Show handles GET /api/cart.
func (h *CartHandler) Show(c *gin.Context) {
	actor := CurrentActor(c)
	lines, err := h.facade.Cart(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.CartResponse{Items: make([]dto.CartLineResponse, 0, len(lines)), Total: model.CartTotal(lines)}
	for _, line := range lines {
		resp.Items = append(resp.Items, dto.CartLineResponse{
			ProductID: line.Product.ID,
			Name:      line.Product.Name,
			SKU:       line.Product.SKU,
			UnitPrice: line.Product.Price,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	actor := CurrentActor(c)
	var req dto.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.facade.AddToCart(c.Request.Context(), actor, req.ProductID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateItem handles PATCH /api/cart/items/:productID.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	actor := CurrentActor(c)
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}
	var req dto.CartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.facade.SetCartQuantity(c.Request.Context(), actor, productID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/cart/items/:productID.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	actor := CurrentActor(c)
	productID, ok := pathID(c, "productID")
	if !ok {
		return
	}

	if err := h.facade.RemoveFromCart(c.Request.Context(), actor, productID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	actor := CurrentActor(c)
	if err := h.facade.ClearCart(c.Request.Context(), actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout handles POST /api/checkout.
func (h *CartHandler) Checkout(c *gin.Context) {
	actor := CurrentActor(c)
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.facade.Checkout(c.Request.Context(), actor, model.CheckoutInput{
		ShippingAddressID: req.ShippingAddressID,
		BillingAddressID:  req.BillingAddressID,
		PaymentMethodID:   req.PaymentMethodID,
		ShippingCost:      req.ShippingCost,
		TaxAmount:         req.TaxAmount,
		DiscountAmount:    req.DiscountAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderResponse(order, true))
}
