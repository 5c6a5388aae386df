package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanjiru/dukani/internal/server/http/dto"
)

// InventoryHandler manages stock administration endpoints.
type InventoryHandler struct {
	facade InventoryFacade
}

// NewInventoryHandler constructs InventoryHandler.
func NewInventoryHandler(facade InventoryFacade) *InventoryHandler {
	return &InventoryHandler{facade: facade}
}

// Restock handles POST /api/products/:id/restock.
func (h *InventoryHandler) Restock(c *gin.Context) {
	actor := CurrentActor(c)
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.facade.RestockProduct(c.Request.Context(), actor, productID, req.Quantity, req.Reference, req.ReferenceID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ledger handles GET /api/products/:id/ledger.
func (h *InventoryHandler) Ledger(c *gin.Context) {
	actor := CurrentActor(c)
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	entries, err := h.facade.ProductLedger(c.Request.Context(), actor, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, dto.LedgerEntryResponse{
			ID:          entry.ID,
			ProductID:   entry.ProductID,
			Change:      entry.Change,
			Reference:   string(entry.Reference),
			ReferenceID: entry.ReferenceID,
			ActorID:     entry.ActorID,
			CreatedAt:   entry.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Reconcile handles GET /api/products/:id/reconcile.
func (h *InventoryHandler) Reconcile(c *gin.Context) {
	actor := CurrentActor(c)
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	report, err := h.facade.ReconcileProduct(c.Request.Context(), actor, productID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StockReportResponse{
		ProductID:  report.ProductID,
		Stored:     report.Stored,
		Computed:   report.Computed,
		Consistent: report.Consistent,
	})
}
