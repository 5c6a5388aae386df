package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/wanjiru/dukani/internal/server/http/handlers"
	"github.com/wanjiru/dukani/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommerceFacade, health handlers.HealthChecker, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade, logger)
	refundHandler := handlers.NewRefundHandler(facade)
	inventoryHandler := handlers.NewInventoryHandler(facade)
	healthHandler := handlers.NewHealthHandler(health)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	// The gateway authenticates by signature on its own side; its callback
	// carries no actor identity.
	api.POST("/gateway/callback", paymentHandler.Callback)

	authed := api.Group("")
	authed.Use(middleware.ActorRequired())

	authed.GET("/cart", cartHandler.Show)
	authed.DELETE("/cart", cartHandler.Clear)
	authed.POST("/cart/items", cartHandler.AddItem)
	authed.PATCH("/cart/items/:productID", cartHandler.UpdateItem)
	authed.DELETE("/cart/items/:productID", cartHandler.RemoveItem)
	authed.POST("/checkout", cartHandler.Checkout)

	authed.GET("/orders", orderHandler.List)
	authed.GET("/orders/:id", orderHandler.Get)
	authed.PATCH("/orders/:id/status", orderHandler.UpdateStatus)
	authed.POST("/orders/:id/cancel", orderHandler.Cancel)
	authed.POST("/orders/:id/hold", orderHandler.Hold)
	authed.POST("/orders/:id/resume", orderHandler.Resume)
	authed.GET("/orders/:id/history", orderHandler.History)

	authed.POST("/orders/:id/payments", paymentHandler.Pay)
	authed.POST("/orders/:id/payments/clear", paymentHandler.ClearBalance)
	authed.GET("/orders/:id/payments", paymentHandler.List)
	authed.GET("/orders/:id/invoice", paymentHandler.Invoice)
	authed.POST("/payments/initiate", paymentHandler.Initiate)

	authed.POST("/orders/:id/refunds", refundHandler.Create)
	authed.GET("/orders/:id/refunds", refundHandler.List)

	authed.POST("/products/:id/restock", inventoryHandler.Restock)
	authed.GET("/products/:id/ledger", inventoryHandler.Ledger)
	authed.GET("/products/:id/reconcile", inventoryHandler.Reconcile)

	return engine
}
