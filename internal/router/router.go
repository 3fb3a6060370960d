package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"irac/internal/config"
	"irac/internal/handler"
	"irac/internal/handler/api"
	"irac/internal/middleware"
	"irac/internal/payment"
	"irac/internal/pkg/telegram"
	"irac/internal/repository"
)

// Setup configures all routes for the Echo server.
func Setup(
	e *echo.Echo,
	db *gorm.DB,
	cfg *config.Config,
	client *payment.Client,
	wallet *payment.WalletClient,
	recovery payment.RecoveryStore,
	deduper middleware.CallbackDeduper,
	botAPI *telegram.BotAPI,
	logger *zap.Logger,
) {
	// Global middleware
	e.Use(echomw.Recover())
	e.Use(middleware.CORS())

	// Repositories
	paymentRepo := repository.NewPaymentRepository(db)
	manualRepo := repository.NewManualPaymentRepository(db)

	// Public payment flow
	paymentHandler := handler.NewPaymentHandler(
		paymentRepo, client, wallet, recovery,
		cfg.Payment.CallbackBaseURL+"/payment/callback", logger,
	)
	callbackHandler := handler.NewPaymentCallbackHandler(
		paymentRepo, client, recovery, deduper,
		botAPI, cfg.Telegram.ReportChannel, logger,
	)

	paymentGroup := e.Group("/payment")
	paymentGroup.GET("/gateways", paymentHandler.Gateways)
	paymentGroup.POST("/create", paymentHandler.Create)
	paymentGroup.GET("/recover", paymentHandler.Recover)
	paymentGroup.GET("/wallet/balance", paymentHandler.WalletBalance)
	paymentGroup.GET("/callback", callbackHandler.Callback)
	// Bank gateways POST their return form instead of redirecting with GET.
	paymentGroup.POST("/callback", callbackHandler.Callback)

	// Admin API group with token auth
	adminHandler := api.NewPaymentHandler(paymentRepo, manualRepo, client, logger)

	apiGroup := e.Group("/api")
	apiGroup.Use(middleware.APIAuth(cfg.API.Key))
	apiGroup.GET("/payments", adminHandler.List)
	apiGroup.GET("/payments/stats", adminHandler.Stats)
	apiGroup.GET("/payments/manual", adminHandler.ListManual)
	apiGroup.POST("/payments/manual", adminHandler.CreateManual)
	apiGroup.POST("/payments/manual/:transaction_id/approve", adminHandler.ApproveManual)
	apiGroup.POST("/payments/manual/:transaction_id/reject", adminHandler.RejectManual)
	apiGroup.GET("/payments/:transaction_id", adminHandler.Get)
	apiGroup.POST("/payments/:transaction_id/refund", adminHandler.Refund)
	apiGroup.POST("/payments/:transaction_id/cancel", adminHandler.Cancel)
}
