package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"irac/internal/models"
	"irac/internal/payment"
	"irac/internal/pkg/utils"
	"irac/internal/repository"
)

// PaymentHandler exposes the unified payment client over HTTP: gateway
// discovery, intent creation, wallet pre-flight and flow recovery.
type PaymentHandler struct {
	payments    *repository.PaymentRepository
	client      *payment.Client
	wallet      *payment.WalletClient
	recovery    payment.RecoveryStore
	callbackURL string
	logger      *zap.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(
	payments *repository.PaymentRepository,
	client *payment.Client,
	wallet *payment.WalletClient,
	recovery payment.RecoveryStore,
	callbackURL string,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		payments:    payments,
		client:      client,
		wallet:      wallet,
		recovery:    recovery,
		callbackURL: callbackURL,
		logger:      logger,
	}
}

// Gateways lists the gateways offerable for an optional amount.
// GET /payment/gateways?amount=150000
func (h *PaymentHandler) Gateways(c echo.Context) error {
	amount, _ := strconv.ParseInt(c.QueryParam("amount"), 10, 64)

	gateways, err := h.client.GetAvailableGateways(c.Request().Context(), amount)
	if err != nil {
		h.logger.Error("gateway discovery failed", zap.Error(err))
		return c.JSON(http.StatusOK, map[string]interface{}{
			"gateways": gateways,
			"error":    err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"gateways": gateways})
}

type createPaymentBody struct {
	UserID       string                  `json:"user_id"`
	Amount       int64                   `json:"amount"`
	Purpose      payment.PaymentPurpose  `json:"purpose"`
	Description  string                  `json:"description"`
	OrderID      string                  `json:"order_id"`
	InvoiceID    string                  `json:"invoice_id"`
	Mobile       string                  `json:"mobile"`
	Email        string                  `json:"email"`
	NationalCode string                  `json:"national_code"`
	Metadata     map[string]string       `json:"metadata"`
	Options      *payment.PaymentOptions `json:"options"`
}

// Create creates a payment intent, records the attempt in the ledger and
// stores the recovery record for the redirect round trip.
// POST /payment/create
func (h *PaymentHandler) Create(c echo.Context) error {
	var body createPaymentBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	req := payment.PaymentRequest{
		Amount:       body.Amount,
		Purpose:      body.Purpose,
		Description:  body.Description,
		OrderID:      body.OrderID,
		InvoiceID:    body.InvoiceID,
		Mobile:       utils.NormalizeMobile(body.Mobile),
		Email:        body.Email,
		NationalCode: utils.ConvertPersianToEnglish(body.NationalCode),
		CallbackURL:  h.callbackURL,
		Metadata:     body.Metadata,
		Options:      body.Options,
	}

	resp := h.client.CreatePayment(c.Request().Context(), req)
	if !resp.Success {
		// Still HTTP 200: the failed response is the contract, not an error.
		return c.JSON(http.StatusOK, resp)
	}

	attempt := &models.PaymentAttempt{
		TransactionID: resp.TransactionID,
		UserID:        body.UserID,
		GatewayType:   string(resp.GatewayType),
		GatewayID:     resp.GatewayID,
		Amount:        resp.Amount,
		FinalAmount:   resp.FinalAmount,
		GatewayFee:    resp.GatewayFee,
		Currency:      req.Currency,
		Purpose:       string(req.Purpose),
		Description:   req.Description,
		OrderID:       req.OrderID,
		InvoiceID:     req.InvoiceID,
		Authority:     resp.Authority,
		ReferenceID:   resp.ReferenceID,
		Status:        models.AttemptPending,
		FallbackUsed:  resp.FallbackUsed,
		RetryCount:    resp.RetryCount,
	}
	if err := h.payments.Create(attempt); err != nil {
		h.logger.Error("failed to record payment attempt",
			zap.String("transaction_id", resp.TransactionID), zap.Error(err))
	}

	if err := h.recovery.Store(c.Request().Context(), payment.RecoveryRecord{
		PaymentURL:  resp.PaymentURL,
		GatewayType: resp.GatewayType,
		Timestamp:   time.Now(),
	}); err != nil {
		h.logger.Warn("failed to store recovery record", zap.Error(err))
	}

	return c.JSON(http.StatusOK, resp)
}

// Recover returns the last stored in-flight payment record, if any. Staleness
// is the caller's judgement via the embedded timestamp.
// GET /payment/recover
func (h *PaymentHandler) Recover(c echo.Context) error {
	rec, err := h.recovery.Load(c.Request().Context())
	if err != nil {
		h.logger.Error("recovery load failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "recovery store unavailable"})
	}
	if rec == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"record": nil})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"record": rec})
}

// WalletBalance is the wallet pre-flight check.
// GET /payment/wallet/balance?required=150000
func (h *PaymentHandler) WalletBalance(c echo.Context) error {
	required, _ := strconv.ParseInt(c.QueryParam("required"), 10, 64)

	balance, err := h.wallet.GetBalance(c.Request().Context(), required)
	if err != nil {
		h.logger.Error("wallet balance check failed", zap.Error(err))
		return c.JSON(http.StatusOK, map[string]string{"error": "موجودی کیف پول در دسترس نیست"})
	}
	return c.JSON(http.StatusOK, balance)
}
