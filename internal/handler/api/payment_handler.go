package api

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"irac/internal/models"
	"irac/internal/payment"
	"irac/internal/pkg/utils"
	"irac/internal/repository"
)

// PaymentHandler serves the admin payment API: ledger listing, manual payment
// review and statistics.
type PaymentHandler struct {
	payments *repository.PaymentRepository
	manual   *repository.ManualPaymentRepository
	client   *payment.Client
	logger   *zap.Logger
}

func NewPaymentHandler(
	payments *repository.PaymentRepository,
	manual *repository.ManualPaymentRepository,
	client *payment.Client,
	logger *zap.Logger,
) *PaymentHandler {
	return &PaymentHandler{payments: payments, manual: manual, client: client, logger: logger}
}

// List returns paginated ledger attempts.
// GET /api/payments?limit=&page=&q=
func (h *PaymentHandler) List(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	page := queryInt(c, "page", 1)
	q := c.QueryParam("q")
	if limit > 1000 {
		limit = 1000
	}

	attempts, total, err := h.payments.FindAll(limit, page, q)
	if err != nil {
		h.logger.Error("failed to list payment attempts", zap.Error(err))
		return errorResponse(c, "Failed to retrieve payments")
	}

	return successResponse(c, "Successful", paginatedResponse(attempts, total, page, limit))
}

// Get returns one attempt by transaction id.
// GET /api/payments/:transaction_id
func (h *PaymentHandler) Get(c echo.Context) error {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		return errorResponse(c, "transaction_id is required")
	}

	attempt, err := h.payments.FindByTransactionID(transactionID)
	if err != nil {
		return errorResponse(c, "Payment not found")
	}
	return successResponse(c, "Successful", attempt)
}

type manualPaymentBody struct {
	UserID      string `json:"user_id"`
	Amount      int64  `json:"amount"`
	Purpose     string `json:"purpose"`
	Description string `json:"description"`
	ReceiptRef  string `json:"receipt_ref"`
}

// CreateManual records a card-to-card/bank-transfer payment pending review.
// POST /api/payments/manual
func (h *PaymentHandler) CreateManual(c echo.Context) error {
	var body manualPaymentBody
	if err := c.Bind(&body); err != nil {
		return errorResponse(c, "Invalid request body")
	}
	if body.Amount <= 0 {
		return errorResponse(c, "amount must be positive")
	}

	mp := &models.ManualPayment{
		TransactionID: utils.GenerateTransactionID(),
		UserID:        body.UserID,
		Amount:        body.Amount,
		Purpose:       body.Purpose,
		Description:   body.Description,
		ReceiptRef:    body.ReceiptRef,
		Status:        models.ManualPending,
	}
	if err := h.manual.Create(mp); err != nil {
		h.logger.Error("failed to create manual payment", zap.Error(err))
		return errorResponse(c, "Failed to record manual payment")
	}
	return successResponse(c, "Successful", mp)
}

// ListManual lists manual payments awaiting review.
// GET /api/payments/manual
func (h *PaymentHandler) ListManual(c echo.Context) error {
	limit := queryInt(c, "limit", 50)
	page := queryInt(c, "page", 1)

	items, total, err := h.manual.FindPending(limit, page)
	if err != nil {
		h.logger.Error("failed to list manual payments", zap.Error(err))
		return errorResponse(c, "Failed to retrieve manual payments")
	}
	return successResponse(c, "Successful", paginatedResponse(items, total, page, limit))
}

type reviewBody struct {
	Reviewer string `json:"reviewer"`
	Note     string `json:"note"`
}

// ApproveManual settles a manual payment and mirrors it into the attempt
// ledger as paid.
// POST /api/payments/manual/:transaction_id/approve
func (h *PaymentHandler) ApproveManual(c echo.Context) error {
	return h.reviewManual(c, models.ManualApproved)
}

// RejectManual rejects a manual payment.
// POST /api/payments/manual/:transaction_id/reject
func (h *PaymentHandler) RejectManual(c echo.Context) error {
	return h.reviewManual(c, models.ManualRejected)
}

func (h *PaymentHandler) reviewManual(c echo.Context, status string) error {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		return errorResponse(c, "transaction_id is required")
	}

	var body reviewBody
	if err := c.Bind(&body); err != nil {
		return errorResponse(c, "Invalid request body")
	}

	mp, err := h.manual.FindByTransactionID(transactionID)
	if err != nil {
		return errorResponse(c, "Manual payment not found")
	}
	if mp.Status != models.ManualPending {
		return errorResponse(c, "Manual payment already reviewed")
	}

	if err := h.manual.Review(transactionID, status, body.Reviewer, body.Note); err != nil {
		h.logger.Error("manual payment review failed",
			zap.String("transaction_id", transactionID), zap.Error(err))
		return errorResponse(c, "Review failed")
	}

	if status == models.ManualApproved {
		attempt := &models.PaymentAttempt{
			TransactionID: mp.TransactionID,
			UserID:        mp.UserID,
			GatewayType:   string(payment.GatewayBankTransfer),
			Amount:        mp.Amount,
			FinalAmount:   mp.Amount,
			Currency:      payment.DefaultCurrency,
			Purpose:       mp.Purpose,
			Description:   mp.Description,
			Status:        models.AttemptPaid,
		}
		if err := h.payments.Create(attempt); err != nil {
			h.logger.Error("failed to mirror approved manual payment",
				zap.String("transaction_id", transactionID), zap.Error(err))
		}
	}

	return successResponse(c, "Successful", map[string]string{
		"transaction_id": transactionID,
		"status":         status,
	})
}

// Stats proxies the backend payment statistics.
// GET /api/payments/stats
func (h *PaymentHandler) Stats(c echo.Context) error {
	stats, err := h.client.GetStatistics(c.Request().Context())
	if err != nil {
		h.logger.Error("failed to fetch payment statistics", zap.Error(err))
		return errorResponse(c, "Failed to retrieve statistics")
	}
	return successResponse(c, "Successful", stats)
}

// Refund triggers a refund for a settled payment. A missing or zero amount
// requests a full refund.
// POST /api/payments/:transaction_id/refund
func (h *PaymentHandler) Refund(c echo.Context) error {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		return errorResponse(c, "transaction_id is required")
	}

	var body struct {
		Amount int64 `json:"amount"`
	}
	if err := c.Bind(&body); err != nil {
		return errorResponse(c, "Invalid request body")
	}

	result := h.client.RefundPayment(c.Request().Context(), transactionID, body.Amount)
	if !result.Success {
		return errorResponse(c, result.Error)
	}

	_ = h.payments.UpdateByTransactionID(transactionID, map[string]interface{}{
		"status": models.AttemptRefunded,
	})
	return successResponse(c, "Successful", result)
}

// Cancel aborts a pending payment.
// POST /api/payments/:transaction_id/cancel
func (h *PaymentHandler) Cancel(c echo.Context) error {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		return errorResponse(c, "transaction_id is required")
	}

	result := h.client.CancelPayment(c.Request().Context(), transactionID)
	if !result.Success {
		return errorResponse(c, result.Error)
	}

	_ = h.payments.UpdateByTransactionID(transactionID, map[string]interface{}{
		"status": models.AttemptCancelled,
	})
	return successResponse(c, "Successful", result)
}
