package handler

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"irac/internal/middleware"
	"irac/internal/models"
	"irac/internal/payment"
	"irac/internal/pkg/telegram"
	"irac/internal/pkg/utils"
	"irac/internal/repository"
)

// PaymentCallbackHandler handles gateway return redirects: classify the
// callback, correlate it with a ledger attempt, verify with the backend and
// render the result page.
type PaymentCallbackHandler struct {
	payments *repository.PaymentRepository
	client   *payment.Client
	recovery payment.RecoveryStore
	deduper  middleware.CallbackDeduper
	botAPI   *telegram.BotAPI
	reportTo string
	logger   *zap.Logger
}

// NewPaymentCallbackHandler creates a new payment callback handler.
func NewPaymentCallbackHandler(
	payments *repository.PaymentRepository,
	client *payment.Client,
	recovery payment.RecoveryStore,
	deduper middleware.CallbackDeduper,
	botAPI *telegram.BotAPI,
	reportChannel string,
	logger *zap.Logger,
) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		payments: payments,
		client:   client,
		recovery: recovery,
		deduper:  deduper,
		botAPI:   botAPI,
		reportTo: reportChannel,
		logger:   logger,
	}
}

// Callback is the single return endpoint for all gateway families. The
// family is detected from the parameter shape, never from the path. Bank
// gateways POST their return form, so form fields are merged with the query.
func (h *PaymentCallbackHandler) Callback(c echo.Context) error {
	params := c.QueryParams()
	if form, err := c.FormParams(); err == nil {
		for k, vs := range form {
			if !params.Has(k) && len(vs) > 0 {
				params.Set(k, vs[0])
			}
		}
	}

	cb := payment.ParseCallback(params)
	status := payment.Classify(cb)

	if status.Code == payment.CodeInvalidCallback {
		h.logger.Warn("unclassifiable gateway callback", zap.Any("params", cb.Raw))
		return h.renderResult(c, "خطا", status.Message, "", 0)
	}

	attempt, err := h.lookupAttempt(cb)
	if err != nil {
		h.logger.Warn("callback for unknown payment attempt",
			zap.String("family", cb.Family.String()),
			zap.String("authority", cb.Authority),
			zap.String("reference_id", cb.ReferenceID))
		return h.renderResult(c, "خطا", "تراکنش یافت نشد", "", 0)
	}

	// Already settled attempts need no second verification.
	if attempt.Status == models.AttemptPaid {
		return h.renderResult(c, "پرداخت موفق", "این تراکنش قبلاً پرداخت شده است",
			attempt.TransactionID, attempt.FinalAmount)
	}

	if status.Failed {
		h.settleFailure(c, attempt, status, cb)
		if status.Cancelled {
			return h.renderResult(c, "پرداخت انجام نشد", "کاربر از پرداخت منصرف شد",
				attempt.TransactionID, attempt.Amount)
		}
		return h.renderResult(c, "پرداخت ناموفق", status.Message,
			attempt.TransactionID, attempt.Amount)
	}

	// Replayed redirects should not trigger a second verification.
	token := cb.Authority
	if token == "" {
		token = cb.ReferenceID
	}
	if dup, err := h.deduper.Seen(c.Request().Context(), token); err == nil && dup {
		return h.renderResult(c, "در حال بررسی", "این تراکنش در حال پردازش است",
			attempt.TransactionID, attempt.Amount)
	}

	_ = h.payments.UpdateByTransactionID(attempt.TransactionID, map[string]interface{}{
		"status":       models.AttemptProcessing,
		"callback_raw": marshalRaw(cb.Raw),
	})

	verify := h.client.VerifyPayment(c.Request().Context(), payment.VerifyRequest{
		TransactionID:  attempt.TransactionID,
		Authority:      cb.Authority,
		ReferenceID:    cb.ReferenceID,
		CallbackParams: cb.Raw,
	})

	if !verify.Success {
		h.logger.Error("payment verification failed",
			zap.String("transaction_id", attempt.TransactionID),
			zap.String("error", verify.Error))
		_ = h.payments.UpdateByTransactionID(attempt.TransactionID, map[string]interface{}{
			"status": models.AttemptFailed,
			"error":  verify.Error,
		})
		_ = h.recovery.Clear(c.Request().Context())
		return h.renderResult(c, "پرداخت ناموفق", "تأیید پرداخت ناموفق بود",
			attempt.TransactionID, attempt.Amount)
	}

	updates := map[string]interface{}{
		"status":        models.AttemptPaid,
		"tracking_code": verify.TrackingCode,
	}
	if verify.ReferenceID != "" {
		updates["reference_id"] = verify.ReferenceID
	}
	if verify.Amount > 0 {
		updates["final_amount"] = verify.Amount
	}
	_ = h.payments.UpdateByTransactionID(attempt.TransactionID, updates)
	_ = h.recovery.Clear(c.Request().Context())

	h.reportPayment(attempt, verify)

	return h.renderResult(c, "پرداخت موفق", "از انجام تراکنش متشکریم!",
		attempt.TransactionID, settledAmount(attempt, verify))
}

func (h *PaymentCallbackHandler) lookupAttempt(cb payment.CallbackData) (*models.PaymentAttempt, error) {
	if cb.Authority != "" {
		return h.payments.FindByAuthority(cb.Authority)
	}
	if cb.ReferenceID != "" {
		if attempt, err := h.payments.FindByReferenceID(cb.ReferenceID); err == nil {
			return attempt, nil
		}
	}
	// Bank gateways echo the order ref back for attempts created before the
	// reference id was known.
	if ref, ok := cb.Raw["SaleOrderId"]; ok && ref != "" {
		return h.payments.FindByTransactionID(ref)
	}
	if ref, ok := cb.Raw["ResNum"]; ok && ref != "" {
		return h.payments.FindByTransactionID(ref)
	}
	return nil, fmt.Errorf("callback has no usable correlation token")
}

func (h *PaymentCallbackHandler) settleFailure(c echo.Context, attempt *models.PaymentAttempt, status payment.PaymentStatus, cb payment.CallbackData) {
	newStatus := models.AttemptFailed
	if status.Cancelled {
		newStatus = models.AttemptCancelled
	}
	_ = h.payments.UpdateByTransactionID(attempt.TransactionID, map[string]interface{}{
		"status":       newStatus,
		"error":        status.Code,
		"callback_raw": marshalRaw(cb.Raw),
	})
	_ = h.recovery.Clear(c.Request().Context())
}

func (h *PaymentCallbackHandler) reportPayment(attempt *models.PaymentAttempt, verify *payment.VerifyResponse) {
	if !h.botAPI.Enabled() || h.reportTo == "" {
		return
	}
	text := fmt.Sprintf(
		"💵 پرداخت جدید\n\nشماره تراکنش: %s\nمبلغ: %s ریال\nکد پیگیری: %s\nدرگاه: %s",
		attempt.TransactionID,
		utils.FormatAmount(settledAmount(attempt, verify)),
		verify.TrackingCode,
		attempt.GatewayType,
	)
	go func() {
		if _, err := h.botAPI.SendMessage(h.reportTo, text); err != nil {
			h.logger.Warn("payment report failed", zap.Error(err))
		}
	}()
}

func settledAmount(attempt *models.PaymentAttempt, verify *payment.VerifyResponse) int64 {
	if verify.Amount > 0 {
		return verify.Amount
	}
	return attempt.FinalAmount
}

func marshalRaw(raw map[string]string) string {
	data, _ := json.Marshal(raw)
	return string(data)
}

var resultTemplate = template.Must(template.New("payment").Parse(`<!DOCTYPE html>
<html dir="rtl">
<head>
    <meta charset="UTF-8">
    <title>نتیجه پرداخت</title>
    <style>
        body { font-family: Tahoma, sans-serif; background: #f2f2f2; margin: 0; padding: 20px; display: flex; justify-content: center; align-items: center; min-height: 100vh; }
        .box { background: #fff; border-radius: 8px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); padding: 40px; text-align: center; max-width: 400px; width: 100%; }
        h1 { color: #333; margin-bottom: 20px; }
        p { color: #666; margin-bottom: 10px; }
    </style>
</head>
<body>
    <div class="box">
        <h1>{{.Title}}</h1>
        {{if .TransactionID}}<p>شماره تراکنش: <span>{{.TransactionID}}</span></p>{{end}}
        {{if .HasAmount}}<p>مبلغ: <span>{{.AmountStr}}</span> ریال</p>{{end}}
        <p>{{.Message}}</p>
    </div>
</body>
</html>`))

func (h *PaymentCallbackHandler) renderResult(c echo.Context, title, message, transactionID string, amount int64) error {
	data := map[string]interface{}{
		"Title":         title,
		"Message":       message,
		"TransactionID": transactionID,
		"HasAmount":     amount > 0,
		"AmountStr":     utils.FormatAmount(amount),
	}

	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return resultTemplate.Execute(c.Response().Writer, data)
}
