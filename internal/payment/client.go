// Package payment implements the unified multi-gateway payment client: gateway
// discovery, payment creation, callback classification, verification,
// cancellation and refunds, all over the lesan RPC convention.
package payment

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"irac/internal/pkg/lesan"
)

// Lesan routing constants for the payment service.
const (
	rpcService = "main"
	rpcModel   = "payment"

	actAvailableGateways = "getAvailableGateways"
	actCreatePayment     = "createUnifiedPayment"
	actVerifyPayment     = "verifyUnifiedPayment"
	actCancelPayment     = "cancelPayment"
	actRefundPayment     = "refundPayment"
	actStatistics        = "getPaymentStatistics"
)

// DefaultCurrency is the platform's base currency (Iranian Rial).
const DefaultCurrency = "IRR"

// Client is the unified payment orchestration client. Each public method is a
// single outbound round trip; fallback and retry bookkeeping on responses is
// server-reported, never looped client-side.
type Client struct {
	rpc      *lesan.Client
	logger   *zap.Logger
	validate *validator.Validate
}

// NewClient creates a unified payment client.
func NewClient(rpc *lesan.Client, logger *zap.Logger) *Client {
	return &Client{
		rpc:      rpc,
		logger:   logger,
		validate: validator.New(),
	}
}

// GetAvailableGateways returns the gateways currently offerable for the given
// amount (0 means no amount filter). On failure an empty list is returned
// together with the error; no internal retry is performed.
func (c *Client) GetAvailableGateways(ctx context.Context, amount int64) ([]GatewayDescriptor, error) {
	set := map[string]interface{}{}
	if amount > 0 {
		set["amount"] = amount
	}

	resp, err := c.rpc.Call(ctx, rpcService, rpcModel, actAvailableGateways, set, nil)
	if err != nil {
		return []GatewayDescriptor{}, err
	}
	if !resp.Success {
		return []GatewayDescriptor{}, &BackendError{Act: actAvailableGateways, Message: resp.Message}
	}

	var gateways []GatewayDescriptor
	if err := resp.DecodeBody(&gateways); err != nil {
		return []GatewayDescriptor{}, err
	}
	return gateways, nil
}

// CreatePayment submits a unified creation request and returns a normalized
// response. It never returns a Go error: transport and application failures
// are converted into a structurally valid failed response so callers can
// branch on Success alone. A failed response's GatewayType is informational
// only.
func (c *Client) CreatePayment(ctx context.Context, req PaymentRequest) *PaymentResponse {
	normalizeRequest(&req)

	if err := c.validate.Struct(req); err != nil {
		return failedResponse(&req, "invalid payment request: "+err.Error())
	}
	if err := ValidateAmount(req.Amount, nil); err != nil {
		return failedResponse(&req, err.Error())
	}

	set := map[string]interface{}{
		"amount":      req.Amount,
		"currency":    req.Currency,
		"purpose":     req.Purpose,
		"description": req.Description,
		"metadata":    req.Metadata,
		"options":     req.Options,
	}
	putIfSet(set, "order_id", req.OrderID)
	putIfSet(set, "invoice_id", req.InvoiceID)
	putIfSet(set, "mobile", req.Mobile)
	putIfSet(set, "email", req.Email)
	putIfSet(set, "national_code", req.NationalCode)
	putIfSet(set, "callback_url", req.CallbackURL)

	resp, err := c.rpc.Call(ctx, rpcService, rpcModel, actCreatePayment, set, nil)
	if err != nil {
		c.logger.Error("create payment call failed", zap.Error(err))
		return failedResponse(&req, "خطا در ارتباط با سرویس پرداخت")
	}
	if !resp.Success {
		return failedResponse(&req, nonEmpty(resp.Message, "ایجاد پرداخت ناموفق بود"))
	}

	var out PaymentResponse
	if err := resp.DecodeBody(&out); err != nil {
		c.logger.Error("create payment response decode failed", zap.Error(err))
		return failedResponse(&req, "پاسخ نامعتبر از سرویس پرداخت")
	}
	if out.Amount == 0 {
		out.Amount = req.Amount
	}
	if !out.Resumable() {
		c.logger.Warn("create payment succeeded without correlation data",
			zap.String("transaction_id", out.TransactionID))
		return failedResponse(&req, "پاسخ درگاه فاقد اطلاعات ادامه پرداخت است")
	}
	return &out
}

// VerifyPayment completes the lifecycle after a callback. Safe to retry with
// the same transaction id; de-duplication is enforced server-side.
func (c *Client) VerifyPayment(ctx context.Context, req VerifyRequest) *VerifyResponse {
	if req.CallbackParams == nil {
		req.CallbackParams = map[string]string{}
	}

	set := map[string]interface{}{
		"transaction_id":  req.TransactionID,
		"callback_params": req.CallbackParams,
	}
	putIfSet(set, "authority", req.Authority)
	putIfSet(set, "reference_id", req.ReferenceID)

	resp, err := c.rpc.Call(ctx, rpcService, rpcModel, actVerifyPayment, set, nil)
	if err != nil {
		c.logger.Error("verify payment call failed",
			zap.String("transaction_id", req.TransactionID), zap.Error(err))
		return &VerifyResponse{TransactionID: req.TransactionID, Error: "خطا در ارتباط با سرویس پرداخت"}
	}
	if !resp.Success {
		return &VerifyResponse{
			TransactionID: req.TransactionID,
			Error:         nonEmpty(resp.Message, "تأیید پرداخت ناموفق بود"),
		}
	}

	var out VerifyResponse
	if err := resp.DecodeBody(&out); err != nil {
		return &VerifyResponse{TransactionID: req.TransactionID, Error: "پاسخ نامعتبر از سرویس پرداخت"}
	}
	if out.TransactionID == "" {
		out.TransactionID = req.TransactionID
	}
	return &out
}

// CancelPayment aborts a pending payment attempt.
func (c *Client) CancelPayment(ctx context.Context, transactionID string) *OperationResult {
	return c.operation(ctx, actCancelPayment, transactionID, map[string]interface{}{
		"transaction_id": transactionID,
	})
}

// RefundPayment reverses a settled payment. A zero amount requests a full
// refund of the original charge; the amount field is omitted from the call so
// the backend applies its full-refund rule.
func (c *Client) RefundPayment(ctx context.Context, transactionID string, amount int64) *OperationResult {
	set := map[string]interface{}{
		"transaction_id": transactionID,
	}
	if amount > 0 {
		set["amount"] = amount
	}
	return c.operation(ctx, actRefundPayment, transactionID, set)
}

// GetStatistics fetches platform payment statistics.
func (c *Client) GetStatistics(ctx context.Context) (*PaymentStatistics, error) {
	resp, err := c.rpc.Call(ctx, rpcService, rpcModel, actStatistics, nil, nil)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &BackendError{Act: actStatistics, Message: resp.Message}
	}

	var stats PaymentStatistics
	if err := resp.DecodeBody(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) operation(ctx context.Context, act, transactionID string, set map[string]interface{}) *OperationResult {
	resp, err := c.rpc.Call(ctx, rpcService, rpcModel, act, set, nil)
	if err != nil {
		c.logger.Error("payment operation call failed",
			zap.String("act", act),
			zap.String("transaction_id", transactionID), zap.Error(err))
		return &OperationResult{TransactionID: transactionID, Error: "خطا در ارتباط با سرویس پرداخت"}
	}
	if !resp.Success {
		return &OperationResult{
			TransactionID: transactionID,
			Error:         nonEmpty(resp.Message, "عملیات ناموفق بود"),
		}
	}

	out := OperationResult{Success: true, TransactionID: transactionID}
	// Body is optional for cancel; refund usually carries a tracking code.
	if len(resp.Body) > 0 {
		_ = resp.DecodeBody(&out)
		out.Success = true
		if out.TransactionID == "" {
			out.TransactionID = transactionID
		}
	}
	return &out
}

// BackendError is an application-level rejection from the lesan backend,
// passed through verbatim.
type BackendError struct {
	Act     string
	Message string
}

func (e *BackendError) Error() string {
	if e.Message == "" {
		return "payment backend rejected " + e.Act
	}
	return e.Message
}

// normalizeRequest applies defaults so downstream serialization is uniform:
// base currency, non-nil metadata and options.
func normalizeRequest(req *PaymentRequest) {
	if req.Currency == "" {
		req.Currency = DefaultCurrency
	}
	if req.Metadata == nil {
		req.Metadata = map[string]string{}
	}
	if req.Options == nil {
		req.Options = &PaymentOptions{}
	}
}

// failedResponse builds the structurally valid failure shape: the original
// amount echoed with zero fee and the primary gateway as placeholder.
func failedResponse(req *PaymentRequest, msg string) *PaymentResponse {
	return &PaymentResponse{
		Success:     false,
		GatewayType: GatewayZarinPal,
		Amount:      req.Amount,
		FinalAmount: req.Amount,
		GatewayFee:  0,
		Error:       msg,
	}
}

func putIfSet(m map[string]interface{}, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
