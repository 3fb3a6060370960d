package payment

import "time"

// GatewayType identifies one of the payment rails the platform can route to.
type GatewayType string

const (
	GatewayZarinPal     GatewayType = "zarinpal"      // primary online gateway
	GatewayMellat       GatewayType = "mellat"        // Mellat bank gateway
	GatewaySaman        GatewayType = "saman"         // Saman bank gateway
	GatewayWallet       GatewayType = "wallet"        // internal wallet balance
	GatewayBankTransfer GatewayType = "bank_transfer" // manual bank transfer / card-to-card
	GatewayCrypto       GatewayType = "crypto"        // crypto payment rail
)

// Valid reports whether t is one of the known gateway types.
func (t GatewayType) Valid() bool {
	switch t {
	case GatewayZarinPal, GatewayMellat, GatewaySaman,
		GatewayWallet, GatewayBankTransfer, GatewayCrypto:
		return true
	}
	return false
}

// PaymentPurpose tags what a payment is for.
type PaymentPurpose string

const (
	PurposeWalletCharge    PaymentPurpose = "wallet_charge"
	PurposeCoursePurchase  PaymentPurpose = "course_purchase"
	PurposeWorkshopBooking PaymentPurpose = "workshop_booking"
	PurposeProductPurchase PaymentPurpose = "product_purchase"
	PurposeSpaceBooking    PaymentPurpose = "space_booking"
	PurposeSubscription    PaymentPurpose = "subscription"
	PurposeServiceFee      PaymentPurpose = "service_fee"
	PurposePenalty         PaymentPurpose = "penalty"
	PurposeRefund          PaymentPurpose = "refund"
	PurposeBonus           PaymentPurpose = "bonus"
	PurposeOther           PaymentPurpose = "other"
)

// GatewayCapabilities describes what a gateway can do for a given amount.
type GatewayCapabilities struct {
	SupportsRefund        bool `json:"supports_refund"`
	SupportsPartialRefund bool `json:"supports_partial_refund"`
	SupportsRecurring     bool `json:"supports_recurring"`
	SupportsInstallment   bool `json:"supports_installment"`
	SupportsWalletCharge  bool `json:"supports_wallet_charge"`
	SupportsDirectPayment bool `json:"supports_direct_payment"`
	RequiresVerification  bool `json:"requires_verification"`
	InstantConfirmation   bool `json:"instant_confirmation"`
}

// GatewayDescriptor is a snapshot of one offerable payment channel.
// Descriptors are not cached; callers re-query when staleness matters.
type GatewayDescriptor struct {
	ID           string              `json:"gateway_id"`
	Type         GatewayType         `json:"type"`
	NameFa       string              `json:"name_fa"`
	NameEn       string              `json:"name_en"`
	MinAmount    int64               `json:"min_amount"`
	MaxAmount    int64               `json:"max_amount"`
	GatewayFee   int64               `json:"gateway_fee"`
	Available    bool                `json:"available"`
	Healthy      bool                `json:"healthy"`
	Capabilities GatewayCapabilities `json:"capabilities"`
}

// PaymentOptions carries optional routing hints for payment creation.
type PaymentOptions struct {
	GatewayID        string        `json:"gateway_id,omitempty"`
	GatewayType      GatewayType   `json:"gateway_type,omitempty"`
	AllowFallback    bool          `json:"allow_fallback,omitempty"`
	MaxRetries       int           `json:"max_retries,omitempty"`
	PriorityGateways []GatewayType `json:"priority_gateways,omitempty"`
	ExcludeGateways  []GatewayType `json:"exclude_gateways,omitempty"`
	UserPreferences  []GatewayType `json:"user_preferences,omitempty"`
}

// PaymentRequest describes one payment attempt. Amounts are in the smallest
// currency unit (Rial). A request is built fresh per attempt and never
// persisted by this layer except through the recovery store.
type PaymentRequest struct {
	Amount       int64             `json:"amount" validate:"required,gt=0"`
	Currency     string            `json:"currency,omitempty"`
	Purpose      PaymentPurpose    `json:"purpose" validate:"required"`
	Description  string            `json:"description" validate:"required"`
	OrderID      string            `json:"order_id,omitempty"`
	InvoiceID    string            `json:"invoice_id,omitempty"`
	Mobile       string            `json:"mobile,omitempty" validate:"omitempty,len=11"`
	Email        string            `json:"email,omitempty" validate:"omitempty,email"`
	NationalCode string            `json:"national_code,omitempty" validate:"omitempty,len=10"`
	CallbackURL  string            `json:"callback_url,omitempty" validate:"omitempty,url"`
	Metadata     map[string]string `json:"metadata"`
	Options      *PaymentOptions   `json:"options"`
}

// PaymentResponse is the normalized result of a creation attempt.
//
// When Success is true at least one of PaymentURL, Authority or ReferenceID
// is present so the flow can be resumed. When Success is false, Error is
// populated, FinalAmount echoes the requested amount with a zero fee and
// GatewayType is only an informational placeholder.
type PaymentResponse struct {
	Success       bool        `json:"success"`
	TransactionID string      `json:"transaction_id"`
	GatewayType   GatewayType `json:"gateway_type"`
	GatewayID     string      `json:"gateway_id,omitempty"`
	PaymentURL    string      `json:"payment_url,omitempty"`
	Authority     string      `json:"authority,omitempty"`
	ReferenceID   string      `json:"reference_id,omitempty"`
	Amount        int64       `json:"amount"`
	FinalAmount   int64       `json:"final_amount"`
	GatewayFee    int64       `json:"gateway_fee"`
	ExpiresAt     *time.Time  `json:"expires_at,omitempty"`
	FallbackUsed  bool        `json:"fallback_used,omitempty"`
	RetryCount    int         `json:"retry_count,omitempty"`
	Error         string      `json:"error,omitempty"`
}

// Resumable reports whether the response carries enough correlation data to
// continue the flow after a redirect.
func (r *PaymentResponse) Resumable() bool {
	return r.Success && (r.PaymentURL != "" || r.Authority != "" || r.ReferenceID != "")
}

// CardInfo is masked card metadata returned by gateway-rail verifications.
type CardInfo struct {
	MaskedPAN string `json:"masked_pan,omitempty"`
	BankName  string `json:"bank_name,omitempty"`
	HashedPAN string `json:"hashed_pan,omitempty"`
}

// WalletDebit is returned instead of CardInfo when the wallet rail was used.
type WalletDebit struct {
	DebitedAmount    int64 `json:"debited_amount"`
	RemainingBalance int64 `json:"remaining_balance"`
}

// VerifyRequest completes a payment after the gateway redirects back.
type VerifyRequest struct {
	TransactionID  string            `json:"transaction_id"`
	Authority      string            `json:"authority,omitempty"`
	ReferenceID    string            `json:"reference_id,omitempty"`
	CallbackParams map[string]string `json:"callback_params"`
}

// VerifyResponse carries the finalized amount and settlement metadata.
// Card and Wallet are mutually exclusive depending on the rail used.
type VerifyResponse struct {
	Success       bool         `json:"success"`
	TransactionID string       `json:"transaction_id"`
	Amount        int64        `json:"amount"`
	TrackingCode  string       `json:"tracking_code,omitempty"`
	ReferenceID   string       `json:"reference_id,omitempty"`
	Card          *CardInfo    `json:"card,omitempty"`
	Wallet        *WalletDebit `json:"wallet,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// OperationResult is the common shape of cancel and refund outcomes.
type OperationResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	TrackingCode  string `json:"tracking_code,omitempty"`
	Error         string `json:"error,omitempty"`
}

// WalletBalance is a read-only pre-flight check. It does not reserve funds;
// the actual debit happens only through verification on the wallet rail.
type WalletBalance struct {
	Balance    int64     `json:"balance"`
	Currency   string    `json:"currency"`
	Sufficient bool      `json:"sufficient"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// PaymentStatistics summarizes platform payment activity.
type PaymentStatistics struct {
	TotalCount     int64 `json:"total_count"`
	SuccessCount   int64 `json:"success_count"`
	FailedCount    int64 `json:"failed_count"`
	RefundedCount  int64 `json:"refunded_count"`
	TotalAmount    int64 `json:"total_amount"`
	TotalFees      int64 `json:"total_fees"`
	RefundedAmount int64 `json:"refunded_amount"`
}
