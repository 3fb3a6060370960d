package models

import "time"

// Payment attempt lifecycle statuses stored in the local ledger.
const (
	AttemptPending    = "pending"
	AttemptProcessing = "processing"
	AttemptPaid       = "paid"
	AttemptFailed     = "failed"
	AttemptCancelled  = "cancelled"
	AttemptExpired    = "expired"
	AttemptRefunded   = "refunded"
)

// PaymentAttempt is the local ledger row for one payment attempt. The
// authoritative ledger lives behind the lesan backend; this mirror exists so
// callbacks can be correlated and the admin API can list and search attempts.
type PaymentAttempt struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TransactionID string    `gorm:"column:transaction_id;size:100;uniqueIndex" json:"transaction_id"`
	UserID        string    `gorm:"column:user_id;size:100;index" json:"user_id"`
	GatewayType   string    `gorm:"column:gateway_type;size:50" json:"gateway_type"`
	GatewayID     string    `gorm:"column:gateway_id;size:100" json:"gateway_id"`
	Amount        int64     `gorm:"column:amount" json:"amount"`
	FinalAmount   int64     `gorm:"column:final_amount" json:"final_amount"`
	GatewayFee    int64     `gorm:"column:gateway_fee" json:"gateway_fee"`
	Currency      string    `gorm:"column:currency;size:10" json:"currency"`
	Purpose       string    `gorm:"column:purpose;size:50" json:"purpose"`
	Description   string    `gorm:"column:description;size:1000" json:"description"`
	OrderID       string    `gorm:"column:order_id;size:100" json:"order_id,omitempty"`
	InvoiceID     string    `gorm:"column:invoice_id;size:100" json:"invoice_id,omitempty"`
	Authority     string    `gorm:"column:authority;size:100;index" json:"authority,omitempty"`
	ReferenceID   string    `gorm:"column:reference_id;size:100;index" json:"reference_id,omitempty"`
	TrackingCode  string    `gorm:"column:tracking_code;size:100" json:"tracking_code,omitempty"`
	Status        string    `gorm:"column:status;size:30;index" json:"status"`
	FallbackUsed  bool      `gorm:"column:fallback_used" json:"fallback_used"`
	RetryCount    int       `gorm:"column:retry_count" json:"retry_count"`
	CallbackRaw   string    `gorm:"column:callback_raw;type:text" json:"callback_raw,omitempty"`
	Error         string    `gorm:"column:error;size:1000" json:"error,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (PaymentAttempt) TableName() string {
	return "payment_attempts"
}

// Manual payment review states.
const (
	ManualPending  = "pending"
	ManualApproved = "approved"
	ManualRejected = "rejected"
)

// ManualPayment records a card-to-card or bank-transfer payment awaiting
// admin review.
type ManualPayment struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TransactionID string    `gorm:"column:transaction_id;size:100;uniqueIndex" json:"transaction_id"`
	UserID        string    `gorm:"column:user_id;size:100;index" json:"user_id"`
	Amount        int64     `gorm:"column:amount" json:"amount"`
	Purpose       string    `gorm:"column:purpose;size:50" json:"purpose"`
	Description   string    `gorm:"column:description;size:1000" json:"description"`
	ReceiptRef    string    `gorm:"column:receipt_ref;size:200" json:"receipt_ref,omitempty"`
	Status        string    `gorm:"column:status;size:30;index" json:"status"`
	ReviewedBy    string    `gorm:"column:reviewed_by;size:100" json:"reviewed_by,omitempty"`
	ReviewNote    string    `gorm:"column:review_note;size:1000" json:"review_note,omitempty"`
	CreatedAt     time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ManualPayment) TableName() string {
	return "manual_payments"
}
