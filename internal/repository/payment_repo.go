package repository

import (
	"time"

	"gorm.io/gorm"

	"irac/internal/models"
)

// PaymentRepository handles payment attempt ledger operations.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// FindAll returns attempts with pagination and search.
func (r *PaymentRepository) FindAll(limit, page int, query string) ([]models.PaymentAttempt, int64, error) {
	var attempts []models.PaymentAttempt
	var total int64

	db := r.db.Model(&models.PaymentAttempt{})

	if query != "" {
		search := "%" + query + "%"
		db = db.Where("transaction_id LIKE ? OR user_id LIKE ? OR gateway_type LIKE ? OR status LIKE ?",
			search, search, search, search)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 50
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	if err := db.Limit(limit).Offset(offset).Order("created_at DESC").Find(&attempts).Error; err != nil {
		return nil, 0, err
	}
	return attempts, total, nil
}

// FindByTransactionID returns an attempt by its transaction id.
func (r *PaymentRepository) FindByTransactionID(transactionID string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	if err := r.db.Where("transaction_id = ?", transactionID).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindByAuthority returns an attempt by its ZarinPal authority token.
func (r *PaymentRepository) FindByAuthority(authority string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	if err := r.db.Where("authority = ?", authority).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// FindByReferenceID returns an attempt by its bank reference token.
func (r *PaymentRepository) FindByReferenceID(referenceID string) (*models.PaymentAttempt, error) {
	var attempt models.PaymentAttempt
	if err := r.db.Where("reference_id = ?", referenceID).First(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// Create records a new payment attempt.
func (r *PaymentRepository) Create(attempt *models.PaymentAttempt) error {
	return r.db.Create(attempt).Error
}

// UpdateByTransactionID updates an attempt by transaction id.
func (r *PaymentRepository) UpdateByTransactionID(transactionID string, updates map[string]interface{}) error {
	return r.db.Model(&models.PaymentAttempt{}).
		Where("transaction_id = ?", transactionID).Updates(updates).Error
}

// ExpirePendingBefore marks pending/processing attempts created before the
// cutoff as expired and returns how many rows changed.
func (r *PaymentRepository) ExpirePendingBefore(cutoff time.Time) (int64, error) {
	res := r.db.Model(&models.PaymentAttempt{}).
		Where("status IN ? AND created_at < ?", []string{models.AttemptPending, models.AttemptProcessing}, cutoff).
		Updates(map[string]interface{}{"status": models.AttemptExpired})
	return res.RowsAffected, res.Error
}

// SumPaidAmount returns the total settled amount.
func (r *PaymentRepository) SumPaidAmount() (int64, error) {
	var sum int64
	err := r.db.Model(&models.PaymentAttempt{}).
		Where("status = ?", models.AttemptPaid).
		Select("COALESCE(SUM(final_amount), 0)").Scan(&sum).Error
	return sum, err
}

// CountByStatus returns the number of attempts in the given status.
func (r *PaymentRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PaymentAttempt{}).Where("status = ?", status).Count(&count).Error
	return count, err
}
