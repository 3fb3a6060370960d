package repository

import (
	"gorm.io/gorm"

	"irac/internal/models"
)

// ManualPaymentRepository handles manual (card-to-card / bank transfer)
// payment records awaiting admin review.
type ManualPaymentRepository struct {
	db *gorm.DB
}

func NewManualPaymentRepository(db *gorm.DB) *ManualPaymentRepository {
	return &ManualPaymentRepository{db: db}
}

// Create records a new manual payment in pending state.
func (r *ManualPaymentRepository) Create(mp *models.ManualPayment) error {
	if mp.Status == "" {
		mp.Status = models.ManualPending
	}
	return r.db.Create(mp).Error
}

// FindByTransactionID returns a manual payment by transaction id.
func (r *ManualPaymentRepository) FindByTransactionID(transactionID string) (*models.ManualPayment, error) {
	var mp models.ManualPayment
	if err := r.db.Where("transaction_id = ?", transactionID).First(&mp).Error; err != nil {
		return nil, err
	}
	return &mp, nil
}

// FindPending lists manual payments awaiting review.
func (r *ManualPaymentRepository) FindPending(limit, page int) ([]models.ManualPayment, int64, error) {
	var items []models.ManualPayment
	var total int64

	db := r.db.Model(&models.ManualPayment{}).Where("status = ?", models.ManualPending)
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

	err := db.Limit(limit).Offset(offset).Order("created_at ASC").Find(&items).Error
	return items, total, err
}

// Review sets the final review state of a manual payment.
func (r *ManualPaymentRepository) Review(transactionID, status, reviewer, note string) error {
	return r.db.Model(&models.ManualPayment{}).
		Where("transaction_id = ? AND status = ?", transactionID, models.ManualPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewer,
			"review_note": note,
		}).Error
}
