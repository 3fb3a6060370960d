package bootstrap

import (
	"fmt"

	"gorm.io/gorm"

	"irac/internal/models"
)

// Migrate ensures the ledger tables exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.PaymentAttempt{},
		&models.ManualPayment{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
