package payment

import "fmt"

// Platform-wide amount bounds in Rials, applied when a gateway descriptor
// does not narrow them further.
const (
	MinPaymentAmount int64 = 10_000         // 1,000 Toman
	MaxPaymentAmount int64 = 10_000_000_000 // 1,000,000,000 Toman
)

// AmountError describes a rejected payment amount.
type AmountError struct {
	Amount int64
	Min    int64
	Max    int64
}

func (e *AmountError) Error() string {
	if e.Amount < e.Min {
		return fmt.Sprintf("amount %d is below the minimum of %d", e.Amount, e.Min)
	}
	return fmt.Sprintf("amount %d exceeds the maximum of %d", e.Amount, e.Max)
}

// ValidateAmount checks an amount against a gateway's bounds, or against the
// platform floor and ceiling when desc is nil. Bounds are inclusive: exactly
// min and exactly max are accepted.
func ValidateAmount(amount int64, desc *GatewayDescriptor) error {
	min, max := MinPaymentAmount, MaxPaymentAmount
	if desc != nil {
		if desc.MinAmount > 0 {
			min = desc.MinAmount
		}
		if desc.MaxAmount > 0 {
			max = desc.MaxAmount
		}
	}
	if amount < min || amount > max {
		return &AmountError{Amount: amount, Min: min, Max: max}
	}
	return nil
}
