package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAmount_PlatformBounds(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
		ok     bool
	}{
		{"exactly min", MinPaymentAmount, true},
		{"exactly max", MaxPaymentAmount, true},
		{"min minus one", MinPaymentAmount - 1, false},
		{"max plus one", MaxPaymentAmount + 1, false},
		{"zero", 0, false},
		{"negative", -100, false},
		{"mid range", 150_000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(tt.amount, nil)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateAmount_DescriptorBounds(t *testing.T) {
	desc := &GatewayDescriptor{MinAmount: 50_000, MaxAmount: 1_000_000}

	assert.NoError(t, ValidateAmount(50_000, desc))
	assert.NoError(t, ValidateAmount(1_000_000, desc))
	assert.Error(t, ValidateAmount(49_999, desc))
	assert.Error(t, ValidateAmount(1_000_001, desc))
}

func TestValidateAmount_DescriptorWithoutBoundsUsesPlatform(t *testing.T) {
	desc := &GatewayDescriptor{}

	assert.NoError(t, ValidateAmount(MinPaymentAmount, desc))
	assert.Error(t, ValidateAmount(MinPaymentAmount-1, desc))
}

func TestAmountError_Message(t *testing.T) {
	err := ValidateAmount(1, nil)
	assert.Contains(t, err.Error(), "below the minimum")

	err = ValidateAmount(MaxPaymentAmount+1, nil)
	assert.Contains(t, err.Error(), "exceeds the maximum")
}
