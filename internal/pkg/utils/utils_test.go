package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{150000, "150,000"},
		{10000000000, "10,000,000,000"},
		{-1500, "-1,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in))
	}
}

func TestConvertPersianToEnglish(t *testing.T) {
	assert.Equal(t, "09121234567", ConvertPersianToEnglish("۰۹۱۲۱۲۳۴۵۶۷"))
	assert.Equal(t, "0912", ConvertPersianToEnglish("٠٩١٢"))
	assert.Equal(t, "abc123", ConvertPersianToEnglish("abc123"))
}

func TestNormalizeMobile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"09121234567", "09121234567"},
		{"+989121234567", "09121234567"},
		{"989121234567", "09121234567"},
		{"9121234567", "09121234567"},
		{"۰۹۱۲۱۲۳۴۵۶۷", "09121234567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMobile(tt.in))
	}
}

func TestGenerateTransactionID(t *testing.T) {
	id := GenerateTransactionID()
	assert.True(t, strings.HasPrefix(id, "TXN-"))
	assert.NotEqual(t, id, GenerateTransactionID())
}
