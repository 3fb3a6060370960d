package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateUUID generates a UUID v4 string.
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateTransactionID generates a unique correlation id for one payment
// attempt.
func GenerateTransactionID() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), RandomHex(4))
}

// RandomHex generates a random hex string of n bytes.
func RandomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// FormatAmount renders an amount with thousands separators.
func FormatAmount(n int64) string {
	if n == 0 {
		return "0"
	}
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	str := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, c := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + b.String()
}

// ConvertPersianToEnglish converts Persian/Arabic numerals to English digits.
// Gateway forms filled on Persian keyboards regularly carry these.
func ConvertPersianToEnglish(s string) string {
	var result strings.Builder
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹':
			result.WriteRune(r - '۰' + '0')
		case r >= '٠' && r <= '٩':
			result.WriteRune(r - '٠' + '0')
		default:
			result.WriteRune(r)
		}
	}
	return result.String()
}

// NormalizeMobile converts an Iranian mobile number to the local 11-digit
// "09..." form.
func NormalizeMobile(s string) string {
	s = ConvertPersianToEnglish(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "")
	switch {
	case strings.HasPrefix(s, "+98"):
		return "0" + s[3:]
	case strings.HasPrefix(s, "98") && len(s) == 12:
		return "0" + s[2:]
	case strings.HasPrefix(s, "9") && len(s) == 10:
		return "0" + s
	}
	return s
}
