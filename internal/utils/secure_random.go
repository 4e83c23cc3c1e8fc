package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateAccountNumber returns a cryptographically random string of length decimal digits.
// The first digit is never zero.
func GenerateAccountNumber(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	digits := make([]byte, length)
	for i := range digits {
		upper := int64(10)
		offset := int64(0)
		if i == 0 {
			upper, offset = 9, 1
		}
		n, err := rand.Int(rand.Reader, big.NewInt(upper))
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64() + offset)
	}
	return string(digits), nil
}
