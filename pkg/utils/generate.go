package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// ==================== TOKEN ====================

// GenerateToken returns n random bytes, hex encoded.
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		n = 32
	}

	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// ==================== OTP ====================

var ten = big.NewInt(10)

// GenerateOTP returns length decimal digits drawn uniformly from crypto/rand.
// Leading zeros are kept.
func GenerateOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}

	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}

	return string(digits), nil
}
