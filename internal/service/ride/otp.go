package ride

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPLength is the number of digits in a ride's one-time code.
const OTPLength = 6

// generateOTP returns a decimal string of exactly n digits, uniformly
// sampled from [10^(n-1), 10^n - 1] so the first digit is never zero.
func generateOTP(n int) (string, error) {
	if n < 1 || n > 18 {
		return "", fmt.Errorf("otp length out of range: %d", n)
	}

	min := int64(1)
	for i := 1; i < n; i++ {
		min *= 10
	}
	max := min*10 - 1 // inclusive

	v, err := rand.Int(rand.Reader, big.NewInt(max-min+1))
	if err != nil {
		return "", fmt.Errorf("otp random source: %w", err)
	}

	return fmt.Sprintf("%d", v.Int64()+min), nil
}
