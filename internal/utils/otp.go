package utils

import (
	"crypto/rand"
	"math/big"
)

const otpCharset = "0123456789"

// GenerateOTP returns a random numeric code of the given length, each digit
// drawn uniformly from crypto/rand.
func GenerateOTP(length int) string {
	if length <= 0 {
		return ""
	}
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(otpCharset))))
		if err != nil {
			// crypto/rand only fails if the platform source is broken
			panic(err)
		}
		b[i] = otpCharset[n.Int64()]
	}
	return string(b)
}
