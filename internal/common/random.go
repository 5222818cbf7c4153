package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString returns a hex string of n random bytes (2n characters).
func MakeRandHexString(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
