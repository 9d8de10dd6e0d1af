package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomHex returns a hex‑encoded string generated from n bytes of
// cryptographically secure random data. It is used for OAuth state values.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
