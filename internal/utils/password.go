package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor used for stored password hashes.
const DefaultBcryptCost = 10

// HashPassword returns a salted bcrypt hash using the given cost. A cost
// outside bcrypt's range falls back to DefaultBcryptCost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password. A
// malformed hash is treated as a mismatch.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
