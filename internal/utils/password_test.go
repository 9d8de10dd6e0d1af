package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	for _, plain := range []string{"123456", "correct horse battery staple", "ünïcødé", strings.Repeat("a", 72)} {
		hash, err := HashPassword(plain, bcrypt.MinCost)
		require.NoError(t, err)
		assert.NotEqual(t, plain, hash)
		assert.True(t, VerifyPassword(hash, plain), "plain %q", plain)
		assert.False(t, VerifyPassword(hash, plain+"x"), "plain %q", plain)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	a, err := HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("123456", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashPassword_DefaultCost(t *testing.T) {
	hash, err := HashPassword("123456", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultBcryptCost, cost)
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	require.Error(t, err)
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("", "123456"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "123456"))
	assert.False(t, VerifyPassword("$2a$10$short", "123456"))
}
