package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSessionCookie(t *testing.T) {
	c := SessionCookie("tok.en.value", 30*24*time.Hour, false)
	assert.True(t, strings.HasPrefix(c, "Authorization=tok.en.value"), c)
	assert.Contains(t, c, "HttpOnly")
	assert.Contains(t, c, "Max-Age=2592000")
	assert.NotContains(t, c, "Secure")

	secure := SessionCookie("tok", time.Hour, true)
	assert.Contains(t, secure, "Secure")
	assert.Contains(t, secure, "HttpOnly")
}

func TestClearSessionCookie(t *testing.T) {
	c := ClearSessionCookie(false)
	assert.True(t, strings.HasPrefix(c, "Authorization=;"), c)
	assert.Contains(t, c, "Max-Age=0")
	assert.Contains(t, c, "HttpOnly")
}

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(16)
	assert.NoError(t, err)
	b, err := RandomHex(16)
	assert.NoError(t, err)
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}
