package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", StoreMemory)

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.Production())
	assert.False(t, cfg.Google.Enabled())
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, "auth.events", cfg.Events.Queue)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_MySQLAndOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", StoreMySQL)
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "auth")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_REDIRECT_URL", "http://localhost/auth/google/callback")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg := Load()

	require.True(t, cfg.Production())
	assert.Equal(t, "app", cfg.DBUser)
	assert.Equal(t, "", cfg.DBPass)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, 15*time.Minute, cfg.AccessTTL)
	assert.True(t, cfg.Google.Enabled())
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "7")
	t.Setenv("X_DUR", "2s")

	assert.False(t, envBool("X_BOOL", true))
	assert.True(t, envBool("X_UNSET_BOOL", true))
	assert.Equal(t, 7, envInt("X_INT", 1))
	assert.Equal(t, 2*time.Second, envDur("X_DUR", time.Second))
	assert.Equal(t, "fallback", envStr("X_MISSING", "fallback"))
}

func TestLookup_RejectsMalformedValues(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "15")
	t.Setenv("SESSION_TOKEN_TTL", "7d")
	t.Setenv("BCRYPT_COST", "twelve")
	t.Setenv("CACHE_ENABLED", "maybe")

	_, err := lookupDur("ACCESS_TOKEN_TTL", time.Hour)
	assert.EqualError(t, err, `invalid duration for ACCESS_TOKEN_TTL: "15"`)
	_, err = lookupDur("SESSION_TOKEN_TTL", time.Hour)
	assert.EqualError(t, err, `invalid duration for SESSION_TOKEN_TTL: "7d"`)
	_, err = lookupInt("BCRYPT_COST", 10)
	assert.EqualError(t, err, `invalid int for BCRYPT_COST: "twelve"`)
	_, err = lookupBool("CACHE_ENABLED", true)
	assert.EqualError(t, err, `invalid bool for CACHE_ENABLED: "maybe"`)
}

func TestLookup_UnsetUsesDefault(t *testing.T) {
	d, err := lookupDur("X_UNSET_DUR", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, d)
	n, err := lookupInt("X_UNSET_INT", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestValidate(t *testing.T) {
	ok := Config{Env: "production", AccessTTL: time.Hour, SessionTTL: time.Hour, BcryptCost: 10}
	require.NoError(t, ok.validate())

	lowCost := ok
	lowCost.BcryptCost = 4
	assert.ErrorContains(t, lowCost.validate(), "BCRYPT_COST cannot be overridden in production")

	lowCost.Env = "development"
	assert.NoError(t, lowCost.validate())

	noTTL := ok
	noTTL.SessionTTL = 0
	assert.ErrorContains(t, noTTL.validate(), "token TTLs must be positive")
}
