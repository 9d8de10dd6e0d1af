package config

import "time"

// CacheConfig defines settings for the user lookup cache used by the auth
// gate. When Enabled is false or no Redis client is configured, every
// lookup goes to the credential store. TTL bounds how long a cached user
// may outlive a change made outside this service.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads environment variables to build a CacheConfig.
// Defaults are used when variables are not set.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: envBool("CACHE_ENABLED", true),
		TTL:     envDur("CACHE_TTL", 30*time.Second),
		Prefix:  envStr("CACHE_PREFIX", "auth"),
	}
}
