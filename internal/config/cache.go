package config

import "time"

// UserCacheConfig defines settings for the Redis cache in front of the user
// directory.  When Enabled is false or no Redis client is configured, every
// lookup goes to the database.  The cache is off by default: with it on, a
// user removed from the database keeps passing Protect for up to TTL unless
// the removal goes through CachedDirectory.Delete.
type UserCacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadUserCacheConfig reads the USER_CACHE_* variables.  Defaults are used
// when variables are not set.
func LoadUserCacheConfig() UserCacheConfig {
	return UserCacheConfig{
		Enabled: envBool("USER_CACHE_ENABLED", false),
		TTL:     envDur("USER_CACHE_TTL", 30*time.Second),
		Prefix:  getenv("USER_CACHE_PREFIX", "authsvc"),
	}
}
