package config

import "strings"

// Cache backends.
const (
	CacheMemory   = "memory"
	CacheRedis    = "redis"
	CachePostgres = "postgres"
)

// CacheConfig selects the slot cache backend and freshness window.
type CacheConfig struct {
	Backend     string
	TTL         Duration
	RedisURL    string
	DatabaseURL string
}

func loadCache() CacheConfig {
	backend := strings.ToLower(envOrDefault(envCacheBackend, defaultCacheBackend))
	switch backend {
	case CacheMemory, CacheRedis, CachePostgres:
	default:
		backend = defaultCacheBackend
	}
	return CacheConfig{
		Backend:     backend,
		TTL:         durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
		RedisURL:    envOrDefault(envRedisURL, ""),
		DatabaseURL: envOrDefault(envDatabaseURL, ""),
	}
}
