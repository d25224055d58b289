package config

import "time"

const (
	envPort         = "PORT"
	envProviderMode = "PROVIDER_MODE"
	envCoursesFile  = "COURSES_FILE"

	envCacheBackend = "CACHE_BACKEND"
	envCacheTTL     = "CACHE_TTL"
	envRedisURL     = "REDIS_URL"
	envDatabaseURL  = "DATABASE_URL"

	envProviderTimeout = "PROVIDER_TIMEOUT"
	envRetryAttempts   = "PROVIDER_RETRY_ATTEMPTS"
	envRetryBackoff    = "PROVIDER_RETRY_BACKOFF"
	envRatePerSec      = "PROVIDER_RATE_PER_SEC"
	envRateBurst       = "PROVIDER_BURST"
	envBreakerFailures = "BREAKER_FAILURES"
	envBreakerCooldown = "BREAKER_COOLDOWN"
	envTeeItUpBaseURL  = "TEEITUP_BASE_URL"
	envChronogolfURL   = "CHRONOGOLF_BASE_URL"
	envUserAgent       = "HTTP_USER_AGENT"

	envSearchConcurrency = "SEARCH_CONCURRENCY"

	envWarmEnabled   = "WARM_ENABLED"
	envWarmInterval  = "WARM_INTERVAL"
	envWarmDaysAhead = "WARM_DAYS_AHEAD"

	envCORSOrigins = "CORS_ALLOWED_ORIGINS"
	envAdminToken  = "ADMIN_TOKEN"

	envMetricsPort  = "METRICS_PORT"
	envMetricsOn    = "METRICS_ENABLED"
	envOtelEndpoint = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService  = "OTEL_SERVICE_NAME"
	envOtelInsecure = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort         = "4000"
	defaultProviderMode = "fixture"

	defaultCacheBackend = "memory"
	// Entries older than this are treated as misses.
	defaultCacheTTL = 10 * Duration(time.Minute)

	// Upstream calls must settle in single-digit seconds.
	defaultProviderTimeout = 8 * Duration(time.Second)
	minProviderTimeout     = 1 * Duration(time.Second)
	maxProviderTimeout     = 9 * Duration(time.Second)
	defaultRetryAttempts   = 2
	defaultRetryBackoff    = 150 * Duration(time.Millisecond)
	defaultRatePerSec      = 4.0
	defaultRateBurst       = 4
	defaultBreakerFailures = 3
	defaultBreakerCooldown = 2 * Duration(time.Minute)
	defaultTeeItUpBaseURL  = "https://phx-api-be-east-1b.kenna.io"
	defaultChronogolfURL   = "https://www.chronogolf.com"
	defaultUserAgent       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultSearchConcurrency = 16

	defaultWarmEnabled = true
	// Warm cadence stays under the cache TTL so warmed entries never go stale between cycles.
	defaultWarmInterval = 5 * Duration(time.Minute)

	defaultCORSOrigins = "*"

	defaultMetricsPort = "9090"
)
