package config

// UpstreamConfig controls how adapters reach booking platforms.
type UpstreamConfig struct {
	Timeout         Duration
	RetryAttempts   int
	RetryBackoff    Duration
	RatePerSecond   float64
	Burst           int
	BreakerFailures int
	BreakerCooldown Duration
	TeeItUpBaseURL  string
	ChronogolfURL   string
	UserAgent       string
}

func loadUpstream() UpstreamConfig {
	return UpstreamConfig{
		Timeout:         clampDuration(durationEnvOrDefault(envProviderTimeout, defaultProviderTimeout), minProviderTimeout, maxProviderTimeout),
		RetryAttempts:   intEnvOrDefault(envRetryAttempts, defaultRetryAttempts),
		RetryBackoff:    durationEnvOrDefault(envRetryBackoff, defaultRetryBackoff),
		RatePerSecond:   floatEnvOrDefault(envRatePerSec, defaultRatePerSec),
		Burst:           intEnvOrDefault(envRateBurst, defaultRateBurst),
		BreakerFailures: intEnvOrDefault(envBreakerFailures, defaultBreakerFailures),
		BreakerCooldown: durationEnvOrDefault(envBreakerCooldown, defaultBreakerCooldown),
		TeeItUpBaseURL:  envOrDefault(envTeeItUpBaseURL, defaultTeeItUpBaseURL),
		ChronogolfURL:   envOrDefault(envChronogolfURL, defaultChronogolfURL),
		UserAgent:       envOrDefault(envUserAgent, defaultUserAgent),
	}
}
