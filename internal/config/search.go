package config

import "strconv"

// SearchConfig tunes the aggregator.
type SearchConfig struct {
	Concurrency int
}

// WarmerConfig controls the background cache warmer.
type WarmerConfig struct {
	Enabled   bool
	Interval  Duration
	DaysAhead int
}

// HTTPConfig holds router settings.
type HTTPConfig struct {
	AllowedOrigins []string
	// AdminToken enables the admin routes when set.
	AdminToken string
}

func loadSearch() SearchConfig {
	return SearchConfig{
		Concurrency: intEnvOrDefault(envSearchConcurrency, defaultSearchConcurrency),
	}
}

func loadWarmer() WarmerConfig {
	return WarmerConfig{
		Enabled:   boolEnvOrDefault(envWarmEnabled, defaultWarmEnabled),
		Interval:  durationEnvOrDefault(envWarmInterval, defaultWarmInterval),
		DaysAhead: nonNegativeIntEnv(envWarmDaysAhead),
	}
}

func loadHTTP() HTTPConfig {
	return HTTPConfig{
		AllowedOrigins: listEnvOrDefault(envCORSOrigins, defaultCORSOrigins),
		AdminToken:     envOrDefault(envAdminToken, ""),
	}
}

func nonNegativeIntEnv(key string) int {
	v, err := strconv.Atoi(envOrDefault(key, "0"))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
