package config

// Config holds runtime configuration for the server.
type Config struct {
	Port         string
	ProviderMode string
	CoursesFile  string
	Cache        CacheConfig
	Upstream     UpstreamConfig
	Search       SearchConfig
	Warmer       WarmerConfig
	HTTP         HTTPConfig
	Metrics      MetricsConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		ProviderMode: envOrDefault(envProviderMode, defaultProviderMode),
		CoursesFile:  envOrDefault(envCoursesFile, ""),
		Cache:        loadCache(),
		Upstream:     loadUpstream(),
		Search:       loadSearch(),
		Warmer:       loadWarmer(),
		HTTP:         loadHTTP(),
		Metrics:      loadMetrics(),
	}
}
