package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.ProviderMode != defaultProviderMode {
		t.Fatalf("expected default provider mode %s, got %s", defaultProviderMode, cfg.ProviderMode)
	}
	if cfg.Cache.Backend != CacheMemory {
		t.Fatalf("expected memory cache by default, got %s", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 10*time.Minute {
		t.Fatalf("expected 10m ttl, got %s", cfg.Cache.TTL)
	}
	if cfg.Upstream.Timeout != defaultProviderTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultProviderTimeout, cfg.Upstream.Timeout)
	}
	if cfg.Upstream.TeeItUpBaseURL != defaultTeeItUpBaseURL || cfg.Upstream.ChronogolfURL != defaultChronogolfURL {
		t.Fatalf("unexpected upstream defaults %+v", cfg.Upstream)
	}
	if !cfg.Warmer.Enabled || cfg.Warmer.Interval >= cfg.Cache.TTL {
		t.Fatalf("expected warmer enabled with interval below ttl, got %+v", cfg.Warmer)
	}
	if !reflect.DeepEqual(cfg.HTTP.AllowedOrigins, []string{"*"}) {
		t.Fatalf("expected wildcard cors, got %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envProviderMode, "live")
	t.Setenv(envCacheBackend, "REDIS")
	t.Setenv(envRedisURL, "redis://localhost:6379/0")
	t.Setenv(envCacheTTL, "2m")
	t.Setenv(envProviderTimeout, "5s")
	t.Setenv(envRatePerSec, "1.5")
	t.Setenv(envWarmDaysAhead, "2")
	t.Setenv(envCORSOrigins, "https://a.example, https://b.example")
	t.Setenv(envAdminToken, "s3cret")

	cfg := Load()

	if cfg.Port != "5000" || cfg.ProviderMode != "live" {
		t.Fatalf("unexpected overrides %+v", cfg)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected cache config %+v", cfg.Cache)
	}
	if cfg.Cache.TTL != 2*time.Minute {
		t.Fatalf("expected ttl 2m, got %s", cfg.Cache.TTL)
	}
	if cfg.Upstream.Timeout != 5*time.Second || cfg.Upstream.RatePerSecond != 1.5 {
		t.Fatalf("unexpected upstream config %+v", cfg.Upstream)
	}
	if cfg.Warmer.DaysAhead != 2 {
		t.Fatalf("expected 2 warm days ahead, got %d", cfg.Warmer.DaysAhead)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.HTTP.AllowedOrigins)
	}
	if cfg.HTTP.AdminToken != "s3cret" {
		t.Fatalf("expected admin token, got %q", cfg.HTTP.AdminToken)
	}
}

func TestLoadClampsProviderTimeout(t *testing.T) {
	t.Setenv(envProviderTimeout, "30s")
	if got := Load().Upstream.Timeout; got != maxProviderTimeout {
		t.Fatalf("expected timeout clamped to %s, got %s", maxProviderTimeout, got)
	}

	t.Setenv(envProviderTimeout, "100ms")
	if got := Load().Upstream.Timeout; got != minProviderTimeout {
		t.Fatalf("expected timeout clamped to %s, got %s", minProviderTimeout, got)
	}
}

func TestLoadUnknownCacheBackendFallsBack(t *testing.T) {
	t.Setenv(envCacheBackend, "memcached")
	if got := Load().Cache.Backend; got != CacheMemory {
		t.Fatalf("expected memory fallback, got %s", got)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envCacheTTL, "not-a-duration")

	if got := Load().Cache.TTL; got != defaultCacheTTL {
		t.Fatalf("expected default ttl on invalid value, got %s", got)
	}
}

func TestLoadNonPositiveDurationFallsBack(t *testing.T) {
	t.Setenv(envWarmInterval, "0s")

	if got := Load().Warmer.Interval; got != defaultWarmInterval {
		t.Fatalf("expected default warm interval on non-positive value, got %s", got)
	}
}
