package server

import (
	"log/slog"

	"github.com/preston-bernstein/teetime-service/internal/config"
	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/metrics"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/providers/fixture"
)

// providerFactory assembles one adapter per provider tag with the shared wrappers
// (rate limit, then retry, then circuit breaker outermost).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	client  providers.HTTPDoer
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

func (f providerFactory) build(cfg config.Config, groups courses.FeeGroups) *providers.Registry {
	registry := providers.NewRegistry()
	if normalizeProviderMode(cfg.ProviderMode, f.logger) == modeFixture {
		fx := fixture.New()
		for _, tag := range courses.Providers() {
			registry.Register(tag, fx)
		}
		return registry
	}

	transport := providers.NewTransport(providers.ResolveHTTPClient(f.client, cfg.Upstream.Timeout), cfg.Upstream.UserAgent)
	for _, tag := range courses.Providers() {
		adapter := selectAdapter(tag, cfg, transport, groups, f.logger)
		if adapter == nil {
			continue
		}
		registry.Register(tag, f.wrap(adapter, string(tag), cfg.Upstream))
	}
	return registry
}

func (f providerFactory) wrap(adapter providers.SlotProvider, name string, up config.UpstreamConfig) providers.SlotProvider {
	limited := providers.NewRateLimitedProvider(adapter, name, up.RatePerSecond, up.Burst, f.logger)
	retrying := providers.NewRetryingProvider(limited, f.logger, f.metrics, name, up.RetryAttempts, up.RetryBackoff)
	return providers.NewBreakerProvider(retrying, name, up.BreakerFailures, up.BreakerCooldown, f.logger, f.metrics)
}
