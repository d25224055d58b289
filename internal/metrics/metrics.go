package metrics

import (
	"sync"
	"time"
)

type providerStats struct {
	calls           int
	errors          int
	rateLimitHits   int
	breakerOpens    int
	lastRetryAfter  time.Duration
	lastCallLatency time.Duration
}

type searchStats struct {
	searches     int
	failedCourse int
	lastDuration time.Duration
}

// Recorder captures in-memory counters for provider calls, cache lookups and searches.
// When telemetry is enabled it also forwards every observation to OTel instruments.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*providerStats
	cache  map[string]int
	search searchStats
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*providerStats),
		cache: make(map[string]int),
		otel:  otel,
	}
}

// RecordProviderAttempt increments counters for a provider call and stores the last observed latency.
func (r *Recorder) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordProviderAttempt(provider, duration, err)
	}
}

// RecordRateLimit tracks that a provider response hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(provider string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(provider)
	stats.rateLimitHits++
	if retryAfter > 0 {
		stats.lastRetryAfter = retryAfter
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimit(provider, retryAfter)
	}
}

// RecordBreakerState tracks circuit breaker transitions for a provider.
func (r *Recorder) RecordBreakerState(provider, breaker, state string) {
	if r == nil {
		return
	}
	if state == "open" {
		r.mu.Lock()
		r.ensureStatsLocked(provider).breakerOpens++
		r.mu.Unlock()
	}
	if r.otel != nil {
		r.otel.recordBreakerState(provider, breaker, state)
	}
}

// RecordCacheLookup counts a cache lookup by outcome (hit, miss, stale, error).
func (r *Recorder) RecordCacheLookup(provider, outcome string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.cache[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheLookup(provider, outcome)
	}
}

// RecordSearch tracks one aggregated search.
func (r *Recorder) RecordSearch(duration time.Duration, courses, failed, slots int) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.search.searches++
	r.search.failedCourse += failed
	r.search.lastDuration = duration
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSearch(duration, courses, failed, slots)
	}
}

// ProviderCalls returns the total attempts recorded for a provider.
func (r *Recorder) ProviderCalls(provider string) int {
	return r.Snapshot(provider).Calls
}

// ProviderErrors returns the total failed attempts recorded for a provider.
func (r *Recorder) ProviderErrors(provider string) int {
	return r.Snapshot(provider).Errors
}

// RateLimitHits returns the number of rate limit events seen for a provider.
func (r *Recorder) RateLimitHits(provider string) int {
	return r.Snapshot(provider).RateLimitHits
}

// LastRetryAfter returns the most recent Retry-After recorded for a provider.
func (r *Recorder) LastRetryAfter(provider string) time.Duration {
	return r.Snapshot(provider).LastRetryAfter
}

// LastCallLatency returns the last recorded latency for a provider call.
func (r *Recorder) LastCallLatency(provider string) time.Duration {
	return r.Snapshot(provider).LastCallLatency
}

// CacheLookups returns how many lookups ended with the given outcome.
func (r *Recorder) CacheLookups(outcome string) int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cache[outcome]
}

// Searches returns the number of searches and the total failed course resolutions.
func (r *Recorder) Searches() (count, failedCourses int) {
	if r == nil {
		return 0, 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.search.searches, r.search.failedCourse
}

// Snapshot returns a copy of the current stats for the provider.
type Snapshot struct {
	Calls           int
	Errors          int
	RateLimitHits   int
	BreakerOpens    int
	LastRetryAfter  time.Duration
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(provider string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[provider]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		RateLimitHits:   stats.rateLimitHits,
		BreakerOpens:    stats.breakerOpens,
		LastRetryAfter:  stats.lastRetryAfter,
		LastCallLatency: stats.lastCallLatency,
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordPollerCycle tracks cache warmer cycles and errors.
func (r *Recorder) RecordPollerCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordPoller(duration, err)
}

func (r *Recorder) ensureStatsLocked(provider string) *providerStats {
	stats, ok := r.stats[provider]
	if !ok {
		stats = &providerStats{}
		r.stats[provider] = stats
	}
	return stats
}
