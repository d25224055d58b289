package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/metrics"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/store"
)

const (
	defaultTTL         = 10 * time.Minute
	defaultTimeout     = 8 * time.Second
	defaultConcurrency = 16
)

// Config tunes the aggregator.
type Config struct {
	TTL         time.Duration
	Timeout     time.Duration
	Concurrency int
}

// outcome records how one course's slot list was resolved.
type outcome int

const (
	fromCache outcome = iota
	live
	failed
)

// Service resolves every course of a search concurrently, each from the cache or
// its provider, and merges the results. One course's failure never fails the search.
type Service struct {
	provider    providers.SlotProvider
	cache       store.SlotCache
	logger      *slog.Logger
	metrics     *metrics.Recorder
	ttl         time.Duration
	timeout     time.Duration
	concurrency int
	now         func() time.Time
}

// NewService constructs a Service. provider is usually a registry dispatching on the course's provider tag.
func NewService(provider providers.SlotProvider, cache store.SlotCache, cfg Config, logger *slog.Logger, recorder *metrics.Recorder) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cache == nil {
		cache = store.NewMemoryStore()
	}
	return &Service{
		provider:    provider,
		cache:       cache,
		logger:      logger,
		metrics:     recorder,
		ttl:         cfg.TTL,
		timeout:     cfg.Timeout,
		concurrency: cfg.Concurrency,
		now:         time.Now,
	}
}

// Search resolves list under criteria. The caller validates criteria.Date first.
// Window, hole and capacity filters run once over the merged list.
func (s *Service) Search(ctx context.Context, list []courses.Course, criteria slots.SearchCriteria) slots.Response {
	start := s.now()
	criteria = criteria.WithDefaults()

	results := make([][]slots.Slot, len(list))
	outcomes := make([]outcome, len(list))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, course := range list {
		wg.Add(1)
		go func(i int, course courses.Course) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					logging.Error(s.logger, "course resolution panicked", fmt.Errorf("%v", r), logging.FieldCourse, course.ID)
					results[i], outcomes[i] = nil, failed
				}
			}()
			results[i], outcomes[i] = s.resolve(ctx, course, criteria)
		}(i, course)
	}
	wg.Wait()

	stats := slots.Stats{Courses: len(list)}
	merged := make([]slots.Slot, 0)
	for i := range list {
		merged = append(merged, results[i]...)
		switch outcomes[i] {
		case fromCache:
			stats.FromCache++
		case live:
			stats.Live++
		case failed:
			stats.Failed++
		}
	}

	out := slots.Apply(merged, criteria)
	slots.Sort(out)

	elapsed := s.now().Sub(start)
	stats.Slots = len(out)
	stats.DurationMS = elapsed.Milliseconds()
	s.metrics.RecordSearch(elapsed, stats.Courses, stats.Failed, stats.Slots)

	logging.Info(logging.FromContext(ctx, s.logger), "search complete",
		logging.FieldDate, criteria.Date,
		"courses", stats.Courses,
		"from_cache", stats.FromCache,
		"failed", stats.Failed,
		logging.FieldCount, stats.Slots,
		logging.FieldDurationMS, stats.DurationMS,
	)
	return slots.Response{Date: criteria.Date, Slots: out, Stats: stats}
}

// resolve returns one course's unfiltered slots: a fresh cache entry when there is
// one, otherwise a live fetch written back to the cache whatever its result.
func (s *Service) resolve(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, outcome) {
	logger := logging.FromContext(ctx, s.logger)
	key := store.KeyFor(course.ID, criteria)
	tag := string(course.Provider)

	entry, ok, err := s.cache.Lookup(ctx, key)
	switch {
	case err != nil:
		s.metrics.RecordCacheLookup(tag, metrics.CacheError)
		logging.Warn(logger, "cache lookup failed, fetching live",
			logging.FieldCourse, course.ID,
			logging.FieldProvider, tag,
			logging.FieldReason, err.Error(),
			"corrupt", errors.Is(err, store.ErrCorruptEntry),
		)
	case !ok:
		s.metrics.RecordCacheLookup(tag, metrics.CacheMiss)
	case !entry.Fresh(s.now(), s.ttl):
		s.metrics.RecordCacheLookup(tag, metrics.CacheStale)
	default:
		s.metrics.RecordCacheLookup(tag, metrics.CacheHit)
		return entry.Slots, fromCache
	}

	result := live
	fetched, err := s.fetch(ctx, course, criteria)
	if err != nil {
		result = failed
		fetched = []slots.Slot{}
		logging.Warn(logger, "course fetch failed",
			logging.FieldCourse, course.ID,
			logging.FieldProvider, tag,
			logging.FieldReason, err.Error(),
		)
	}
	if fetched == nil {
		fetched = []slots.Slot{}
	}

	// Local throttling never reached upstream, so there is nothing to remember.
	if errors.Is(err, providers.ErrThrottled) {
		return fetched, result
	}
	s.writeBack(ctx, course, key, fetched)
	return fetched, result
}

// fetch runs the provider on a context detached from the caller's cancellation
// and bounded by the per-course timeout.
func (s *Service) fetch(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) (out []slots.Slot, err error) {
	if s.provider == nil {
		return nil, providers.ErrProviderUnavailable
	}
	fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("provider panic: %v", r)
		}
	}()
	return s.provider.FetchSlots(fctx, course, criteria)
}

func (s *Service) writeBack(ctx context.Context, course courses.Course, key store.Key, list []slots.Slot) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()
	err := s.cache.Store(sctx, store.Entry{
		Key:        key,
		CourseName: course.Name,
		Provider:   course.Provider,
		Slots:      list,
		StoredAt:   s.now(),
	})
	if err != nil {
		logging.Warn(logging.FromContext(ctx, s.logger), "cache write failed",
			logging.FieldCourse, course.ID,
			logging.FieldCache, key.String(),
			logging.FieldReason, err.Error(),
		)
	}
}
