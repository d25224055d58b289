package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/metrics"
	"github.com/preston-bernstein/teetime-service/internal/store"
	"github.com/preston-bernstein/teetime-service/internal/timeutil"
)

const (
	defaultInterval = 5 * time.Minute
	defaultTTL      = 10 * time.Minute
	// Entries older than pruneFactor*TTL are removed after each cycle.
	pruneFactor = 2
)

var errAllCoursesFailed = errors.New("every course failed")

// Searcher runs one aggregated search.
type Searcher interface {
	Search(ctx context.Context, list []courses.Course, criteria slots.SearchCriteria) slots.Response
}

// CourseSource lists the courses to keep warm.
type CourseSource interface {
	Courses() []courses.Course
}

// Options tunes the warm loop.
type Options struct {
	Interval  time.Duration
	DaysAhead int
	TTL       time.Duration
}

// Poller periodically runs the default search (one player, any holes, whole day) for every
// catalog course so the common query is answered from cache.
type Poller struct {
	searcher  Searcher
	source    CourseSource
	pruner    store.Pruner
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	daysAhead int
	ttl       time.Duration
	now       func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the warm loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
}

// IsReady reports whether the warmer has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller. pruner may be nil when the cache expires entries on its own.
func New(searcher Searcher, source CourseSource, pruner store.Pruner, logger *slog.Logger, recorder *metrics.Recorder, opts Options) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = defaultInterval
	}
	if opts.TTL <= 0 {
		opts.TTL = defaultTTL
	}
	if opts.DaysAhead < 0 {
		opts.DaysAhead = 0
	}
	return &Poller{
		searcher:  searcher,
		source:    source,
		pruner:    pruner,
		logger:    logger,
		metrics:   recorder,
		interval:  opts.Interval,
		daysAhead: opts.DaysAhead,
		ttl:       opts.TTL,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start begins warming until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		p.logInfo("cache warmer started",
			logging.FieldDurationMS, p.interval.Milliseconds(),
			"days_ahead", p.daysAhead,
		)
		p.warmOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				p.logInfo("cache warmer stopped")
				return
			case <-p.done:
				p.stopTicker()
				p.logInfo("cache warmer stopped")
				return
			case <-p.ticker.C:
				p.warmOnce(ctx)
			}
		}
	}()
}

// Stop halts the warm loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// warmOnce searches today and the configured days ahead, then prunes old entries.
// A cycle fails only when some day resolved no course at all.
func (p *Poller) warmOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)

	var list []courses.Course
	if p.source != nil {
		list = p.source.Courses()
	}

	var err error
	total := 0
	if p.searcher != nil && len(list) > 0 {
		groups := groupByLocalDate(list, p.now())
	days:
		for day := 0; day <= p.daysAhead; day++ {
			for _, g := range groups {
				if ctx.Err() != nil {
					err = ctx.Err()
					break days
				}
				date, dateErr := timeutil.AddDays(g.today, day)
				if dateErr != nil {
					err = dateErr
					break days
				}
				resp := p.searcher.Search(ctx, g.courses, slots.SearchCriteria{Date: date, PartySize: 1})
				total += resp.Stats.Slots
				if resp.Stats.Courses > 0 && resp.Stats.Failed == resp.Stats.Courses {
					err = fmt.Errorf("warm %s: %w", date, errAllCoursesFailed)
				}
			}
		}
	}

	p.prune(ctx)

	if p.metrics != nil {
		p.metrics.RecordPollerCycle(time.Since(start), err)
	}
	if err != nil {
		p.logError("cache warm failed", err, logging.FieldDurationMS, time.Since(start).Milliseconds())
		p.recordFailure(err, start)
		return
	}
	p.recordSuccess(start)
	p.logInfo("cache warmed",
		"courses", len(list),
		logging.FieldCount, total,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

// dateGroup is the set of courses that share a local calendar date.
type dateGroup struct {
	today   string
	courses []courses.Course
}

// groupByLocalDate buckets courses by the date it is in their own timezone, so a
// Sydney course and a Phoenix course are each warmed for their own today.
func groupByLocalDate(list []courses.Course, now time.Time) []dateGroup {
	index := make(map[string]int)
	var out []dateGroup
	for _, c := range list {
		today := timeutil.TodayIn(c.Timezone, now)
		i, ok := index[today]
		if !ok {
			i = len(out)
			index[today] = i
			out = append(out, dateGroup{today: today})
		}
		out[i].courses = append(out[i].courses, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].today < out[b].today })
	return out
}

func (p *Poller) prune(ctx context.Context) {
	if p.pruner == nil {
		return
	}
	cutoff := p.now().Add(-pruneFactor * p.ttl)
	removed, err := p.pruner.Prune(ctx, cutoff)
	if err != nil {
		p.logError("cache prune failed", err)
		return
	}
	if removed > 0 {
		p.logInfo("cache pruned", logging.FieldCount, removed)
	}
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) logInfo(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Poller) logError(msg string, err error, attrs ...any) {
	if p.logger != nil {
		p.logger.Error(msg, append(attrs, "error", err)...)
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the warmer's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
