package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

type stubSearcher struct {
	mu       sync.Mutex
	dates    []string
	criteria []slots.SearchCriteria
	ids      [][]string
	failAll  bool
	calls    atomic.Int32
	notify   chan struct{}
}

func (s *stubSearcher) Search(_ context.Context, list []courses.Course, criteria slots.SearchCriteria) slots.Response {
	s.mu.Lock()
	s.dates = append(s.dates, criteria.Date)
	s.criteria = append(s.criteria, criteria)
	ids := make([]string, 0, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
	}
	s.ids = append(s.ids, ids)
	failAll := s.failAll
	s.mu.Unlock()

	if s.calls.Add(1) == 1 && s.notify != nil {
		close(s.notify)
	}
	stats := slots.Stats{Courses: len(list), Live: len(list), Slots: len(list)}
	if failAll {
		stats.Live, stats.Failed, stats.Slots = 0, len(list), 0
	}
	return slots.Response{Date: criteria.Date, Stats: stats}
}

func (s *stubSearcher) setFailAll(v bool) {
	s.mu.Lock()
	s.failAll = v
	s.mu.Unlock()
}

type stubSource []courses.Course

func (s stubSource) Courses() []courses.Course { return s }

type stubPruner struct {
	cutoffs []time.Time
	removed int
	err     error
}

func (p *stubPruner) Prune(_ context.Context, olderThan time.Time) (int, error) {
	p.cutoffs = append(p.cutoffs, olderThan)
	return p.removed, p.err
}

var twoCourses = stubSource{
	{ID: "papago", Name: "Papago", Provider: courses.ProviderTeeItUp},
	{ID: "encanto", Name: "Encanto", Provider: courses.ProviderChronogolf},
}

func fixedNow() time.Time { return time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC) }

func TestWarmOnceSearchesEachDay(t *testing.T) {
	searcher := &stubSearcher{}
	p := New(searcher, twoCourses, nil, nil, nil, Options{Interval: time.Hour, DaysAhead: 2})
	p.now = fixedNow

	p.warmOnce(context.Background())

	want := []string{"2024-01-30", "2024-01-31", "2024-02-01"}
	if len(searcher.dates) != len(want) {
		t.Fatalf("expected %d searches, got %v", len(want), searcher.dates)
	}
	for i, date := range want {
		if searcher.dates[i] != date {
			t.Fatalf("search %d: expected %s, got %s", i, date, searcher.dates[i])
		}
	}
	for _, c := range searcher.criteria {
		if c.PartySize != 1 || c.Holes != 0 || c.Earliest != "" || c.Latest != "" {
			t.Fatalf("expected default criteria, got %+v", c)
		}
	}
	if !p.Status().IsReady() {
		t.Fatalf("expected ready after successful cycle")
	}
}

func TestWarmOnceUsesEachCourseLocalDate(t *testing.T) {
	searcher := &stubSearcher{}
	source := stubSource{
		{ID: "papago", Name: "Papago", Provider: courses.ProviderTeeItUp, Timezone: "America/Phoenix"},
		{ID: "moore-park", Name: "Moore Park", Provider: courses.ProviderMiClub, Timezone: "Australia/Sydney"},
	}
	p := New(searcher, source, nil, nil, nil, Options{Interval: time.Hour, DaysAhead: 1})
	// Jan 30 evening in UTC is already Jan 31 in Sydney.
	p.now = func() time.Time { return time.Date(2024, 1, 30, 20, 0, 0, 0, time.UTC) }

	p.warmOnce(context.Background())

	want := []struct {
		date string
		id   string
	}{
		{"2024-01-30", "papago"},
		{"2024-01-31", "moore-park"},
		{"2024-01-31", "papago"},
		{"2024-02-01", "moore-park"},
	}
	if len(searcher.dates) != len(want) {
		t.Fatalf("expected %d searches, got %v %v", len(want), searcher.dates, searcher.ids)
	}
	for i, w := range want {
		if searcher.dates[i] != w.date || len(searcher.ids[i]) != 1 || searcher.ids[i][0] != w.id {
			t.Fatalf("search %d: expected %s for %s, got %s for %v", i, w.date, w.id, searcher.dates[i], searcher.ids[i])
		}
	}
}

func TestWarmOncePrunesAtTwiceTTL(t *testing.T) {
	pruner := &stubPruner{removed: 3}
	p := New(&stubSearcher{}, twoCourses, pruner, nil, nil, Options{TTL: 10 * time.Minute})
	p.now = fixedNow

	p.warmOnce(context.Background())

	if len(pruner.cutoffs) != 1 {
		t.Fatalf("expected one prune call, got %d", len(pruner.cutoffs))
	}
	if want := fixedNow().Add(-20 * time.Minute); !pruner.cutoffs[0].Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, pruner.cutoffs[0])
	}
}

func TestWarmOncePruneErrorIsNotACycleFailure(t *testing.T) {
	pruner := &stubPruner{err: errors.New("db gone")}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(&stubSearcher{}, twoCourses, pruner, logger, nil, Options{})

	p.warmOnce(context.Background())

	if p.Status().ConsecutiveFailures != 0 {
		t.Fatalf("expected prune error to be logged only")
	}
}

func TestStatusTracksFailuresAndSuccess(t *testing.T) {
	searcher := &stubSearcher{failAll: true}
	p := New(searcher, twoCourses, nil, nil, nil, Options{})

	p.warmOnce(context.Background())
	status := p.Status()
	if status.ConsecutiveFailures != 1 {
		t.Fatalf("expected 1 failure, got %d", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Fatalf("expected last error recorded")
	}
	if !status.LastSuccess.IsZero() {
		t.Fatalf("expected no success recorded yet")
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	searcher.setFailAll(false)
	p.warmOnce(context.Background())
	status = p.Status()
	if status.ConsecutiveFailures != 0 {
		t.Fatalf("expected failures reset, got %d", status.ConsecutiveFailures)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestStatusNotReadyAfterRepeatedFailures(t *testing.T) {
	s := Status{LastSuccess: fixedNow(), ConsecutiveFailures: 3}
	if s.IsReady() {
		t.Fatalf("expected not ready after three failures")
	}
}

func TestWarmOnceWithoutCoursesSucceeds(t *testing.T) {
	searcher := &stubSearcher{}
	p := New(searcher, stubSource{}, nil, nil, nil, Options{})

	p.warmOnce(context.Background())

	if searcher.calls.Load() != 0 {
		t.Fatalf("expected no searches for an empty catalog")
	}
	if !p.Status().IsReady() {
		t.Fatalf("expected empty catalog to count as success")
	}
}

func TestWarmOnceStopsOnCancelledContext(t *testing.T) {
	searcher := &stubSearcher{}
	p := New(searcher, twoCourses, nil, nil, nil, Options{DaysAhead: 5})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p.warmOnce(ctx)

	if searcher.calls.Load() != 0 {
		t.Fatalf("expected no searches after cancel, got %d", searcher.calls.Load())
	}
	if p.Status().ConsecutiveFailures != 1 {
		t.Fatalf("expected cancelled cycle to count as failure")
	}
}

func TestPollerStartWarmsAndStops(t *testing.T) {
	searcher := &stubSearcher{notify: make(chan struct{})}
	p := New(searcher, twoCourses, nil, nil, nil, Options{Interval: 5 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)

	select {
	case <-searcher.notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial warm")
	}

	cancel()
	_ = p.Stop(context.Background())
	time.Sleep(15 * time.Millisecond)

	callsAfterStop := searcher.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if searcher.calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional warms after stop; before=%d after=%d", callsAfterStop, searcher.calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&stubSearcher{}, twoCourses, nil, nil, nil, Options{Interval: time.Hour})

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := New(&stubSearcher{}, twoCourses, nil, nil, nil, Options{Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerStartReturnsWhenAlreadyStarted(t *testing.T) {
	p := New(&stubSearcher{}, twoCourses, nil, nil, nil, Options{Interval: time.Hour})
	p.started = true
	p.Start(context.Background())
	if p.ticker != nil {
		t.Fatalf("expected ticker not to be created when already started")
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	p := New(nil, nil, nil, nil, nil, Options{DaysAhead: -1})
	if p.interval != defaultInterval || p.ttl != defaultTTL || p.daysAhead != 0 {
		t.Fatalf("unexpected defaults interval=%s ttl=%s days=%d", p.interval, p.ttl, p.daysAhead)
	}
	p.warmOnce(context.Background())
}
