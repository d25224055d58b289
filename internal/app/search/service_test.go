package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/metrics"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/store"
)

var (
	fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	courseA  = courses.Course{ID: "a", Name: "Alpha", Provider: courses.ProviderMiClub}
	courseB  = courses.Course{ID: "b", Name: "Bravo", Provider: courses.ProviderQuick18}
	courseC  = courses.Course{ID: "c", Name: "Charlie", Provider: courses.ProviderTeeItUp}
	criteria = slots.SearchCriteria{Date: "2024-06-01"}
)

type countingProvider struct {
	mu    sync.Mutex
	calls map[string]int
	fn    func(ctx context.Context, course courses.Course) ([]slots.Slot, error)
}

func newCountingProvider(fn func(ctx context.Context, course courses.Course) ([]slots.Slot, error)) *countingProvider {
	return &countingProvider{calls: map[string]int{}, fn: fn}
}

func (p *countingProvider) FetchSlots(ctx context.Context, course courses.Course, c slots.SearchCriteria) ([]slots.Slot, error) {
	_ = c
	p.mu.Lock()
	p.calls[course.ID]++
	p.mu.Unlock()
	return p.fn(ctx, course)
}

func (p *countingProvider) count(id string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[id]
}

type corruptCache struct {
	*store.MemoryStore
}

func (c corruptCache) Lookup(ctx context.Context, key store.Key) (store.Entry, bool, error) {
	_ = ctx
	_ = key
	return store.Entry{}, false, store.ErrCorruptEntry
}

func slotAt(course courses.Course, clock string) slots.Slot {
	return slots.ForCourse(course, criteria.Date, clock)
}

func newService(p providers.SlotProvider, cache store.SlotCache, cfg Config) *Service {
	svc := NewService(p, cache, cfg, nil, metrics.NewRecorder())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestSearchIsolatesFailuresAndCachesEmptyResults(t *testing.T) {
	cache := store.NewMemoryStore()
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		switch course.ID {
		case "a":
			return []slots.Slot{slotAt(course, "08:00"), slotAt(course, "07:00")}, nil
		case "b":
			return nil, errors.New("upstream exploded")
		default:
			return []slots.Slot{}, nil
		}
	})
	svc := newService(p, cache, Config{})

	resp := svc.Search(context.Background(), []courses.Course{courseA, courseB, courseC}, criteria)
	if len(resp.Slots) != 2 {
		t.Fatalf("expected exactly A's 2 slots, got %+v", resp.Slots)
	}
	for _, s := range resp.Slots {
		if s.CourseID != "a" {
			t.Fatalf("unexpected slot from %s", s.CourseID)
		}
	}
	if resp.Slots[0].Time != "07:00" {
		t.Fatalf("expected sorted output, got %s first", resp.Slots[0].Time)
	}
	if resp.Stats.Courses != 3 || resp.Stats.Live != 2 || resp.Stats.Failed != 1 || resp.Stats.FromCache != 0 {
		t.Fatalf("unexpected stats %+v", resp.Stats)
	}

	for _, course := range []courses.Course{courseB, courseC} {
		entry, ok, err := cache.Lookup(context.Background(), store.KeyFor(course.ID, criteria))
		if err != nil || !ok {
			t.Fatalf("expected cached entry for %s", course.ID)
		}
		if entry.Slots == nil || len(entry.Slots) != 0 {
			t.Fatalf("expected empty cached list for %s, got %+v", course.ID, entry.Slots)
		}
	}
}

func TestSearchDoesNotCacheLocallyThrottledCourses(t *testing.T) {
	cache := store.NewMemoryStore()
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		if course.ID == "b" {
			return nil, fmt.Errorf("%w: quick18: rate: Wait(n=1) would exceed context deadline", providers.ErrThrottled)
		}
		return []slots.Slot{slotAt(course, "08:00")}, nil
	})
	svc := newService(p, cache, Config{})

	resp := svc.Search(context.Background(), []courses.Course{courseA, courseB}, criteria)
	if resp.Stats.Live != 1 || resp.Stats.Failed != 1 {
		t.Fatalf("expected throttled course reported as failed, got %+v", resp.Stats)
	}
	if _, ok, _ := cache.Lookup(context.Background(), store.KeyFor(courseB.ID, criteria)); ok {
		t.Fatalf("expected no cache entry for throttled course")
	}
	if _, ok, _ := cache.Lookup(context.Background(), store.KeyFor(courseA.ID, criteria)); !ok {
		t.Fatalf("expected cache entry for live course")
	}

	svc.Search(context.Background(), []courses.Course{courseB}, criteria)
	if p.count("b") != 2 {
		t.Fatalf("expected throttled course to be fetched again, got %d calls", p.count("b"))
	}
}

func TestSearchUsesFreshCacheEntries(t *testing.T) {
	cache := store.NewMemoryStore()
	_ = cache.Store(context.Background(), store.Entry{
		Key:      store.KeyFor("a", criteria),
		Slots:    []slots.Slot{slotAt(courseA, "09:00")},
		StoredAt: fixedNow.Add(-9 * time.Minute),
	})
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		return []slots.Slot{slotAt(course, "10:00")}, nil
	})
	svc := newService(p, cache, Config{TTL: 10 * time.Minute})

	resp := svc.Search(context.Background(), []courses.Course{courseA}, criteria)
	if p.count("a") != 0 {
		t.Fatalf("expected no live fetch on a fresh hit")
	}
	if len(resp.Slots) != 1 || resp.Slots[0].Time != "09:00" || resp.Stats.FromCache != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if got := svc.metrics.CacheLookups(metrics.CacheHit); got != 1 {
		t.Fatalf("expected one cache hit recorded, got %d", got)
	}
}

func TestSearchTreatsStaleEntriesAsMisses(t *testing.T) {
	cache := store.NewMemoryStore()
	_ = cache.Store(context.Background(), store.Entry{
		Key:      store.KeyFor("a", criteria),
		Slots:    []slots.Slot{slotAt(courseA, "09:00")},
		StoredAt: fixedNow.Add(-11 * time.Minute),
	})
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		return []slots.Slot{slotAt(course, "10:00")}, nil
	})
	svc := newService(p, cache, Config{TTL: 10 * time.Minute})

	resp := svc.Search(context.Background(), []courses.Course{courseA}, criteria)
	if p.count("a") != 1 || len(resp.Slots) != 1 || resp.Slots[0].Time != "10:00" {
		t.Fatalf("expected a live refetch, got %+v", resp)
	}
	entry, _, _ := cache.Lookup(context.Background(), store.KeyFor("a", criteria))
	if !entry.StoredAt.Equal(fixedNow) {
		t.Fatalf("expected the entry to be overwritten, stored at %s", entry.StoredAt)
	}
	if got := svc.metrics.CacheLookups(metrics.CacheStale); got != 1 {
		t.Fatalf("expected one stale lookup recorded, got %d", got)
	}
}

func TestSearchTreatsCorruptEntriesAsMisses(t *testing.T) {
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		return []slots.Slot{slotAt(course, "10:00")}, nil
	})
	svc := newService(p, corruptCache{store.NewMemoryStore()}, Config{})

	resp := svc.Search(context.Background(), []courses.Course{courseA}, criteria)
	if p.count("a") != 1 || len(resp.Slots) != 1 || resp.Stats.Live != 1 {
		t.Fatalf("expected a live fetch after a corrupt entry, got %+v", resp)
	}
}

func TestSearchAppliesFiltersAfterMerge(t *testing.T) {
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		small := slotAt(course, "08:00")
		small.MaxPlayers = slots.Int(2)
		unknown := slotAt(course, "09:00")
		early := slotAt(course, "05:00")
		nine := slotAt(course, "10:00")
		nine.Holes = slots.Int(9)
		return []slots.Slot{small, unknown, early, nine}, nil
	})
	svc := newService(p, nil, Config{})

	resp := svc.Search(context.Background(), []courses.Course{courseA}, slots.SearchCriteria{
		Date: "2024-06-01", PartySize: 3, Earliest: "06:00", Holes: 18,
	})
	if len(resp.Slots) != 1 || resp.Slots[0].Time != "09:00" {
		t.Fatalf("expected only the unknown-capacity slot, got %+v", resp.Slots)
	}
}

func TestSearchBoundsSlowCourses(t *testing.T) {
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		if course.ID == "b" {
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return []slots.Slot{slotAt(course, "07:00")}, nil
	})
	svc := newService(p, nil, Config{Timeout: 50 * time.Millisecond})

	done := make(chan slots.Response, 1)
	go func() {
		done <- svc.Search(context.Background(), []courses.Course{courseA, courseB, courseC}, criteria)
	}()
	select {
	case resp := <-done:
		if len(resp.Slots) != 2 || resp.Stats.Failed != 1 {
			t.Fatalf("unexpected response %+v", resp)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("search did not complete despite the per-course timeout")
	}
}

func TestSearchDoesNotPropagateCallerCancellation(t *testing.T) {
	var sawCanceled atomic.Bool
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		if ctx.Err() != nil {
			sawCanceled.Store(true)
		}
		return []slots.Slot{slotAt(course, "07:00")}, nil
	})
	svc := newService(p, nil, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp := svc.Search(ctx, []courses.Course{courseA}, criteria)
	if sawCanceled.Load() || len(resp.Slots) != 1 {
		t.Fatalf("expected fetch to run on a detached context, got %+v", resp)
	}
}

func TestSearchRecoversProviderPanics(t *testing.T) {
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		if course.ID == "a" {
			panic("boom")
		}
		return []slots.Slot{slotAt(course, "07:00")}, nil
	})
	svc := newService(p, nil, Config{})

	resp := svc.Search(context.Background(), []courses.Course{courseA, courseB}, criteria)
	if len(resp.Slots) != 1 || resp.Stats.Failed != 1 {
		t.Fatalf("expected panic isolated to one course, got %+v", resp)
	}
}

func TestSearchRespectsConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	p := newCountingProvider(func(ctx context.Context, course courses.Course) ([]slots.Slot, error) {
		n := inFlight.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return nil, nil
	})
	svc := newService(p, nil, Config{Concurrency: 2})

	list := make([]courses.Course, 8)
	for i := range list {
		list[i] = courses.Course{ID: string(rune('a' + i)), Provider: courses.ProviderMiClub}
	}
	resp := svc.Search(context.Background(), list, criteria)
	if peak.Load() > 2 {
		t.Fatalf("expected at most 2 concurrent fetches, saw %d", peak.Load())
	}
	if resp.Slots == nil || len(resp.Slots) != 0 || resp.Stats.Live != 8 {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestSearchWithoutProvider(t *testing.T) {
	svc := newService(nil, nil, Config{})
	resp := svc.Search(context.Background(), []courses.Course{courseA}, criteria)
	if resp.Stats.Failed != 1 || len(resp.Slots) != 0 {
		t.Fatalf("expected failed course, got %+v", resp)
	}
}
