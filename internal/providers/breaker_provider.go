package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/metrics"
)

const (
	defaultBreakerFailures = 3
	defaultBreakerCooldown = 2 * time.Minute
)

// breakerProvider keeps one circuit breaker per course so a broken booking page
// stops being hit without affecting other courses on the same platform.
type breakerProvider struct {
	next     SlotProvider
	name     string
	failures uint32
	cooldown time.Duration
	logger   *slog.Logger
	metrics  *metrics.Recorder

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[[]slots.Slot]
}

// NewBreakerProvider wraps next with per-course circuit breakers.
func NewBreakerProvider(next SlotProvider, name string, failures int, cooldown time.Duration, logger *slog.Logger, recorder *metrics.Recorder) SlotProvider {
	if failures <= 0 {
		failures = defaultBreakerFailures
	}
	if cooldown <= 0 {
		cooldown = defaultBreakerCooldown
	}
	return &breakerProvider{
		next:     next,
		name:     name,
		failures: uint32(failures),
		cooldown: cooldown,
		logger:   logger,
		metrics:  recorder,
		breakers: make(map[string]*gobreaker.CircuitBreaker[[]slots.Slot]),
	}
}

func (p *breakerProvider) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	if p.next == nil {
		return nil, ErrProviderUnavailable
	}
	cb := p.breakerFor(course.ID)
	result, err := cb.Execute(func() ([]slots.Slot, error) {
		return p.next.FetchSlots(ctx, course, criteria)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, course.ID)
	}
	return result, err
}

// State reports the breaker state for a course ("closed" when never used).
func (p *breakerProvider) State(courseID string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cb, ok := p.breakers[courseID]; ok {
		return cb.State().String()
	}
	return gobreaker.StateClosed.String()
}

func (p *breakerProvider) breakerFor(courseID string) *gobreaker.CircuitBreaker[[]slots.Slot] {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cb, ok := p.breakers[courseID]; ok {
		return cb
	}
	cb := gobreaker.NewCircuitBreaker[[]slots.Slot](gobreaker.Settings{
		Name:        p.name + ":" + courseID,
		MaxRequests: 1,
		Timeout:     p.cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= p.failures
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logWithProvider(context.Background(), p.logger, slog.LevelWarn, p.name, "circuit breaker state change",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
			p.metrics.RecordBreakerState(p.name, courseID, to.String())
		},
	})
	p.breakers[courseID] = cb
	return cb
}

// countsAsSuccess keeps configuration problems and caller cancellation from tripping a breaker;
// only upstream failures should.
func countsAsSuccess(err error) bool {
	if err == nil {
		return true
	}
	return errors.Is(err, ErrMissingIdentifier) ||
		errors.Is(err, ErrUnsupportedProvider) ||
		errors.Is(err, ErrThrottled) ||
		errors.Is(err, context.Canceled)
}
