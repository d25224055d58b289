package providers

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

const (
	defaultRatePerSecond = 4
	defaultBurst         = 4
)

// rateLimitedProvider shares one token bucket across every course of a provider.
type rateLimitedProvider struct {
	next    SlotProvider
	name    string
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedProvider returns a SlotProvider that waits for a token before each upstream call.
func NewRateLimitedProvider(next SlotProvider, name string, perSecond float64, burst int, logger *slog.Logger) SlotProvider {
	if perSecond <= 0 {
		perSecond = defaultRatePerSecond
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return &rateLimitedProvider{
		next:    next,
		name:    name,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
	}
}

func (p *rateLimitedProvider) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	if p == nil || p.next == nil {
		return nil, ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.name, "rate-limited fetch canceled", "course", course.ID, "error", err)
		if ctx.Err() != nil {
			return nil, err
		}
		// The next token lands after the deadline.
		return nil, fmt.Errorf("%w: %s: %v", ErrThrottled, p.name, err)
	}
	return p.next.FetchSlots(ctx, course, criteria)
}
