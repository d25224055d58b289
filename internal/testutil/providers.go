package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/providers"
)

// StaticProvider returns the same slots for every course and counts calls.
type StaticProvider struct {
	Slots []slots.Slot
	calls atomic.Int32
}

func (p *StaticProvider) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	_ = ctx
	_ = course
	_ = criteria
	p.calls.Add(1)
	out := make([]slots.Slot, len(p.Slots))
	copy(out, p.Slots)
	return out, nil
}

// Calls reports how many fetches were made.
func (p *StaticProvider) Calls() int {
	return int(p.calls.Load())
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	return nil, p.Err
}

// EmptyProvider returns no slots, no error.
type EmptyProvider struct{}

func (EmptyProvider) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	return []slots.Slot{}, nil
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	return nil, providers.ErrProviderUnavailable
}

// NotifyingProvider returns one sample slot per course and closes Notify on first fetch.
type NotifyingProvider struct {
	Notify chan struct{}
	once   atomic.Bool
}

func (p *NotifyingProvider) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	_ = ctx
	if p.Notify != nil && p.once.CompareAndSwap(false, true) {
		close(p.Notify)
	}
	return []slots.Slot{SampleSlot(course, criteria.Date, "08:00")}, nil
}
