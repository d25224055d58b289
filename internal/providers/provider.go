package providers

import (
	"context"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

// SlotProvider fetches one course's availability from its booking platform and
// normalizes it into Slots. Implementations return an error for transport, shape
// and configuration failures; the aggregator turns those into an empty result.
type SlotProvider interface {
	FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error)
}

// ProviderFunc adapts a function to SlotProvider.
type ProviderFunc func(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error)

func (f ProviderFunc) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	return f(ctx, course, criteria)
}
