package providers

import (
	"context"
	"fmt"
	"sort"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

// Registry dispatches a course to the adapter registered for its provider tag.
type Registry struct {
	adapters map[courses.Provider]SlotProvider
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[courses.Provider]SlotProvider)}
}

// Register binds an adapter to a provider tag, replacing any previous one.
func (r *Registry) Register(tag courses.Provider, p SlotProvider) {
	r.adapters[tag] = p
}

// Lookup returns the adapter for a provider tag.
func (r *Registry) Lookup(tag courses.Provider) (SlotProvider, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.adapters[tag]
	return p, ok && p != nil
}

// Tags lists the registered provider tags in sorted order.
func (r *Registry) Tags() []courses.Provider {
	out := make([]courses.Provider, 0, len(r.adapters))
	for tag := range r.adapters {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FetchSlots routes the course to its adapter.
func (r *Registry) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	p, ok := r.Lookup(course.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, course.Provider)
	}
	return p.FetchSlots(ctx, course, criteria)
}
