package fixture

import (
	"context"
	"hash/fnv"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/timeutil"
)

var fixtureTimes = []string{"06:30", "07:10", "08:00", "09:20", "11:00", "13:40", "15:10", "16:50"}

// Provider returns deterministic slots for any course, useful for local testing and bootstrapping.
type Provider struct{}

// New creates a fixture provider.
func New() *Provider {
	return &Provider{}
}

// FetchSlots returns the same slots for the same course and date.
func (p *Provider) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	_ = ctx
	if _, err := timeutil.ParseDate(criteria.Date); err != nil {
		return nil, err
	}

	seed := seedFor(course.ID, criteria.Date)
	holes := course.Holes
	if holes <= 0 {
		holes = 18
	}

	out := make([]slots.Slot, 0, len(fixtureTimes))
	for i, clock := range fixtureTimes {
		s := slots.ForCourse(course, criteria.Date, clock)
		s.Holes = slots.Int(holes)
		s.Price = slots.Float(float64(30 + int(seed%40) + i*5))
		// Every fourth slot exposes no capacity at all.
		if (int(seed)+i)%4 == 3 {
			s.Available = true
			out = append(out, s)
			continue
		}
		s.MaxPlayers = slots.Int(slots.StandardGroupSize)
		s.Booked = slots.Int(int(seed>>uint(i)) % (slots.StandardGroupSize + 1))
		out = append(out, s.Normalize())
	}
	return out, nil
}

func seedFor(courseID, date string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(courseID + "|" + date))
	return h.Sum32()
}
