package providers

import (
	"time"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/providers/extract"
	"github.com/preston-bernstein/teetime-service/internal/timeutil"
)

// SlotFields lists, per slot attribute, the ordered extraction strategies a JSON
// adapter tries against one upstream item.
type SlotFields struct {
	Time       []extract.Strategy[string]
	FreeSpots  []extract.Strategy[int]
	MaxPlayers []extract.Strategy[int]
	Booked     []extract.Strategy[int]
	// Open and Full are binary availability flags used only when no count is exposed.
	Open       []extract.Strategy[bool]
	Full       []extract.Strategy[bool]
	Price      []extract.Strategy[float64]
	Holes      []extract.Strategy[int]
	BookingURL []extract.Strategy[string]
}

// SlotFromItem builds a normalized slot from one upstream item. It reports false
// when no time candidate yields a clock. Capacity fields nobody exposes stay nil.
func SlotFromItem(item extract.Item, fields SlotFields, course courses.Course, date string, loc *time.Location) (slots.Slot, bool) {
	raw, _, ok := extract.First(item, fields.Time)
	if !ok {
		return slots.Slot{}, false
	}
	clock, ok := timeutil.ClockFromTimestamp(raw, loc)
	if !ok {
		return slots.Slot{}, false
	}

	s := slots.ForCourse(course, date, clock)
	if v, _, ok := extract.First(item, fields.MaxPlayers); ok {
		s.MaxPlayers = slots.Int(v)
	}
	if v, _, ok := extract.First(item, fields.Booked); ok {
		s.Booked = slots.Int(v)
	}
	if v, _, ok := extract.First(item, fields.FreeSpots); ok {
		s.FreeSpots = slots.Int(v)
	}
	if v, _, ok := extract.First(item, fields.Price); ok && v >= 0 {
		s.Price = slots.Float(v)
	}
	if v, _, ok := extract.First(item, fields.Holes); ok && v > 0 {
		s.Holes = slots.Int(v)
	}
	if v, _, ok := extract.First(item, fields.BookingURL); ok {
		s.BookingURL = v
	}

	s = s.Normalize()
	if s.FreeSpots != nil {
		return s, true
	}
	if full, _, ok := extract.First(item, fields.Full); ok {
		return s.WithAvailability(!full), true
	}
	if open, _, ok := extract.First(item, fields.Open); ok {
		return s.WithAvailability(open), true
	}
	// Listed with no capacity signal at all: the upstream offers it, the count stays unknown.
	s.Available = true
	return s, true
}

// SlotsFromItems maps every item and returns the slots plus how many items had no usable time.
func SlotsFromItems(items []extract.Item, fields SlotFields, course courses.Course, date string, loc *time.Location) ([]slots.Slot, int) {
	out := make([]slots.Slot, 0, len(items))
	skipped := 0
	for _, item := range items {
		s, ok := SlotFromItem(item, fields, course, date, loc)
		if !ok {
			skipped++
			continue
		}
		out = append(out, s)
	}
	return out, skipped
}
