package testutil

import (
	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

// SampleCourse returns a minimal course on the given provider.
func SampleCourse(id string, provider courses.Provider) courses.Course {
	return courses.Course{
		ID:         id,
		Name:       "Course " + id,
		Provider:   provider,
		Timezone:   "America/Phoenix",
		BookingURL: "https://example.test/" + id,
		Holes:      18,
	}
}

// SampleSlot returns an open slot with four free spots at clock on date.
func SampleSlot(course courses.Course, date, clock string) slots.Slot {
	s := slots.ForCourse(course, date, clock)
	s.MaxPlayers = slots.Int(slots.StandardGroupSize)
	s.Booked = slots.Int(0)
	s.Holes = slots.Int(18)
	return s.Normalize()
}

// SampleSearchResponse builds a search response holding one sample slot.
func SampleSearchResponse(date, courseID string) slots.Response {
	course := SampleCourse(courseID, courses.ProviderTeeItUp)
	return slots.Response{
		Date:  date,
		Slots: []slots.Slot{SampleSlot(course, date, "07:00")},
		Stats: slots.Stats{Courses: 1, Live: 1, Slots: 1},
	}
}
