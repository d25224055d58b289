package slots

import "github.com/preston-bernstein/teetime-service/internal/domain/courses"

// StandardGroupSize is the usual number of players in one tee time.
const StandardGroupSize = 4

// Slot is one normalized tee-time candidate.
// Nil capacity fields mean the upstream did not expose them; they are never guessed.
type Slot struct {
	CourseID   string           `json:"courseId"`
	CourseName string           `json:"courseName"`
	Provider   courses.Provider `json:"provider"`
	Date       string           `json:"date"`
	Time       string           `json:"time"`
	Holes      *int             `json:"holes"`
	MaxPlayers *int             `json:"maxPlayers"`
	MinPlayers *int             `json:"minPlayers,omitempty"`
	Booked     *int             `json:"booked"`
	FreeSpots  *int             `json:"freeSpots"`
	Available  bool             `json:"available"`
	Price      *float64         `json:"price"`
	PriceText  string           `json:"priceText,omitempty"`
	BookingURL string           `json:"bookingUrl"`
}

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// ForCourse returns a slot pre-filled with the course's denormalized fields.
func ForCourse(c courses.Course, date, clock string) Slot {
	return Slot{
		CourseID:   c.ID,
		CourseName: c.Name,
		Provider:   c.Provider,
		Date:       date,
		Time:       clock,
		BookingURL: c.BookingURL,
	}
}

// Normalize derives free spots and availability from the capacity fields that are set.
// Free spots are clamped to [0, maxPlayers]; availability follows free spots whenever they are known.
func (s Slot) Normalize() Slot {
	if s.MaxPlayers != nil && *s.MaxPlayers < 0 {
		s.MaxPlayers = Int(0)
	}
	if s.Booked != nil && *s.Booked < 0 {
		s.Booked = Int(0)
	}
	if s.FreeSpots == nil && s.MaxPlayers != nil && s.Booked != nil {
		s.FreeSpots = Int(*s.MaxPlayers - *s.Booked)
	}
	if s.FreeSpots != nil {
		free := *s.FreeSpots
		if free < 0 {
			free = 0
		}
		if s.MaxPlayers != nil && free > *s.MaxPlayers {
			free = *s.MaxPlayers
		}
		s.FreeSpots = Int(free)
		s.Available = free > 0
	}
	return s
}

// WithAvailability records a provider's binary flag when exact capacity is unknown.
// A closed flag is the one case where a count is certain: nothing is free.
func (s Slot) WithAvailability(open bool) Slot {
	s.Available = open
	if !open {
		s.FreeSpots = Int(0)
	}
	return s
}

// CapacityKnown reports whether any capacity figure is present.
func (s Slot) CapacityKnown() bool {
	_, ok := s.KnownCapacity()
	return ok
}

// KnownCapacity returns the most precise capacity signal: free spots first, then the group maximum.
func (s Slot) KnownCapacity() (int, bool) {
	if s.FreeSpots != nil {
		return *s.FreeSpots, true
	}
	if s.MaxPlayers != nil {
		return *s.MaxPlayers, true
	}
	return 0, false
}
