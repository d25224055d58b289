package slots

import "sort"

// Fits reports whether a party can use the slot. Slots with unknown capacity always fit.
func Fits(s Slot, partySize int) bool {
	if partySize <= 0 {
		partySize = 1
	}
	capacity, ok := s.KnownCapacity()
	if !ok {
		return true
	}
	return capacity >= partySize
}

// FilterCapacity keeps the slots that fit the party.
func FilterCapacity(in []Slot, partySize int) []Slot {
	out := make([]Slot, 0, len(in))
	for _, s := range in {
		if Fits(s, partySize) {
			out = append(out, s)
		}
	}
	return out
}

// InWindow reports whether the slot's "HH:MM" falls within [earliest, latest]. Empty bounds are open.
func InWindow(s Slot, earliest, latest string) bool {
	if earliest != "" && s.Time < earliest {
		return false
	}
	if latest != "" && s.Time > latest {
		return false
	}
	return true
}

// MatchesHoles drops only slots whose known hole count differs from the requested one.
func MatchesHoles(s Slot, holes int) bool {
	if holes <= 0 || s.Holes == nil {
		return true
	}
	return *s.Holes == holes
}

// Apply runs the post-merge filters for a search: time window, hole count, then capacity.
func Apply(in []Slot, c SearchCriteria) []Slot {
	c = c.WithDefaults()
	narrowed := make([]Slot, 0, len(in))
	for _, s := range in {
		if !InWindow(s, c.Earliest, c.Latest) || !MatchesHoles(s, c.Holes) {
			continue
		}
		narrowed = append(narrowed, s)
	}
	return FilterCapacity(narrowed, c.PartySize)
}

// Sort orders slots by date, time and course name.
func Sort(in []Slot) {
	sort.SliceStable(in, func(i, j int) bool {
		if in[i].Date != in[j].Date {
			return in[i].Date < in[j].Date
		}
		if in[i].Time != in[j].Time {
			return in[i].Time < in[j].Time
		}
		return in[i].CourseName < in[j].CourseName
	})
}
