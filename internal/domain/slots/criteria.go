package slots

// SearchCriteria describes one availability search. Holes == 0 means unspecified.
type SearchCriteria struct {
	Date      string `json:"date"`
	Earliest  string `json:"earliest,omitempty"`
	Latest    string `json:"latest,omitempty"`
	Holes     int    `json:"holes,omitempty"`
	PartySize int    `json:"partySize"`
}

// WithDefaults fills optional fields.
func (c SearchCriteria) WithDefaults() SearchCriteria {
	if c.PartySize <= 0 {
		c.PartySize = 1
	}
	if c.Holes < 0 {
		c.Holes = 0
	}
	return c
}

// HolesSpecified reports whether the search is restricted to a hole count.
func (c SearchCriteria) HolesSpecified() bool {
	return c.Holes > 0
}

// Response is the payload returned for a search.
type Response struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
	Stats Stats  `json:"stats"`
}

// Stats summarizes how a search was resolved.
type Stats struct {
	Courses    int   `json:"courses"`
	FromCache  int   `json:"fromCache"`
	Live       int   `json:"live"`
	Failed     int   `json:"failed"`
	Slots      int   `json:"slots"`
	DurationMS int64 `json:"durationMs"`
}
