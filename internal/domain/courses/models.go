package courses

import "strings"

// Provider tags the booking platform a course publishes availability through.
type Provider string

const (
	ProviderMiClub     Provider = "miclub"
	ProviderQuick18    Provider = "quick18"
	ProviderTeeItUp    Provider = "teeitup"
	ProviderChronogolf Provider = "chronogolf"
)

// Providers lists every supported provider tag.
func Providers() []Provider {
	return []Provider{ProviderMiClub, ProviderQuick18, ProviderTeeItUp, ProviderChronogolf}
}

// ParseProvider maps a raw tag onto the closed enumeration.
func ParseProvider(raw string) (Provider, bool) {
	p := Provider(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Providers() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Coordinates locates a course.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Course is reference data read by the search core. It is never mutated during a search.
type Course struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Provider   Provider    `json:"provider"`
	Location   Coordinates `json:"location"`
	City       string      `json:"city,omitempty"`
	State      string      `json:"state,omitempty"`
	Timezone   string      `json:"timezone,omitempty"`
	BookingURL string      `json:"bookingUrl"`
	// ProviderIDs holds upstream identifiers such as a TeeItUp facility id.
	ProviderIDs map[string]string `json:"providerIds,omitempty"`
	Holes       int               `json:"holes,omitempty"`
}

// ProviderID returns the upstream identifier stored under key.
func (c Course) ProviderID(key string) string {
	if c.ProviderIDs == nil {
		return ""
	}
	return strings.TrimSpace(c.ProviderIDs[key])
}

// FeeGroup carries upstream resource identifiers that are not part of a course's URL.
type FeeGroup struct {
	FeeGroupID     string   `json:"feeGroupId,omitempty"`
	FacilityID     string   `json:"facilityId,omitempty"`
	ClubID         string   `json:"clubId,omitempty"`
	CourseID       string   `json:"courseId,omitempty"`
	AffiliationIDs []string `json:"affiliationIds,omitempty"`
}

// FeeGroups maps a course display name to its fee group. Lookups are case-insensitive.
type FeeGroups map[string]FeeGroup

// Lookup returns the fee group for the named course.
func (f FeeGroups) Lookup(courseName string) (FeeGroup, bool) {
	if len(f) == 0 {
		return FeeGroup{}, false
	}
	if g, ok := f[courseName]; ok {
		return g, true
	}
	want := strings.ToLower(strings.TrimSpace(courseName))
	for name, g := range f {
		if strings.ToLower(strings.TrimSpace(name)) == want {
			return g, true
		}
	}
	return FeeGroup{}, false
}
