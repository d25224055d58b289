package chronogolf

import (
	"net/url"
	"strings"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
)

// identifiers are the upstream ids one club/course query needs.
type identifiers struct {
	ClubID         string
	CourseID       string
	AffiliationIDs []string
}

// resolveIdentifiers reads the club id from the URL path and the course and
// affiliation ids from the fragment's own query string. Explicit provider ids
// win, and the fee group fills whatever the URL lacks.
func resolveIdentifiers(course courses.Course, groups courses.FeeGroups) identifiers {
	var ids identifiers
	if u, err := url.Parse(course.BookingURL); err == nil {
		ids.ClubID = clubFromPath(u.Path)
		frag := fragmentQuery(u.Fragment)
		ids.CourseID = strings.TrimSpace(frag.Get("course_id"))
		ids.AffiliationIDs = affiliationIDs(frag)
	}

	if v := course.ProviderID("clubId"); v != "" {
		ids.ClubID = v
	}
	if v := course.ProviderID("courseId"); v != "" {
		ids.CourseID = v
	}

	if g, ok := groups.Lookup(course.Name); ok {
		if ids.ClubID == "" {
			ids.ClubID = strings.TrimSpace(g.ClubID)
		}
		if ids.CourseID == "" {
			ids.CourseID = strings.TrimSpace(g.CourseID)
		}
		if len(ids.AffiliationIDs) == 0 {
			ids.AffiliationIDs = cleanIDs(g.AffiliationIDs)
		}
	}
	return ids
}

func clubFromPath(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if (seg == "club" || seg == "clubs") && i+1 < len(segments) {
			return strings.TrimSpace(segments[i+1])
		}
	}
	return ""
}

// fragmentQuery parses "#/teetimes?course_id=1&date=..." as a query string.
func fragmentQuery(fragment string) url.Values {
	_, query, found := strings.Cut(fragment, "?")
	if !found {
		return url.Values{}
	}
	values, err := url.ParseQuery(query)
	if err != nil {
		return url.Values{}
	}
	return values
}

func affiliationIDs(values url.Values) []string {
	var raw []string
	raw = append(raw, values["affiliation_type_ids"]...)
	raw = append(raw, values["affiliation_type_ids[]"]...)
	var out []string
	for _, r := range raw {
		out = append(out, strings.Split(r, ",")...)
	}
	return cleanIDs(out)
}

func cleanIDs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
