package timeutil

import (
	"time"
	_ "time/tzdata"
)

// DateLayout defines the canonical date format (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// CompactDateLayout is the YYYYMMDD form some booking engines take in URLs.
const CompactDateLayout = "20060102"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// FormatDate formats a time as YYYY-MM-DD in its current location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// CompactDate converts YYYY-MM-DD into YYYYMMDD.
func CompactDate(value string) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return t.Format(CompactDateLayout), nil
}

// AddDays shifts a YYYY-MM-DD date by n calendar days.
func AddDays(value string, n int) (string, error) {
	t, err := ParseDate(value)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, n)), nil
}

// TodayIn returns the calendar date of now in the named zone. An empty or unknown
// zone keeps now's own location.
func TodayIn(tz string, now time.Time) string {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			now = now.In(loc)
		}
	}
	return FormatDate(now)
}
