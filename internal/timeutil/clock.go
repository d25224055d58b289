package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ClockLayout is the canonical 24-hour wall-clock form.
const ClockLayout = "15:04"

// clockPattern matches "7:05 pm", "7:05PM", "7:05 p.m.", "19:05", "07:05:00" and the
// time part of ISO timestamps. The meridiem needs a word boundary so "7:05 Available"
// is not read as AM.
var clockPattern = regexp.MustCompile(`(?i)(?:^|\D)(\d{1,2}):(\d{2})(?::\d{2}(?:\.\d+)?)?(?:\s*([ap])\.?m\b\.?)?`)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05Z0700",
}

// ClockMatch is one clock token found in free text.
type ClockMatch struct {
	Value string
	Start int
	End   int
}

// NormalizeClock returns the first clock token in raw as 24-hour "HH:MM".
func NormalizeClock(raw string) (string, bool) {
	matches := FindClocks(raw)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Value, true
}

// FindClocks returns every valid clock token in text with its byte offsets.
func FindClocks(text string) []ClockMatch {
	idx := clockPattern.FindAllStringSubmatchIndex(text, -1)
	out := make([]ClockMatch, 0, len(idx))
	for _, m := range idx {
		hour := text[m[2]:m[3]]
		minute := text[m[4]:m[5]]
		meridiem := ""
		if m[6] >= 0 {
			meridiem = text[m[6]:m[7]]
		}
		value, ok := toClock(hour, minute, meridiem)
		if !ok {
			continue
		}
		out = append(out, ClockMatch{Value: value, Start: m[2], End: m[1]})
	}
	return out
}

// ValidClock reports whether value is already canonical "HH:MM".
func ValidClock(value string) bool {
	if len(value) != 5 {
		return false
	}
	_, err := time.Parse(ClockLayout, value)
	return err == nil
}

// ClockFromTimestamp extracts "HH:MM" from an upstream time value. Full timestamps that
// carry an offset are converted into loc first; anything else falls back to the
// first clock token in the string.
func ClockFromTimestamp(raw string, loc *time.Location) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if loc != nil {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.In(loc).Format(ClockLayout), true
			}
		}
	}
	return NormalizeClock(raw)
}

func toClock(hourRaw, minuteRaw, meridiem string) (string, bool) {
	hour, err := strconv.Atoi(hourRaw)
	if err != nil {
		return "", false
	}
	minute, err := strconv.Atoi(minuteRaw)
	if err != nil || minute > 59 {
		return "", false
	}
	switch strings.ToLower(meridiem) {
	case "a":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	case "p":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return "", false
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
