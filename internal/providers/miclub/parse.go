package miclub

import (
	"bytes"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/timeutil"
)

var (
	markerPattern = regexp.MustCompile(`(?i)\b(available|taken|booked|full)\b`)
	holesPattern  = regexp.MustCompile(`(?i)\b(9|18)\s*holes?\b`)
)

var parsers = []providers.PageParser{
	providers.NamedParser{Label: "rows", Fn: parseRows},
	providers.NamedParser{Label: "segments", Fn: parseSegments},
	providers.NamedParser{Label: "links", Fn: parseLinks},
}

// rowCounts tallies the marker words of one tee row.
type rowCounts struct {
	available int
	taken     int
	full      bool
}

func countMarkers(text string) (rowCounts, bool) {
	var c rowCounts
	matches := markerPattern.FindAllString(text, -1)
	for _, m := range matches {
		switch strings.ToLower(m) {
		case "available":
			c.available++
		case "taken", "booked":
			c.taken++
		case "full":
			c.full = true
		}
	}
	return c, len(matches) > 0
}

// slotFromRowText builds a slot from one row's own text. Rows without a time or
// without any marker word are not tee rows.
func slotFromRowText(page providers.Page, text string) (slots.Slot, bool) {
	clock, ok := timeutil.NormalizeClock(text)
	if !ok {
		return slots.Slot{}, false
	}
	counts, ok := countMarkers(text)
	if !ok {
		return slots.Slot{}, false
	}
	s := baseSlot(page, clock, text)
	switch {
	case counts.full && counts.available == 0:
		s.FreeSpots = slots.Int(0)
		if counts.taken > 0 {
			s.MaxPlayers = slots.Int(counts.taken)
			s.Booked = slots.Int(counts.taken)
		}
	default:
		s.MaxPlayers = slots.Int(counts.available + counts.taken)
		s.Booked = slots.Int(counts.taken)
		s.FreeSpots = slots.Int(counts.available)
	}
	return s.Normalize(), true
}

func baseSlot(page providers.Page, clock, text string) slots.Slot {
	s := slots.ForCourse(page.Course, page.Criteria.Date, clock)
	s.BookingURL = page.BookingURL
	s.Price, s.PriceText = providers.PriceIn(text)
	if m := holesPattern.FindStringSubmatch(text); m != nil {
		h, _ := strconv.Atoi(m[1])
		s.Holes = slots.Int(h)
	} else if page.Course.Holes > 0 {
		s.Holes = slots.Int(page.Course.Holes)
	}
	return s
}

// parseRows walks structured tee rows and counts markers inside each row only, so
// legend or header text elsewhere on the page never inflates a count.
func parseRows(page providers.Page) ([]slots.Slot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, err
	}
	rows := doc.Find("." + rowDelimiter)
	if rows.Length() == 0 {
		rows = doc.Find("tr")
	}
	var out []slots.Slot
	rows.Each(func(_ int, row *goquery.Selection) {
		if s, ok := slotFromRowText(page, providers.SelectionText(row)); ok {
			out = append(out, s)
		}
	})
	return out, nil
}

// parseSegments splits the raw markup on the row delimiter and reads each segment as text.
func parseSegments(page providers.Page) ([]slots.Slot, error) {
	parts := strings.Split(string(page.Body), rowDelimiter)
	if len(parts) < 2 {
		return nil, nil
	}
	var out []slots.Slot
	for _, part := range parts[1:] {
		if s, ok := slotFromRowText(page, providers.PlainText("<"+part)); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// parseLinks is the last resort: any row holding both a time and a booking link is a
// tee row of standard size whose availability cannot be confirmed.
func parseLinks(page providers.Page) ([]slots.Slot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(page.BookingURL)
	var out []slots.Slot
	doc.Find("tr, li").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}
		text := providers.SelectionText(row)
		clock, ok := timeutil.NormalizeClock(text)
		if !ok {
			return
		}
		s := baseSlot(page, clock, text)
		s.MaxPlayers = slots.Int(slots.StandardGroupSize)
		s.Available = false
		if href, ok := link.Attr("href"); ok {
			s.BookingURL = resolveLink(base, href, page.BookingURL)
		}
		out = append(out, s)
	})
	return out, nil
}

func resolveLink(base *url.URL, href, fallback string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return fallback
	}
	ref, err := url.Parse(href)
	if err != nil {
		return fallback
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}
