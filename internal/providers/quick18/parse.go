package quick18

import (
	"bytes"
	"regexp"
	"strconv"

	"github.com/PuerkitoBio/goquery"

	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/timeutil"
)

var (
	playerRangePattern  = regexp.MustCompile(`(?i)(\d+)\s+(?:to|or|-)\s+(\d+)\s+players?`)
	playerSinglePattern = regexp.MustCompile(`(?i)(\d+)\s+players?`)
)

var parsers = []providers.PageParser{
	providers.NamedParser{Label: "matrix", Fn: parseMatrix},
	providers.NamedParser{Label: "text", Fn: parseText},
}

// playerRange reads "N to M players" as (N, M) and "N player(s)" as (1, N).
func playerRange(text string) (minPlayers, maxPlayers int, ok bool) {
	if m := playerRangePattern.FindStringSubmatch(text); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil && lo > 0 && hi >= lo {
			return lo, hi, true
		}
	}
	if m := playerSinglePattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			return 1, n, true
		}
	}
	return 0, 0, false
}

// buildSlot keeps a slot only when the party fits the tee time's player range.
func buildSlot(page providers.Page, clock, window string) (slots.Slot, bool) {
	lo, hi, ok := playerRange(window)
	if !ok {
		return slots.Slot{}, false
	}
	party := page.Criteria.WithDefaults().PartySize
	if party > hi {
		return slots.Slot{}, false
	}
	s := slots.ForCourse(page.Course, page.Criteria.Date, clock)
	s.MinPlayers = slots.Int(lo)
	s.MaxPlayers = slots.Int(hi)
	s.Price, s.PriceText = providers.PriceIn(window)
	s.BookingURL = page.BookingURL
	if page.Course.Holes > 0 {
		s.Holes = slots.Int(page.Course.Holes)
	}
	// Listed rows are bookable; only the group maximum is known.
	s.Available = true
	return s, true
}

// parseMatrix reads the search matrix table row by row.
func parseMatrix(page providers.Page) ([]slots.Slot, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		return nil, err
	}
	var out []slots.Slot
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find(".mtrxTeeTimes")
		if cell.Length() == 0 {
			return
		}
		clock, ok := timeutil.NormalizeClock(providers.SelectionText(cell.First()))
		if !ok {
			return
		}
		window := providers.SelectionText(row.Find(".matrixPlayers").AddSelection(row.Find(".mtrxPrice").First()))
		if s, ok := buildSlot(page, clock, window); ok {
			out = append(out, s)
		}
	})
	return out, nil
}

// parseText scans the page as one text blob: every time token followed, before the
// next time token and within the lookahead, by a player phrase is a tee time.
func parseText(page providers.Page) ([]slots.Slot, error) {
	text := providers.PlainText(string(page.Body))
	clocks := timeutil.FindClocks(text)
	out := make([]slots.Slot, 0, len(clocks))
	for i, c := range clocks {
		end := c.End + lookahead
		if i+1 < len(clocks) && clocks[i+1].Start < end {
			end = clocks[i+1].Start
		}
		if end > len(text) {
			end = len(text)
		}
		if s, ok := buildSlot(page, c.Value, text[c.End:end]); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

