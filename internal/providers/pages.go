package providers

import (
	"errors"
	"fmt"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
)

// Page is one fetched upstream document plus what the parsers need to build slots from it.
type Page struct {
	Body       []byte
	Course     courses.Course
	Criteria   slots.SearchCriteria
	BookingURL string
}

// PageParser is one ranked way of reading a scraped page.
type PageParser interface {
	Name() string
	Parse(page Page) ([]slots.Slot, error)
}

// NamedParser adapts a function to PageParser.
type NamedParser struct {
	Label string
	Fn    func(page Page) ([]slots.Slot, error)
}

func (p NamedParser) Name() string { return p.Label }

func (p NamedParser) Parse(page Page) ([]slots.Slot, error) { return p.Fn(page) }

// ParseRanked tries parsers in order and returns the first non-empty result with
// the parser's name. A page no parser finds anything in is an empty day unless
// every parser failed outright.
func ParseRanked(page Page, parsers []PageParser) ([]slots.Slot, string, error) {
	var errs []error
	for _, p := range parsers {
		out, err := p.Parse(page)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if len(out) > 0 {
			return out, p.Name(), nil
		}
	}
	if len(errs) > 0 && len(errs) == len(parsers) {
		return nil, "", fmt.Errorf("%w: %w", ErrUnexpectedShape, errors.Join(errs...))
	}
	return nil, "", nil
}
