package quick18

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/timeutil"
)

// Config controls the Quick18 scraper.
type Config struct {
	Transport *providers.Transport
	Logger    *slog.Logger
}

// Client scrapes Quick18 search-matrix pages.
type Client struct {
	transport *providers.Transport
	logger    *slog.Logger
}

// NewClient constructs a Quick18 client.
func NewClient(cfg Config) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = providers.NewTransport(nil, "")
	}
	return &Client{transport: transport, logger: cfg.Logger}
}

// FetchSlots scrapes the course's matrix page for the search date.
func (c *Client) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	pageURL, err := BookingURL(course.BookingURL, criteria.Date)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	body, err := c.transport.Get(ctx, providerName, pageURL, headers)
	if err != nil {
		return nil, err
	}

	out, via, err := providers.ParseRanked(providers.Page{
		Body:       body,
		Course:     course,
		Criteria:   criteria,
		BookingURL: pageURL,
	}, parsers)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", providerName, err)
	}
	logging.Debug(c.logger, "quick18 page parsed",
		logging.FieldCourse, course.ID,
		"parser", via,
		logging.FieldCount, len(out),
	)
	return out, nil
}

// BookingURL drops any query from the course URL and appends the compact search date.
func BookingURL(base, date string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", fmt.Errorf("%s: %w: no booking url", providerName, providers.ErrMissingIdentifier)
	}
	compact, err := timeutil.CompactDate(date)
	if err != nil {
		return "", fmt.Errorf("%s: %w", providerName, err)
	}
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	return base + "?teedate=" + compact, nil
}
