package miclub

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/providers"
)

// Config controls the MiClub timesheet scraper.
type Config struct {
	Transport *providers.Transport
	FeeGroups courses.FeeGroups
	Logger    *slog.Logger
}

// Client scrapes public MiClub timesheets.
type Client struct {
	transport *providers.Transport
	feeGroups courses.FeeGroups
	logger    *slog.Logger
}

// NewClient constructs a MiClub client.
func NewClient(cfg Config) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = providers.NewTransport(nil, "")
	}
	return &Client{transport: transport, feeGroups: cfg.FeeGroups, logger: cfg.Logger}
}

// FetchSlots scrapes the course timesheet for the search date.
func (c *Client) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	pageURL, err := c.timesheetURL(course, criteria.Date)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	headers.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
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
	logging.Debug(c.logger, "miclub timesheet parsed",
		logging.FieldCourse, course.ID,
		"parser", via,
		logging.FieldCount, len(out),
	)
	return out, nil
}

// timesheetURL sets the selected date and, when the URL lacks one, the fee group id.
func (c *Client) timesheetURL(course courses.Course, date string) (string, error) {
	raw := strings.TrimSpace(course.BookingURL)
	if raw == "" {
		return "", fmt.Errorf("%s: course %s: %w: no booking url", providerName, course.ID, providers.ErrMissingIdentifier)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s: course %s: %w: %v", providerName, course.ID, providers.ErrMissingIdentifier, err)
	}
	q := u.Query()
	q.Set("selectedDate", date)
	if q.Get("feeGroupId") == "" {
		if id := c.feeGroupID(course); id != "" {
			q.Set("feeGroupId", id)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *Client) feeGroupID(course courses.Course) string {
	if id := course.ProviderID("feeGroupId"); id != "" {
		return id
	}
	if g, ok := c.feeGroups.Lookup(course.Name); ok {
		return strings.TrimSpace(g.FeeGroupID)
	}
	return ""
}
