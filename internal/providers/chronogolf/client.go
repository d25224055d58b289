package chronogolf

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/providers/extract"
)

// Config controls how the Chronogolf client reaches the marketplace API.
type Config struct {
	BaseURL   string
	Transport *providers.Transport
	FeeGroups courses.FeeGroups
	Logger    *slog.Logger
}

// Client fetches club tee times from the Chronogolf marketplace API.
type Client struct {
	baseURL   string
	transport *providers.Transport
	feeGroups courses.FeeGroups
	logger    *slog.Logger
}

// NewClient constructs a Chronogolf client.
func NewClient(cfg Config) *Client {
	transport := cfg.Transport
	if transport == nil {
		transport = providers.NewTransport(nil, "")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	return &Client{
		baseURL:   base,
		transport: transport,
		feeGroups: cfg.FeeGroups,
		logger:    cfg.Logger,
	}
}

// FetchSlots returns the course's tee times for the search date.
func (c *Client) FetchSlots(ctx context.Context, course courses.Course, criteria slots.SearchCriteria) ([]slots.Slot, error) {
	ids := resolveIdentifiers(course, c.feeGroups)
	if ids.ClubID == "" || ids.CourseID == "" {
		return nil, fmt.Errorf("%s: course %s: %w", providerName, course.ID, providers.ErrMissingIdentifier)
	}
	holes := searchHoles(course, criteria)

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	body, err := c.transport.Get(ctx, providerName, c.buildURL(ids, criteria.Date, holes), headers)
	if err != nil {
		return nil, err
	}
	payload, err := extract.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", providerName, providers.ErrUnexpectedShape, err)
	}
	items, via, ok := extract.Locate(payload, locators)
	if !ok {
		return nil, fmt.Errorf("%s: %w: no tee-time array", providerName, providers.ErrUnexpectedShape)
	}

	// Used for every slot the payload does not carry its own link for.
	withLink := course
	withLink.BookingURL = bookingURL(course.BookingURL, ids, criteria.Date, holes)

	out, skipped := providers.SlotsFromItems(items, fields, withLink, criteria.Date, providers.ResolveTimezone(course.Timezone))
	if len(items) > 0 && len(out) == 0 {
		return nil, fmt.Errorf("%s: %w: no recognizable time in %d items", providerName, providers.ErrUnexpectedShape, len(items))
	}
	for i := range out {
		if out[i].Holes == nil {
			out[i].Holes = slots.Int(holes)
		}
	}
	logging.Debug(c.logger, "chronogolf payload mapped",
		logging.FieldCourse, course.ID,
		"locator", via,
		logging.FieldCount, len(out),
		"skipped", skipped,
	)
	return out, nil
}

func (c *Client) buildURL(ids identifiers, date string, holes int) string {
	q := url.Values{}
	q.Set("date", date)
	q.Set("course_id", ids.CourseID)
	for _, a := range ids.AffiliationIDs {
		q.Add("affiliation_type_ids[]", a)
	}
	q.Set("nb_holes", strconv.Itoa(holes))
	return fmt.Sprintf("%s/marketplace/clubs/%s/teetimes?%s", c.baseURL, url.PathEscape(ids.ClubID), q.Encode())
}

// bookingURL rewrites the course URL's fragment so the widget opens on the searched date.
func bookingURL(raw string, ids identifiers, date string, holes int) string {
	base, _, _ := strings.Cut(raw, "#")
	if base == "" {
		return ""
	}
	parts := []string{"course_id=" + url.QueryEscape(ids.CourseID)}
	if len(ids.AffiliationIDs) > 0 {
		parts = append(parts, "affiliation_type_ids="+strings.Join(ids.AffiliationIDs, ","))
	}
	parts = append(parts, "date="+date, "nb_holes="+strconv.Itoa(holes))
	return base + "#/teetimes?" + strings.Join(parts, "&")
}

func searchHoles(course courses.Course, criteria slots.SearchCriteria) int {
	if criteria.HolesSpecified() {
		return criteria.Holes
	}
	if course.Holes > 0 {
		return course.Holes
	}
	return defaultHoles
}
