package teeitup

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
	"github.com/preston-bernstein/teetime-service/internal/providers/extract"
)

// Config controls how the TeeItUp client reaches the booking API.
type Config struct {
	BaseURL   string
	Transport *providers.Transport
	FeeGroups courses.FeeGroups
	Logger    *slog.Logger
}

// Client fetches tee times from the TeeItUp (Kenna) booking API.
type Client struct {
	baseURL   string
	transport *providers.Transport
	feeGroups courses.FeeGroups
	logger    *slog.Logger
}

// NewClient constructs a TeeItUp client.
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
	facilityID := resolveFacilityID(course, c.feeGroups)
	if facilityID == "" {
		return nil, fmt.Errorf("%s: course %s: %w", providerName, course.ID, providers.ErrMissingIdentifier)
	}

	body, err := c.transport.Get(ctx, providerName, c.buildURL(criteria.Date, facilityID), requestHeaders(course))
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

	out, skipped := providers.SlotsFromItems(items, fields, course, criteria.Date, providers.ResolveTimezone(course.Timezone))
	if len(items) > 0 && len(out) == 0 {
		return nil, fmt.Errorf("%s: %w: no recognizable time in %d items", providerName, providers.ErrUnexpectedShape, len(items))
	}
	logging.Debug(c.logger, "teeitup payload mapped",
		logging.FieldCourse, course.ID,
		"locator", via,
		logging.FieldCount, len(out),
		"skipped", skipped,
	)
	return out, nil
}

func (c *Client) buildURL(date, facilityID string) string {
	q := url.Values{}
	q.Set("date", date)
	q.Set("facilityIds", facilityID)
	return c.baseURL + "/v2/tee-times?" + q.Encode()
}

func requestHeaders(course courses.Course) http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json")
	if alias := aliasFromURL(course.BookingURL); alias != "" {
		h.Set("x-be-alias", alias)
		h.Set("Origin", "https://"+alias+bookingHost)
	}
	return h
}

// resolveFacilityID prefers explicit configuration, then the fee group, then the
// booking URL's query. An empty result means the course cannot be queried.
func resolveFacilityID(course courses.Course, groups courses.FeeGroups) string {
	if id := course.ProviderID("facilityId"); id != "" {
		return id
	}
	if g, ok := groups.Lookup(course.Name); ok && strings.TrimSpace(g.FacilityID) != "" {
		return strings.TrimSpace(g.FacilityID)
	}
	u, err := url.Parse(course.BookingURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	for _, key := range []string{"course", "facilityIds", "facilityId"} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

// aliasFromURL returns the tenant subdomain of a *.book.teeitup.com URL.
func aliasFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if !strings.HasSuffix(host, bookingHost) {
		return ""
	}
	return strings.TrimSuffix(host, bookingHost)
}
