package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/catalog"
	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/http/handlers"
	"github.com/preston-bernstein/teetime-service/internal/testutil"
)

type stubSearcher struct{}

func (stubSearcher) Search(_ context.Context, list []courses.Course, criteria slots.SearchCriteria) slots.Response {
	return slots.Response{Date: criteria.Date, Slots: []slots.Slot{}, Stats: slots.Stats{Courses: len(list)}}
}

type panicSearcher struct{}

func (panicSearcher) Search(context.Context, []courses.Course, slots.SearchCriteria) slots.Response {
	panic("boom")
}

type stubPruner struct{ calls int }

func (p *stubPruner) Prune(context.Context, time.Time) (int, error) {
	p.calls++
	return 0, nil
}

func newTestRouter(t *testing.T, searcher handlers.Searcher, admin *handlers.AdminHandler) http.Handler {
	t.Helper()
	cat, err := catalog.New([]courses.Course{testutil.SampleCourse("papago", courses.ProviderTeeItUp)}, nil)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	logger, _ := testutil.NewBufferLogger()
	return NewRouter(RouterConfig{
		Handler:        handlers.NewHandler(searcher, cat, logger, nil),
		Admin:          admin,
		Logger:         logger,
		AllowedOrigins: []string{"https://app.example"},
	})
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newTestRouter(t, stubSearcher{}, nil)

	cases := map[string]int{
		"/health":                               http.StatusOK,
		"/ready":                                http.StatusOK,
		"/api/courses":                          http.StatusOK,
		"/api/teetimes?date=2024-06-01":         http.StatusOK,
		"/api/teetimes":                         http.StatusBadRequest,
		"/api/teetimes?date=2024-06-01&holes=3": http.StatusBadRequest,
	}

	for path, expected := range cases {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturnsJSON404(t *testing.T) {
	router := newTestRouter(t, stubSearcher{}, nil)

	rr := testutil.Serve(router, http.MethodGet, "/api/bookings", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["error"] != "not found" || body["requestId"] == "" {
		t.Fatalf("unexpected 404 body %+v", body)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, stubSearcher{}, nil)

	rr := testutil.Serve(router, http.MethodDelete, "/api/teetimes", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestRouterRecoversPanics(t *testing.T) {
	router := newTestRouter(t, panicSearcher{}, nil)

	rr := testutil.Serve(router, http.MethodGet, "/api/teetimes?date=2024-06-01", nil)
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, stubSearcher{}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/teetimes", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := testutil.ServeRequest(router, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = testutil.ServeRequest(router, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected foreign origin rejected, got %q", got)
	}
}

func TestRouterMountsAdminOnlyWhenConfigured(t *testing.T) {
	router := newTestRouter(t, stubSearcher{}, nil)
	rr := testutil.Serve(router, http.MethodPost, "/admin/cache/prune", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	pruner := &stubPruner{}
	router = newTestRouter(t, stubSearcher{}, handlers.NewAdminHandler(pruner, "secret", nil))
	req := httptest.NewRequest(http.MethodPost, "/admin/cache/prune", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = testutil.ServeRequest(router, req)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if pruner.calls != 1 {
		t.Fatalf("expected prune to run once, got %d", pruner.calls)
	}
}

func TestAllowedOriginsDefaultsToWildcard(t *testing.T) {
	if got := allowedOrigins(nil); len(got) != 1 || got[0] != "*" {
		t.Fatalf("expected wildcard default, got %v", got)
	}
}
