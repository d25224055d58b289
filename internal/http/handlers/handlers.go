package handlers

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"strings"

	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/domain/slots"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/poller"
)

// Searcher runs an aggregated availability search.
type Searcher interface {
	Search(ctx context.Context, list []courses.Course, criteria slots.SearchCriteria) slots.Response
}

// CourseCatalog is the read-only course reference data.
type CourseCatalog interface {
	Courses() []courses.Course
	Select(ids []string) ([]courses.Course, []string)
}

// Handler wires HTTP routes to the search service.
type Handler struct {
	search   Searcher
	catalog  CourseCatalog
	logger   *slog.Logger
	statusFn func() poller.Status
}

// CoursesResponse lists catalog courses.
type CoursesResponse struct {
	Courses []courses.Course `json:"courses"`
	Count   int              `json:"count"`
}

// NewHandler constructs a Handler with defaults. statusFn is nil when the cache warmer is disabled.
func NewHandler(search Searcher, catalog CourseCatalog, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		search:   search,
		catalog:  catalog,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic. With a warmer it waits for the first warm cycle.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Courses lists the catalog, optionally narrowed by ?provider=.
func (h *Handler) Courses(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.catalog == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "catalog not loaded", h.logger)
		return
	}
	list := h.catalog.Courses()
	if raw := strings.TrimSpace(r.URL.Query().Get("provider")); raw != "" {
		tag, ok := courses.ParseProvider(raw)
		if !ok {
			writeError(w, r, nethttp.StatusBadRequest, "unknown provider", h.logger)
			return
		}
		filtered := make([]courses.Course, 0, len(list))
		for _, c := range list {
			if c.Provider == tag {
				filtered = append(filtered, c)
			}
		}
		list = filtered
	}
	writeJSON(w, nethttp.StatusOK, CoursesResponse{Courses: list, Count: len(list)}, h.logger)
}

// TeeTimes runs a search over the requested (or every) course.
func (h *Handler) TeeTimes(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	q, err := parseTeeTimeQuery(r.URL.Query())
	if err != nil {
		logging.Warn(logger, "rejected search", logging.FieldReason, err.Error())
		writeError(w, r, nethttp.StatusBadRequest, err.Error(), h.logger)
		return
	}
	if h.search == nil || h.catalog == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "search not configured", h.logger)
		return
	}

	list := h.catalog.Courses()
	if len(q.Courses) > 0 {
		var unknown []string
		list, unknown = h.catalog.Select(q.Courses)
		if len(unknown) > 0 {
			writeError(w, r, nethttp.StatusBadRequest, "unknown courses: "+strings.Join(unknown, ", "), h.logger)
			return
		}
	}

	resp := h.search.Search(r.Context(), list, q.criteria())
	if resp.Slots == nil {
		resp.Slots = []slots.Slot{}
	}
	writeJSON(w, nethttp.StatusOK, resp, h.logger)
}

// NotFound renders unknown routes as JSON.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed renders method mismatches as JSON.
func (h *Handler) MethodNotAllowed(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusMethodNotAllowed, "method not allowed", h.logger)
}
