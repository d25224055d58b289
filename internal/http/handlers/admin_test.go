package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/testutil"
)

type stubPruner struct {
	cutoff  time.Time
	removed int
	err     error
}

func (p *stubPruner) Prune(_ context.Context, olderThan time.Time) (int, error) {
	p.cutoff = olderThan
	return p.removed, p.err
}

func adminRequest(target, token string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAdminPruneRequiresAuth(t *testing.T) {
	h := NewAdminHandler(&stubPruner{}, "secret", nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.PruneCache), adminRequest("/admin/cache/prune", "wrong"))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)

	open := NewAdminHandler(&stubPruner{}, "", nil)
	rr = testutil.ServeRequest(http.HandlerFunc(open.PruneCache), adminRequest("/admin/cache/prune", ""))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestAdminPruneUsesOlderThan(t *testing.T) {
	pruner := &stubPruner{removed: 4}
	h := NewAdminHandler(pruner, "secret", nil)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h.now = testutil.NowAt(now)

	rr := testutil.ServeRequest(http.HandlerFunc(h.PruneCache), adminRequest("/admin/cache/prune?olderThan=30m", "secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	if want := now.Add(-30 * time.Minute); !pruner.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, pruner.cutoff)
	}
	var body map[string]any
	testutil.DecodeJSON(t, rr, &body)
	if body["removed"] != float64(4) {
		t.Fatalf("expected removed=4, got %v", body["removed"])
	}
}

func TestAdminPruneDefaultsToEverything(t *testing.T) {
	pruner := &stubPruner{}
	h := NewAdminHandler(pruner, "secret", nil)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	h.now = testutil.NowAt(now)

	rr := testutil.ServeRequest(http.HandlerFunc(h.PruneCache), adminRequest("/admin/cache/prune", "secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !pruner.cutoff.Equal(now) {
		t.Fatalf("expected cutoff at now, got %s", pruner.cutoff)
	}
}

func TestAdminPruneRejectsBadDuration(t *testing.T) {
	h := NewAdminHandler(&stubPruner{}, "secret", nil)
	for _, target := range []string{"/admin/cache/prune?olderThan=soon", "/admin/cache/prune?olderThan=-5m"} {
		rr := testutil.ServeRequest(http.HandlerFunc(h.PruneCache), adminRequest(target, "secret"))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	}
}

func TestAdminPruneFailures(t *testing.T) {
	h := NewAdminHandler(&stubPruner{err: errors.New("db down")}, "secret", nil)
	rr := testutil.ServeRequest(http.HandlerFunc(h.PruneCache), adminRequest("/admin/cache/prune", "secret"))
	testutil.AssertStatus(t, rr, http.StatusInternalServerError)

	h = NewAdminHandler(nil, "secret", nil)
	rr = testutil.ServeRequest(http.HandlerFunc(h.PruneCache), adminRequest("/admin/cache/prune", "secret"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestAdminPruneRequiresPost(t *testing.T) {
	h := NewAdminHandler(&stubPruner{}, "secret", nil)
	rr := testutil.Serve(http.HandlerFunc(h.PruneCache), http.MethodGet, "/admin/cache/prune", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}
