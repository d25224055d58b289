package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/http/requestutil"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/store"
)

// AdminHandler exposes admin-only cache maintenance.
type AdminHandler struct {
	pruner store.Pruner
	token  string
	logger *slog.Logger
	now    func() time.Time
}

// NewAdminHandler constructs an AdminHandler. Requests are refused when token is empty.
func NewAdminHandler(pruner store.Pruner, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		pruner: pruner,
		token:  token,
		logger: logger,
		now:    time.Now,
	}
}

// PruneCache deletes cache entries stored more than ?olderThan= ago (a Go duration,
// default 0 which clears everything). Guarded by a bearer token.
func (h *AdminHandler) PruneCache(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.pruner == nil {
		writeError(w, r, http.StatusServiceUnavailable, "cache does not support pruning", h.logger)
		return
	}

	var age time.Duration
	if raw := strings.TrimSpace(r.URL.Query().Get("olderThan")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < 0 {
			writeError(w, r, http.StatusBadRequest, "olderThan must be a non-negative duration", h.logger)
			return
		}
		age = parsed
	}

	cutoff := h.now().Add(-age)
	removed, err := h.pruner.Prune(r.Context(), cutoff)
	if err != nil {
		logging.Warn(logger, "admin cache prune failed", logging.FieldReason, err.Error())
		writeError(w, r, http.StatusInternalServerError, "prune failed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"removed": removed,
		"cutoff":  cutoff.UTC().Format(time.RFC3339),
		"status":  "ok",
	}, h.logger)
	logging.Info(logger, "admin cache pruned", slog.Int(logging.FieldCount, removed))
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}
