package server

import (
	"log/slog"
	"strings"

	"github.com/preston-bernstein/teetime-service/internal/logging"
)

const (
	modeLive    = "live"
	modeFixture = "fixture"
)

// normalizeProviderMode lower-cases the configured mode. Anything but "live" serves fixtures.
func normalizeProviderMode(raw string, logger *slog.Logger) string {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case modeLive:
		return modeLive
	case modeFixture, "":
		return modeFixture
	default:
		logging.Warn(logger, "unknown provider mode, falling back to fixture", logging.FieldProvider, raw)
		return modeFixture
	}
}
