package server

import (
	"log/slog"

	"github.com/preston-bernstein/teetime-service/internal/config"
	"github.com/preston-bernstein/teetime-service/internal/domain/courses"
	"github.com/preston-bernstein/teetime-service/internal/providers"
	"github.com/preston-bernstein/teetime-service/internal/providers/chronogolf"
	"github.com/preston-bernstein/teetime-service/internal/providers/miclub"
	"github.com/preston-bernstein/teetime-service/internal/providers/quick18"
	"github.com/preston-bernstein/teetime-service/internal/providers/teeitup"
)

// selectAdapter returns the live adapter for a provider tag, or nil for an unknown tag.
func selectAdapter(tag courses.Provider, cfg config.Config, transport *providers.Transport, groups courses.FeeGroups, logger *slog.Logger) providers.SlotProvider {
	switch tag {
	case courses.ProviderMiClub:
		return miclub.NewClient(miclub.Config{Transport: transport, FeeGroups: groups, Logger: logger})
	case courses.ProviderQuick18:
		return quick18.NewClient(quick18.Config{Transport: transport, Logger: logger})
	case courses.ProviderTeeItUp:
		return teeitup.NewClient(teeitup.Config{
			BaseURL:   cfg.Upstream.TeeItUpBaseURL,
			Transport: transport,
			FeeGroups: groups,
			Logger:    logger,
		})
	case courses.ProviderChronogolf:
		return chronogolf.NewClient(chronogolf.Config{
			BaseURL:   cfg.Upstream.ChronogolfURL,
			Transport: transport,
			FeeGroups: groups,
			Logger:    logger,
		})
	default:
		return nil
	}
}
