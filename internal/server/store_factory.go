package server

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/preston-bernstein/teetime-service/internal/config"
	"github.com/preston-bernstein/teetime-service/internal/logging"
	"github.com/preston-bernstein/teetime-service/internal/store"
)

// cacheComponents bundles the configured slot cache with its optional capabilities.
type cacheComponents struct {
	cache store.SlotCache
	// pruner is nil for backends that expire entries on their own.
	pruner store.Pruner
	closer io.Closer
}

// Open functions stay vars so tests can avoid real backends.
var (
	openRedisStore = func(ctx context.Context, url string, ttl time.Duration) (*store.RedisStore, error) {
		return store.OpenRedisStore(ctx, url, ttl)
	}
	openPostgresStore = func(ctx context.Context, dsn string) (*store.PostgresStore, error) {
		return store.OpenPostgresStore(ctx, dsn)
	}
)

// buildCache opens the configured backend. A backend that cannot be reached degrades
// to the in-memory cache so the service still answers searches.
func buildCache(cfg config.CacheConfig, logger *slog.Logger) cacheComponents {
	ctx, cancel := context.WithTimeout(context.Background(), cacheOpenTimeout)
	defer cancel()

	switch cfg.Backend {
	case config.CacheRedis:
		rs, err := openRedisStore(ctx, cfg.RedisURL, cfg.TTL)
		if err == nil {
			logging.Info(logger, "slot cache ready", logging.FieldCache, config.CacheRedis)
			return cacheComponents{cache: rs, closer: rs}
		}
		logging.Warn(logger, "redis cache unavailable, using memory", logging.FieldCache, config.CacheRedis, "err", err)
	case config.CachePostgres:
		ps, err := openPostgresStore(ctx, cfg.DatabaseURL)
		if err == nil {
			logging.Info(logger, "slot cache ready", logging.FieldCache, config.CachePostgres)
			return cacheComponents{cache: ps, pruner: ps, closer: ps}
		}
		logging.Warn(logger, "postgres cache unavailable, using memory", logging.FieldCache, config.CachePostgres, "err", err)
	}

	mem := store.NewMemoryStore()
	return cacheComponents{cache: mem, pruner: mem}
}
