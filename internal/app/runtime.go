package app

import (
	"context"
	"fmt"

	"github.com/okian/flipper/internal/adapters/cache"
	"github.com/okian/flipper/internal/adapters/lookup"
	"github.com/okian/flipper/internal/adapters/source"
	"github.com/okian/flipper/internal/config"
	"github.com/okian/flipper/pkg/logger"
	"github.com/okian/flipper/pkg/metrics"
)

// Runtime is a Service together with the adapters built for it from
// configuration.
type Runtime struct {
	Service *Service
	Lookups *lookup.Tables
	Records *source.File
	// Cache is nil when caching is disabled.
	Cache *cache.Store

	cfg    *config.Config
	logger logger.Logger
}

// Build wires a Service from cfg: lookup tables, record files and the
// optional optimization cache.
func Build(cfg *config.Config, log logger.Logger) (*Runtime, error) {
	tables, err := lookup.Load(cfg.LookupsPath)
	if err != nil {
		return nil, fmt.Errorf("load lookups: %w", err)
	}
	records := source.NewFile(cfg.RecordPaths(),
		source.WithVariations(tables),
		source.WithLogger(log.Named("source")))

	rt := &Runtime{Lookups: tables, Records: records, cfg: cfg, logger: log}

	opts := []Option{
		WithLogger(log.Named("service")),
		WithSource(records),
		WithLookups(tables),
		WithDefaultSeasons(cfg.DefaultSeasonStart, cfg.DefaultSeasonEnd),
		WithWinPoints(cfg.WinPointsThreshold),
		WithRecentWindow(cfg.RecentFormWindow),
		WithMaxScoreLimits(cfg.MaxScoreLimitEntries),
	}
	if cfg.CacheEnabled {
		rt.Cache = cache.NewStore(cfg.CacheTTL(), cache.WithLogger(log.Named("cache")))
		opts = append(opts, WithCache(rt.Cache))
	}
	rt.Service = New(opts...)
	return rt, nil
}

// Start launches the background loops: cache eviction and, when enabled,
// lookup hot reload. They stop when ctx is cancelled.
func (r *Runtime) Start(ctx context.Context) {
	fields := []logger.Field{
		logger.Int("record_files", len(r.cfg.RecordPaths())),
		logger.Bool("cache_enabled", r.Cache != nil),
		logger.Bool("watch_lookups", r.cfg.WatchLookups),
	}
	if r.Cache != nil {
		fields = append(fields, logger.Duration("cache_ttl", r.cfg.CacheTTL()))
	}
	r.logger.Info(ctx, "runtime started", fields...)

	if r.Cache != nil {
		go r.Cache.Run(ctx)
	}
	if r.cfg.WatchLookups && r.cfg.LookupsPath != "" {
		go func() {
			err := lookup.Watch(ctx, r.cfg.LookupsPath, r.Lookups, r.logger.Named("lookup"), r.lookupsReloaded)
			if err != nil {
				metrics.RecordErrorByComponent("lookup", "watch")
				r.logger.Error(ctx, "lookup watch stopped", logger.Error(err))
			}
		}()
	}
}

// lookupsReloaded drops cached lineups computed with the old aliases.
func (r *Runtime) lookupsReloaded() {
	metrics.RecordLookupReload()
	if r.Cache != nil {
		r.Cache.Purge()
	}
}
