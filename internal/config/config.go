// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and FLIPPER_ environment variables on top.
// - External errors must be wrapped via this package's error sentinels.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// RecordsPath is a comma separated list of game record files.
	RecordsPath string `koanf:"records_path"`

	// LookupsPath points at the lookup tables file. Empty uses built-in tables.
	LookupsPath string `koanf:"lookups_path"`

	// WatchLookups reloads the lookup tables when the file changes.
	WatchLookups bool `koanf:"watch_lookups"`

	// CacheEnabled turns on the read-through optimization cache.
	CacheEnabled bool `koanf:"cache_enabled"`

	// CacheTTLSeconds is how long cached optimizations stay valid.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// DefaultSeasonStart and DefaultSeasonEnd bound requests without seasons.
	DefaultSeasonStart int `koanf:"default_season_start"`
	DefaultSeasonEnd   int `koanf:"default_season_end"`

	// WinPointsThreshold is the points a player needs to win a game.
	WinPointsThreshold float64 `koanf:"win_points_threshold"`

	// RecentFormWindow is how many of the latest games count as recent form.
	RecentFormWindow int `koanf:"recent_form_window"`

	// MaxScoreLimitEntries caps the per-machine score limits in one request.
	MaxScoreLimitEntries int `koanf:"max_score_limit_entries"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		CacheEnabled:         true,
		CacheTTLSeconds:      300,
		DefaultSeasonStart:   20,
		DefaultSeasonEnd:     21,
		WinPointsThreshold:   1.5,
		RecentFormWindow:     5,
		MaxScoreLimitEntries: 200,
	}
}

// RecordPaths splits RecordsPath into individual file paths.
func (c *Config) RecordPaths() []string {
	var out []string
	for _, p := range strings.Split(c.RecordsPath, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
