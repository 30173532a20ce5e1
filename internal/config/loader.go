package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FLIPPER_CONFIG is set
//  3. env (prefix FLIPPER_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FLIPPER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// FLIPPER_RECORDS_PATH -> records_path; flat keys keep their underscores.
	envProvider := env.Provider("FLIPPER_", ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), "flipper_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CacheTTLSeconds < 0:
		return fmt.Errorf("%w: cache_ttl_seconds must not be negative", ErrInvalidConfig)
	case c.DefaultSeasonStart > c.DefaultSeasonEnd:
		return fmt.Errorf("%w: default_season_start %d is after default_season_end %d",
			ErrInvalidConfig, c.DefaultSeasonStart, c.DefaultSeasonEnd)
	case c.WinPointsThreshold <= 0:
		return fmt.Errorf("%w: win_points_threshold must be positive", ErrInvalidConfig)
	case c.RecentFormWindow <= 0:
		return fmt.Errorf("%w: recent_form_window must be positive", ErrInvalidConfig)
	case c.MaxScoreLimitEntries < 0:
		return fmt.Errorf("%w: max_score_limit_entries must not be negative", ErrInvalidConfig)
	}
	return nil
}
