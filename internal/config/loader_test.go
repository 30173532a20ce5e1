package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/flipper/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.DefaultSeasonStart, convey.ShouldEqual, 20)
				convey.So(cfg.DefaultSeasonEnd, convey.ShouldEqual, 21)
				convey.So(cfg.RecordPaths(), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FLIPPER_ADDR", ":8080")
			_ = os.Setenv("FLIPPER_RECORDS_PATH", "s20.yaml,s21.yaml")
			_ = os.Setenv("FLIPPER_WATCH_LOOKUPS", "true")
			_ = os.Setenv("FLIPPER_CACHE_TTL_SECONDS", "60")
			_ = os.Setenv("FLIPPER_WIN_POINTS_THRESHOLD", "2")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.RecordPaths(), convey.ShouldResemble, []string{"s20.yaml", "s21.yaml"})
				convey.So(cfg.WatchLookups, convey.ShouldBeTrue)
				convey.So(cfg.CacheTTLSeconds, convey.ShouldEqual, 60)
				convey.So(cfg.WinPointsThreshold, convey.ShouldEqual, 2.0)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(`
# league defaults
addr: ":9090"
lookups_path: /etc/flipper/lookups.yaml
default_season_start: 18
default_season_end: 21
recent_form_window: 3
`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FLIPPER_CONFIG", tmpFile)
			_ = os.Setenv("FLIPPER_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.LookupsPath, convey.ShouldEqual, "/etc/flipper/lookups.yaml")
				convey.So(cfg.DefaultSeasonStart, convey.ShouldEqual, 18)
				convey.So(cfg.RecentFormWindow, convey.ShouldEqual, 3)
				convey.So(cfg.MaxScoreLimitEntries, convey.ShouldEqual, 200)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("FLIPPER_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("FLIPPER_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("FLIPPER_RECENT_FORM_WINDOW", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("FLIPPER_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the default season range is inverted", func() {
			_ = os.Setenv("FLIPPER_DEFAULT_SEASON_START", "22")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the win threshold is not positive", func() {
			_ = os.Setenv("FLIPPER_WIN_POINTS_THRESHOLD", "0")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"FLIPPER_CONFIG",
		"FLIPPER_ADDR",
		"FLIPPER_RECORDS_PATH",
		"FLIPPER_WATCH_LOOKUPS",
		"FLIPPER_CACHE_TTL_SECONDS",
		"FLIPPER_WIN_POINTS_THRESHOLD",
		"FLIPPER_RECENT_FORM_WINDOW",
		"FLIPPER_DEFAULT_SEASON_START",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "flipper-config-*.yaml")
	if err != nil {
		panic(err)
	}
	defer func() { _ = tmpFile.Close() }()

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
