package app_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/flipper/internal/app"
	"github.com/okian/flipper/internal/config"
	"github.com/okian/flipper/internal/domain/model"
	"github.com/okian/flipper/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

const runtimeRecords = `games:
  - season: 21
    match: m1
    round: 1
    venue: AAB
    machine: mm
    home_team: TWC
    away_team: SKP
    slots:
      - {player: Alice, team: TWC, score: 1000, points: 2.5}
      - {player: Bob, team: SKP, score: 400, points: 0.5}
      - {player: Carol, team: TWC, score: 800, points: 2}
      - {player: Dan, team: SKP, score: 200, points: 0}
`

const runtimeLookups = `teams:
  TWC: The Wrecking Crew
  SKP: Slap Kraken Pop
machines:
  - Medieval Madness
machine_aliases:
  mm: Medieval Madness
`

func TestRuntime(t *testing.T) {
	Convey("Given configuration pointing at record and lookup files", t, func() {
		dir := t.TempDir()
		recordsPath := filepath.Join(dir, "records.yaml")
		lookupsPath := filepath.Join(dir, "lookups.yaml")
		So(os.WriteFile(recordsPath, []byte(runtimeRecords), 0o600), ShouldBeNil)
		So(os.WriteFile(lookupsPath, []byte(runtimeLookups), 0o600), ShouldBeNil)

		cfg := config.New()
		cfg.RecordsPath = recordsPath
		cfg.LookupsPath = lookupsPath
		cfg.DefaultSeasonStart, cfg.DefaultSeasonEnd = 21, 21

		log, err := logger.New(io.Discard, "text")
		So(err, ShouldBeNil)

		Convey("When building the runtime", func() {
			rt, err := app.Build(cfg, log)
			So(err, ShouldBeNil)
			ctx := context.Background()

			Convey("Then the service should read the files through the lookups", func() {
				resp, err := rt.Service.MachineStats(ctx, app.MachineStatsRequest{Team: "The Wrecking Crew", Venue: "AAB"})
				So(err, ShouldBeNil)
				So(resp.Stats, ShouldHaveLength, 1)
				So(resp.Stats[0].Machine, ShouldEqual, "medieval madness")
				So(resp.Stats[0].TeamAverage, ShouldAlmostEqual, 900, 1e-9)
			})

			Convey("Then optimizations should be cached", func() {
				_, err := rt.Service.Optimize(ctx, app.OptimizeRequest{
					Format: model.FormatSingles, Players: []string{"Alice"}, Machines: []string{"MM"},
				})
				So(err, ShouldBeNil)
				So(rt.Cache, ShouldNotBeNil)
				So(rt.Cache.Len(), ShouldEqual, 1)
			})
		})

		Convey("When caching is disabled", func() {
			cfg.CacheEnabled = false
			rt, err := app.Build(cfg, log)

			Convey("Then no cache should be built", func() {
				So(err, ShouldBeNil)
				So(rt.Cache, ShouldBeNil)
			})
		})

		Convey("When the lookup file is missing", func() {
			cfg.LookupsPath = filepath.Join(dir, "missing.yaml")
			_, err := app.Build(cfg, log)

			Convey("Then building should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When lookups are watched and the file changes", func() {
			cfg.WatchLookups = true
			rt, err := app.Build(cfg, log)
			So(err, ShouldBeNil)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			rt.Start(ctx)

			_, err = rt.Service.Optimize(ctx, app.OptimizeRequest{
				Format: model.FormatSingles, Players: []string{"Alice"}, Machines: []string{"MM"},
			})
			So(err, ShouldBeNil)
			So(rt.Cache.Len(), ShouldEqual, 1)

			updated := runtimeLookups + "  medieval: Medieval Madness\n"
			deadline := time.Now().Add(5 * time.Second)
			for rt.Cache.Len() > 0 && time.Now().Before(deadline) {
				_ = os.WriteFile(lookupsPath, []byte(updated), 0o600)
				time.Sleep(50 * time.Millisecond)
			}

			Convey("Then cached lineups should be dropped", func() {
				So(rt.Cache.Len(), ShouldEqual, 0)
				So(rt.Lookups.CanonicalMachine("medieval"), ShouldEqual, "Medieval Madness")
			})
		})
	})
}
