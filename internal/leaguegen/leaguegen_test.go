package leaguegen

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/flipper/internal/adapters/source"
	"github.com/okian/flipper/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigValidate(t *testing.T) {
	Convey("Given generator configs", t, func() {
		Convey("Then the default config should be valid", func() {
			So(DefaultConfig().Validate(), ShouldBeNil)
		})

		Convey("Then unusable leagues should be rejected", func() {
			mutate := []func(*Config){
				func(c *Config) { c.SeasonStart, c.SeasonEnd = 22, 21 },
				func(c *Config) { c.Weeks = 0 },
				func(c *Config) { c.Teams = c.Teams[:1] },
				func(c *Config) { c.PlayersPerTeam = 7 },
				func(c *Config) { c.MachinesPerVenue = 6 },
				func(c *Config) { c.Machines = c.Machines[:5] },
			}
			for _, m := range mutate {
				cfg := DefaultConfig()
				m(&cfg)
				So(errors.Is(cfg.Validate(), ErrInvalidConfig), ShouldBeTrue)
			}
		})
	})
}

func TestGenerate(t *testing.T) {
	Convey("Given a four team league over one season", t, func() {
		ctx := context.Background()
		cfg := DefaultConfig()
		cfg.SeasonStart, cfg.SeasonEnd = 21, 21
		cfg.Weeks = 2
		cfg.Teams = []string{"TWC", "SKP", "PKT", "CRA"}

		Convey("When generating records", func() {
			recs, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then every match should have two doubles and two singles rounds", func() {
				// 2 weeks x 2 matches x (4+7+7+4) games
				So(recs, ShouldHaveLength, 2*2*22)
				for _, r := range recs {
					played := 0
					for _, s := range r.Slots {
						if s.Played() {
							played++
							So(s.Points, ShouldNotBeNil)
							So(*s.Score, ShouldBeGreaterThan, 0)
						}
					}
					if r.Round == 1 || r.Round == 4 {
						So(played, ShouldEqual, 4)
					} else {
						So(played, ShouldEqual, 2)
					}
					So(r.Venue, ShouldEqual, r.HomeTeam+"V")
				}
			})

			Convey("Then the same seed should give the same league", func() {
				again, err := Generate(ctx, cfg)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, recs)
			})

			Convey("Then a different seed should give a different league", func() {
				cfg.Seed = 99
				other, err := Generate(ctx, cfg)
				So(err, ShouldBeNil)
				So(other, ShouldNotResemble, recs)
			})
		})

		Convey("When the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := Generate(cancelled, cfg)

			Convey("Then generation should stop", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestWrite(t *testing.T) {
	Convey("Given generated records", t, func() {
		ctx := context.Background()
		cfg := DefaultConfig()
		cfg.SeasonStart, cfg.SeasonEnd, cfg.Weeks = 21, 21, 1
		recs, err := Generate(ctx, cfg)
		So(err, ShouldBeNil)

		log, err := logger.New(&bytes.Buffer{}, "text")
		So(err, ShouldBeNil)

		for _, format := range []string{"yaml", "json"} {
			Convey("When written as "+format+" and read back by the file source", func() {
				path := filepath.Join(t.TempDir(), "league."+format)
				var buf bytes.Buffer
				So(Write(&buf, format, recs), ShouldBeNil)
				So(os.WriteFile(path, buf.Bytes(), 0o600), ShouldBeNil)

				got, err := source.NewFile([]string{path}, source.WithLogger(log)).FetchGames(ctx, source.Filter{})

				Convey("Then every record should survive", func() {
					So(err, ShouldBeNil)
					So(got, ShouldHaveLength, len(recs))
					So(got[0].Match, ShouldEqual, recs[0].Match)
					So(*got[0].Slots[0].Score, ShouldEqual, *recs[0].Slots[0].Score)
				})
			})
		}

		Convey("When an unknown format is requested", func() {
			err := Write(&bytes.Buffer{}, "xml", recs)

			Convey("Then it should fail", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
