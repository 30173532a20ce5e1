package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/okian/flipper/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompare(t *testing.T) {
	Convey("Given reference and subject POPS values", t, func() {
		Convey("When both are zero", func() {
			c := model.Compare(0, 0)

			Convey("Then it should be N/A", func() {
				So(c.Kind, ShouldEqual, model.BothZero)
				So(c.String(), ShouldEqual, "N/A")
			})
		})

		Convey("When only the subject has a value", func() {
			c := model.Compare(0, 5)

			Convey("Then it should render a minus", func() {
				So(c.Kind, ShouldEqual, model.SubjectOnly)
				So(c.String(), ShouldEqual, "-")
			})
		})

		Convey("When only the reference has a value", func() {
			c := model.Compare(5, 0)

			Convey("Then it should render a plus", func() {
				So(c.Kind, ShouldEqual, model.ReferenceOnly)
				So(c.String(), ShouldEqual, "+")
			})
		})

		Convey("When both have values", func() {
			c := model.Compare(8, 5)

			Convey("Then it should hold the signed difference", func() {
				So(c.Kind, ShouldEqual, model.Numeric)
				So(c.Value, ShouldEqual, 3)
				So(c.String(), ShouldEqual, "3")
			})
		})

		Convey("When the reference is below the subject", func() {
			c := model.Compare(2.5, 5)

			Convey("Then the difference should be negative", func() {
				So(c.Value, ShouldEqual, -2.5)
			})
		})
	})
}

func TestComparisonJSON(t *testing.T) {
	Convey("Given comparisons rendered to JSON", t, func() {
		Convey("When the comparison is numeric", func() {
			b, err := json.Marshal(model.Compare(8, 5))

			Convey("Then it should be a bare number", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, "3")
			})
		})

		Convey("When the comparison is a sentinel", func() {
			b, err := json.Marshal(model.Compare(5, 0))

			Convey("Then it should be a quoted string", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldEqual, `"+"`)
			})
		})

		Convey("When decoding both shapes", func() {
			var n, s model.Comparison
			So(json.Unmarshal([]byte("-1.5"), &n), ShouldBeNil)
			So(json.Unmarshal([]byte(`"-"`), &s), ShouldBeNil)

			Convey("Then the variants should round back", func() {
				So(n, ShouldResemble, model.Comparison{Kind: model.Numeric, Value: -1.5})
				So(s, ShouldResemble, model.Comparison{Kind: model.SubjectOnly})
			})
		})
	})
}

func TestPlayerSlotAndRange(t *testing.T) {
	Convey("Given player slots and season ranges", t, func() {
		score := int64(100)

		Convey("Then a slot without a score should not count as played", func() {
			So(model.PlayerSlot{Player: "a"}.Played(), ShouldBeFalse)
			So(model.PlayerSlot{Player: "a", Score: &score}.Played(), ShouldBeTrue)
		})

		Convey("Then ranges should be inclusive and normalizable", func() {
			r := model.SeasonRange{Min: 22, Max: 20}.Normalize()
			So(r, ShouldResemble, model.SeasonRange{Min: 20, Max: 22})
			So(r.Contains(20), ShouldBeTrue)
			So(r.Contains(22), ShouldBeTrue)
			So(r.Contains(23), ShouldBeFalse)
		})

		Convey("Then game keys should combine match and round", func() {
			p := model.ProcessedScore{Match: "mnp-22-1-TWC-BBU", Round: 3}
			So(p.GameKey(), ShouldEqual, "mnp-22-1-TWC-BBU-3")
		})
	})
}

func TestPlayerMachineStats_JSON(t *testing.T) {
	Convey("Given player machine stats", t, func() {
		st := model.PlayerMachineStats{Player: "Alice", Machine: "TZ", GamesPlayed: 0}

		Convey("When the player has never played the machine", func() {
			raw, err := json.Marshal(st)

			Convey("Then last_played should be left out", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldNotContainSubstring, "last_played")
			})
		})

		Convey("When a last played time is set", func() {
			st.LastPlayed = time.Date(2024, 3, 5, 19, 30, 0, 0, time.UTC)
			raw, err := json.Marshal(st)

			Convey("Then it should be encoded", func() {
				So(err, ShouldBeNil)
				So(string(raw), ShouldContainSubstring, `"last_played":"2024-03-05T19:30:00Z"`)
			})
		})
	})
}
