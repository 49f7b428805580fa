package normalize_test

import (
	"testing"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/normalize"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPerNinety(t *testing.T) {
	Convey("Given raw totals and minutes played", t, func() {
		Convey("When normalizing 9 shots over 270 minutes", func() {
			p90, err := normalize.PerNinety(9, 270)

			Convey("Then the p90 value is 3.0", func() {
				So(err, ShouldBeNil)
				So(p90, ShouldAlmostEqual, 3.0)
			})
		})

		Convey("When normalizing 2 shots over 90 minutes", func() {
			p90, err := normalize.PerNinety(2, 90)

			Convey("Then the p90 value is 2.0", func() {
				So(err, ShouldBeNil)
				So(p90, ShouldAlmostEqual, 2.0)
			})
		})

		Convey("When minutes played is zero", func() {
			_, err := normalize.PerNinety(5, 0)

			Convey("Then normalization is undefined", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, normalize.ErrUndefinedNormalization)
			})
		})

		Convey("When round-tripping the scaling", func() {
			raw := 7.0
			minutes := 198.0
			p90, err := normalize.PerNinety(raw, minutes)

			Convey("Then p90 * minutes / 90 recovers the raw value", func() {
				So(err, ShouldBeNil)
				So(p90*minutes/90, ShouldAlmostEqual, raw)
			})
		})
	})
}

func TestNormalizer_Apply(t *testing.T) {
	Convey("Given a normalizer over the stock catalog", t, func() {
		cat, err := catalog.Default()
		So(err, ShouldBeNil)
		n := normalize.New(cat)

		Convey("When applying to derived totals", func() {
			totals := map[string]float64{
				"shots_total":        9,
				"xg_total":           1.8,
				"passes_success_pct": 0.85,
			}
			out, err := n.Apply(totals, 270)

			Convey("Then volume metrics scale and ratio metrics pass through", func() {
				So(err, ShouldBeNil)
				So(out["shots_total"], ShouldAlmostEqual, 3.0)
				So(out["xg_total"], ShouldAlmostEqual, 0.6)
				So(out["passes_success_pct"], ShouldAlmostEqual, 0.85)
			})
		})

		Convey("When applying with zero minutes", func() {
			_, err := n.Apply(map[string]float64{"shots_total": 3}, 0)

			Convey("Then it fails with the undefined-normalization kind", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, normalize.ErrUndefinedNormalization)
			})
		})
	})
}
