package catalog_test

import (
	"testing"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCatalog_New(t *testing.T) {
	Convey("Given a set of well-formed definitions", t, func() {
		defs := []catalog.Definition{
			catalog.Count("passes_attempted", func(e model.Event) bool { return e.Type == model.ActionPass }),
			catalog.Count("passes_completed", func(e model.Event) bool { return e.Type == model.ActionPass && e.Success }),
			catalog.Ratio("passes_success_pct", "passes_completed", "passes_attempted"),
			catalog.Composite("passing", "passes_attempted", "passes_success_pct"),
		}

		Convey("When building the catalog", func() {
			cat, err := catalog.New(defs)

			Convey("Then it loads and preserves order", func() {
				So(err, ShouldBeNil)
				names := make([]string, 0, 4)
				for _, d := range cat.Definitions() {
					names = append(names, d.Name)
				}
				So(names, ShouldResemble, []string{
					"passes_attempted", "passes_completed", "passes_success_pct", "passing",
				})
			})

			Convey("Then composites carry the fixed 35/65 weights", func() {
				So(err, ShouldBeNil)
				d, ok := cat.Lookup("passing")
				So(ok, ShouldBeTrue)
				So(d.Weights.Volume, ShouldAlmostEqual, 0.35)
				So(d.Weights.Quality, ShouldAlmostEqual, 0.65)
			})
		})

		Convey("When overriding the composite weights", func() {
			cat, err := catalog.New(defs, catalog.WithWeights(0.8, 0.2))

			Convey("Then composites carry the override", func() {
				So(err, ShouldBeNil)
				d, ok := cat.Lookup("passing")
				So(ok, ShouldBeTrue)
				So(d.Weights.Volume, ShouldAlmostEqual, 0.8)
				So(d.Weights.Quality, ShouldAlmostEqual, 0.2)
			})
		})

		Convey("When a composite references a missing sub-metric", func() {
			bad := append(defs, catalog.Composite("broken", "passes_attempted", "no_such_metric"))
			_, err := catalog.New(bad)

			Convey("Then loading fails with the unknown-sub-metric kind", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, catalog.ErrUnknownSubmetric)
			})
		})

		Convey("When a ratio references a missing total", func() {
			bad := append(defs, catalog.Ratio("broken_pct", "no_such_metric", "passes_attempted"))
			_, err := catalog.New(bad)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, catalog.ErrUnknownSubmetric)
			})
		})

		Convey("When two definitions share a name", func() {
			bad := append(defs, catalog.Count("passes_attempted", func(model.Event) bool { return true }))
			_, err := catalog.New(bad)

			Convey("Then loading fails", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, catalog.ErrInvalidDefinition)
			})
		})
	})
}

func TestCatalog_Derive(t *testing.T) {
	Convey("Given a catalog with a ratio metric", t, func() {
		defs := []catalog.Definition{
			catalog.Count("shots_total", func(e model.Event) bool { return e.Type == model.ActionShot }),
			catalog.Sum("xg_total", func(e model.Event) float64 { return e.XG }, func(e model.Event) bool { return e.Type == model.ActionShot }),
			catalog.Ratio("xg_per_shot", "xg_total", "shots_total"),
		}
		cat, err := catalog.New(defs)
		So(err, ShouldBeNil)

		Convey("When deriving from nonzero totals", func() {
			out := cat.Derive(map[string]float64{"shots_total": 10, "xg_total": 1.5})

			Convey("Then the ratio is computed and inputs are untouched", func() {
				So(out["xg_per_shot"], ShouldAlmostEqual, 0.15)
				So(out["shots_total"], ShouldEqual, 10)
			})
		})

		Convey("When the denominator is zero", func() {
			out := cat.Derive(map[string]float64{"shots_total": 0, "xg_total": 0})

			Convey("Then the ratio derives to zero instead of a division artifact", func() {
				So(out["xg_per_shot"], ShouldEqual, 0)
			})
		})
	})
}

func TestCatalog_Default(t *testing.T) {
	Convey("Given the stock catalog", t, func() {
		cat, err := catalog.Default()

		Convey("Then it loads without validation errors", func() {
			So(err, ShouldBeNil)
		})

		Convey("Then every composite resolves to a volume and a quality sub-metric", func() {
			So(err, ShouldBeNil)
			for _, comp := range cat.Composites() {
				vol, ok := cat.Lookup(comp.VolumeRef)
				So(ok, ShouldBeTrue)
				So(vol.Class, ShouldEqual, catalog.ClassVolume)
				qual, ok := cat.Lookup(comp.QualityRef)
				So(ok, ShouldBeTrue)
				So(qual.Class, ShouldEqual, catalog.ClassQuality)
			}
		})

		Convey("Then ratio metrics are exempt from p90 scaling", func() {
			So(err, ShouldBeNil)
			for _, q := range cat.Qualities() {
				So(q.PerNinety, ShouldBeFalse)
			}
		})

		Convey("Then discipline metrics rank lower-is-better", func() {
			So(err, ShouldBeNil)
			d, ok := cat.Lookup("fouls_committed")
			So(ok, ShouldBeTrue)
			So(d.LowerIsBetter, ShouldBeTrue)
		})
	})
}
