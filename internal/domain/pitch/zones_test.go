package pitch_test

import (
	"testing"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/pitch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClassifier_Classify(t *testing.T) {
	Convey("Given a classifier for the standard pitch", t, func() {
		c := pitch.New()

		Convey("When classifying the four corners", func() {
			Convey("Then each lands in its corner zone", func() {
				So(c.Classify(0, 0), ShouldEqual, 1)
				So(c.Classify(0, 80), ShouldEqual, 3)
				So(c.Classify(120, 0), ShouldEqual, 16)
				So(c.Classify(120, 80), ShouldEqual, 18)
			})
		})

		Convey("When classifying the center spot", func() {
			Convey("Then it falls in a middle-third central zone", func() {
				zone := c.Classify(60, 40)
				So(zone, ShouldEqual, 11)
				So(pitch.ThirdOf(zone), ShouldEqual, pitch.ThirdProgression)
			})
		})

		Convey("When classifying out-of-domain coordinates", func() {
			Convey("Then they are clamped to the nearest edge", func() {
				So(c.Classify(-10, -5), ShouldEqual, c.Classify(0, 0))
				So(c.Classify(500, 500), ShouldEqual, c.Classify(120, 80))
				So(c.Classify(60, -1), ShouldEqual, c.Classify(60, 0))
			})
		})

		Convey("When sweeping the whole valid domain", func() {
			Convey("Then every point maps to exactly one of the 18 zones", func() {
				for x := 0.0; x <= 120.0; x += 2.5 {
					for y := 0.0; y <= 80.0; y += 2.5 {
						zone := c.Classify(x, y)
						So(zone, ShouldBeGreaterThanOrEqualTo, 1)
						So(zone, ShouldBeLessThanOrEqualTo, pitch.ZoneCount)
					}
				}
			})
		})

		Convey("When classifying the same point twice", func() {
			Convey("Then classification is idempotent", func() {
				So(c.Classify(37.2, 64.1), ShouldEqual, c.Classify(37.2, 64.1))
			})
		})

		Convey("When checking lateral symmetry", func() {
			Convey("Then mirrored points land in mirrored zones of the same band", func() {
				// Zones n and n+2 within a band mirror across the lateral axis.
				left := c.Classify(10, 5)
				right := c.Classify(10, 75)
				So(right-left, ShouldEqual, 2)
			})
		})
	})
}

func TestThirds(t *testing.T) {
	Convey("Given the fixed zone partition", t, func() {
		Convey("When grouping zones by third", func() {
			Convey("Then zones 1-6 are buildup, 7-12 progression, 13-18 finishing", func() {
				So(pitch.ZonesIn(pitch.ThirdBuildup), ShouldResemble, []int{1, 2, 3, 4, 5, 6})
				So(pitch.ZonesIn(pitch.ThirdProgression), ShouldResemble, []int{7, 8, 9, 10, 11, 12})
				So(pitch.ZonesIn(pitch.ThirdFinishing), ShouldResemble, []int{13, 14, 15, 16, 17, 18})
			})

			Convey("And ThirdOf agrees with the grouping", func() {
				for _, z := range pitch.ZonesIn(pitch.ThirdBuildup) {
					So(pitch.ThirdOf(z), ShouldEqual, pitch.ThirdBuildup)
				}
				for _, z := range pitch.ZonesIn(pitch.ThirdFinishing) {
					So(pitch.ThirdOf(z), ShouldEqual, pitch.ThirdFinishing)
				}
			})
		})
	})
}
