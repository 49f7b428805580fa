package cluster_test

import (
	"testing"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/cluster"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func entity(team string) model.EntityID {
	return model.EntityID{TeamID: team, ManagerID: "m"}
}

// twoStyles builds two well-separated style profiles: possession sides with
// many passes and few crosses, and direct sides with the opposite shape.
func twoStyles() []cluster.Point {
	return []cluster.Point{
		{Entity: entity("napoli"), Features: []float64{620, 4, 11}},
		{Entity: entity("juventus"), Features: []float64{600, 5, 10}},
		{Entity: entity("inter"), Features: []float64{640, 6, 12}},
		{Entity: entity("atalanta"), Features: []float64{310, 24, 2}},
		{Entity: entity("torino"), Features: []float64{290, 22, 3}},
		{Entity: entity("verona"), Features: []float64{300, 25, 2}},
	}
}

func styleFeatures() []string {
	return []string{"passes_attempted", "crosses_attempted", "buildup_passes"}
}

func groupOf(result *cluster.Result, team string) int {
	for _, g := range result.Groups {
		for _, m := range g.Members {
			if m.Entity.TeamID == team {
				return g.ID
			}
		}
	}
	return -1
}

func TestClusterer_Fit(t *testing.T) {
	Convey("Given two clearly separated style profiles", t, func() {
		c := cluster.New(styleFeatures(), cluster.WithK(2))
		points := twoStyles()

		Convey("When fitting two groups", func() {
			result, err := c.Fit(points)

			Convey("Then each profile lands in its own group", func() {
				So(err, ShouldBeNil)
				So(result.K, ShouldEqual, 2)
				So(result.Groups, ShouldHaveLength, 2)
				So(groupOf(result, "napoli"), ShouldEqual, groupOf(result, "juventus"))
				So(groupOf(result, "napoli"), ShouldEqual, groupOf(result, "inter"))
				So(groupOf(result, "atalanta"), ShouldEqual, groupOf(result, "torino"))
				So(groupOf(result, "napoli"), ShouldNotEqual, groupOf(result, "atalanta"))
			})

			Convey("Then the separation scores a high silhouette", func() {
				So(err, ShouldBeNil)
				So(result.Silhouette, ShouldBeGreaterThan, 0.8)
				So(result.Silhouette, ShouldBeLessThanOrEqualTo, 1)
			})

			Convey("Then every group carries traits and a label", func() {
				So(err, ShouldBeNil)
				for _, g := range result.Groups {
					So(g.Traits, ShouldNotBeEmpty)
					So(g.Label, ShouldNotBeBlank)
					So(g.Centroid, ShouldHaveLength, len(styleFeatures()))
				}
			})

			Convey("Then group members stay in identifier order", func() {
				So(err, ShouldBeNil)
				for _, g := range result.Groups {
					for i := 1; i < len(g.Members); i++ {
						So(g.Members[i-1].Entity.Less(g.Members[i].Entity), ShouldBeTrue)
					}
				}
			})
		})

		Convey("When fitting the same set twice", func() {
			first, err1 := c.Fit(points)
			second, err2 := c.Fit(points)

			Convey("Then the grouping is identical", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})
		})

		Convey("When asking for more groups than entities", func() {
			_, err := cluster.New(styleFeatures(), cluster.WithK(7)).Fit(points)

			Convey("Then fitting fails for lack of data", func() {
				So(err, ShouldWrap, cluster.ErrInsufficientData)
			})
		})

		Convey("When a point carries the wrong number of features", func() {
			broken := append(points, cluster.Point{Entity: entity("carpi"), Features: []float64{1}})
			_, err := c.Fit(broken)

			Convey("Then fitting fails on the mismatched vector", func() {
				So(err, ShouldWrap, cluster.ErrFeatureMismatch)
			})
		})
	})

	Convey("Given a single entity", t, func() {
		c := cluster.New(styleFeatures(), cluster.WithK(2))

		Convey("When fitting", func() {
			_, err := c.Fit([]cluster.Point{{Entity: entity("napoli"), Features: []float64{1, 2, 3}}})

			Convey("Then there is nothing to separate", func() {
				So(err, ShouldWrap, cluster.ErrInsufficientData)
			})
		})
	})
}

func TestClusterer_OptimalK(t *testing.T) {
	Convey("Given two clearly separated style profiles", t, func() {
		c := cluster.New(styleFeatures())
		points := twoStyles()

		Convey("When searching k in [2, 5]", func() {
			k, err := c.OptimalK(points, 2, 5)

			Convey("Then the silhouette picks two groups", func() {
				So(err, ShouldBeNil)
				So(k, ShouldEqual, 2)
			})
		})

		Convey("When the range cannot fit the comparison set", func() {
			_, err := c.OptimalK(points[:1], 2, 5)

			Convey("Then the search fails for lack of data", func() {
				So(err, ShouldWrap, cluster.ErrInsufficientData)
			})
		})
	})
}
