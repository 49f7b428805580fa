package topsis_test

import (
	"testing"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/topsis"
	. "github.com/smartystreets/goconvey/convey"
)

func entity(team string) model.EntityID {
	return model.EntityID{TeamID: team, ManagerID: "m"}
}

func TestRanker_Rank(t *testing.T) {
	Convey("Given a ranker with the default 35/65 weights", t, func() {
		ranker := topsis.New()

		Convey("When one entity dominates both criteria", func() {
			candidates := []topsis.Candidate{
				{Entity: entity("napoli"), Volume: 3.0, Quality: 0.2},
				{Entity: entity("carpi"), Volume: 2.0, Quality: 0.1},
			}
			ranked, err := ranker.Rank(candidates, false)

			Convey("Then it ranks first with the dominated entity last", func() {
				So(err, ShouldBeNil)
				So(ranked[0].Entity, ShouldResemble, entity("napoli"))
				So(ranked[1].Entity, ShouldResemble, entity("carpi"))
				So(ranked[0].Rank, ShouldEqual, 1)
				So(ranked[1].Rank, ShouldEqual, 2)
			})

			Convey("Then all scores stay within [0,1]", func() {
				So(err, ShouldBeNil)
				for _, row := range ranked {
					So(row.Score, ShouldBeBetweenOrEqual, 0, 1)
				}
			})
		})

		Convey("When ranking a three-entity comparison set", func() {
			candidates := []topsis.Candidate{
				{Entity: entity("a"), Volume: 0.6, Quality: 0.2},
				{Entity: entity("b"), Volume: 0.3, Quality: 0.5},
				{Entity: entity("c"), Volume: 0.1, Quality: 0.3},
			}

			first, err1 := ranker.Rank(candidates, false)
			second, err2 := ranker.Rank(candidates, false)

			Convey("Then re-running produces bit-identical scores", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(first, ShouldResemble, second)
			})

			Convey("Then the order is deterministic and strictly scored", func() {
				So(err1, ShouldBeNil)
				So(first[0].Score, ShouldBeGreaterThanOrEqualTo, first[1].Score)
				So(first[1].Score, ShouldBeGreaterThanOrEqualTo, first[2].Score)
			})
		})

		Convey("When the comparison set has a single entity", func() {
			ranked, err := ranker.Rank([]topsis.Candidate{
				{Entity: entity("juventus"), Volume: 5, Quality: 0.9},
			}, false)

			Convey("Then the degenerate score is exactly 0.5", func() {
				So(err, ShouldBeNil)
				So(len(ranked), ShouldEqual, 1)
				So(ranked[0].Score, ShouldEqual, 0.5)
				So(ranked[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When the comparison set is empty", func() {
			_, err := ranker.Rank(nil, false)

			Convey("Then ranking fails with the empty-set kind", func() {
				So(err, ShouldNotBeNil)
				So(err, ShouldWrap, topsis.ErrEmptyComparisonSet)
			})
		})

		Convey("When adding a tied duplicate of the leader", func() {
			base := []topsis.Candidate{
				{Entity: entity("napoli"), Volume: 3.0, Quality: 0.3},
				{Entity: entity("torino"), Volume: 1.0, Quality: 0.1},
			}
			withDup := append(append([]topsis.Candidate{}, base...),
				topsis.Candidate{Entity: entity("zebre"), Volume: 3.0, Quality: 0.3})

			ranked, err := ranker.Rank(withDup, false)

			Convey("Then the original relative order is preserved", func() {
				So(err, ShouldBeNil)
				var napoliRank, torinoRank int
				for _, row := range ranked {
					switch row.Entity.TeamID {
					case "napoli":
						napoliRank = row.Rank
					case "torino":
						torinoRank = row.Rank
					}
				}
				So(napoliRank, ShouldBeLessThan, torinoRank)
			})

			Convey("Then tied scores break by entity identifier", func() {
				So(err, ShouldBeNil)
				So(ranked[0].Entity.TeamID, ShouldEqual, "napoli")
				So(ranked[1].Entity.TeamID, ShouldEqual, "zebre")
				So(ranked[0].Score, ShouldAlmostEqual, ranked[1].Score)
			})
		})

		Convey("When ranking a lower-is-better metric", func() {
			candidates := []topsis.Candidate{
				{Entity: entity("clean"), Volume: 5, Quality: 0.1},
				{Entity: entity("dirty"), Volume: 20, Quality: 0.4},
			}
			ranked, err := ranker.Rank(candidates, true)

			Convey("Then the smaller values win", func() {
				So(err, ShouldBeNil)
				So(ranked[0].Entity.TeamID, ShouldEqual, "clean")
			})
		})
	})
}

func TestRanker_WithWeights(t *testing.T) {
	Convey("Given a ranker with quality-only weighting", t, func() {
		ranker := topsis.New(topsis.WithWeights(0.01, 0.99))

		Convey("When volume and quality disagree", func() {
			candidates := []topsis.Candidate{
				{Entity: entity("volume_side"), Volume: 100, Quality: 0.1},
				{Entity: entity("quality_side"), Volume: 10, Quality: 0.9},
			}
			ranked, err := ranker.Rank(candidates, false)

			Convey("Then the quality criterion decides", func() {
				So(err, ShouldBeNil)
				So(ranked[0].Entity.TeamID, ShouldEqual, "quality_side")
			})
		})
	})
}

func TestRanker_RankWeighted(t *testing.T) {
	Convey("Given a ranker with the default weights", t, func() {
		ranker := topsis.New()
		candidates := []topsis.Candidate{
			{Entity: entity("volume_side"), Volume: 100, Quality: 0.1},
			{Entity: entity("quality_side"), Volume: 10, Quality: 0.9},
		}

		Convey("When a definition declares volume-heavy weights", func() {
			ranked, err := ranker.RankWeighted(candidates, catalog.Weights{Volume: 0.99, Quality: 0.01}, false)

			Convey("Then the declared weights decide, not the defaults", func() {
				So(err, ShouldBeNil)
				So(ranked[0].Entity.TeamID, ShouldEqual, "volume_side")
			})
		})

		Convey("When a definition carries no weights", func() {
			ranked, err := ranker.RankWeighted(candidates, catalog.Weights{}, false)

			Convey("Then the ranker's defaults apply", func() {
				So(err, ShouldBeNil)
				So(ranked[0].Entity.TeamID, ShouldEqual, "quality_side")
			})
		})
	})
}
