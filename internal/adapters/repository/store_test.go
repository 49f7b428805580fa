package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/repository"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/aggregate"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/catalog"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/model"
	"github.com/alessandrofrai/serie-a-analytics/internal/domain/pitch"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestAggregator(t *testing.T) *aggregate.Aggregator {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return aggregate.New(cat, pitch.New())
}

func matchPartial(agg *aggregate.Aggregator, matchID, teamID, managerID string, shots int) *aggregate.Result {
	events := make([]model.Event, 0, shots)
	for i := 0; i < shots; i++ {
		events = append(events, model.Event{
			MatchID: matchID, TeamID: teamID, ManagerID: managerID,
			PlayerID: "p1", Type: model.ActionShot, Success: true,
			X: 110, Y: 40, XG: 0.2,
		})
	}
	apps := []model.Appearance{{MatchID: matchID, TeamID: teamID, ManagerID: managerID, Minutes: 90}}
	return agg.AggregateMatch(matchID, events, apps)
}

func TestResultStore(t *testing.T) {
	Convey("Given an empty result store", t, func() {
		ctx := context.Background()
		agg := newTestAggregator(t)
		store := repository.NewResultStore(agg)

		Convey("When merging partials for two matches", func() {
			So(store.MergeResult(ctx, matchPartial(agg, "m1", "milan", "pioli", 3)), ShouldBeNil)
			So(store.MergeResult(ctx, matchPartial(agg, "m2", "milan", "pioli", 2)), ShouldBeNil)

			Convey("Then the full window sums both matches", func() {
				w, err := store.Window(ctx)
				So(err, ShouldBeNil)
				milan := model.EntityID{TeamID: "milan", ManagerID: "pioli"}
				So(w.Totals[milan]["shots_total"], ShouldEqual, 5)
				So(w.Minutes[milan], ShouldEqual, 180)
			})

			Convey("Then a single-match window sees only that match", func() {
				w, err := store.Window(ctx, "m2")
				So(err, ShouldBeNil)
				milan := model.EntityID{TeamID: "milan", ManagerID: "pioli"}
				So(w.Totals[milan]["shots_total"], ShouldEqual, 2)
				So(w.Minutes[milan], ShouldEqual, 90)
			})

			Convey("Then match and entity counts reflect the merges", func() {
				So(store.Matches(ctx), ShouldResemble, []string{"m1", "m2"})
				So(store.MatchCount(ctx), ShouldEqual, 2)
				So(store.EntityCount(ctx), ShouldEqual, 1)
			})
		})

		Convey("When merging concurrently from many goroutines", func() {
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					matchID := "m" + string(rune('a'+i%5))
					_ = store.MergeResult(ctx, matchPartial(agg, matchID, "inter", "inzaghi", 1))
				}(i)
			}
			wg.Wait()

			Convey("Then the totals account for every merge", func() {
				w, err := store.Window(ctx)
				So(err, ShouldBeNil)
				inter := model.EntityID{TeamID: "inter", ManagerID: "inzaghi"}
				So(w.Totals[inter]["shots_total"], ShouldEqual, 20)
				So(store.MatchCount(ctx), ShouldEqual, 5)
			})
		})

		Convey("When nothing has been merged", func() {
			Convey("Then the window is empty and counts are zero", func() {
				w, err := store.Window(ctx)
				So(err, ShouldBeNil)
				So(w.Entities(), ShouldBeEmpty)
				So(store.EntityCount(ctx), ShouldEqual, 0)
			})
		})
	})
}
