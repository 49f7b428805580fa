package dedupe_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alessandrofrai/serie-a-analytics/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a bounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()

		Convey("When recording a fresh batch id", func() {
			seen := d.SeenAndRecord(ctx, "batch-1")

			Convey("Then it is not seen and gets recorded", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})

			Convey("And recording it again reports a duplicate", func() {
				So(d.SeenAndRecord(ctx, "batch-1"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When the ring wraps past its capacity", func() {
			for i := 0; i < 5; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("batch-%d", i))
			}

			Convey("Then the oldest ids are evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, "batch-0"), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, "batch-4"), ShouldBeTrue)
			})
		})

		Convey("When unrecording after a failed enqueue", func() {
			d.SeenAndRecord(ctx, "batch-x")
			d.Unrecord(ctx, "batch-x")

			Convey("Then the id can be retried", func() {
				So(d.SeenAndRecord(ctx, "batch-x"), ShouldBeFalse)
			})
		})

		Convey("When a retried id's old ring slot is reused", func() {
			d.SeenAndRecord(ctx, "batch-a")
			d.Unrecord(ctx, "batch-a")
			d.SeenAndRecord(ctx, "batch-a")
			d.SeenAndRecord(ctx, "batch-b")
			d.SeenAndRecord(ctx, "batch-c")

			Convey("Then the retried id survives until its own turn", func() {
				So(d.SeenAndRecord(ctx, "batch-a"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "batch-b"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "batch-c"), ShouldBeTrue)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When recording many ids", func() {
			for i := 0; i < 1000; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("batch-%d", i))
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, "batch-0"), ShouldBeTrue)
			})
		})
	})
}
