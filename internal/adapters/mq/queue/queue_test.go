package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/alessandrofrai/serie-a-analytics/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryQueue(t *testing.T) {
	Convey("Given a small bounded queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(2))
		ctx := context.Background()

		Convey("When enqueuing within capacity", func() {
			ok1 := q.Enqueue(ctx, queue.Batch{BatchID: "b1", MatchID: "m1"})
			ok2 := q.Enqueue(ctx, queue.Batch{BatchID: "b2", MatchID: "m2"})

			Convey("Then both are accepted", func() {
				So(ok1, ShouldBeTrue)
				So(ok2, ShouldBeTrue)
				So(q.Len(ctx), ShouldEqual, 2)
			})

			Convey("And a third enqueue is rejected on backpressure", func() {
				So(q.Enqueue(ctx, queue.Batch{BatchID: "b3"}), ShouldBeFalse)
			})
		})

		Convey("When dequeuing", func() {
			q.Enqueue(ctx, queue.Batch{BatchID: "b1", MatchID: "m1"})

			Convey("Then batches come out in order", func() {
				select {
				case b := <-q.Dequeue(ctx):
					So(b.BatchID, ShouldEqual, "b1")
				case <-time.After(time.Second):
					t.Fatal("timed out waiting for batch")
				}
			})
		})

		Convey("When the queue is closed", func() {
			So(q.Close(), ShouldBeNil)

			Convey("Then enqueues fail and the state reads closed", func() {
				So(q.IsClosed(), ShouldBeTrue)
				So(q.Enqueue(ctx, queue.Batch{BatchID: "late"}), ShouldBeFalse)
			})

			Convey("And closing again is a no-op", func() {
				So(q.Close(), ShouldBeNil)
			})

			Convey("And the dequeue channel drains then closes", func() {
				ch := q.Dequeue(ctx)
				select {
				case _, open := <-ch:
					So(open, ShouldBeFalse)
				case <-time.After(time.Second):
					t.Fatal("dequeue channel did not close")
				}
			})
		})
	})
}
