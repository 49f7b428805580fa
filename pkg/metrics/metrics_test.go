package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsOptions(t *testing.T) {
	Convey("Given metrics options", t, func() {
		Convey("When creating options", func() {
			namespaceOpt := WithNamespace("test-namespace")
			subsystemOpt := WithSubsystem("test-subsystem")
			histogramBucketsOpt := WithHistogramBuckets([]float64{0.1, 0.5, 1.0})
			registryOpt := WithPrometheusRegistry(prometheus.NewRegistry())

			Convey("Then they should be valid functions", func() {
				So(namespaceOpt, ShouldNotBeNil)
				So(subsystemOpt, ShouldNotBeNil)
				So(histogramBucketsOpt, ShouldNotBeNil)
				So(registryOpt, ShouldNotBeNil)
			})
		})
	})
}

func TestManagerCreation(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		Convey("When creating with a private registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})

			Convey("And its collectors should be registered on that registry", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(families, ShouldNotBeNil)
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithPrometheusRegistry(registry),
				WithNamespace("custom"),
				WithSubsystem("analytics"),
				WithHistogramBuckets([]float64{1, 10, 100}),
			)

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording pipeline activity", func() {
			RecordEventsClassified(10)
			RecordBatchAggregated()
			RecordBatchDuplicate()
			RecordAggregationLatency(12.5)
			RecordRankingComputed()
			RecordRankingLatency(3.0)

			UpdateEntityCount(4)
			UpdateMatchCount(2)
			UpdateQueueSize(7)
			UpdateQueueCapacity(100)
			UpdateQueueUtilization(0.07)
			RecordQueueEnqueue()
			RecordQueueDequeue()
			RecordQueueError()
			UpdateWorkerCount(8)
			RecordWorkerLatency(1.0)
			RecordWorkerError()
			UpdateSystemMemoryUsage(1 << 20)
			UpdateSystemGoroutineCount(42)
			RecordHTTPRequest("rankings", "GET", "200")
			RecordHTTPRequestDuration("rankings", "GET", "200", 4.2)
			RecordErrorByComponent("http", "client_error")

			Convey("Then the registry gathers without errors", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}
