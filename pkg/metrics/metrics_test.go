package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.cacheHits.Inc()

			Convey("Then metrics should register under the configured names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := map[string]bool{}
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["test_unit_cache_hits_total"], ShouldBeTrue)
				So(testutil.ToFloat64(manager.cacheHits), ShouldEqual, 1)
			})
		})

		Convey("When two managers share a registry", func() {
			registry := prometheus.NewRegistry()
			NewManager(WithPrometheusRegistry(registry))

			Convey("Then the second registration should panic", func() {
				So(func() { NewManager(WithPrometheusRegistry(registry)) }, ShouldPanic)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording source and cache metrics", func() {
			fetched := testutil.ToFloat64(globalManager.recordsFetched.WithLabelValues("file"))
			dups := testutil.ToFloat64(globalManager.recordsDuplicate)
			hits := testutil.ToFloat64(globalManager.cacheHits)
			misses := testutil.ToFloat64(globalManager.cacheMisses)

			RecordRecordsFetched("file", 12)
			RecordDuplicateRecords(2)
			RecordCacheHit()
			RecordCacheMiss()
			UpdateCacheEntries(4)

			Convey("Then the counters should move by the recorded amounts", func() {
				So(testutil.ToFloat64(globalManager.recordsFetched.WithLabelValues("file")), ShouldEqual, fetched+12)
				So(testutil.ToFloat64(globalManager.recordsDuplicate), ShouldEqual, dups+2)
				So(testutil.ToFloat64(globalManager.cacheHits), ShouldEqual, hits+1)
				So(testutil.ToFloat64(globalManager.cacheMisses), ShouldEqual, misses+1)
				So(testutil.ToFloat64(globalManager.cacheEntries), ShouldEqual, 4)
			})
		})

		Convey("When recording optimizations", func() {
			before := testutil.ToFloat64(globalManager.optimizations.WithLabelValues("7x7", "ok"))
			RecordOptimization("7x7", "ok")
			RecordOptimizationDuration("7x7", 0.002)
			RecordLineupGreedyGap(0.3)

			Convey("Then the outcome should be counted by format and result", func() {
				So(testutil.ToFloat64(globalManager.optimizations.WithLabelValues("7x7", "ok")), ShouldEqual, before+1)
			})
		})

		Convey("When recording the remaining metrics", func() {
			Convey("Then none of them should panic", func() {
				So(func() {
					RecordLookupReload()
					RecordAggregation("machine_stats", 0.01)
					UpdateMachineStatsRows(12)
					RecordCacheEvictions(3)
					RecordHTTPRequest("/optimize", "POST", "200")
					RecordHTTPRequestDuration("/optimize", "POST", "200", 0.01)
					RecordErrorByComponent("service", "source")
					UpdateSystemMemoryUsage(1 << 20)
					UpdateSystemGoroutineCount(8)
				}, ShouldNotPanic)
				So(testutil.ToFloat64(globalManager.machineStatsRows), ShouldEqual, 12)
			})
		})

		Convey("When gathering the registry", func() {
			RecordCacheHit()
			families, err := GetRegistry().Gather()

			Convey("Then flipper metrics should be exposed", func() {
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "flipper_strategy_cache_hits_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}
