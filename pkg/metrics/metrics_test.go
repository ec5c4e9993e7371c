package metrics

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it uses the dashboard namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				manager.exports.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "enow_dashboard_exports_total")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			labels := map[string]string{"env": "test"}
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithLatencyBuckets([]float64{1, 10, 100}),
				WithRefreshInterval(5*time.Second),
				WithConstLabels(labels),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				labels["env"] = "changed"
				So(manager.RefreshInterval(), ShouldEqual, 5*time.Second)
				So(manager.latencyBuckets, ShouldResemble, []float64{1, 10, 100})
				manager.chartsRendered.WithLabelValues("waffle").Inc()
				expected := `
# HELP test_unit_charts_rendered_total Charts rendered by kind
# TYPE test_unit_charts_rendered_total counter
test_unit_charts_rendered_total{chart="waffle",env="test"} 1
`
				err := testutil.GatherAndCompare(registry, strings.NewReader(expected), "test_unit_charts_rendered_total")
				So(err, ShouldBeNil)
			})
		})

		Convey("When empty options are given", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithLatencyBuckets(nil),
				WithRefreshInterval(0),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "enow")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(manager.latencyBuckets, ShouldResemble, defaultLatencyBuckets)
				So(manager.refreshInterval, ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When table metrics are recorded", func() {
			UpdateTableRows("national", 3)
			RecordTableLoad("national", "csv", 1.5)
			before := testutil.ToFloat64(globalManager.tableLoadErrors.WithLabelValues("state"))
			RecordTableLoadError("state")

			Convey("Then they are visible", func() {
				So(testutil.ToFloat64(globalManager.tableRows.WithLabelValues("national")), ShouldEqual, 3)
				So(testutil.ToFloat64(globalManager.tableLoadErrors.WithLabelValues("state")), ShouldEqual, before+1)
			})
		})

		Convey("When breakdowns are recorded", func() {
			before := testutil.ToFloat64(globalManager.breakdowns.WithLabelValues("two", "ok"))
			RecordBreakdown("two", "ok", 0.2)
			RecordBreakdown("six", "no_data", 0.1)

			Convey("Then each mode and status is counted", func() {
				So(testutil.ToFloat64(globalManager.breakdowns.WithLabelValues("two", "ok")), ShouldEqual, before+1)
			})
		})

		Convey("When rendering and request metrics are recorded", func() {
			So(func() {
				RecordSummaryLatency(0.3)
				RecordChartRendered("bar")
				RecordChartError("treemap")
				RecordAssetMissing("map")
				RecordExport()
				RecordHTTPRequest("/api/summary", "GET", "200")
				RecordHTTPRequestDuration("/api/summary", "GET", "200", 4.0)
				RecordErrorByEndpoint("/api/breakdown", "GET", "client_error")
				UpdateSystemMemoryUsage(1024 * 1024)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.5)
			}, ShouldNotPanic)
			So(RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			So(GetRegistry(), ShouldEqual, customRegistry)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given metrics recorded from many goroutines", t, func() {
		before := testutil.ToFloat64(globalManager.chartsRendered.WithLabelValues("concurrent"))
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 100; j++ {
					RecordChartRendered("concurrent")
					RecordHTTPRequest("/test", "GET", "200")
				}
			}()
		}
		wg.Wait()

		Convey("Then no increments are lost", func() {
			So(testutil.ToFloat64(globalManager.chartsRendered.WithLabelValues("concurrent")), ShouldEqual, before+1000)
		})
	})
}
