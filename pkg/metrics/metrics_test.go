package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("board"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then collectors are registered under the namespace", func() {
				So(m, ShouldNotBeNil)
				m.rowsNormalized.Add(3)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_board_rows_normalized_total")
			})
		})
	})
}

func TestGlobalRecorders(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording engine activity", func() {
			before := testutil.ToFloat64(globalManager.rowsNormalized)
			RecordRowsNormalized(4)
			RecordRowRejected("malformed")
			RecordEventRanked()
			UpdateCompetitors("men", 12)

			Convey("Then the counters move", func() {
				So(testutil.ToFloat64(globalManager.rowsNormalized), ShouldEqual, before+4)
				So(testutil.ToFloat64(globalManager.rowsRejected.WithLabelValues("malformed")), ShouldBeGreaterThanOrEqualTo, 1)
				So(testutil.ToFloat64(globalManager.competitors.WithLabelValues("men")), ShouldEqual, 12)
			})
		})

		Convey("When recording a failed refresh", func() {
			RecordRefresh("ok", 12, 1000)
			RecordRefresh("failed", 5, 2000)

			Convey("Then the last refresh time keeps the successful one", func() {
				So(testutil.ToFloat64(globalManager.lastRefreshUnix), ShouldEqual, 1000)
			})
		})

		Convey("When recording fetches and HTTP traffic", func() {
			So(func() {
				RecordFetch("1", "ok", 3)
				UpdateFetchWorkers(4)
				RecordHTTPRequest("leaderboard", "GET", "200")
				RecordHTTPRequestDuration("leaderboard", "GET", "200", 1.5)
				RecordErrorByComponent("source", "fetch")
				RecordErrorByEndpoint("rank", "GET", "not_found")
				UpdateSystemMemoryUsage(1024)
				UpdateSystemGoroutineCount(8)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)

			UpdateFetchQueueSize(3)
			So(testutil.ToFloat64(globalManager.fetchQueue), ShouldEqual, 3)
		})
	})
}
