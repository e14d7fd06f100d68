package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		registry := prometheus.NewRegistry()

		Convey("When creating a manager with default options", func() {
			m := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the default configuration", func() {
				So(m, ShouldNotBeNil)
				So(m.Enabled(), ShouldBeTrue)
				So(m.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
				So(m.namespace, ShouldEqual, "talentscope")
			})
		})

		Convey("When creating a manager with custom options", func() {
			m := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithMetricPrefix("pre"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithRefreshInterval(3*time.Second),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			m.RecordEvaluationRecorded("match")

			Convey("Then collectors should carry the prefix and constant labels", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				found := false
				for _, f := range families {
					if f.GetName() == "test_unit_pre_recorded_total" {
						found = true
						So(f.GetMetric()[0].GetLabel(), ShouldNotBeEmpty)
					}
				}
				So(found, ShouldBeTrue)
				So(m.RefreshInterval(), ShouldEqual, 3*time.Second)
			})
		})

		Convey("When creating a manager with invalid option values", func() {
			m := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithRefreshInterval(-time.Second),
				WithCustomLabels(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the defaults should be kept", func() {
				So(m.namespace, ShouldEqual, "talentscope")
				So(m.subsystem, ShouldEqual, "evaluations")
				So(m.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
				So(m.RefreshInterval(), ShouldEqual, defaultRefreshInterval)
			})
		})
	})
}

func TestManagerRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When recording evaluation outcomes", func() {
			m.RecordEvaluationRecorded("scouting")
			m.RecordEvaluationRecorded("scouting")
			m.RecordEvaluationRejected("score_out_of_range")
			m.RecordGrade("A")
			m.RecordTrend("improving")

			Convey("Then the counters should reflect them", func() {
				So(testutil.ToFloat64(m.evaluationsRecorded.WithLabelValues("scouting")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.evaluationsRejected.WithLabelValues("score_out_of_range")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.gradeAssignments.WithLabelValues("A")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.trendClassifications.WithLabelValues("improving")), ShouldEqual, 1)
			})
		})

		Convey("When recording queries", func() {
			m.RecordQuery("history", "hit", 1.5)
			m.RecordQuery("history", "miss", 0.5)

			Convey("Then each outcome should be counted", func() {
				So(testutil.ToFloat64(m.queries.WithLabelValues("history", "hit")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.queries.WithLabelValues("history", "miss")), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("When recording observations", func() {
			m.RecordEvaluationRecorded("match")
			m.RecordQuery("latest", "hit", 1)

			Convey("Then nothing should be counted", func() {
				So(m.Enabled(), ShouldBeFalse)
				So(testutil.ToFloat64(m.evaluationsRecorded.WithLabelValues("match")), ShouldEqual, 0)
				So(testutil.ToFloat64(m.queries.WithLabelValues("latest", "hit")), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When updating store gauges", func() {
			UpdateStoreEvaluations(12)
			UpdateStorePlayers(4)
			UpdateStoreReports(3)

			Convey("Then the gauges should hold the latest values", func() {
				So(testutil.ToFloat64(global().storeEvaluations), ShouldEqual, 12)
				So(testutil.ToFloat64(global().storePlayers), ShouldEqual, 4)
				So(testutil.ToFloat64(global().storeReports), ShouldEqual, 3)
			})
		})

		Convey("When recording with edge values", func() {
			Convey("Then nothing should panic", func() {
				So(func() {
					RecordHTTPRequest("", "", "200")
					RecordHTTPRequestDuration("/players/{id}/history", "GET", "200", 0)
					RecordErrorByComponent("", "")
					RecordScoringLatency(0)
					RecordStoreAppendLatency(0)
					RecordStoreSnapshotLatency(10000)
					RecordSeedRecordsLoaded("evaluations", 0)
					RecordReportRegistered()
					RecordReportCompleted()
					UpdateSystemMemoryUsage(0)
					UpdateSystemGoroutineCount(1)
					RecordSystemGCPauseTime(0.2)
				}, ShouldNotPanic)
			})
		})

		Convey("When recording concurrently", func() {
			done := make(chan bool, 10)
			for i := 0; i < 10; i++ {
				go func() {
					for j := 0; j < 100; j++ {
						RecordEvaluationRecorded("camp")
						RecordQuery("trend", "hit", float64(j))
						RecordHTTPRequest("/candidates", "GET", "200")
					}
					done <- true
				}()
			}
			for i := 0; i < 10; i++ {
				<-done
			}

			Convey("Then the registry should still gather", func() {
				_, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
			})
		})
	})
}

func TestConfigure(t *testing.T) {
	Convey("Given the global manager reconfigured with a new namespace", t, func() {
		previous := GetRegistry()
		registry := Configure(WithNamespace("scouting"), WithRefreshInterval(2*time.Second))
		Reset(func() { Configure() })

		Convey("When recording through the package helpers", func() {
			RecordReportRegistered()

			Convey("Then the new registry should carry the renamed collector", func() {
				So(GetRegistry(), ShouldEqual, registry)
				So(registry, ShouldNotEqual, previous)
				So(RefreshInterval(), ShouldEqual, 2*time.Second)

				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "scouting_evaluations_reports_registered_total")
			})
		})

		Convey("When the manager is disabled", func() {
			registry := Configure(WithMetricsEnabled(false))
			RecordReportCompleted()

			Convey("Then observations should be ignored", func() {
				So(testutil.ToFloat64(global().reportsCompleted), ShouldEqual, 0)
				So(GetRegistry(), ShouldEqual, registry)
			})
		})
	})
}
