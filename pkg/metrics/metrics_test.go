package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created with the hoops namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "hoops")
				So(manager.subsystem, ShouldEqual, "dashboard")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("sub"),
				WithHistogramBuckets([]float64{1, 2}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "sub")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty option values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "hoops")
				So(manager.subsystem, ShouldEqual, "dashboard")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics helpers", t, func() {
		Convey("When recording a query", func() {
			before := testutil.ToFloat64(globalManager.queryRows.WithLabelValues("csv"))
			RecordQuery("csv", 1.5, 30)

			Convey("Then the row counter grows by the row count", func() {
				after := testutil.ToFloat64(globalManager.queryRows.WithLabelValues("csv"))
				So(after-before, ShouldEqual, 30.0)
			})
		})

		Convey("When recording export jobs", func() {
			before := testutil.ToFloat64(globalManager.exportJobs.WithLabelValues("ok"))
			RecordExportJob("ok", 12, 2048)
			RecordExportJob("ok", 8, 0)

			Convey("Then the job counter counts both", func() {
				So(testutil.ToFloat64(globalManager.exportJobs.WithLabelValues("ok"))-before, ShouldEqual, 2.0)
			})
		})

		Convey("When recording the remaining collectors", func() {
			So(func() {
				RecordHTTPRequest("dashboard", "GET", "200", 3)
				RecordHTTPError("api_players", "not_found")
				RecordQueryError("database")
				UpdateTablesLoaded(3)
				RecordRowsLoaded(120)
				RecordChartRender("career", "ok")
			}, ShouldNotPanic)

			Convey("Then the gauge reflects the last value", func() {
				So(testutil.ToFloat64(globalManager.tablesLoaded), ShouldEqual, 3.0)
			})
		})
	})
}

func TestRegistryExposition(t *testing.T) {
	Convey("Given the custom registry", t, func() {
		RecordHTTPRequest("healthz", "GET", "200", 1)
		families, err := GetRegistry().Gather()

		Convey("Then it exposes hoops metrics only", func() {
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "hoops_dashboard_"), ShouldBeTrue)
			}
		})
	})
}
