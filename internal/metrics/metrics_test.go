package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := NewManager(WithRegistry(prometheus.NewRegistry()))

		Convey("When runs finish", func() {
			m.RunFinished(20*time.Millisecond, "", nil)
			m.RunFinished(5*time.Millisecond, "DOMAIN", errors.New("boom"))
			m.RunFinished(5*time.Millisecond, "", errors.New("boom"))

			Convey("Then outcomes and kinds are counted", func() {
				So(testutil.ToFloat64(m.runs.WithLabelValues(StatusOK)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.runs.WithLabelValues(StatusError)), ShouldEqual, 2)
				So(testutil.ToFloat64(m.errors.WithLabelValues("DOMAIN")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.errors.WithLabelValues("INTERNAL")), ShouldEqual, 1)
			})
		})

		Convey("When requests are observed", func() {
			m.ObserveHTTP("/health", http.MethodGet, 200, time.Millisecond)
			m.ObserveHTTP("", http.MethodGet, 404, time.Millisecond)

			Convey("Then they are counted per route", func() {
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("/health", "GET", "200")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.httpRequests.WithLabelValues("unmatched", "GET", "404")), ShouldEqual, 1)
			})
		})

		Convey("When the handler is scraped", func() {
			m.RunFinished(time.Millisecond, "", nil)
			rec := httptest.NewRecorder()
			m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then it exposes the namespaced series", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				body := rec.Body.String()
				So(strings.Contains(body, `valuation_runs_total{status="ok"} 1`), ShouldBeTrue)
				So(strings.Contains(body, "valuation_run_duration_seconds_bucket"), ShouldBeTrue)
			})
		})
	})
}

func TestNilManager(t *testing.T) {
	Convey("Given a nil manager", t, func() {
		var m *Manager
		Convey("Then recording is a no-op", func() {
			So(func() { m.RunFinished(time.Second, "", nil) }, ShouldNotPanic)
			So(func() { m.ObserveHTTP("/", "GET", 200, time.Second) }, ShouldNotPanic)
		})
	})
}

func TestWithNamespace(t *testing.T) {
	m := NewManager(WithNamespace("custom"))
	m.RunFinished(time.Millisecond, "", nil)
	n, err := testutil.GatherAndCount(m.Registry(), "custom_runs_total")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("custom_runs_total series = %d, want 1", n)
	}
}
