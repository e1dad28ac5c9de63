// Package metrics exposes Prometheus collectors for HTTP traffic and attendance marking.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "attendance"

// Mark outcomes recorded by ObserveMark
const (
	MarkResultMarked        = "marked"
	MarkResultOutsideRadius = "outside_radius"
	MarkResultAlreadyMarked = "already_marked"
	MarkResultError         = "error"
)

type Metrics struct {
	httpDuration  *prometheus.HistogramVec
	totalRequests *prometheus.CounterVec
	marks         *prometheus.CounterVec
	markDistance  prometheus.Histogram
	streamsGauge  prometheus.GaugeFunc
	durationSum   prometheus.Summary
}

// New registers the collectors on reg. openStreams reports the live SSE stream count.
func New(reg prometheus.Registerer, openStreams func() int) *Metrics {
	if openStreams == nil {
		openStreams = func() int { return 0 }
	}
	m := &Metrics{
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "The duration of request",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "path"}),
		totalRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "total_requests",
			Help:      "The total number of requests",
		}, []string{"path", "method", "status"}),
		marks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mark_attempts_total",
			Help:      "Attendance mark attempts by outcome",
		}, []string{"result"}),
		markDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "mark_distance_meters",
			Help:      "Distance from the nearest office at mark time",
			Buckets:   []float64{10, 25, 50, 100, 250, 1000, 10000},
		}),
		streamsGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "team_streams_open",
			Help:      "Open team status event streams",
		}, func() float64 { return float64(openStreams()) }),
		durationSum: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace:  namespace,
			Name:       "request_duration_summary_seconds",
			Help:       "The duration of request",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}),
	}
	reg.MustRegister(m.httpDuration, m.totalRequests, m.marks, m.markDistance, m.streamsGauge, m.durationSum)
	return m
}

// ObserveMark records one mark attempt. distance is ignored when negative.
func (m *Metrics) ObserveMark(result string, distanceMeters float64) {
	if m == nil {
		return
	}
	m.marks.WithLabelValues(result).Inc()
	if distanceMeters >= 0 {
		m.markDistance.Observe(distanceMeters)
	}
}

// Middleware records request duration and status labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		elapsed := time.Since(start).Seconds()
		m.httpDuration.With(prometheus.Labels{"method": r.Method, "path": path}).Observe(elapsed)
		m.totalRequests.With(prometheus.Labels{"path": path, "method": r.Method, "status": strconv.Itoa(status)}).Inc()
		m.durationSum.Observe(elapsed)
	})
}
