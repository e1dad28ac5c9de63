package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, func() int { return 3 })

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/employee/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employee/"+id, nil))
		require.Equal(t, http.StatusTeapot, rec.Code)
	}

	count := testutil.ToFloat64(m.totalRequests.WithLabelValues("/employee/{id}", http.MethodGet, "418"))
	assert.Equal(t, float64(2), count)
	assert.Equal(t, float64(3), testutil.ToFloat64(m.streamsGauge))
}

func TestObserveMark(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, nil)

	m.ObserveMark(MarkResultMarked, 12)
	m.ObserveMark(MarkResultOutsideRadius, 5000)
	m.ObserveMark(MarkResultError, -1)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.marks.WithLabelValues(MarkResultMarked)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.marks.WithLabelValues(MarkResultError)))

	var h dto.Metric
	require.NoError(t, m.markDistance.Write(&h))
	assert.Equal(t, uint64(2), h.GetHistogram().GetSampleCount())
}

func TestObserveMark_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.ObserveMark(MarkResultMarked, 1) })
}
