package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"dormitory-backend/pkg/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg, "test")

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/api/bookings/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/bookings/a", "/api/bookings/b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP test_http_requests_total HTTP requests by route pattern, method and status.
# TYPE test_http_requests_total counter
test_http_requests_total{method="GET",route="/api/bookings/{id}",status="404"} 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_http_requests_total"))

	count, err := testutil.GatherAndCount(reg, "test_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
